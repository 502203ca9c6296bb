package board

import (
	"testing"
	"time"

	"github.com/voss/pivotboard/internal/models"
)

func TestNextCronDuration(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want func(time.Duration) bool
	}{
		{"every five minutes", "*/5 * * * *", func(d time.Duration) bool { return d > 0 && d <= 5*time.Minute }},
		{"hourly", "0 * * * *", func(d time.Duration) bool { return d > 0 && d <= time.Hour }},
		{"invalid", "not a schedule", func(d time.Duration) bool { return d == 0 }},
		{"empty", "", func(d time.Duration) bool { return d == 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if d := nextCronDuration(tt.expr); !tt.want(d) {
				t.Errorf("nextCronDuration(%q) = %v", tt.expr, d)
			}
		})
	}
}

func TestStatusCache_RefreshDedupes(t *testing.T) {
	db := testDB(t)
	seedAsset(t, db, "chars", "a", func(a *models.AssetStatus) {
		a.MdlWork = strPtr("WIP")
	})
	seedAsset(t, db, "chars", "b", func(a *models.AssetStatus) {
		a.RigWork = strPtr("wip")
		a.RigAppr = strPtr("  ")
	})

	cache := &StatusCache{}
	if err := cache.Refresh(db); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	work, appr := cache.Statuses()
	if len(work) != 1 || work[0] != "wip" {
		t.Errorf("work = %v, want [wip] (case-folded, deduped)", work)
	}
	if len(appr) != 0 {
		t.Errorf("appr = %v, want empty (whitespace dropped)", appr)
	}
}

func TestStatusCache_EmptyDatabase(t *testing.T) {
	cache := &StatusCache{}
	if err := cache.Refresh(testDB(t)); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	work, appr := cache.Statuses()
	if len(work) != 0 || len(appr) != 0 {
		t.Errorf("statuses = %v/%v, want empty", work, appr)
	}
}
