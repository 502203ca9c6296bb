package board

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/voss/pivotboard/internal/models"
	"github.com/voss/pivotboard/internal/pivot"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// nextCronDuration parses a 5-field cron expression and returns the
// duration until the next fire time. Returns 0 on parse error.
func nextCronDuration(expr string) time.Duration {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return 0
	}
	next := sched.Next(time.Now())
	d := time.Until(next)
	if d < 0 {
		return 0
	}
	return d
}

// StatusCache holds the distinct work and approval status values seen
// across all phases, for filter dropdowns. It refreshes on a cron
// schedule while the server runs.
type StatusCache struct {
	mu   sync.RWMutex
	work []string
	appr []string
}

// Refresh re-reads distinct status values from every phase column.
func (c *StatusCache) Refresh(db *gorm.DB) error {
	work := make(map[string]bool)
	appr := make(map[string]bool)

	for _, p := range pivot.Phases() {
		if err := collectDistinct(db, string(p)+"_work", work); err != nil {
			return err
		}
		if err := collectDistinct(db, string(p)+"_appr", appr); err != nil {
			return err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.work = sortedKeys(work)
	c.appr = sortedKeys(appr)
	return nil
}

func collectDistinct(db *gorm.DB, col string, into map[string]bool) error {
	var values []*string
	err := db.Model(&models.AssetStatus{}).
		Distinct(col).
		Pluck(col, &values).Error
	if err != nil {
		return fmt.Errorf("board: distinct %s: %w", col, err)
	}
	for _, v := range values {
		if v == nil {
			continue
		}
		s := strings.ToLower(strings.TrimSpace(*v))
		if s != "" {
			into[s] = true
		}
	}
	return nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Statuses returns the cached distinct work and approval statuses.
func (c *StatusCache) Statuses() (work, appr []string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.work...), append([]string(nil), c.appr...)
}

// Run refreshes the cache on the given cron schedule until ctx is
// cancelled. An unparseable schedule disables periodic refresh.
func (c *StatusCache) Run(ctx context.Context, db *gorm.DB, schedule string) {
	for {
		d := nextCronDuration(schedule)
		if d == 0 {
			return
		}
		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			c.Refresh(db)
		}
	}
}
