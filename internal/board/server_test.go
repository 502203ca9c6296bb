package board

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/voss/pivotboard/internal/models"
)

func testRouter(t *testing.T, db *gorm.DB, token string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	cache := &StatusCache{}
	if err := cache.Refresh(db); err != nil {
		t.Fatalf("refresh cache: %v", err)
	}
	registerRoutes(router, db, cache, StartOpts{Token: token})
	return router
}

func doGET(router *gin.Engine, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestStart_NilDB(t *testing.T) {
	err := Start(context.Background(), StartOpts{DB: nil})
	if err == nil {
		t.Fatal("expected error for nil db")
	}
	if !strings.Contains(err.Error(), "db is required") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "db is required")
	}
}

func TestHealthz_NoAuthRequired(t *testing.T) {
	router := testRouter(t, testDB(t), "sekrit")
	w := doGET(router, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestAssets_Unauthorized(t *testing.T) {
	router := testRouter(t, testDB(t), "sekrit")

	tests := []struct {
		name    string
		headers map[string]string
	}{
		{"missing header", nil},
		{"wrong token", map[string]string{"Authorization": "Bearer nope"}},
		{"malformed header", map[string]string{"Authorization": "sekrit"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGET(router, "/api/projects/alpha/assets", tt.headers)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
			if !strings.Contains(w.Body.String(), "unauthorized") {
				t.Errorf("body = %q, want unauthorized error", w.Body.String())
			}
		})
	}
}

func TestAssets_AuthorizedWithToken(t *testing.T) {
	db := testDB(t)
	seedAsset(t, db, "chars", "hero", nil)
	router := testRouter(t, db, "sekrit")

	w := doGET(router, "/api/projects/alpha/assets", map[string]string{
		"Authorization": "Bearer sekrit",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestAssets_NoTokenConfigured(t *testing.T) {
	db := testDB(t)
	seedAsset(t, db, "chars", "hero", nil)
	router := testRouter(t, db, "")

	w := doGET(router, "/api/projects/alpha/assets?sort=mdl_take&dir=ASC", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var res Result
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if res.Total != 1 || len(res.Assets) != 1 {
		t.Errorf("result = %+v, want one asset", res)
	}
	if res.Sort != "mdl_take" {
		t.Errorf("sort = %q, want mdl_take", res.Sort)
	}
}

func TestAssets_EmptyResultIsNotAnError(t *testing.T) {
	router := testRouter(t, testDB(t), "")
	w := doGET(router, "/api/projects/alpha/assets", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var res Result
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if res.Total != 0 || len(res.Assets) != 0 || len(res.Groups) != 0 {
		t.Errorf("result = %+v, want empty", res)
	}
}

func TestAssets_MalformedPageParamsClamp(t *testing.T) {
	db := testDB(t)
	seedAsset(t, db, "chars", "hero", nil)
	router := testRouter(t, db, "")

	w := doGET(router, "/api/projects/alpha/assets?page=banana&per_page=-2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var res Result
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if res.Page != 1 {
		t.Errorf("page = %d, want clamped to 1", res.Page)
	}
	if res.PerPage < 1 {
		t.Errorf("per_page = %d, want positive default", res.PerPage)
	}
}

func TestStatuses_Endpoint(t *testing.T) {
	db := testDB(t)
	seedAsset(t, db, "chars", "hero", func(a *models.AssetStatus) {
		a.MdlWork = strPtr("WIP")
		a.RigWork = strPtr("done")
		a.MdlAppr = strPtr("Pending")
	})
	router := testRouter(t, db, "")

	w := doGET(router, "/api/projects/alpha/statuses", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var res struct {
		Work []string `json:"work"`
		Appr []string `json:"appr"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	wantWork := []string{"done", "wip"}
	if len(res.Work) != 2 || res.Work[0] != wantWork[0] || res.Work[1] != wantWork[1] {
		t.Errorf("work = %v, want %v", res.Work, wantWork)
	}
	if len(res.Appr) != 1 || res.Appr[0] != "pending" {
		t.Errorf("appr = %v, want [pending]", res.Appr)
	}
}

func TestProjects_Endpoint(t *testing.T) {
	db := testDB(t)
	if err := db.Create(&models.Project{Name: "alpha", Active: true}).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}
	router := testRouter(t, db, "")

	w := doGET(router, "/api/projects", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "alpha") {
		t.Errorf("body = %q, want to contain alpha", w.Body.String())
	}
}
