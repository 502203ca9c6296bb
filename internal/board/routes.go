package board

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/voss/pivotboard/internal/models"
)

// registerRoutes sets up all board API routes on the Gin router.
func registerRoutes(router *gin.Engine, db *gorm.DB, cache *StatusCache, opts StartOpts) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api", requireToken(opts.Token))
	api.GET("/projects", handleProjects(db))
	api.GET("/projects/:project/assets", handleAssets(db, opts))
	api.GET("/projects/:project/statuses", handleStatuses(cache))
}

// requireToken enforces a bearer token when one is configured. A missing
// or wrong token gets a 401 so clients can surface a distinct
// authorization error instead of a generic fetch failure.
func requireToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			return
		}
		got := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if got != token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		}
	}
}

func handleProjects(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var projects []models.Project
		if err := db.Where("active = ?", true).Order("name ASC").Find(&projects).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"projects": projects})
	}
}

func handleAssets(db *gorm.DB, opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := Params{
			Project:  c.Param("project"),
			Page:     intQuery(c, "page"),
			PerPage:  intQuery(c, "per_page"),
			Sort:     c.Query("sort"),
			Dir:      c.Query("dir"),
			Phase:    c.Query("phase"),
			Name:     c.Query("name"),
			NameMode: c.Query("name_mode"),
			Work:     c.Query("work"),
			Appr:     c.Query("appr"),
		}
		res, err := ListAssets(db, p, ListOpts{
			DefaultPerPage: opts.DefaultPerPage,
			MaxPerPage:     opts.MaxPerPage,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func handleStatuses(cache *StatusCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		work, appr := cache.Statuses()
		c.JSON(http.StatusOK, gin.H{"work": work, "appr": appr})
	}
}

// intQuery parses an integer query param; malformed values clamp to 0 so
// ListAssets applies its defaults instead of failing.
func intQuery(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}
