// Package board serves the paged, sorted, filtered, grouped asset query
// API and implements the server half of the ordering contract.
package board

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// StartOpts holds configuration for the board server.
type StartOpts struct {
	DB              *gorm.DB
	Host            string
	Port            int
	Token           string
	DefaultPerPage  int
	MaxPerPage      int
	RefreshSchedule string
	Out             io.Writer
}

// Start launches the board HTTP server. It blocks until ctx is
// cancelled, then shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.DB == nil {
		return fmt.Errorf("board: db is required")
	}
	if opts.Port <= 0 {
		opts.Port = 8080
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	cache := &StatusCache{}
	if err := cache.Refresh(opts.DB); err != nil {
		return fmt.Errorf("board: initial status refresh: %w", err)
	}
	go cache.Run(ctx, opts.DB, opts.RefreshSchedule)

	registerRoutes(router, opts.DB, cache, opts)

	addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Board API listening at http://%s\n", addr)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("board: %w", err)
	}
	return nil
}
