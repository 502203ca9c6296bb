package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/voss/pivotboard/internal/board"
	"github.com/voss/pivotboard/internal/config"
	"github.com/voss/pivotboard/internal/db"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the board query API",
		Long:  "Serves the paged, sorted, filtered, grouped asset pivot endpoint.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "pivotboard.yaml", "path to pivotboard config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if port == 0 {
		port = cfg.Server.Port
	}

	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	return board.Start(ctx, board.StartOpts{
		DB:              gormDB,
		Host:            cfg.Server.Host,
		Port:            port,
		Token:           cfg.Server.Token,
		DefaultPerPage:  cfg.Board.DefaultPerPage,
		MaxPerPage:      cfg.Board.MaxPerPage,
		RefreshSchedule: cfg.Board.RefreshSchedule,
		Out:             cmd.OutOrStdout(),
	})
}
