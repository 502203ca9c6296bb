package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voss/pivotboard/internal/config"
	"github.com/voss/pivotboard/internal/db"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}

	cmd.AddCommand(newDBInitCmd())
	cmd.AddCommand(newDBSeedCmd())
	return cmd
}

func newDBInitCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the pivotboard database",
		Long:  "Creates the database if needed, migrates all tables, and seeds configured projects.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBInit(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "pivotboard.yaml", "path to pivotboard config file")
	return cmd
}

func runDBInit(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	fmt.Fprintf(out, "Loaded config from %s (driver: %s)\n", configPath, cfg.Database.Driver)

	if cfg.Database.Driver == "mysql" {
		adminDB, err := db.ConnectAdmin(cfg.Database.Host, cfg.Database.Port)
		if err != nil {
			return err
		}
		if err := db.CreateDatabase(adminDB, cfg.Database.Database); err != nil {
			return err
		}
		fmt.Fprintf(out, "Database %s ready\n", cfg.Database.Database)
	}

	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}
	fmt.Fprintln(out, "Tables migrated")

	if err := db.SeedProjects(gormDB, cfg.Projects); err != nil {
		return err
	}
	fmt.Fprintf(out, "Seeded %d project(s)\n", len(cfg.Projects))
	return nil
}

func newDBSeedCmd() *cobra.Command {
	var (
		configPath string
		seedFile   string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load asset rows from a YAML seed file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBSeed(cmd, configPath, seedFile)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "pivotboard.yaml", "path to pivotboard config file")
	cmd.Flags().StringVarP(&seedFile, "file", "f", "assets.yaml", "path to asset seed file")
	return cmd
}

func runDBSeed(cmd *cobra.Command, configPath, seedFile string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	assets, err := db.LoadSeedFile(seedFile)
	if err != nil {
		return err
	}

	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}

	inserted, err := db.SeedAssets(gormDB, assets)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Inserted %d of %d asset row(s)\n", inserted, len(assets))
	return nil
}
