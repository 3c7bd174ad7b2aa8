package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	configPath string
	dryRun     bool
)

var rootCmd = &cobra.Command{
	Use:   "tablesync [config.toml]",
	Short: "Declarative schema to database synchronizer",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSync,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to sync TOML config file")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print DDL statements without executing them")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runSync(cmd *cobra.Command, args []string) error {
	// Resolve config path: positional arg takes precedence over --config flag
	cfgPath := configPath
	if len(args) > 0 {
		cfgPath = args[0]
	}
	if cfgPath == "" {
		return fmt.Errorf("config file required: tablesync <config.toml> or tablesync --config <config.toml>")
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	start := time.Now()

	log.Printf("tablesync — declarative schema synchronizer")
	log.Printf("config: target=%s schema=%s tables=%d default_varchar_length=%d dry_run=%t",
		cfg.Target.Type, cfg.Target.Schema, len(cfg.Tables), cfg.DefaultVarcharLength, dryRun)

	target, err := newTargetDB(cfg.Target.Type)
	if err != nil {
		return err
	}

	log.Printf("connecting to %s...", target.Name())
	if err := target.Connect(ctx, cfg.Target.DSN); err != nil {
		return err
	}
	defer target.Close()

	log.Printf("reconciling %d tables...", len(cfg.Tables))
	if err := reconcileAll(ctx, target, cfg.DesiredTables(), cfg.DefaultVarcharLength, dryRun); err != nil {
		return err
	}

	log.Printf("sync completed in %s", time.Since(start).Round(time.Millisecond))
	return nil
}
