package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/grahmind/careers-waitlist/config"
	"github.com/grahmind/careers-waitlist/domain"
	"github.com/grahmind/careers-waitlist/internal/log"
	"github.com/grahmind/careers-waitlist/pkg/migrations"
	"github.com/grahmind/careers-waitlist/pkg/utils"
)

func main() {
	logger := log.NewLoggerWithJSONOutput()

	config.InitializeEnvFile(logger) // Load envs early for CLI consistency

	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "migrate":
		if err := runMigrate(logger, args[1:]); err != nil {
			logger.Error("Database migration failed", "error", err.Error())
			os.Exit(1)
		}
		logger.Info("Database migrations completed")

	case "export", "stats":
		cfg := config.NewAppConfig(logger)
		updater, _ := domain.NewListUpdater(cfg, logger, nil)
		view := domain.NewDashboardView(cfg, updater, logger)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
		defer cancel()

		var err error
		if args[0] == "export" {
			err = runExport(ctx, view, args[1:], os.Stdout)
		} else {
			err = runStats(ctx, view, os.Stdout)
		}
		if err != nil {
			logger.Error("Command failed", "command", args[0], "error", err.Error())
			os.Exit(1)
		}

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func runMigrate(logger *log.Logger, args []string) error {
	direction := "up"
	if len(args) > 0 {
		direction = args[0]
	}
	if direction != "up" && direction != "down" {
		return fmt.Errorf("unknown migrate direction %q (want up or down)", direction)
	}

	db, err := config.NewDatabase(logger, config.DefaultDBConfig())
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("sql handle: %w", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("Failed to close SQL DB after migration", "error", err.Error())
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg := migrations.Config{Dir: utils.GetEnvTrimmed("MIGRATIONS_DIR"), Logger: logger}
	if direction == "down" {
		return migrations.Down(ctx, sqlDB, cfg)
	}
	return migrations.Up(ctx, sqlDB, cfg)
}

func printUsage() {
	fmt.Println("Usage: cli <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  migrate [up|down]  Apply or revert the admin session schema (MIGRATIONS_DIR overrides the embedded files)")
	fmt.Println("  export             Write the waitlist as CSV; flags: -search, -filter all|today|week, -out path|-")
	fmt.Println("  stats              Print {total, today, week} as JSON")
}
