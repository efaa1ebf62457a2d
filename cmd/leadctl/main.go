// Command leadctl is the operator console for the lead pipeline: it takes
// quote requests over the terminal and moves leads between statuses.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cleanclear-sd/lead-api/internal/config"
	"github.com/cleanclear-sd/lead-api/internal/database"
	"github.com/cleanclear-sd/lead-api/internal/events"
	"github.com/cleanclear-sd/lead-api/internal/logger"
	"github.com/cleanclear-sd/lead-api/internal/repository"
	"github.com/cleanclear-sd/lead-api/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootFlags struct {
	verbose bool
}

var rootCmd = &cobra.Command{
	Use:           "leadctl",
	Short:         "Operator console for Clean & Clear quote requests and leads",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootFlags.verbose, "verbose", "v", false, "Log at the configured level instead of warnings only")

	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(leadsCmd)
	rootCmd.AddCommand(catalogCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is the wiring shared by commands that talk to the database
type app struct {
	log   *zap.Logger
	leads *service.LeadService
	close func()
}

func openApp(ctx context.Context) (*app, error) {
	basicCfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if !rootFlags.verbose {
		basicCfg.Logging.Level = "warn"
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Writes still reach realtime clients through the lead_changes trigger.
	leads := service.NewLeadService(
		repository.NewLeadRepository(db),
		repository.NewLeadStatusHistoryRepository(db),
		events.Nop{},
		log,
		db,
	)

	return &app{
		log:   log,
		leads: leads,
		close: func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
			_ = log.Sync()
		},
	}, nil
}
