// Command glucoctl is the operator CLI: catalog seeding, food images, device
// key issuance and forecast dry runs against the configured database.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/pageza/glucowise/backend/config"
	"github.com/pageza/glucowise/backend/internal/database"
	"github.com/pageza/glucowise/backend/internal/logger"
)

var (
	logLevelFlag string
	rootCmd      = &cobra.Command{
		Use:           "glucoctl",
		Short:         "Administrative tasks for the GlucoWise backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// env carries what every subcommand needs.
type env struct {
	cfg *config.Config
	db  *gorm.DB
	log zerolog.Logger
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	log := logger.NewWithWriter(zerolog.ConsoleWriter{Out: os.Stderr}, "glucoctl", logLevelFlag)
	db, err := database.New(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return &env{cfg: cfg, db: db, log: log}, nil
}

func main() {
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "warn", "Log level")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
