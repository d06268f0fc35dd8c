package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andrescamacho/quoteflow-go/internal/adapters/messaging"
	"github.com/andrescamacho/quoteflow-go/internal/adapters/persistence"
	appnotification "github.com/andrescamacho/quoteflow-go/internal/application/notification"
	"github.com/andrescamacho/quoteflow-go/internal/domain/shared"
	"github.com/andrescamacho/quoteflow-go/internal/infrastructure/config"
	"github.com/andrescamacho/quoteflow-go/internal/infrastructure/database"
	"github.com/andrescamacho/quoteflow-go/internal/infrastructure/logging"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "notification-daemon",
		Short: "Consumes quote events and maintains tenant notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}
	rootCmd.Flags().StringVar(&configPath, "config", "",
		"Path to config file (defaults to config.yaml in search paths)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(&cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	notificationRepo := persistence.NewGormNotificationRepository(db)
	projection := appnotification.NewProjection(notificationRepo, shared.NewRealClock(), logger)
	consumer := messaging.NewQuoteEventsConsumer(&cfg.Messaging, projection, logger)
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("notification daemon starting",
		zap.Strings("brokers", cfg.Messaging.Brokers),
		zap.String("topic", cfg.Messaging.Topic),
		zap.String("group_id", cfg.Messaging.GroupID),
	)

	if err := consumer.Run(ctx); err != nil {
		return fmt.Errorf("consumer error: %w", err)
	}

	logger.Info("notification daemon stopped")
	return nil
}
