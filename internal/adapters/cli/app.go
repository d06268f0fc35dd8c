package cli

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/andrescamacho/quoteflow-go/internal/adapters/messaging"
	"github.com/andrescamacho/quoteflow-go/internal/adapters/persistence"
	"github.com/andrescamacho/quoteflow-go/internal/application/common"
	appnotification "github.com/andrescamacho/quoteflow-go/internal/application/notification"
	appquote "github.com/andrescamacho/quoteflow-go/internal/application/quote"
	"github.com/andrescamacho/quoteflow-go/internal/domain/shared"
	"github.com/andrescamacho/quoteflow-go/internal/infrastructure/config"
	"github.com/andrescamacho/quoteflow-go/internal/infrastructure/database"
	"github.com/andrescamacho/quoteflow-go/internal/infrastructure/logging"
)

// App bundles the wired application for the CLI commands. Commands construct
// it on demand so that a plain `--help` never touches the database or broker.
type App struct {
	Config        *config.Config
	Logger        *zap.Logger
	DB            *gorm.DB
	Mediator      common.Mediator
	Notifications *appnotification.Service
	Projection    *appnotification.Projection

	publisher *messaging.KafkaEventPublisher
}

// NewApp loads configuration and wires repositories, publisher and handlers
func NewApp(configPath string) (*App, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, err
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	clock := shared.NewRealClock()
	quoteRepo := persistence.NewGormQuoteRequestRepository(db, clock)
	notificationRepo := persistence.NewGormNotificationRepository(db)
	publisher := messaging.NewKafkaEventPublisher(&cfg.Messaging, clock, logger)
	validator := common.NewValidator()

	med := common.NewMediator()

	createHandler := appquote.NewCreateQuoteRequestHandler(quoteRepo, publisher, validator, logger)
	if err := common.RegisterHandler[*appquote.CreateQuoteRequestCommand](med, createHandler); err != nil {
		return nil, fmt.Errorf("failed to register CreateQuoteRequest handler: %w", err)
	}

	submitHandler := appquote.NewSubmitResponseHandler(quoteRepo, publisher, validator, logger)
	if err := common.RegisterHandler[*appquote.SubmitResponseCommand](med, submitHandler); err != nil {
		return nil, fmt.Errorf("failed to register SubmitResponse handler: %w", err)
	}

	acceptHandler := appquote.NewAcceptResponseHandler(quoteRepo, publisher, validator, logger)
	if err := common.RegisterHandler[*appquote.AcceptResponseCommand](med, acceptHandler); err != nil {
		return nil, fmt.Errorf("failed to register AcceptResponse handler: %w", err)
	}

	cancelHandler := appquote.NewCancelQuoteRequestHandler(quoteRepo, publisher, validator, logger)
	if err := common.RegisterHandler[*appquote.CancelQuoteRequestCommand](med, cancelHandler); err != nil {
		return nil, fmt.Errorf("failed to register CancelQuoteRequest handler: %w", err)
	}

	completeHandler := appquote.NewCompleteQuoteRequestHandler(quoteRepo, validator, logger)
	if err := common.RegisterHandler[*appquote.CompleteQuoteRequestCommand](med, completeHandler); err != nil {
		return nil, fmt.Errorf("failed to register CompleteQuoteRequest handler: %w", err)
	}

	listByRequesterHandler := appquote.NewListByRequesterHandler(quoteRepo, validator)
	if err := common.RegisterHandler[*appquote.ListByRequesterQuery](med, listByRequesterHandler); err != nil {
		return nil, fmt.Errorf("failed to register ListByRequester handler: %w", err)
	}

	listPendingHandler := appquote.NewListPendingByResponderHandler(quoteRepo, validator)
	if err := common.RegisterHandler[*appquote.ListPendingByResponderQuery](med, listPendingHandler); err != nil {
		return nil, fmt.Errorf("failed to register ListPendingByResponder handler: %w", err)
	}

	return &App{
		Config:        cfg,
		Logger:        logger,
		DB:            db,
		Mediator:      med,
		Notifications: appnotification.NewService(notificationRepo),
		Projection:    appnotification.NewProjection(notificationRepo, clock, logger),
		publisher:     publisher,
	}, nil
}

// Close releases the broker and database connections
func (a *App) Close() {
	if err := a.publisher.Close(); err != nil {
		a.Logger.Warn("failed to close event publisher", zap.Error(err))
	}
	if err := database.Close(a.DB); err != nil {
		a.Logger.Warn("failed to close database", zap.Error(err))
	}
	_ = a.Logger.Sync()
}
