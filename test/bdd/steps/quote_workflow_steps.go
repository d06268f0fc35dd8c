package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/andrescamacho/quoteflow-go/internal/adapters/persistence"
	"github.com/andrescamacho/quoteflow-go/internal/application/common"
	appnotification "github.com/andrescamacho/quoteflow-go/internal/application/notification"
	appquote "github.com/andrescamacho/quoteflow-go/internal/application/quote"
	"github.com/andrescamacho/quoteflow-go/internal/domain/notification"
	"github.com/andrescamacho/quoteflow-go/internal/domain/quote"
	"github.com/andrescamacho/quoteflow-go/internal/domain/shared"
	"github.com/andrescamacho/quoteflow-go/internal/infrastructure/database"
	"github.com/andrescamacho/quoteflow-go/test/helpers"
)

// quoteWorkflowContext wires real repositories and handlers over an
// in-memory database, with a recording publisher standing in for the broker.
type quoteWorkflowContext struct {
	db               *gorm.DB
	quoteRepo        *persistence.GormQuoteRequestRepository
	notificationRepo *persistence.GormNotificationRepository
	publisher        *helpers.MockEventPublisher
	projection       *appnotification.Projection

	createHandler   *appquote.CreateQuoteRequestHandler
	submitHandler   *appquote.SubmitResponseHandler
	acceptHandler   *appquote.AcceptResponseHandler
	cancelHandler   *appquote.CancelQuoteRequestHandler
	completeHandler *appquote.CompleteQuoteRequestHandler

	quoteRequestID string
	err            error
	eventsBefore   int
}

func (ctx *quoteWorkflowContext) reset() {
	db, err := database.NewTestConnection()
	if err != nil {
		panic(fmt.Errorf("failed to open test database: %w", err))
	}
	ctx.db = db

	clock := shared.NewMockClock(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
	logger := zap.NewNop()
	validator := common.NewValidator()

	ctx.quoteRepo = persistence.NewGormQuoteRequestRepository(db, clock)
	ctx.notificationRepo = persistence.NewGormNotificationRepository(db)
	ctx.publisher = helpers.NewMockEventPublisher()
	ctx.projection = appnotification.NewProjection(ctx.notificationRepo, clock, logger)

	ctx.createHandler = appquote.NewCreateQuoteRequestHandler(ctx.quoteRepo, ctx.publisher, validator, logger)
	ctx.submitHandler = appquote.NewSubmitResponseHandler(ctx.quoteRepo, ctx.publisher, validator, logger)
	ctx.acceptHandler = appquote.NewAcceptResponseHandler(ctx.quoteRepo, ctx.publisher, validator, logger)
	ctx.cancelHandler = appquote.NewCancelQuoteRequestHandler(ctx.quoteRepo, ctx.publisher, validator, logger)
	ctx.completeHandler = appquote.NewCompleteQuoteRequestHandler(ctx.quoteRepo, validator, logger)

	ctx.quoteRequestID = ""
	ctx.err = nil
	ctx.eventsBefore = 0
}

func (ctx *quoteWorkflowContext) markEvents() {
	ctx.eventsBefore = len(ctx.publisher.Published)
}

func (ctx *quoteWorkflowContext) createsQuoteRequest(requesterID, responderList string) error {
	ctx.markEvents()
	result, err := ctx.createHandler.Handle(context.Background(), &appquote.CreateQuoteRequestCommand{
		RequesterID:  requesterID,
		VoyageData:   lifecycleVoyage(),
		ResponderIDs: splitIDs(responderList),
	})
	ctx.err = err
	if response, ok := result.(*appquote.CreateQuoteRequestResponse); ok && response != nil {
		ctx.quoteRequestID = response.QuoteRequest.ID()
	}
	return nil
}

func (ctx *quoteWorkflowContext) hasCreatedQuoteRequest(requesterID, responderList string) error {
	if err := ctx.createsQuoteRequest(requesterID, responderList); err != nil {
		return err
	}
	if ctx.err != nil {
		return fmt.Errorf("precondition failed: %w", ctx.err)
	}
	return nil
}

func (ctx *quoteWorkflowContext) submitsResponse(responderID string, price int) error {
	ctx.markEvents()
	_, err := ctx.submitHandler.Handle(context.Background(), &appquote.SubmitResponseCommand{
		QuoteRequestID: ctx.quoteRequestID,
		ResponderID:    responderID,
		Price:          float64(price),
	})
	ctx.err = err
	return nil
}

func (ctx *quoteWorkflowContext) hasSubmittedResponse(responderID string, price int) error {
	if err := ctx.submitsResponse(responderID, price); err != nil {
		return err
	}
	if ctx.err != nil {
		return fmt.Errorf("precondition failed: %w", ctx.err)
	}
	return nil
}

func (ctx *quoteWorkflowContext) acceptsResponse(requesterID, responderID string) error {
	ctx.markEvents()
	_, err := ctx.acceptHandler.Handle(context.Background(), &appquote.AcceptResponseCommand{
		QuoteRequestID: ctx.quoteRequestID,
		ResponderID:    responderID,
		RequesterID:    requesterID,
	})
	ctx.err = err
	return nil
}

func (ctx *quoteWorkflowContext) persistedWithStatus(expected string) error {
	if ctx.err != nil {
		return fmt.Errorf("unexpected error: %w", ctx.err)
	}
	found, err := ctx.quoteRepo.FindByID(context.Background(), ctx.quoteRequestID)
	if err != nil {
		return err
	}
	if string(found.Status()) != expected {
		return fmt.Errorf("expected status %s, got %s", expected, found.Status())
	}
	return nil
}

func (ctx *quoteWorkflowContext) eventShouldBePublished(routingKey string) error {
	if len(ctx.publisher.EventsWithKey(routingKey)) == 0 {
		return fmt.Errorf("no event published with routing key %s", routingKey)
	}
	return nil
}

func (ctx *quoteWorkflowContext) noFurtherEvent() error {
	if published := len(ctx.publisher.Published); published != ctx.eventsBefore {
		return fmt.Errorf("expected no further events, got %d new", published-ctx.eventsBefore)
	}
	return nil
}

func (ctx *quoteWorkflowContext) acceptedEventListsRejected(responderID string) error {
	events := ctx.publisher.EventsWithKey(quote.EventResponseAccepted)
	if len(events) == 0 {
		return fmt.Errorf("no accepted event published")
	}
	event := events[len(events)-1].Payload.(quote.ResponseAcceptedEvent)
	for _, rejected := range event.RejectedResponderIDs {
		if rejected == responderID {
			return nil
		}
	}
	return fmt.Errorf("responder %s not listed as rejected in %v", responderID, event.RejectedResponderIDs)
}

// projectPublishedEvents replays every recorded event through the projection,
// the way the consumer would on delivery (or redelivery)
func (ctx *quoteWorkflowContext) projectPublishedEvents() error {
	for _, published := range ctx.publisher.Published {
		var err error
		switch event := published.Payload.(type) {
		case quote.QuoteRequestCreatedEvent:
			err = ctx.projection.HandleQuoteRequestCreated(context.Background(), event)
		case quote.ResponseSubmittedEvent:
			err = ctx.projection.HandleResponseSubmitted(context.Background(), event)
		case quote.ResponseAcceptedEvent:
			err = ctx.projection.HandleResponseAccepted(context.Background(), event)
		case quote.QuoteRequestCancelledEvent:
			err = ctx.projection.HandleQuoteRequestCancelled(context.Background(), event)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (ctx *quoteWorkflowContext) tenantShouldHaveNotifications(tenantID string, count int, typ string) error {
	found, err := ctx.notificationRepo.FindByTenantID(context.Background(), tenantID, 0, 0)
	if err != nil {
		return err
	}
	matching := 0
	for _, n := range found {
		if n.Type == notification.Type(typ) {
			matching++
		}
	}
	if matching != count {
		return fmt.Errorf("expected %d notifications of type %s for %s, got %d", count, typ, tenantID, matching)
	}
	return nil
}

func (ctx *quoteWorkflowContext) shouldFailWithAlreadySubmitted() error {
	if !quote.IsKind(ctx.err, quote.KindAlreadySubmitted) {
		return fmt.Errorf("expected already submitted error, got %v", ctx.err)
	}
	return nil
}

func (ctx *quoteWorkflowContext) shouldFailWithUnauthorized() error {
	if !quote.IsKind(ctx.err, quote.KindUnauthorized) {
		return fmt.Errorf("expected unauthorized error, got %v", ctx.err)
	}
	return nil
}

// InitializeQuoteWorkflowScenario registers the application layer steps
func InitializeQuoteWorkflowScenario(sc *godog.ScenarioContext) {
	ctx := &quoteWorkflowContext{}

	sc.Before(func(c context.Context, _ *godog.Scenario) (context.Context, error) {
		ctx.reset()
		return c, nil
	})
	sc.After(func(c context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		if ctx.db != nil {
			_ = database.Close(ctx.db)
		}
		return c, nil
	})

	sc.Step(`^"([^"]*)" creates a quote request towards "([^"]*)"$`, ctx.createsQuoteRequest)
	sc.Step(`^"([^"]*)" has created a quote request towards "([^"]*)"$`, ctx.hasCreatedQuoteRequest)
	sc.Step(`^"([^"]*)" submits a response of (\d+) through the service$`, ctx.submitsResponse)
	sc.Step(`^"([^"]*)" has submitted a response of (\d+) through the service$`, ctx.hasSubmittedResponse)
	sc.Step(`^"([^"]*)" accepts the response from "([^"]*)" through the service$`, ctx.acceptsResponse)
	sc.Step(`^the request is persisted with status "([^"]*)"$`, ctx.persistedWithStatus)
	sc.Step(`^an event "([^"]*)" should be published$`, ctx.eventShouldBePublished)
	sc.Step(`^no further event should be published$`, ctx.noFurtherEvent)
	sc.Step(`^the accepted event should list "([^"]*)" as rejected$`, ctx.acceptedEventListsRejected)
	sc.Step(`^the published events are projected into notifications$`, ctx.projectPublishedEvents)
	sc.Step(`^tenant "([^"]*)" should have (\d+) notifications? of type "([^"]*)"$`, ctx.tenantShouldHaveNotifications)
	sc.Step(`^the operation should fail with an already submitted error$`, ctx.shouldFailWithAlreadySubmitted)
	sc.Step(`^the operation should fail with an unauthorized error$`, ctx.shouldFailWithUnauthorized)
}
