package steps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/quoteflow-go/internal/domain/quote"
	"github.com/andrescamacho/quoteflow-go/internal/domain/shared"
)

// quoteLifecycleContext drives the aggregate state machine directly,
// without persistence or handlers.
type quoteLifecycleContext struct {
	qr    *quote.QuoteRequest
	err   error
	clock *shared.MockClock
}

func (ctx *quoteLifecycleContext) reset() {
	ctx.qr = nil
	ctx.err = nil
	ctx.clock = shared.NewMockClock(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
}

func splitIDs(list string) []string {
	parts := strings.Split(list, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		ids = append(ids, strings.TrimSpace(p))
	}
	return ids
}

func (ctx *quoteLifecycleContext) aQuoteRequestTowards(requesterID, responderList string) error {
	qr, err := quote.NewQuoteRequest(
		shared.MustNewTenantID(requesterID), lifecycleVoyage(), splitIDs(responderList), ctx.clock,
	)
	if err != nil {
		return err
	}
	ctx.qr = qr
	return nil
}

func lifecycleVoyage() quote.VoyageData {
	return quote.VoyageData{
		DeparturePort:   quote.Port{Code: "SGSIN", Name: "Singapore"},
		DestinationPort: quote.Port{Code: "NLRTM", Name: "Rotterdam"},
		CargoType:       quote.CargoTypeContainer,
		CargoWeight:     18000,
		VesselType:      quote.VesselTypeContainerShip,
		DepartureDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (ctx *quoteLifecycleContext) responderSubmits(responderID string, price int) error {
	assignment, ok := ctx.qr.FindResponder(responderID)
	if !ok {
		ctx.err = quote.NewResponderNotFoundError(ctx.qr.ID(), responderID)
		return nil
	}
	ctx.err = assignment.SubmitResponse(float64(price), "")
	return nil
}

func (ctx *quoteLifecycleContext) responderHasSubmitted(responderID string, price int) error {
	if err := ctx.responderSubmits(responderID, price); err != nil {
		return err
	}
	if ctx.err != nil {
		return fmt.Errorf("precondition failed: %w", ctx.err)
	}
	return nil
}

func (ctx *quoteLifecycleContext) requesterAccepts(responderID string) error {
	ctx.err = ctx.qr.AcceptResponse(responderID)
	return nil
}

func (ctx *quoteLifecycleContext) requesterHasAccepted(responderID string) error {
	if err := ctx.qr.AcceptResponse(responderID); err != nil {
		return fmt.Errorf("precondition failed: %w", err)
	}
	return nil
}

func (ctx *quoteLifecycleContext) requesterCancels() error {
	ctx.err = ctx.qr.Cancel()
	return nil
}

func (ctx *quoteLifecycleContext) requesterHasCancelled() error {
	if err := ctx.qr.Cancel(); err != nil {
		return fmt.Errorf("precondition failed: %w", err)
	}
	return nil
}

func (ctx *quoteLifecycleContext) requesterCompletes() error {
	ctx.err = ctx.qr.Complete()
	return nil
}

func (ctx *quoteLifecycleContext) statusShouldBe(expected string) error {
	if string(ctx.qr.Status()) != expected {
		return fmt.Errorf("expected status %s, got %s", expected, ctx.qr.Status())
	}
	return nil
}

func (ctx *quoteLifecycleContext) everyAssignmentShouldBe(expected string) error {
	for _, assignment := range ctx.qr.Assignments() {
		if string(assignment.Status()) != expected {
			return fmt.Errorf("expected assignment of %s to be %s, got %s",
				assignment.ResponderID(), expected, assignment.Status())
		}
	}
	return nil
}

func (ctx *quoteLifecycleContext) assignmentShouldBeWithPrice(responderID, expected string, price int) error {
	if err := ctx.assignmentShouldBe(responderID, expected); err != nil {
		return err
	}
	assignment, _ := ctx.qr.FindResponder(responderID)
	if assignment.Price() == nil || *assignment.Price() != float64(price) {
		return fmt.Errorf("expected price %d for %s, got %v", price, responderID, assignment.Price())
	}
	return nil
}

func (ctx *quoteLifecycleContext) assignmentShouldBe(responderID, expected string) error {
	assignment, ok := ctx.qr.FindResponder(responderID)
	if !ok {
		return fmt.Errorf("responder %s not found", responderID)
	}
	if string(assignment.Status()) != expected {
		return fmt.Errorf("expected assignment of %s to be %s, got %s",
			responderID, expected, assignment.Status())
	}
	return nil
}

func (ctx *quoteLifecycleContext) shouldFailWithInvalidState() error {
	if !quote.IsKind(ctx.err, quote.KindInvalidState) {
		return fmt.Errorf("expected invalid state error, got %v", ctx.err)
	}
	return nil
}

func (ctx *quoteLifecycleContext) shouldFailWithAlreadyFinalized() error {
	if !quote.IsKind(ctx.err, quote.KindAlreadyFinalized) {
		return fmt.Errorf("expected already finalized error, got %v", ctx.err)
	}
	return nil
}

// InitializeQuoteLifecycleScenario registers the aggregate state machine steps
func InitializeQuoteLifecycleScenario(sc *godog.ScenarioContext) {
	ctx := &quoteLifecycleContext{}

	sc.Before(func(c context.Context, _ *godog.Scenario) (context.Context, error) {
		ctx.reset()
		return c, nil
	})

	sc.Step(`^a quote request from "([^"]*)" towards responders "([^"]*)"$`, ctx.aQuoteRequestTowards)
	sc.Step(`^responder "([^"]*)" submits a response of (\d+)$`, ctx.responderSubmits)
	sc.Step(`^responder "([^"]*)" has submitted a response of (\d+)$`, ctx.responderHasSubmitted)
	sc.Step(`^the requester accepts the response from "([^"]*)"$`, ctx.requesterAccepts)
	sc.Step(`^the requester has accepted the response from "([^"]*)"$`, ctx.requesterHasAccepted)
	sc.Step(`^the requester cancels the quote request$`, ctx.requesterCancels)
	sc.Step(`^the requester has cancelled the quote request$`, ctx.requesterHasCancelled)
	sc.Step(`^the requester completes the quote request$`, ctx.requesterCompletes)
	sc.Step(`^the quote request status should be "([^"]*)"$`, ctx.statusShouldBe)
	sc.Step(`^every responder assignment should be "([^"]*)"$`, ctx.everyAssignmentShouldBe)
	sc.Step(`^the assignment of "([^"]*)" should be "([^"]*)" with price (\d+)$`, ctx.assignmentShouldBeWithPrice)
	sc.Step(`^the assignment of "([^"]*)" should be "([^"]*)"$`, ctx.assignmentShouldBe)
	sc.Step(`^the operation should fail with an invalid state error$`, ctx.shouldFailWithInvalidState)
	sc.Step(`^the operation should fail with an already finalized error$`, ctx.shouldFailWithAlreadyFinalized)
}
