package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	appquote "github.com/andrescamacho/quoteflow-go/internal/application/quote"
	"github.com/andrescamacho/quoteflow-go/internal/domain/quote"
)

// NewQuoteCommand creates the quote command group
func NewQuoteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Manage quote requests",
	}

	cmd.AddCommand(newQuoteCreateCommand())
	cmd.AddCommand(newQuoteSubmitCommand())
	cmd.AddCommand(newQuoteAcceptCommand())
	cmd.AddCommand(newQuoteCancelCommand())
	cmd.AddCommand(newQuoteCompleteCommand())
	cmd.AddCommand(newQuoteListCommand())
	cmd.AddCommand(newQuotePendingCommand())

	return cmd
}

func newQuoteCreateCommand() *cobra.Command {
	var (
		requesterID     string
		responderIDs    []string
		departureCode   string
		departureName   string
		destinationCode string
		destinationName string
		cargoType       string
		cargoWeight     float64
		vesselType      string
		departureDate   string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a new quote request towards a set of responders",
		RunE: func(cmd *cobra.Command, args []string) error {
			departure, err := time.Parse(time.RFC3339, departureDate)
			if err != nil {
				return fmt.Errorf("invalid --departure-date (want RFC3339): %w", err)
			}

			app, err := NewApp(configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.Mediator.Send(context.Background(), &appquote.CreateQuoteRequestCommand{
				RequesterID:  requesterID,
				ResponderIDs: responderIDs,
				VoyageData: quote.VoyageData{
					DeparturePort:   quote.Port{Code: departureCode, Name: departureName},
					DestinationPort: quote.Port{Code: destinationCode, Name: destinationName},
					CargoType:       quote.CargoType(cargoType),
					CargoWeight:     cargoWeight,
					VesselType:      quote.VesselType(vesselType),
					DepartureDate:   departure,
				},
			})
			if err != nil {
				return err
			}

			response := result.(*appquote.CreateQuoteRequestResponse)
			fmt.Printf("✓ Quote request created: %s\n", response.QuoteRequest.ID())
			printQuoteRequest(response.QuoteRequest)
			return nil
		},
	}

	cmd.Flags().StringVar(&requesterID, "requester", "", "Requester tenant id")
	cmd.Flags().StringSliceVar(&responderIDs, "responders", nil, "Responder tenant ids (comma separated)")
	cmd.Flags().StringVar(&departureCode, "departure-code", "", "Departure port code")
	cmd.Flags().StringVar(&departureName, "departure-name", "", "Departure port name")
	cmd.Flags().StringVar(&destinationCode, "destination-code", "", "Destination port code")
	cmd.Flags().StringVar(&destinationName, "destination-name", "", "Destination port name")
	cmd.Flags().StringVar(&cargoType, "cargo-type", "", "Cargo type (CONTAINER, BULK, LIQUID, BREAKBULK)")
	cmd.Flags().Float64Var(&cargoWeight, "cargo-weight", 0, "Cargo weight in tons")
	cmd.Flags().StringVar(&vesselType, "vessel-type", "", "Vessel type (CONTAINER_SHIP, BULK_CARRIER, TANKER, CARGO)")
	cmd.Flags().StringVar(&departureDate, "departure-date", "", "Departure date (RFC3339)")
	_ = cmd.MarkFlagRequired("requester")
	_ = cmd.MarkFlagRequired("responders")

	return cmd
}

func newQuoteSubmitCommand() *cobra.Command {
	var (
		quoteRequestID string
		responderID    string
		price          float64
		comments       string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a priced response as a responder",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.Mediator.Send(context.Background(), &appquote.SubmitResponseCommand{
				QuoteRequestID: quoteRequestID,
				ResponderID:    responderID,
				Price:          price,
				Comments:       comments,
			})
			if err != nil {
				return err
			}

			response := result.(*appquote.SubmitResponseResponse)
			fmt.Printf("✓ Response submitted on quote request %s\n", response.QuoteRequest.ID())
			printQuoteRequest(response.QuoteRequest)
			return nil
		},
	}

	cmd.Flags().StringVar(&quoteRequestID, "quote", "", "Quote request id")
	cmd.Flags().StringVar(&responderID, "responder", "", "Responder tenant id")
	cmd.Flags().Float64Var(&price, "price", 0, "Quoted price")
	cmd.Flags().StringVar(&comments, "comments", "", "Optional comments")
	_ = cmd.MarkFlagRequired("quote")
	_ = cmd.MarkFlagRequired("responder")
	_ = cmd.MarkFlagRequired("price")

	return cmd
}

func newQuoteAcceptCommand() *cobra.Command {
	var (
		quoteRequestID string
		responderID    string
		requesterID    string
	)

	cmd := &cobra.Command{
		Use:   "accept",
		Short: "Accept a submitted response and reject the others",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.Mediator.Send(context.Background(), &appquote.AcceptResponseCommand{
				QuoteRequestID: quoteRequestID,
				ResponderID:    responderID,
				RequesterID:    requesterID,
			})
			if err != nil {
				return err
			}

			response := result.(*appquote.AcceptResponseResponse)
			fmt.Printf("✓ Response from %s accepted\n", responderID)
			if len(response.RejectedResponderIDs) > 0 {
				fmt.Printf("  Rejected responders: %v\n", response.RejectedResponderIDs)
			}
			printQuoteRequest(response.QuoteRequest)
			return nil
		},
	}

	cmd.Flags().StringVar(&quoteRequestID, "quote", "", "Quote request id")
	cmd.Flags().StringVar(&responderID, "responder", "", "Responder whose response to accept")
	cmd.Flags().StringVar(&requesterID, "requester", "", "Requester tenant id (authorization)")
	_ = cmd.MarkFlagRequired("quote")
	_ = cmd.MarkFlagRequired("responder")
	_ = cmd.MarkFlagRequired("requester")

	return cmd
}

func newQuoteCancelCommand() *cobra.Command {
	var (
		quoteRequestID string
		requesterID    string
	)

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel a quote request",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.Mediator.Send(context.Background(), &appquote.CancelQuoteRequestCommand{
				QuoteRequestID: quoteRequestID,
				RequesterID:    requesterID,
			})
			if err != nil {
				return err
			}

			response := result.(*appquote.CancelQuoteRequestResponse)
			fmt.Printf("✓ Quote request %s cancelled\n", response.QuoteRequest.ID())
			return nil
		},
	}

	cmd.Flags().StringVar(&quoteRequestID, "quote", "", "Quote request id")
	cmd.Flags().StringVar(&requesterID, "requester", "", "Requester tenant id (authorization)")
	_ = cmd.MarkFlagRequired("quote")
	_ = cmd.MarkFlagRequired("requester")

	return cmd
}

func newQuoteCompleteCommand() *cobra.Command {
	var (
		quoteRequestID string
		requesterID    string
	)

	cmd := &cobra.Command{
		Use:   "complete",
		Short: "Mark an accepted quote request as completed",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.Mediator.Send(context.Background(), &appquote.CompleteQuoteRequestCommand{
				QuoteRequestID: quoteRequestID,
				RequesterID:    requesterID,
			})
			if err != nil {
				return err
			}

			response := result.(*appquote.CompleteQuoteRequestResponse)
			fmt.Printf("✓ Quote request %s completed\n", response.QuoteRequest.ID())
			return nil
		},
	}

	cmd.Flags().StringVar(&quoteRequestID, "quote", "", "Quote request id")
	cmd.Flags().StringVar(&requesterID, "requester", "", "Requester tenant id (authorization)")
	_ = cmd.MarkFlagRequired("quote")
	_ = cmd.MarkFlagRequired("requester")

	return cmd
}

func newQuoteListCommand() *cobra.Command {
	var requesterID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a requester's quote requests, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.Mediator.Send(context.Background(), &appquote.ListByRequesterQuery{
				RequesterID: requesterID,
			})
			if err != nil {
				return err
			}

			response := result.(*appquote.ListByRequesterResponse)
			if len(response.QuoteRequests) == 0 {
				fmt.Println("No quote requests found")
				return nil
			}
			for _, qr := range response.QuoteRequests {
				printQuoteRequest(qr)
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&requesterID, "requester", "", "Requester tenant id")
	_ = cmd.MarkFlagRequired("requester")

	return cmd
}

func newQuotePendingCommand() *cobra.Command {
	var responderID string

	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List quote requests awaiting a responder's submission",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.Mediator.Send(context.Background(), &appquote.ListPendingByResponderQuery{
				ResponderID: responderID,
			})
			if err != nil {
				return err
			}

			response := result.(*appquote.ListPendingByResponderResponse)
			if len(response.QuoteRequests) == 0 {
				fmt.Println("No pending quote requests")
				return nil
			}
			for _, qr := range response.QuoteRequests {
				printQuoteRequest(qr)
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&responderID, "responder", "", "Responder tenant id")
	_ = cmd.MarkFlagRequired("responder")

	return cmd
}

func printQuoteRequest(qr *quote.QuoteRequest) {
	voyage := qr.Voyage()
	fmt.Printf("  ID:        %s\n", qr.ID())
	fmt.Printf("  Requester: %s\n", qr.RequesterID().Value())
	fmt.Printf("  Status:    %s\n", qr.Status())
	fmt.Printf("  Voyage:    %s (%s) -> %s (%s), %s / %s, %.1ft, departs %s\n",
		voyage.DeparturePort.Name, voyage.DeparturePort.Code,
		voyage.DestinationPort.Name, voyage.DestinationPort.Code,
		voyage.CargoType, voyage.VesselType, voyage.CargoWeight,
		voyage.DepartureDate.Format("2006-01-02"))
	for _, assignment := range qr.Assignments() {
		line := fmt.Sprintf("  - %-20s %s", assignment.ResponderID(), assignment.Status())
		if price := assignment.Price(); price != nil {
			line += fmt.Sprintf("  %.2f", *price)
		}
		if assignment.Comments() != "" {
			line += fmt.Sprintf("  %q", assignment.Comments())
		}
		fmt.Println(line)
	}
}
