package quote

import (
	"context"
	"fmt"

	"github.com/andrescamacho/quoteflow-go/internal/application/common"
	domain "github.com/andrescamacho/quoteflow-go/internal/domain/quote"
	"github.com/andrescamacho/quoteflow-go/internal/domain/shared"
)

// ListByRequesterHandler is a pure read-through to the repository
type ListByRequesterHandler struct {
	quoteRepo domain.QuoteRequestRepository
	validator *common.Validator
}

// NewListByRequesterHandler creates a new list-by-requester query handler
func NewListByRequesterHandler(quoteRepo domain.QuoteRequestRepository, validator *common.Validator) *ListByRequesterHandler {
	return &ListByRequesterHandler{quoteRepo: quoteRepo, validator: validator}
}

// Handle executes the list-by-requester query
func (h *ListByRequesterHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*ListByRequesterQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	if err := h.validator.ValidateStruct(query); err != nil {
		return nil, err
	}

	requesterID, err := shared.NewTenantID(query.RequesterID)
	if err != nil {
		return nil, domain.NewValidationError("requesterId", err.Error())
	}

	quoteRequests, err := h.quoteRepo.FindByRequesterID(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	return &ListByRequesterResponse{QuoteRequests: quoteRequests}, nil
}

// ListPendingByResponderHandler is a pure read-through to the repository
type ListPendingByResponderHandler struct {
	quoteRepo domain.QuoteRequestRepository
	validator *common.Validator
}

// NewListPendingByResponderHandler creates a new pending-by-responder query handler
func NewListPendingByResponderHandler(quoteRepo domain.QuoteRequestRepository, validator *common.Validator) *ListPendingByResponderHandler {
	return &ListPendingByResponderHandler{quoteRepo: quoteRepo, validator: validator}
}

// Handle executes the pending-by-responder query
func (h *ListPendingByResponderHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*ListPendingByResponderQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	if err := h.validator.ValidateStruct(query); err != nil {
		return nil, err
	}

	quoteRequests, err := h.quoteRepo.FindPendingByResponderID(ctx, query.ResponderID)
	if err != nil {
		return nil, err
	}

	return &ListPendingByResponderResponse{QuoteRequests: quoteRequests}, nil
}
