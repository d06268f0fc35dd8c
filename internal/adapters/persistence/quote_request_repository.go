package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/andrescamacho/quoteflow-go/internal/domain/quote"
	"github.com/andrescamacho/quoteflow-go/internal/domain/shared"
)

// GormQuoteRequestRepository implements quote.QuoteRequestRepository using GORM.
// The aggregate is always read and written as a unit: the quote_requests row
// plus every responder_assignments row, inside one transaction.
type GormQuoteRequestRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormQuoteRequestRepository creates a new GORM quote request repository.
// The clock is handed to rehydrated aggregates; nil defaults to RealClock.
func NewGormQuoteRequestRepository(db *gorm.DB, clock shared.Clock) *GormQuoteRequestRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormQuoteRequestRepository{db: db, clock: clock}
}

var _ quote.QuoteRequestRepository = (*GormQuoteRequestRepository)(nil)

// Create builds and persists a new PENDING aggregate with its full responder
// assignment set in one transaction
func (r *GormQuoteRequestRepository) Create(
	ctx context.Context,
	requesterID shared.TenantID,
	voyage quote.VoyageData,
	responderIDs []string,
) (*quote.QuoteRequest, error) {
	qr, err := quote.NewQuoteRequest(requesterID, voyage, responderIDs, r.clock)
	if err != nil {
		return nil, err
	}

	model, err := r.entityToModel(qr)
	if err != nil {
		return nil, err
	}
	model.Version = 1

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, quote.NewPersistenceError("create", err)
	}

	return r.FindByID(ctx, qr.ID())
}

// FindByID loads the aggregate including all assignments
func (r *GormQuoteRequestRepository) FindByID(ctx context.Context, id string) (*quote.QuoteRequest, error) {
	var model QuoteRequestModel
	result := r.db.WithContext(ctx).
		Preload("Assignments").
		Where("id = ?", id).
		First(&model)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, quote.NewNotFoundError(id)
		}
		return nil, quote.NewPersistenceError("find", result.Error)
	}

	return r.modelToEntity(&model)
}

// FindByRequesterID lists a requester's quote requests, newest first
func (r *GormQuoteRequestRepository) FindByRequesterID(ctx context.Context, requesterID shared.TenantID) ([]*quote.QuoteRequest, error) {
	var models []QuoteRequestModel
	result := r.db.WithContext(ctx).
		Preload("Assignments").
		Where("requester_id = ?", requesterID.Value()).
		Order("created_at DESC").
		Find(&models)

	if result.Error != nil {
		return nil, quote.NewPersistenceError("find", result.Error)
	}

	return r.modelsToEntities(models)
}

// FindPendingByResponderID lists quote requests whose assignment for the
// responder is still PENDING
func (r *GormQuoteRequestRepository) FindPendingByResponderID(ctx context.Context, responderID string) ([]*quote.QuoteRequest, error) {
	var models []QuoteRequestModel
	result := r.db.WithContext(ctx).
		Preload("Assignments").
		Joins("JOIN responder_assignments ra ON ra.quote_request_id = quote_requests.id").
		Where("ra.responder_id = ? AND ra.status = ?", responderID, string(quote.AssignmentPending)).
		Order("quote_requests.created_at DESC").
		Find(&models)

	if result.Error != nil {
		return nil, quote.NewPersistenceError("find", result.Error)
	}

	return r.modelsToEntities(models)
}

// Save upserts the full aggregate as one transaction. The UPDATE on the root
// row is guarded by the loaded version; zero affected rows means another
// writer won the race and the save fails with CONCURRENT_MODIFICATION.
func (r *GormQuoteRequestRepository) Save(ctx context.Context, qr *quote.QuoteRequest) (*quote.QuoteRequest, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&QuoteRequestModel{}).
			Where("id = ? AND version = ?", qr.ID(), qr.Version()).
			Updates(map[string]any{
				"status":     string(qr.Status()),
				"updated_at": qr.UpdatedAt(),
				"version":    qr.Version() + 1,
			})
		if result.Error != nil {
			return quote.NewPersistenceError("save", result.Error)
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&QuoteRequestModel{}).Where("id = ?", qr.ID()).Count(&count).Error; err != nil {
				return quote.NewPersistenceError("save", err)
			}
			if count == 0 {
				return quote.NewNotFoundError(qr.ID())
			}
			return quote.NewConcurrentModificationError(qr.ID())
		}

		for _, a := range qr.Assignments() {
			result := tx.Model(&ResponderAssignmentModel{}).
				Where("id = ?", a.ID()).
				Updates(map[string]any{
					"status":     string(a.Status()),
					"price":      a.Price(),
					"comments":   a.Comments(),
					"updated_at": a.UpdatedAt(),
				})
			if result.Error != nil {
				return quote.NewPersistenceError("save", result.Error)
			}
			if result.RowsAffected == 0 {
				return quote.NewPersistenceError("save",
					fmt.Errorf("assignment %s missing for quote request %s", a.ID(), qr.ID()))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.FindByID(ctx, qr.ID())
}

// Delete removes the aggregate and its assignments
func (r *GormQuoteRequestRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_request_id = ?", id).Delete(&ResponderAssignmentModel{}).Error; err != nil {
			return quote.NewPersistenceError("delete", err)
		}
		if err := tx.Where("id = ?", id).Delete(&QuoteRequestModel{}).Error; err != nil {
			return quote.NewPersistenceError("delete", err)
		}
		return nil
	})
}

func (r *GormQuoteRequestRepository) modelsToEntities(models []QuoteRequestModel) ([]*quote.QuoteRequest, error) {
	entities := make([]*quote.QuoteRequest, 0, len(models))
	for i := range models {
		entity, err := r.modelToEntity(&models[i])
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

// modelToEntity converts database rows back into the domain aggregate
func (r *GormQuoteRequestRepository) modelToEntity(model *QuoteRequestModel) (*quote.QuoteRequest, error) {
	var voyage quote.VoyageData
	if err := json.Unmarshal([]byte(model.VoyageJSON), &voyage); err != nil {
		return nil, quote.NewPersistenceError("unmarshal voyage data", err)
	}

	sort.Slice(model.Assignments, func(i, j int) bool {
		return model.Assignments[i].Position < model.Assignments[j].Position
	})

	assignments := make([]*quote.ResponderAssignment, 0, len(model.Assignments))
	for _, am := range model.Assignments {
		assignments = append(assignments, quote.RehydrateResponderAssignment(
			am.ID,
			am.ResponderID,
			quote.AssignmentStatus(am.Status),
			am.Price,
			am.Comments,
			am.CreatedAt,
			am.UpdatedAt,
			r.clock,
		))
	}

	return quote.RehydrateQuoteRequest(
		model.ID,
		shared.MustNewTenantID(model.RequesterID),
		voyage,
		quote.Status(model.Status),
		assignments,
		model.CreatedAt,
		model.UpdatedAt,
		model.Version,
		r.clock,
	), nil
}

// entityToModel converts the domain aggregate into database rows
func (r *GormQuoteRequestRepository) entityToModel(qr *quote.QuoteRequest) (*QuoteRequestModel, error) {
	voyageJSON, err := json.Marshal(qr.Voyage())
	if err != nil {
		return nil, quote.NewPersistenceError("marshal voyage data", err)
	}

	assignments := qr.Assignments()
	assignmentModels := make([]ResponderAssignmentModel, 0, len(assignments))
	for i, a := range assignments {
		assignmentModels = append(assignmentModels, ResponderAssignmentModel{
			ID:             a.ID(),
			QuoteRequestID: qr.ID(),
			ResponderID:    a.ResponderID(),
			Position:       i,
			Status:         string(a.Status()),
			Price:          a.Price(),
			Comments:       a.Comments(),
			CreatedAt:      a.CreatedAt(),
			UpdatedAt:      a.UpdatedAt(),
		})
	}

	return &QuoteRequestModel{
		ID:          qr.ID(),
		RequesterID: qr.RequesterID().Value(),
		VoyageJSON:  string(voyageJSON),
		Status:      string(qr.Status()),
		Version:     qr.Version(),
		CreatedAt:   qr.CreatedAt(),
		UpdatedAt:   qr.UpdatedAt(),
		Assignments: assignmentModels,
	}, nil
}
