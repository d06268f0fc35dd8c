package persistence

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/quoteflow-go/internal/domain/notification"
	"github.com/andrescamacho/quoteflow-go/internal/domain/quote"
)

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GORM notification repository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

var _ notification.Repository = (*GormNotificationRepository)(nil)

// Insert stores the notification. A duplicate (type, related entity, tenant)
// triple from a redelivered event is silently skipped via the unique index.
func (r *GormNotificationRepository) Insert(ctx context.Context, n *notification.Notification) error {
	model, err := r.entityToModel(n)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "type"}, {Name: "related_entity_id"}, {Name: "tenant_id"}},
			DoNothing: true,
		}).
		Create(model)
	if result.Error != nil {
		return quote.NewPersistenceError("insert notification", result.Error)
	}
	return nil
}

// FindByTenantID lists a tenant's notifications, newest first
func (r *GormNotificationRepository) FindByTenantID(ctx context.Context, tenantID string, limit, offset int) ([]*notification.Notification, error) {
	query := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []NotificationModel
	if err := query.Find(&models).Error; err != nil {
		return nil, quote.NewPersistenceError("find notifications", err)
	}
	return r.modelsToEntities(models)
}

// FindByRelatedEntity returns the notifications of one type attached to an entity
func (r *GormNotificationRepository) FindByRelatedEntity(ctx context.Context, typ notification.Type, relatedEntityID string) ([]*notification.Notification, error) {
	var models []NotificationModel
	result := r.db.WithContext(ctx).
		Where("type = ? AND related_entity_id = ?", string(typ), relatedEntityID).
		Order("created_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, quote.NewPersistenceError("find notifications", result.Error)
	}
	return r.modelsToEntities(models)
}

// CountUnread returns the number of unread notifications for a tenant
func (r *GormNotificationRepository) CountUnread(ctx context.Context, tenantID string) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&NotificationModel{}).
		Where("tenant_id = ? AND read = ?", tenantID, false).
		Count(&count)
	if result.Error != nil {
		return 0, quote.NewPersistenceError("count notifications", result.Error)
	}
	return count, nil
}

// MarkAsRead flags one notification as read
func (r *GormNotificationRepository) MarkAsRead(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&NotificationModel{}).
		Where("id = ?", id).
		Update("read", true)
	if result.Error != nil {
		return quote.NewPersistenceError("mark notification read", result.Error)
	}
	return nil
}

// MarkAllAsRead flags all of a tenant's notifications as read
func (r *GormNotificationRepository) MarkAllAsRead(ctx context.Context, tenantID string) error {
	result := r.db.WithContext(ctx).
		Model(&NotificationModel{}).
		Where("tenant_id = ? AND read = ?", tenantID, false).
		Update("read", true)
	if result.Error != nil {
		return quote.NewPersistenceError("mark notifications read", result.Error)
	}
	return nil
}

func (r *GormNotificationRepository) modelsToEntities(models []NotificationModel) ([]*notification.Notification, error) {
	entities := make([]*notification.Notification, 0, len(models))
	for i := range models {
		entity, err := r.modelToEntity(&models[i])
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

func (r *GormNotificationRepository) modelToEntity(model *NotificationModel) (*notification.Notification, error) {
	var metadata map[string]any
	if model.MetadataJSON != "" {
		if err := json.Unmarshal([]byte(model.MetadataJSON), &metadata); err != nil {
			return nil, quote.NewPersistenceError("unmarshal notification metadata", err)
		}
	}

	return &notification.Notification{
		ID:              model.ID,
		TenantID:        model.TenantID,
		Type:            notification.Type(model.Type),
		Title:           model.Title,
		Content:         model.Content,
		Read:            model.Read,
		Metadata:        metadata,
		RelatedEntityID: model.RelatedEntityID,
		CreatedAt:       model.CreatedAt,
	}, nil
}

func (r *GormNotificationRepository) entityToModel(n *notification.Notification) (*NotificationModel, error) {
	metadataJSON := ""
	if n.Metadata != nil {
		raw, err := json.Marshal(n.Metadata)
		if err != nil {
			return nil, quote.NewPersistenceError("marshal notification metadata", err)
		}
		metadataJSON = string(raw)
	}

	return &NotificationModel{
		ID:              n.ID,
		TenantID:        n.TenantID,
		Type:            string(n.Type),
		Title:           n.Title,
		Content:         n.Content,
		Read:            n.Read,
		MetadataJSON:    metadataJSON,
		RelatedEntityID: n.RelatedEntityID,
		CreatedAt:       n.CreatedAt,
	}, nil
}
