package persistence

import (
	"time"
)

// QuoteRequestModel represents the quote_requests table.
// Version implements the optimistic-concurrency check: every save bumps it
// and a stale writer's UPDATE matches zero rows.
type QuoteRequestModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	RequesterID string    `gorm:"column:requester_id;index;not null"`
	VoyageJSON  string    `gorm:"column:voyage_data;type:text;not null"` // JSON stored as text
	Status      string    `gorm:"column:status;not null"`
	Version     int       `gorm:"column:version;not null;default:1"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null"`

	Assignments []ResponderAssignmentModel `gorm:"foreignKey:QuoteRequestID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (QuoteRequestModel) TableName() string {
	return "quote_requests"
}

// ResponderAssignmentModel represents the responder_assignments table.
// Rows exist only as children of a quote request; Position preserves the
// insertion order of the responder set.
type ResponderAssignmentModel struct {
	ID             string     `gorm:"column:id;primaryKey"`
	QuoteRequestID string     `gorm:"column:quote_request_id;not null;uniqueIndex:idx_assignment_request_responder"`
	ResponderID    string     `gorm:"column:responder_id;not null;index;uniqueIndex:idx_assignment_request_responder"`
	Position       int        `gorm:"column:position;not null"`
	Status         string     `gorm:"column:status;not null"`
	Price          *float64   `gorm:"column:price"`
	Comments       string     `gorm:"column:comments;type:text"`
	CreatedAt      time.Time  `gorm:"column:created_at;not null"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;not null"`
}

func (ResponderAssignmentModel) TableName() string {
	return "responder_assignments"
}

// NotificationModel represents the notifications table.
// The unique index over (type, related_entity_id, tenant_id) makes projection
// inserts idempotent under event redelivery.
type NotificationModel struct {
	ID              string    `gorm:"column:id;primaryKey"`
	TenantID        string    `gorm:"column:tenant_id;not null;index;uniqueIndex:idx_notification_dedupe"`
	Type            string    `gorm:"column:type;not null;uniqueIndex:idx_notification_dedupe"`
	Title           string    `gorm:"column:title;not null"`
	Content         string    `gorm:"column:content;type:text;not null"`
	Read            bool      `gorm:"column:read;not null;default:false"`
	MetadataJSON    string    `gorm:"column:metadata;type:text"` // JSON stored as text
	RelatedEntityID string    `gorm:"column:related_entity_id;index;uniqueIndex:idx_notification_dedupe"`
	CreatedAt       time.Time `gorm:"column:created_at;not null"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}
