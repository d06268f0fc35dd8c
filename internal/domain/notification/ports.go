package notification

import "context"

// Repository persists notification records.
// Insert must be idempotent per (type, related entity, tenant) so redelivered
// events do not duplicate notifications.
type Repository interface {
	// Insert stores the notification, silently skipping a duplicate of an
	// already-recorded (type, relatedEntityID, tenantID) triple
	Insert(ctx context.Context, n *Notification) error

	// FindByTenantID lists a tenant's notifications, newest first
	FindByTenantID(ctx context.Context, tenantID string, limit, offset int) ([]*Notification, error)

	// FindByRelatedEntity returns the notifications of one type attached to an
	// entity, e.g. every created-notification of a quote request
	FindByRelatedEntity(ctx context.Context, typ Type, relatedEntityID string) ([]*Notification, error)

	// CountUnread returns the number of unread notifications for a tenant
	CountUnread(ctx context.Context, tenantID string) (int64, error)

	// MarkAsRead flags one notification as read
	MarkAsRead(ctx context.Context, id string) error

	// MarkAllAsRead flags all of a tenant's notifications as read
	MarkAllAsRead(ctx context.Context, tenantID string) error
}
