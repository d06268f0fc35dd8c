package notification

import (
	"context"

	"github.com/andrescamacho/quoteflow-go/internal/domain/notification"
)

// Service is the notification read side: listing, unread counts and
// mark-as-read. Plain CRUD over the repository.
type Service struct {
	notifications notification.Repository
}

// NewService creates a new notification service
func NewService(notifications notification.Repository) *Service {
	return &Service{notifications: notifications}
}

// ListByTenant returns a tenant's notifications, newest first
func (s *Service) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*notification.Notification, error) {
	return s.notifications.FindByTenantID(ctx, tenantID, limit, offset)
}

// CountUnread returns the number of unread notifications for a tenant
func (s *Service) CountUnread(ctx context.Context, tenantID string) (int64, error) {
	return s.notifications.CountUnread(ctx, tenantID)
}

// MarkAsRead flags one notification as read
func (s *Service) MarkAsRead(ctx context.Context, id string) error {
	return s.notifications.MarkAsRead(ctx, id)
}

// MarkAllAsRead flags all of a tenant's notifications as read
func (s *Service) MarkAllAsRead(ctx context.Context, tenantID string) error {
	return s.notifications.MarkAllAsRead(ctx, tenantID)
}
