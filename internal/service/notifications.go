package service

import (
	"context"
	"strings"

	"github.com/m3rciful/dealbot/core/logger"
	"github.com/m3rciful/dealbot/internal/model"
	"github.com/m3rciful/dealbot/internal/storage"
	"log/slog"
)

// Notifications wraps the notification store with service-level logging and
// the field-update operations the edit dialogues need.
type Notifications struct {
	store storage.Notifications
}

// NewNotifications returns the notifications service.
func NewNotifications(store storage.Notifications) *Notifications {
	return &Notifications{store: store}
}

// Get looks a notification up by id.
func (s *Notifications) Get(ctx context.Context, id int64) (model.Notification, error) {
	return s.store.Get(ctx, id)
}

// ListByUser returns the user's notifications in display order.
func (s *Notifications) ListByUser(ctx context.Context, userID int64) ([]model.Notification, error) {
	return s.store.ByUser(ctx, userID)
}

// Count returns the number of stored notifications across all users.
func (s *Notifications) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}

// Create saves a new notification for the given query text.
func (s *Notifications) Create(ctx context.Context, userID int64, query string) (model.Notification, error) {
	n := model.NewNotification(userID, strings.TrimSpace(query))
	id, err := s.store.Upsert(ctx, n)
	if err != nil {
		return model.Notification{}, err
	}
	n.ID = id
	logger.LogEvent(ctx, logger.SVCNotifications, slog.LevelInfo, "notification.add",
		slog.Int64("user_id", userID),
		slog.Int64("notification_id", id),
		slog.String("query", logger.SanitizeLimit(n.Query, 64)),
	)
	return n, nil
}

// UpdateQuery replaces the match string and returns the fresh record.
func (s *Notifications) UpdateQuery(ctx context.Context, id int64, query string) (model.Notification, error) {
	if err := s.store.UpdateField(ctx, id, storage.NotificationFieldQuery, strings.TrimSpace(query)); err != nil {
		return model.Notification{}, err
	}
	return s.store.Get(ctx, id)
}

// UpdateMinPrice sets the lower price bound (0 clears it).
func (s *Notifications) UpdateMinPrice(ctx context.Context, id int64, price int) (model.Notification, error) {
	if err := s.store.UpdateField(ctx, id, storage.NotificationFieldMinPrice, price); err != nil {
		return model.Notification{}, err
	}
	return s.store.Get(ctx, id)
}

// UpdateMaxPrice sets the upper price bound (0 clears it).
func (s *Notifications) UpdateMaxPrice(ctx context.Context, id int64, price int) (model.Notification, error) {
	if err := s.store.UpdateField(ctx, id, storage.NotificationFieldMaxPrice, price); err != nil {
		return model.Notification{}, err
	}
	return s.store.Get(ctx, id)
}

// ToggleOnlyHot flips the hot-deals-only flag and returns the fresh record.
func (s *Notifications) ToggleOnlyHot(ctx context.Context, id int64) (model.Notification, error) {
	n, err := s.store.Get(ctx, id)
	if err != nil {
		return model.Notification{}, err
	}
	if err := s.store.UpdateField(ctx, id, storage.NotificationFieldOnlyHot, !n.SearchOnlyHot); err != nil {
		return model.Notification{}, err
	}
	return s.store.Get(ctx, id)
}

// Delete removes the notification.
func (s *Notifications) Delete(ctx context.Context, n model.Notification) error {
	if err := s.store.Delete(ctx, n.ID); err != nil {
		return err
	}
	logger.LogEvent(ctx, logger.SVCNotifications, slog.LevelInfo, "notification.delete",
		slog.Int64("user_id", n.UserID),
		slog.Int64("notification_id", n.ID),
		slog.String("query", logger.SanitizeLimit(n.Query, 64)),
	)
	return nil
}
