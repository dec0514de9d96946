package service

import (
	"context"

	"github.com/m3rciful/dealbot/core/logger"
	"github.com/m3rciful/dealbot/internal/model"
	"github.com/m3rciful/dealbot/internal/storage"
	"log/slog"
)

// Users wraps the user store with service-level logging.
type Users struct {
	store storage.Users
}

// NewUsers returns the users service.
func NewUsers(store storage.Users) *Users {
	return &Users{store: store}
}

// GetUserByTelegramID resolves a chat/account id to the stored user.
func (s *Users) GetUserByTelegramID(ctx context.Context, id int64) (model.User, error) {
	return s.store.Get(ctx, id)
}

// Register upserts the user when it is new or the observed profile changed.
// Returns the stored record.
func (s *Users) Register(ctx context.Context, observed model.User) (model.User, error) {
	current, err := s.store.Get(ctx, observed.ID)
	if err == nil && current.SameProfile(observed) {
		return current, nil
	}

	if err := s.store.Upsert(ctx, observed); err != nil {
		return model.User{}, err
	}
	logger.LogEvent(ctx, logger.SVCUsers, slog.LevelInfo, "user.upsert",
		slog.Int64("user_id", observed.ID),
	)
	return s.store.Get(ctx, observed.ID)
}

// Count returns the number of known users.
func (s *Users) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}

// ToggleSource flips one of the user's source-subscription flags.
func (s *Users) ToggleSource(ctx context.Context, id int64, field string) error {
	if err := s.store.ToggleField(ctx, id, field); err != nil {
		return err
	}
	logger.LogEvent(ctx, logger.SVCUsers, slog.LevelDebug, "user.toggle",
		slog.Int64("user_id", id),
		slog.String("operation", field),
	)
	return nil
}
