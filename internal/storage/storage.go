package storage

import (
	"context"
	"errors"

	"github.com/m3rciful/dealbot/internal/model"
)

// ErrNotFound marks a keyed lookup that matched no row. Callers decide whether
// that is recoverable; for notifications it usually is (deleted elsewhere).
var ErrNotFound = errors.New("storage: not found")

// User columns that may be flipped via ToggleField.
const (
	UserFieldMydealz     = "search_mydealz"
	UserFieldMindstar    = "search_mindstar"
	UserFieldPreisjaeger = "search_preisjaeger"
)

// Notification columns that may be written via UpdateField.
const (
	NotificationFieldQuery    = "query"
	NotificationFieldMinPrice = "min_price"
	NotificationFieldMaxPrice = "max_price"
	NotificationFieldOnlyHot  = "search_only_hot"
)

// Users is the persistent store for chat accounts.
type Users interface {
	Get(ctx context.Context, id int64) (model.User, error)
	// Upsert inserts the user or refreshes the profile columns of an existing
	// row. Source flags of an existing row are left untouched.
	Upsert(ctx context.Context, u model.User) error
	ToggleField(ctx context.Context, id int64, field string) error
	Count(ctx context.Context) (int64, error)
}

// Notifications is the persistent store for keyword subscriptions.
type Notifications interface {
	Get(ctx context.Context, id int64) (model.Notification, error)
	// ByUser returns the user's notifications ordered case-insensitively by query.
	ByUser(ctx context.Context, userID int64) ([]model.Notification, error)
	// Upsert inserts (id 0) or replaces the record and returns the stored id.
	Upsert(ctx context.Context, n model.Notification) (int64, error)
	UpdateField(ctx context.Context, id int64, field string, value interface{}) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}
