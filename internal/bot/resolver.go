package bot

import (
	"context"
	"errors"

	"github.com/m3rciful/dealbot/core/telegram/callbacks"
	"github.com/m3rciful/dealbot/core/telegram/state"
	"github.com/m3rciful/dealbot/internal/model"
	"github.com/m3rciful/dealbot/internal/service"
	"github.com/m3rciful/dealbot/internal/storage"

	tele "gopkg.in/telebot.v4"
)

// Resolver binds an incoming event to the notification it talks about.
// Precedence: an id carried in the callback payload wins and is pinned to the
// session for the free-text turns that follow; otherwise the pinned session id
// is used. Only the id is ever cached, the record itself is re-read from the
// store on every turn so a deletion in between is always noticed.
type Resolver struct {
	notifications *service.Notifications
	sessions      state.Manager
}

// NewResolver returns a resolver over the given service and session manager.
func NewResolver(notifications *service.Notifications, sessions state.Manager) *Resolver {
	return &Resolver{notifications: notifications, sessions: sessions}
}

// Resolve returns the notification the current update refers to. NotFound is
// signalled only after both sources came up empty: a stale button falls
// through to the session-pinned target instead of failing the turn.
func (r *Resolver) Resolve(ctx context.Context, c tele.Context) (model.Notification, error) {
	sender := c.Sender()
	if sender == nil {
		return model.Notification{}, &NotFoundError{}
	}

	var missing int64

	if id, ok := callbacks.VarInt64(c, cbVarID); ok && id > 0 {
		n, err := r.notifications.Get(ctx, id)
		if err == nil {
			r.Pin(sender.ID, n.ID)
			return n, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return model.Notification{}, err
		}
		missing = id
	}

	if id, ok := r.sessions.GetVarInt64(sender.ID, sessionNotificationID); ok && id > 0 {
		n, err := r.notifications.Get(ctx, id)
		if err == nil {
			return n, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return model.Notification{}, err
		}
		missing = id
	}

	return model.Notification{}, &NotFoundError{ID: missing}
}

// Pin remembers the dialogue target for later turns of the same user.
func (r *Resolver) Pin(userID, notificationID int64) {
	r.sessions.SetVar(userID, sessionNotificationID, notificationID)
}
