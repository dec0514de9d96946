package bot

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/m3rciful/dealbot/core/logger"
	"github.com/m3rciful/dealbot/core/telegram/callbacks"
	"github.com/m3rciful/dealbot/core/telegram/helpers"
	"github.com/m3rciful/dealbot/core/telegram/state"
	"github.com/m3rciful/dealbot/internal/model"
	"github.com/m3rciful/dealbot/internal/service"
	"github.com/m3rciful/dealbot/internal/storage"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Handlers implements the conversation surface: commands, inline callbacks,
// and the free-text turns of active dialogues.
type Handlers struct {
	users         *service.Users
	notifications *service.Notifications
	resolver      *Resolver
	sessions      state.Manager
	reporter      *Reporter
}

// NewHandlers wires the handler set.
func NewHandlers(users *service.Users, notifications *service.Notifications, sessions state.Manager, reporter *Reporter) *Handlers {
	return &Handlers{
		users:         users,
		notifications: notifications,
		resolver:      NewResolver(notifications, sessions),
		sessions:      sessions,
		reporter:      reporter,
	}
}

func buildCtx(c tele.Context) context.Context {
	return helpers.BuildContext(c)
}

// guard is the error boundary around every handler. Updates without a sender
// are dropped: there is no actor to answer and no session to touch. A
// NotFoundError ends the dialogue with a gentle notice; anything else is
// reported to the admin chat and bubbles up for router logging.
func (h *Handlers) guard(name string, next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) (err error) {
		if c.Sender() == nil {
			logger.Warn(buildCtx(c), "tg", "update.no_actor",
				slog.String("handler", name),
			)
			return nil
		}
		defer func() {
			if rec := recover(); rec != nil {
				h.reporter.Report(c, fmt.Errorf("panic in %s: %v", name, rec), debug.Stack())
				err = nil
			}
		}()

		err = next(c)
		if err == nil {
			return nil
		}
		var nf *NotFoundError
		if errors.As(err, &nf) {
			h.sessions.Clear(c.Sender().ID)
			return helpers.EditOrSendMD(c, notFoundText(), notFoundKeyboard())
		}
		h.reporter.Report(c, err, nil)
		return err
	}
}

// currentUser returns the stored user, registering the observed profile on
// first contact. Store failures other than a missing row propagate.
func (h *Handlers) currentUser(ctx context.Context, c tele.Context) (model.User, error) {
	u, err := helpers.CurrentUser[model.User](ctx, h.users, c.Sender().ID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return model.User{}, err
	}
	return h.users.Register(ctx, model.UserFromChat(c.Sender(), c.Chat()))
}

func (h *Handlers) showHome(c tele.Context, header string) error {
	ctx := buildCtx(c)
	u, err := h.currentUser(ctx, c)
	if err != nil {
		return err
	}
	list, err := h.notifications.ListByUser(ctx, u.ID)
	if err != nil {
		return err
	}
	text := startText(u, len(list))
	if header != "" {
		text = header + "\n\n" + text
	}
	return helpers.EditOrSendMD(c, text, startKeyboard(list))
}

func (h *Handlers) showOverview(c tele.Context, n model.Notification, saved bool) error {
	text := overviewText(n)
	if saved {
		text = savedText(n)
	}
	return helpers.EditOrSendMD(c, text, overviewKeyboard(n))
}

// Start greets the user, registers them on first contact, and lists their
// alerts. It doubles as the universal escape: any pending dialogue is gone.
func (h *Handlers) Start() tele.HandlerFunc {
	return h.guard("start", func(c tele.Context) error {
		ctx := buildCtx(c)
		h.sessions.Clear(c.Sender().ID)
		if _, err := h.users.Register(ctx, model.UserFromChat(c.Sender(), c.Chat())); err != nil {
			return err
		}
		return h.showHome(c, "")
	})
}

// Home is the inline-button twin of Start.
func (h *Handlers) Home() tele.HandlerFunc {
	return h.guard("home", func(c tele.Context) error {
		h.sessions.Clear(c.Sender().ID)
		return h.showHome(c, "")
	})
}

// Help shows usage instructions.
func (h *Handlers) Help() tele.HandlerFunc {
	return h.guard("help", func(c tele.Context) error {
		return helpers.EditOrSendMD(c, helpText(), notFoundKeyboard())
	})
}

// Settings shows the source-subscription toggles.
func (h *Handlers) Settings() tele.HandlerFunc {
	return h.guard("settings", func(c tele.Context) error {
		ctx := buildCtx(c)
		h.sessions.Clear(c.Sender().ID)
		u, err := h.currentUser(ctx, c)
		if err != nil {
			return err
		}
		return helpers.EditOrSendMD(c, settingsText(), settingsKeyboard(u))
	})
}

// ToggleSource flips one deal-source flag and redraws the settings view.
func (h *Handlers) ToggleSource(field string) tele.HandlerFunc {
	return h.guard("settings.toggle", func(c tele.Context) error {
		ctx := buildCtx(c)
		u, err := h.currentUser(ctx, c)
		if err != nil {
			return err
		}
		if err := h.users.ToggleSource(ctx, u.ID, field); err != nil {
			return err
		}
		u, err = h.users.GetUserByTelegramID(ctx, u.ID)
		if err != nil {
			return err
		}
		return helpers.EditOrSendMD(c, settingsText(), settingsKeyboard(u))
	})
}

// Show displays one alert with its edit keyboard.
func (h *Handlers) Show() tele.HandlerFunc {
	return h.guard("notification.show", func(c tele.Context) error {
		ctx := buildCtx(c)
		n, err := h.resolver.Resolve(ctx, c)
		if err != nil {
			return err
		}
		return h.showOverview(c, n, false)
	})
}

// Add starts the new-alert dialogue.
func (h *Handlers) Add() tele.HandlerFunc {
	return h.guard("notification.add", func(c tele.Context) error {
		uid := c.Sender().ID
		h.sessions.Clear(uid)
		h.sessions.SetState(uid, StateAwaitQuery)
		h.sessions.SetVar(uid, sessionIntent, intentAdd)
		return helpers.EditOrSendMD(c, queryPromptAdd(), cancelKeyboard())
	})
}

// EditQuery starts the rename dialogue for an existing alert.
func (h *Handlers) EditQuery() tele.HandlerFunc {
	return h.guard("notification.edit_query", func(c tele.Context) error {
		ctx := buildCtx(c)
		n, err := h.resolver.Resolve(ctx, c)
		if err != nil {
			return err
		}
		uid := c.Sender().ID
		h.sessions.SetState(uid, StateAwaitQuery)
		h.sessions.SetVar(uid, sessionIntent, intentEdit)
		return helpers.EditOrSendMD(c, queryPromptEdit(n), cancelKeyboard())
	})
}

// EditMinPrice starts the lower-bound dialogue.
func (h *Handlers) EditMinPrice() tele.HandlerFunc {
	return h.guard("notification.edit_min", func(c tele.Context) error {
		ctx := buildCtx(c)
		n, err := h.resolver.Resolve(ctx, c)
		if err != nil {
			return err
		}
		h.sessions.SetState(c.Sender().ID, StateAwaitMinPrice)
		return helpers.EditOrSendMD(c, pricePrompt("minimum", n.MinPrice), cancelKeyboard())
	})
}

// EditMaxPrice starts the upper-bound dialogue.
func (h *Handlers) EditMaxPrice() tele.HandlerFunc {
	return h.guard("notification.edit_max", func(c tele.Context) error {
		ctx := buildCtx(c)
		n, err := h.resolver.Resolve(ctx, c)
		if err != nil {
			return err
		}
		h.sessions.SetState(c.Sender().ID, StateAwaitMaxPrice)
		return helpers.EditOrSendMD(c, pricePrompt("maximum", n.MaxPrice), cancelKeyboard())
	})
}

// AwaitQuery consumes the free-text turn of the add/rename dialogue.
func (h *Handlers) AwaitQuery() tele.HandlerFunc {
	return h.guard("fsm.await_query", func(c tele.Context) error {
		ctx := buildCtx(c)
		uid := c.Sender().ID
		query := strings.TrimSpace(c.Text())
		if query == "" {
			return helpers.SendMD(c, invalidQueryText(), cancelKeyboard())
		}

		intent, _ := h.sessions.GetVarString(uid, sessionIntent)
		var (
			n   model.Notification
			err error
		)
		if intent == intentEdit {
			n, err = h.resolver.Resolve(ctx, c)
			if err != nil {
				return err
			}
			n, err = h.notifications.UpdateQuery(ctx, n.ID, query)
		} else {
			n, err = h.notifications.Create(ctx, uid, query)
		}
		if err != nil {
			return err
		}
		h.sessions.Clear(uid)
		return h.showOverview(c, n, true)
	})
}

// AwaitMinPrice consumes the free-text turn of the lower-bound dialogue.
func (h *Handlers) AwaitMinPrice() tele.HandlerFunc {
	return h.awaitPrice("fsm.await_min_price", h.notifications.UpdateMinPrice)
}

// AwaitMaxPrice consumes the free-text turn of the upper-bound dialogue.
func (h *Handlers) AwaitMaxPrice() tele.HandlerFunc {
	return h.awaitPrice("fsm.await_max_price", h.notifications.UpdateMaxPrice)
}

func (h *Handlers) awaitPrice(name string, update func(context.Context, int64, int) (model.Notification, error)) tele.HandlerFunc {
	return h.guard(name, func(c tele.Context) error {
		ctx := buildCtx(c)
		price, err := ParsePrice(c.Text())
		if err != nil {
			// invalid input keeps the dialogue open
			return helpers.SendMD(c, invalidPriceText(), cancelKeyboard())
		}
		n, err := h.resolver.Resolve(ctx, c)
		if err != nil {
			return err
		}
		n, err = update(ctx, n.ID, price)
		if err != nil {
			return err
		}
		h.sessions.Clear(c.Sender().ID)
		return h.showOverview(c, n, true)
	})
}

// ToggleOnlyHot flips the hot-deals filter and redraws the overview.
func (h *Handlers) ToggleOnlyHot() tele.HandlerFunc {
	return h.guard("notification.toggle_hot", func(c tele.Context) error {
		ctx := buildCtx(c)
		n, err := h.resolver.Resolve(ctx, c)
		if err != nil {
			return err
		}
		n, err = h.notifications.ToggleOnlyHot(ctx, n.ID)
		if err != nil {
			return err
		}
		return h.showOverview(c, n, false)
	})
}

// Delete removes the alert and returns to the home view.
func (h *Handlers) Delete() tele.HandlerFunc {
	return h.guard("notification.delete", func(c tele.Context) error {
		ctx := buildCtx(c)
		n, err := h.resolver.Resolve(ctx, c)
		if err != nil {
			return err
		}
		if err := h.notifications.Delete(ctx, n); err != nil {
			return err
		}
		h.sessions.Clear(c.Sender().ID)
		return h.showHome(c, deletedText(n))
	})
}

// Cancel aborts the active dialogue. When the dialogue still has a live
// target the overview is shown again; otherwise, or when the target vanished
// meanwhile, the user lands on the home view.
func (h *Handlers) Cancel() tele.HandlerFunc {
	return h.guard("cancel", func(c tele.Context) error {
		ctx := buildCtx(c)
		uid := c.Sender().ID
		id, pinned := h.sessions.GetVarInt64(uid, sessionNotificationID)
		h.sessions.Clear(uid)

		if pinned && id > 0 {
			if n, err := h.notifications.Get(ctx, id); err == nil {
				return h.showOverview(c, n, false)
			}
		}
		return h.showHome(c, "")
	})
}

// UnknownText answers idle free text with an offer to turn it into an alert.
func (h *Handlers) UnknownText() tele.HandlerFunc {
	return h.guard("unknown_text", func(c tele.Context) error {
		query := strings.TrimSpace(c.Text())
		if query == "" || strings.HasPrefix(query, "/") {
			return h.showHome(c, "")
		}
		return helpers.SendMD(c, addSuggestText(query), addSuggestKeyboard(query))
	})
}

// UnknownDocument answers attachments the bot has no use for.
func (h *Handlers) UnknownDocument() tele.HandlerFunc {
	return h.guard("unknown_document", func(c tele.Context) error {
		return helpers.SendMD(c, "I can only work with text. Send me a search phrase or use /start.")
	})
}

// UnknownCallback handles buttons from messages older than the current
// handler set.
func (h *Handlers) UnknownCallback() tele.HandlerFunc {
	return h.guard("unknown_callback", func(c tele.Context) error {
		_ = c.Respond(&tele.CallbackResponse{Text: "This button is no longer supported"})
		return h.showHome(c, "")
	})
}

// Stats reports store totals. Wired as an admin-only command.
func (h *Handlers) Stats() tele.HandlerFunc {
	return h.guard("stats", func(c tele.Context) error {
		ctx := buildCtx(c)
		users, err := h.users.Count(ctx)
		if err != nil {
			return err
		}
		alerts, err := h.notifications.Count(ctx)
		if err != nil {
			return err
		}
		return helpers.SendMD(c, fmt.Sprintf("Users: %d\nAlerts: %d", users, alerts))
	})
}

// AddConfirm creates the alert suggested by UnknownText. The query travels in
// the callback payload, truncated to the callback-data budget.
func (h *Handlers) AddConfirm() tele.HandlerFunc {
	return h.guard("notification.add_confirm", func(c tele.Context) error {
		ctx := buildCtx(c)
		query := callbacks.Var(c, cbVarQuery)
		if query == "" {
			return h.showHome(c, "")
		}
		n, err := h.notifications.Create(ctx, c.Sender().ID, query)
		if err != nil {
			return err
		}
		return h.showOverview(c, n, true)
	})
}
