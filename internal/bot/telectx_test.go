package bot

import (
	"strings"
	"testing"

	"github.com/m3rciful/dealbot/core/telegram/state"
	"github.com/m3rciful/dealbot/internal/service"
	"github.com/m3rciful/dealbot/internal/storage"

	tele "gopkg.in/telebot.v4"
)

// testCtx fakes the subset of tele.Context the handlers touch. The embedded
// interface is nil; anything not overridden here would panic and point at an
// untested code path.
type testCtx struct {
	tele.Context

	sender *tele.User
	text   string
	cb     *tele.Callback
	store  map[string]interface{}
	sent   []string
}

func newTestCtx(userID int64) *testCtx {
	return &testCtx{
		sender: &tele.User{ID: userID, FirstName: "Sam"},
		store:  map[string]interface{}{},
	}
}

func (c *testCtx) Sender() *tele.User        { return c.sender }
func (c *testCtx) Chat() *tele.Chat          { return nil }
func (c *testCtx) Text() string              { return c.text }
func (c *testCtx) Callback() *tele.Callback  { return c.cb }
func (c *testCtx) Update() tele.Update       { return tele.Update{} }
func (c *testCtx) Get(k string) interface{}  { return c.store[k] }
func (c *testCtx) Set(k string, v interface{}) {
	c.store[k] = v
}

func (c *testCtx) record(what interface{}) error {
	if s, ok := what.(string); ok {
		c.sent = append(c.sent, s)
	}
	return nil
}

func (c *testCtx) Send(what interface{}, _ ...interface{}) error       { return c.record(what) }
func (c *testCtx) Edit(what interface{}, _ ...interface{}) error       { return c.record(what) }
func (c *testCtx) EditOrSend(what interface{}, _ ...interface{}) error { return c.record(what) }
func (c *testCtx) Respond(_ ...*tele.CallbackResponse) error           { return nil }
func (c *testCtx) Bot() tele.API                                       { return nil }

func (c *testCtx) lastSent(t *testing.T) string {
	t.Helper()
	if len(c.sent) == 0 {
		t.Fatal("nothing was sent")
	}
	return c.sent[len(c.sent)-1]
}

// turn resets per-update context so a second event on the same fake does not
// reuse the previous turn's cached values.
func (c *testCtx) turn() *testCtx {
	c.store = map[string]interface{}{}
	c.cb = nil
	c.text = ""
	return c
}

func (c *testCtx) withText(text string) *testCtx {
	c.turn().text = text
	return c
}

func (c *testCtx) withCallback(action, payload string) *testCtx {
	c.turn().cb = &tele.Callback{Data: "\f" + action + "|" + payload}
	return c
}

func sentContains(t *testing.T, c *testCtx, want string) {
	t.Helper()
	if !strings.Contains(c.lastSent(t), want) {
		t.Fatalf("last message %q does not contain %q", c.lastSent(t), want)
	}
}

type fixture struct {
	store    *storage.MemoryStore
	sessions state.Manager
	handlers *Handlers
	svc      *service.Notifications
}

func newFixture() *fixture {
	store := storage.NewMemoryStore()
	sessions := state.NewMemoryManager()
	svc := service.NewNotifications(storage.NotificationStore{MemoryStore: store})
	h := NewHandlers(service.NewUsers(store), svc, sessions, &Reporter{})
	return &fixture{store: store, sessions: sessions, handlers: h, svc: svc}
}
