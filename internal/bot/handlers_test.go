package bot

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/m3rciful/dealbot/core/telegram/state"
	"github.com/m3rciful/dealbot/internal/model"
	"github.com/m3rciful/dealbot/internal/service"
	"github.com/m3rciful/dealbot/internal/storage"
)

func idData(id int64) string {
	return cbVarID + "=" + strconv.FormatInt(id, 10)
}

func TestAddDialogue(t *testing.T) {
	f := newFixture()
	c := newTestCtx(1)

	if err := f.handlers.Add()(c.withCallback(actAdd, "")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got := f.sessions.GetState(1); got != StateAwaitQuery {
		t.Fatalf("state = %q, want %q", got, StateAwaitQuery)
	}

	if err := f.handlers.AwaitQuery()(c.withText("  ssd 2tb  ")); err != nil {
		t.Fatalf("AwaitQuery: %v", err)
	}
	list, _ := f.svc.ListByUser(context.Background(), 1)
	if len(list) != 1 || list[0].Query != "ssd 2tb" {
		t.Fatalf("stored notifications = %+v", list)
	}
	if f.sessions.InProgress(1) {
		t.Fatal("dialogue should be finished after the save")
	}
	sentContains(t, c, "Saved")
}

func TestAddDialogueRejectsEmptyQuery(t *testing.T) {
	f := newFixture()
	c := newTestCtx(1)

	if err := f.handlers.Add()(c.withCallback(actAdd, "")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := f.handlers.AwaitQuery()(c.withText("   ")); err != nil {
		t.Fatalf("AwaitQuery: %v", err)
	}
	if got := f.sessions.GetState(1); got != StateAwaitQuery {
		t.Fatalf("state = %q, dialogue must stay open", got)
	}
	list, _ := f.svc.ListByUser(context.Background(), 1)
	if len(list) != 0 {
		t.Fatalf("nothing should have been stored, got %+v", list)
	}
}

func TestEditQueryDialogue(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	n, _ := f.svc.Create(ctx, 1, "ssd")
	c := newTestCtx(1)

	if err := f.handlers.EditQuery()(c.withCallback(actEditQuery, idData(n.ID))); err != nil {
		t.Fatalf("EditQuery: %v", err)
	}
	if err := f.handlers.AwaitQuery()(c.withText("nvme ssd")); err != nil {
		t.Fatalf("AwaitQuery: %v", err)
	}

	got, _ := f.svc.Get(ctx, n.ID)
	if got.Query != "nvme ssd" {
		t.Fatalf("query = %q, want %q", got.Query, "nvme ssd")
	}
	list, _ := f.svc.ListByUser(ctx, 1)
	if len(list) != 1 {
		t.Fatalf("rename must not create a second notification, got %d", len(list))
	}
}

func TestMinPriceDialogue(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	n, _ := f.svc.Create(ctx, 1, "ssd")
	c := newTestCtx(1)

	if err := f.handlers.EditMinPrice()(c.withCallback(actEditMin, idData(n.ID))); err != nil {
		t.Fatalf("EditMinPrice: %v", err)
	}
	if got := f.sessions.GetState(1); got != StateAwaitMinPrice {
		t.Fatalf("state = %q, want %q", got, StateAwaitMinPrice)
	}

	if err := f.handlers.AwaitMinPrice()(c.withText("12,50")); err != nil {
		t.Fatalf("AwaitMinPrice: %v", err)
	}
	got, _ := f.svc.Get(ctx, n.ID)
	if got.MinPrice != 13 {
		t.Fatalf("min price = %d, want 13", got.MinPrice)
	}
	if f.sessions.InProgress(1) {
		t.Fatal("dialogue should be finished after the save")
	}
}

func TestPriceDialogueRemoveShorthand(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	n, _ := f.svc.Create(ctx, 1, "ssd")
	_, _ = f.svc.UpdateMaxPrice(ctx, n.ID, 99)
	c := newTestCtx(1)

	if err := f.handlers.EditMaxPrice()(c.withCallback(actEditMax, idData(n.ID))); err != nil {
		t.Fatalf("EditMaxPrice: %v", err)
	}
	if err := f.handlers.AwaitMaxPrice()(c.withText("/remove")); err != nil {
		t.Fatalf("AwaitMaxPrice: %v", err)
	}
	got, _ := f.svc.Get(ctx, n.ID)
	if got.MaxPrice != 0 {
		t.Fatalf("max price = %d, want 0 after /remove", got.MaxPrice)
	}
}

func TestPriceDialogueInvalidInputKeepsState(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	n, _ := f.svc.Create(ctx, 1, "ssd")
	_, _ = f.svc.UpdateMinPrice(ctx, n.ID, 5)
	c := newTestCtx(1)

	if err := f.handlers.EditMinPrice()(c.withCallback(actEditMin, idData(n.ID))); err != nil {
		t.Fatalf("EditMinPrice: %v", err)
	}
	if err := f.handlers.AwaitMinPrice()(c.withText("abc")); err != nil {
		t.Fatalf("AwaitMinPrice: %v", err)
	}

	if got := f.sessions.GetState(1); got != StateAwaitMinPrice {
		t.Fatalf("state = %q, dialogue must stay open", got)
	}
	got, _ := f.svc.Get(ctx, n.ID)
	if got.MinPrice != 5 {
		t.Fatalf("min price = %d, store must be untouched", got.MinPrice)
	}

	// the retry succeeds
	if err := f.handlers.AwaitMinPrice()(c.withText("20")); err != nil {
		t.Fatalf("AwaitMinPrice retry: %v", err)
	}
	got, _ = f.svc.Get(ctx, n.ID)
	if got.MinPrice != 20 {
		t.Fatalf("min price = %d, want 20", got.MinPrice)
	}
}

func TestToggleOnlyHotTwice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	n, _ := f.svc.Create(ctx, 1, "ssd")
	c := newTestCtx(1)

	for i := 0; i < 2; i++ {
		if err := f.handlers.ToggleOnlyHot()(c.withCallback(actToggleHot, idData(n.ID))); err != nil {
			t.Fatalf("ToggleOnlyHot: %v", err)
		}
	}
	got, _ := f.svc.Get(ctx, n.ID)
	if got.SearchOnlyHot {
		t.Fatal("two toggles must restore the original flag")
	}
}

func TestDialogueTargetDeletedMidway(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	n, _ := f.svc.Create(ctx, 1, "ssd")
	c := newTestCtx(1)

	if err := f.handlers.EditMinPrice()(c.withCallback(actEditMin, idData(n.ID))); err != nil {
		t.Fatalf("EditMinPrice: %v", err)
	}
	if err := f.svc.Delete(ctx, n); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if err := f.handlers.AwaitMinPrice()(c.withText("20")); err != nil {
		t.Fatalf("the boundary must swallow the not-found case, got %v", err)
	}
	sentContains(t, c, "no longer exists")
	if f.sessions.InProgress(1) {
		t.Fatal("session must be cleared after the target vanished")
	}
}

func TestCancelReturnsToOverview(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	n, _ := f.svc.Create(ctx, 1, "ssd")
	c := newTestCtx(1)

	if err := f.handlers.EditMinPrice()(c.withCallback(actEditMin, idData(n.ID))); err != nil {
		t.Fatalf("EditMinPrice: %v", err)
	}
	if err := f.handlers.Cancel()(c.withCallback(actCancel, "")); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if f.sessions.InProgress(1) {
		t.Fatal("cancel must end the dialogue")
	}
	sentContains(t, c, "ssd")
}

func TestCancelWithDeletedTargetGoesHome(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	n, _ := f.svc.Create(ctx, 1, "ssd")
	c := newTestCtx(1)

	if err := f.handlers.EditMinPrice()(c.withCallback(actEditMin, idData(n.ID))); err != nil {
		t.Fatalf("EditMinPrice: %v", err)
	}
	if err := f.svc.Delete(ctx, n); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := f.handlers.Cancel()(c.withCallback(actCancel, "")); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	sentContains(t, c, "no keyword alerts")
}

func TestStartIsUniversalEscape(t *testing.T) {
	f := newFixture()
	c := newTestCtx(1)

	if err := f.handlers.Add()(c.withCallback(actAdd, "")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := f.handlers.Start()(c.withText("/start")); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if f.sessions.InProgress(1) {
		t.Fatal("/start must abandon the pending dialogue")
	}
	if _, err := f.store.Get(context.Background(), 1); err != nil {
		t.Fatalf("start must register the user: %v", err)
	}
}

func TestUnknownTextSuggestsAlert(t *testing.T) {
	f := newFixture()
	c := newTestCtx(1)

	if err := f.handlers.UnknownText()(c.withText("rtx 5080")); err != nil {
		t.Fatalf("UnknownText: %v", err)
	}
	sentContains(t, c, "rtx 5080")

	if err := f.handlers.AddConfirm()(c.withCallback(actAddConfirm, "q=rtx 5080")); err != nil {
		t.Fatalf("AddConfirm: %v", err)
	}
	list, _ := f.svc.ListByUser(context.Background(), 1)
	if len(list) != 1 || list[0].Query != "rtx 5080" {
		t.Fatalf("stored notifications = %+v", list)
	}
}

func TestDeleteGoesHome(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	n, _ := f.svc.Create(ctx, 1, "ssd")
	c := newTestCtx(1)

	if err := f.handlers.Delete()(c.withCallback(actDelete, idData(n.ID))); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.svc.Get(ctx, n.ID); err == nil {
		t.Fatal("notification must be gone")
	}
	sentContains(t, c, "deleted")
}

type flakyUsers struct {
	*storage.MemoryStore
	getErr  error
	upserts int
}

func (s *flakyUsers) Get(ctx context.Context, id int64) (model.User, error) {
	if s.getErr != nil {
		return model.User{}, s.getErr
	}
	return s.MemoryStore.Get(ctx, id)
}

func (s *flakyUsers) Upsert(ctx context.Context, u model.User) error {
	s.upserts++
	return s.MemoryStore.Upsert(ctx, u)
}

// A transient store failure must surface as an error, not be papered over
// with a fresh registration.
func TestStoreFailureIsNotMaskedByRegister(t *testing.T) {
	mem := storage.NewMemoryStore()
	flaky := &flakyUsers{MemoryStore: mem, getErr: errors.New("connection reset")}
	sessions := state.NewMemoryManager()
	svc := service.NewNotifications(storage.NotificationStore{MemoryStore: mem})
	h := NewHandlers(service.NewUsers(flaky), svc, sessions, &Reporter{})

	c := newTestCtx(1)
	if err := h.Settings()(c.withText("/settings")); err == nil {
		t.Fatal("store failure must propagate")
	}
	if flaky.upserts != 0 {
		t.Fatalf("register was attempted %d times on a failing store", flaky.upserts)
	}
}

func TestUpdateWithoutSenderIsDropped(t *testing.T) {
	f := newFixture()
	c := newTestCtx(1)
	c.sender = nil

	if err := f.handlers.Start()(c); err != nil {
		t.Fatalf("handler must drop sender-less updates, got %v", err)
	}
	if len(c.sent) != 0 {
		t.Fatalf("nothing should be sent, got %v", c.sent)
	}
}

// Two interleaved dialogues must not leak state across users.
func TestInterleavedDialogues(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	na, _ := f.svc.Create(ctx, 1, "ssd")
	nb, _ := f.svc.Create(ctx, 2, "monitor")

	ca := newTestCtx(1)
	cb := newTestCtx(2)

	if err := f.handlers.EditMinPrice()(ca.withCallback(actEditMin, idData(na.ID))); err != nil {
		t.Fatalf("user 1 EditMinPrice: %v", err)
	}
	if err := f.handlers.EditMaxPrice()(cb.withCallback(actEditMax, idData(nb.ID))); err != nil {
		t.Fatalf("user 2 EditMaxPrice: %v", err)
	}
	if err := f.handlers.AwaitMinPrice()(ca.withText("10")); err != nil {
		t.Fatalf("user 1 AwaitMinPrice: %v", err)
	}
	if err := f.handlers.AwaitMaxPrice()(cb.withText("30")); err != nil {
		t.Fatalf("user 2 AwaitMaxPrice: %v", err)
	}

	gotA, _ := f.svc.Get(ctx, na.ID)
	gotB, _ := f.svc.Get(ctx, nb.ID)
	if gotA.MinPrice != 10 || gotA.MaxPrice != 0 {
		t.Fatalf("user 1 notification = %+v", gotA)
	}
	if gotB.MaxPrice != 30 || gotB.MinPrice != 0 {
		t.Fatalf("user 2 notification = %+v", gotB)
	}
	if f.sessions.InProgress(1) || f.sessions.InProgress(2) {
		t.Fatal("both dialogues should be finished")
	}
}
