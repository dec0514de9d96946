package bot

import (
	"context"
	"errors"
	"strconv"
	"testing"
)

func TestResolvePrefersCallbackID(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a, _ := f.svc.Create(ctx, 1, "ssd")
	b, _ := f.svc.Create(ctx, 1, "monitor")

	// session points at a, the callback at b
	f.handlers.resolver.Pin(1, a.ID)
	c := newTestCtx(1).withCallback(actShow, "id="+strconv.FormatInt(b.ID, 10))

	got, err := f.handlers.resolver.Resolve(ctx, c)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.ID != b.ID {
		t.Fatalf("resolved id = %d, want callback id %d", got.ID, b.ID)
	}
	// the explicit reference is now pinned for later free-text turns
	if id, ok := f.sessions.GetVarInt64(1, sessionNotificationID); !ok || id != b.ID {
		t.Fatalf("pinned id = %d (%v), want %d", id, ok, b.ID)
	}
}

func TestResolveFallsBackToSession(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	n, _ := f.svc.Create(ctx, 1, "ssd")
	f.handlers.resolver.Pin(1, n.ID)

	got, err := f.handlers.resolver.Resolve(ctx, newTestCtx(1).withText("12,50"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.ID != n.ID {
		t.Fatalf("resolved id = %d, want %d", got.ID, n.ID)
	}
}

func TestResolveNothingBound(t *testing.T) {
	f := newFixture()
	var nf *NotFoundError
	_, err := f.handlers.resolver.Resolve(context.Background(), newTestCtx(1).withText("hi"))
	if !errors.As(err, &nf) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}

func TestResolveDeletedTarget(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	n, _ := f.svc.Create(ctx, 1, "ssd")
	f.handlers.resolver.Pin(1, n.ID)
	if err := f.svc.Delete(ctx, n); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var nf *NotFoundError
	_, err := f.handlers.resolver.Resolve(ctx, newTestCtx(1).withText("20"))
	if !errors.As(err, &nf) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
	if nf.ID != n.ID {
		t.Fatalf("NotFoundError.ID = %d, want %d", nf.ID, n.ID)
	}
}

// A stale button whose id no longer resolves must not fail the turn while
// the session still names a live target.
func TestResolveStaleCallbackFallsThroughToSession(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	n, _ := f.svc.Create(ctx, 1, "ssd")
	f.handlers.resolver.Pin(1, n.ID)

	got, err := f.handlers.resolver.Resolve(ctx, newTestCtx(1).withCallback(actShow, "id=99"))
	if err != nil {
		t.Fatalf("expected session fallback, got %v", err)
	}
	if got.ID != n.ID {
		t.Fatalf("resolved id = %d, want pinned %d", got.ID, n.ID)
	}
}

func TestResolveBothSourcesDead(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	n, _ := f.svc.Create(ctx, 1, "ssd")
	f.handlers.resolver.Pin(1, n.ID)
	if err := f.svc.Delete(ctx, n); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var nf *NotFoundError
	_, err := f.handlers.resolver.Resolve(ctx, newTestCtx(1).withCallback(actShow, "id=99"))
	if !errors.As(err, &nf) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}
