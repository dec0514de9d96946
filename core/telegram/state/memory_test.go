package state

import (
	"sync"
	"testing"
)

func TestClearThenGetAbsent(t *testing.T) {
	mgr := NewMemoryManager()
	mgr.SetState(7, State("await_query"))
	mgr.SetVar(7, "notification_id", int64(42))

	mgr.Clear(7)

	if got := mgr.GetState(7); got != StateIdle {
		t.Fatalf("state after clear = %q, want idle", got)
	}
	if _, ok := mgr.GetVar(7, "notification_id"); ok {
		t.Fatal("variable survived Clear")
	}
}

func TestClearIsIdempotent(t *testing.T) {
	mgr := NewMemoryManager()
	// Clearing a user without a session must be a no-op, not an error.
	mgr.Clear(1)
	mgr.Clear(1)
	if mgr.InProgress(1) {
		t.Fatal("cleared user reported in progress")
	}
}

func TestSetVarInitializesSession(t *testing.T) {
	mgr := NewMemoryManager()
	mgr.SetVar(5, "intent", "add")

	got, ok := mgr.GetVarString(5, "intent")
	if !ok || got != "add" {
		t.Fatalf("GetVarString = %q, %v", got, ok)
	}
	// A variable-only session still reads as idle.
	if mgr.InProgress(5) {
		t.Fatal("session with only vars reported in progress")
	}
}

func TestGetVarInt64TypeMismatch(t *testing.T) {
	mgr := NewMemoryManager()
	mgr.SetVar(5, "notification_id", "not a number")
	if _, ok := mgr.GetVarInt64(5, "notification_id"); ok {
		t.Fatal("string value asserted as int64")
	}
}

func TestClearStateKeepsVars(t *testing.T) {
	mgr := NewMemoryManager()
	mgr.SetState(9, State("await_min_price"))
	mgr.SetVar(9, "notification_id", int64(3))

	mgr.ClearState(9)

	if mgr.InProgress(9) {
		t.Fatal("state not cleared")
	}
	if v, ok := mgr.GetVarInt64(9, "notification_id"); !ok || v != 3 {
		t.Fatalf("variable lost on ClearState: %d, %v", v, ok)
	}
}

func TestSessionsAreIsolatedPerUser(t *testing.T) {
	mgr := NewMemoryManager()
	var wg sync.WaitGroup
	for i := int64(1); i <= 16; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			mgr.SetState(id, State("await_query"))
			mgr.SetVar(id, "notification_id", id*10)
		}(i)
	}
	wg.Wait()

	for i := int64(1); i <= 16; i++ {
		if v, ok := mgr.GetVarInt64(i, "notification_id"); !ok || v != i*10 {
			t.Fatalf("user %d: notification_id = %d, %v", i, v, ok)
		}
	}
}
