package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/m3rciful/dealbot/internal/model"
)

func TestUserUpsertPreservesSourceFlags(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	u := model.NewUser(1)
	u.FirstName = "Sam"
	if err := s.Upsert(ctx, u); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := s.ToggleField(ctx, 1, UserFieldMindstar); err != nil {
		t.Fatalf("ToggleField: %v", err)
	}

	// a later profile refresh must not reset the toggled flag
	u.FirstName = "Samuel"
	if err := s.Upsert(ctx, u); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err := s.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.FirstName != "Samuel" {
		t.Errorf("first name = %q, want refreshed profile", got.FirstName)
	}
	if got.SearchMindstar {
		t.Error("mindstar flag was reset by the profile refresh")
	}
}

func TestToggleFieldRejectsUnknownColumn(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	if err := s.Upsert(ctx, model.NewUser(1)); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := s.ToggleField(ctx, 1, "username"); err == nil {
		t.Fatal("toggling a non-flag column must fail")
	}
}

func TestToggleFieldMissingUser(t *testing.T) {
	s := NewMemoryStore()
	err := s.ToggleField(context.Background(), 404, UserFieldMydealz)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestNotificationLifecycle(t *testing.T) {
	s := NotificationStore{MemoryStore: NewMemoryStore()}
	ctx := context.Background()

	id, err := s.Upsert(ctx, model.NewNotification(1, "ssd"))
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if id == 0 {
		t.Fatal("insert must assign an id")
	}

	if err := s.UpdateField(ctx, id, NotificationFieldMinPrice, 10); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}
	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.MinPrice != 10 {
		t.Fatalf("min price = %d, want 10", got.MinPrice)
	}

	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	// deleting again is a no-op
	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if _, err := s.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
}

func TestNotificationUpdateFieldTypeMismatch(t *testing.T) {
	s := NotificationStore{MemoryStore: NewMemoryStore()}
	ctx := context.Background()
	id, _ := s.Upsert(ctx, model.NewNotification(1, "ssd"))
	if err := s.UpdateField(ctx, id, NotificationFieldMinPrice, "ten"); err == nil {
		t.Fatal("string value for an integer column must fail")
	}
}

func TestByUserOrdering(t *testing.T) {
	s := NotificationStore{MemoryStore: NewMemoryStore()}
	ctx := context.Background()
	for _, q := range []string{"Zelda", "ssd", "Monitor"} {
		if _, err := s.Upsert(ctx, model.NewNotification(1, q)); err != nil {
			t.Fatalf("Upsert %q: %v", q, err)
		}
	}
	if _, err := s.Upsert(ctx, model.NewNotification(2, "other user")); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	list, err := s.ByUser(ctx, 1)
	if err != nil {
		t.Fatalf("ByUser: %v", err)
	}
	var got []string
	for _, n := range list {
		got = append(got, n.Query)
	}
	want := []string{"Monitor", "ssd", "Zelda"}
	if len(got) != len(want) {
		t.Fatalf("queries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("queries = %v, want %v", got, want)
		}
	}
}
