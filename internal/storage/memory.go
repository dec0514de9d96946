package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/m3rciful/dealbot/internal/model"
)

// MemoryStore is an in-memory implementation of Users and Notifications.
// It backs tests so handler and resolver behavior can be exercised without a
// database, and mirrors the SQL stores' contract (ErrNotFound, id assignment,
// display ordering).
type MemoryStore struct {
	mu            sync.RWMutex
	users         map[int64]model.User
	notifications map[int64]model.Notification
	nextID        int64
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[int64]model.User),
		notifications: make(map[int64]model.Notification),
		nextID:        1,
	}
}

func (s *MemoryStore) Get(ctx context.Context, id int64) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return u, nil
}

func (s *MemoryStore) Upsert(ctx context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.users[u.ID]; ok {
		existing.Username = u.Username
		existing.FirstName = u.FirstName
		existing.LastName = u.LastName
		s.users[u.ID] = existing
		return nil
	}
	s.users[u.ID] = u
	return nil
}

func (s *MemoryStore) ToggleField(ctx context.Context, id int64, field string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	switch field {
	case UserFieldMydealz:
		u.SearchMydealz = !u.SearchMydealz
	case UserFieldMindstar:
		u.SearchMindstar = !u.SearchMindstar
	case UserFieldPreisjaeger:
		u.SearchPreisjaeger = !u.SearchPreisjaeger
	default:
		return fmt.Errorf("toggle user field: column %q not allowed", field)
	}
	s.users[id] = u
	return nil
}

func (s *MemoryStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.users)), nil
}

func (s *MemoryStore) GetNotification(ctx context.Context, id int64) (model.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notifications[id]
	if !ok {
		return model.Notification{}, fmt.Errorf("notification %d: %w", id, ErrNotFound)
	}
	return n, nil
}

func (s *MemoryStore) NotificationsByUser(ctx context.Context, userID int64) ([]model.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []model.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			list = append(list, n)
		}
	}
	model.SortNotifications(list)
	return list, nil
}

func (s *MemoryStore) UpsertNotification(ctx context.Context, n model.Notification) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.ID == 0 {
		n.ID = s.nextID
		s.nextID++
	} else if _, ok := s.notifications[n.ID]; !ok {
		return 0, fmt.Errorf("notification %d: %w", n.ID, ErrNotFound)
	}
	s.notifications[n.ID] = n
	return n.ID, nil
}

func (s *MemoryStore) UpdateNotificationField(ctx context.Context, id int64, field string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return fmt.Errorf("notification %d: %w", id, ErrNotFound)
	}
	switch field {
	case NotificationFieldQuery:
		n.Query, ok = value.(string)
	case NotificationFieldMinPrice:
		n.MinPrice, ok = value.(int)
	case NotificationFieldMaxPrice:
		n.MaxPrice, ok = value.(int)
	case NotificationFieldOnlyHot:
		n.SearchOnlyHot, ok = value.(bool)
	default:
		return fmt.Errorf("update notification field: column %q not allowed", field)
	}
	if !ok {
		return fmt.Errorf("update notification field %s: bad value type %T", field, value)
	}
	s.notifications[id] = n
	return nil
}

func (s *MemoryStore) DeleteNotification(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.notifications, id)
	return nil
}

// NotificationStore adapts MemoryStore to the Notifications interface, whose
// method names collide with the Users interface on Get.
type NotificationStore struct{ *MemoryStore }

func (s NotificationStore) Get(ctx context.Context, id int64) (model.Notification, error) {
	return s.GetNotification(ctx, id)
}

func (s NotificationStore) ByUser(ctx context.Context, userID int64) ([]model.Notification, error) {
	return s.NotificationsByUser(ctx, userID)
}

func (s NotificationStore) Upsert(ctx context.Context, n model.Notification) (int64, error) {
	return s.UpsertNotification(ctx, n)
}

func (s NotificationStore) UpdateField(ctx context.Context, id int64, field string, value interface{}) error {
	return s.UpdateNotificationField(ctx, id, field, value)
}

func (s NotificationStore) Delete(ctx context.Context, id int64) error {
	return s.DeleteNotification(ctx, id)
}

func (s NotificationStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.notifications)), nil
}
