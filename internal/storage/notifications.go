package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/dealbot/internal/model"
)

var notificationColumns = map[string]struct{}{
	NotificationFieldQuery:    {},
	NotificationFieldMinPrice: {},
	NotificationFieldMaxPrice: {},
	NotificationFieldOnlyHot:  {},
}

// SQLNotifications implements Notifications on top of sqlx.
type SQLNotifications struct {
	db *sqlx.DB
}

// NewSQLNotifications returns a Notifications store backed by db.
func NewSQLNotifications(db *sqlx.DB) *SQLNotifications {
	return &SQLNotifications{db: db}
}

func (s *SQLNotifications) Get(ctx context.Context, id int64) (model.Notification, error) {
	var n model.Notification
	query := s.db.Rebind(`SELECT * FROM notifications WHERE id = ?`)
	if err := s.db.GetContext(ctx, &n, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Notification{}, fmt.Errorf("notification %d: %w", id, ErrNotFound)
		}
		return model.Notification{}, fmt.Errorf("get notification %d: %w", id, err)
	}
	return n, nil
}

func (s *SQLNotifications) ByUser(ctx context.Context, userID int64) ([]model.Notification, error) {
	var list []model.Notification
	query := s.db.Rebind(`SELECT * FROM notifications WHERE user_id = ? ORDER BY LOWER(query)`)
	if err := s.db.SelectContext(ctx, &list, query, userID); err != nil {
		return nil, fmt.Errorf("notifications of user %d: %w", userID, err)
	}
	return list, nil
}

func (s *SQLNotifications) Upsert(ctx context.Context, n model.Notification) (int64, error) {
	if n.ID == 0 {
		return s.insert(ctx, n)
	}

	query := s.db.Rebind(`
		UPDATE notifications SET
			query = ?, min_price = ?, max_price = ?, search_only_hot = ?,
			search_mydealz = ?, search_mindstar = ?, search_preisjaeger = ?
		WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, query,
		n.Query, n.MinPrice, n.MaxPrice, n.SearchOnlyHot,
		n.SearchMydealz, n.SearchMindstar, n.SearchPreisjaeger,
		n.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("update notification %d: %w", n.ID, err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return 0, fmt.Errorf("notification %d: %w", n.ID, ErrNotFound)
	}
	return n.ID, nil
}

func (s *SQLNotifications) insert(ctx context.Context, n model.Notification) (int64, error) {
	const columns = `user_id, query, min_price, max_price, search_only_hot,
			search_mydealz, search_mindstar, search_preisjaeger`
	args := []interface{}{
		n.UserID, n.Query, n.MinPrice, n.MaxPrice, n.SearchOnlyHot,
		n.SearchMydealz, n.SearchMindstar, n.SearchPreisjaeger,
	}

	if s.db.DriverName() == "postgres" {
		query := s.db.Rebind(`INSERT INTO notifications (` + columns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`)
		var id int64
		if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, fmt.Errorf("insert notification: %w", err)
		}
		return id, nil
	}

	query := s.db.Rebind(`INSERT INTO notifications (` + columns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert notification: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert notification id: %w", err)
	}
	return id, nil
}

func (s *SQLNotifications) UpdateField(ctx context.Context, id int64, field string, value interface{}) error {
	if _, ok := notificationColumns[field]; !ok {
		return fmt.Errorf("update notification field: column %q not allowed", field)
	}
	query := s.db.Rebind(fmt.Sprintf(`UPDATE notifications SET %s = ? WHERE id = ?`, field))
	res, err := s.db.ExecContext(ctx, query, value, id)
	if err != nil {
		return fmt.Errorf("update notification %d field %s: %w", id, field, err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("notification %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLNotifications) Delete(ctx context.Context, id int64) error {
	query := s.db.Rebind(`DELETE FROM notifications WHERE id = ?`)
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete notification %d: %w", id, err)
	}
	return nil
}

func (s *SQLNotifications) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM notifications`); err != nil {
		return 0, fmt.Errorf("count notifications: %w", err)
	}
	return n, nil
}
