package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/dealbot/internal/model"
)

var userToggleColumns = map[string]struct{}{
	UserFieldMydealz:     {},
	UserFieldMindstar:    {},
	UserFieldPreisjaeger: {},
}

// SQLUsers implements Users on top of sqlx. Queries are written with `?`
// placeholders and rebound for the active driver.
type SQLUsers struct {
	db *sqlx.DB
}

// NewSQLUsers returns a Users store backed by db.
func NewSQLUsers(db *sqlx.DB) *SQLUsers {
	return &SQLUsers{db: db}
}

func (s *SQLUsers) Get(ctx context.Context, id int64) (model.User, error) {
	var u model.User
	query := s.db.Rebind(`SELECT * FROM users WHERE id = ?`)
	if err := s.db.GetContext(ctx, &u, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return model.User{}, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

func (s *SQLUsers) Upsert(ctx context.Context, u model.User) error {
	query := s.db.Rebind(`
		INSERT INTO users (id, username, first_name, last_name, search_mydealz, search_mindstar, search_preisjaeger)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			username   = excluded.username,
			first_name = excluded.first_name,
			last_name  = excluded.last_name`)
	_, err := s.db.ExecContext(ctx, query,
		u.ID, u.Username, u.FirstName, u.LastName,
		u.SearchMydealz, u.SearchMindstar, u.SearchPreisjaeger,
	)
	if err != nil {
		return fmt.Errorf("upsert user %d: %w", u.ID, err)
	}
	return nil
}

func (s *SQLUsers) ToggleField(ctx context.Context, id int64, field string) error {
	if _, ok := userToggleColumns[field]; !ok {
		return fmt.Errorf("toggle user field: column %q not allowed", field)
	}
	query := s.db.Rebind(fmt.Sprintf(`UPDATE users SET %s = NOT %s WHERE id = ?`, field, field))
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("toggle user %d field %s: %w", id, field, err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLUsers) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
