package model

import (
	"sort"
	"strings"
)

// Notification is a saved keyword subscription. ID 0 marks an unsaved record;
// the store assigns the real id on first upsert. MinPrice/MaxPrice of 0 mean
// "no bound". UserID never changes after creation.
type Notification struct {
	ID                int64  `db:"id"`
	UserID            int64  `db:"user_id"`
	Query             string `db:"query"`
	MinPrice          int    `db:"min_price"`
	MaxPrice          int    `db:"max_price"`
	SearchOnlyHot     bool   `db:"search_only_hot"`
	SearchMydealz     bool   `db:"search_mydealz"`
	SearchMindstar    bool   `db:"search_mindstar"`
	SearchPreisjaeger bool   `db:"search_preisjaeger"`
}

// NewNotification returns an unsaved notification with default source flags.
func NewNotification(userID int64, query string) Notification {
	return Notification{
		UserID:            userID,
		Query:             query,
		SearchMydealz:     true,
		SearchMindstar:    true,
		SearchPreisjaeger: true,
	}
}

// Saved reports whether the record has been persisted.
func (n Notification) Saved() bool {
	return n.ID != 0
}

// SortNotifications orders a list for display: case-insensitive by query.
func SortNotifications(list []Notification) {
	sort.SliceStable(list, func(i, j int) bool {
		return strings.ToLower(list[i].Query) < strings.ToLower(list[j].Query)
	})
}
