package model

import tele "gopkg.in/telebot.v4"

// User is a chat account known to the bot, keyed by the Telegram chat id.
// The three search flags select which deal sources the user is subscribed to.
type User struct {
	ID                int64  `db:"id"`
	Username          string `db:"username"`
	FirstName         string `db:"first_name"`
	LastName          string `db:"last_name"`
	SearchMydealz     bool   `db:"search_mydealz"`
	SearchMindstar    bool   `db:"search_mindstar"`
	SearchPreisjaeger bool   `db:"search_preisjaeger"`
}

// NewUser returns a user with the default source subscriptions.
func NewUser(id int64) User {
	return User{
		ID:             id,
		SearchMydealz:  true,
		SearchMindstar: true,
	}
}

// UserFromChat fills profile fields from the Telegram sender.
func UserFromChat(sender *tele.User, chat *tele.Chat) User {
	u := NewUser(0)
	if chat != nil {
		u.ID = chat.ID
		u.Username = chat.Title
	}
	if sender != nil {
		if u.ID == 0 {
			u.ID = sender.ID
		}
		if u.Username == "" {
			u.Username = sender.Username
		}
		u.FirstName = sender.FirstName
		u.LastName = sender.LastName
	}
	return u
}

// SameProfile reports whether the observed Telegram profile matches the
// stored one. Source flags are ignored: they are bot state, not profile data.
func (u User) SameProfile(other User) bool {
	return u.ID == other.ID &&
		u.Username == other.Username &&
		u.FirstName == other.FirstName &&
		u.LastName == other.LastName
}
