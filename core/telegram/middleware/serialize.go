package middleware

import (
	"sync"

	tele "gopkg.in/telebot.v4"
)

type userLock struct {
	mu   sync.Mutex
	refs int
}

// PerUserMiddleware serializes update handling per sender: a double-tapped
// button is processed as two ordered turns instead of two racing handlers.
// Updates from distinct users proceed concurrently. Updates without a sender
// pass through unlocked.
func PerUserMiddleware() tele.MiddlewareFunc {
	var (
		mu    sync.Mutex
		locks = make(map[int64]*userLock)
	)
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil {
				return next(c)
			}

			mu.Lock()
			l, ok := locks[user.ID]
			if !ok {
				l = &userLock{}
				locks[user.ID] = l
			}
			l.refs++
			mu.Unlock()

			l.mu.Lock()
			defer func() {
				l.mu.Unlock()
				mu.Lock()
				l.refs--
				if l.refs == 0 {
					delete(locks, user.ID)
				}
				mu.Unlock()
			}()

			return next(c)
		}
	}
}
