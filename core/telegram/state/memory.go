package state

import (
	"sync"

	"github.com/m3rciful/dealbot/core/logger"
	tghelpers "github.com/m3rciful/dealbot/core/telegram/helpers"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

type memoryManager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewMemoryManager constructs the in-memory Manager implementation. Sessions
// are ephemeral by contract and do not survive a process restart.
func NewMemoryManager() Manager {
	return &memoryManager{
		sessions: make(map[int64]*Session),
	}
}

// session returns the stored session, creating it when create is set.
// Callers must hold the write lock when create is true.
func (m *memoryManager) session(userID int64, create bool) *Session {
	sess, ok := m.sessions[userID]
	if !ok && create {
		sess = &Session{State: StateIdle, Vars: make(map[string]interface{})}
		m.sessions[userID] = sess
	}
	return sess
}

// Get returns the user's live session, or a fresh idle session when none
// exists. The result must only be mutated through the Manager methods.
func (m *memoryManager) Get(userID int64) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if sess := m.session(userID, false); sess != nil {
		return sess
	}
	return &Session{State: StateIdle, Vars: make(map[string]interface{})}
}

// SetVar stores a conversation variable, initializing the session if absent.
func (m *memoryManager) SetVar(userID int64, key string, value interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session(userID, true).Vars[key] = value
}

// GetVar retrieves a conversation variable by key.
func (m *memoryManager) GetVar(userID int64, key string) (interface{}, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess := m.session(userID, false)
	if sess == nil {
		return nil, false
	}
	val, ok := sess.Vars[key]
	return val, ok
}

// GetVarInt64 retrieves a conversation variable and asserts it as int64.
func (m *memoryManager) GetVarInt64(userID int64, key string) (int64, bool) {
	val, found := m.GetVar(userID, key)
	if !found {
		return 0, false
	}
	v, ok := val.(int64)
	if !ok {
		return 0, false
	}
	return v, true
}

// GetVarString retrieves a conversation variable and asserts it as string.
func (m *memoryManager) GetVarString(userID int64, key string) (string, bool) {
	val, found := m.GetVar(userID, key)
	if !found {
		return "", false
	}
	v, ok := val.(string)
	if !ok {
		return "", false
	}
	return v, true
}

// ClearVar removes a single conversation variable.
func (m *memoryManager) ClearVar(userID int64, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess := m.session(userID, false); sess != nil {
		delete(sess.Vars, key)
	}
}

// Clear removes the entire session for a user. Idempotent.
func (m *memoryManager) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)
}

// SetState sets the FSM state for the given user.
func (m *memoryManager) SetState(userID int64, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session(userID, true).State = st
}

// GetState returns the current FSM state of a user, or StateIdle if none exists.
func (m *memoryManager) GetState(userID int64) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sess := m.session(userID, false); sess != nil {
		return sess.State
	}
	return StateIdle
}

// ClearState resets the FSM state to idle without touching session variables.
func (m *memoryManager) ClearState(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess := m.session(userID, false); sess != nil {
		sess.State = StateIdle
	}
}

// InProgress reports whether the user currently has an active FSM state.
func (m *memoryManager) InProgress(userID int64) bool {
	return m.GetState(userID) != StateIdle
}

// ManagerHandler executes the handler registered for the user's current state, if any.
func (m *memoryManager) ManagerHandler(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	userID := sender.ID
	current := m.GetState(userID)
	ctx := tghelpers.BuildContext(c)
	logger.Debug(ctx, "tg", "fsm.manager",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("state", string(current)),
	)

	if handler, ok := fsmHandlers[current]; ok {
		return handler(c)
	}
	return nil
}
