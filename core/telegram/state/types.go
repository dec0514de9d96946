package state

import tele "gopkg.in/telebot.v4"

// State identifies a finite-state-machine step used in conversations.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"
)

// Session stores conversation state and temporary variables for one user.
// There is no state stack: at most one dialogue is active per user, and
// starting a new one overwrites whatever was pending.
type Session struct {
	State State
	Vars  map[string]interface{}
}

// Manager orchestrates user sessions and FSM state transitions.
// Implementations must be safe for concurrent use across users; events for a
// single user are expected to arrive serialized (see middleware.PerUser).
type Manager interface {
	Get(userID int64) *Session

	SetState(userID int64, st State)
	GetState(userID int64) State
	ClearState(userID int64)

	SetVar(userID int64, key string, value interface{})
	GetVar(userID int64, key string) (interface{}, bool)
	GetVarInt64(userID int64, key string) (int64, bool)
	GetVarString(userID int64, key string) (string, bool)
	ClearVar(userID int64, key string)

	// Clear drops the whole session: state and variables. Clearing a user
	// without a session is a no-op.
	Clear(userID int64)

	InProgress(userID int64) bool
	ManagerHandler(c tele.Context) error
}
