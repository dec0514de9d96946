package bot

import "github.com/m3rciful/dealbot/core/telegram/state"

// Conversation states. There is exactly one awaiting-query state; whether the
// reply creates a notification or renames one is carried by the intent
// session variable.
const (
	StateAwaitQuery    state.State = "await_query"
	StateAwaitMinPrice state.State = "await_min_price"
	StateAwaitMaxPrice state.State = "await_max_price"
)

// Session variable keys.
const (
	sessionNotificationID = "notification_id"
	sessionIntent         = "intent"
)

// Intents for StateAwaitQuery.
const (
	intentAdd  = "add"
	intentEdit = "edit"
)

// Callback variable names. Kept short: they share the 64-byte callback-data
// budget with the action key.
const (
	cbVarID    = "id"
	cbVarQuery = "q"
)

// Callback action keys.
const (
	actHome        = "home"
	actHelp        = "help"
	actSettings    = "settings"
	actShow        = "ntf_show"
	actAdd         = "ntf_add"
	actAddConfirm  = "ntf_add_ok"
	actEditQuery   = "ntf_query"
	actEditMin     = "ntf_min"
	actEditMax     = "ntf_max"
	actToggleHot   = "ntf_hot"
	actDelete      = "ntf_del"
	actMydealz     = "set_mydealz"
	actMindstar    = "set_mindstar"
	actPreisjaeger = "set_preisjaeger"
	actCancel      = "cancel"
)
