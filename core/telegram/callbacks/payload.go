package callbacks

import (
	"sort"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Callback payloads carry a small set of name=value variables next to the
// action key. Pairs are separated by PairSep, name and value by KVSep, so
// neither character may appear in a variable name or value. SafeValue strips
// them from untrusted input before it is placed on a button.
const (
	PairSep = "!"
	KVSep   = "="

	// MaxCallbackData is the Telegram limit for callback data, shared by the
	// action key, the separators, and the encoded variables.
	MaxCallbackData = 64
)

// Vars holds decoded callback variables. A missing key reads as the empty
// string; callers treat that as "no override" and fall back to session state.
type Vars map[string]string

// Get returns the value for name, or "" when the variable is absent.
func (v Vars) Get(name string) string {
	if v == nil {
		return ""
	}
	return v[name]
}

// GetInt64 parses the named variable as int64. The second return value is
// false when the variable is absent or not numeric.
func (v Vars) GetInt64(name string) (int64, bool) {
	raw := v.Get(name)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Encode serializes vars into a payload string with deterministic key order.
// Pairs with empty values are dropped: an empty value and an absent variable
// are indistinguishable on the wire.
func Encode(vars Vars) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for k, val := range vars {
		if k == "" || val == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+KVSep+vars[k])
	}
	return strings.Join(pairs, PairSep)
}

// Decode parses a payload produced by Encode. Malformed fragments (no KVSep,
// empty name) are skipped rather than reported: a token built for another
// action simply yields no variables.
func Decode(payload string) Vars {
	vars := Vars{}
	if payload == "" {
		return vars
	}
	for _, pair := range strings.Split(payload, PairSep) {
		name, value, ok := strings.Cut(pair, KVSep)
		if !ok || name == "" || value == "" {
			continue
		}
		vars[name] = value
	}
	return vars
}

// Var reads a single variable from the callback attached to c.
// Returns "" when there is no callback or the variable is absent.
func Var(c tele.Context, name string) string {
	return Decode(CallbackPayload(c)).Get(name)
}

// VarInt64 reads a numeric variable from the callback attached to c.
func VarInt64(c tele.Context, name string) (int64, bool) {
	return Decode(CallbackPayload(c)).GetInt64(name)
}

// SafeValue makes free text token-safe: reserved separators and control
// characters are removed and the result is truncated to max runes. Use it for
// any value that did not originate from the bot itself.
func SafeValue(s string, max int) string {
	if max <= 0 {
		return ""
	}
	b := strings.Builder{}
	b.Grow(len(s))
	for _, r := range s {
		if r == '!' || r == '=' || r < ' ' || r == 0x7F {
			continue
		}
		b.WriteRune(r)
	}
	out := strings.TrimSpace(b.String())
	runes := []rune(out)
	if len(runes) > max {
		out = strings.TrimSpace(string(runes[:max]))
	}
	return out
}

// SafeValueFor truncates s so that action, separators, and a single name=value
// pair still fit MaxCallbackData bytes. Values with multibyte runes shrink
// further until the byte budget holds.
func SafeValueFor(action, name, s string) string {
	budget := MaxCallbackData - len("\f"+action+"|") - len(name+KVSep)
	if budget <= 0 {
		return ""
	}
	out := SafeValue(s, budget)
	for len(out) > budget {
		runes := []rune(out)
		out = strings.TrimSpace(string(runes[:len(runes)-1]))
	}
	return out
}
