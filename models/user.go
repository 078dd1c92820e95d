package models

import (
	"maps"
	"strconv"
)

// User is the signed-in user's record as returned by the upstream API.
// Its shape is owned by the API, so it is kept as an opaque JSON object.
type User map[string]interface{}

// Clone returns a shallow copy, or nil for a nil user.
func (u User) Clone() User {
	if u == nil {
		return nil
	}
	return maps.Clone(u)
}

// Merge returns a new record with partial's fields laid over u.
func (u User) Merge(partial User) User {
	merged := make(User, len(u)+len(partial))
	for k, v := range u {
		merged[k] = v
	}
	for k, v := range partial {
		merged[k] = v
	}
	return merged
}

// ID returns the user's id field rendered as a string, if any.
func (u User) ID() (string, bool) {
	v, ok := u["id"]
	if !ok || v == nil {
		return "", false
	}
	switch id := v.(type) {
	case string:
		return id, id != ""
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), true
	case int:
		return strconv.Itoa(id), true
	case int64:
		return strconv.FormatInt(id, 10), true
	}
	return "", false
}

// DisplayName prefers the nickname and falls back to the username.
func (u User) DisplayName() string {
	for _, key := range []string{"nickname", "username"} {
		if s, ok := u[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
