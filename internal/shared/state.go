package shared

import (
	"encoding/json"
	"fmt"
)

const (
	stateKey = "app_state"
	tokenKey = "api_token"
)

// AppState is the dashboard's global selection state: the active branch
// and the signed-in user's name and role. It replaces scattered implicit
// persistence with one explicit serialize/deserialize boundary on the
// session.
type AppState struct {
	BranchID   int64  `json:"branch_id"`
	BranchName string `json:"branch_name"`
	UserName   string `json:"user_name"`
	Role       string `json:"role"`
}

// HasBranch reports whether a valid branch has been selected.
func (s AppState) HasBranch() bool {
	return s.BranchID > 0
}

// SignedIn reports whether the session carries an authenticated user.
func (s AppState) SignedIn() bool {
	return s.UserName != ""
}

// SaveAppState serialises state into the session.
func SaveAppState(sess *Session, state AppState) error {
	if sess == nil {
		return fmt.Errorf("shared: session missing")
	}
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	sess.Set(stateKey, string(data))
	return nil
}

// LoadAppState deserialises state from the session. A missing or corrupt
// value yields the zero state rather than an error: the user simply has to
// sign in and pick a branch again.
func LoadAppState(sess *Session) AppState {
	if sess == nil {
		return AppState{}
	}
	raw := sess.Get(stateKey)
	if raw == "" {
		return AppState{}
	}
	var state AppState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return AppState{}
	}
	return state
}

// SaveToken stores the API bearer token in the session.
func SaveToken(sess *Session, token string) {
	if sess != nil {
		sess.Set(tokenKey, token)
	}
}

// Token returns the API bearer token held by the session, if any.
func Token(sess *Session) string {
	if sess == nil {
		return ""
	}
	return sess.Get(tokenKey)
}
