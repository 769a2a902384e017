// Package credstore persists the bearer token and user profile between runs.
//
// Two backends implement the same contract: a pair of JSON files in the
// config directory, and a single-table SQLite database. Both stamp every
// entry with an expiry and treat expired entries as absent on read.
package credstore

import (
	"time"

	"github.com/AlberthYap/mileapp-task/internal/task"
)

// Entry names in the persistence medium.
const (
	TokenKey = "auth_token"
	UserKey  = "auth_user"
)

// DefaultTTL is how long persisted credentials stay valid.
const DefaultTTL = 24 * time.Hour

// Store persists an opaque bearer token and a user profile.
//
// The authenticated state of the client is true iff both values are present
// at the same time; SetAuthData refuses partial writes so a one-sided state
// is never persisted.
type Store interface {
	// Token returns the persisted token, or "" if absent or expired.
	Token() string

	// User returns the persisted profile, or nil if absent, expired,
	// or unreadable. Malformed data is logged, never propagated.
	User() *task.User

	// SetAuthData persists both values. If either is missing it writes
	// nothing and returns false.
	SetAuthData(token string, user *task.User) bool

	// ClearAll removes both persisted values. Idempotent.
	ClearAll()
}
