// Package session owns the client's authentication state: the bearer token,
// the user profile, a loading flag and the last error. State is mutated only
// through the manager's operations; authenticated-ness is recomputed from
// token and user presence, never stored.
package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/AlberthYap/mileapp-task/internal/api"
	"github.com/AlberthYap/mileapp-task/internal/credstore"
	"github.com/AlberthYap/mileapp-task/internal/task"
)

const loginFallbackMsg = "An unexpected error occurred during login"

// Manager orchestrates login and logout against the API and the
// credential store.
type Manager struct {
	client *api.Client
	store  credstore.Store

	mu      sync.Mutex
	token   string
	user    *task.User
	loading bool
	err     string
}

// New creates a manager seeded from whatever the store already holds.
func New(client *api.Client, store credstore.Store) *Manager {
	return &Manager{
		client: client,
		store:  store,
		token:  store.Token(),
		user:   store.User(),
	}
}

// Login authenticates with the given credentials. On success the token and
// profile are held in memory and persisted through the credential store;
// on failure the manager's error state carries the server's message.
func (m *Manager) Login(ctx context.Context, creds api.Credentials) api.Result {
	m.begin()
	defer m.end()

	resp, err := m.client.Login(ctx, creds)
	if err != nil {
		res := api.Failed(err, loginFallbackMsg)
		m.setError(res.Message)
		return res
	}

	// The backend does not reliably return a full profile; fall back to
	// a profile synthesized from the submitted email.
	user := resp.User
	if user == nil {
		user = &task.User{Email: creds.Email}
	}

	if !m.store.SetAuthData(resp.Token, user) {
		res := api.Result{Message: "failed to persist credentials"}
		m.setError(res.Message)
		return res
	}

	m.mu.Lock()
	m.token = resp.Token
	m.user = user
	m.mu.Unlock()
	return api.OK()
}

// Logout clears the session. The server notification is best effort; from
// the caller's perspective logout always succeeds.
func (m *Manager) Logout(ctx context.Context) {
	m.begin()
	defer m.end()

	if err := m.client.Logout(ctx); err != nil {
		log.Warn().Err(err).Msg("logout notification failed")
	}
	m.ClearAuth()
}

// Verify checks that the persisted token is still accepted by the server.
func (m *Manager) Verify(ctx context.Context) error {
	return m.client.VerifyToken(ctx)
}

// ClearAuth resets token, user and error and clears the persisted
// credentials. Idempotent.
func (m *Manager) ClearAuth() {
	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.err = ""
	m.mu.Unlock()
	m.store.ClearAll()
}

// ClearError resets the error without touching token or user.
func (m *Manager) ClearError() {
	m.mu.Lock()
	m.err = ""
	m.mu.Unlock()
}

// IsAuthenticated reports whether both token and user are present.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token != "" && m.user != nil
}

// Token returns the in-memory token.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// User returns the in-memory profile.
func (m *Manager) User() *task.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// Loading reports whether a login or logout call is in flight.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Err returns the most recent failure message, or "" when there is none.
func (m *Manager) Err() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

func (m *Manager) begin() {
	m.mu.Lock()
	m.loading = true
	m.err = ""
	m.mu.Unlock()
}

func (m *Manager) end() {
	m.mu.Lock()
	m.loading = false
	m.mu.Unlock()
}

func (m *Manager) setError(msg string) {
	m.mu.Lock()
	m.err = msg
	m.mu.Unlock()
}
