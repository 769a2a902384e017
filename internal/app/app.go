// Package app wires the credential store, gateway and state managers
// together for a CLI invocation.
package app

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/AlberthYap/mileapp-task/internal/api"
	"github.com/AlberthYap/mileapp-task/internal/commands"
	"github.com/AlberthYap/mileapp-task/internal/config"
	"github.com/AlberthYap/mileapp-task/internal/credstore"
	"github.com/AlberthYap/mileapp-task/internal/session"
	"github.com/AlberthYap/mileapp-task/internal/taskstore"
)

// NewEnv builds the command environment for cfg: the configured credential
// store backend, a gateway pointed at the API, and the session and task
// managers on top of it.
func NewEnv(cfg *config.Config) (*commands.Env, error) {
	store, err := newStore(cfg)
	if err != nil {
		return nil, err
	}

	gw, err := api.NewGateway(cfg.BaseURL, cfg.Timeout, store)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}

	client := api.NewClient(gw)
	sess := session.New(client, store)

	// Authorization-denied teardown: the gateway has already cleared the
	// persisted credentials; drop the in-memory session too. Navigation
	// is the host's business (the CLI has nowhere to redirect to).
	gw.OnUnauthorized = func() {
		sess.ClearAuth()
		log.Warn().Msg("session expired, please log in again")
	}

	return &commands.Env{
		Session: sess,
		Tasks:   taskstore.New(client),
		Creds:   store,
	}, nil
}

func newStore(cfg *config.Config) (credstore.Store, error) {
	switch cfg.CredBackend {
	case config.BackendSQLite:
		if err := cfg.EnsureDir(); err != nil {
			return nil, err
		}
		return credstore.NewSQLiteStore(cfg.CredentialsDBPath())
	case config.BackendFile, "":
		return credstore.NewFileStore(cfg.Dir), nil
	}
	return nil, fmt.Errorf("unknown credential backend: %s", cfg.CredBackend)
}
