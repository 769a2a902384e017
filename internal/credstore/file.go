package credstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/AlberthYap/mileapp-task/internal/task"
)

const (
	tokenFile = "token.json"
	userFile  = "user.json"
)

// entry is the on-disk envelope for a persisted value.
type entry struct {
	Value     json.RawMessage `json:"value"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// FileStore keeps credentials as two JSON files in a directory, mode 0600.
type FileStore struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewFileStore creates a file-backed store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir, ttl: DefaultTTL, now: time.Now}
}

// Token implements Store.
func (s *FileStore) Token() string {
	raw, ok := s.read(tokenFile)
	if !ok {
		return ""
	}
	var token string
	if err := json.Unmarshal(raw, &token); err != nil {
		log.Warn().Err(err).Msg("discarding malformed token entry")
		return ""
	}
	return token
}

// User implements Store.
func (s *FileStore) User() *task.User {
	raw, ok := s.read(userFile)
	if !ok {
		return nil
	}
	var u task.User
	if err := json.Unmarshal(raw, &u); err != nil {
		log.Warn().Err(err).Msg("discarding malformed user entry")
		return nil
	}
	return &u
}

// SetAuthData implements Store.
func (s *FileStore) SetAuthData(token string, user *task.User) bool {
	if token == "" || user == nil {
		log.Warn().Msg("cannot set auth data: missing token or user")
		return false
	}
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		log.Warn().Err(err).Msg("failed to create credential directory")
		return false
	}
	if err := s.write(tokenFile, token); err != nil {
		log.Warn().Err(err).Msg("failed to persist token")
		return false
	}
	if err := s.write(userFile, user); err != nil {
		log.Warn().Err(err).Msg("failed to persist user")
		// Do not leave a token-only state behind.
		os.Remove(filepath.Join(s.dir, tokenFile))
		return false
	}
	return true
}

// ClearAll implements Store.
func (s *FileStore) ClearAll() {
	os.Remove(filepath.Join(s.dir, tokenFile))
	os.Remove(filepath.Join(s.dir, userFile))
}

// read loads an entry and checks its expiry. Returns false when the entry
// is absent, expired, or unreadable.
func (s *FileStore) read(name string) (json.RawMessage, bool) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		log.Warn().Err(err).Str("file", name).Msg("discarding malformed credential entry")
		return nil, false
	}
	if !e.ExpiresAt.After(s.now()) {
		return nil, false
	}
	return e.Value, true
}

func (s *FileStore) write(name string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(entry{Value: raw, ExpiresAt: s.now().Add(s.ttl)}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, name), data, 0600)
}
