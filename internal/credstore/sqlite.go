package credstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/AlberthYap/mileapp-task/internal/task"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS credentials (
	name       TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	expires_at INTEGER NOT NULL
);`

// SQLiteStore keeps credentials in a single-table SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db, ttl: DefaultTTL, now: time.Now}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Token implements Store.
func (s *SQLiteStore) Token() string {
	raw, ok := s.read(TokenKey)
	if !ok {
		return ""
	}
	return raw
}

// User implements Store.
func (s *SQLiteStore) User() *task.User {
	raw, ok := s.read(UserKey)
	if !ok {
		return nil
	}
	var u task.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		log.Warn().Err(err).Msg("discarding malformed user entry")
		return nil
	}
	return &u
}

// SetAuthData implements Store.
func (s *SQLiteStore) SetAuthData(token string, user *task.User) bool {
	if token == "" || user == nil {
		log.Warn().Msg("cannot set auth data: missing token or user")
		return false
	}
	userJSON, err := json.Marshal(user)
	if err != nil {
		log.Warn().Err(err).Msg("failed to encode user")
		return false
	}

	expires := s.now().Add(s.ttl).Unix()
	tx, err := s.db.Begin()
	if err != nil {
		log.Warn().Err(err).Msg("failed to persist credentials")
		return false
	}
	const upsert = `
		INSERT INTO credentials (name, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`
	if _, err := tx.Exec(upsert, TokenKey, token, expires); err != nil {
		tx.Rollback()
		log.Warn().Err(err).Msg("failed to persist token")
		return false
	}
	if _, err := tx.Exec(upsert, UserKey, string(userJSON), expires); err != nil {
		tx.Rollback()
		log.Warn().Err(err).Msg("failed to persist user")
		return false
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Msg("failed to persist credentials")
		return false
	}
	return true
}

// ClearAll implements Store.
func (s *SQLiteStore) ClearAll() {
	if _, err := s.db.Exec(`DELETE FROM credentials`); err != nil {
		log.Warn().Err(err).Msg("failed to clear credentials")
	}
}

func (s *SQLiteStore) read(name string) (string, bool) {
	var value string
	var expires int64
	err := s.db.QueryRow(`SELECT value, expires_at FROM credentials WHERE name = ?`, name).
		Scan(&value, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	if err != nil {
		log.Warn().Err(err).Str("name", name).Msg("failed to read credential entry")
		return "", false
	}
	if expires <= s.now().Unix() {
		return "", false
	}
	return value, true
}
