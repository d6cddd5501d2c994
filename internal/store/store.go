package store

import (
	"bytes"
	"database/sql"
	"encoding/gob"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrBadName  = errors.New("bad name for store")
	ErrNotFound = errors.New("value not found")
)

// Store is a gob-encoded key-value table inside a sqlite database.
type Store struct {
	mu   sync.Mutex
	name string
	db   *sql.DB
}

func isLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_') {
			return false
		}
	}
	return true
}

// NewStore creates the backing table if needed. name is interpolated into
// SQL and may only contain Latin letters and underscores.
func NewStore(db *sql.DB, name string) (*Store, error) {
	if !isLetters(name) {
		return nil, ErrBadName
	}

	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS ` + name + ` (
	key		TEXT PRIMARY KEY,
	value	BLOB
);`)
	if err != nil {
		return nil, fmt.Errorf("unable to create store %s: %w", name, err)
	}
	return &Store{name: name, db: db}, nil
}

// Get decodes the value stored under key into value, which must be a pointer
// or nil. A nil value only checks presence.
func (s *Store) Get(key string, value any) error {
	var v []byte
	err := s.db.QueryRow(`SELECT value FROM `+s.name+` WHERE key = ?;`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if value == nil {
		return nil
	}
	return gob.NewDecoder(bytes.NewReader(v)).Decode(value)
}

func (s *Store) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(value); err != nil {
		return err
	}
	_, err := s.db.Exec(`
INSERT INTO `+s.name+` (key, value)
VALUES (?, ?)
ON CONFLICT(key)
DO UPDATE SET value = excluded.value;`,
		key, buf.Bytes())
	return err
}

// Delete removes key without checking that it existed.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM `+s.name+` WHERE key = ?;`, key)
	return err
}

func (s *Store) Count() (count int, err error) {
	err = s.db.QueryRow(`SELECT COUNT(*) FROM ` + s.name + `;`).Scan(&count)
	return
}

func (s *Store) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM ` + s.name + ` ORDER BY key;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
