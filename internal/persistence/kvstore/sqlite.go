package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

var ErrClosed = errors.New("kvstore: closed")

// Entry is one stored configuration value.
type Entry struct {
	Group     string
	Key       string
	Value     string
	UpdatedAt time.Time
}

// SQLiteStore keeps grouped string key/values in a single sqlite table.
type SQLiteStore struct {
	mu     sync.Mutex
	db     *sql.DB
	closed bool
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS config (
			grp TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (grp, key)
		);`,
		`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1');`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Get returns the value stored under group/key. ok is false when nothing is stored.
func (s *SQLiteStore) Get(group, key string) (value string, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", false, ErrClosed
	}
	err = s.db.QueryRowContext(context.Background(),
		`SELECT value FROM config WHERE grp=? AND key=?`, group, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s.%s: %w", group, key, err)
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(group, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := s.db.ExecContext(context.Background(),
		`INSERT OR REPLACE INTO config(grp,key,value,updated_at) VALUES(?,?,?,?)`,
		group, key, value, now); err != nil {
		return fmt.Errorf("set %s.%s: %w", group, key, err)
	}
	return nil
}

func (s *SQLiteStore) Unset(group, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if _, err := s.db.ExecContext(context.Background(),
		`DELETE FROM config WHERE grp=? AND key=?`, group, key); err != nil {
		return fmt.Errorf("unset %s.%s: %w", group, key, err)
	}
	return nil
}

// List returns every entry of group whose key starts with prefix, ordered by key.
func (s *SQLiteStore) List(group, prefix string) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	rows, err := s.db.QueryContext(context.Background(),
		`SELECT key, value, updated_at FROM config WHERE grp=? AND substr(key,1,?)=? ORDER BY key`,
		group, len(prefix), prefix)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", group, err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e := Entry{Group: group}
		var updated string
		if err := rows.Scan(&e.Key, &e.Value, &updated); err != nil {
			return nil, err
		}
		e.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		out = append(out, e)
	}
	return out, rows.Err()
}
