// Package localstore is the device-local key-value store that holds the
// pending list, the calendar mirror and the tracking cache. Each key is one
// JSON document, kept as a row of a single SQLite table.
package localstore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sync"
	"time"

	"valet_manager/internal/usecase/interfaces"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// DatabaseFile is the file name used under the local store directory.
const DatabaseFile = "valet.db"

var ErrInvalidKey = errors.New("invalid key")

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

const schema = `CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      BLOB,
	updated_at INTEGER NOT NULL
)`

// SQLiteStore keeps every key as one row of the kv table. Connections come
// from a pool; WAL mode lets readers proceed while a write is in flight.
type SQLiteStore struct {
	pool *sqlitex.Pool
	path string
}

var _ interfaces.IKeyValueStore = (*SQLiteStore)(nil)

// Open creates dir if needed and opens (or creates) the database inside it.
func Open(dir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create local store dir: %w", err)
	}
	return OpenFile(filepath.Join(dir, DatabaseFile), 0)
}

// OpenFile opens the database at path. A poolSize <= 0 picks one connection
// per CPU, with a floor of four.
func OpenFile(path string, poolSize int) (*SQLiteStore, error) {
	if poolSize <= 0 {
		poolSize = runtime.NumCPU()
		if poolSize < 4 {
			poolSize = 4
		}
	}

	pool, err := sqlitex.NewPool(path, sqlitex.PoolOptions{
		PoolSize:    poolSize,
		PrepareConn: prepareConn,
	})
	if err != nil {
		return nil, fmt.Errorf("open local store %s: %w", path, err)
	}
	log.Printf("[store][local] sqlite store ready path=%s pool_size=%d", path, poolSize)
	return &SQLiteStore{pool: pool, path: path}, nil
}

func prepareConn(conn *sqlite.Conn) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return sqlitex.ExecuteTransient(conn, schema, nil)
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if !keyPattern.MatchString(key) {
		return nil, false, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("take connection: %w", err)
	}
	defer s.pool.Put(conn)

	var (
		value []byte
		found bool
	)
	err = sqlitex.Execute(conn, `SELECT value FROM kv WHERE key = ?`, &sqlitex.ExecOptions{
		Args: []any{key},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			value = make([]byte, stmt.ColumnLen(0))
			stmt.ColumnBytes(0, value)
			found = true
			return nil
		},
	})
	if err != nil {
		return nil, false, fmt.Errorf("read key %s: %w", key, err)
	}
	return value, found, nil
}

func (s *SQLiteStore) Put(ctx context.Context, key string, value []byte) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("take connection: %w", err)
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		&sqlitex.ExecOptions{
			Args: []any{key, value, time.Now().UnixNano()},
		})
	if err != nil {
		return fmt.Errorf("write key %s: %w", key, err)
	}
	return nil
}

// Close releases every pooled connection.
func (s *SQLiteStore) Close() error {
	if err := s.pool.Close(); err != nil {
		return fmt.Errorf("close local store %s: %w", s.path, err)
	}
	log.Printf("[store][local] sqlite store closed path=%s", s.path)
	return nil
}

// MemoryStore is an in-process IKeyValueStore for tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ interfaces.IKeyValueStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string][]byte{}}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	return nil
}
