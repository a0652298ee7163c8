package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLStore is a Store backed by MySQL or MariaDB.
//
// DSN format:
//
//	user:password@tcp(localhost:3306)/diagrams
//
// Read credentials from the environment, never from source:
//
//	s, err := store.NewMySQLStore(os.Getenv("MYSQL_DSN"))
type MySQLStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewMySQLStore connects to dsn, pings the server and creates the schema.
func NewMySQLStore(dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	s := &MySQLStore{db: db}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

func (m *MySQLStore) createTables(ctx context.Context) error {
	table := `
		CREATE TABLE IF NOT EXISTS diagram_records (
			id VARCHAR(64) PRIMARY KEY,
			run_id VARCHAR(255) NOT NULL,
			description MEDIUMTEXT NOT NULL,
			code MEDIUMTEXT NOT NULL,
			explanation MEDIUMTEXT NOT NULL,
			step_count INT NOT NULL,
			created_at BIGINT NOT NULL,
			INDEX idx_created (created_at)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci
	`
	_, err := m.db.ExecContext(ctx, table)
	return err
}

// Save implements Store.
func (m *MySQLStore) Save(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		return errEmptyID
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}

	_, err := m.db.ExecContext(ctx, `
		INSERT INTO diagram_records (id, run_id, description, code, explanation, step_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			run_id = VALUES(run_id),
			description = VALUES(description),
			code = VALUES(code),
			explanation = VALUES(explanation),
			step_count = VALUES(step_count),
			created_at = VALUES(created_at)`,
		rec.ID, rec.RunID, rec.Description, rec.Code, rec.Explanation, rec.StepCount, rec.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	return nil
}

// Load implements Store.
func (m *MySQLStore) Load(ctx context.Context, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return Record{}, ErrClosed
	}
	return loadRecord(ctx, m.db, id)
}

// List implements Store.
func (m *MySQLStore) List(ctx context.Context, limit int) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	return listRecords(ctx, m.db, limit)
}

// Close implements Store.
func (m *MySQLStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	return m.db.Close()
}
