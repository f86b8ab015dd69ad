package main

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrStoreClosed is returned when an audit store is used after Close.
var ErrStoreClosed = errors.New("audit store is closed")

// ParseAudit is one recorded validation request.
type ParseAudit struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	NumNodes  int       `json:"num_nodes"`
	NumEdges  int       `json:"num_edges"`
	IsDAG     bool      `json:"is_dag"`
}

// AuditStore persists parse verdicts to SQLite so recent validation
// activity survives daemon restarts.
type AuditStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewAuditStore opens (or creates) the audit database. The path should
// be a file path (e.g. "./pipecanvas-audit.db") or ":memory:" for
// testing.
func NewAuditStore(path string) (*AuditStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS parse_audits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp TEXT NOT NULL,
			num_nodes INTEGER NOT NULL,
			num_edges INTEGER NOT NULL,
			is_dag INTEGER NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &AuditStore{db: db}, nil
}

// Record stores one parse verdict.
func (s *AuditStore) Record(a ParseAudit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	ts := a.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO parse_audits (timestamp, num_nodes, num_edges, is_dag)
		VALUES (?, ?, ?, ?)
	`, ts.Format(time.RFC3339Nano), a.NumNodes, a.NumEdges, boolToInt(a.IsDAG))

	if err != nil {
		return fmt.Errorf("record parse audit: %w", err)
	}
	return nil
}

// Recent returns up to limit audits, newest first.
func (s *AuditStore) Recent(limit int) ([]ParseAudit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT id, timestamp, num_nodes, num_edges, is_dag
		FROM parse_audits
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list parse audits: %w", err)
	}
	defer rows.Close()

	var audits []ParseAudit
	for rows.Next() {
		var a ParseAudit
		var timestamp string
		var isDAG int
		if err := rows.Scan(&a.ID, &timestamp, &a.NumNodes, &a.NumEdges, &isDAG); err != nil {
			return nil, fmt.Errorf("scan parse audit: %w", err)
		}
		a.Timestamp, _ = time.Parse(time.RFC3339Nano, timestamp)
		a.IsDAG = isDAG != 0
		audits = append(audits, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate parse audits: %w", err)
	}
	return audits, nil
}

// Close releases the database handle. Safe to call twice.
func (s *AuditStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
