// Package auditlog persists an append-only record of admission and
// lifecycle decisions: every write is an insert, never an update, and
// failures to write never unwind the scheduling decision that produced
// them.
package auditlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// Record is one audited kernel decision.
type Record struct {
	ID        uuid.UUID
	PID       int
	Name      string
	Policy    string
	Accepted  bool
	UtilEDF   int
	UtilRM    int
	Reason    string
	CreatedAt time.Time
}

// Sink persists Records to Postgres. A nil *sql.DB makes every method a
// no-op, so AUDIT_DSN can stay unset in environments with no Postgres.
type Sink struct {
	db *sql.DB
}

// NewSink wraps db. Pass nil to get a no-op sink.
func NewSink(db *sql.DB) *Sink {
	return &Sink{db: db}
}

// Open connects to dsn via lib/pq and wraps the result in a Sink.
func Open(dsn string) (*Sink, error) {
	if dsn == "" {
		return NewSink(nil), nil
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("auditlog: open: %w", err)
	}
	return NewSink(db), nil
}

// EnsureSchema creates the audit_log table if it does not exist.
func (s *Sink) EnsureSchema(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS audit_log (
			id         UUID PRIMARY KEY,
			pid        INTEGER NOT NULL,
			name       TEXT NOT NULL,
			policy     TEXT NOT NULL,
			accepted   BOOLEAN NOT NULL,
			util_edf   INTEGER NOT NULL,
			util_rm    INTEGER NOT NULL,
			reason     TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("auditlog: ensure schema: %w", err)
	}
	return nil
}

// Record appends one decision. Errors are returned for the caller to log;
// schedcore never calls this inside table_lock, so a slow insert never
// stalls the selection loop.
func (s *Sink) Record(ctx context.Context, r Record) error {
	if s.db == nil {
		return nil
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, pid, name, policy, accepted, util_edf, util_rm, reason, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		r.ID, r.PID, r.Name, r.Policy, r.Accepted, r.UtilEDF, r.UtilRM, r.Reason, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("auditlog: insert: %w", err)
	}
	return nil
}

// RecentByPID returns the most recent audit rows for pid, newest first.
func (s *Sink) RecentByPID(ctx context.Context, pid int, limit int) ([]Record, error) {
	if s.db == nil {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, pid, name, policy, accepted, util_edf, util_rm, reason, created_at
		 FROM audit_log WHERE pid = $1 ORDER BY created_at DESC LIMIT $2`,
		pid, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("auditlog: query: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.PID, &r.Name, &r.Policy, &r.Accepted, &r.UtilEDF, &r.UtilRM, &r.Reason, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("auditlog: scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the underlying database handle, if any.
func (s *Sink) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
