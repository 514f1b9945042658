package storage

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is a write-only event history backed by Postgres. It satisfies
// relay.EventSink: the session fires milestones at it (connects, solves, the
// victory edge) and moves on — a failed insert is logged, never retried, and
// never touches game state. Session durability itself is out of scope; this
// exists for offline analysis of finished runs.
const insertTimeout = 5 * time.Second

const createTableSQL = `
CREATE TABLE IF NOT EXISTS relay_event (
	id UUID PRIMARY KEY,
	run_id UUID NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	kind TEXT NOT NULL,
	sign TEXT NOT NULL DEFAULT '',
	contact TEXT NOT NULL DEFAULT '',
	prompt TEXT NOT NULL DEFAULT '',
	goal_after INT
);
CREATE INDEX IF NOT EXISTS idx_relay_event_run_id ON relay_event(run_id);
CREATE INDEX IF NOT EXISTS idx_relay_event_kind ON relay_event(kind);
`

const insertEventSQL = `
INSERT INTO relay_event (id, run_id, kind, sign, contact, prompt, goal_after)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

// Store records relay events into Postgres. One Store serves one process run;
// every event carries the run ID so runs can be told apart.
type Store struct {
	pool  *pgxpool.Pool
	runID string
}

// New connects to databaseURL and ensures the schema exists.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool, runID: uuid.NewString()}, nil
}

// RunID returns this process run's identifier.
func (s *Store) RunID() string {
	return s.runID
}

// RecordConnect records a claim: a fresh join or a reattachment.
func (s *Store) RecordConnect(sign string, reconnect bool) {
	kind := "connect"
	if reconnect {
		kind = "reconnect"
	}
	s.insert(kind, sign, "", "", nil)
}

// RecordSolve records one correct response and the countdown value after it.
func (s *Store) RecordSolve(solver, contact, prompt string, goalAfter int) {
	s.insert("solve", solver, contact, prompt, &goalAfter)
}

// RecordVictory records the goal edge.
func (s *Store) RecordVictory(goalTarget int) {
	s.insert("victory", "", "", "", &goalTarget)
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) insert(kind, sign, contact, prompt string, goalAfter *int) {
	ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
	defer cancel()
	_, err := s.pool.Exec(ctx, insertEventSQL,
		uuid.NewString(), s.runID, kind, sign, contact, prompt, goalAfter)
	if err != nil {
		slog.Error("recording event", "tag", "storage", "kind", kind, "err", err)
	}
}
