package models

import (
	"context"
	"database/sql"
	"time"
)

// DBTX matches both *sql.DB and *sql.Tx so queries can run inside or
// outside a transaction.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// Run is one navigation run, from start_navigation to stop.
type Run struct {
	ID        string
	Mode      string
	StartedAt time.Time
	StoppedAt sql.NullTime
	CreatedAt time.Time
}

type CreateRunParams struct {
	ID        string
	Mode      string
	StartedAt time.Time
}

func (q *Queries) CreateRun(ctx context.Context, arg CreateRunParams) error {
	_, err := q.db.ExecContext(ctx, `
INSERT INTO runs (id, mode, started_at)
VALUES (?, ?, ?)`,
		arg.ID, arg.Mode, arg.StartedAt)
	return err
}

// FinishRun stamps the run's stop time. Finishing an already finished
// run overwrites the stamp, which only happens on duplicate stop requests.
func (q *Queries) FinishRun(ctx context.Context, id string, stoppedAt time.Time) error {
	_, err := q.db.ExecContext(ctx, `
UPDATE runs SET stopped_at = ? WHERE id = ?`, stoppedAt, id)
	return err
}

func (q *Queries) GetRun(ctx context.Context, id string) (Run, error) {
	row := q.db.QueryRowContext(ctx, `
SELECT id, mode, started_at, stopped_at, created_at
FROM runs WHERE id = ?`, id)

	var r Run
	err := row.Scan(&r.ID, &r.Mode, &r.StartedAt, &r.StoppedAt, &r.CreatedAt)
	return r, err
}

type InsertUpdateParams struct {
	ID               string
	RunID            string
	Distance         int64
	Direction        string
	Instruction      string
	ObstacleDetected bool
	CreatedAt        time.Time
}

func (q *Queries) InsertUpdate(ctx context.Context, arg InsertUpdateParams) error {
	_, err := q.db.ExecContext(ctx, `
INSERT INTO nav_updates (id, run_id, distance, direction, instruction, obstacle_detected, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.ID, arg.RunID, arg.Distance, arg.Direction, arg.Instruction, arg.ObstacleDetected, arg.CreatedAt)
	return err
}

// ListRecentUpdatesRow carries an update joined with its run's mode.
type ListRecentUpdatesRow struct {
	ID               string
	RunID            string
	Distance         int64
	Direction        string
	Instruction      string
	ObstacleDetected bool
	CreatedAt        time.Time
	Mode             string
}

// ListRecentUpdates returns the newest updates first, across all runs.
func (q *Queries) ListRecentUpdates(ctx context.Context, limit int64) ([]ListRecentUpdatesRow, error) {
	rows, err := q.db.QueryContext(ctx, `
SELECT u.id, u.run_id, u.distance, u.direction, u.instruction, u.obstacle_detected, u.created_at, r.mode
FROM nav_updates u
JOIN runs r ON r.id = u.run_id
ORDER BY u.created_at DESC, u.id DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ListRecentUpdatesRow
	for rows.Next() {
		var u ListRecentUpdatesRow
		if err := rows.Scan(&u.ID, &u.RunID, &u.Distance, &u.Direction, &u.Instruction, &u.ObstacleDetected, &u.CreatedAt, &u.Mode); err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// CountUpdatesForRun reports how many updates a run recorded.
func (q *Queries) CountUpdatesForRun(ctx context.Context, runID string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM nav_updates WHERE run_id = ?`, runID,
	).Scan(&count)
	return count, err
}
