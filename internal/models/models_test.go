package models

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/internal/database"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunLifecycle(t *testing.T) {
	db := openTestDB(t)
	q := New(db)
	ctx := context.Background()

	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	err := q.CreateRun(ctx, CreateRunParams{ID: "run-1", Mode: "demo", StartedAt: started})
	require.NoError(t, err)

	run, err := q.GetRun(ctx, "run-1")
	require.NoError(t, err)
	require.Equal(t, "demo", run.Mode)
	require.False(t, run.StoppedAt.Valid)

	stopped := started.Add(30 * time.Second)
	require.NoError(t, q.FinishRun(ctx, "run-1", stopped))

	run, err = q.GetRun(ctx, "run-1")
	require.NoError(t, err)
	require.True(t, run.StoppedAt.Valid)
	require.True(t, run.StoppedAt.Time.Equal(stopped))
}

func TestInsertAndListUpdates(t *testing.T) {
	db := openTestDB(t)
	q := New(db)
	ctx := context.Background()

	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, q.CreateRun(ctx, CreateRunParams{ID: "run-1", Mode: "demo", StartedAt: started}))

	for i := 0; i < 5; i++ {
		err := q.InsertUpdate(ctx, InsertUpdateParams{
			ID:               "u" + string(rune('0'+i)),
			RunID:            "run-1",
			Distance:         int64(40 + i*10),
			Direction:        "left",
			Instruction:      "Turn left now",
			ObstacleDetected: i == 0,
			CreatedAt:        started.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	updates, err := q.ListRecentUpdates(ctx, 3)
	require.NoError(t, err)
	require.Len(t, updates, 3)

	// Newest first, joined with the run's mode.
	require.Equal(t, "u4", updates[0].ID)
	require.Equal(t, "u3", updates[1].ID)
	require.Equal(t, "u2", updates[2].ID)
	require.Equal(t, int64(80), updates[0].Distance)
	require.False(t, updates[0].ObstacleDetected)
	require.Equal(t, "demo", updates[0].Mode)

	count, err := q.CountUpdatesForRun(ctx, "run-1")
	require.NoError(t, err)
	require.Equal(t, int64(5), count)
}

func TestListRecentUpdatesEmpty(t *testing.T) {
	db := openTestDB(t)
	q := New(db)

	updates, err := q.ListRecentUpdates(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, updates)
}

func TestInsertUpdateRequiresRun(t *testing.T) {
	db := openTestDB(t)
	q := New(db)

	err := q.InsertUpdate(context.Background(), InsertUpdateParams{
		ID:          "u1",
		RunID:       "missing",
		Distance:    42,
		Direction:   "right",
		Instruction: "Turn right now",
		CreatedAt:   time.Now(),
	})
	require.Error(t, err)
}
