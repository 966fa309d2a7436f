package navigation

import (
	"context"
	"time"

	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/internal/models"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/pkg/types"
)

// SQLRecorder implements Recorder on top of the models queries.
type SQLRecorder struct {
	Queries *models.Queries
}

func (r *SQLRecorder) RunStarted(ctx context.Context, runID, mode string, at time.Time) error {
	return r.Queries.CreateRun(ctx, models.CreateRunParams{
		ID:        runID,
		Mode:      mode,
		StartedAt: at,
	})
}

func (r *SQLRecorder) RunStopped(ctx context.Context, runID string, at time.Time) error {
	return r.Queries.FinishRun(ctx, runID, at)
}

func (r *SQLRecorder) ReadingTaken(ctx context.Context, runID string, state State) error {
	return r.Queries.InsertUpdate(ctx, models.InsertUpdateParams{
		ID:               types.NewID(),
		RunID:            runID,
		Distance:         int64(state.Distance),
		Direction:        state.Direction,
		Instruction:      state.LastInstruction,
		ObstacleDetected: state.ObstacleDetected,
		CreatedAt:        state.UpdatedAt,
	})
}
