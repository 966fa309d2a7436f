package debug

import (
	"context"
	"database/sql"

	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/pkg/logger"
)

// PruneHistory deletes all recorded runs and their navigation updates
// (dev-only helper).
func PruneHistory(db *sql.DB) error {
	ctx := context.Background()
	res, err := db.ExecContext(ctx, `DELETE FROM runs`)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n >= 0 {
		logger.Infof("[Debug] Pruned run rows: %d (updates cascade)", n)
	}
	return nil
}
