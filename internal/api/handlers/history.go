package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/internal/models"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/pkg/types"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/pkg/wire"
	"github.com/gin-gonic/gin"
)

// defaultHistoryLimit is used when the query names no limit.
const defaultHistoryLimit = 50

type HistoryHandler struct {
	queries *models.Queries
	// maxLimit caps the limit query parameter.
	maxLimit int64
}

func NewHistoryHandler(db *sql.DB, maxLimit int) *HistoryHandler {
	return &HistoryHandler{
		queries:  models.New(db),
		maxLimit: int64(maxLimit),
	}
}

// ListHistory returns recent navigation updates, newest first.
// GET /v1/history?limit=N
func (h *HistoryHandler) ListHistory(c *gin.Context) {
	limit := int64(defaultHistoryLimit)
	if limit > h.maxLimit {
		limit = h.maxLimit
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.ParseInt(limitStr, 10, 64); err == nil && l > 0 && l <= h.maxLimit {
			limit = l
		}
	}

	rows, err := h.queries.ListRecentUpdates(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to get history"})
		return
	}

	entries := make([]wire.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, wire.HistoryEntry{
			ID:          row.ID,
			RunID:       row.RunID,
			At:          row.CreatedAt.UnixMilli(),
			Distance:    int(row.Distance),
			Direction:   row.Direction,
			Obstacle:    row.ObstacleDetected,
			Instruction: row.Instruction,
			Source:      row.Mode,
		})
	}

	c.JSON(http.StatusOK, wire.HistoryResponse{Entries: entries})
}
