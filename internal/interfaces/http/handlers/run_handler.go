package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/turtacn/NicheSignal/internal/infrastructure/database/postgres"
	"github.com/turtacn/NicheSignal/pkg/errors"
)

// RunHandler serves stored scan runs. Only mounted when persistence is
// enabled.
type RunHandler struct {
	repo postgres.ScanRepository
}

// NewRunHandler builds the handler.
func NewRunHandler(repo postgres.ScanRepository) *RunHandler {
	return &RunHandler{repo: repo}
}

// List handles GET /api/v1/runs?industry=...&limit=N.
func (h *RunHandler) List(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	runs, err := h.repo.ListRuns(c.Request.Context(), c.Query("industry"), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// Get handles GET /api/v1/runs/:id and returns the run with its verdicts.
func (h *RunHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid run id"))
		return
	}

	run, verdicts, err := h.repo.GetRun(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"run": run, "verdicts": verdicts})
}
