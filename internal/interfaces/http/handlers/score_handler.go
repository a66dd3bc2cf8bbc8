// Package handlers implements the HTTP API endpoints.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/NicheSignal/internal/application/pipeline"
	"github.com/turtacn/NicheSignal/internal/domain/post"
	"github.com/turtacn/NicheSignal/pkg/errors"
)

// ScoreRequest is the body of POST /api/v1/score.
type ScoreRequest struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	URL      string   `json:"url"`
	Comments []string `json:"comments"`
}

// ScoreHandler scores a single submitted post through the full pipeline.
type ScoreHandler struct {
	pipeline pipeline.Pipeline
}

// NewScoreHandler builds the handler.
func NewScoreHandler(pl pipeline.Pipeline) *ScoreHandler {
	return &ScoreHandler{pipeline: pl}
}

// Score handles POST /api/v1/score.
func (h *ScoreHandler) Score(c *gin.Context) {
	var req ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid request body"))
		return
	}

	p := post.Post{
		Title:    req.Title,
		Body:     req.Body,
		URL:      req.URL,
		Comments: req.Comments,
	}
	if p.IsEmpty() {
		writeError(c, errors.New(errors.ErrCodeValidation, "post has no analyzable text"))
		return
	}

	scored, err := h.pipeline.ScorePost(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, scored)
}

// ErrorResponse is the error body shared by all endpoints.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	c.AbortWithStatusJSON(code.HTTPStatus(), ErrorResponse{
		Code:    string(code),
		Message: err.Error(),
	})
}
