package apihandlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"phishguard/internal/models"
	"phishguard/internal/util"
)

// Scorer is the one operation the front end needs from the scoring engine.
type Scorer interface {
	Score(ctx context.Context, text string) (*models.PredictionResult, error)
}

type APIHandler struct {
	Scorer Scorer
}

func NewAPIHandler(scorer Scorer) *APIHandler {
	return &APIHandler{Scorer: scorer}
}

// pageData feeds index.html. Result is nil until a URL has been scored.
type pageData struct {
	Text   string
	Result *models.PredictionResult
	Error  string
}

// HomeHandler renders the empty form.
func (h *APIHandler) HomeHandler(c *gin.Context) {
	c.HTML(http.StatusOK, indexTemplate, pageData{})
}

// PredictHandler scores the submitted "text" form field and renders the
// per-model labels and the overall verdict.
func (h *APIHandler) PredictHandler(c *gin.Context) {
	text, ok := c.GetPostForm("text")
	if !ok {
		BadRequest(c, "", "Missing form field 'text'.")
		return
	}
	text = util.CleanInput(text, "form")

	result, err := h.Scorer.Score(c.Request.Context(), text)
	if err != nil {
		requestLog(c).WithError(err).Error("Scoring failed")
		msg := "The URL could not be scored."
		if errors.Is(err, models.ErrInvalidInput) {
			msg = "The URL could not be processed. Check the input and try again."
		}
		Internal(c, text, msg)
		return
	}

	requestLog(c).WithField("overall", result.Overall).Debug("Rendered prediction")
	c.HTML(http.StatusOK, indexTemplate, pageData{Text: text, Result: result})
}

// HealthHandler reports liveness. The registry is loaded before the server
// starts, so a running process always has every model.
func (h *APIHandler) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "models": len(models.ModelKeys())})
}
