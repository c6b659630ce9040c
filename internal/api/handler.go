package api

import (
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"showprep-backend/internal/intake"
	"showprep-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	intake  *intake.Service
	webpush *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, intakeService *intake.Service, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:   s,
		intake:  intakeService,
		webpush: webpushOptions,
	}
}

// GetHealth reports liveness plus the dashboard counts.
func (h *Handler) GetHealth(c *gin.Context) {
	counts, err := h.store.Counts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"cases":    counts.Cases,
		"shows":    counts.Shows,
		"issues":   counts.Issues,
		"inMotion": counts.InMotion,
	})
}
