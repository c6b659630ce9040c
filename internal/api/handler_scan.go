package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"showprep-backend/internal/intake"
	"showprep-backend/internal/store"
)

type scanRequest struct {
	CaseID            string `json:"caseId"`
	Status            string `json:"status"`
	Zone              string `json:"zone"`
	Truck             string `json:"truck"`
	Location          string `json:"location"`
	ShowID            string `json:"showId"`
	Note              string `json:"note"`
	OperatorLabel     string `json:"operatorLabel"`
	IssueType         string `json:"issueType"`
	IssueNotes        string `json:"issueNotes"`
	IssuePhotoDataURL string `json:"issuePhotoDataUrl"`
}

type scanResponse struct {
	ID                string `json:"id"`
	Status            string `json:"status"`
	Location          string `json:"location"`
	IssueLogged       bool   `json:"issueLogged"`
	IssuePhotoStored  bool   `json:"issuePhotoStored"`
	IssuePhotoWarning string `json:"issuePhotoWarning,omitempty"`
}

// PostScan handles POST /api/scan, the authoritative write path for every
// status transition, whether scanned live or replayed from an offline queue.
func (h *Handler) PostScan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.intake.Process(c.Request.Context(), intake.Request{
		CaseID:            req.CaseID,
		Status:            req.Status,
		Zone:              req.Zone,
		Truck:             req.Truck,
		Location:          req.Location,
		ShowID:            req.ShowID,
		Note:              req.Note,
		OperatorLabel:     req.OperatorLabel,
		IssueType:         req.IssueType,
		IssueNotes:        req.IssueNotes,
		IssuePhotoDataURL: req.IssuePhotoDataURL,
	})
	if err != nil {
		c.JSON(scanErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, scanResponse{
		ID:                result.ID,
		Status:            result.Status,
		Location:          result.Location,
		IssueLogged:       result.IssueLogged,
		IssuePhotoStored:  result.IssuePhotoStored,
		IssuePhotoWarning: result.IssuePhotoWarning,
	})
}

// scanErrorStatus maps intake failures onto the response classes clients key
// their retry behavior off: 4xx means fix the request, 5xx means try again.
func scanErrorStatus(err error) int {
	var invalidStatus *intake.InvalidStatusError
	switch {
	case errors.Is(err, store.ErrCaseNotFound), errors.Is(err, store.ErrShowNotFound):
		return http.StatusNotFound
	case errors.Is(err, intake.ErrMissingFields),
		errors.Is(err, intake.ErrIssueNeedsShow),
		errors.Is(err, intake.ErrInvalidIssueType),
		errors.As(err, &invalidStatus):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
