package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"showprep-backend/internal/dimension"
	"showprep-backend/internal/model"
	"showprep-backend/internal/status"
	"showprep-backend/internal/store"
	"showprep-backend/internal/validate"
)

type casePayload struct {
	ID              string `json:"id"`
	Department      string `json:"department"`
	CaseType        string `json:"caseType"`
	DefaultContents string `json:"defaultContents"`
	Owner           string `json:"owner"`
	Location        string `json:"location"`
	Status          string `json:"status"`
	Notes           string `json:"notes"`
	Length          string `json:"length"`
	Width           string `json:"width"`
	Height          string `json:"height"`
}

type caseResponse struct {
	ID              string   `json:"id"`
	Department      string   `json:"department"`
	CaseType        string   `json:"caseType"`
	DefaultContents string   `json:"defaultContents"`
	Owner           *string  `json:"owner"`
	Status          string   `json:"status"`
	Location        string   `json:"location"`
	Notes           *string  `json:"notes"`
	LengthIn        *float64 `json:"lengthIn"`
	WidthIn         *float64 `json:"widthIn"`
	HeightIn        *float64 `json:"heightIn"`
	Dimensions      string   `json:"dimensions"`
}

type historyEntry struct {
	Status    string  `json:"status"`
	Location  *string `json:"location"`
	Truck     *string `json:"truck"`
	Zone      *string `json:"zone"`
	ShowName  *string `json:"showName"`
	Operator  *string `json:"operator"`
	Note      *string `json:"note"`
	ScannedAt string  `json:"scannedAt"`
}

func toCaseResponse(c model.Case) caseResponse {
	return caseResponse{
		ID:              c.ID,
		Department:      c.Department,
		CaseType:        c.CaseType,
		DefaultContents: c.DefaultContents,
		Owner:           c.OwnerLabel,
		Status:          status.Decode(status.Code(c.CurrentStatus)),
		Location:        c.CurrentLocation,
		Notes:           c.Notes,
		LengthIn:        c.LengthIn,
		WidthIn:         c.WidthIn,
		HeightIn:        c.HeightIn,
		Dimensions:      dimension.FormatCaseDimensions(c.LengthIn, c.WidthIn, c.HeightIn),
	}
}

// GetCases handles GET /api/cases.
func (h *Handler) GetCases(c *gin.Context) {
	cases, err := h.store.ListCases(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cases"})
		return
	}

	responses := make([]caseResponse, 0, len(cases))
	for _, cs := range cases {
		responses = append(responses, toCaseResponse(cs))
	}
	c.JSON(http.StatusOK, responses)
}

// GetCase handles GET /api/cases/:id, returning the projection plus the full
// status history, newest first.
func (h *Handler) GetCase(c *gin.Context) {
	id := strings.ToUpper(c.Param("id"))

	found, err := h.store.GetCase(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrCaseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "case not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	events, err := h.store.CaseHistory(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	history := make([]historyEntry, 0, len(events))
	for _, ev := range events {
		operator, noteText := status.ParseNote(ev.Note)
		entry := historyEntry{
			Status:    status.Decode(status.Code(ev.Status)),
			Location:  ev.Location,
			Truck:     ev.TruckLabel,
			Zone:      ev.ZoneLabel,
			Operator:  operator,
			Note:      noteText,
			ScannedAt: ev.ScannedAt.UTC().Format(time.RFC3339),
		}
		if ev.Show != nil {
			entry.ShowName = &ev.Show.Name
		}
		history = append(history, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"case":    toCaseResponse(found),
		"history": history,
	})
}

// PostCase handles POST /api/cases.
func (h *Handler) PostCase(c *gin.Context) {
	var req casePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newCase, err := caseFromPayload(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.CreateCase(c.Request.Context(), &newCase); err != nil {
		if errors.Is(err, store.ErrDuplicateCase) {
			c.JSON(http.StatusConflict, gin.H{"error": "A case with this ID already exists"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, toCaseResponse(newCase))
}

// PutCase handles PUT /api/cases/:id, a direct edit of the projection fields.
// Edits do not append history; only scans do.
func (h *Handler) PutCase(c *gin.Context) {
	var req casePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.ID = c.Param("id")

	edited, err := caseFromPayload(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.UpdateCase(c.Request.Context(), &edited); err != nil {
		if errors.Is(err, store.ErrCaseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "case not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, toCaseResponse(edited))
}

// caseFromPayload validates and converts a request body into a model.Case.
func caseFromPayload(req casePayload) (model.Case, error) {
	id := strings.ToUpper(validate.Normalize(req.ID))
	if err := validate.CaseID(id); err != nil {
		return model.Case{}, err
	}

	department := validate.Normalize(req.Department)
	if err := validate.Department(department); err != nil {
		return model.Case{}, err
	}

	caseType := validate.Normalize(req.CaseType)
	if err := validate.RequiredText("Case type", caseType, 80); err != nil {
		return model.Case{}, err
	}
	contents := validate.Normalize(req.DefaultContents)
	if err := validate.RequiredText("Default contents", contents, 500); err != nil {
		return model.Case{}, err
	}
	owner := validate.Normalize(req.Owner)
	if err := validate.OptionalText("Owner", owner, 80); err != nil {
		return model.Case{}, err
	}
	location := validate.Normalize(req.Location)
	if err := validate.OptionalText("Location", location, 80); err != nil {
		return model.Case{}, err
	}
	notes := validate.Normalize(req.Notes)
	if err := validate.OptionalText("Notes", notes, 400); err != nil {
		return model.Case{}, err
	}

	code := status.CodeInShop
	if s := validate.Normalize(req.Status); s != "" {
		var err error
		if code, err = status.Encode(s); err != nil {
			return model.Case{}, err
		}
	}
	if location == "" {
		location = "Shop"
	}

	out := model.Case{
		ID:              id,
		Department:      department,
		CaseType:        caseType,
		DefaultContents: contents,
		CurrentStatus:   string(code),
		CurrentLocation: location,
	}
	if owner != "" {
		out.OwnerLabel = &owner
	}
	if notes != "" {
		out.Notes = &notes
	}

	var err error
	if out.LengthIn, err = dimension.Parse(req.Length); err != nil {
		return model.Case{}, err
	}
	if out.WidthIn, err = dimension.Parse(req.Width); err != nil {
		return model.Case{}, err
	}
	if out.HeightIn, err = dimension.Parse(req.Height); err != nil {
		return model.Case{}, err
	}

	return out, nil
}
