package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"showprep-backend/internal/dimension"
	"showprep-backend/internal/model"
)

// ShowResponse represents the API response for a single show.
type ShowResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Dates string  `json:"dates"`
	Venue string  `json:"venue"`
	Notes *string `json:"notes"`
}

// GetShows handles GET /api/shows.
func (h *Handler) GetShows(c *gin.Context) {
	shows, err := h.store.ListShows(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve shows"})
		return
	}

	responses := make([]ShowResponse, 0, len(shows))
	for _, s := range shows {
		responses = append(responses, ShowResponse{
			ID: s.ID, Name: s.Name, Dates: s.Dates, Venue: s.Venue, Notes: s.Notes,
		})
	}
	c.JSON(http.StatusOK, responses)
}

// TruckResponse represents the API response for a single truck profile.
type TruckResponse struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	LengthIn *float64 `json:"interiorLengthIn"`
	WidthIn  *float64 `json:"interiorWidthIn"`
	HeightIn *float64 `json:"interiorHeightIn"`
	Interior string   `json:"interior"`
	Notes    *string  `json:"notes"`
}

// GetTrucks handles GET /api/trucks.
func (h *Handler) GetTrucks(c *gin.Context) {
	trucks, err := h.store.ListTrucks(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve trucks"})
		return
	}

	responses := make([]TruckResponse, 0, len(trucks))
	for _, t := range trucks {
		responses = append(responses, truckResponse(t))
	}
	c.JSON(http.StatusOK, responses)
}

func truckResponse(t model.TruckProfile) TruckResponse {
	return TruckResponse{
		ID:       t.ID,
		Name:     t.Name,
		LengthIn: t.InteriorLengthIn,
		WidthIn:  t.InteriorWidthIn,
		HeightIn: t.InteriorHeightIn,
		Interior: dimension.FormatCaseDimensions(t.InteriorLengthIn, t.InteriorWidthIn, t.InteriorHeightIn),
		Notes:    t.Notes,
	}
}
