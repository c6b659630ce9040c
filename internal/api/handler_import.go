package api

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"showprep-backend/internal/csvio"
)

// GetCaseTemplate handles GET /api/cases/template.
func (h *Handler) GetCaseTemplate(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="cases-template.csv"`)
	c.Data(http.StatusOK, "text/csv", []byte(csvio.Template()))
}

// GetCaseExport handles GET /api/cases/export.
func (h *Handler) GetCaseExport(c *gin.Context) {
	cases, err := h.store.ListCases(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cases"})
		return
	}

	var buf bytes.Buffer
	if err := csvio.Export(&buf, cases); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="cases.csv"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// PostCaseImport handles POST /api/cases/import. The body is raw CSV. Valid
// rows are upserted; rejected rows come back with their line numbers so the
// operator can fix the sheet and re-upload.
func (h *Handler) PostCaseImport(c *gin.Context) {
	cases, rowErrors, err := csvio.ParseImport(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.UpsertCases(c.Request.Context(), cases); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if rowErrors == nil {
		rowErrors = []csvio.RowError{}
	}
	c.JSON(http.StatusOK, gin.H{
		"imported": len(cases),
		"rejected": len(rowErrors),
		"errors":   rowErrors,
	})
}
