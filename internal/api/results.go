package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mr1hm/go-impact-risk/internal/impact"
	"github.com/mr1hm/go-impact-risk/internal/metrics"
	"github.com/mr1hm/go-impact-risk/internal/models"
	"github.com/mr1hm/go-impact-risk/internal/repository"
)

const exportTimeLayout = "20060102T150405Z"

// saveResult recomputes the assessment from the submitted inputs rather
// than trusting client-side numbers, then stores it.
func (h *Handler) saveResult(c *gin.Context) {
	var req saveResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	site, err := impact.SiteByID(req.SiteID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	params := req.params()
	a, err := h.assess(params, site)
	if err != nil {
		badRequest(c, err)
		return
	}

	r := &models.SavedResult{
		ID:         uuid.NewString(),
		Label:      strings.TrimSpace(req.Label),
		Params:     params,
		Site:       site,
		Assessment: a,
		CreatedAt:  time.Now().UTC(),
	}
	if err := h.repo.Add(c.Request.Context(), r); err != nil {
		slog.Error("failed to save result", "id", r.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save result"})
		return
	}
	metrics.SavedResultsTotal.Inc()

	c.JSON(http.StatusCreated, r)
}

func (h *Handler) listResults(c *gin.Context) {
	filter := repository.Filter{
		Limit: 20, // Default to 20 results if limit param not supplied
	}

	if l := c.Query("limit"); l != "" {
		if lim, err := strconv.Atoi(l); err == nil && lim > 0 && lim <= 500 {
			filter.Limit = lim
		}
	}
	if o := c.Query("offset"); o != "" {
		if off, err := strconv.Atoi(o); err == nil && off >= 0 {
			filter.Offset = off
		}
	}
	if s := c.Query("since"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			filter.Since = &t
		}
	}
	if id := c.Query("site_id"); id != "" {
		filter.SiteID = &id
	}
	if ms := c.Query("min_severity"); ms != "" {
		if level, ok := parseSeverity(ms); ok {
			filter.MinSeverity = &level
		}
	}

	results, err := h.repo.ListResults(c.Request.Context(), filter)
	if err != nil {
		slog.Error("failed to list results", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch results"})
		return
	}
	if results == nil {
		results = []models.SavedResult{}
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"count":   len(results),
	})
}

func (h *Handler) getResult(c *gin.Context) {
	r, ok := h.lookupResult(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *Handler) exportResult(c *gin.Context) {
	r, ok := h.lookupResult(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(r)))
	c.IndentedJSON(http.StatusOK, r)
}

func (h *Handler) deleteResult(c *gin.Context) {
	err := h.repo.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "result not found"})
	case err != nil:
		slog.Error("failed to delete result", "id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete result"})
	default:
		c.Status(http.StatusNoContent)
	}
}

func (h *Handler) lookupResult(c *gin.Context) (*models.SavedResult, bool) {
	r, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "result not found"})
		return nil, false
	}
	if err != nil {
		slog.Error("failed to fetch result", "id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch result"})
		return nil, false
	}
	return r, true
}

func exportFilename(r *models.SavedResult) string {
	return fmt.Sprintf("impact-results-%s-%s.json", r.Site.ID, r.CreatedAt.UTC().Format(exportTimeLayout))
}

func parseSeverity(s string) (models.SeverityLevel, bool) {
	for _, level := range []models.SeverityLevel{
		models.SeverityLow,
		models.SeverityModerate,
		models.SeverityHigh,
		models.SeverityCatastrophic,
	} {
		if strings.EqualFold(s, string(level)) {
			return level, true
		}
	}
	return "", false
}
