package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-impact-risk/internal/impact"
	"github.com/mr1hm/go-impact-risk/internal/metrics"
	"github.com/mr1hm/go-impact-risk/internal/mitigation"
	"github.com/mr1hm/go-impact-risk/internal/models"
	"github.com/mr1hm/go-impact-risk/internal/repository"
	"github.com/mr1hm/go-impact-risk/internal/stream"
	"github.com/mr1hm/go-impact-risk/internal/sweep"
	"github.com/mr1hm/go-impact-risk/internal/timeline"
)

type Handler struct {
	calc        *impact.Calculator
	catalog     *mitigation.Catalog
	simulator   *timeline.Simulator
	broadcaster *stream.Broadcaster
	sweeper     *sweep.Sweeper
	repo        repository.ResultRepository
}

type Deps struct {
	Calculator  *impact.Calculator
	Catalog     *mitigation.Catalog
	Simulator   *timeline.Simulator
	Broadcaster *stream.Broadcaster
	Sweeper     *sweep.Sweeper
	Repo        repository.ResultRepository
}

func NewHandler(d Deps) *Handler {
	useJSONFieldNames()
	return &Handler{
		calc:        d.Calculator,
		catalog:     d.Catalog,
		simulator:   d.Simulator,
		broadcaster: d.Broadcaster,
		sweeper:     d.Sweeper,
		repo:        d.Repo,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)

	api := r.Group("/api")
	api.GET("/sites", h.getSites)
	api.POST("/assessments", h.createAssessment)
	api.POST("/assessments/sweep", h.sweepAssessment)

	api.GET("/strategies", h.getStrategies)
	api.POST("/mitigation/evaluate", h.evaluateMitigation)
	api.GET("/mitigation/:id/comparison", h.compareMitigation)

	api.GET("/timeline", h.getTimeline)
	api.POST("/timeline/routes", h.startRoutes)
	api.PUT("/timeline/lead-time", h.setLeadTime)
	api.PUT("/timeline/evacuation", h.setEvacuationStart)
	api.GET("/timeline/projection", h.getProjection)
	api.GET("/timeline/stream", h.streamTimeline)

	api.POST("/results", h.saveResult)
	api.GET("/results", h.listResults)
	api.GET("/results/:id", h.getResult)
	api.GET("/results/:id/export", h.exportResult)
	api.DELETE("/results/:id", h.deleteResult)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) getSites(c *gin.Context) {
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, sitesToGeoJSON(impact.Sites()))
}

func (h *Handler) createAssessment(c *gin.Context) {
	var req assessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	site, err := impact.SiteByID(req.SiteID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	a, err := h.assess(req.params(), site)
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) sweepAssessment(c *gin.Context) {
	var req asteroidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	sites := impact.Sites()
	assessments, err := h.sweeper.Sweep(c.Request.Context(), req.params(), sites)
	if err != nil {
		var invalid *impact.InvalidParameterError
		if errors.As(err, &invalid) {
			metrics.AssessmentErrorsTotal.WithLabelValues("invalid_parameter").Inc()
			badRequest(c, err)
			return
		}
		slog.Error("sweep failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sweep target sites"})
		return
	}
	for _, a := range assessments {
		metrics.AssessmentsTotal.WithLabelValues(string(a.SeverityLevel)).Inc()
	}

	if c.Query("format") == "geojson" {
		c.Header("Content-Type", "application/geo+json")
		c.JSON(http.StatusOK, assessmentsToGeoJSON(sites, assessments))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"assessments": assessments,
		"count":       len(assessments),
	})
}

// assess runs the calculator and records the outcome.
func (h *Handler) assess(params models.AsteroidParameters, site models.TargetSite) (models.ImpactAssessment, error) {
	a, err := h.calc.Assess(params, site)
	if err != nil {
		metrics.AssessmentErrorsTotal.WithLabelValues(errorKind(err)).Inc()
		return a, err
	}
	metrics.AssessmentsTotal.WithLabelValues(string(a.SeverityLevel)).Inc()
	return a, nil
}

func (h *Handler) getStrategies(c *gin.Context) {
	strategies := mitigation.Rank(h.catalog.Strategies())
	c.JSON(http.StatusOK, gin.H{
		"strategies": strategies,
		"count":      len(strategies),
	})
}

func (h *Handler) evaluateMitigation(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	results, err := mitigation.Evaluate(mitigation.Rank(h.catalog.Strategies()), models.MissionConstraints{
		BudgetM:        req.BudgetM,
		LeadTimeMonths: req.LeadTimeMonths,
	})
	if err != nil {
		badRequest(c, err)
		return
	}
	metrics.MitigationEvaluationsTotal.Inc()

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"count":   len(results),
	})
}

func (h *Handler) compareMitigation(c *gin.Context) {
	var baseline int64
	if b := c.Query("baseline"); b != "" {
		v, err := strconv.ParseInt(b, 10, 64)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "baseline must be a non-negative integer",
				"field": "baseline",
			})
			return
		}
		baseline = v
	}

	cmp, err := h.catalog.Compare(models.StrategyID(c.Param("id")), baseline)
	if err != nil {
		var unknown *mitigation.UnknownStrategyError
		if errors.As(err, &unknown) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, cmp)
}

func badRequest(c *gin.Context, err error) {
	field, msg := validationMessage(err)
	body := gin.H{"error": msg}
	if field != "" {
		body["field"] = field
	}
	c.JSON(http.StatusBadRequest, body)
}

func errorKind(err error) string {
	var invalid *impact.InvalidParameterError
	var severity *impact.UnknownSeverityError
	switch {
	case errors.As(err, &invalid):
		return "invalid_parameter"
	case errors.As(err, &severity):
		return "unknown_severity"
	default:
		return "other"
	}
}
