package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-impact-risk/internal/metrics"
	"github.com/mr1hm/go-impact-risk/internal/timeline"
)

func (h *Handler) getTimeline(c *gin.Context) {
	c.JSON(http.StatusOK, h.simulator.Snapshot())
}

func (h *Handler) startRoutes(c *gin.Context) {
	if h.timelineCancelled(c) {
		return
	}
	started := h.simulator.StartRoutes()
	c.JSON(http.StatusAccepted, gin.H{
		"started":  started,
		"timeline": h.simulator.Snapshot(),
	})
}

func (h *Handler) setLeadTime(c *gin.Context) {
	var req hoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if h.timelineCancelled(c) {
		return
	}
	if err := h.simulator.SetWarningLeadTime(*req.Hours); err != nil {
		timelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.simulator.Snapshot())
}

func (h *Handler) setEvacuationStart(c *gin.Context) {
	var req hoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if h.timelineCancelled(c) {
		return
	}
	if err := h.simulator.SetEvacuationStart(*req.Hours); err != nil {
		timelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.simulator.Snapshot())
}

func (h *Handler) getProjection(c *gin.Context) {
	q := c.Query("lead_time_hours")
	if q == "" {
		c.JSON(http.StatusOK, h.simulator.Projection())
		return
	}

	hours, err := strconv.ParseFloat(q, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "lead_time_hours must be a number",
			"field": "lead_time_hours",
		})
		return
	}
	p, err := timeline.Project(hours)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
			"field": "lead_time_hours",
		})
		return
	}
	c.JSON(http.StatusOK, p)
}

// streamTimeline sends the current snapshot, then every published change,
// as server-sent events until the client goes away or the broadcaster
// closes.
func (h *Handler) streamTimeline(c *gin.Context) {
	id, ch := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(id)

	metrics.StreamSubscribers.Inc()
	defer metrics.StreamSubscribers.Dec()

	c.SSEvent("timeline", h.simulator.Snapshot())
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case st, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("timeline", st)
			return true
		}
	})
}

// timelineCancelled rejects writes once the simulator has been cancelled;
// the simulator itself would ignore them silently.
func (h *Handler) timelineCancelled(c *gin.Context) bool {
	if !h.simulator.Snapshot().Cancelled {
		return false
	}
	c.JSON(http.StatusConflict, gin.H{"error": "timeline is cancelled"})
	return true
}

func timelineError(c *gin.Context, err error) {
	if errors.Is(err, timeline.ErrLeadTimeOutOfRange) || errors.Is(err, timeline.ErrEvacuationOutOfRange) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": "hours"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
