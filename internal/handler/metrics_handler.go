package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/otakupedia/catalog-api/internal/service"
)

// MetricsHandler serves the health probes and both metrics surfaces:
// the Prometheus scrape endpoint and the JSON snapshot for the admin UI.
type MetricsHandler struct {
	metrics *service.MetricsService
}

func NewMetricsHandler(metrics *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Health answers liveness and readiness probes.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Prometheus serves the scrape endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Snapshot godoc
// @Summary Aggregated runtime metrics as JSON
// @Tags System
// @Produce json
// @Success 200 {object} models.SystemMetrics
// @Router /system/metrics [get]
func (h *MetricsHandler) Snapshot(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	c.JSON(http.StatusOK, h.metrics.Snapshot())
}

func (h *MetricsHandler) ready(c *gin.Context) bool {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return false
	}
	return true
}
