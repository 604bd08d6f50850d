package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/notevault/backend/internal/infrastructure/monitoring"
	"github.com/notevault/backend/internal/service"
	"github.com/notevault/backend/internal/shared/id"
	"github.com/notevault/backend/internal/shared/types"
	"github.com/notevault/backend/internal/shared/utils"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	registry *service.Registry
	metrics  *monitoring.Metrics
}

// NewHandlers creates a new handler set
func NewHandlers(registry *service.Registry, metrics *monitoring.Metrics) *Handlers {
	return &Handlers{
		registry: registry,
		metrics:  metrics,
	}
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "NoteVault Backend",
		"version": "0.3.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"service_registry": h.registry.Stats(),
		"uptime_seconds":   h.metrics.UptimeSeconds(),
	})
}

// Stats returns aggregated request and execution counters
func (h *Handlers) Stats(c *gin.Context) {
	snap := h.metrics.Snapshot()

	avgDuration := 0.0
	if snap.RequestCount > 0 {
		avgDuration = snap.TotalDuration / float64(snap.RequestCount)
	}

	c.JSON(http.StatusOK, gin.H{
		"total_requests":       snap.TotalRequests,
		"total_errors":         snap.TotalErrors,
		"total_executions":     snap.TotalExecutions,
		"avg_request_duration": avgDuration,
		"uptime_seconds":       h.metrics.UptimeSeconds(),
	})
}

// ListServices lists all available services
func (h *Handlers) ListServices(c *gin.Context) {
	categoryStr := c.Query("category")

	var category *types.Category
	if categoryStr != "" {
		cat := types.Category(categoryStr)
		category = &cat
	}

	services := h.registry.List(category)
	stats := h.registry.Stats()

	c.JSON(http.StatusOK, gin.H{
		"services": services,
		"stats":    stats,
	})
}

// DiscoverServices discovers relevant services for a request
func (h *Handlers) DiscoverServices(c *gin.Context) {
	var req struct {
		Query string `json:"query" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := utils.ValidateQuery(req.Query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	services := h.registry.Discover(req.Query, 5)

	c.JSON(http.StatusOK, gin.H{
		"query":    req.Query,
		"services": services,
	})
}

// ExecuteService executes a service tool
func (h *Handlers) ExecuteService(c *gin.Context) {
	var req types.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Validate tool ID
	if err := utils.ValidateToolID(req.ToolID, "tool_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Validate scopes before they reach the security layer
	if err := utils.ValidateScopes(req.Scopes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	appCtx := &types.Context{
		RequestID: id.NewRequestID().String(),
		ClientID:  req.ClientID,
		Scopes:    req.Scopes,
	}

	result, err := h.registry.Execute(c.Request.Context(), req.ToolID, req.Params, appCtx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
