package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tradejournal/internal/service"
)

type HealthHandler struct {
	DB   service.Pinger
	Deps *service.HealthService
}

func (h *HealthHandler) Register(r *gin.Engine) {
	r.GET("/healthz", h.health)
	r.GET("/readyz", h.ready)
}

// RegisterDependencies mounts the downstream probe on an authenticated group.
func (h *HealthHandler) RegisterDependencies(r *gin.RouterGroup) {
	r.GET("/health/dependencies", h.dependencies)
}

// @Summary Health check
// @Tags health
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (h *HealthHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Readiness check
// @Tags health
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /readyz [get]
func (h *HealthHandler) ready(c *gin.Context) {
	if h.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db_missing"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.DB.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db_unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// @Summary Probe downstream dependencies
// @Tags health
// @Security BearerAuth
// @Success 200 {object} apiResponse
// @Failure 503 {object} apiResponse
// @Router /api/health/dependencies [get]
func (h *HealthHandler) dependencies(c *gin.Context) {
	if h.Deps == nil {
		Ok(c, []service.DependencyStatus{}, nil)
		return
	}
	items, healthy := h.Deps.Check(c.Request.Context())
	if !healthy {
		c.JSON(http.StatusServiceUnavailable, apiResponse{Code: http.StatusServiceUnavailable, Message: "degraded", Data: items})
		return
	}
	Ok(c, items, nil)
}
