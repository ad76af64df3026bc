package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradejournal/internal/service"
)

type ProfileHandler struct {
	Profiles *service.ProfileService
}

func (h *ProfileHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/profile")
	g.GET("", h.get)
	g.PUT("/preferences", h.updatePreferences)
}

// @Summary My profile and email preferences
// @Tags profile
// @Security BearerAuth
// @Success 200 {object} apiResponse
// @Router /api/profile [get]
func (h *ProfileHandler) get(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	item, err := h.Profiles.Get(c.Request.Context(), p.UserID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, item, nil)
}

// @Summary Update email preferences
// @Tags profile
// @Security BearerAuth
// @Accept json
// @Param body body service.Preferences true "flags to change"
// @Success 200 {object} apiResponse
// @Router /api/profile/preferences [put]
func (h *ProfileHandler) updatePreferences(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	var req service.Preferences
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	item, err := h.Profiles.UpdatePreferences(c.Request.Context(), p.UserID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, item, nil)
}
