package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradejournal/internal/service"
)

// AdminHandler serves question management and announcement broadcasts. Mount
// it behind both the session gate and the admin check.
type AdminHandler struct {
	TDA           *service.TDAService
	Announcements *service.AnnouncementService
}

func (h *AdminHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/admin")
	g.POST("/questions", h.createQuestion)
	g.PUT("/questions/:id", h.updateQuestion)
	g.DELETE("/questions/:id", h.deactivateQuestion)
	g.POST("/announcements/email", h.broadcast)
}

// @Summary Create a question
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Param body body service.QuestionInput true "question"
// @Success 201 {object} apiResponse
// @Router /api/admin/questions [post]
func (h *AdminHandler) createQuestion(c *gin.Context) {
	var req service.QuestionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	item, err := h.TDA.CreateQuestion(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Created(c, item)
}

// @Summary Publish a new version of a question
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Param id path string true "current question id"
// @Param body body service.QuestionInput true "changes"
// @Success 200 {object} apiResponse
// @Router /api/admin/questions/{id} [put]
func (h *AdminHandler) updateQuestion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.QuestionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	item, err := h.TDA.UpdateQuestion(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, item, nil)
}

// @Summary Deactivate a question
// @Tags admin
// @Security BearerAuth
// @Param id path string true "question id"
// @Success 200 {object} apiResponse
// @Router /api/admin/questions/{id} [delete]
func (h *AdminHandler) deactivateQuestion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.TDA.DeactivateQuestion(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, gin.H{"active": false}, nil)
}

type broadcastRequest struct {
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

// @Summary Email an announcement to every subscriber
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Param body body broadcastRequest true "announcement"
// @Success 200 {object} apiResponse
// @Router /api/admin/announcements/email [post]
func (h *AdminHandler) broadcast(c *gin.Context) {
	var req broadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "subject and body are required", nil)
		return
	}
	out, err := h.Announcements.Broadcast(c.Request.Context(), req.Subject, req.Body)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, out, nil)
}
