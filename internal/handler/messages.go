package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradejournal/internal/service"
)

type MessageHandler struct {
	Messages *service.MessageService
}

func (h *MessageHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/messages")
	g.GET("/unread-count", h.unreadCount)
	g.GET("/conversations", h.conversations)
	g.GET("/conversations/:userId", h.conversation)
	g.POST("/conversations/:userId/read", h.markRead)
	g.POST("", h.send)
	g.DELETE("/:id", h.delete)

	r.GET("/users/search", h.searchUsers)
}

// @Summary Unread message count
// @Tags messages
// @Security BearerAuth
// @Success 200 {object} apiResponse
// @Router /api/messages/unread-count [get]
func (h *MessageHandler) unreadCount(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	n, err := h.Messages.UnreadCount(c.Request.Context(), p.UserID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, gin.H{"count": n}, nil)
}

// @Summary Conversations with latest message and unread count
// @Tags messages
// @Security BearerAuth
// @Success 200 {object} apiResponse
// @Router /api/messages/conversations [get]
func (h *MessageHandler) conversations(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	items, err := h.Messages.ListConversations(c.Request.Context(), p.UserID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, items, nil)
}

// @Summary Messages exchanged with one user
// @Description Read-only; use the read endpoint to mark them read.
// @Tags messages
// @Security BearerAuth
// @Param userId path string true "counterpart id"
// @Param limit query int false "page size"
// @Param offset query int false "offset"
// @Success 200 {object} apiResponse
// @Router /api/messages/conversations/{userId} [get]
func (h *MessageHandler) conversation(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	otherID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	limit, offset := pageQuery(c, 100)
	items, err := h.Messages.GetConversation(c.Request.Context(), p.UserID, otherID, limit, offset)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, items, nil)
}

// @Summary Mark a conversation read
// @Tags messages
// @Security BearerAuth
// @Param userId path string true "counterpart id"
// @Success 200 {object} apiResponse
// @Router /api/messages/conversations/{userId}/read [post]
func (h *MessageHandler) markRead(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	otherID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	n, err := h.Messages.MarkConversationRead(c.Request.Context(), p.UserID, otherID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, gin.H{"marked": n}, nil)
}

type sendMessageRequest struct {
	ReceiverID string `json:"receiver_id" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

// @Summary Send a direct message
// @Tags messages
// @Security BearerAuth
// @Accept json
// @Param body body sendMessageRequest true "message"
// @Success 201 {object} apiResponse
// @Failure 400 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /api/messages [post]
func (h *MessageHandler) send(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "receiver_id and content are required", nil)
		return
	}
	receiverID, ok := bodyID(c, "receiver_id", req.ReceiverID)
	if !ok {
		return
	}
	item, err := h.Messages.Send(c.Request.Context(), p.UserID, receiverID, req.Content)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Created(c, item)
}

// @Summary Delete a message
// @Tags messages
// @Security BearerAuth
// @Param id path string true "message id"
// @Success 200 {object} apiResponse
// @Router /api/messages/{id} [delete]
func (h *MessageHandler) delete(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Messages.Delete(c.Request.Context(), p.UserID, id); err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, gin.H{"deleted": true}, nil)
}

// @Summary Find users to message
// @Tags messages
// @Security BearerAuth
// @Param q query string true "display name or email prefix"
// @Success 200 {object} apiResponse
// @Router /api/users/search [get]
func (h *MessageHandler) searchUsers(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	items, err := h.Messages.SearchUsers(c.Request.Context(), p.UserID, c.Query("q"), intQuery(c, "limit", 20))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, items, nil)
}
