package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"tradejournal/internal/service"
)

// @Summary List screenshots
// @Tags tda
// @Security BearerAuth
// @Param id path string true "analysis id"
// @Success 200 {object} apiResponse
// @Router /api/tda/analyses/{id}/screenshots [get]
func (h *TDAHandler) listScreenshots(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	items, err := h.TDA.ListScreenshots(c.Request.Context(), p.UserID, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, items, nil)
}

// @Summary Upload a chart screenshot
// @Tags tda
// @Security BearerAuth
// @Accept multipart/form-data
// @Param id path string true "analysis id"
// @Param timeframe formData string true "timeframe"
// @Param caption formData string false "caption"
// @Param file formData file true "png, jpeg, gif or webp"
// @Success 201 {object} apiResponse
// @Router /api/tda/analyses/{id}/screenshots [post]
func (h *TDAHandler) uploadScreenshot(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		Error(c, http.StatusBadRequest, "file is required", nil)
		return
	}
	limit := h.TDA.MaxUploadBytes
	if limit <= 0 {
		limit = 10 << 20
	}
	if fh.Size > limit {
		Error(c, http.StatusRequestEntityTooLarge, "file too large", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		Error(c, http.StatusBadRequest, "unreadable file", nil)
		return
	}
	defer f.Close()
	body, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		Error(c, http.StatusBadRequest, "unreadable file", nil)
		return
	}
	item, err := h.TDA.AddScreenshot(c.Request.Context(), p.UserID, id, service.ScreenshotUpload{
		Timeframe: c.PostForm("timeframe"),
		Caption:   c.PostForm("caption"),
		Filename:  fh.Filename,
		Body:      body,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Created(c, item)
}

// @Summary Delete a screenshot
// @Tags tda
// @Security BearerAuth
// @Param id path string true "analysis id"
// @Param sid path string true "screenshot id"
// @Success 200 {object} apiResponse
// @Router /api/tda/analyses/{id}/screenshots/{sid} [delete]
func (h *TDAHandler) deleteScreenshot(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	sid, ok := pathID(c, "sid")
	if !ok {
		return
	}
	if err := h.TDA.DeleteScreenshot(c.Request.Context(), p.UserID, id, sid); err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, gin.H{"deleted": true}, nil)
}

// @Summary List announcements noted on an analysis
// @Tags tda
// @Security BearerAuth
// @Param id path string true "analysis id"
// @Success 200 {object} apiResponse
// @Router /api/tda/analyses/{id}/announcements [get]
func (h *TDAHandler) listAnnouncements(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	items, err := h.TDA.ListAnnouncements(c.Request.Context(), p.UserID, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, items, nil)
}

// @Summary Note an economic announcement on a timeframe
// @Tags tda
// @Security BearerAuth
// @Accept json
// @Param id path string true "analysis id"
// @Param body body service.AnnouncementInput true "announcement"
// @Success 201 {object} apiResponse
// @Router /api/tda/analyses/{id}/announcements [post]
func (h *TDAHandler) createAnnouncement(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.AnnouncementInput
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "timeframe and title are required", nil)
		return
	}
	item, err := h.TDA.AddAnnouncement(c.Request.Context(), p.UserID, id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Created(c, item)
}

// @Summary Delete an announcement
// @Tags tda
// @Security BearerAuth
// @Param id path string true "analysis id"
// @Param aid path string true "announcement id"
// @Success 200 {object} apiResponse
// @Router /api/tda/analyses/{id}/announcements/{aid} [delete]
func (h *TDAHandler) deleteAnnouncement(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	aid, ok := pathID(c, "aid")
	if !ok {
		return
	}
	if err := h.TDA.DeleteAnnouncement(c.Request.Context(), p.UserID, id, aid); err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, gin.H{"deleted": true}, nil)
}
