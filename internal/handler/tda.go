package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"tradejournal/internal/service"
)

type TDAHandler struct {
	TDA *service.TDAService
}

func (h *TDAHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/tda")
	g.GET("/questions", h.listQuestions)
	g.GET("/analyses", h.list)
	g.POST("/analyses", h.create)
	g.GET("/analyses/:id", h.get)
	g.PUT("/analyses/:id", h.update)
	g.DELETE("/analyses/:id", h.delete)
	g.GET("/analyses/:id/history", h.history)
	g.PUT("/analyses/:id/timeframes/:timeframe", h.upsertTimeframe)
	g.GET("/analyses/:id/answers", h.listAnswers)
	g.PUT("/analyses/:id/answers", h.upsertAnswers)
	g.POST("/analyses/:id/enhance", h.enhance)
	g.POST("/analyses/:id/email", h.email)
	g.GET("/analyses/:id/audit", h.audit)
	g.GET("/analyses/:id/screenshots", h.listScreenshots)
	g.POST("/analyses/:id/screenshots", h.uploadScreenshot)
	g.DELETE("/analyses/:id/screenshots/:sid", h.deleteScreenshot)
	g.GET("/analyses/:id/announcements", h.listAnnouncements)
	g.POST("/analyses/:id/announcements", h.createAnnouncement)
	g.DELETE("/analyses/:id/announcements/:aid", h.deleteAnnouncement)
}

// @Summary List active questions
// @Tags tda
// @Security BearerAuth
// @Param timeframe query string false "timeframe code"
// @Success 200 {object} apiResponse
// @Router /api/tda/questions [get]
func (h *TDAHandler) listQuestions(c *gin.Context) {
	items, err := h.TDA.ListQuestions(c.Request.Context(), stringQueryPtr(c, "timeframe"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, items, nil)
}

// @Summary List analyses
// @Tags tda
// @Security BearerAuth
// @Param status query string false "DRAFT, COMPLETED or ARCHIVED"
// @Param currency_pair query string false "pair"
// @Param limit query int false "page size"
// @Param offset query int false "offset"
// @Success 200 {object} apiResponse
// @Router /api/tda/analyses [get]
func (h *TDAHandler) list(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	limit, offset := pageQuery(c, 50)
	items, total, err := h.TDA.ListAnalyses(c.Request.Context(), p.UserID, service.AnalysisFilter{
		Status:       stringQueryPtr(c, "status"),
		CurrencyPair: stringQueryPtr(c, "currency_pair"),
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

type createAnalysisRequest struct {
	CurrencyPair string `json:"currency_pair" binding:"required"`
}

// @Summary Start a draft analysis
// @Tags tda
// @Security BearerAuth
// @Accept json
// @Param body body createAnalysisRequest true "pair"
// @Success 201 {object} apiResponse
// @Router /api/tda/analyses [post]
func (h *TDAHandler) create(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	var req createAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "currency_pair is required", nil)
		return
	}
	item, err := h.TDA.CreateAnalysis(c.Request.Context(), p.UserID, req.CurrencyPair)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Created(c, item)
}

// @Summary Get an analysis with its children
// @Tags tda
// @Security BearerAuth
// @Param id path string true "analysis id"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /api/tda/analyses/{id} [get]
func (h *TDAHandler) get(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	out, err := h.TDA.GetAnalysis(c.Request.Context(), p.UserID, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, out, nil)
}

// @Summary Edit a draft or change its status
// @Tags tda
// @Security BearerAuth
// @Accept json
// @Param id path string true "analysis id"
// @Param body body service.AnalysisUpdate true "changes"
// @Success 200 {object} apiResponse
// @Failure 409 {object} apiResponse
// @Router /api/tda/analyses/{id} [put]
func (h *TDAHandler) update(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.AnalysisUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	item, err := h.TDA.UpdateAnalysis(c.Request.Context(), p.UserID, id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, item, nil)
}

// @Summary Delete an analysis and all of its children
// @Description Children are removed step by step. When a step fails the response is 500 and carries the deletion report.
// @Tags tda
// @Security BearerAuth
// @Param id path string true "analysis id"
// @Success 200 {object} apiResponse
// @Failure 500 {object} apiResponse
// @Router /api/tda/analyses/{id} [delete]
func (h *TDAHandler) delete(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rep, err := h.TDA.DeleteAnalysis(c.Request.Context(), p.UserID, id)
	if errors.Is(err, service.ErrPartialDelete) {
		c.JSON(http.StatusInternalServerError, apiResponse{
			Code:    http.StatusInternalServerError,
			Message: "delete incomplete",
			Data:    rep,
		})
		return
	}
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, rep, nil)
}

// @Summary Status history of an analysis
// @Tags tda
// @Security BearerAuth
// @Param id path string true "analysis id"
// @Success 200 {object} apiResponse
// @Router /api/tda/analyses/{id}/history [get]
func (h *TDAHandler) history(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	items, err := h.TDA.History(c.Request.Context(), p.UserID, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, items, nil)
}

// @Summary Create or replace one timeframe verdict
// @Tags tda
// @Security BearerAuth
// @Accept json
// @Param id path string true "analysis id"
// @Param timeframe path string true "MN1, W1, D1, DAILY, H4, H1, M30, M15 or M10"
// @Param body body service.TimeframeInput true "verdict"
// @Success 200 {object} apiResponse
// @Router /api/tda/analyses/{id}/timeframes/{timeframe} [put]
func (h *TDAHandler) upsertTimeframe(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.TimeframeInput
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	item, err := h.TDA.UpsertTimeframe(c.Request.Context(), p.UserID, id, c.Param("timeframe"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, item, nil)
}

type upsertAnswersRequest struct {
	Answers []service.AnswerInput `json:"answers" binding:"required,min=1,dive"`
}

// @Summary Record answers
// @Tags tda
// @Security BearerAuth
// @Accept json
// @Param id path string true "analysis id"
// @Param body body upsertAnswersRequest true "answers"
// @Success 200 {object} apiResponse
// @Router /api/tda/analyses/{id}/answers [put]
func (h *TDAHandler) upsertAnswers(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req upsertAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "answers are required", nil)
		return
	}
	for i := range req.Answers {
		qid, ok := bodyID(c, "question_id", req.Answers[i].QuestionID)
		if !ok {
			return
		}
		req.Answers[i].QuestionID = qid
	}
	items, err := h.TDA.UpsertAnswers(c.Request.Context(), p.UserID, id, req.Answers)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, items, nil)
}

// @Summary List answers
// @Tags tda
// @Security BearerAuth
// @Param id path string true "analysis id"
// @Param timeframe query string false "timeframe"
// @Success 200 {object} apiResponse
// @Router /api/tda/analyses/{id}/answers [get]
func (h *TDAHandler) listAnswers(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	items, err := h.TDA.ListAnswers(c.Request.Context(), p.UserID, id, stringQueryPtr(c, "timeframe"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, items, nil)
}

// @Summary Enhance an analysis with market data and reasoning
// @Tags tda
// @Security BearerAuth
// @Param id path string true "analysis id"
// @Param apply query bool false "persist the metrics when the analysis is a draft"
// @Success 200 {object} apiResponse
// @Router /api/tda/analyses/{id}/enhance [post]
func (h *TDAHandler) enhance(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	out, err := h.TDA.EnhanceAnalysis(c.Request.Context(), p.UserID, id, boolQueryDefault(c, "apply", false))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, out, nil)
}

// @Summary Email the analysis to the caller
// @Tags tda
// @Security BearerAuth
// @Param id path string true "analysis id"
// @Success 200 {object} apiResponse
// @Router /api/tda/analyses/{id}/email [post]
func (h *TDAHandler) email(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	emailID, err := h.TDA.EmailAnalysis(c.Request.Context(), p.UserID, p.Email, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, gin.H{"email_id": emailID}, nil)
}

// @Summary Check completion prerequisites
// @Tags tda
// @Security BearerAuth
// @Param id path string true "analysis id"
// @Success 200 {object} apiResponse
// @Router /api/tda/analyses/{id}/audit [get]
func (h *TDAHandler) audit(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	out, err := h.TDA.AuditAnalysis(c.Request.Context(), p.UserID, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, out, nil)
}
