package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradejournal/internal/service"
)

type TradeHandler struct {
	Trades *service.TradeService
}

func (h *TradeHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/trades")
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/stats", h.stats)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

// @Summary List trades
// @Tags trades
// @Security BearerAuth
// @Param from query string false "trade_date lower bound (inclusive)"
// @Param to query string false "trade_date upper bound (exclusive)"
// @Param status query string false "OPEN or CLOSED"
// @Param currency_pair query string false "e.g. EURUSD"
// @Param sort query string false "asc or desc (default)"
// @Param limit query int false "page size"
// @Param offset query int false "offset"
// @Success 200 {object} apiResponse
// @Router /api/trades [get]
func (h *TradeHandler) list(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	from, ok := timeQueryPtr(c, "from")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid from", nil)
		return
	}
	to, ok := timeQueryPtr(c, "to")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid to", nil)
		return
	}
	limit, offset := pageQuery(c, 100)
	items, total, err := h.Trades.List(c.Request.Context(), p.UserID, service.TradeFilter{
		From:         from,
		To:           to,
		Status:       stringQueryPtr(c, "status"),
		CurrencyPair: stringQueryPtr(c, "currency_pair"),
		Ascending:    c.Query("sort") == "asc",
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

// @Summary Create a trade
// @Tags trades
// @Security BearerAuth
// @Accept json
// @Param body body service.TradeInput true "trade"
// @Success 201 {object} apiResponse
// @Failure 400 {object} apiResponse
// @Router /api/trades [post]
func (h *TradeHandler) create(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	var req service.TradeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	item, err := h.Trades.Create(c.Request.Context(), p.UserID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Created(c, item)
}

// @Summary Trade statistics
// @Tags trades
// @Security BearerAuth
// @Param from query string false "lower bound"
// @Param to query string false "upper bound"
// @Success 200 {object} apiResponse
// @Router /api/trades/stats [get]
func (h *TradeHandler) stats(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	from, okFrom := timeQueryPtr(c, "from")
	to, okTo := timeQueryPtr(c, "to")
	if !okFrom || !okTo {
		Error(c, http.StatusBadRequest, "invalid time range", nil)
		return
	}
	out, err := h.Trades.Stats(c.Request.Context(), p.UserID, from, to)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, out, nil)
}

// @Summary Get a trade
// @Tags trades
// @Security BearerAuth
// @Param id path string true "trade id"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /api/trades/{id} [get]
func (h *TradeHandler) get(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.Trades.Get(c.Request.Context(), p.UserID, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, item, nil)
}

// @Summary Update a trade
// @Tags trades
// @Security BearerAuth
// @Accept json
// @Param id path string true "trade id"
// @Param body body service.TradeInput true "fields to change"
// @Success 200 {object} apiResponse
// @Router /api/trades/{id} [put]
func (h *TradeHandler) update(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.TradeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	item, err := h.Trades.Update(c.Request.Context(), p.UserID, id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, item, nil)
}

// @Summary Delete a trade
// @Tags trades
// @Security BearerAuth
// @Param id path string true "trade id"
// @Success 200 {object} apiResponse
// @Router /api/trades/{id} [delete]
func (h *TradeHandler) delete(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Trades.Delete(c.Request.Context(), p.UserID, id); err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, gin.H{"deleted": true}, nil)
}
