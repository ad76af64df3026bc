package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tradejournal/internal/report"
	"tradejournal/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	Reports *service.ReportService
	Now     func() time.Time
}

func (h *ReportHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/reports")
	g.POST("/:period/send", h.send)
	g.GET("/:period/export", h.export)
}

// RegisterCron mounts the scheduler trigger; guard must authenticate the
// scheduler, not a user.
func (h *ReportHandler) RegisterCron(r *gin.Engine, guard gin.HandlerFunc) {
	r.POST("/api/cron/reports/:period", guard, h.cron)
}

func (h *ReportHandler) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

func periodParam(c *gin.Context) (report.Period, bool) {
	p, err := report.ParsePeriod(c.Param("period"))
	if err != nil {
		Error(c, http.StatusBadRequest, "period must be weekly, monthly, quarterly or yearly", nil)
		return "", false
	}
	return p, true
}

// @Summary Email me my last period report now
// @Tags reports
// @Security BearerAuth
// @Param period path string true "weekly, monthly, quarterly or yearly"
// @Success 200 {object} apiResponse
// @Router /api/reports/{period}/send [post]
func (h *ReportHandler) send(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	period, ok := periodParam(c)
	if !ok {
		return
	}
	id, err := h.Reports.SendMyReport(c.Request.Context(), p.UserID, p.Email, period, h.now())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, gin.H{"email_id": id}, nil)
}

// @Summary Download my last period report as xlsx
// @Tags reports
// @Security BearerAuth
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param period path string true "weekly, monthly, quarterly or yearly"
// @Success 200 {file} file
// @Router /api/reports/{period}/export [get]
func (h *ReportHandler) export(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	period, ok := periodParam(c)
	if !ok {
		return
	}
	name, content, err := h.Reports.ExportTrades(c.Request.Context(), p.UserID, period, h.now())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, xlsxContentType, content)
}

// @Summary Run the scheduled report job
// @Description Does nothing unless today is the period's trigger day in the reporting time zone.
// @Tags cron
// @Security CronSecret
// @Param period path string true "weekly, monthly, quarterly or yearly"
// @Success 200 {object} apiResponse
// @Router /api/cron/reports/{period} [post]
func (h *ReportHandler) cron(c *gin.Context) {
	period, ok := periodParam(c)
	if !ok {
		return
	}
	run, err := h.Reports.RunScheduledReports(c.Request.Context(), period, h.now())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, run, nil)
}
