package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterDocs(r *gin.Engine) {
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		c.String(http.StatusOK, `# Trading Journal API

## Auth

All /api/* routes require a Supabase-issued JWT, either as
"Authorization: Bearer <token>" or in the session cookie.
/api/admin/* additionally requires the admin role.
/api/cron/* accepts only "Authorization: Bearer <cron secret>".
Health endpoints are public.

## Routes

- GET /healthz
- GET /readyz
- GET /metrics
- GET /swagger/index.html
- GET /api/health/dependencies
- GET /api/profile
- PUT /api/profile/preferences
- GET|POST /api/trades
- GET /api/trades/stats
- GET|PUT|DELETE /api/trades/{id}
- GET /api/tda/questions
- GET|POST /api/tda/analyses
- GET|PUT|DELETE /api/tda/analyses/{id}
- GET /api/tda/analyses/{id}/history
- PUT /api/tda/analyses/{id}/timeframes/{timeframe}
- GET|PUT /api/tda/analyses/{id}/answers
- POST /api/tda/analyses/{id}/enhance
- POST /api/tda/analyses/{id}/email
- GET /api/tda/analyses/{id}/audit
- GET|POST /api/tda/analyses/{id}/screenshots
- DELETE /api/tda/analyses/{id}/screenshots/{sid}
- GET|POST /api/tda/analyses/{id}/announcements
- DELETE /api/tda/analyses/{id}/announcements/{aid}
- POST /api/messages
- DELETE /api/messages/{id}
- GET /api/messages/unread-count
- GET /api/messages/conversations
- GET /api/messages/conversations/{userId}
- POST /api/messages/conversations/{userId}/read
- GET /api/users/search
- POST /api/reports/{period}/send
- GET /api/reports/{period}/export
- POST /api/cron/reports/{period}
- POST /api/admin/questions
- PUT|DELETE /api/admin/questions/{id}
- POST /api/admin/announcements/email
`)
	})
}
