package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tradejournal/internal/auth"
)

func intQuery(c *gin.Context, key string, def int) int {
	if val := c.Query(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}

func boolQueryDefault(c *gin.Context, key string, def bool) bool {
	if val := c.Query(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return def
}

func stringQueryPtr(c *gin.Context, key string) *string {
	if v := strings.TrimSpace(c.Query(key)); v != "" {
		return &v
	}
	return nil
}

// timeQueryPtr accepts RFC3339 or a bare date. ok is false on a malformed value.
func timeQueryPtr(c *gin.Context, key string) (*time.Time, bool) {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, v); err == nil {
			t := ts.UTC()
			return &t, true
		}
	}
	return nil, false
}

// pathID reads a row id from the route. A value that is not a UUID cannot
// name any row and is answered as not found.
func pathID(c *gin.Context, name string) (string, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		Error(c, http.StatusNotFound, "not found", nil)
		return "", false
	}
	return id.String(), true
}

// bodyID validates an id supplied in a request body.
func bodyID(c *gin.Context, field, value string) (string, bool) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		Error(c, http.StatusBadRequest, field+" must be a UUID", nil)
		return "", false
	}
	return id.String(), true
}

const maxPageSize = 500

// pageQuery reads limit and offset, clamped the way the store applies them.
func pageQuery(c *gin.Context, def int) (limit, offset int) {
	limit = intQuery(c, "limit", def)
	if limit <= 0 {
		limit = def
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset = intQuery(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func paginationMeta(limit, offset int, total int64) map[string]any {
	hasNext := int64(offset+limit) < total
	return map[string]any{
		"limit":    limit,
		"offset":   offset,
		"total":    total,
		"has_next": hasNext,
	}
}

// caller returns the authenticated principal. Routes are mounted behind the
// gate, so a miss here is a wiring bug and answered like any other 401.
func caller(c *gin.Context) (auth.Principal, bool) {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		Error(c, http.StatusUnauthorized, "unauthorized", nil)
	}
	return p, ok
}
