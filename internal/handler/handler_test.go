package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tradejournal/internal/auth"
	"tradejournal/internal/config"
	"tradejournal/internal/db"
	"tradejournal/internal/models"
	"tradejournal/internal/report"
	gormrepository "tradejournal/internal/repository/gorm"
	"tradejournal/internal/service"
)

const testUserHeader = "X-Test-User"

// testUsers maps the names used in tests to profile ids.
var testUsers = map[string]string{
	"alice": "5f1c2b8e-7d3a-4e61-9a0b-3c4d5e6f7a81",
	"bob":   "a2b3c4d5-e6f7-4081-92a3-b4c5d6e7f809",
	"root":  "0c9d8e7f-6a5b-4c3d-8e2f-1a0b9c8d7e6f",
}

const unknownUser = "9e8d7c6b-5a49-4382-a716-f5e4d3c2b1a0"

func newTestStore(t *testing.T) *gormrepository.Store {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	handle, err := db.Wrap(gdb, config.DBConfig{MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	if err := db.AutoMigrate(handle); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(handle) })
	return gormrepository.New(gdb)
}

// testPrincipal stands in for the session gate: the caller is named by a header.
func testPrincipal(admins ...string) gin.HandlerFunc {
	isAdmin := map[string]bool{}
	for _, a := range admins {
		isAdmin[a] = true
	}
	return func(c *gin.Context) {
		id := c.GetHeader(testUserHeader)
		if id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiResponse{Code: http.StatusUnauthorized, Message: "unauthorized"})
			return
		}
		auth.SetPrincipal(c, auth.Principal{UserID: id, Email: id + "@example.com", IsAdmin: isAdmin[id]})
		c.Next()
	}
}

type testServer struct {
	engine *gin.Engine
	store  *gormrepository.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := newTestStore(t)
	for name, id := range testUsers {
		if _, err := store.EnsureProfile(t.Context(), &models.Profile{ID: id, DisplayName: name}); err != nil {
			t.Fatalf("profile: %v", err)
		}
	}
	tdaSvc := &service.TDAService{Repo: store}
	r := gin.New()
	r.Use(RequestContext(nil))

	gate := &auth.Gate{}
	api := r.Group("/api", testPrincipal(testUsers["root"]))
	(&TradeHandler{Trades: &service.TradeService{Repo: store}}).Register(api)
	(&TDAHandler{TDA: tdaSvc}).Register(api)
	(&MessageHandler{Messages: &service.MessageService{Repo: store}}).Register(api)
	(&ProfileHandler{Profiles: &service.ProfileService{Repo: store}}).Register(api)
	(&AdminHandler{TDA: tdaSvc}).Register(api.Group("", gate.RequireAdmin()))

	reports := &ReportHandler{
		Reports: &service.ReportService{Repo: store, Sanitizer: report.NewSanitizer()},
		Now:     func() time.Time { return time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC) },
	}
	reports.RegisterCron(r, auth.CronSecret("s3cret"))
	(&HealthHandler{}).Register(r)
	return &testServer{engine: r, store: store}
}

func (s *testServer) do(t *testing.T, method, path, user string, body any, headers ...string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if id, ok := testUsers[user]; ok {
		user = id
	}
	if user != "" {
		req.Header.Set(testUserHeader, user)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	var resp apiResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestTrades_CreateListAndOwnership(t *testing.T) {
	s := newTestServer(t)
	w, resp := s.do(t, http.MethodPost, "/api/trades", "alice", map[string]any{
		"currency_pair": "EURUSD",
		"direction":     "BUY",
		"entry_price":   "1.1000",
		"exit_price":    "1.1050",
		"lot_size":      "1",
		"trade_date":    "2024-01-03T10:00:00Z",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", w.Code, w.Body.String())
	}
	id, _ := resp.Data.(map[string]any)["id"].(string)
	if id == "" {
		t.Fatalf("missing id: %s", w.Body.String())
	}

	w, resp = s.do(t, http.MethodGet, "/api/trades?limit=10", "alice", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status=%d", w.Code)
	}
	if total, _ := resp.Meta["total"].(float64); total != 1 {
		t.Fatalf("meta=%v", resp.Meta)
	}

	if w, _ := s.do(t, http.MethodGet, "/api/trades/"+id, "bob", nil); w.Code != http.StatusNotFound {
		t.Fatalf("foreign get status=%d want 404", w.Code)
	}
	if w, _ := s.do(t, http.MethodGet, "/api/trades?from=yesterday", "alice", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad from status=%d want 400", w.Code)
	}
	if w, _ := s.do(t, http.MethodGet, "/api/trades", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status=%d want 401", w.Code)
	}
}

func TestTDA_CompleteWithoutTimeframeIsConflict(t *testing.T) {
	s := newTestServer(t)
	w, resp := s.do(t, http.MethodPost, "/api/tda/analyses", "alice", map[string]any{"currency_pair": "gbpusd"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", w.Code, w.Body.String())
	}
	id := resp.Data.(map[string]any)["id"].(string)

	w, _ = s.do(t, http.MethodPut, "/api/tda/analyses/"+id, "alice", map[string]any{"status": "COMPLETED"})
	if w.Code != http.StatusConflict {
		t.Fatalf("complete status=%d want 409", w.Code)
	}
	w, _ = s.do(t, http.MethodPut, "/api/tda/analyses/"+id+"/timeframes/h4", "alice", map[string]any{"sentiment": "bearish", "strength": 80})
	if w.Code != http.StatusOK {
		t.Fatalf("timeframe status=%d body=%s", w.Code, w.Body.String())
	}
	w, _ = s.do(t, http.MethodPut, "/api/tda/analyses/"+id+"/timeframes/H2", "alice", map[string]any{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown timeframe status=%d want 400", w.Code)
	}
	w, _ = s.do(t, http.MethodPut, "/api/tda/analyses/"+id, "alice", map[string]any{"status": "COMPLETED"})
	if w.Code != http.StatusOK {
		t.Fatalf("complete status=%d body=%s", w.Code, w.Body.String())
	}
	w, _ = s.do(t, http.MethodDelete, "/api/tda/analyses/"+id, "bob", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("foreign delete status=%d want 404", w.Code)
	}
	w, resp = s.do(t, http.MethodDelete, "/api/tda/analyses/"+id, "alice", nil)
	if w.Code != http.StatusOK || resp.Data.(map[string]any)["deleted"] != true {
		t.Fatalf("delete status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestMessages_SelfSendIsBadRequest(t *testing.T) {
	s := newTestServer(t)
	w, _ := s.do(t, http.MethodPost, "/api/messages", "alice", map[string]any{"receiver_id": testUsers["alice"], "content": "hi"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want 400", w.Code)
	}
	w, _ = s.do(t, http.MethodPost, "/api/messages", "alice", map[string]any{"receiver_id": unknownUser, "content": "hi"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d want 404", w.Code)
	}
	w, _ = s.do(t, http.MethodPost, "/api/messages", "alice", map[string]any{"receiver_id": "nobody", "content": "hi"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed receiver status=%d want 400", w.Code)
	}
	w, _ = s.do(t, http.MethodPost, "/api/messages", "alice", map[string]any{"receiver_id": testUsers["bob"], "content": "hi"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d want 201", w.Code)
	}
	_, resp := s.do(t, http.MethodGet, "/api/messages/unread-count", "bob", nil)
	if n := resp.Data.(map[string]any)["count"].(float64); n != 1 {
		t.Fatalf("unread=%v", n)
	}
}

func TestAdmin_RequiresAdmin(t *testing.T) {
	s := newTestServer(t)
	body := map[string]any{"timeframe": "D1", "text": "Bias?", "type": "TEXT"}
	if w, _ := s.do(t, http.MethodPost, "/api/admin/questions", "alice", body); w.Code != http.StatusForbidden {
		t.Fatalf("non-admin status=%d want 403", w.Code)
	}
	if w, _ := s.do(t, http.MethodPost, "/api/admin/questions", "root", body); w.Code != http.StatusCreated {
		t.Fatalf("admin status=%d want 201", w.Code)
	}
	_, resp := s.do(t, http.MethodGet, "/api/tda/questions?timeframe=d1", "alice", nil)
	if items := resp.Data.([]any); len(items) != 1 {
		t.Fatalf("questions=%v", items)
	}
}

func TestCron_SecretAndDayGate(t *testing.T) {
	s := newTestServer(t)
	if w, _ := s.do(t, http.MethodPost, "/api/cron/reports/weekly", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("no secret status=%d want 401", w.Code)
	}
	w, resp := s.do(t, http.MethodPost, "/api/cron/reports/weekly", "", nil, "Authorization", "Bearer s3cret")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if resp.Data.(map[string]any)["triggered"] != false {
		t.Fatalf("tuesday run triggered: %s", w.Body.String())
	}
	if w, _ := s.do(t, http.MethodPost, "/api/cron/reports/daily", "", nil, "Authorization", "Bearer s3cret"); w.Code != http.StatusBadRequest {
		t.Fatalf("bad period status=%d want 400", w.Code)
	}
}

func TestWriteServiceError_HidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/boom", func(c *gin.Context) { writeServiceError(c, errors.New("pq: password authentication failed")) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if w.Code != http.StatusInternalServerError || bytes.Contains(w.Body.Bytes(), []byte("password")) {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestRateLimit_Rejects(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(1, 2))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		codes = append(codes, w.Code)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes=%v", codes)
	}
}

func TestRequestContext_SetsRequestID(t *testing.T) {
	s := newTestServer(t)
	w, _ := s.do(t, http.MethodGet, "/healthz", "", nil)
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatalf("missing request id header")
	}
	w, _ = s.do(t, http.MethodGet, "/healthz", "", nil, requestIDHeader, "abc-123")
	if got := w.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("request id=%q want echo", got)
	}
}

func TestMalformedIDs(t *testing.T) {
	s := newTestServer(t)
	w, resp := s.do(t, http.MethodPost, "/api/tda/analyses", "alice", map[string]any{"currency_pair": "EURUSD"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", w.Code, w.Body.String())
	}
	id := resp.Data.(map[string]any)["id"].(string)

	notFound := []struct {
		method, path, user string
	}{
		{http.MethodGet, "/api/tda/analyses/abc", "alice"},
		{http.MethodPut, "/api/tda/analyses/abc/timeframes/H4", "alice"},
		{http.MethodDelete, "/api/tda/analyses/" + id + "/screenshots/xyz", "alice"},
		{http.MethodDelete, "/api/tda/analyses/" + id + "/announcements/xyz", "alice"},
		{http.MethodGet, "/api/trades/42", "alice"},
		{http.MethodGet, "/api/messages/conversations/bob", "alice"},
		{http.MethodDelete, "/api/messages/nope", "alice"},
		{http.MethodDelete, "/api/admin/questions/nope", "root"},
	}
	for _, tc := range notFound {
		if w, _ := s.do(t, tc.method, tc.path, tc.user, map[string]any{}); w.Code != http.StatusNotFound {
			t.Fatalf("%s %s status=%d want 404", tc.method, tc.path, w.Code)
		}
	}
	if w, _ := s.do(t, http.MethodGet, "/api/tda/analyses/"+unknownUser, "alice", nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing analysis status=%d want 404", w.Code)
	}
	w, _ = s.do(t, http.MethodPut, "/api/tda/analyses/"+id+"/answers", "alice", map[string]any{
		"answers": []map[string]any{{"question_id": "q1", "value": true}},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed question_id status=%d want 400", w.Code)
	}
}

func TestTDA_ResponseKeys(t *testing.T) {
	s := newTestServer(t)
	_, resp := s.do(t, http.MethodPost, "/api/tda/analyses", "alice", map[string]any{"currency_pair": "EURUSD"})
	id := resp.Data.(map[string]any)["id"].(string)
	if w, _ := s.do(t, http.MethodPut, "/api/tda/analyses/"+id+"/timeframes/D1", "alice", map[string]any{"sentiment": "BULLISH"}); w.Code != http.StatusOK {
		t.Fatalf("timeframe status=%d body=%s", w.Code, w.Body.String())
	}

	w, resp := s.do(t, http.MethodGet, "/api/tda/analyses/"+id, "alice", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status=%d body=%s", w.Code, w.Body.String())
	}
	tfs, ok := resp.Data.(map[string]any)["timeframe_analyses"].([]any)
	if !ok || len(tfs) != 1 {
		t.Fatalf("timeframe_analyses missing: %s", w.Body.String())
	}

	w, resp = s.do(t, http.MethodPost, "/api/tda/analyses/"+id+"/enhance", "alice", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("enhance status=%d body=%s", w.Code, w.Body.String())
	}
	metrics, ok := resp.Data.(map[string]any)["updatedMetrics"].(map[string]any)
	if !ok {
		t.Fatalf("updatedMetrics missing: %s", w.Body.String())
	}
	if _, ok := metrics["trade_recommendation"]; !ok {
		t.Fatalf("metrics=%v", metrics)
	}
}

func TestPaginationMeta_ReportsClampedLimit(t *testing.T) {
	s := newTestServer(t)
	for i := 0; i < 3; i++ {
		if w, _ := s.do(t, http.MethodPost, "/api/tda/analyses", "alice", map[string]any{"currency_pair": "EURUSD"}); w.Code != http.StatusCreated {
			t.Fatalf("create status=%d", w.Code)
		}
	}
	cases := []struct {
		query string
		limit float64
	}{
		{"?limit=100000", 500},
		{"?limit=0", 50},
		{"?limit=-5", 50},
		{"?limit=2", 2},
	}
	for _, tc := range cases {
		w, resp := s.do(t, http.MethodGet, "/api/tda/analyses"+tc.query, "alice", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("%s status=%d", tc.query, w.Code)
		}
		if got, _ := resp.Meta["limit"].(float64); got != tc.limit {
			t.Fatalf("%s limit=%v want %v", tc.query, got, tc.limit)
		}
	}
	_, resp := s.do(t, http.MethodGet, "/api/tda/analyses?limit=2&offset=-1", "alice", nil)
	if resp.Meta["has_next"] != true || resp.Meta["offset"].(float64) != 0 {
		t.Fatalf("meta=%v", resp.Meta)
	}
}
