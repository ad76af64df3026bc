package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"tradejournal/internal/models"
)

type stubProfiles struct {
	admins map[string]bool
	seen   []string
}

func (s *stubProfiles) EnsureProfile(ctx context.Context, item *models.Profile) (*models.Profile, error) {
	s.seen = append(s.seen, item.ID)
	out := *item
	out.IsAdmin = s.admins[item.ID]
	return &out, nil
}

func newTestEngine(g *Gate) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api", g.Require())
	api.GET("/me", func(c *gin.Context) {
		p, _ := PrincipalFrom(c)
		c.JSON(http.StatusOK, gin.H{"user_id": p.UserID})
	})
	api.GET("/admin", g.RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.POST("/cron", CronSecret("s3cret"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func sign(t *testing.T, j JWT, sub string, exp time.Time) string {
	t.Helper()
	tok, err := j.Sign(Claims{
		Email:            sub + "@example.com",
		RegisteredClaims: jwt.RegisteredClaims{Subject: sub, ExpiresAt: jwt.NewNumericDate(exp)},
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func TestGate_UniformUnauthorized(t *testing.T) {
	j := JWT{Secret: []byte("secret")}
	g := &Gate{JWT: j, CookieName: "sb-access-token", Profiles: &stubProfiles{}}
	r := newTestEngine(g)

	expired := sign(t, j, "u1", time.Now().Add(-time.Minute))
	forged := sign(t, JWT{Secret: []byte("other")}, "u1", time.Now().Add(time.Hour))
	for name, header := range map[string]string{
		"missing": "",
		"expired": "Bearer " + expired,
		"forged":  "Bearer " + forged,
		"garbage": "Bearer abc.def",
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status=%d want 401", name, w.Code)
		}
		if body := w.Body.String(); body != `{"code":401,"message":"unauthorized"}` {
			t.Fatalf("%s: body=%s", name, body)
		}
	}
}

func TestGate_CookieAndProfileEnsure(t *testing.T) {
	j := JWT{Secret: []byte("secret")}
	profiles := &stubProfiles{}
	r := newTestEngine(&Gate{JWT: j, CookieName: "sb-access-token", Profiles: profiles})

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: "sb-access-token", Value: sign(t, j, "u1", time.Now().Add(time.Hour))})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if len(profiles.seen) != 1 || profiles.seen[0] != "u1" {
		t.Fatalf("profiles ensured=%v", profiles.seen)
	}
}

func TestGate_AdminRequiresFlag(t *testing.T) {
	j := JWT{Secret: []byte("secret")}
	r := newTestEngine(&Gate{JWT: j, Profiles: &stubProfiles{admins: map[string]bool{"boss": true}}})

	for sub, want := range map[string]int{"boss": http.StatusOK, "pleb": http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodGet, "/api/admin", nil)
		req.Header.Set("Authorization", "Bearer "+sign(t, j, sub, time.Now().Add(time.Hour)))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != want {
			t.Fatalf("%s: status=%d want %d", sub, w.Code, want)
		}
	}
}

func TestCronSecret(t *testing.T) {
	r := newTestEngine(&Gate{})
	for header, want := range map[string]int{
		"":               http.StatusUnauthorized,
		"Bearer wrong":   http.StatusUnauthorized,
		"Bearer s3cret":  http.StatusOK,
		"bearer  s3cret": http.StatusOK,
	} {
		req := httptest.NewRequest(http.MethodPost, "/cron", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != want {
			t.Fatalf("header %q: status=%d want %d", header, w.Code, want)
		}
	}
}
