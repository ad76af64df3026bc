package auth

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tradejournal/internal/models"
)

const principalKey = "auth.principal"

// Principal is the authenticated caller.
type Principal struct {
	UserID  string
	Email   string
	Role    string
	IsAdmin bool
}

// ProfileEnsurer creates the caller's profile row on first sight.
type ProfileEnsurer interface {
	EnsureProfile(ctx context.Context, item *models.Profile) (*models.Profile, error)
}

type Gate struct {
	JWT        JWT
	CookieName string
	Profiles   ProfileEnsurer
	Logger     *zap.Logger

	// Dev bypass: every request runs as DevPrincipal.
	Disabled     bool
	DevPrincipal Principal
}

func PrincipalFrom(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok && p.UserID != ""
}

func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(principalKey, p)
}

// Require rejects requests without a valid session with a uniform 401.
func (g *Gate) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := g.authenticate(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		if g.Profiles != nil {
			profile, err := g.Profiles.EnsureProfile(c.Request.Context(), &models.Profile{
				ID:          p.UserID,
				Email:       p.Email,
				DisplayName: displayNameFromEmail(p.Email),
			})
			if err != nil {
				g.logger().Error("ensure profile failed", zap.String("user_id", p.UserID), zap.Error(err))
				abort(c, http.StatusInternalServerError, "internal error")
				return
			}
			if profile != nil {
				p.IsAdmin = profile.IsAdmin
				if p.Email == "" {
					p.Email = profile.Email
				}
			}
		}
		SetPrincipal(c, p)
		c.Next()
	}
}

// RequireAdmin must run after Require.
func (g *Gate) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !p.IsAdmin {
			abort(c, http.StatusForbidden, "forbidden")
			return
		}
		c.Next()
	}
}

func (g *Gate) authenticate(c *gin.Context) (Principal, bool) {
	if g.Disabled {
		return g.DevPrincipal, g.DevPrincipal.UserID != ""
	}
	tok := BearerToken(c.GetHeader("Authorization"))
	if tok == "" && g.CookieName != "" {
		if v, err := c.Cookie(g.CookieName); err == nil {
			tok = strings.TrimSpace(v)
		}
	}
	if tok == "" {
		return Principal{}, false
	}
	claims, err := g.JWT.Verify(tok)
	if err != nil {
		g.logger().Debug("token rejected", zap.Error(err))
		return Principal{}, false
	}
	return Principal{
		UserID: claims.Subject,
		Email:  strings.TrimSpace(claims.Email),
		Role:   claims.Role,
	}, true
}

func (g *Gate) logger() *zap.Logger {
	if g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}

// CronSecret guards scheduler endpoints with a shared bearer secret.
func CronSecret(secret string) gin.HandlerFunc {
	secret = strings.TrimSpace(secret)
	return func(c *gin.Context) {
		got := BearerToken(c.GetHeader("Authorization"))
		if secret == "" || got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			abort(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		c.Next()
	}
}

func BearerToken(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	parts := strings.SplitN(v, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"code": status, "message": msg})
}

func displayNameFromEmail(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
