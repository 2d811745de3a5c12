package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"poorito-booking/internal/handler/httperr"
	"poorito-booking/internal/pkg/cookie"
	"poorito-booking/internal/pkg/errs"
	"poorito-booking/internal/pkg/jwt"
	"poorito-booking/internal/usecase"
	"poorito-booking/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthMiddleware struct {
	authenticator usecase.Authenticator
}

const ctxActorKey = "actor"

const (
	CodeTokenMissing = "token_missing"
	CodeTokenExpired = "token_expired"
	CodeTokenInvalid = "token_invalid"
	CodeForbidden    = "forbidden"
)

func NewAuthMiddleware(authenticator usecase.Authenticator) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator}
}

// RequireAuth rejects the request unless it carries a valid access token,
// and places the resolved actor on the context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			httperr.AbortWithCode(c, http.StatusUnauthorized, CodeTokenMissing,
				errs.ErrUnauthenticated, "Access token required", nil)
			return
		}

		actor, err := m.authenticator.Authenticate(token)
		if err != nil {
			slog.Warn("Access token rejected", "error", err.Error(), "path", c.Request.URL.Path)
			code, msg := CodeTokenInvalid, "Invalid token"
			if errors.Is(err, jwt.ErrExpiredToken) {
				code, msg = CodeTokenExpired, "Token has expired"
			}
			httperr.AbortWithCode(c, http.StatusUnauthorized, code, errs.Mark(err, errs.ErrUnauthenticated), msg, nil)
			return
		}

		SetActor(c, actor)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			httperr.AbortWithError(c, http.StatusInternalServerError,
				errs.New("actor missing from context"), "Internal server error", nil)
			return
		}
		if !actor.IsAdmin() {
			httperr.AbortWithCode(c, http.StatusForbidden, CodeForbidden,
				errs.ErrForbidden, "Admin role required", nil)
			return
		}
		c.Next()
	}
}

// Cookie first, then the Authorization header.
func extractToken(c *gin.Context) string {
	if token := cookie.GetAccessToken(c); token != "" {
		return token
	}
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// SetActor places the authenticated actor on the request context.
func SetActor(c *gin.Context, actor shared.Actor) {
	c.Set(ctxActorKey, actor)
}

func GetActor(c *gin.Context) (shared.Actor, bool) {
	v, exists := c.Get(ctxActorKey)
	if !exists {
		return shared.Actor{}, false
	}
	actor, ok := v.(shared.Actor)
	return actor, ok
}

func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	actor, ok := GetActor(c)
	return actor.UserID, ok
}
