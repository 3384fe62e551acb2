package middlewares

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/recipehub/internal/auth"
	"github.com/geocoder89/recipehub/internal/config"
	"github.com/geocoder89/recipehub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// Keep these interfaces small so tests can fake them easily.
type SessionVerifier interface {
	VerifySession(token string) (*auth.SessionClaims, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id int64) (user.User, error)
}

type SessionAuth struct {
	sessions SessionVerifier
	users    UserStore
}

func NewSessionAuth(sessions SessionVerifier, users UserStore) *SessionAuth {
	return &SessionAuth{sessions: sessions, users: users}
}

// RequireUser resolves the session cookie to a live user row. The cookie
// snapshot is never trusted for anything but the id: the row is re-fetched
// so downstream handlers see current state, and a session whose user was
// deleted out from under it fails exactly like a missing session.
func (m *SessionAuth) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(auth.CookieName)

		if err != nil || raw == "" {
			abortUnauthenticated(c, "Not authenticated")
			return
		}

		claims, err := m.sessions.VerifySession(raw)

		if err != nil {
			abortUnauthenticated(c, "Invalid or expired session")
			return
		}

		cctx, cancel := config.WithTimeout(2 * time.Second)
		defer cancel()

		u, err := m.users.GetByID(cctx, claims.UserID)

		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				abortUnauthenticated(c, "Not authenticated")
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{
					"code":    "internal_error",
					"message": "Could not resolve session",
				},
			})
			return
		}

		SetUser(c, u)

		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "unauthenticated",
			"message": message,
		},
	})
}

// SetUser stashes the resolved user on the gin context. RequireUser is the
// only production caller; handler tests use it to skip the middleware.
func SetUser(c *gin.Context, u user.User) {
	c.Set(ctxUserKey, u)
}

// UserFromContext returns the resolved user for handlers behind RequireUser.
func UserFromContext(c *gin.Context) (user.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return user.User{}, false
	}

	u, ok := v.(user.User)
	return u, ok
}
