package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/recipehub/internal/auth"
	"github.com/geocoder89/recipehub/internal/config"
	"github.com/geocoder89/recipehub/internal/domain/user"
	"github.com/geocoder89/recipehub/internal/http/middlewares"
	"github.com/geocoder89/recipehub/internal/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const stateCookieName = "rh_oauth_state"

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, email, name, picture string) (user.User, error)
	UpdateProfile(ctx context.Context, id int64, name, picture string) error
}

type AuthHandler struct {
	users      UserReader
	userWriter UserWriter
	sessions   *auth.Manager
	provider   identity.Exchanger
	cfg        config.Config
}

func NewAuthHandler(users UserReader, userWriter UserWriter, sessions *auth.Manager, provider identity.Exchanger, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		users:      users,
		userWriter: userWriter,
		sessions:   sessions,
		provider:   provider,
		cfg:        cfg,
	}
}

// Login starts the three-legged exchange: nothing changes locally, the
// caller is just bounced to the provider's consent screen.
func (h *AuthHandler) Login(ctx *gin.Context) {
	state := uuid.NewString()

	h.setStateCookie(ctx, state)

	ctx.Redirect(http.StatusFound, h.provider.AuthCodeURL(state))
}

// Callback completes the exchange, upserts the local user and binds the
// session. Any unusable provider response is terminal for the request.
func (h *AuthHandler) Callback(ctx *gin.Context) {
	state := ctx.Query("state")
	cookieState, err := ctx.Cookie(stateCookieName)

	h.clearStateCookie(ctx)

	if err != nil || state == "" || state != cookieState {
		RespondBadRequest(ctx, "identity_exchange_failed", "OAuth state mismatch")
		return
	}

	code := ctx.Query("code")

	if code == "" {
		RespondBadRequest(ctx, "identity_exchange_failed", "Missing authorization code")
		return
	}

	// the one genuinely blocking external call; fail fast, no retries
	cctx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	claims, err := h.provider.Exchange(cctx, code)

	if err != nil {
		RespondBadRequest(ctx, "identity_exchange_failed", "Failed to retrieve user info")
		return
	}

	if claims.Email == "" {
		RespondBadRequest(ctx, "missing_email", "Email is required")
		return
	}

	u, err := h.upsertUser(cctx, claims)

	if err != nil {
		RespondInternal(ctx, "Could not sign in")
		return
	}

	token, err := h.sessions.IssueSession(u.ID, u.Email, u.Name, u.Picture)

	if err != nil {
		RespondInternal(ctx, "Could not create session")
		return
	}

	h.setSessionCookie(ctx, token)

	ctx.Redirect(http.StatusFound, h.cfg.AfterLoginURL)
}

// Logout clears the session; always succeeds.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	h.clearSessionCookie(ctx)

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

// Me returns the current user's profile, from the row the session
// resolver re-fetched, not the cookie snapshot.
func (h *AuthHandler) Me(ctx *gin.Context) {
	u, ok := middlewares.UserFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "Not authenticated")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"id":      u.ID,
		"email":   u.Email,
		"name":    u.Name,
		"picture": u.Picture,
	})
}

// upsertUser matches on exact email: first login creates the row,
// later logins refresh name/picture only when they actually changed.
func (h *AuthHandler) upsertUser(ctx context.Context, claims identity.Claims) (user.User, error) {
	u, err := h.users.GetByEmail(ctx, claims.Email)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return h.userWriter.Create(ctx, claims.Email, claims.Name, claims.Picture)
		}

		return user.User{}, err
	}

	name := u.Name
	picture := u.Picture
	changed := false

	if u.Name != claims.Name {
		name = claims.Name
		changed = true
	}

	if claims.Picture != "" && u.Picture != claims.Picture {
		picture = claims.Picture
		changed = true
	}

	if changed {
		err = h.userWriter.UpdateProfile(ctx, u.ID, name, picture)

		if err != nil {
			return user.User{}, err
		}

		u.Name = name
		u.Picture = picture
	}

	return u, nil
}

// Cookie helpers

func (h *AuthHandler) setSessionCookie(ctx *gin.Context, token string) {
	secure := h.cfg.Env == "prod"

	// Lax so the cookie survives the provider's top-level redirect back
	ctx.SetSameSite(http.SameSiteLaxMode)

	ctx.SetCookie(
		auth.CookieName,
		token,
		int(h.sessions.TTL().Seconds()),
		"/",
		"",
		secure,
		true, // HttpOnly
	)
}

func (h *AuthHandler) clearSessionCookie(ctx *gin.Context) {
	secure := h.cfg.Env == "prod"
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(
		auth.CookieName,
		"",
		-1,
		"/",
		"",
		secure,
		true,
	)
}

func (h *AuthHandler) setStateCookie(ctx *gin.Context, state string) {
	secure := h.cfg.Env == "prod"
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(
		stateCookieName,
		state,
		600,
		"/api/auth",
		"",
		secure,
		true,
	)
}

func (h *AuthHandler) clearStateCookie(ctx *gin.Context) {
	secure := h.cfg.Env == "prod"
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(
		stateCookieName,
		"",
		-1,
		"/api/auth",
		"",
		secure,
		true,
	)
}
