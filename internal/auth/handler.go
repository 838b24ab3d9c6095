package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pulse/internal/apperrors"
	"pulse/internal/middleware"
	"pulse/internal/session"
	"pulse/internal/users"
)

// LoginRequest is the request payload for creating a session
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Handler exposes the session lifecycle over HTTP
type Handler struct {
	validator Service
	sessions  session.Manager
	users     users.Service
}

// NewHandler creates a new auth handler
func NewHandler(validator Service, sessions session.Manager, userRegistry users.Service) *Handler {
	return &Handler{
		validator: validator,
		sessions:  sessions,
		users:     userRegistry,
	}
}

// Login handles POST /api/v1/sessions
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.NewValidationError(
			"Invalid data in the request body.",
			"Check the fields sent and try again.",
		))
		return
	}

	user, err := h.validator.Validate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			apperrors.Respond(c, apperrors.InvalidCredentials())
			return
		}
		apperrors.Respond(c, err)
		return
	}

	sess, err := h.sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	session.SetCookie(c, sess.Token)
	c.JSON(http.StatusCreated, sess)
}

// Logout handles DELETE /api/v1/sessions
func (h *Handler) Logout(c *gin.Context) {
	tok, err := c.Cookie(session.CookieName)
	if err != nil {
		apperrors.Respond(c, apperrors.NoActiveSession())
		return
	}

	// Validation renews before the revocation lands; harmless, since the
	// final write is the one that decides validity.
	found, err := h.sessions.ValidateAndRenew(c.Request.Context(), tok)
	if err != nil {
		if errors.Is(err, session.ErrNoActiveSession) {
			apperrors.Respond(c, apperrors.NoActiveSession())
			return
		}
		apperrors.Respond(c, err)
		return
	}

	revoked, err := h.sessions.Revoke(c.Request.Context(), found.ID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	session.ClearCookie(c)
	c.JSON(http.StatusOK, revoked)
}

// CurrentUser handles GET /api/v1/user. It runs behind
// middleware.RequireSession, which has already renewed the session and
// re-issued the cookie.
func (h *Handler) CurrentUser(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	if sess == nil {
		apperrors.Respond(c, apperrors.NoActiveSession())
		return
	}

	user, err := h.users.FindOneByID(c.Request.Context(), sess.UserID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.Header("Cache-Control", "no-store, no-cache, max-age=0, must-revalidate")
	c.JSON(http.StatusOK, user)
}
