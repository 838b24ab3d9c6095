// Package middleware provides the gin middleware chain: request ids,
// structured request logging and session-gated access to protected
// routes.
package middleware

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pulse/internal/apperrors"
	"pulse/internal/session"
)

const sessionContextKey = "active_session"

// RequireSession guards a route behind a valid session cookie. Every
// successful validation renews the session and re-issues the cookie
// with a full expiration window, so each authenticated request slides
// the session's life forward. All failure causes collapse into one
// uniform 401.
func RequireSession(sessions session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, err := c.Cookie(session.CookieName)
		if err != nil {
			apperrors.Respond(c, apperrors.NoActiveSession())
			return
		}

		sess, err := sessions.ValidateAndRenew(c.Request.Context(), tok)
		if err != nil {
			if !errors.Is(err, session.ErrNoActiveSession) {
				slog.Warn("Session validation failed",
					"error", err.Error(),
					"request_id", c.GetString("request_id"),
				)
			}
			apperrors.Respond(c, apperrors.NoActiveSession())
			return
		}

		session.SetCookie(c, sess.Token)
		c.Set(sessionContextKey, sess)
		c.Set("user_id", sess.UserID.String())

		c.Next()
	}
}

// SessionFromContext returns the renewed session stored by
// RequireSession, or nil outside a guarded route.
func SessionFromContext(c *gin.Context) *session.Session {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return nil
	}
	sess, ok := value.(*session.Session)
	if !ok {
		return nil
	}
	return sess
}

// RequestID generates a unique request ID for log correlation
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()

		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()
	}
}

// Logging logs every request with structured attributes, leveled by
// status class.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()

		attrs := []any{
			"request_id", c.GetString("request_id"),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", float64(time.Since(start).Milliseconds()),
			"client_ip", c.ClientIP(),
			"response_size", c.Writer.Size(),
		}

		if query := c.Request.URL.RawQuery; query != "" {
			attrs = append(attrs, "query", query)
		}

		if userID, exists := c.Get("user_id"); exists {
			attrs = append(attrs, "user_id", userID)
		}

		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
		}

		switch {
		case status >= 500:
			slog.Error("Request failed - server error", attrs...)
		case status >= 400:
			slog.Warn("Request failed - client error", attrs...)
		default:
			slog.Info("Request completed", attrs...)
		}
	}
}
