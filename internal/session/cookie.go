package session

import (
	"github.com/gin-gonic/gin"

	"pulse/internal/config"
)

// CookieName is the cookie that carries the session token.
const CookieName = "session_id"

// SetCookie issues the session cookie with the token as its value.
// MaxAge mirrors the expiration window; Secure is only set in
// production so local development over plain HTTP keeps working.
func SetCookie(c *gin.Context, tok string) {
	c.SetCookie(CookieName, tok, int(Expiration.Seconds()), "/", "", config.IsProduction(), true)
}

// ClearCookie tells the client to drop the session cookie. A non-positive
// MaxAge makes the client evict it; the value itself is irrelevant.
func ClearCookie(c *gin.Context) {
	c.SetCookie(CookieName, "invalid", -1, "/", "", config.IsProduction(), true)
}
