package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func performWithCookie(t *testing.T, handler gin.HandlerFunc) *http.Cookie {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/test", handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == CookieName {
			return cookie
		}
	}
	t.Fatalf("Expected a %s cookie in the response", CookieName)
	return nil
}

func TestSetCookie(t *testing.T) {
	cookie := performWithCookie(t, func(c *gin.Context) {
		SetCookie(c, "sometoken")
		c.Status(http.StatusOK)
	})

	if cookie.Value != "sometoken" {
		t.Errorf("Expected cookie value to be the token, got %q", cookie.Value)
	}
	if cookie.MaxAge != int(Expiration.Seconds()) {
		t.Errorf("Expected MaxAge %d, got %d", int(Expiration.Seconds()), cookie.MaxAge)
	}
	if cookie.Path != "/" {
		t.Errorf("Expected Path /, got %q", cookie.Path)
	}
	if !cookie.HttpOnly {
		t.Error("Expected HttpOnly cookie")
	}
	if cookie.Secure {
		t.Error("Expected Secure to be off outside production")
	}
}

func TestClearCookie(t *testing.T) {
	cookie := performWithCookie(t, func(c *gin.Context) {
		ClearCookie(c)
		c.Status(http.StatusOK)
	})

	if cookie.MaxAge > 0 {
		t.Errorf("Expected non-positive MaxAge, got %d", cookie.MaxAge)
	}
	if cookie.Value == "" {
		// gin serializes an empty value as the literal cookie header; the
		// value itself is irrelevant as long as the client evicts it.
		t.Error("Expected a placeholder value in the cleared cookie")
	}
	if !cookie.HttpOnly {
		t.Error("Expected HttpOnly cookie")
	}
}
