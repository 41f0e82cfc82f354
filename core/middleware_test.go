package core

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func newGateEngine(cfg Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(cfg))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.GET("/api/users", func(c *gin.Context) {
		id, ok := CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no identity in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": id.String()})
	})
	return r
}

func doRequest(r *gin.Engine, method, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ExemptPaths(t *testing.T) {
	cfg := Config{JWTSecret: "gate-secret"}
	r := newGateEngine(cfg)

	if w := doRequest(r, http.MethodGet, "/health", ""); w.Code != http.StatusOK {
		t.Fatalf("/health must be reachable without a token, got %d", w.Code)
	}
}

func TestAuthMiddleware_MissingOrMalformedHeader(t *testing.T) {
	cfg := Config{JWTSecret: "gate-secret"}
	r := newGateEngine(cfg)

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic abc123"},
		{"no space after scheme", "Bearerabc"},
		{"lowercase scheme", "bearer sometoken"},
	}
	for _, tc := range cases {
		if w := doRequest(r, http.MethodGet, "/api/users", tc.header); w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", tc.name, w.Code)
		}
	}
}

func TestAuthMiddleware_RejectsBadTokens(t *testing.T) {
	cfg := Config{JWTSecret: "gate-secret"}
	r := newGateEngine(cfg)

	expired, err := IssueToken(uuid.New(), []byte(cfg.JWTSecret), -time.Minute)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}
	otherSecret, err := IssueToken(uuid.New(), []byte("another-secret"), time.Hour)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}

	for name, token := range map[string]string{
		"expired":      expired,
		"wrong secret": otherSecret,
		"garbage":      "not.a.jwt",
	} {
		if w := doRequest(r, http.MethodGet, "/api/users", "Bearer "+token); w.Code != http.StatusUnauthorized {
			t.Fatalf("%s token: expected 401, got %d", name, w.Code)
		}
	}
}

func TestAuthMiddleware_AttachesIdentity(t *testing.T) {
	cfg := Config{JWTSecret: "gate-secret"}
	r := newGateEngine(cfg)

	userID := uuid.New()
	token, err := IssueToken(userID, []byte(cfg.JWTSecret), time.Hour)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}

	w := doRequest(r, http.MethodGet, "/api/users", "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d (%s)", w.Code, w.Body.String())
	}
	if body := w.Body.String(); !strings.Contains(body, userID.String()) {
		t.Fatalf("handler must see the authenticated user id, body: %s", body)
	}
}
