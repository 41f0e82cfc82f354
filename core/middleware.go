package core

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const bearerPrefix = "Bearer "

// contextUserKey is where the authenticated user id lives in the gin
// context for the lifetime of the request.
const contextUserKey = "auth_user_id"

// AuthMiddleware gates every request behind a bearer token except the
// exempt paths (health check and the auth endpoints themselves). On
// success the verified user id is attached to the request context; on
// failure the request is short-circuited with 401. The specific codec
// failure is logged server-side only.
func AuthMiddleware(cfg Config) gin.HandlerFunc {
	secret := []byte(cfg.JWTSecret)
	return func(c *gin.Context) {
		if isExemptPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing or malformed authorization header")
			c.Abort()
			return
		}

		claims, err := VerifyToken(strings.TrimPrefix(header, bearerPrefix), secret)
		if err != nil {
			log.Printf("rejected bearer token: %v", err)
			respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(contextUserKey, claims.UserID)
		c.Next()
	}
}

// isExemptPath lists routes reachable without a token: the health
// endpoint and everything under /api/auth/ (register, login).
func isExemptPath(path string) bool {
	if path == "/health" {
		return true
	}
	return strings.HasPrefix(path, "/api/auth/")
}

// CurrentUserID returns the authenticated user id attached by
// AuthMiddleware, or false when the request was never authorized.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(contextUserKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// CORSMiddleware sets CORS headers for allowed origins and answers
// preflight requests. An empty allowlist mirrors the permissive setup of
// the reference deployment and allows any origin.
func CORSMiddleware(cfg Config) gin.HandlerFunc {
	allowed := map[string]struct{}{}
	for _, o := range cfg.AllowedOrigins {
		allowed[strings.ToLower(o)] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if len(allowed) == 0 {
				setCORSHeaders(c, "*")
			} else if _, ok := allowed[strings.ToLower(origin)]; ok {
				setCORSHeaders(c, origin)
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		c.Next()
	}
}

func setCORSHeaders(c *gin.Context, origin string) {
	c.Header("Access-Control-Allow-Origin", origin)
	c.Header("Vary", "Origin")
	c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
	c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
}
