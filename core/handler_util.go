package core

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondError sends unified error payload {"error": {"code", "message"}}.
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"error": gin.H{"code": code, "message": message}})
}

// errorStatus maps a service error onto (HTTP status, code, public
// message). It is a pure function so the taxonomy is testable without
// HTTP plumbing. Anything unrecognized is an internal error whose detail
// must not reach the client.
func errorStatus(err error) (int, string, string) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password"
	case errors.Is(err, ErrTokenExpired), errors.Is(err, ErrTokenInvalid), errors.Is(err, ErrTokenMalformed):
		return http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token"
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "you may only modify your own account"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "user not found"
	case errors.Is(err, ErrDuplicate):
		return http.StatusBadRequest, "VALIDATION_ERROR", "email or username already taken"
	default:
		return http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "internal server error"
	}
}

// respondServiceError maps err through errorStatus and writes the
// response; internal failures are logged with full detail first.
func respondServiceError(c *gin.Context, err error) {
	status, code, message := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	respondError(c, status, code, message)
}
