package core

import "errors"

// Sentinel errors shared across the service and repository layers.
// Callers match these with errors.Is; raw underlying errors (pg, bcrypt,
// jwt) never cross the HTTP boundary.
var (
	// ErrInvalidCredentials covers both "no such email" and "wrong
	// password" so login failures never reveal which emails exist.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token verification failures.
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
	ErrTokenMalformed = errors.New("token malformed")

	// ErrHashing indicates a hashing failure such as an out-of-range
	// work factor or a structurally malformed digest.
	ErrHashing = errors.New("hashing error")

	// Repository-level errors.
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("email or username already taken")

	// ErrForbidden is returned when an authenticated caller targets a
	// resource owned by someone else.
	ErrForbidden = errors.New("forbidden")
)
