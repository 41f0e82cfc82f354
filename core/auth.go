package core

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// AuthService defines registration and credential-based login.
type AuthService interface {
	Register(ctx context.Context, email, username, password string) (UserView, error)
	Login(ctx context.Context, email, password string) (string, UserView, error)
}

// RepositoryAuthService implements AuthService on top of a UserRepository,
// the bcrypt hasher and the token codec. Secret and cost are fixed at
// construction and never mutated, so the service is safe for concurrent use.
type RepositoryAuthService struct {
	users    UserRepository
	secret   []byte
	cost     int
	tokenTTL time.Duration
}

func NewRepositoryAuthService(users UserRepository, cfg Config) *RepositoryAuthService {
	return &RepositoryAuthService{
		users:    users,
		secret:   []byte(cfg.JWTSecret),
		cost:     cfg.BcryptCost,
		tokenTTL: cfg.TokenTTL(),
	}
}

// Register hashes the password, assigns a fresh id and persists the
// record with created_at = updated_at = now.
func (s *RepositoryAuthService) Register(ctx context.Context, email, username, password string) (UserView, error) {
	hash, err := HashPassword(password, s.cost)
	if err != nil {
		return UserView{}, err
	}

	now := time.Now().UTC()
	rec := &UserRecord{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, rec); err != nil {
		return UserView{}, err
	}
	return rec.View(), nil
}

// Login looks the user up by email, verifies the password against the
// stored digest and issues a bearer token. Unknown email and wrong
// password both come back as ErrInvalidCredentials so callers cannot
// probe which addresses are registered.
func (s *RepositoryAuthService) Login(ctx context.Context, email, password string) (string, UserView, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", UserView{}, ErrInvalidCredentials
		}
		return "", UserView{}, err
	}

	ok, err := VerifyPassword(password, u.PasswordHash)
	if err != nil {
		return "", UserView{}, err
	}
	if !ok {
		return "", UserView{}, ErrInvalidCredentials
	}

	token, err := IssueToken(u.ID, s.secret, s.tokenTTL)
	if err != nil {
		return "", UserView{}, err
	}
	return token, u.View(), nil
}
