package core

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRecord is the full stored projection including the credential
// digest. It never leaves the process; handlers respond with View().
type UserRecord struct {
	ID           uuid.UUID
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserView is the public projection of a user (no password hash).
type UserView struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// View returns the public projection of the record.
func (u *UserRecord) View() UserView {
	return UserView{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UserUpdate carries the optional fields of a partial update; nil means
// "keep the stored value". updated_at refreshes on every update.
type UserUpdate struct {
	Email    *string
	Username *string
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, u *UserRecord) error
	FindByEmail(ctx context.Context, email string) (*UserRecord, error)
	FindByID(ctx context.Context, id uuid.UUID) (*UserRecord, error)
	List(ctx context.Context) ([]UserRecord, error)
	Update(ctx context.Context, id uuid.UUID, upd UserUpdate) (*UserRecord, error)
}

// PgUserRepository implements UserRepository using pgxpool.
type PgUserRepository struct {
	db *pgxpool.Pool
}

func NewPgUserRepository(db *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{db: db}
}

const userColumns = `id, email, username, password_hash, created_at, updated_at`

func scanUser(row pgx.Row) (*UserRecord, error) {
	var u UserRecord
	if err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PgUserRepository) Create(ctx context.Context, u *UserRecord) error {
	const q = `INSERT INTO users (id, email, username, password_hash, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)`
	if _, err := r.db.Exec(ctx, q, u.ID, u.Email, u.Username, u.PasswordHash, u.CreatedAt, u.UpdatedAt); err != nil {
		return mapPgError(err)
	}
	return nil
}

func (r *PgUserRepository) FindByEmail(ctx context.Context, email string) (*UserRecord, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	u, err := scanUser(r.db.QueryRow(ctx, q, email))
	if err != nil {
		return nil, mapPgError(err)
	}
	return u, nil
}

func (r *PgUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*UserRecord, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	u, err := scanUser(r.db.QueryRow(ctx, q, id))
	if err != nil {
		return nil, mapPgError(err)
	}
	return u, nil
}

func (r *PgUserRepository) List(ctx context.Context) ([]UserRecord, error) {
	const q = `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []UserRecord
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// Update applies a partial update in a single parameterized statement:
// absent fields keep their stored value via COALESCE, updated_at always
// refreshes.
func (r *PgUserRepository) Update(ctx context.Context, id uuid.UUID, upd UserUpdate) (*UserRecord, error) {
	const q = `UPDATE users
		SET email = COALESCE($2, email),
		    username = COALESCE($3, username),
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRow(ctx, q, id, upd.Email, upd.Username))
	if err != nil {
		return nil, mapPgError(err)
	}
	return u, nil
}

// mapPgError folds driver errors into the repository taxonomy: no rows
// becomes ErrNotFound, unique violations become ErrDuplicate, everything
// else passes through for the boundary to log.
func mapPgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}
