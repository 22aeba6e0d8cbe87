package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/modamart/modamart/internal/i18n"
	"github.com/modamart/modamart/internal/platform/httpx"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	Create(ctx context.Context, user User) (int64, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{db: pool}
}

const userColumns = `id, email, name, password_hash, locale, is_active, created_at, updated_at`

// Create inserts a new account. A duplicate email surfaces as
// httpx.ErrDuplicate via the unique constraint.
func (r *PGRepository) Create(ctx context.Context, user User) (int64, error) {
	query := `INSERT INTO users (email, name, password_hash, locale, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, TRUE, now(), now()) RETURNING id`
	var id int64
	err := r.db.QueryRow(ctx, query, user.Email, user.Name, user.PasswordHash, string(user.Locale)).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, fmt.Errorf("%w: email already registered", httpx.ErrDuplicate)
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

// FindByEmail fetches a user by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

// FindByID fetches a user by id.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *PGRepository) scanUser(row pgx.Row) (*User, error) {
	var u User
	var locale string
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &locale, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	u.Locale = i18n.Parse(locale)
	return &u, nil
}

var _ Repository = (*PGRepository)(nil)
