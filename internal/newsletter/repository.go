// Package newsletter manages mailing-list subscriptions.
package newsletter

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/modamart/modamart/internal/platform/httpx"
)

// Repository defines persistence operations for subscriptions.
type Repository interface {
	Subscribe(ctx context.Context, email string, locale string) error
	Unsubscribe(ctx context.Context, email string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{db: pool}
}

// Subscribe records a subscription. Re-subscribing an existing address
// surfaces httpx.ErrDuplicate so the service can treat it as a no-op.
func (r *PGRepository) Subscribe(ctx context.Context, email string, locale string) error {
	query := `INSERT INTO newsletter_subscribers (email, locale, subscribed_at)
		VALUES ($1, $2, now())`
	if _, err := r.db.Exec(ctx, query, email, locale); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: already subscribed", httpx.ErrDuplicate)
		}
		return fmt.Errorf("subscribe: %w", err)
	}
	return nil
}

// Unsubscribe removes a subscription. Unknown addresses are not an error.
func (r *PGRepository) Unsubscribe(ctx context.Context, email string) error {
	query := `DELETE FROM newsletter_subscribers WHERE email = $1`
	if _, err := r.db.Exec(ctx, query, email); err != nil {
		return fmt.Errorf("unsubscribe: %w", err)
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
