package cart

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/modamart/modamart/internal/platform/db"
	"github.com/modamart/modamart/internal/platform/httpx"
)

// Repository is the shared contract of both cart backings. Line
// ordering is an accepted inconsistency between the two: session carts
// list in insertion order, persisted carts by line id.
type Repository interface {
	// Add creates a line for (product, variant) or increments the
	// quantity of an existing one.
	Add(ctx context.Context, owner Owner, productID int64, variantID *int64, quantity int) error
	// AddMany applies Add for a batch of lines, atomically where the
	// backing store supports it.
	AddMany(ctx context.Context, owner Owner, lines []Line) error
	// SetQuantity replaces a line's quantity absolutely. The line must
	// belong to the owner.
	SetQuantity(ctx context.Context, owner Owner, lineID int64, quantity int) error
	// Remove deletes a line. Removing an absent line is a no-op.
	Remove(ctx context.Context, owner Owner, lineID int64) error
	// List returns all present lines for the owner.
	List(ctx context.Context, owner Owner) ([]Line, error)
	// Clear drops every line of the owner.
	Clear(ctx context.Context, owner Owner) error
}

type pgRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs the persisted cart store used for
// authenticated users. Lines are keyed by (user, product, variant).
func NewPostgresRepository(db *pgxpool.Pool) Repository {
	return &pgRepository{db: db}
}

const upsertLineQuery = `INSERT INTO cart_items (user_id, product_id, variant_id, quantity, created_at, updated_at)
	VALUES ($1, $2, $3, $4, now(), now())
	ON CONFLICT (user_id, product_id, COALESCE(variant_id, 0))
	DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = now()`

// Add uses an atomic upsert increment so two concurrent adds to the
// same line cannot lose an update.
func (r *pgRepository) Add(ctx context.Context, owner Owner, productID int64, variantID *int64, quantity int) error {
	if _, err := r.db.Exec(ctx, upsertLineQuery, owner.UserID(), productID, variantID, quantity); err != nil {
		return fmt.Errorf("cart add: %w", err)
	}
	return nil
}

// AddMany lands all lines in one transaction. The login merge uses it
// so a half-merged guest cart can never be observed.
func (r *pgRepository) AddMany(ctx context.Context, owner Owner, lines []Line) error {
	if len(lines) == 0 {
		return nil
	}
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		for _, line := range lines {
			if _, err := tx.Exec(ctx, upsertLineQuery, owner.UserID(), line.ProductID, line.VariantID, line.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("cart add many: %w", err)
	}
	return nil
}

func (r *pgRepository) SetQuantity(ctx context.Context, owner Owner, lineID int64, quantity int) error {
	query := `UPDATE cart_items SET quantity = $1, updated_at = now() WHERE id = $2 AND user_id = $3`
	tag, err := r.db.Exec(ctx, query, quantity, lineID, owner.UserID())
	if err != nil {
		return fmt.Errorf("cart set quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: cart item %d", httpx.ErrNotFound, lineID)
	}
	return nil
}

func (r *pgRepository) Remove(ctx context.Context, owner Owner, lineID int64) error {
	query := `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`
	if _, err := r.db.Exec(ctx, query, lineID, owner.UserID()); err != nil {
		return fmt.Errorf("cart remove: %w", err)
	}
	return nil
}

func (r *pgRepository) List(ctx context.Context, owner Owner) ([]Line, error) {
	query := `SELECT id, product_id, variant_id, quantity FROM cart_items WHERE user_id = $1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, owner.UserID())
	if err != nil {
		return nil, fmt.Errorf("cart list: %w", err)
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.ProductID, &l.VariantID, &l.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *pgRepository) Clear(ctx context.Context, owner Owner) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, owner.UserID()); err != nil {
		return fmt.Errorf("cart clear: %w", err)
	}
	return nil
}
