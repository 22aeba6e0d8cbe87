package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/modamart/modamart/internal/platform/httpx"
)

// sessionLine is the serialized guest cart entry. Guest carts have no
// variant dimension: one line per product id.
type sessionLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type sessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository constructs the guest cart store. Lines live in
// Redis next to the session and expire with it; the JSON array keeps
// insertion order.
func NewSessionRepository(client *redis.Client, ttl time.Duration) Repository {
	return &sessionRepository{client: client, ttl: ttl}
}

func (r *sessionRepository) key(owner Owner) string {
	return "cart:session:" + owner.SessionID()
}

func (r *sessionRepository) load(ctx context.Context, owner Owner) ([]sessionLine, error) {
	data, err := r.client.Get(ctx, r.key(owner)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("guest cart load: %w", err)
	}
	var lines []sessionLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("guest cart decode: %w", err)
	}
	return lines, nil
}

func (r *sessionRepository) store(ctx context.Context, owner Owner, lines []sessionLine) error {
	if len(lines) == 0 {
		if err := r.client.Del(ctx, r.key(owner)).Err(); err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("guest cart delete: %w", err)
		}
		return nil
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("guest cart encode: %w", err)
	}
	if err := r.client.Set(ctx, r.key(owner), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("guest cart store: %w", err)
	}
	return nil
}

// Add ignores the variant: a guest cart keeps one line per product.
func (r *sessionRepository) Add(ctx context.Context, owner Owner, productID int64, variantID *int64, quantity int) error {
	lines, err := r.load(ctx, owner)
	if err != nil {
		return err
	}
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity += quantity
			return r.store(ctx, owner, lines)
		}
	}
	lines = append(lines, sessionLine{ProductID: productID, Quantity: quantity})
	return r.store(ctx, owner, lines)
}

// AddMany folds a batch into the stored array with a single write.
func (r *sessionRepository) AddMany(ctx context.Context, owner Owner, batch []Line) error {
	lines, err := r.load(ctx, owner)
	if err != nil {
		return err
	}
	for _, add := range batch {
		merged := false
		for i := range lines {
			if lines[i].ProductID == add.ProductID {
				lines[i].Quantity += add.Quantity
				merged = true
				break
			}
		}
		if !merged {
			lines = append(lines, sessionLine{ProductID: add.ProductID, Quantity: add.Quantity})
		}
	}
	return r.store(ctx, owner, lines)
}

func (r *sessionRepository) SetQuantity(ctx context.Context, owner Owner, lineID int64, quantity int) error {
	lines, err := r.load(ctx, owner)
	if err != nil {
		return err
	}
	for i := range lines {
		if lines[i].ProductID == lineID {
			lines[i].Quantity = quantity
			return r.store(ctx, owner, lines)
		}
	}
	return fmt.Errorf("%w: cart item %d", httpx.ErrNotFound, lineID)
}

func (r *sessionRepository) Remove(ctx context.Context, owner Owner, lineID int64) error {
	lines, err := r.load(ctx, owner)
	if err != nil {
		return err
	}
	kept := lines[:0]
	for _, l := range lines {
		if l.ProductID != lineID {
			kept = append(kept, l)
		}
	}
	return r.store(ctx, owner, kept)
}

// List returns guest lines in insertion order, with the product id
// doubling as the line id.
func (r *sessionRepository) List(ctx context.Context, owner Owner) ([]Line, error) {
	stored, err := r.load(ctx, owner)
	if err != nil {
		return nil, err
	}
	lines := make([]Line, 0, len(stored))
	for _, l := range stored {
		lines = append(lines, Line{ID: l.ProductID, ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return lines, nil
}

func (r *sessionRepository) Clear(ctx context.Context, owner Owner) error {
	if err := r.client.Del(ctx, r.key(owner)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("guest cart clear: %w", err)
	}
	return nil
}
