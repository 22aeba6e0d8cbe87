// Package wishlist stores the products a visitor has saved for later.
// Like carts, guest wishlists live next to the session in Redis and are
// adopted into the account at login.
package wishlist

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Repository is the shared contract of both wishlist backings.
type Repository interface {
	Add(ctx context.Context, key string, productID int64) error
	Remove(ctx context.Context, key string, productID int64) error
	List(ctx context.Context, key string) ([]int64, error)
	Clear(ctx context.Context, key string) error
}

type pgRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs the persisted wishlist store; the
// key is the user id in decimal form.
func NewPostgresRepository(db *pgxpool.Pool) Repository {
	return &pgRepository{db: db}
}

func (r *pgRepository) userID(key string) (int64, error) {
	id, err := strconv.ParseInt(key, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("wishlist: bad user key %q", key)
	}
	return id, nil
}

func (r *pgRepository) Add(ctx context.Context, key string, productID int64) error {
	id, err := r.userID(key)
	if err != nil {
		return err
	}
	query := `INSERT INTO wishlist_items (user_id, product_id, created_at) VALUES ($1, $2, now())
		ON CONFLICT (user_id, product_id) DO NOTHING`
	if _, err := r.db.Exec(ctx, query, id, productID); err != nil {
		return fmt.Errorf("wishlist add: %w", err)
	}
	return nil
}

func (r *pgRepository) Remove(ctx context.Context, key string, productID int64) error {
	id, err := r.userID(key)
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`, id, productID); err != nil {
		return fmt.Errorf("wishlist remove: %w", err)
	}
	return nil
}

func (r *pgRepository) List(ctx context.Context, key string) ([]int64, error) {
	id, err := r.userID(key)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT product_id FROM wishlist_items WHERE user_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("wishlist list: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var pid int64
		if err := rows.Scan(&pid); err != nil {
			return nil, err
		}
		ids = append(ids, pid)
	}
	return ids, rows.Err()
}

func (r *pgRepository) Clear(ctx context.Context, key string) error {
	id, err := r.userID(key)
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM wishlist_items WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("wishlist clear: %w", err)
	}
	return nil
}

type sessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository constructs the guest wishlist store; the key is
// the session id.
func NewSessionRepository(client *redis.Client, ttl time.Duration) Repository {
	return &sessionRepository{client: client, ttl: ttl}
}

func (r *sessionRepository) redisKey(key string) string {
	return "wishlist:session:" + key
}

func (r *sessionRepository) Add(ctx context.Context, key string, productID int64) error {
	pipe := r.client.TxPipeline()
	pipe.SAdd(ctx, r.redisKey(key), productID)
	pipe.Expire(ctx, r.redisKey(key), r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("guest wishlist add: %w", err)
	}
	return nil
}

func (r *sessionRepository) Remove(ctx context.Context, key string, productID int64) error {
	if err := r.client.SRem(ctx, r.redisKey(key), productID).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("guest wishlist remove: %w", err)
	}
	return nil
}

func (r *sessionRepository) List(ctx context.Context, key string) ([]int64, error) {
	members, err := r.client.SMembers(ctx, r.redisKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("guest wishlist list: %w", err)
	}
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *sessionRepository) Clear(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.redisKey(key)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("guest wishlist clear: %w", err)
	}
	return nil
}
