package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/modamart/modamart/internal/platform/httpx"
)

// Repository provides read access to the product catalog.
type Repository interface {
	GetProduct(ctx context.Context, id int64) (Product, error)
	ListProducts(ctx context.Context, filters ListFilters) ([]Product, int, error)
	ListNewest(ctx context.Context, limit int) ([]Product, error)
	ListBestsellers(ctx context.Context, limit int) ([]Product, error)
	GetVariant(ctx context.Context, id int64) (Variant, error)
	ListVariants(ctx context.Context, productID int64) ([]Variant, error)
	ListCategories(ctx context.Context) ([]Category, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs the Postgres-backed catalog repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const productColumns = `id, sku, name_de, name_en, name_ar, description_de, description_en, description_ar,
	category_id, base_price, sale_price, badge, image, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	var badge *string
	err := row.Scan(&p.ID, &p.SKU, &p.Name.DE, &p.Name.EN, &p.Name.AR,
		&p.Description.DE, &p.Description.EN, &p.Description.AR,
		&p.CategoryID, &p.BasePrice, &p.SalePrice, &badge, &p.Image,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	if badge != nil {
		p.Badge = Badge(*badge)
	}
	return p, nil
}

func (r *repository) GetProduct(ctx context.Context, id int64) (Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, fmt.Errorf("%w: product %d", httpx.ErrNotFound, id)
		}
		return Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *repository) ListProducts(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.ActiveOnly {
		where += ` AND is_active = TRUE`
	}
	if filters.CategoryID != nil {
		argCount++
		where += ` AND category_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.CategoryID)
	}
	if filters.Search != "" {
		argCount++
		ph := strconv.Itoa(argCount)
		where += ` AND (name_de ILIKE $` + ph + ` OR name_en ILIKE $` + ph + ` OR name_ar ILIKE $` + ph + ` OR sku ILIKE $` + ph + `)`
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.OnSale != nil && *filters.OnSale {
		where += ` AND sale_price IS NOT NULL AND sale_price > 0 AND sale_price < base_price`
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := `SELECT ` + productColumns + ` FROM products` + where + ` ORDER BY created_at DESC, id DESC`
	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)

		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *repository) ListNewest(ctx context.Context, limit int) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_active = TRUE ORDER BY created_at DESC, id DESC LIMIT $1`
	return r.queryProducts(ctx, query, limit)
}

func (r *repository) ListBestsellers(ctx context.Context, limit int) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_active = TRUE AND badge = 'bestseller' ORDER BY updated_at DESC, id DESC LIMIT $1`
	return r.queryProducts(ctx, query, limit)
}

func (r *repository) queryProducts(ctx context.Context, query string, args ...interface{}) ([]Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *repository) GetVariant(ctx context.Context, id int64) (Variant, error) {
	query := `SELECT id, product_id, size, color_de, color_en, color_ar, price_adjustment, stock_qty
		FROM product_variants WHERE id = $1`
	var v Variant
	err := r.db.QueryRow(ctx, query, id).Scan(&v.ID, &v.ProductID, &v.Size,
		&v.Color.DE, &v.Color.EN, &v.Color.AR, &v.PriceAdjustment, &v.StockQty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Variant{}, fmt.Errorf("%w: variant %d", httpx.ErrNotFound, id)
		}
		return Variant{}, fmt.Errorf("get variant: %w", err)
	}
	return v, nil
}

func (r *repository) ListVariants(ctx context.Context, productID int64) ([]Variant, error) {
	query := `SELECT id, product_id, size, color_de, color_en, color_ar, price_adjustment, stock_qty
		FROM product_variants WHERE product_id = $1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()

	var variants []Variant
	for rows.Next() {
		var v Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Size,
			&v.Color.DE, &v.Color.EN, &v.Color.AR, &v.PriceAdjustment, &v.StockQty); err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}

func (r *repository) ListCategories(ctx context.Context) ([]Category, error) {
	query := `SELECT id, parent_id, slug, name_de, name_en, name_ar, position, is_active
		FROM categories WHERE is_active = TRUE ORDER BY position, id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.ParentID, &c.Slug,
			&c.Name.DE, &c.Name.EN, &c.Name.AR, &c.Position, &c.IsActive); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
