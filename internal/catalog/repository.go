package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a product id does not exist
var ErrNotFound = errors.New("catalog: product not found")

// Featured list identifiers
const (
	ListLatestPopular = "latest-popular"
	ListHotDeals      = "hot-deals"
	ListBestSelling   = "best-selling"
)

// Repository is the postgres-backed catalog store
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a repository over the given pool
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SearchQuery carries the filter surface of the search endpoint
type SearchQuery struct {
	Query    string
	Category string
	Brands   []string
	MinPrice float64
	MaxPrice float64
	SortBy   string
	Page     int
	Limit    int
}

const (
	defaultPageSize = 12
	maxPageSize     = 100
)

// Search runs a paginated filtered catalog query. Filters compose
// dynamically; sort_by accepts price_asc, price_desc, and latest
// (default).
func (r *Repository) Search(ctx context.Context, q SearchQuery) (*SearchResult, error) {
	if q.Limit <= 0 {
		q.Limit = defaultPageSize
	}
	if q.Limit > maxPageSize {
		q.Limit = maxPageSize
	}
	if q.Page <= 0 {
		q.Page = 1
	}

	where := " WHERE 1=1"
	args := []any{}
	argIdx := 1

	if q.Query != "" {
		where += " AND search_text LIKE $" + strconv.Itoa(argIdx)
		args = append(args, "%"+FoldSearchText(q.Query)+"%")
		argIdx++
	}
	if q.Category != "" {
		where += " AND category = $" + strconv.Itoa(argIdx)
		args = append(args, q.Category)
		argIdx++
	}
	if len(q.Brands) > 0 {
		where += " AND brand = ANY($" + strconv.Itoa(argIdx) + ")"
		args = append(args, q.Brands)
		argIdx++
	}
	if q.MinPrice > 0 {
		where += " AND min_price >= $" + strconv.Itoa(argIdx)
		args = append(args, q.MinPrice)
		argIdx++
	}
	if q.MaxPrice > 0 {
		where += " AND min_price <= $" + strconv.Itoa(argIdx)
		args = append(args, q.MaxPrice)
		argIdx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM products"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting products: %w", err)
	}

	orderBy := " ORDER BY created_at DESC"
	switch q.SortBy {
	case "price_asc":
		orderBy = " ORDER BY min_price ASC NULLS LAST"
	case "price_desc":
		orderBy = " ORDER BY min_price DESC NULLS LAST"
	}

	query := selectColumns + where + orderBy +
		" LIMIT $" + strconv.Itoa(argIdx) + " OFFSET $" + strconv.Itoa(argIdx+1)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching products: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}

	return &SearchResult{
		Products: products,
		Pagination: Pagination{
			Total:    total,
			Page:     q.Page,
			PageSize: q.Limit,
		},
	}, nil
}

const selectColumns = `
	SELECT id, title, brand, category, vendors, image, features, tags, created_at, updated_at
	FROM products`

// GetProduct fetches one product by id. Satisfies compare.ProductGetter.
func (r *Repository) GetProduct(ctx context.Context, id string) (*Product, error) {
	row := r.pool.QueryRow(ctx, selectColumns+" WHERE id = $1", id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching product %s: %w", id, err)
	}
	return p, nil
}

// Featured returns one of the featured lists. latest-popular orders
// tagged-popular products by recency, hot-deals orders tagged-deal
// products cheapest first, best-selling by the best-seller tag.
func (r *Repository) Featured(ctx context.Context, list string, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = 8
	}

	var query string
	switch list {
	case ListLatestPopular:
		query = selectColumns + ` WHERE tags @> '["popular"]' ORDER BY created_at DESC LIMIT $1`
	case ListHotDeals:
		query = selectColumns + ` WHERE tags @> '["deal"]' ORDER BY min_price ASC NULLS LAST LIMIT $1`
	case ListBestSelling:
		query = selectColumns + ` WHERE tags @> '["best-seller"]' ORDER BY created_at DESC LIMIT $1`
	default:
		return nil, fmt.Errorf("catalog: unknown featured list %q", list)
	}

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", list, err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// Categories returns the distinct category values
func (r *Repository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT category FROM products WHERE category <> '' ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("fetching categories: %w", err)
	}
	defer rows.Close()
	return scanStrings(rows)
}

// Brands returns the distinct brand values, optionally within a category
func (r *Repository) Brands(ctx context.Context, category string) ([]string, error) {
	query := `SELECT DISTINCT brand FROM products WHERE brand <> ''`
	args := []any{}
	if category != "" {
		query += ` AND category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY brand`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching brands: %w", err)
	}
	defer rows.Close()
	return scanStrings(rows)
}

// Upsert writes a product, recomputing the derived search_text and
// min_price columns.
func (r *Repository) Upsert(ctx context.Context, p *Product, minPrice *float64) error {
	vendors, err := json.Marshal(p.Vendors)
	if err != nil {
		return fmt.Errorf("marshaling vendors: %w", err)
	}
	image, err := json.Marshal(p.Image)
	if err != nil {
		return fmt.Errorf("marshaling image: %w", err)
	}
	features, err := json.Marshal(p.Features)
	if err != nil {
		return fmt.Errorf("marshaling features: %w", err)
	}
	tags, err := json.Marshal(p.Tags)
	if err != nil {
		return fmt.Errorf("marshaling tags: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO products (id, title, brand, category, search_text, min_price, vendors, image, features, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			brand = EXCLUDED.brand,
			category = EXCLUDED.category,
			search_text = EXCLUDED.search_text,
			min_price = EXCLUDED.min_price,
			vendors = EXCLUDED.vendors,
			image = EXCLUDED.image,
			features = EXCLUDED.features,
			tags = EXCLUDED.tags,
			updated_at = NOW()
	`, p.ID, p.Title, p.Brand, p.Category, SearchText(p), minPrice, vendors, image, features, tags)
	if err != nil {
		return fmt.Errorf("upserting product %s: %w", p.ID, err)
	}
	return nil
}

// AllIDs returns every product id, for derived-data refresh tasks
func (r *Repository) AllIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing product ids: %w", err)
	}
	defer rows.Close()
	return scanStrings(rows)
}

// UpdateDerived rewrites the derived search_text and min_price columns
// for one product.
func (r *Repository) UpdateDerived(ctx context.Context, id, searchText string, minPrice *float64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE products SET search_text = $2, min_price = $3, updated_at = NOW() WHERE id = $1
	`, id, searchText, minPrice)
	if err != nil {
		return fmt.Errorf("updating derived columns for %s: %w", id, err)
	}
	return nil
}

// ContactMessage is a stored contact form submission
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveContact stores a contact form submission
func (r *Repository) SaveContact(ctx context.Context, msg *ContactMessage) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO contact_messages (id, name, email, subject, message)
		VALUES ($1, $2, $3, $4, $5)
	`, msg.ID, msg.Name, msg.Email, msg.Subject, msg.Message)
	if err != nil {
		return fmt.Errorf("saving contact message: %w", err)
	}
	return nil
}

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	var vendors, image, features, tags []byte

	if err := row.Scan(&p.ID, &p.Title, &p.Brand, &p.Category, &vendors, &image, &features, &tags, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(vendors, &p.Vendors); err != nil {
		return nil, fmt.Errorf("decoding vendors for %s: %w", p.ID, err)
	}
	if err := json.Unmarshal(image, &p.Image); err != nil {
		return nil, fmt.Errorf("decoding image for %s: %w", p.ID, err)
	}
	if err := json.Unmarshal(features, &p.Features); err != nil {
		return nil, fmt.Errorf("decoding features for %s: %w", p.ID, err)
	}
	if err := json.Unmarshal(tags, &p.Tags); err != nil {
		return nil, fmt.Errorf("decoding tags for %s: %w", p.ID, err)
	}
	return &p, nil
}

func scanProducts(rows pgx.Rows) ([]Product, error) {
	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating products: %w", err)
	}
	return products, nil
}

func scanStrings(rows pgx.Rows) ([]string, error) {
	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning value: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating values: %w", err)
	}
	return values, nil
}
