// internal/store/repository.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"shopping-assistant/internal/models"
	"shopping-assistant/internal/textutil"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var ErrListingNotFound = errors.New("LISTING_NOT_FOUND")

const listingColumns = `id, name, price, condition, seller_rating, category, brand, image_url, url, description, seo_tags`

const createProductsTable = `CREATE TABLE IF NOT EXISTS products (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	price         INTEGER NOT NULL,
	condition     TEXT NOT NULL,
	seller_rating DOUBLE PRECISION NOT NULL,
	category      TEXT NOT NULL,
	brand         TEXT,
	image_url     TEXT,
	url           TEXT,
	description   TEXT,
	seo_tags      TEXT[]
)`

// ListingRepository stores listings in the products table.
type ListingRepository struct {
	db         *sql.DB
	maxResults int
}

func NewListingRepository(db *sql.DB, maxResults int) *ListingRepository {
	if maxResults <= 0 {
		maxResults = 20
	}
	return &ListingRepository{db: db, maxResults: maxResults}
}

func (r *ListingRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createProductsTable); err != nil {
		return fmt.Errorf("create products table: %w", err)
	}
	return nil
}

func (r *ListingRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// SeedIfEmpty loads SampleCatalog into an empty table and reports how many
// listings were inserted.
func (r *ListingRepository) SeedIfEmpty(ctx context.Context) (int, error) {
	n, err := r.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	catalog := SampleCatalog()
	if err := r.insertAll(ctx, catalog); err != nil {
		return 0, err
	}
	return len(catalog), nil
}

func (r *ListingRepository) insertAll(ctx context.Context, listings []models.Listing) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	for _, l := range listings {
		if err := insertListing(ctx, tx, sanitizeListing(l)); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func insertListing(ctx context.Context, db execer, l models.Listing) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO products (`+listingColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (id) DO NOTHING`,
		l.ID, l.Name, l.Price, l.Condition, l.SellerRating, l.Category,
		nullable(l.Brand), nullable(l.ImageURL), nullable(l.URL), nullable(l.Description),
		pq.Array(l.SEOTags),
	)
	if err != nil {
		return fmt.Errorf("insert listing %s: %w", l.ID, err)
	}
	return nil
}

// Add sanitizes and stores a listing, generating an id when none is given.
func (r *ListingRepository) Add(ctx context.Context, l models.Listing) (models.Listing, error) {
	l = sanitizeListing(l)
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if err := insertListing(ctx, r.db, l); err != nil {
		return models.Listing{}, err
	}
	return l, nil
}

// Search matches any extracted term against name, category or brand and
// applies the preference filters.
func (r *ListingRepository) Search(ctx context.Context, query string, prefs *models.Preferences) ([]models.Listing, error) {
	where, args := buildSearchFilter(query, prefs)
	args = append(args, r.maxResults)

	q := `SELECT ` + listingColumns + ` FROM products`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY id LIMIT $` + strconv.Itoa(len(args))

	return r.queryListings(ctx, q, args...)
}

func buildSearchFilter(query string, prefs *models.Preferences) ([]string, []interface{}) {
	var where []string
	var args []interface{}
	next := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if terms := textutil.ExtractSearchTerms(query, prefs); len(terms) > 0 {
		var or []string
		for _, term := range terms {
			p := next("%" + term + "%")
			or = append(or, fmt.Sprintf("name ILIKE %[1]s OR category ILIKE %[1]s OR brand ILIKE %[1]s", p))
		}
		where = append(where, "("+strings.Join(or, " OR ")+")")
	}

	if rng := prefs.Range(); rng != nil {
		if rng.Min != nil {
			where = append(where, "price >= "+next(*rng.Min))
		}
		if rng.Max != nil {
			where = append(where, "price <= "+next(*rng.Max))
		}
	}
	if condition, ok := prefs.ConditionValue(); ok {
		where = append(where, "condition = "+next(condition))
	}
	if brand, ok := prefs.BrandValue(); ok {
		where = append(where, "brand ILIKE "+next("%"+textutil.SanitizeText(brand)+"%"))
	}
	if category, ok := prefs.CategoryValue(); ok {
		where = append(where, "category ILIKE "+next("%"+textutil.SanitizeText(category)+"%"))
	}
	return where, args
}

func (r *ListingRepository) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	listings, err := r.queryListings(ctx, `SELECT `+listingColumns+` FROM products WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return nil, ErrListingNotFound
	}
	return &listings[0], nil
}

func (r *ListingRepository) All(ctx context.Context) ([]models.Listing, error) {
	return r.queryListings(ctx, `SELECT `+listingColumns+` FROM products ORDER BY id`)
}

func (r *ListingRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("clear products: %w", err)
	}
	return nil
}

// EnsureShowcaseCategories adds the showcase listings of every category
// holding fewer than two listings. It returns the number of listings added.
func (r *ListingRepository) EnsureShowcaseCategories(ctx context.Context) (int, error) {
	added := 0
	for _, category := range ShowcaseCategories {
		var n int
		err := r.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM products WHERE LOWER(category) = LOWER($1)`, category).Scan(&n)
		if err != nil {
			return added, fmt.Errorf("count category %s: %w", category, err)
		}
		if n >= minShowcaseListings {
			continue
		}
		for _, l := range ShowcaseListings[category] {
			if err := insertListing(ctx, r.db, sanitizeListing(l)); err != nil {
				return added, err
			}
			added++
		}
	}
	return added, nil
}

// BackfillImages gives every listing without an image a placeholder.
func (r *ListingRepository) BackfillImages(ctx context.Context, rng *rand.Rand) (int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM products WHERE image_url IS NULL OR TRIM(image_url) = ''`)
	if err != nil {
		return 0, fmt.Errorf("select listings without image: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, id := range ids {
		image := PlaceholderImages[rng.Intn(len(PlaceholderImages))]
		if _, err := r.db.ExecContext(ctx, `UPDATE products SET image_url = $1 WHERE id = $2`, image, id); err != nil {
			return 0, fmt.Errorf("update image for %s: %w", id, err)
		}
	}
	return len(ids), nil
}

// ListUntagged returns up to limit listings that have no SEO tags yet.
func (r *ListingRepository) ListUntagged(ctx context.Context, limit int) ([]models.Listing, error) {
	return r.queryListings(ctx,
		`SELECT `+listingColumns+` FROM products WHERE seo_tags IS NULL ORDER BY id LIMIT $1`, limit)
}

// ByTags returns listings carrying every one of tags. Tags are matched in
// lowercase, the way SEOTags writes them.
func (r *ListingRepository) ByTags(ctx context.Context, tags []string, limit int) ([]models.Listing, error) {
	wanted := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			wanted = append(wanted, t)
		}
	}
	if len(wanted) == 0 {
		return []models.Listing{}, nil
	}
	if limit <= 0 {
		limit = r.maxResults
	}
	return r.queryListings(ctx,
		`SELECT `+listingColumns+` FROM products WHERE seo_tags @> $1 ORDER BY id LIMIT $2`, pq.Array(wanted), limit)
}

func (r *ListingRepository) UpdateTags(ctx context.Context, id string, tags []string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE products SET seo_tags = $1 WHERE id = $2`, pq.Array(tags), id)
	if err != nil {
		return fmt.Errorf("update tags for %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) queryListings(ctx context.Context, query string, args ...interface{}) ([]models.Listing, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := []models.Listing{}
	for rows.Next() {
		var (
			l                                 models.Listing
			brand, imageURL, url, description sql.NullString
			tags                              pq.StringArray
		)
		if err := rows.Scan(&l.ID, &l.Name, &l.Price, &l.Condition, &l.SellerRating, &l.Category,
			&brand, &imageURL, &url, &description, &tags); err != nil {
			return nil, err
		}
		l.Brand = brand.String
		l.ImageURL = imageURL.String
		l.URL = url.String
		l.Description = description.String
		if len(tags) > 0 {
			l.SEOTags = []string(tags)
		}
		listings = append(listings, sanitizeListing(l))
	}
	return listings, rows.Err()
}

func sanitizeListing(l models.Listing) models.Listing {
	l.ID = textutil.SanitizeText(l.ID)
	l.Name = textutil.SanitizeText(l.Name)
	l.Condition = textutil.SanitizeText(l.Condition)
	l.Category = textutil.SanitizeText(l.Category)
	l.Brand = textutil.SanitizeText(l.Brand)
	l.ImageURL = textutil.SanitizeText(l.ImageURL)
	l.URL = textutil.SanitizeText(l.URL)
	l.Description = textutil.SanitizeText(l.Description)
	return l
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
