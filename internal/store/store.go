package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"snackshop/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProducts retrieves the full catalog
func (s *Store) GetProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products, "SELECT * FROM products ORDER BY name")
	return products, err
}

// GetFeaturedProducts retrieves products flagged for the storefront hero section
func (s *Store) GetFeaturedProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM products WHERE is_featured = true ORDER BY name")
	return products, err
}

// CreateProduct inserts a catalog entry
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (name, description, price, regular_price, images, category, inventory, is_featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	return s.db.GetContext(ctx, &p.ID, query,
		p.Name, p.Description, p.Price, p.RegularPrice, p.Images, p.Category, p.Inventory, p.IsFeatured)
}

// UpdateProduct replaces the mutable fields of a catalog entry
func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $1, description = $2, price = $3, regular_price = $4,
		    images = $5, category = $6, inventory = $7, is_featured = $8
		WHERE id = $9`,
		p.Name, p.Description, p.Price, p.RegularPrice, p.Images, p.Category,
		p.Inventory, p.IsFeatured, p.ID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteProduct removes a catalog entry
func (s *Store) DeleteProduct(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
