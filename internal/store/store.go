package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fulfilment-platform/fulfilment/internal/shared"
)

// Store is a retail outlet with demand fulfilled from warehouses.
type Store struct {
	ID                      int64     `json:"id"`
	Name                    string    `json:"name"`
	QuantityProductsInStock int       `json:"quantityProductsInStock"`
	CreatedAt               time.Time `json:"createdAt"`
}

// Repository persists stores in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const storeColumns = "id, name, quantity_products_in_stock, created_at"

// List returns all stores.
func (r *Repository) List(ctx context.Context) ([]Store, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+storeColumns+" FROM stores ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []Store
	for rows.Next() {
		var s Store
		if err := rows.Scan(&s.ID, &s.Name, &s.QuantityProductsInStock, &s.CreatedAt); err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

// Get returns one store by id.
func (r *Repository) Get(ctx context.Context, id int64) (Store, error) {
	var s Store
	err := r.pool.QueryRow(ctx, "SELECT "+storeColumns+" FROM stores WHERE id = $1", id).
		Scan(&s.ID, &s.Name, &s.QuantityProductsInStock, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Store{}, fmt.Errorf("store %d: %w", id, shared.ErrNotFound)
		}
		return Store{}, err
	}
	return s, nil
}

// Create inserts a store and returns it with its assigned id.
func (r *Repository) Create(ctx context.Context, s Store) (Store, error) {
	s.CreatedAt = time.Now().UTC()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO stores (name, quantity_products_in_stock, created_at) VALUES ($1, $2, $3) RETURNING id`,
		s.Name, s.QuantityProductsInStock, s.CreatedAt).Scan(&s.ID)
	if err != nil {
		return Store{}, err
	}
	return s, nil
}

// Update overwrites a store's mutable fields.
func (r *Repository) Update(ctx context.Context, s Store) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE stores SET name = $2, quantity_products_in_stock = $3 WHERE id = $1`,
		s.ID, s.Name, s.QuantityProductsInStock)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("store %d: %w", s.ID, shared.ErrNotFound)
	}
	return nil
}

// Delete removes a store.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("store %d: %w", id, shared.ErrNotFound)
	}
	return nil
}
