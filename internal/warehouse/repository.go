package warehouse

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fulfilment-platform/fulfilment/internal/platform/db"
	"github.com/fulfilment-platform/fulfilment/internal/shared"
)

// Repository persists warehouses in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type txStore struct {
	tx pgx.Tx
}

// WithTx executes the callback inside a repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxStore) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txStore{tx: tx})
	})
}

const warehouseColumns = "id, business_unit_code, location, capacity, stock, created_at, archived_at"

// GetAll returns every warehouse row, archived ones included.
func (r *Repository) GetAll(ctx context.Context) ([]Warehouse, error) {
	return scanAll(r.pool.Query(ctx, "SELECT "+warehouseColumns+" FROM warehouses ORDER BY created_at, id"))
}

// FindByCode returns the row currently holding the code, preferring the
// active one over archived predecessors.
func (r *Repository) FindByCode(ctx context.Context, code string) (Warehouse, error) {
	return findByCode(ctx, r.pool, code)
}

func (s *txStore) GetAll(ctx context.Context) ([]Warehouse, error) {
	return scanAll(s.tx.Query(ctx, "SELECT "+warehouseColumns+" FROM warehouses ORDER BY created_at, id"))
}

func (s *txStore) FindByCode(ctx context.Context, code string) (Warehouse, error) {
	return findByCode(ctx, s.tx, code)
}

// LockLocation takes a transaction-scoped advisory lock on the location
// identifier. Concurrent create/replace decisions for one location serialise
// here, so limit checks always see the outcome of the competing transaction.
func (s *txStore) LockLocation(ctx context.Context, identifier string) error {
	_, err := s.tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", shared.LocationLockKey(identifier))
	return err
}

func (s *txStore) Create(ctx context.Context, w Warehouse) (Warehouse, error) {
	row := s.tx.QueryRow(ctx,
		`INSERT INTO warehouses (business_unit_code, location, capacity, stock, created_at, archived_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		w.BusinessUnitCode, w.Location, w.Capacity, w.Stock, w.CreatedAt, w.ArchivedAt)
	if err := row.Scan(&w.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Warehouse{}, fmt.Errorf("warehouse %s: %w", w.BusinessUnitCode, shared.ErrConflict)
		}
		return Warehouse{}, err
	}
	return w, nil
}

func (s *txStore) Update(ctx context.Context, w Warehouse) error {
	tag, err := s.tx.Exec(ctx,
		`UPDATE warehouses SET location = $2, capacity = $3, stock = $4, archived_at = $5 WHERE id = $1`,
		w.ID, w.Location, w.Capacity, w.Stock, w.ArchivedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("warehouse %s: %w", w.BusinessUnitCode, shared.ErrNotFound)
	}
	return nil
}

func (s *txStore) Remove(ctx context.Context, w Warehouse) error {
	tag, err := s.tx.Exec(ctx, `DELETE FROM warehouses WHERE id = $1`, w.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("warehouse %s: %w", w.BusinessUnitCode, shared.ErrNotFound)
	}
	return nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func findByCode(ctx context.Context, q querier, code string) (Warehouse, error) {
	row := q.QueryRow(ctx,
		"SELECT "+warehouseColumns+` FROM warehouses WHERE business_unit_code = $1
		 ORDER BY (archived_at IS NULL) DESC, created_at DESC LIMIT 1`, code)
	w, err := scanOne(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Warehouse{}, fmt.Errorf("warehouse %s: %w", code, shared.ErrNotFound)
		}
		return Warehouse{}, err
	}
	return w, nil
}

func scanAll(rows pgx.Rows, err error) ([]Warehouse, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var warehouses []Warehouse
	for rows.Next() {
		var w Warehouse
		if err := rows.Scan(&w.ID, &w.BusinessUnitCode, &w.Location, &w.Capacity, &w.Stock, &w.CreatedAt, &w.ArchivedAt); err != nil {
			return nil, err
		}
		warehouses = append(warehouses, w)
	}
	return warehouses, rows.Err()
}

func scanOne(row pgx.Row) (Warehouse, error) {
	var w Warehouse
	err := row.Scan(&w.ID, &w.BusinessUnitCode, &w.Location, &w.Capacity, &w.Stock, &w.CreatedAt, &w.ArchivedAt)
	return w, err
}
