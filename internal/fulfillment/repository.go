package fulfillment

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fulfilment-platform/fulfilment/internal/platform/db"
	"github.com/fulfilment-platform/fulfilment/internal/shared"
)

// Repository persists associations in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx executes the callback inside a repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

const associationColumns = "id, warehouse_business_unit_code, product_id, store_id, created_at"

// FindByProductAndStore lists associations for one product in one store.
func (r *Repository) FindByProductAndStore(ctx context.Context, productID, storeID int64) ([]Association, error) {
	return scanAll(r.pool.Query(ctx,
		"SELECT "+associationColumns+" FROM warehouse_product_store_associations WHERE product_id = $1 AND store_id = $2 ORDER BY created_at",
		productID, storeID))
}

// FindByStore lists associations fulfilling a store.
func (r *Repository) FindByStore(ctx context.Context, storeID int64) ([]Association, error) {
	return scanAll(r.pool.Query(ctx,
		"SELECT "+associationColumns+" FROM warehouse_product_store_associations WHERE store_id = $1 ORDER BY created_at",
		storeID))
}

// FindByWarehouse lists associations a warehouse participates in.
func (r *Repository) FindByWarehouse(ctx context.Context, code string) ([]Association, error) {
	return scanAll(r.pool.Query(ctx,
		"SELECT "+associationColumns+" FROM warehouse_product_store_associations WHERE warehouse_business_unit_code = $1 ORDER BY created_at",
		code))
}

// LockScopes takes advisory locks on the three contended scopes in a fixed
// order so competing associate transactions serialise instead of deadlocking.
func (r *txRepo) LockScopes(ctx context.Context, code string, productID, storeID int64) error {
	_, err := r.tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1)),
		        pg_advisory_xact_lock(hashtext($2)),
		        pg_advisory_xact_lock(hashtext($3))`,
		shared.WarehouseFanOutLockKey(code),
		shared.StoreFanOutLockKey(storeID),
		shared.ProductStoreFanOutLockKey(productID, storeID))
	return err
}

func (r *txRepo) CountWarehousesForProductStore(ctx context.Context, productID, storeID int64) (int, error) {
	return count(ctx, r.tx,
		"SELECT COUNT(DISTINCT warehouse_business_unit_code) FROM warehouse_product_store_associations WHERE product_id = $1 AND store_id = $2",
		productID, storeID)
}

func (r *txRepo) CountWarehousesForStore(ctx context.Context, storeID int64) (int, error) {
	return count(ctx, r.tx,
		"SELECT COUNT(DISTINCT warehouse_business_unit_code) FROM warehouse_product_store_associations WHERE store_id = $1",
		storeID)
}

func (r *txRepo) CountProductsForWarehouse(ctx context.Context, code string) (int, error) {
	return count(ctx, r.tx,
		"SELECT COUNT(DISTINCT product_id) FROM warehouse_product_store_associations WHERE warehouse_business_unit_code = $1",
		code)
}

func (r *txRepo) WarehouseServesStore(ctx context.Context, code string, storeID int64) (bool, error) {
	return exists(ctx, r.tx,
		"SELECT EXISTS (SELECT 1 FROM warehouse_product_store_associations WHERE warehouse_business_unit_code = $1 AND store_id = $2)",
		code, storeID)
}

func (r *txRepo) WarehouseCarriesProduct(ctx context.Context, code string, productID int64) (bool, error) {
	return exists(ctx, r.tx,
		"SELECT EXISTS (SELECT 1 FROM warehouse_product_store_associations WHERE warehouse_business_unit_code = $1 AND product_id = $2)",
		code, productID)
}

func (r *txRepo) Create(ctx context.Context, a Association) (Association, error) {
	_, err := r.tx.Exec(ctx,
		`INSERT INTO warehouse_product_store_associations (id, warehouse_business_unit_code, product_id, store_id, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.WarehouseBusinessUnitCode, a.ProductID, a.StoreID, a.CreatedAt)
	if err != nil {
		return Association{}, err
	}
	return a, nil
}

func count(ctx context.Context, tx pgx.Tx, sql string, args ...any) (int, error) {
	var n int
	if err := tx.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func exists(ctx context.Context, tx pgx.Tx, sql string, args ...any) (bool, error) {
	var ok bool
	if err := tx.QueryRow(ctx, sql, args...).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func scanAll(rows pgx.Rows, err error) ([]Association, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var associations []Association
	for rows.Next() {
		var a Association
		if err := rows.Scan(&a.ID, &a.WarehouseBusinessUnitCode, &a.ProductID, &a.StoreID, &a.CreatedAt); err != nil {
			return nil, err
		}
		associations = append(associations, a)
	}
	return associations, rows.Err()
}
