package fulfillment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fulfilment-platform/fulfilment/internal/product"
	"github.com/fulfilment-platform/fulfilment/internal/store"
	"github.com/fulfilment-platform/fulfilment/internal/warehouse"
)

// WarehouseFinder resolves warehouses by business unit code.
type WarehouseFinder interface {
	FindByCode(ctx context.Context, businessUnitCode string) (warehouse.Warehouse, error)
}

// ProductFinder resolves products by id.
type ProductFinder interface {
	Get(ctx context.Context, id int64) (product.Product, error)
}

// StoreFinder resolves stores by id.
type StoreFinder interface {
	Get(ctx context.Context, id int64) (store.Store, error)
}

// RepositoryPort abstracts association persistence for the allocation engine.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	FindByProductAndStore(ctx context.Context, productID, storeID int64) ([]Association, error)
	FindByStore(ctx context.Context, storeID int64) ([]Association, error)
	FindByWarehouse(ctx context.Context, businessUnitCode string) ([]Association, error)
}

// TxRepository exposes the transactional reads and the insert the engine uses.
// The counts are distinct counts pushed down to storage; LockScopes serialises
// competing associate calls that contend on the same warehouse, store or
// product+store pair.
type TxRepository interface {
	LockScopes(ctx context.Context, businessUnitCode string, productID, storeID int64) error
	CountWarehousesForProductStore(ctx context.Context, productID, storeID int64) (int, error)
	CountWarehousesForStore(ctx context.Context, storeID int64) (int, error)
	CountProductsForWarehouse(ctx context.Context, businessUnitCode string) (int, error)
	WarehouseServesStore(ctx context.Context, businessUnitCode string, storeID int64) (bool, error)
	WarehouseCarriesProduct(ctx context.Context, businessUnitCode string, productID int64) (bool, error)
	Create(ctx context.Context, a Association) (Association, error)
}

// Service is the allocation engine deciding whether a warehouse may fulfill a
// product for a store.
type Service struct {
	repo       RepositoryPort
	warehouses WarehouseFinder
	products   ProductFinder
	stores     StoreFinder
	now        func() time.Time
}

// NewService builds the allocation engine.
func NewService(repo RepositoryPort, warehouses WarehouseFinder, products ProductFinder, stores StoreFinder) *Service {
	return &Service{repo: repo, warehouses: warehouses, products: products, stores: stores, now: time.Now}
}

// WithNow overrides the engine clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Associate checks that warehouse, product and store exist, then enforces the
// three fan-out constraints in fixed order; the first violated constraint is
// reported. On success it persists and returns the new association.
func (s *Service) Associate(ctx context.Context, businessUnitCode string, productID, storeID int64) (Association, error) {
	if _, err := s.warehouses.FindByCode(ctx, businessUnitCode); err != nil {
		return Association{}, err
	}
	if _, err := s.products.Get(ctx, productID); err != nil {
		return Association{}, err
	}
	if _, err := s.stores.Get(ctx, storeID); err != nil {
		return Association{}, err
	}

	var created Association
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.LockScopes(ctx, businessUnitCode, productID, storeID); err != nil {
			return err
		}
		pairCount, err := tx.CountWarehousesForProductStore(ctx, productID, storeID)
		if err != nil {
			return err
		}
		if pairCount >= MaxWarehousesPerProductStore {
			return ErrMaxWarehousesPerProductStore
		}
		storeCount, err := tx.CountWarehousesForStore(ctx, storeID)
		if err != nil {
			return err
		}
		if storeCount >= MaxWarehousesPerStore {
			serves, err := tx.WarehouseServesStore(ctx, businessUnitCode, storeID)
			if err != nil {
				return err
			}
			if !serves {
				return ErrMaxWarehousesPerStore
			}
		}
		productCount, err := tx.CountProductsForWarehouse(ctx, businessUnitCode)
		if err != nil {
			return err
		}
		if productCount >= MaxProductsPerWarehouse {
			carries, err := tx.WarehouseCarriesProduct(ctx, businessUnitCode, productID)
			if err != nil {
				return err
			}
			if !carries {
				return ErrMaxProductsPerWarehouse
			}
		}
		created, err = tx.Create(ctx, Association{
			ID:                        uuid.NewString(),
			WarehouseBusinessUnitCode: businessUnitCode,
			ProductID:                 productID,
			StoreID:                   storeID,
			CreatedAt:                 s.now().UTC(),
		})
		return err
	})
	if err != nil {
		return Association{}, err
	}
	return created, nil
}

// ListByWarehouse returns the associations a warehouse participates in.
func (s *Service) ListByWarehouse(ctx context.Context, businessUnitCode string) ([]Association, error) {
	return s.repo.FindByWarehouse(ctx, businessUnitCode)
}

// ListByStore returns the associations fulfilling a store.
func (s *Service) ListByStore(ctx context.Context, storeID int64) ([]Association, error) {
	return s.repo.FindByStore(ctx, storeID)
}

// ListByProductAndStore returns the associations for one product in one store.
func (s *Service) ListByProductAndStore(ctx context.Context, productID, storeID int64) ([]Association, error) {
	return s.repo.FindByProductAndStore(ctx, productID, storeID)
}
