package fulfillment

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/fulfilment-platform/fulfilment/internal/product"
	"github.com/fulfilment-platform/fulfilment/internal/shared"
	"github.com/fulfilment-platform/fulfilment/internal/store"
	"github.com/fulfilment-platform/fulfilment/internal/warehouse"
)

type fakeCatalog struct {
	warehouses map[string]bool
	products   map[int64]bool
	stores     map[int64]bool
}

func (f *fakeCatalog) FindByCode(_ context.Context, code string) (warehouse.Warehouse, error) {
	if !f.warehouses[code] {
		return warehouse.Warehouse{}, fmt.Errorf("warehouse %s: %w", code, shared.ErrNotFound)
	}
	return warehouse.Warehouse{BusinessUnitCode: code}, nil
}

func (f *fakeCatalog) Get(_ context.Context, id int64) (product.Product, error) {
	if !f.products[id] {
		return product.Product{}, fmt.Errorf("product %d: %w", id, shared.ErrNotFound)
	}
	return product.Product{ID: id}, nil
}

type fakeStores struct {
	catalog *fakeCatalog
}

func (f *fakeStores) Get(_ context.Context, id int64) (store.Store, error) {
	if !f.catalog.stores[id] {
		return store.Store{}, fmt.Errorf("store %d: %w", id, shared.ErrNotFound)
	}
	return store.Store{ID: id}, nil
}

// memoryRepo mirrors the advisory-lock serialisation of the real repository
// with a single mutex around WithTx.
type memoryRepo struct {
	mu           sync.Mutex
	associations []Association
}

type memoryTx struct {
	repo *memoryRepo
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(ctx, &memoryTx{repo: r})
}

func (r *memoryRepo) FindByProductAndStore(_ context.Context, productID, storeID int64) ([]Association, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Association
	for _, a := range r.associations {
		if a.ProductID == productID && a.StoreID == storeID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memoryRepo) FindByStore(_ context.Context, storeID int64) ([]Association, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Association
	for _, a := range r.associations {
		if a.StoreID == storeID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memoryRepo) FindByWarehouse(_ context.Context, code string) ([]Association, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Association
	for _, a := range r.associations {
		if a.WarehouseBusinessUnitCode == code {
			out = append(out, a)
		}
	}
	return out, nil
}

func (tx *memoryTx) LockScopes(context.Context, string, int64, int64) error { return nil }

func (tx *memoryTx) CountWarehousesForProductStore(_ context.Context, productID, storeID int64) (int, error) {
	seen := map[string]bool{}
	for _, a := range tx.repo.associations {
		if a.ProductID == productID && a.StoreID == storeID {
			seen[a.WarehouseBusinessUnitCode] = true
		}
	}
	return len(seen), nil
}

func (tx *memoryTx) CountWarehousesForStore(_ context.Context, storeID int64) (int, error) {
	seen := map[string]bool{}
	for _, a := range tx.repo.associations {
		if a.StoreID == storeID {
			seen[a.WarehouseBusinessUnitCode] = true
		}
	}
	return len(seen), nil
}

func (tx *memoryTx) CountProductsForWarehouse(_ context.Context, code string) (int, error) {
	seen := map[int64]bool{}
	for _, a := range tx.repo.associations {
		if a.WarehouseBusinessUnitCode == code {
			seen[a.ProductID] = true
		}
	}
	return len(seen), nil
}

func (tx *memoryTx) WarehouseServesStore(_ context.Context, code string, storeID int64) (bool, error) {
	for _, a := range tx.repo.associations {
		if a.WarehouseBusinessUnitCode == code && a.StoreID == storeID {
			return true, nil
		}
	}
	return false, nil
}

func (tx *memoryTx) WarehouseCarriesProduct(_ context.Context, code string, productID int64) (bool, error) {
	for _, a := range tx.repo.associations {
		if a.WarehouseBusinessUnitCode == code && a.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (tx *memoryTx) Create(_ context.Context, a Association) (Association, error) {
	tx.repo.associations = append(tx.repo.associations, a)
	return a, nil
}

func newTestEngine(repo *memoryRepo) *Service {
	catalog := &fakeCatalog{
		warehouses: map[string]bool{"MWH.001": true, "MWH.012": true, "MWH.023": true, "MWH.100": true},
		products:   map[int64]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true},
		stores:     map[int64]bool{1: true, 2: true, 3: true, 4: true},
	}
	return NewService(repo, catalog, catalog, &fakeStores{catalog: catalog})
}

func seed(t *testing.T, svc *Service, code string, productID, storeID int64) {
	t.Helper()
	_, err := svc.Associate(context.Background(), code, productID, storeID)
	require.NoError(t, err)
}

func TestAssociateCreatesAssociation(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestEngine(repo)

	a, err := svc.Associate(context.Background(), "MWH.001", 1, 1)
	require.NoError(t, err)
	require.NotEmpty(t, a.ID)
	require.Equal(t, "MWH.001", a.WarehouseBusinessUnitCode)
	require.False(t, a.CreatedAt.IsZero())
}

func TestAssociateUnknownWarehouse(t *testing.T) {
	svc := newTestEngine(&memoryRepo{})

	_, err := svc.Associate(context.Background(), "MWH.404", 1, 1)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAssociateUnknownProduct(t *testing.T) {
	svc := newTestEngine(&memoryRepo{})

	_, err := svc.Associate(context.Background(), "MWH.001", 99, 1)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAssociateUnknownStore(t *testing.T) {
	svc := newTestEngine(&memoryRepo{})

	_, err := svc.Associate(context.Background(), "MWH.001", 1, 99)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestProductStoreFanOutLimit(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestEngine(repo)

	seed(t, svc, "MWH.001", 1, 1)
	seed(t, svc, "MWH.012", 1, 1)

	_, err := svc.Associate(context.Background(), "MWH.023", 1, 1)
	require.ErrorIs(t, err, ErrMaxWarehousesPerProductStore)
	require.ErrorIs(t, err, shared.ErrInvalidArgument)
}

func TestDuplicateTripleBelowLimitIsAllowed(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestEngine(repo)

	seed(t, svc, "MWH.001", 1, 1)

	// Same triple again: the distinct warehouse count for the pair is still 1.
	a, err := svc.Associate(context.Background(), "MWH.001", 1, 1)
	require.NoError(t, err)
	require.NotEmpty(t, a.ID)
}

func TestStoreFanOutLimit(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestEngine(repo)

	seed(t, svc, "MWH.001", 1, 1)
	seed(t, svc, "MWH.012", 2, 1)
	seed(t, svc, "MWH.023", 3, 1)

	_, err := svc.Associate(context.Background(), "MWH.100", 4, 1)
	require.ErrorIs(t, err, ErrMaxWarehousesPerStore)
}

func TestStoreFanOutExemptsServingWarehouse(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestEngine(repo)

	seed(t, svc, "MWH.001", 1, 1)
	seed(t, svc, "MWH.012", 2, 1)
	seed(t, svc, "MWH.023", 3, 1)

	// MWH.001 already serves store 1, so a new product for the same store
	// does not count as a fourth warehouse.
	_, err := svc.Associate(context.Background(), "MWH.001", 4, 1)
	require.NoError(t, err)
}

func TestWarehouseProductBreadthLimit(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestEngine(repo)

	for p := int64(1); p <= 5; p++ {
		seed(t, svc, "MWH.001", p, int64(1+(p%2)))
	}

	_, err := svc.Associate(context.Background(), "MWH.001", 6, 1)
	require.ErrorIs(t, err, ErrMaxProductsPerWarehouse)
}

func TestWarehouseProductBreadthExemptsCarriedProduct(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestEngine(repo)

	for p := int64(1); p <= 5; p++ {
		seed(t, svc, "MWH.001", p, 1)
	}

	// Product 1 is already carried by MWH.001; fulfilling it for another
	// store adds no distinct product.
	_, err := svc.Associate(context.Background(), "MWH.001", 1, 2)
	require.NoError(t, err)
}

// Concurrent associates race for the last slot of the product+store pair.
func TestConcurrentAssociatesRespectPairLimit(t *testing.T) {
	for run := 0; run < 50; run++ {
		repo := &memoryRepo{}
		svc := newTestEngine(repo)

		seed(t, svc, "MWH.001", 1, 1)

		var g errgroup.Group
		for _, code := range []string{"MWH.012", "MWH.023"} {
			code := code
			g.Go(func() error {
				_, _ = svc.Associate(context.Background(), code, 1, 1)
				return nil
			})
		}
		require.NoError(t, g.Wait())

		all, err := repo.FindByProductAndStore(context.Background(), 1, 1)
		require.NoError(t, err)

		distinct := map[string]bool{}
		for _, a := range all {
			distinct[a.WarehouseBusinessUnitCode] = true
		}
		require.LessOrEqual(t, len(distinct), MaxWarehousesPerProductStore)
	}
}
