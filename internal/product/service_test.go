package product

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fulfilment-platform/fulfilment/internal/shared"
)

type memoryRepo struct {
	products []Product
	nextID   int64
}

func (r *memoryRepo) List(context.Context) ([]Product, error) {
	return append([]Product(nil), r.products...), nil
}

func (r *memoryRepo) ListPage(_ context.Context, limit, offset int) ([]Product, int, error) {
	total := len(r.products)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return append([]Product(nil), r.products[offset:end]...), total, nil
}

func (r *memoryRepo) Get(_ context.Context, id int64) (Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, fmt.Errorf("product %d: %w", id, shared.ErrNotFound)
}

func (r *memoryRepo) Create(_ context.Context, p Product) (Product, error) {
	r.nextID++
	p.ID = r.nextID
	p.CreatedAt = time.Now()
	r.products = append(r.products, p)
	return p, nil
}

func (r *memoryRepo) Update(_ context.Context, p Product) error {
	for i := range r.products {
		if r.products[i].ID == p.ID {
			r.products[i] = p
			return nil
		}
	}
	return fmt.Errorf("product %d: %w", p.ID, shared.ErrNotFound)
}

func (r *memoryRepo) Delete(_ context.Context, id int64) error {
	for i := range r.products {
		if r.products[i].ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("product %d: %w", id, shared.ErrNotFound)
}

func seedProducts(t *testing.T, svc *Service, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := svc.Create(context.Background(), Product{Name: fmt.Sprintf("ITEM-%02d", i), Price: 9.95, Stock: 5})
		require.NoError(t, err)
	}
}

func TestCreateProductValidation(t *testing.T) {
	svc := NewService(&memoryRepo{})

	_, err := svc.Create(context.Background(), Product{Name: "  ", Price: 1})
	require.ErrorIs(t, err, shared.ErrInvalidArgument)

	_, err = svc.Create(context.Background(), Product{Name: "KALLAX", Price: -1})
	require.ErrorIs(t, err, shared.ErrInvalidArgument)

	created, err := svc.Create(context.Background(), Product{Name: "KALLAX", Price: 39.99, Stock: 12})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
}

func TestUpdateProductPreservesCreatedAt(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), Product{Name: "BESTÅ", Price: 120})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), Product{ID: created.ID, Name: "BESTÅ", Price: 99.50})
	require.NoError(t, err)
	require.Equal(t, created.CreatedAt, updated.CreatedAt)
	require.Equal(t, 99.50, updated.Price)
}

func TestUpdateUnknownProduct(t *testing.T) {
	svc := NewService(&memoryRepo{})

	_, err := svc.Update(context.Background(), Product{ID: 404, Name: "GHOST", Price: 1})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestListPagePagination(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(repo)
	seedProducts(t, svc, 25)

	items, page, err := svc.ListPage(context.Background(), 2, 10)
	require.NoError(t, err)
	require.Len(t, items, 10)
	require.Equal(t, "ITEM-10", items[0].Name)
	require.Equal(t, 25, page.Total)
	require.Equal(t, 3, page.TotalPages)
	require.Equal(t, 2, page.Page)
}

func TestListPageNormalisesInput(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(repo)
	seedProducts(t, svc, 5)

	items, page, err := svc.ListPage(context.Background(), 0, -1)
	require.NoError(t, err)
	require.Len(t, items, 5)
	require.Equal(t, 1, page.Page)
	require.Equal(t, 20, page.PerPage)
}

func TestListPageBeyondEnd(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(repo)
	seedProducts(t, svc, 3)

	items, page, err := svc.ListPage(context.Background(), 5, 10)
	require.NoError(t, err)
	require.Empty(t, items)
	require.Equal(t, 3, page.Total)
}
