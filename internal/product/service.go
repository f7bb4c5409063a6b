package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/fulfilment-platform/fulfilment/internal/shared"
)

// RepositoryPort abstracts product persistence for the service.
type RepositoryPort interface {
	List(ctx context.Context) ([]Product, error)
	ListPage(ctx context.Context, limit, offset int) ([]Product, int, error)
	Get(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, p Product) (Product, error)
	Update(ctx context.Context, p Product) error
	Delete(ctx context.Context, id int64) error
}

// Service carries product catalog operations.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

// ListPage returns one page of the catalog with pagination metadata.
func (s *Service) ListPage(ctx context.Context, page, perPage int) ([]Product, shared.Pagination, error) {
	if perPage <= 0 {
		perPage = 20
	}
	if page <= 0 {
		page = 1
	}
	products, total, err := s.repo.ListPage(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return products, shared.NewPagination(page, perPage, total), nil
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, p Product) (Product, error) {
	if err := validate(p); err != nil {
		return Product{}, err
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Update(ctx context.Context, p Product) (Product, error) {
	if err := validate(p); err != nil {
		return Product{}, err
	}
	existing, err := s.repo.Get(ctx, p.ID)
	if err != nil {
		return Product{}, err
	}
	p.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, p); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func validate(p Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", shared.ErrInvalidArgument)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: product price must be >= 0", shared.ErrInvalidArgument)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: product stock must be >= 0", shared.ErrInvalidArgument)
	}
	return nil
}
