package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/fulfilment-platform/fulfilment/internal/platform/cache"
)

// RepositoryPort abstracts repository usage for the lifecycle service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxStore) error) error
	GetAll(ctx context.Context) ([]Warehouse, error)
	FindByCode(ctx context.Context, businessUnitCode string) (Warehouse, error)
}

// TxStore exposes transactional operations used by the lifecycle service.
// LockLocation serialises concurrent create/replace decisions for one
// location, so the count-then-write sequence cannot admit two candidates past
// the same limit.
type TxStore interface {
	ReadStore
	LockLocation(ctx context.Context, identifier string) error
	Create(ctx context.Context, w Warehouse) (Warehouse, error)
	Update(ctx context.Context, w Warehouse) error
	Remove(ctx context.Context, w Warehouse) error
}

// Service coordinates the warehouse lifecycle: create, replace, archive.
type Service struct {
	repo      RepositoryPort
	validator *Validator
	cache     *cache.Cache
	now       func() time.Time
}

// NewService builds the lifecycle Service.
func NewService(repo RepositoryPort, validator *Validator, c *cache.Cache) *Service {
	return &Service{repo: repo, validator: validator, cache: c, now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Create validates the candidate and persists it with a fresh CreatedAt.
// Validation runs strictly before the insert inside one transaction, so a
// rejected candidate leaves no partial state.
func (s *Service) Create(ctx context.Context, candidate Warehouse) (Warehouse, error) {
	var created Warehouse
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxStore) error {
		if err := tx.LockLocation(ctx, candidate.Location); err != nil {
			return err
		}
		if err := s.validator.ValidateForCreate(ctx, tx, candidate); err != nil {
			return err
		}
		candidate.CreatedAt = s.now().UTC()
		var err error
		created, err = tx.Create(ctx, candidate)
		return err
	})
	if err != nil {
		return Warehouse{}, err
	}
	s.invalidate(ctx)
	return created, nil
}

// Replace archives the warehouse currently holding the candidate's business
// unit code and creates the candidate under the same code. After a successful
// replace exactly one row with the code is active; the archived row keeps the
// carried-over stock.
func (s *Service) Replace(ctx context.Context, candidate Warehouse) (Warehouse, error) {
	var created Warehouse
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxStore) error {
		if err := tx.LockLocation(ctx, candidate.Location); err != nil {
			return err
		}
		existing, err := s.validator.ValidateForReplace(ctx, tx, candidate)
		if err != nil {
			return err
		}
		archivedAt := s.now().UTC()
		existing.ArchivedAt = &archivedAt
		if err := tx.Update(ctx, existing); err != nil {
			return err
		}
		candidate.CreatedAt = s.now().UTC()
		created, err = tx.Create(ctx, candidate)
		return err
	})
	if err != nil {
		return Warehouse{}, err
	}
	s.invalidate(ctx)
	return created, nil
}

// Archive sets ArchivedAt on the warehouse with the given code. Archiving an
// already-archived warehouse succeeds and merely overwrites the timestamp.
func (s *Service) Archive(ctx context.Context, businessUnitCode string) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxStore) error {
		existing, err := tx.FindByCode(ctx, businessUnitCode)
		if err != nil {
			return fmt.Errorf("archive warehouse: %w", err)
		}
		archivedAt := s.now().UTC()
		existing.ArchivedAt = &archivedAt
		return tx.Update(ctx, existing)
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Get returns the warehouse currently holding the code, preferring the active row.
func (s *Service) Get(ctx context.Context, businessUnitCode string) (Warehouse, error) {
	return s.repo.FindByCode(ctx, businessUnitCode)
}

// List returns all warehouse rows, archived ones included.
func (s *Service) List(ctx context.Context) ([]Warehouse, error) {
	if s.cache == nil {
		return s.repo.GetAll(ctx)
	}
	key, err := s.cache.BuildKey(ctx, "warehouse", "list")
	if err != nil {
		return s.repo.GetAll(ctx)
	}
	var warehouses []Warehouse
	err = s.cache.FetchJSON(ctx, key, &warehouses, func(ctx context.Context) (interface{}, error) {
		return s.repo.GetAll(ctx)
	})
	if err != nil {
		return s.repo.GetAll(ctx)
	}
	return warehouses, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Bump(ctx)
	}
}
