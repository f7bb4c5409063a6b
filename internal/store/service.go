package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fulfilment-platform/fulfilment/internal/shared"
)

// RepositoryPort abstracts store persistence for the service.
type RepositoryPort interface {
	List(ctx context.Context) ([]Store, error)
	Get(ctx context.Context, id int64) (Store, error)
	Create(ctx context.Context, s Store) (Store, error)
	Update(ctx context.Context, s Store) error
	Delete(ctx context.Context, id int64) error
}

// LegacyNotifier propagates store changes to the legacy store manager. It is
// called only after the database write succeeded; failures are logged and
// never fail the request, matching the after-commit contract of the legacy
// integration.
type LegacyNotifier interface {
	NotifyCreated(ctx context.Context, s Store) error
	NotifyUpdated(ctx context.Context, s Store) error
}

// Service carries store operations and the legacy notification side effect.
type Service struct {
	repo   RepositoryPort
	legacy LegacyNotifier
	logger *slog.Logger
}

// NewService builds Service. legacy may be nil when the integration is disabled.
func NewService(repo RepositoryPort, legacy LegacyNotifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, legacy: legacy, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]Store, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Store, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, candidate Store) (Store, error) {
	if err := validate(candidate); err != nil {
		return Store{}, err
	}
	created, err := s.repo.Create(ctx, candidate)
	if err != nil {
		return Store{}, err
	}
	if s.legacy != nil {
		if err := s.legacy.NotifyCreated(ctx, created); err != nil {
			s.logger.Error("legacy notify create", slog.Int64("store", created.ID), slog.Any("error", err))
		}
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, candidate Store) (Store, error) {
	if err := validate(candidate); err != nil {
		return Store{}, err
	}
	existing, err := s.repo.Get(ctx, candidate.ID)
	if err != nil {
		return Store{}, err
	}
	candidate.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, candidate); err != nil {
		return Store{}, err
	}
	if s.legacy != nil {
		if err := s.legacy.NotifyUpdated(ctx, candidate); err != nil {
			s.logger.Error("legacy notify update", slog.Int64("store", candidate.ID), slog.Any("error", err))
		}
	}
	return candidate, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func validate(s Store) error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: store name is required", shared.ErrInvalidArgument)
	}
	if s.QuantityProductsInStock < 0 {
		return fmt.Errorf("%w: store stock quantity must be >= 0", shared.ErrInvalidArgument)
	}
	return nil
}
