package warehouse

import (
	"context"
	"errors"
	"fmt"

	"github.com/fulfilment-platform/fulfilment/internal/location"
	"github.com/fulfilment-platform/fulfilment/internal/shared"
)

// ReadStore is the snapshot the validator reads. Inside a lifecycle operation
// it is the transaction-scoped store, so every count and sum reflects a
// consistent view at decision time.
type ReadStore interface {
	GetAll(ctx context.Context) ([]Warehouse, error)
	FindByCode(ctx context.Context, businessUnitCode string) (Warehouse, error)
}

// Validator decides whether a warehouse may be created or may replace an
// existing one. Location budgets are always computed over active warehouses
// only, freshly per call.
type Validator struct {
	locations location.Resolver
}

// NewValidator constructs a Validator backed by the given location resolver.
func NewValidator(locations location.Resolver) *Validator {
	return &Validator{locations: locations}
}

// ValidateForCreate runs the create checks in fixed order; the first failing
// check determines the returned error.
func (v *Validator) ValidateForCreate(ctx context.Context, store ReadStore, candidate Warehouse) error {
	if err := v.checkCodeNotTaken(ctx, store, candidate.BusinessUnitCode); err != nil {
		return err
	}
	loc, err := v.resolveLocation(ctx, candidate.Location)
	if err != nil {
		return err
	}
	active, err := activeAtLocation(ctx, store, candidate.Location)
	if err != nil {
		return err
	}
	if len(active) >= loc.MaxNumberOfWarehouses {
		return fmt.Errorf("%w: %s", ErrLocationWarehouseLimitExceeded, candidate.Location)
	}
	if candidate.Stock > candidate.Capacity {
		return ErrStockExceedsCapacity
	}
	if totalCapacity(active)+candidate.Capacity > loc.MaxCapacity {
		return fmt.Errorf("%w: %s", ErrLocationCapacityExceeded, candidate.Location)
	}
	return nil
}

// ValidateForReplace checks that the candidate may replace the warehouse
// currently holding its business unit code, and returns that warehouse. The
// max-warehouse-count check is skipped: a replace does not grow the active set.
func (v *Validator) ValidateForReplace(ctx context.Context, store ReadStore, candidate Warehouse) (Warehouse, error) {
	existing, err := store.FindByCode(ctx, candidate.BusinessUnitCode)
	if err != nil {
		return Warehouse{}, fmt.Errorf("warehouse to replace: %w", err)
	}
	loc, err := v.resolveLocation(ctx, candidate.Location)
	if err != nil {
		return Warehouse{}, err
	}
	if candidate.Stock > candidate.Capacity {
		return Warehouse{}, ErrStockExceedsCapacity
	}
	active, err := activeAtLocation(ctx, store, candidate.Location)
	if err != nil {
		return Warehouse{}, err
	}
	if totalCapacity(active)+candidate.Capacity > loc.MaxCapacity {
		return Warehouse{}, fmt.Errorf("%w: %s", ErrLocationCapacityExceeded, candidate.Location)
	}
	if candidate.Capacity < existing.Stock {
		return Warehouse{}, ErrInsufficientCapacityForStock
	}
	if candidate.Stock != existing.Stock {
		return Warehouse{}, ErrStockMismatch
	}
	return existing, nil
}

func (v *Validator) checkCodeNotTaken(ctx context.Context, store ReadStore, code string) error {
	_, err := store.FindByCode(ctx, code)
	if err == nil {
		return fmt.Errorf("%w: %s", ErrDuplicateCode, code)
	}
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	return err
}

func (v *Validator) resolveLocation(ctx context.Context, identifier string) (location.Location, error) {
	loc, err := v.locations.Resolve(ctx, identifier)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return location.Location{}, fmt.Errorf("%w: %s", ErrUnknownLocation, identifier)
		}
		return location.Location{}, err
	}
	return loc, nil
}

func activeAtLocation(ctx context.Context, store ReadStore, identifier string) ([]Warehouse, error) {
	all, err := store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var active []Warehouse
	for _, w := range all {
		if w.Location == identifier && w.Active() {
			active = append(active, w)
		}
	}
	return active, nil
}

func totalCapacity(warehouses []Warehouse) int {
	total := 0
	for _, w := range warehouses {
		total += w.Capacity
	}
	return total
}
