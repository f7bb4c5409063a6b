package location

import (
	"context"
	"fmt"

	"github.com/fulfilment-platform/fulfilment/internal/shared"
)

// Location is a named site with a cap on warehouse count and aggregate capacity.
type Location struct {
	Identification        string `json:"identification"`
	MaxNumberOfWarehouses int    `json:"maxNumberOfWarehouses"`
	MaxCapacity           int    `json:"maxCapacity"`
}

// Resolver maps a location identifier to its limits.
type Resolver interface {
	Resolve(ctx context.Context, identifier string) (Location, error)
}

// Catalog is a static in-memory Resolver seeded with the known sites.
type Catalog struct {
	locations map[string]Location
}

// NewCatalog builds the catalog with the currently provisioned locations.
func NewCatalog() *Catalog {
	entries := []Location{
		{Identification: "ZWOLLE-001", MaxNumberOfWarehouses: 1, MaxCapacity: 40},
		{Identification: "ZWOLLE-002", MaxNumberOfWarehouses: 2, MaxCapacity: 50},
		{Identification: "AMSTERDAM-001", MaxNumberOfWarehouses: 5, MaxCapacity: 100},
		{Identification: "AMSTERDAM-002", MaxNumberOfWarehouses: 3, MaxCapacity: 75},
		{Identification: "ROTTERDAM-001", MaxNumberOfWarehouses: 3, MaxCapacity: 150},
		{Identification: "TILBURG-001", MaxNumberOfWarehouses: 2, MaxCapacity: 60},
		{Identification: "HELMOND-001", MaxNumberOfWarehouses: 1, MaxCapacity: 45},
		{Identification: "EINDHOVEN-001", MaxNumberOfWarehouses: 2, MaxCapacity: 70},
	}
	locations := make(map[string]Location, len(entries))
	for _, e := range entries {
		locations[e.Identification] = e
	}
	return &Catalog{locations: locations}
}

// Resolve looks up a location by identifier.
func (c *Catalog) Resolve(_ context.Context, identifier string) (Location, error) {
	loc, ok := c.locations[identifier]
	if !ok {
		return Location{}, fmt.Errorf("location %s: %w", identifier, shared.ErrNotFound)
	}
	return loc, nil
}
