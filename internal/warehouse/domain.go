package warehouse

import (
	"fmt"
	"time"

	"github.com/fulfilment-platform/fulfilment/internal/shared"
)

// Warehouse models a fulfilment warehouse unit. A unit is active until it is
// archived; archived units keep their row but no longer consume location
// budget.
type Warehouse struct {
	ID               int64
	BusinessUnitCode string
	Location         string
	Capacity         int
	Stock            int
	CreatedAt        time.Time
	ArchivedAt       *time.Time
}

// Active reports whether the warehouse has not been archived.
func (w Warehouse) Active() bool {
	return w.ArchivedAt == nil
}

// ErrDuplicateCode rejects a create whose business unit code is already taken,
// archived rows included.
var ErrDuplicateCode = fmt.Errorf("%w: business unit code already exists", shared.ErrInvalidArgument)

// ErrUnknownLocation indicates the candidate references a location the catalog
// cannot resolve.
var ErrUnknownLocation = fmt.Errorf("%w: unknown location", shared.ErrNotFound)

// ErrLocationWarehouseLimitExceeded rejects a create when the location already
// holds its maximum number of active warehouses.
var ErrLocationWarehouseLimitExceeded = fmt.Errorf("%w: maximum number of warehouses reached for location", shared.ErrInvalidArgument)

// ErrStockExceedsCapacity rejects a candidate holding more stock than it can store.
var ErrStockExceedsCapacity = fmt.Errorf("%w: stock cannot exceed warehouse capacity", shared.ErrInvalidArgument)

// ErrLocationCapacityExceeded rejects a candidate that would push the summed
// active capacity at its location over the location budget.
var ErrLocationCapacityExceeded = fmt.Errorf("%w: warehouse capacity would exceed maximum capacity for location", shared.ErrInvalidArgument)

// ErrInsufficientCapacityForStock rejects a replacement too small to hold the
// stock carried over from the warehouse being replaced.
var ErrInsufficientCapacityForStock = fmt.Errorf("%w: new warehouse capacity cannot be less than existing warehouse stock", shared.ErrInvalidArgument)

// ErrStockMismatch rejects a replacement whose stock differs from the
// warehouse being replaced; replacement is not a restocking operation.
var ErrStockMismatch = fmt.Errorf("%w: new warehouse stock must match existing warehouse stock", shared.ErrInvalidArgument)
