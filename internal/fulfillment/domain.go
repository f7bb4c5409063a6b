package fulfillment

import (
	"fmt"
	"time"

	"github.com/fulfilment-platform/fulfilment/internal/shared"
)

// Association is the immutable fact that a warehouse fulfills a product for a
// store. Associations are never updated or removed once created.
type Association struct {
	ID                        string    `json:"id"`
	WarehouseBusinessUnitCode string    `json:"warehouseBusinessUnitCode"`
	ProductID                 int64     `json:"productId"`
	StoreID                   int64     `json:"storeId"`
	CreatedAt                 time.Time `json:"createdAt"`
}

// Fan-out limits enforced by the allocation engine.
const (
	MaxWarehousesPerProductStore = 2
	MaxWarehousesPerStore        = 3
	MaxProductsPerWarehouse      = 5
)

// ErrMaxWarehousesPerProductStore rejects a third distinct warehouse for one
// product in one store.
var ErrMaxWarehousesPerProductStore = fmt.Errorf("%w: maximum number of warehouses (%d) reached for this product in this store", shared.ErrInvalidArgument, MaxWarehousesPerProductStore)

// ErrMaxWarehousesPerStore rejects a fourth distinct warehouse for one store.
var ErrMaxWarehousesPerStore = fmt.Errorf("%w: maximum number of warehouses (%d) reached for this store", shared.ErrInvalidArgument, MaxWarehousesPerStore)

// ErrMaxProductsPerWarehouse rejects a sixth distinct product for one warehouse.
var ErrMaxProductsPerWarehouse = fmt.Errorf("%w: maximum number of products (%d) reached for this warehouse", shared.ErrInvalidArgument, MaxProductsPerWarehouse)
