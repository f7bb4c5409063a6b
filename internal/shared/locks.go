package shared

import "fmt"

// Advisory lock key builders. The keys are hashed with hashtext on the
// Postgres side; builders live here so every module spells a scope the same
// way and two modules never collide on a shared prefix.

// LocationLockKey serialises warehouse create/replace decisions per location.
func LocationLockKey(identifier string) string {
	return fmt.Sprintf("warehouse:location:%s", identifier)
}

// WarehouseFanOutLockKey serialises allocation decisions per warehouse.
func WarehouseFanOutLockKey(businessUnitCode string) string {
	return fmt.Sprintf("fulfillment:warehouse:%s", businessUnitCode)
}

// StoreFanOutLockKey serialises allocation decisions per store.
func StoreFanOutLockKey(storeID int64) string {
	return fmt.Sprintf("fulfillment:store:%d", storeID)
}

// ProductStoreFanOutLockKey serialises allocation decisions per product and store.
func ProductStoreFanOutLockKey(productID, storeID int64) string {
	return fmt.Sprintf("fulfillment:product-store:%d:%d", productID, storeID)
}
