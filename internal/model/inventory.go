package model

import "time"

// InventoryItem represents one perishable item in a user's stock. Name is
// the join key used for matching against recipe ingredients: normalized
// exact equality, not fuzzy.
type InventoryItem struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Name            string    `json:"name"`
	Detail          string    `json:"detail,omitempty"`
	StorageLocation string    `json:"storage_location"`
	Quantity        string    `json:"quantity"`
	ExpiryDate      time.Time `json:"expiry_date"`
	RegisteredAt    time.Time `json:"registered_at"`
	Barcode         string    `json:"barcode,omitempty"`
}

// Storage locations.
const (
	StorageFridge  = "FRIDGE"
	StorageFreezer = "FREEZER"
	StoragePantry  = "PANTRY"
)

// ValidStorageLocation reports whether loc is a known storage location.
func ValidStorageLocation(loc string) bool {
	return loc == StorageFridge || loc == StorageFreezer || loc == StoragePantry
}
