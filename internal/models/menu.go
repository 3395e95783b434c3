package models

// MenuItem is a vendor-owned catalog entry. Bills snapshot name and price
// from here when items are added; the catalog itself is plain CRUD.
type MenuItem struct {
	// ID is the unique identifier for the menu item (UUID format).
	ID string

	// VendorID is the owning vendor. Exactly one vendor owns each item.
	VendorID string

	// Name is the item's display name.
	Name string

	// Price is the current unit price. Must be greater than zero.
	Price float64

	// Description is optional free text.
	Description string

	// Category groups items for display (e.g. "Drinks"). Defaults to "Other".
	Category string

	// Available marks whether the item can currently be added to bills.
	Available bool
}
