package models

// Bill status values. The splitting core never transitions status itself;
// the attach flow moves pending bills to active, settlement (out of scope
// here) completes them.
const (
	BillPending   = "pending"
	BillActive    = "active"
	BillCompleted = "completed"
)

// SplitEqual is the only split type currently in use: each assignee owes an
// equal share of the item's price times quantity.
const SplitEqual = "equal"

// Bill represents a vendor's itemized tab for one table.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string

	// VendorID is the user who owns this bill (Role must be vendor).
	VendorID string

	// TableNumber identifies the physical table, as entered by staff.
	TableNumber string

	// Contents are the line items in insertion order. Order matters for
	// display only, not for correctness.
	Contents []OrderItem

	// Subtotal is the sum of Price*Quantity over Contents. The store keeps
	// it in step with Contents inside the same transaction as every item
	// mutation, so it never drifts.
	Subtotal float64

	// Status is one of BillPending, BillActive, BillCompleted.
	Status string

	// SessionCode is the unique 6-character code customers enter to attach
	// their group to this bill.
	SessionCode string

	// CreatedAt is the Unix timestamp when the bill was opened.
	CreatedAt int64
}

// OrderItem is a line item embedded in a bill.
//
// Price and Name are snapshots taken from the menu item at add time; later
// menu edits do not reach items already on a bill.
type OrderItem struct {
	// ID is unique within the owning bill (UUID format).
	ID string

	// MenuItemID references the catalog entry this item was added from.
	MenuItemID string

	// Name is the item name snapshotted at add time.
	Name string

	// Price is the unit price snapshotted at add time.
	Price float64

	// Quantity is how many units were ordered. Always at least 1.
	Quantity int

	// BillID back-references the owning bill.
	BillID string

	// AssignedTo holds the user IDs responsible for this item. Must be a
	// subset of the members of whichever group currently has the owning
	// bill attached. Empty means unassigned.
	AssignedTo []string

	// SplitType is how the item is apportioned; only SplitEqual is
	// meaningful today.
	SplitType string
}

// Amount is the item's contribution to the bill subtotal.
func (i *OrderItem) Amount() float64 {
	return i.Price * float64(i.Quantity)
}

// Item returns the order item with the given ID, or nil.
func (b *Bill) Item(itemID string) *OrderItem {
	for idx := range b.Contents {
		if b.Contents[idx].ID == itemID {
			return &b.Contents[idx]
		}
	}
	return nil
}
