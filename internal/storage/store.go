// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/splittab/splittab/internal/models"
)

// Store defines the persistence contract for the whole application.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer, and lets tests run against a
// throwaway database file.
//
// Uniqueness rules the implementation must enforce with unique indexes:
// users.email, users.username, groups.code, bills.session_code,
// payment_cards.token. Stores that generate short codes (CreateGroup,
// CreateBill) regenerate and retry internally on code collision, so a
// collision is never surfaced to callers.
type Store interface {
	UserStore
	GroupStore
	BillStore
	MenuStore
	CardStore

	// Close releases any resources held by the store.
	Close() error
}

// UserStore persists accounts.
type UserStore interface {
	// CreateUser persists a new user. Returns ErrDuplicate if the email or
	// username is already taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns ErrNotFound if no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns ErrNotFound if the id is unknown.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUsersByIDs returns the users it can find keyed by ID; unknown IDs
	// are simply omitted.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
}

// GroupStore persists groups and their membership.
type GroupStore interface {
	// CreateGroup persists a new group, generating its ID and a unique join
	// code (retrying internally on code collision).
	CreateGroup(ctx context.Context, group *models.Group) error

	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// GetGroupByCode looks a group up by join code. Returns ErrNotFound.
	GetGroupByCode(ctx context.Context, code string) (*models.Group, error)

	// AddGroupMember appends userID to the member set.
	AddGroupMember(ctx context.Context, groupID, userID string) error

	// RemoveGroupMember removes userID from the member set.
	RemoveGroupMember(ctx context.Context, groupID, userID string) error

	DeleteGroup(ctx context.Context, groupID string) error

	// ListGroupsByMember returns every group userID belongs to.
	ListGroupsByMember(ctx context.Context, userID string) ([]*models.Group, error)

	// ListGroupsByCreator returns the creator's groups sorted by name.
	ListGroupsByCreator(ctx context.Context, creatorID string) ([]*models.Group, error)

	// GetGroupByActiveBill returns the group currently attached to the
	// bill, or ErrNotFound if no group points at it.
	GetGroupByActiveBill(ctx context.Context, billID string) (*models.Group, error)

	// SetActiveBill repoints the group's active bill. An empty billID
	// clears the pointer.
	SetActiveBill(ctx context.Context, groupID, billID string) error

	// ClearActiveBill clears the pointer on every group referencing the
	// bill and reports how many groups were affected.
	ClearActiveBill(ctx context.Context, billID string) (int, error)
}

// BillStore persists bills and their line items.
//
// AddBillItem, RemoveBillItem and SetItemAssignees each run as one
// transaction; in particular the item mutation and the subtotal update are
// never two separate writes, so concurrent mutations cannot leave the
// subtotal out of step with the contents.
type BillStore interface {
	// CreateBill persists a new bill, generating its ID and a unique
	// session code (retrying internally on code collision).
	CreateBill(ctx context.Context, bill *models.Bill) error

	GetBill(ctx context.Context, billID string) (*models.Bill, error)

	// GetBillBySessionCode looks a bill up by session code.
	GetBillBySessionCode(ctx context.Context, code string) (*models.Bill, error)

	// ListBillsByVendor returns the vendor's bills, optionally filtered to
	// the given statuses, newest first.
	ListBillsByVendor(ctx context.Context, vendorID string, statuses ...string) ([]*models.Bill, error)

	// AddBillItem appends the item and brings the subtotal back in step
	// within the same transaction.
	AddBillItem(ctx context.Context, billID string, item *models.OrderItem) error

	// RemoveBillItem deletes the item and brings the subtotal back in step
	// within the same transaction. Returns ErrNotFound if the item is not
	// on the bill.
	RemoveBillItem(ctx context.Context, billID, itemID string) error

	// SetItemAssignees replaces the item's assignee set with exactly
	// userIDs. An empty slice leaves the item unassigned.
	SetItemAssignees(ctx context.Context, billID, itemID string, userIDs []string) error

	// SetBillStatus updates the bill's status.
	SetBillStatus(ctx context.Context, billID, status string) error

	DeleteBill(ctx context.Context, billID string) error
}

// MenuStore persists vendor menu catalogs.
type MenuStore interface {
	CreateMenuItem(ctx context.Context, item *models.MenuItem) error
	GetMenuItem(ctx context.Context, itemID string) (*models.MenuItem, error)
	ListMenuItems(ctx context.Context, vendorID string) ([]*models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, item *models.MenuItem) error
	DeleteMenuItem(ctx context.Context, itemID string) error
	CountMenuItems(ctx context.Context, vendorID string) (int, error)
}

// CardStore persists tokenized payment methods.
type CardStore interface {
	// CreateCard persists a tokenized card under the unique token index.
	CreateCard(ctx context.Context, card *models.Card) error

	GetCard(ctx context.Context, token string) (*models.Card, error)
	ListCards(ctx context.Context, userID string) ([]*models.Card, error)
	DeleteCard(ctx context.Context, token string) error
}
