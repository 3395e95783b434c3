package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/splittab/splittab/internal/models"
	"github.com/splittab/splittab/internal/storage"
)

// Linker maintains the group-bill association. It is the only sanctioned
// writer of a group's active bill pointer, and it enforces vendor
// isolation: a group's pointer only ever references a bill owned by the
// same vendor, except on the customer-initiated join-by-code path where
// the vendor check is relaxed to membership of the caller.
type Linker struct {
	store storage.Store
}

// NewLinker creates a new Linker with the given storage backend.
func NewLinker(store storage.Store) *Linker {
	return &Linker{store: store}
}

func assertSameVendor(bill *models.Bill, group *models.Group, vendorID string) error {
	if bill.VendorID != vendorID {
		return ErrVendorMismatch
	}
	if group != nil && group.CreatorID != vendorID {
		return ErrVendorMismatch
	}
	return nil
}

// Attach points the group at the bill. If the group is already attached to
// another bill, allowReattach decides whether the pointer moves or the call
// fails with ErrAlreadyAttached. Returns both documents after the update.
func (l *Linker) Attach(ctx context.Context, vendorID, billID, groupID string, allowReattach bool) (*models.Bill, *models.Group, error) {
	bill, err := l.store.GetBill(ctx, billID)
	if err != nil {
		return nil, nil, err
	}
	group, err := l.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	if err := assertSameVendor(bill, group, vendorID); err != nil {
		return nil, nil, err
	}

	if group.ActiveBillID != "" && group.ActiveBillID != bill.ID && !allowReattach {
		return nil, nil, ErrAlreadyAttached
	}

	if err := l.store.SetActiveBill(ctx, groupID, bill.ID); err != nil {
		return nil, nil, err
	}

	slog.Info("group attached to bill", "group_id", groupID, "bill_id", billID, "vendor_id", vendorID)
	return l.reload(ctx, billID, groupID)
}

// AttachByCode is the customer-initiated attach: the caller presents a bill
// session code and a group they belong to. The vendor-mismatch check is
// deliberately not applied on this path; what is enforced is that the bill
// exists and the caller is a member of the group.
func (l *Linker) AttachByCode(ctx context.Context, sessionCode, groupID, userID string) (*models.Bill, *models.Group, error) {
	bill, err := l.store.GetBillBySessionCode(ctx, sessionCode)
	if err != nil {
		return nil, nil, err
	}
	group, err := l.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	if !group.HasMember(userID) {
		return nil, nil, ErrNotMember
	}

	if err := l.store.SetActiveBill(ctx, groupID, bill.ID); err != nil {
		return nil, nil, err
	}

	slog.Info("group attached to bill by code", "group_id", groupID, "bill_id", bill.ID, "user_id", userID)
	return l.reload(ctx, bill.ID, groupID)
}

// DetachAll clears the active bill pointer on every group pointing at this
// bill and returns how many groups were affected.
func (l *Linker) DetachAll(ctx context.Context, vendorID, billID string) (int, error) {
	bill, err := l.store.GetBill(ctx, billID)
	if err != nil {
		return 0, err
	}
	if err := assertSameVendor(bill, nil, vendorID); err != nil {
		return 0, err
	}

	n, err := l.store.ClearActiveBill(ctx, billID)
	if err != nil {
		return 0, err
	}
	slog.Info("groups detached from bill", "bill_id", billID, "count", n)
	return n, nil
}

// detachDeletedBill is the delete-cascade variant of DetachAll: the bill
// row is already gone, so there is nothing left to validate against.
func (l *Linker) detachDeletedBill(ctx context.Context, billID string) (int, error) {
	return l.store.ClearActiveBill(ctx, billID)
}

// Move repoints a group from one of the vendor's bills to another. Fails
// with ErrNotAttached if the group's current pointer is not fromBillID.
func (l *Linker) Move(ctx context.Context, vendorID, fromBillID, toBillID, groupID string) (*models.Bill, *models.Group, error) {
	fromBill, err := l.store.GetBill(ctx, fromBillID)
	if err != nil {
		return nil, nil, err
	}
	toBill, err := l.store.GetBill(ctx, toBillID)
	if err != nil {
		return nil, nil, err
	}
	group, err := l.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}

	if err := assertSameVendor(fromBill, group, vendorID); err != nil {
		return nil, nil, err
	}
	if err := assertSameVendor(toBill, nil, vendorID); err != nil {
		return nil, nil, err
	}

	if group.ActiveBillID != fromBill.ID {
		return nil, nil, ErrNotAttached
	}

	if err := l.store.SetActiveBill(ctx, groupID, toBill.ID); err != nil {
		return nil, nil, err
	}

	slog.Info("group moved between bills",
		"group_id", groupID,
		"from_bill_id", fromBillID,
		"to_bill_id", toBillID,
	)
	return l.reload(ctx, toBillID, groupID)
}

// AttachedGroup returns the group attached to the bill, or nil if none.
func (l *Linker) AttachedGroup(ctx context.Context, billID string) (*models.Group, error) {
	group, err := l.store.GetGroupByActiveBill(ctx, billID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return group, nil
}

// ListVendorGroups lists the vendor's groups sorted by name, for feeding
// an attach dropdown.
func (l *Linker) ListVendorGroups(ctx context.Context, vendorID string) ([]*models.Group, error) {
	return l.store.ListGroupsByCreator(ctx, vendorID)
}

func (l *Linker) reload(ctx context.Context, billID, groupID string) (*models.Bill, *models.Group, error) {
	bill, err := l.store.GetBill(ctx, billID)
	if err != nil {
		return nil, nil, err
	}
	group, err := l.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	return bill, group, nil
}
