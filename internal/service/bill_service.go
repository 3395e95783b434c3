package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/splittab/splittab/internal/metrics"
	"github.com/splittab/splittab/internal/models"
	"github.com/splittab/splittab/internal/storage"
)

// BillService owns bill lifecycle and line-item mutation. Vendor ownership
// is checked here once per operation, never by callers.
type BillService struct {
	store  storage.Store
	linker *Linker
}

// NewBillService creates a new BillService. The linker is needed for the
// delete cascade that detaches groups from a deleted bill.
func NewBillService(store storage.Store, linker *Linker) *BillService {
	return &BillService{store: store, linker: linker}
}

// Create opens a new pending bill for the vendor's table. The session code
// is generated by the store under its unique index.
func (s *BillService) Create(ctx context.Context, vendorID, tableNumber string) (*models.Bill, error) {
	tableNumber = strings.TrimSpace(tableNumber)
	if tableNumber == "" {
		return nil, fmt.Errorf("%w: table number is required", ErrValidation)
	}

	bill := &models.Bill{
		VendorID:    vendorID,
		TableNumber: tableNumber,
	}
	if err := s.store.CreateBill(ctx, bill); err != nil {
		slog.Error("create bill failed", "vendor_id", vendorID, "error", err)
		return nil, err
	}

	metrics.BillsCreated.Inc()
	slog.Info("bill created", "bill_id", bill.ID, "vendor_id", vendorID, "session_code", bill.SessionCode)
	return bill, nil
}

// Get retrieves a bill by ID.
func (s *BillService) Get(ctx context.Context, billID string) (*models.Bill, error) {
	return s.store.GetBill(ctx, billID)
}

// FindBySessionCode looks a bill up by its session code, normalized to
// uppercase.
func (s *BillService) FindBySessionCode(ctx context.Context, code string) (*models.Bill, error) {
	return s.store.GetBillBySessionCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
}

// ListVendorBills returns the vendor's bills, optionally filtered by status.
func (s *BillService) ListVendorBills(ctx context.Context, vendorID string, statuses ...string) ([]*models.Bill, error) {
	return s.store.ListBillsByVendor(ctx, vendorID, statuses...)
}

// AddItem snapshots a menu item onto the bill. Name and price are copied at
// this instant; later menu edits do not affect the bill. The append and the
// subtotal update happen in one store transaction.
func (s *BillService) AddItem(ctx context.Context, billID, vendorID, menuItemID string, quantity int) (*models.Bill, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	bill, err := s.store.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill.VendorID != vendorID {
		return nil, ErrForbidden
	}

	menuItem, err := s.store.GetMenuItem(ctx, menuItemID)
	if err != nil {
		return nil, err
	}
	if menuItem.VendorID != vendorID {
		return nil, ErrForbidden
	}

	item := &models.OrderItem{
		MenuItemID: menuItem.ID,
		Name:       menuItem.Name,
		Price:      menuItem.Price,
		Quantity:   quantity,
		SplitType:  models.SplitEqual,
	}
	if err := s.store.AddBillItem(ctx, billID, item); err != nil {
		slog.Error("add bill item failed", "bill_id", billID, "menu_item_id", menuItemID, "error", err)
		return nil, err
	}

	slog.Info("item added to bill",
		"bill_id", billID,
		"item_id", item.ID,
		"name", item.Name,
		"quantity", quantity,
	)
	return s.store.GetBill(ctx, billID)
}

// RemoveItem deletes a line item from the bill; the subtotal drops by the
// item's price times quantity in the same store transaction.
func (s *BillService) RemoveItem(ctx context.Context, billID, vendorID, itemID string) (*models.Bill, error) {
	bill, err := s.store.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill.VendorID != vendorID {
		return nil, ErrForbidden
	}

	if err := s.store.RemoveBillItem(ctx, billID, itemID); err != nil {
		return nil, err
	}

	slog.Info("item removed from bill", "bill_id", billID, "item_id", itemID)
	return s.store.GetBill(ctx, billID)
}

// MarkActive transitions a pending bill to active. Called when a group
// first attaches; the splitting core itself never transitions status.
func (s *BillService) MarkActive(ctx context.Context, billID string) error {
	bill, err := s.store.GetBill(ctx, billID)
	if err != nil {
		return err
	}
	if bill.Status != models.BillPending {
		return nil
	}
	return s.store.SetBillStatus(ctx, billID, models.BillActive)
}

// Delete removes the bill, then detaches every group pointing at it. The
// two writes are not atomic with each other: the detach is always attempted
// once the delete succeeds, and a crash in between leaves dangling pointers
// that read paths already tolerate.
func (s *BillService) Delete(ctx context.Context, billID, vendorID string) error {
	bill, err := s.store.GetBill(ctx, billID)
	if err != nil {
		return err
	}
	if bill.VendorID != vendorID {
		return ErrForbidden
	}

	if err := s.store.DeleteBill(ctx, billID); err != nil {
		return err
	}

	detached, err := s.linker.detachDeletedBill(ctx, billID)
	if err != nil {
		// The bill is gone; the dangling pointers will be tolerated on
		// read, so report the cascade failure without undoing anything.
		slog.Error("detach after bill delete failed", "bill_id", billID, "error", err)
		return nil
	}

	slog.Info("bill deleted", "bill_id", billID, "vendor_id", vendorID, "groups_detached", detached)
	return nil
}

// ResolveActiveBill dereferences a group's active bill pointer, treating a
// dangling reference (bill deleted, detach not yet applied) as no bill.
func (s *BillService) ResolveActiveBill(ctx context.Context, group *models.Group) (*models.Bill, error) {
	if group.ActiveBillID == "" {
		return nil, nil
	}
	bill, err := s.store.GetBill(ctx, group.ActiveBillID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return bill, err
}
