package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splittab/splittab/internal/codes"
	"github.com/splittab/splittab/internal/models"
	"github.com/splittab/splittab/internal/storage"
)

// recomputeSubtotal brings bills.subtotal back in step with the bill's
// items. It must run inside the same transaction as the item mutation so
// the two are one atomic write from every other connection's perspective.
func recomputeSubtotal(ctx context.Context, tx *sql.Tx, billID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE bills
		SET subtotal = (
			SELECT COALESCE(SUM(price * quantity), 0)
			FROM bill_items
			WHERE bill_id = ?
		)
		WHERE id = ?`,
		billID, billID,
	)
	if err != nil {
		return fmt.Errorf("failed to recompute subtotal: %w", err)
	}
	return nil
}

// CreateBill persists a new bill with a freshly generated session code,
// retrying generation on unique-index collision.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.Status == "" {
		bill.Status = models.BillPending
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}

	for {
		bill.SessionCode = codes.Generate()
		_, err := s.db.ExecContext(ctx,
			"INSERT INTO bills (id, vendor_id, table_number, subtotal, status, session_code, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			bill.ID, bill.VendorID, bill.TableNumber, bill.Subtotal, bill.Status, bill.SessionCode, bill.CreatedAt,
		)
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return fmt.Errorf("failed to create bill: %w", err)
		}
		// Session code collision: regenerate and try again.
	}
}

// GetBill retrieves a bill by ID, including all items and their assignees.
func (s *SQLiteStore) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	return s.getBill(ctx, "id = ?", billID)
}

// GetBillBySessionCode retrieves a bill by its session code.
func (s *SQLiteStore) GetBillBySessionCode(ctx context.Context, code string) (*models.Bill, error) {
	return s.getBill(ctx, "session_code = ?", code)
}

func (s *SQLiteStore) getBill(ctx context.Context, where string, arg any) (*models.Bill, error) {
	query := `
		SELECT id, vendor_id, table_number, subtotal, status, session_code, created_at
		FROM bills
		WHERE ` + where

	bill := &models.Bill{}
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&bill.ID,
		&bill.VendorID,
		&bill.TableNumber,
		&bill.Subtotal,
		&bill.Status,
		&bill.SessionCode,
		&bill.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	if bill.Contents, err = s.billItems(ctx, bill.ID); err != nil {
		return nil, err
	}

	return bill, nil
}

// billItems loads a bill's line items in insertion order, with assignees.
func (s *SQLiteStore) billItems(ctx context.Context, billID string) ([]models.OrderItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, menu_item_id, name, price, quantity, split_type
		FROM bill_items
		WHERE bill_id = ?
		ORDER BY rowid`,
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get bill items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		item := models.OrderItem{BillID: billID}
		if err := rows.Scan(&item.ID, &item.MenuItemID, &item.Name, &item.Price, &item.Quantity, &item.SplitType); err != nil {
			return nil, fmt.Errorf("failed to scan bill item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bill items: %w", err)
	}

	for i := range items {
		assignRows, err := s.db.QueryContext(ctx,
			"SELECT user_id FROM item_assignments WHERE item_id = ? ORDER BY rowid",
			items[i].ID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to get item assignments: %w", err)
		}
		for assignRows.Next() {
			var userID string
			if err := assignRows.Scan(&userID); err != nil {
				assignRows.Close()
				return nil, fmt.Errorf("failed to scan assignment: %w", err)
			}
			items[i].AssignedTo = append(items[i].AssignedTo, userID)
		}
		assignRows.Close()
		if err := assignRows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate assignments: %w", err)
		}
	}

	return items, nil
}

// ListBillsByVendor returns the vendor's bills, optionally filtered by
// status, newest first.
func (s *SQLiteStore) ListBillsByVendor(ctx context.Context, vendorID string, statuses ...string) ([]*models.Bill, error) {
	query := "SELECT id FROM bills WHERE vendor_id = ?"
	args := []any{vendorID}
	if len(statuses) > 0 {
		query += " AND status IN (?" + repeatPlaceholder(len(statuses)-1) + ")"
		for _, st := range statuses {
			args = append(args, st)
		}
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan bill id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bill ids: %w", err)
	}

	bills := make([]*models.Bill, 0, len(ids))
	for _, id := range ids {
		bill, err := s.GetBill(ctx, id)
		if err != nil {
			return nil, err
		}
		bills = append(bills, bill)
	}
	return bills, nil
}

// AddBillItem appends the item and recomputes the subtotal in one
// transaction.
func (s *SQLiteStore) AddBillItem(ctx context.Context, billID string, item *models.OrderItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	if item.SplitType == "" {
		item.SplitType = models.SplitEqual
	}
	item.BillID = billID

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := billExists(ctx, tx, billID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO bill_items (id, bill_id, menu_item_id, name, price, quantity, split_type) VALUES (?, ?, ?, ?, ?, ?, ?)",
		item.ID, billID, item.MenuItemID, item.Name, item.Price, item.Quantity, item.SplitType,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill item: %w", err)
	}

	if err := recomputeSubtotal(ctx, tx, billID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RemoveBillItem deletes the item and recomputes the subtotal in one
// transaction.
func (s *SQLiteStore) RemoveBillItem(ctx context.Context, billID, itemID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"DELETE FROM bill_items WHERE id = ? AND bill_id = ?",
		itemID, billID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete bill item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}

	if err := recomputeSubtotal(ctx, tx, billID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SetItemAssignees replaces the item's assignee set with exactly userIDs
// in one transaction. An empty slice leaves the item unassigned.
func (s *SQLiteStore) SetItemAssignees(ctx context.Context, billID, itemID string, userIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var one int
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM bill_items WHERE id = ? AND bill_id = ?",
		itemID, billID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check bill item: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM item_assignments WHERE item_id = ?", itemID,
	); err != nil {
		return fmt.Errorf("failed to clear assignments: %w", err)
	}

	for _, userID := range userIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO item_assignments (item_id, user_id) VALUES (?, ?)",
			itemID, userID,
		); err != nil {
			return fmt.Errorf("failed to insert assignment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SetBillStatus updates the bill's status.
func (s *SQLiteStore) SetBillStatus(ctx context.Context, billID, status string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE bills SET status = ? WHERE id = ?", status, billID,
	)
	if err != nil {
		return fmt.Errorf("failed to set bill status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteBill removes the bill; items and assignments cascade.
func (s *SQLiteStore) DeleteBill(ctx context.Context, billID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM bills WHERE id = ?", billID)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func billExists(ctx context.Context, tx *sql.Tx, billID string) error {
	var one int
	err := tx.QueryRowContext(ctx, "SELECT 1 FROM bills WHERE id = ?", billID).Scan(&one)
	if err == sql.ErrNoRows {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check bill: %w", err)
	}
	return nil
}
