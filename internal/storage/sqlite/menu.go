package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/splittab/splittab/internal/models"
	"github.com/splittab/splittab/internal/storage"
)

// CreateMenuItem inserts a new catalog entry for a vendor.
func (s *SQLiteStore) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.Category == "" {
		item.Category = "Other"
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO menu_items (id, vendor_id, name, price, description, category, available) VALUES (?, ?, ?, ?, ?, ?, ?)",
		item.ID, item.VendorID, item.Name, item.Price, item.Description, item.Category, item.Available,
	)
	if err != nil {
		return fmt.Errorf("failed to create menu item: %w", err)
	}
	return nil
}

// GetMenuItem retrieves a catalog entry by ID.
func (s *SQLiteStore) GetMenuItem(ctx context.Context, itemID string) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, vendor_id, name, price, description, category, available FROM menu_items WHERE id = ?",
		itemID,
	).Scan(&item.ID, &item.VendorID, &item.Name, &item.Price, &item.Description, &item.Category, &item.Available)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	return item, nil
}

// ListMenuItems returns a vendor's full catalog, grouped by category.
func (s *SQLiteStore) ListMenuItems(ctx context.Context, vendorID string) ([]*models.MenuItem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, vendor_id, name, price, description, category, available FROM menu_items WHERE vendor_id = ? ORDER BY category, name",
		vendorID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	defer rows.Close()

	var items []*models.MenuItem
	for rows.Next() {
		item := &models.MenuItem{}
		if err := rows.Scan(&item.ID, &item.VendorID, &item.Name, &item.Price, &item.Description, &item.Category, &item.Available); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate menu items: %w", err)
	}
	return items, nil
}

// UpdateMenuItem overwrites the mutable fields of a catalog entry.
func (s *SQLiteStore) UpdateMenuItem(ctx context.Context, item *models.MenuItem) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE menu_items SET name = ?, price = ?, description = ?, category = ?, available = ? WHERE id = ?",
		item.Name, item.Price, item.Description, item.Category, item.Available, item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update menu item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteMenuItem removes a catalog entry. Items already snapshotted onto
// bills are unaffected.
func (s *SQLiteStore) DeleteMenuItem(ctx context.Context, itemID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM menu_items WHERE id = ?", itemID)
	if err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CountMenuItems returns the size of a vendor's catalog.
func (s *SQLiteStore) CountMenuItems(ctx context.Context, vendorID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM menu_items WHERE vendor_id = ?", vendorID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count menu items: %w", err)
	}
	return n, nil
}
