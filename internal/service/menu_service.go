package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/splittab/splittab/internal/models"
	"github.com/splittab/splittab/internal/storage"
)

// MenuService is plain catalog CRUD with vendor ownership enforcement.
type MenuService struct {
	store storage.Store
}

// NewMenuService creates a new MenuService with the given storage backend.
func NewMenuService(store storage.Store) *MenuService {
	return &MenuService{store: store}
}

// Create adds a catalog entry to the vendor's menu.
func (s *MenuService) Create(ctx context.Context, vendorID, name string, price float64, description, category string) (*models.MenuItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if price <= 0 {
		return nil, fmt.Errorf("%w: price must be greater than 0", ErrValidation)
	}

	item := &models.MenuItem{
		VendorID:    vendorID,
		Name:        name,
		Price:       price,
		Description: strings.TrimSpace(description),
		Category:    strings.TrimSpace(category),
		Available:   true,
	}
	if err := s.store.CreateMenuItem(ctx, item); err != nil {
		return nil, err
	}

	slog.Info("menu item created", "menu_item_id", item.ID, "vendor_id", vendorID, "name", name)
	return item, nil
}

// Get returns a single catalog entry, enforcing ownership.
func (s *MenuService) Get(ctx context.Context, vendorID, itemID string) (*models.MenuItem, error) {
	item, err := s.store.GetMenuItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.VendorID != vendorID {
		return nil, ErrForbidden
	}
	return item, nil
}

// List returns the vendor's full catalog.
func (s *MenuService) List(ctx context.Context, vendorID string) ([]*models.MenuItem, error) {
	return s.store.ListMenuItems(ctx, vendorID)
}

// Update overwrites a catalog entry's mutable fields, enforcing ownership.
func (s *MenuService) Update(ctx context.Context, vendorID string, item *models.MenuItem) (*models.MenuItem, error) {
	existing, err := s.Get(ctx, vendorID, item.ID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(item.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if item.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be greater than 0", ErrValidation)
	}

	existing.Name = strings.TrimSpace(item.Name)
	existing.Price = item.Price
	existing.Description = strings.TrimSpace(item.Description)
	if c := strings.TrimSpace(item.Category); c != "" {
		existing.Category = c
	}
	existing.Available = item.Available

	if err := s.store.UpdateMenuItem(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete removes a catalog entry, enforcing ownership. Items already
// snapshotted onto bills keep their name and price.
func (s *MenuService) Delete(ctx context.Context, vendorID, itemID string) error {
	if _, err := s.Get(ctx, vendorID, itemID); err != nil {
		return err
	}
	if err := s.store.DeleteMenuItem(ctx, itemID); err != nil {
		return err
	}
	slog.Info("menu item deleted", "menu_item_id", itemID, "vendor_id", vendorID)
	return nil
}

// Count returns the size of the vendor's catalog, for the dashboard.
func (s *MenuService) Count(ctx context.Context, vendorID string) (int, error) {
	return s.store.CountMenuItems(ctx, vendorID)
}
