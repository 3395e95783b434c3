package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/splittab/splittab/internal/models"
	"github.com/splittab/splittab/internal/storage"
	"github.com/splittab/splittab/internal/storage/sqlite"
)

// Shared fixtures for the service tests. Every test runs against a real
// sqlite store on a temp file, never a mock, so the store's transactional
// behavior is part of what gets exercised.

func newTestStore(t *testing.T) storage.Store {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedUser(t *testing.T, store storage.Store, id, role string) *models.User {
	t.Helper()

	user := &models.User{
		ID:           id,
		Username:     id,
		Email:        id + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}
	if role == models.RoleVendor {
		user.VendorName = id + " Diner"
	}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user %s: %v", id, err)
	}
	return user
}

func seedMenuItem(t *testing.T, store storage.Store, vendorID, name string, price float64) *models.MenuItem {
	t.Helper()

	item := &models.MenuItem{
		VendorID:  vendorID,
		Name:      name,
		Price:     price,
		Available: true,
	}
	if err := store.CreateMenuItem(context.Background(), item); err != nil {
		t.Fatalf("failed to seed menu item %s: %v", name, err)
	}
	return item
}
