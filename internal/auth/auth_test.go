package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/splittab/splittab/internal/models"
	"github.com/splittab/splittab/internal/storage/sqlite"
)

func newTestAuthenticator(t *testing.T) *PasswordAuthenticator {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewPasswordAuthenticator(store)
}

func TestRegister(t *testing.T) {
	a := newTestAuthenticator(t)
	ctx := context.Background()

	t.Run("customer signup", func(t *testing.T) {
		user, err := a.Register(ctx, "alice", "Alice@Example.com", "password123", "customer", "")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if user.Role != models.RoleCustomer {
			t.Errorf("expected customer role, got %q", user.Role)
		}
		if user.Email != "alice@example.com" {
			t.Errorf("expected lowercased email, got %q", user.Email)
		}
		if user.PasswordHash == "password123" {
			t.Error("password stored in plaintext")
		}
	})

	t.Run("vendor signup requires a vendor name", func(t *testing.T) {
		if _, err := a.Register(ctx, "diner", "diner@example.com", "password123", "vendor", ""); !errors.Is(err, ErrInvalidSignup) {
			t.Errorf("expected ErrInvalidSignup, got %v", err)
		}
		user, err := a.Register(ctx, "diner", "diner@example.com", "password123", "vendor", "The Diner")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if !user.IsVendor() || user.VendorName != "The Diner" {
			t.Errorf("unexpected vendor account: %+v", user)
		}
	})

	t.Run("unknown role falls back to customer", func(t *testing.T) {
		user, err := a.Register(ctx, "eve", "eve@example.com", "password123", "admin", "")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if user.Role != models.RoleCustomer {
			t.Errorf("expected customer role, got %q", user.Role)
		}
	})

	t.Run("short password", func(t *testing.T) {
		if _, err := a.Register(ctx, "bob", "bob@example.com", "short", "customer", ""); !errors.Is(err, ErrWeakPassword) {
			t.Errorf("expected ErrWeakPassword, got %v", err)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		if _, err := a.Register(ctx, "alice2", "alice@example.com", "password123", "customer", ""); !errors.Is(err, ErrAccountExists) {
			t.Errorf("expected ErrAccountExists, got %v", err)
		}
	})

	t.Run("duplicate username", func(t *testing.T) {
		if _, err := a.Register(ctx, "alice", "alice3@example.com", "password123", "customer", ""); !errors.Is(err, ErrAccountExists) {
			t.Errorf("expected ErrAccountExists, got %v", err)
		}
	})
}

func TestAuthenticate(t *testing.T) {
	a := newTestAuthenticator(t)
	ctx := context.Background()

	if _, err := a.Register(ctx, "alice", "alice@example.com", "password123", "customer", ""); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		user, err := a.Authenticate(ctx, "ALICE@example.com", "password123")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if user.Username != "alice" {
			t.Errorf("expected alice, got %q", user.Username)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, err := a.Authenticate(ctx, "alice@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		if _, err := a.Authenticate(ctx, "nobody@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestJWTManager(t *testing.T) {
	manager := NewJWTManager("test-secret-key", time.Hour)
	user := &models.User{ID: "user-1", Role: models.RoleVendor}

	t.Run("round trip", func(t *testing.T) {
		token, err := manager.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		claims, err := manager.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.UserID != "user-1" || claims.Role != models.RoleVendor {
			t.Errorf("unexpected claims: %+v", claims)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewJWTManager("test-secret-key", -time.Hour)
		token, err := expired.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTManager("other-secret", time.Hour)
		token, err := other.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		if _, err := manager.Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}
