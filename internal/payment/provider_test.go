package payment

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/splittab/splittab/internal/models"
	"github.com/splittab/splittab/internal/storage/sqlite"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	for _, id := range []string{"alice", "bob"} {
		user := &models.User{ID: id, Username: id, Email: id + "@example.com", PasswordHash: "x"}
		if err := store.CreateUser(context.Background(), user); err != nil {
			t.Fatalf("failed to seed user %s: %v", id, err)
		}
	}
	return NewProvider(store)
}

func validInput() CardInput {
	return CardInput{
		Number:         "4242424242424242",
		CVC:            "123",
		Expiry:         time.Now().AddDate(2, 0, 0).Format(expiryLayout),
		CardholderName: "Alice Example",
		Nickname:       "personal",
	}
}

func TestRegister(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()

	t.Run("valid card is tokenized", func(t *testing.T) {
		card, err := provider.Register(ctx, "alice", validInput())
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if card.Token == "" {
			t.Error("expected a token")
		}
		if card.LastFour != "4242" {
			t.Errorf("expected last four 4242, got %q", card.LastFour)
		}
	})

	t.Run("current month is still valid", func(t *testing.T) {
		in := validInput()
		in.Expiry = time.Now().Format(expiryLayout)
		if _, err := provider.Register(ctx, "alice", in); err != nil {
			t.Errorf("Register failed: %v", err)
		}
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name    string
			mutate  func(*CardInput)
			wantErr error
		}{
			{"short number", func(in *CardInput) { in.Number = "4242" }, ErrInvalidCardNumber},
			{"non-digit number", func(in *CardInput) { in.Number = "4242-4242-4242-4" }, ErrInvalidCardNumber},
			{"bad cvc", func(in *CardInput) { in.CVC = "12" }, ErrInvalidCVC},
			{"bad expiry format", func(in *CardInput) { in.Expiry = "01/2030" }, ErrInvalidExpiry},
			{"expired card", func(in *CardInput) { in.Expiry = "2020-01" }, ErrCardExpired},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				in := validInput()
				tt.mutate(&in)
				if _, err := provider.Register(ctx, "alice", in); !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
			})
		}
	})
}

func TestListAndRemove(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()

	card, err := provider.Register(ctx, "alice", validInput())
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	t.Run("list is scoped to the owner", func(t *testing.T) {
		cards, err := provider.List(ctx, "alice")
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(cards) != 1 {
			t.Fatalf("expected 1 card, got %d", len(cards))
		}

		cards, err = provider.List(ctx, "bob")
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(cards) != 0 {
			t.Errorf("expected no cards for bob, got %d", len(cards))
		}
	})

	t.Run("only the owner may remove", func(t *testing.T) {
		if err := provider.Remove(ctx, "bob", card.Token); !errors.Is(err, ErrNotCardOwner) {
			t.Errorf("expected ErrNotCardOwner, got %v", err)
		}
		if err := provider.Remove(ctx, "alice", card.Token); err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
		if err := provider.Remove(ctx, "alice", card.Token); !errors.Is(err, ErrCardNotFound) {
			t.Errorf("expected ErrCardNotFound, got %v", err)
		}
	})
}
