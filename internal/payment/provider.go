// Package payment simulates an external payment provider. Cards are
// validated and exchanged for opaque tokens at registration; the full card
// number and CVC are never persisted. No real charges happen anywhere.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/splittab/splittab/internal/models"
	"github.com/splittab/splittab/internal/storage"
)

var (
	ErrInvalidCardNumber = errors.New("card number must be 16 digits")
	ErrInvalidCVC        = errors.New("cvc must be 3 digits")
	ErrInvalidExpiry     = errors.New("expiry must be in YYYY-MM format")
	ErrCardExpired       = errors.New("card is expired")
	ErrCardNotFound      = errors.New("card not found")
	ErrNotCardOwner      = errors.New("card belongs to another user")
)

// expiryLayout is the wire format for card expiration months.
const expiryLayout = "2006-01"

// CardInput is the raw card detail submitted at registration. It only ever
// lives in memory during the Register call.
type CardInput struct {
	Number         string
	CVC            string
	Expiry         string // YYYY-MM
	CardholderName string
	Nickname       string
}

// Provider is the stubbed tokenization provider: it plays the role a real
// card network would, issuing tokens for validated cards.
type Provider struct {
	cards storage.CardStore
}

// NewProvider creates a Provider backed by the given card store.
func NewProvider(cards storage.CardStore) *Provider {
	return &Provider{cards: cards}
}

func validate(in CardInput) error {
	if len(in.Number) != 16 {
		return ErrInvalidCardNumber
	}
	for _, r := range in.Number {
		if r < '0' || r > '9' {
			return ErrInvalidCardNumber
		}
	}
	if len(in.CVC) != 3 {
		return ErrInvalidCVC
	}
	expiry, err := time.Parse(expiryLayout, in.Expiry)
	if err != nil {
		return ErrInvalidExpiry
	}
	now := time.Now()
	if expiry.Year() < now.Year() ||
		(expiry.Year() == now.Year() && expiry.Month() < now.Month()) {
		return ErrCardExpired
	}
	return nil
}

// Register validates the card and stores a tokenized method: a fresh UUID
// token, the last four digits and display metadata. The PAN and CVC are
// discarded.
func (p *Provider) Register(ctx context.Context, userID string, in CardInput) (*models.Card, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	card := &models.Card{
		Token:          uuid.New().String(),
		UserID:         userID,
		Nickname:       in.Nickname,
		LastFour:       in.Number[len(in.Number)-4:],
		Expiry:         in.Expiry,
		CardholderName: in.CardholderName,
	}
	if err := p.cards.CreateCard(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to store card: %w", err)
	}

	slog.Info("card registered", "user_id", userID, "token", card.Token, "last_four", card.LastFour)
	return card, nil
}

// List returns the user's saved payment methods.
func (p *Provider) List(ctx context.Context, userID string) ([]*models.Card, error) {
	return p.cards.ListCards(ctx, userID)
}

// Remove deletes a saved card. Only the owner may remove it.
func (p *Provider) Remove(ctx context.Context, userID, token string) error {
	card, err := p.cards.GetCard(ctx, token)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrCardNotFound
	}
	if err != nil {
		return err
	}
	if card.UserID != userID {
		return ErrNotCardOwner
	}

	if err := p.cards.DeleteCard(ctx, token); err != nil {
		return err
	}
	slog.Info("card removed", "user_id", userID, "token", token)
	return nil
}
