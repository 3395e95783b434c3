package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/splittab/splittab/internal/models"
	"github.com/splittab/splittab/internal/storage"
)

// CreateCard persists a tokenized payment method. The token is the primary
// key, so a collision (practically impossible for UUID tokens) surfaces as
// ErrDuplicate.
func (s *SQLiteStore) CreateCard(ctx context.Context, card *models.Card) error {
	if card.CreatedAt == 0 {
		card.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO payment_cards (token, user_id, nickname, last_four, expiry, cardholder_name, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		card.Token, card.UserID, card.Nickname, card.LastFour, card.Expiry, card.CardholderName, card.CreatedAt,
	)
	if isUniqueViolation(err) {
		return storage.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

// GetCard retrieves a card by token.
func (s *SQLiteStore) GetCard(ctx context.Context, token string) (*models.Card, error) {
	card := &models.Card{}
	err := s.db.QueryRowContext(ctx,
		"SELECT token, user_id, nickname, last_four, expiry, cardholder_name, created_at FROM payment_cards WHERE token = ?",
		token,
	).Scan(&card.Token, &card.UserID, &card.Nickname, &card.LastFour, &card.Expiry, &card.CardholderName, &card.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return card, nil
}

// ListCards returns a user's saved cards, oldest first.
func (s *SQLiteStore) ListCards(ctx context.Context, userID string) ([]*models.Card, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT token, user_id, nickname, last_four, expiry, cardholder_name, created_at FROM payment_cards WHERE user_id = ? ORDER BY created_at",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	var cards []*models.Card
	for rows.Next() {
		card := &models.Card{}
		if err := rows.Scan(&card.Token, &card.UserID, &card.Nickname, &card.LastFour, &card.Expiry, &card.CardholderName, &card.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cards: %w", err)
	}
	return cards, nil
}

// DeleteCard removes a saved card by token.
func (s *SQLiteStore) DeleteCard(ctx context.Context, token string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM payment_cards WHERE token = ?", token)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
