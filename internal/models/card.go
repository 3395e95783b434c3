package models

// Card is a tokenized payment method saved by a customer.
//
// The full card number and CVC are never persisted: the payment provider
// stub validates them at registration and keeps only the token, the last
// four digits, and display metadata.
type Card struct {
	// Token is the unique opaque identifier issued at registration (UUID
	// format). This is what later payment calls reference.
	Token string

	// UserID is the customer who saved this card.
	UserID string

	// Nickname is an optional label chosen by the user ("work card").
	Nickname string

	// LastFour is the last four digits of the card number, for display.
	LastFour string

	// Expiry is the expiration month in YYYY-MM form.
	Expiry string

	// CardholderName is the name embossed on the card.
	CardholderName string

	// CreatedAt is the Unix timestamp when the card was registered.
	CreatedAt int64
}
