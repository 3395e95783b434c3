package models

// User roles. Vendors own menus and bills; customers form groups and split items.
const (
	RoleCustomer = "customer"
	RoleVendor   = "vendor"
)

// User represents a registered account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Username is the unique display handle chosen at signup.
	Username string

	// Email is the user's email address (unique). Used for login.
	Email string

	// PasswordHash is the bcrypt hash of the user's password.
	// Never the plaintext password.
	PasswordHash string

	// Role is either RoleCustomer or RoleVendor. Defaults to RoleCustomer.
	Role string

	// VendorName is the business name, set only when Role is RoleVendor.
	VendorName string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}

// IsVendor reports whether the user owns menus and bills.
func (u *User) IsVendor() bool {
	return u.Role == RoleVendor
}
