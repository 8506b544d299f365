package domain

import "time"

// Role controls access to admin and vendor surfaces. Services never inspect
// roles; the HTTP layer checks them before dispatch.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
	RoleVendor   Role = "VENDOR"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName,omitempty"`
	LastName     string    `json:"lastName,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// WishlistItem is one saved product. Removal soft-deletes the row; at most
// one non-removed row exists per (user, product) pair.
type WishlistItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	ProductID string    `json:"productId"`
	Product   *Product  `json:"product,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Address belongs to a user. At most one address per user carries IsDefault;
// the repository clears the previous default in the same transaction that
// sets a new one.
type Address struct {
	ID         string    `json:"id"`
	UserID     string    `json:"-"`
	FullName   string    `json:"fullName"`
	Phone      string    `json:"phone"`
	Line1      string    `json:"addressLine1"`
	Line2      string    `json:"addressLine2,omitempty"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postalCode"`
	Country    string    `json:"country"`
	IsDefault  bool      `json:"isDefault"`
	CreatedAt  time.Time `json:"createdAt"`
}
