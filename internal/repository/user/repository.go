package user

import (
	"context"

	"shopkart/internal/domain"
)

// ProfileUpdate carries optional profile fields; nil means "leave as is".
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Phone     *string
}

type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (*domain.User, error)

	ListAddresses(ctx context.Context, userID string) ([]domain.Address, error)
	GetAddress(ctx context.Context, userID, addressID string) (*domain.Address, error)
	// CreateAddress inserts the address; when a.IsDefault is set, the user's
	// previous default is cleared in the same transaction.
	CreateAddress(ctx context.Context, a domain.Address) (*domain.Address, error)
	UpdateAddress(ctx context.Context, a domain.Address) (*domain.Address, error)
	SoftDeleteAddress(ctx context.Context, userID, addressID string) error

	ListWishlist(ctx context.Context, userID string) ([]domain.WishlistItem, error)
	// AddWishlistItem returns ErrAlreadyExists when the product is already on
	// the user's live wishlist.
	AddWishlistItem(ctx context.Context, userID, productID string) (*domain.WishlistItem, error)
	SoftDeleteWishlistItem(ctx context.Context, userID, productID string) error
}
