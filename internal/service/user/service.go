package user

import (
	"context"
	"fmt"
	"strings"

	"shopkart/internal/domain"
	productrepo "shopkart/internal/repository/product"
	userrepo "shopkart/internal/repository/user"
)

// Service exposes profile, address-book and wishlist operations.
type Service struct {
	users    userrepo.Repository
	products productRepo
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(users userrepo.Repository, products productrepo.Repository) *Service {
	return &Service{users: users, products: products}
}

func (s *Service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// ProfileInput carries optional profile fields; nil leaves a field untouched.
type ProfileInput struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone"`
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*domain.User, error) {
	return s.users.UpdateProfile(ctx, userID, userrepo.ProfileUpdate{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
	})
}

func (s *Service) ListAddresses(ctx context.Context, userID string) ([]domain.Address, error) {
	addresses, err := s.users.ListAddresses(ctx, userID)
	if err != nil {
		return nil, err
	}
	if addresses == nil {
		addresses = []domain.Address{}
	}
	return addresses, nil
}

// AddressInput carries create/update payloads for addresses.
type AddressInput struct {
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	Line1      string `json:"addressLine1"`
	Line2      string `json:"addressLine2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"isDefault"`
}

func (in AddressInput) validate() error {
	for field, v := range map[string]string{
		"fullName":     in.FullName,
		"phone":        in.Phone,
		"addressLine1": in.Line1,
		"city":         in.City,
		"state":        in.State,
		"postalCode":   in.PostalCode,
	} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s required: %w", field, domain.ErrInvalidState)
		}
	}
	return nil
}

func (s *Service) CreateAddress(ctx context.Context, userID string, in AddressInput) (*domain.Address, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	country := in.Country
	if country == "" {
		country = "IN"
	}
	return s.users.CreateAddress(ctx, domain.Address{
		UserID:     userID,
		FullName:   in.FullName,
		Phone:      in.Phone,
		Line1:      in.Line1,
		Line2:      in.Line2,
		City:       in.City,
		State:      in.State,
		PostalCode: in.PostalCode,
		Country:    country,
		IsDefault:  in.IsDefault,
	})
}

func (s *Service) UpdateAddress(ctx context.Context, userID, addressID string, in AddressInput) (*domain.Address, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	existing, err := s.users.GetAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}
	country := in.Country
	if country == "" {
		country = existing.Country
	}
	return s.users.UpdateAddress(ctx, domain.Address{
		ID:         addressID,
		UserID:     userID,
		FullName:   in.FullName,
		Phone:      in.Phone,
		Line1:      in.Line1,
		Line2:      in.Line2,
		City:       in.City,
		State:      in.State,
		PostalCode: in.PostalCode,
		Country:    country,
		IsDefault:  in.IsDefault,
	})
}

func (s *Service) DeleteAddress(ctx context.Context, userID, addressID string) error {
	return s.users.SoftDeleteAddress(ctx, userID, addressID)
}

// Wishlist returns the user's saved products, newest first. Inactive
// products stay listed so the storefront can show them as unavailable.
func (s *Service) Wishlist(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	items, err := s.users.ListWishlist(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.WishlistItem{}
	}
	return items, nil
}

func (s *Service) AddToWishlist(ctx context.Context, userID, productID string) (*domain.WishlistItem, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.users.AddWishlistItem(ctx, userID, productID)
}

func (s *Service) RemoveFromWishlist(ctx context.Context, userID, productID string) error {
	return s.users.SoftDeleteWishlistItem(ctx, userID, productID)
}
