package user

import (
	"context"
	"errors"
	"testing"

	"shopkart/internal/domain"
	userrepo "shopkart/internal/repository/user"
)

type stubUserRepo struct {
	wishlist        []domain.WishlistItem
	addErr          error
	removeErr       error
	lastAddUser     string
	lastAddProduct  string
	addCalls        int
	createdAddress  *domain.Address
	lastCreateInput domain.Address
}

func (s *stubUserRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	return &u, nil
}

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	return &domain.User{ID: id}, nil
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return &domain.User{Email: email}, nil
}

func (s *stubUserRepo) UpdateProfile(_ context.Context, id string, _ userrepo.ProfileUpdate) (*domain.User, error) {
	return &domain.User{ID: id}, nil
}

func (s *stubUserRepo) ListAddresses(_ context.Context, _ string) ([]domain.Address, error) {
	return nil, nil
}

func (s *stubUserRepo) GetAddress(_ context.Context, _, addressID string) (*domain.Address, error) {
	return &domain.Address{ID: addressID, Country: "IN"}, nil
}

func (s *stubUserRepo) CreateAddress(_ context.Context, a domain.Address) (*domain.Address, error) {
	s.lastCreateInput = a
	if s.createdAddress != nil {
		return s.createdAddress, nil
	}
	out := a
	out.ID = "a1"
	return &out, nil
}

func (s *stubUserRepo) UpdateAddress(_ context.Context, a domain.Address) (*domain.Address, error) {
	return &a, nil
}

func (s *stubUserRepo) SoftDeleteAddress(_ context.Context, _, _ string) error { return nil }

func (s *stubUserRepo) ListWishlist(_ context.Context, _ string) ([]domain.WishlistItem, error) {
	return s.wishlist, nil
}

func (s *stubUserRepo) AddWishlistItem(_ context.Context, userID, productID string) (*domain.WishlistItem, error) {
	s.addCalls++
	s.lastAddUser = userID
	s.lastAddProduct = productID
	if s.addErr != nil {
		return nil, s.addErr
	}
	return &domain.WishlistItem{ID: "w1", UserID: userID, ProductID: productID}, nil
}

func (s *stubUserRepo) SoftDeleteWishlistItem(_ context.Context, _, _ string) error {
	return s.removeErr
}

type stubProductRepo struct {
	product *domain.Product
	err     error
}

func (s *stubProductRepo) GetByID(_ context.Context, _ string) (*domain.Product, error) {
	return s.product, s.err
}

func TestWishlistEmptyIsNotNil(t *testing.T) {
	svc := &Service{users: &stubUserRepo{}, products: &stubProductRepo{}}
	items, err := svc.Wishlist(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", items)
	}
}

func TestAddToWishlistUnknownProduct(t *testing.T) {
	users := &stubUserRepo{}
	svc := &Service{users: users, products: &stubProductRepo{err: domain.ErrNotFound}}
	_, err := svc.AddToWishlist(context.Background(), "u1", "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if users.addCalls != 0 {
		t.Fatalf("repo must not be called for an unknown product, got %d calls", users.addCalls)
	}
}

func TestAddToWishlist(t *testing.T) {
	users := &stubUserRepo{}
	svc := &Service{users: users, products: &stubProductRepo{product: &domain.Product{ID: "p1"}}}
	item, err := svc.AddToWishlist(context.Background(), "u1", "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.ProductID != "p1" {
		t.Fatalf("expected product p1, got %q", item.ProductID)
	}
	if users.lastAddUser != "u1" || users.lastAddProduct != "p1" {
		t.Fatalf("unexpected repo args: user=%q product=%q", users.lastAddUser, users.lastAddProduct)
	}
}

func TestAddToWishlistDuplicate(t *testing.T) {
	users := &stubUserRepo{addErr: domain.ErrAlreadyExists}
	svc := &Service{users: users, products: &stubProductRepo{product: &domain.Product{ID: "p1"}}}
	_, err := svc.AddToWishlist(context.Background(), "u1", "p1")
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestRemoveFromWishlistMissing(t *testing.T) {
	users := &stubUserRepo{removeErr: domain.ErrNotFound}
	svc := &Service{users: users, products: &stubProductRepo{}}
	if err := svc.RemoveFromWishlist(context.Background(), "u1", "p1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateAddressRequiredFields(t *testing.T) {
	svc := &Service{users: &stubUserRepo{}, products: &stubProductRepo{}}
	_, err := svc.CreateAddress(context.Background(), "u1", AddressInput{FullName: "A B"})
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestCreateAddressDefaultsCountry(t *testing.T) {
	users := &stubUserRepo{}
	svc := &Service{users: users, products: &stubProductRepo{}}
	_, err := svc.CreateAddress(context.Background(), "u1", AddressInput{
		FullName:   "A B",
		Phone:      "9999999999",
		Line1:      "1 Main St",
		City:       "Pune",
		State:      "MH",
		PostalCode: "411001",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if users.lastCreateInput.Country != "IN" {
		t.Fatalf("expected country default IN, got %q", users.lastCreateInput.Country)
	}
}

func TestListAddressesEmptyIsNotNil(t *testing.T) {
	svc := &Service{users: &stubUserRepo{}, products: &stubProductRepo{}}
	addresses, err := svc.ListAddresses(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addresses == nil || len(addresses) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", addresses)
	}
}
