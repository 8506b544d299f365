package httpserver

import (
	"context"

	"shopkart/internal/domain"
	productrepo "shopkart/internal/repository/product"
	authsvc "shopkart/internal/service/auth"
	catalogsvc "shopkart/internal/service/catalog"
	ordersvc "shopkart/internal/service/order"
	paymentsvc "shopkart/internal/service/payment"
	usersvc "shopkart/internal/service/user"
)

// Deps collects the services the router depends on. Handlers talk to
// interfaces so tests can swap stubs in.
type Deps struct {
	AuthSvc    AuthService
	UserSvc    UserService
	CartSvc    CartService
	OrderSvc   OrderService
	PaymentSvc PaymentService
	CatalogSvc CatalogService
}

type AuthService interface {
	Register(ctx context.Context, in authsvc.RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	ParseToken(token string) (authsvc.Identity, error)
}

type UserService interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, in usersvc.ProfileInput) (*domain.User, error)
	ListAddresses(ctx context.Context, userID string) ([]domain.Address, error)
	CreateAddress(ctx context.Context, userID string, in usersvc.AddressInput) (*domain.Address, error)
	UpdateAddress(ctx context.Context, userID, addressID string, in usersvc.AddressInput) (*domain.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID string) error
	Wishlist(ctx context.Context, userID string) ([]domain.WishlistItem, error)
	AddToWishlist(ctx context.Context, userID, productID string) (*domain.WishlistItem, error)
	RemoveFromWishlist(ctx context.Context, userID, productID string) error
}

type CartService interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error)
	Clear(ctx context.Context, userID string) (*domain.Cart, error)
}

type OrderService interface {
	Create(ctx context.Context, userID string, in ordersvc.CreateInput) (*domain.Order, error)
	List(ctx context.Context, userID string, page, pageSize int) (*domain.OrderPage, error)
	GetByID(ctx context.Context, userID, orderID string) (*domain.Order, error)
	GetByNumber(ctx context.Context, userID, orderNumber string) (*domain.Order, error)
	Cancel(ctx context.Context, userID, orderID string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error)
}

type PaymentService interface {
	CreateIntent(ctx context.Context, userID, orderID string, method domain.PaymentMethod) (*paymentsvc.Intent, error)
	Confirm(ctx context.Context, paymentID, gatewayRef string) (*domain.Payment, error)
	HandleWebhook(ctx context.Context, event paymentsvc.WebhookEvent) error
	Refund(ctx context.Context, paymentID string) (*domain.Payment, error)
	GetByID(ctx context.Context, userID, paymentID string) (*domain.Payment, error)
	GetByOrder(ctx context.Context, userID, orderID string) (*domain.Payment, error)
}

type CatalogService interface {
	CreateProduct(ctx context.Context, in catalogsvc.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, in catalogsvc.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
	SetProductStock(ctx context.Context, id string, quantity int) error
	ListProducts(ctx context.Context, f productrepo.ListFilter) (*domain.ProductPage, error)
	CreateCategory(ctx context.Context, in catalogsvc.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id string, in catalogsvc.CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)
}
