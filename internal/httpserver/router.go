package httpserver

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopkart/internal/domain"
)

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = corsOrigins
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.POST("/auth/register", registerHandler(deps.AuthSvc))
	router.POST("/auth/login", loginHandler(deps.AuthSvc))

	// Public catalog reads.
	router.GET("/products", listProductsHandler(deps.CatalogSvc))
	router.GET("/products/:id", getProductHandler(deps.CatalogSvc))
	router.GET("/products/slug/:slug", getProductBySlugHandler(deps.CatalogSvc))
	router.GET("/categories", listCategoriesHandler(deps.CatalogSvc))
	router.GET("/categories/slug/:slug", getCategoryBySlugHandler(deps.CatalogSvc))

	// Gateway callbacks carry no bearer token.
	router.POST("/payments/webhook", webhookHandler(deps.PaymentSvc))

	authed := router.Group("", authRequired(deps.AuthSvc))

	authed.GET("/me", getProfileHandler(deps.UserSvc))
	authed.PUT("/me", updateProfileHandler(deps.UserSvc))
	authed.GET("/me/addresses", listAddressesHandler(deps.UserSvc))
	authed.POST("/me/addresses", createAddressHandler(deps.UserSvc))
	authed.PUT("/me/addresses/:id", updateAddressHandler(deps.UserSvc))
	authed.DELETE("/me/addresses/:id", deleteAddressHandler(deps.UserSvc))
	authed.GET("/me/wishlist", getWishlistHandler(deps.UserSvc))
	authed.POST("/me/wishlist/:productId", addWishlistItemHandler(deps.UserSvc))
	authed.DELETE("/me/wishlist/:productId", removeWishlistItemHandler(deps.UserSvc))

	authed.GET("/cart", getCartHandler(deps.CartSvc))
	authed.POST("/cart/items", addCartItemHandler(deps.CartSvc))
	authed.PUT("/cart/items/:productId", updateCartItemHandler(deps.CartSvc))
	authed.DELETE("/cart/items/:productId", removeCartItemHandler(deps.CartSvc))
	authed.DELETE("/cart", clearCartHandler(deps.CartSvc))

	authed.POST("/orders", createOrderHandler(deps.OrderSvc))
	authed.GET("/orders", listOrdersHandler(deps.OrderSvc))
	authed.GET("/orders/:id", getOrderHandler(deps.OrderSvc))
	authed.GET("/orders/number/:orderNumber", getOrderByNumberHandler(deps.OrderSvc))
	authed.PUT("/orders/:id/cancel", cancelOrderHandler(deps.OrderSvc))
	authed.PUT("/orders/:id/status", requireRole(domain.RoleAdmin, domain.RoleVendor), updateOrderStatusHandler(deps.OrderSvc))

	authed.POST("/payments/create-intent", createIntentHandler(deps.PaymentSvc))
	authed.POST("/payments/confirm", confirmPaymentHandler(deps.PaymentSvc))
	authed.GET("/payments/:id", getPaymentHandler(deps.PaymentSvc))
	authed.GET("/payments/order/:orderId", getPaymentByOrderHandler(deps.PaymentSvc))
	authed.POST("/payments/:id/refund", requireRole(domain.RoleAdmin), refundPaymentHandler(deps.PaymentSvc))

	catalogWrite := authed.Group("", requireRole(domain.RoleAdmin, domain.RoleVendor))
	catalogWrite.POST("/products", createProductHandler(deps.CatalogSvc))
	catalogWrite.PUT("/products/:id", updateProductHandler(deps.CatalogSvc))
	catalogWrite.DELETE("/products/:id", deleteProductHandler(deps.CatalogSvc))
	catalogWrite.PUT("/products/:id/stock", setProductStockHandler(deps.CatalogSvc))

	adminOnly := authed.Group("", requireRole(domain.RoleAdmin))
	adminOnly.POST("/categories", createCategoryHandler(deps.CatalogSvc))
	adminOnly.PUT("/categories/:id", updateCategoryHandler(deps.CatalogSvc))
	adminOnly.DELETE("/categories/:id", deleteCategoryHandler(deps.CatalogSvc))

	return router, nil
}
