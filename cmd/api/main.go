package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"shopkart/internal/config"
	"shopkart/internal/db"
	"shopkart/internal/httpserver"
	cartrepo "shopkart/internal/repository/cart"
	categoryrepo "shopkart/internal/repository/category"
	orderrepo "shopkart/internal/repository/order"
	paymentrepo "shopkart/internal/repository/payment"
	productrepo "shopkart/internal/repository/product"
	userrepo "shopkart/internal/repository/user"
	authsvc "shopkart/internal/service/auth"
	cartsvc "shopkart/internal/service/cart"
	catalogsvc "shopkart/internal/service/catalog"
	ordersvc "shopkart/internal/service/order"
	paymentsvc "shopkart/internal/service/payment"
	usersvc "shopkart/internal/service/user"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, db.Pool{
		MaxConns:     cfg.DBMaxConns,
		ConnIdleTime: cfg.DBConnIdleTime,
		ConnLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	userRepo := userrepo.NewPostgres(dbpool, logger)
	productRepo := productrepo.NewPostgres(dbpool, logger)
	categoryRepo := categoryrepo.NewPostgres(dbpool)
	cartRepo := cartrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	paymentRepo := paymentrepo.NewPostgres(dbpool)

	authService := authsvc.New(userRepo, cfg.JWTSecret, cfg.AccessTokenTTL)
	userService := usersvc.New(userRepo, productRepo)
	catalogService := catalogsvc.New(productRepo, categoryRepo)
	cartService := cartsvc.New(cartRepo, productRepo)
	orderService := ordersvc.New(orderRepo, cartRepo, userRepo)
	paymentService := paymentsvc.New(paymentRepo, orderRepo)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		AuthSvc:    authService,
		UserSvc:    userService,
		CartSvc:    cartService,
		OrderSvc:   orderService,
		PaymentSvc: paymentService,
		CatalogSvc: catalogService,
	}, cfg.CORSOrigins)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
