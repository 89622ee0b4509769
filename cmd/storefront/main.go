package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/luxe-commerce/storefront/api/routes"
	"github.com/luxe-commerce/storefront/internal/cart"
	"github.com/luxe-commerce/storefront/internal/catalog"
	checkoutsvc "github.com/luxe-commerce/storefront/internal/checkout"
	"github.com/luxe-commerce/storefront/internal/orders"
	"github.com/luxe-commerce/storefront/internal/session"
	"github.com/luxe-commerce/storefront/internal/wishlist"
	"github.com/luxe-commerce/storefront/pkg/config"
	"github.com/luxe-commerce/storefront/pkg/localstore"
	"github.com/luxe-commerce/storefront/pkg/logger"
	"github.com/luxe-commerce/storefront/pkg/metrics"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stateFile, err := localstore.OpenSQLite(ctx, cfg.Storage, logg)
	if err != nil {
		logg.Error(ctx, "failed to open state file", err)
		os.Exit(1)
	}

	cat, err := catalog.LoadFile(cfg.Catalog.Path)
	if err != nil {
		logg.Error(ctx, "failed to load catalog", err)
		os.Exit(1)
	}
	logg.Info(logg.WithField(ctx, "products", cat.Len()), "catalog loaded")

	storeMetrics := metrics.NewStoreMetrics(prometheus.DefaultRegisterer)

	cartStore, err := cart.NewStore(ctx, cart.StoreParams{KV: stateFile, Logger: logg, Metrics: storeMetrics})
	if err != nil {
		logg.Error(ctx, "failed to build cart store", err)
		os.Exit(1)
	}
	wishlistStore, err := wishlist.NewStore(ctx, wishlist.StoreParams{KV: stateFile, Logger: logg, Metrics: storeMetrics})
	if err != nil {
		logg.Error(ctx, "failed to build wishlist store", err)
		os.Exit(1)
	}
	orderStore, err := orders.NewStore(ctx, orders.StoreParams{KV: stateFile, Logger: logg, Metrics: storeMetrics})
	if err != nil {
		logg.Error(ctx, "failed to build order store", err)
		os.Exit(1)
	}
	sessionStore, err := session.NewStore(ctx, session.StoreParams{KV: stateFile, Logger: logg, Metrics: storeMetrics})
	if err != nil {
		logg.Error(ctx, "failed to build session store", err)
		os.Exit(1)
	}
	registry, err := session.NewRegistry(stateFile)
	if err != nil {
		logg.Error(ctx, "failed to build credential registry", err)
		os.Exit(1)
	}
	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Cart:   cartStore,
		Orders: orderStore,
		Logger: logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to build checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			StateFile:   stateFile,
			Catalog:     cat,
			Cart:        cartStore,
			Wishlist:    wishlistStore,
			Orders:      orderStore,
			Session:     sessionStore,
			Credentials: registry,
			Checkout:    checkoutService,
		}),
	}

	startCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(startCtx, "starting storefront server")

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(startCtx, "storefront server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(startCtx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := multierr.Combine(
		server.Shutdown(shutdownCtx),
		stateFile.Close(),
	); err != nil {
		logg.Error(startCtx, "shutdown finished with errors", err)
		os.Exit(1)
	}
	logg.Info(startCtx, "storefront server stopped")
}
