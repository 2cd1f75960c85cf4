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

	"github.com/exactmatch/storefront/api/controllers"
	"github.com/exactmatch/storefront/api/routes"
	"github.com/exactmatch/storefront/internal/cart"
	"github.com/exactmatch/storefront/internal/catalog"
	"github.com/exactmatch/storefront/internal/checkout"
	"github.com/exactmatch/storefront/internal/orders"
	"github.com/exactmatch/storefront/pkg/config"
	"github.com/exactmatch/storefront/pkg/db"
	"github.com/exactmatch/storefront/pkg/logger"
	"github.com/exactmatch/storefront/pkg/metrics"
	"github.com/exactmatch/storefront/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "gateway"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "gateway",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	storefrontMetrics := metrics.NewStorefrontMetrics(prometheus.DefaultRegisterer)

	dbClient, err := db.New(context.Background(), cfg.OrdersDB)
	if err != nil {
		logg.Error(context.Background(), "failed to open order archive", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	if err := ordersRepo.Migrate(context.Background()); err != nil {
		logg.Error(context.Background(), "failed to migrate order archive", err)
		os.Exit(1)
	}
	ordersService, err := orders.NewService(ordersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	var snapshots cart.Snapshots
	switch cfg.Cart.Backend {
	case config.CartBackendRedis:
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		snapshots, err = cart.NewRedisSnapshots(redisClient, cfg.Cart.Slot)
	default:
		snapshots, err = cart.NewFileSnapshots(cfg.Cart.Path)
	}
	if err != nil {
		logg.Error(context.Background(), "failed to create cart snapshots", err)
		os.Exit(1)
	}

	cartStore, err := cart.NewStore(snapshots, logg, storefrontMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}
	cartStore.Load(context.Background())

	catalogClient, err := catalog.NewClient(cfg.Catalog, storefrontMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog client", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(cartStore, ordersService, cfg.Checkout, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	shelves := routes.Shelves{
		Browse:   catalog.NewResource[catalog.Page[catalog.Battery]]("batteries", logg),
		Featured: catalog.NewResource[catalog.Page[catalog.Battery]]("batteries_featured", logg),
		Popular:  catalog.NewResource[catalog.Page[catalog.Battery]]("batteries_popular", logg),
	}

	readiness := map[string]controllers.Pinger{
		"orders_db": dbClient,
	}
	if redisClient != nil {
		readiness["redis"] = redisClient
	}

	router := routes.NewRouter(
		cfg,
		logg,
		catalogClient,
		shelves,
		cartStore,
		checkoutService,
		ordersService,
		readiness,
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"cart_backend": cfg.Cart.Backend,
	})
	logg.Info(ctx, "starting storefront gateway")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errs := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errs:
		logg.Error(ctx, "gateway stopped unexpectedly", err)
		os.Exit(1)
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var closeErr error
	closeErr = multierr.Append(closeErr, server.Shutdown(shutdownCtx))
	cartStore.Close(shutdownCtx)
	closeErr = multierr.Append(closeErr, dbClient.Close())
	if redisClient != nil {
		closeErr = multierr.Append(closeErr, redisClient.Close())
	}
	if closeErr != nil {
		logg.Error(ctx, "shutdown finished with errors", closeErr)
		os.Exit(1)
	}
	logg.Info(ctx, "gateway stopped")
}
