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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/metaxoft5/Nathan-Backend/api/routes"
	"github.com/metaxoft5/Nathan-Backend/internal/availability"
	"github.com/metaxoft5/Nathan-Backend/internal/flavors"
	"github.com/metaxoft5/Nathan-Backend/internal/inventory"
	"github.com/metaxoft5/Nathan-Backend/internal/orders"
	"github.com/metaxoft5/Nathan-Backend/internal/packcart"
	"github.com/metaxoft5/Nathan-Backend/internal/recipes"
	"github.com/metaxoft5/Nathan-Backend/pkg/config"
	"github.com/metaxoft5/Nathan-Backend/pkg/db"
	"github.com/metaxoft5/Nathan-Backend/pkg/db/models"
	"github.com/metaxoft5/Nathan-Backend/pkg/logger"
	"github.com/metaxoft5/Nathan-Backend/pkg/metrics"
	"github.com/metaxoft5/Nathan-Backend/pkg/migrate"
	"github.com/metaxoft5/Nathan-Backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	if err := ensureThreePackProduct(context.Background(), dbClient.DB(), cfg.ThreePack); err != nil {
		logg.Error(context.Background(), "failed to seed 3-pack product", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	invMetrics := metrics.NewInventoryMetrics(prometheus.DefaultRegisterer)

	flavorRepo := flavors.NewRepository(dbClient.DB())
	recipeRepo := recipes.NewRepository(dbClient.DB())
	invRepo := inventory.NewRepository(dbClient.DB(), invMetrics, logg)
	lineRepo := packcart.NewLineRepository(dbClient.DB())
	productRepo := packcart.NewProductRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())

	flavorService, err := flavors.NewService(flavorRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create flavor service", err)
		os.Exit(1)
	}

	recipeService, err := recipes.NewService(recipeRepo, flavorRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create recipe service", err)
		os.Exit(1)
	}

	inventoryService, err := inventory.NewService(invRepo, flavorRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	availabilityService, err := availability.NewService(recipeRepo, invRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create availability service", err)
		os.Exit(1)
	}

	cartService, err := packcart.NewService(lineRepo, invRepo, recipeRepo, productRepo, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orderRepo, lineRepo, invRepo, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, redisClient, redisClient, routes.Services{
			Flavors:      flavorService,
			Recipes:      recipeService,
			Inventory:    inventoryService,
			Availability: availabilityService,
			Cart:         cartService,
			Orders:       orderService,
			Products:     productRepo,
		}),
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}

// ensureThreePackProduct guarantees the single sellable product exists,
// priced from configuration when the row has to be created.
func ensureThreePackProduct(ctx context.Context, gdb *gorm.DB, cfg config.ThreePackConfig) error {
	var count int64
	if err := gdb.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", models.ThreePackProductID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	price, err := decimal.NewFromString(cfg.UnitPrice)
	if err != nil {
		return err
	}
	return gdb.WithContext(ctx).Create(&models.Product{
		ID:     models.ThreePackProductID,
		Name:   "Candy 3-Pack",
		Price:  price,
		Active: true,
	}).Error
}
