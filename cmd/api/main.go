package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/bulkbite/bulkbite-backend/api/routes"
	"github.com/bulkbite/bulkbite-backend/internal/analytics"
	"github.com/bulkbite/bulkbite-backend/internal/auth"
	"github.com/bulkbite/bulkbite-backend/internal/groups"
	"github.com/bulkbite/bulkbite-backend/internal/memberships"
	"github.com/bulkbite/bulkbite-backend/internal/notifications"
	"github.com/bulkbite/bulkbite-backend/internal/orders"
	"github.com/bulkbite/bulkbite-backend/internal/productorders"
	"github.com/bulkbite/bulkbite-backend/internal/products"
	"github.com/bulkbite/bulkbite-backend/internal/suppliers"
	"github.com/bulkbite/bulkbite-backend/internal/users"
	"github.com/bulkbite/bulkbite-backend/pkg/auth/session"
	"github.com/bulkbite/bulkbite-backend/pkg/config"
	"github.com/bulkbite/bulkbite-backend/pkg/db"
	"github.com/bulkbite/bulkbite-backend/pkg/logger"
	"github.com/bulkbite/bulkbite-backend/pkg/migrate"
	"github.com/bulkbite/bulkbite-backend/pkg/redis"
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notifications.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	analyticsService, err := analytics.NewService(dbClient.DB())
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	suppliersRepo := suppliers.NewRepository(dbClient.DB())

	services := routes.Services{
		Auth:          authService,
		Register:      registerService,
		Groups:        groups.NewService(dbClient, logg),
		Memberships:   memberships.NewService(dbClient, logg),
		ProductOrders: productorders.NewService(dbClient),
		Orders:        orders.NewService(dbClient, logg),
		Consolidator:  orders.NewConsolidator(dbClient, cfg.Policy, logg),
		Products:      products.NewService(products.NewRepository(dbClient.DB())),
		Suppliers:     suppliers.NewService(suppliersRepo),
		Comparator:    suppliers.NewComparator(suppliersRepo, suppliersRepo),
		Notifications: notificationsService,
		Analytics:     analyticsService,
		Users:         usersRepo,
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, services),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
