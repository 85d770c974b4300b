package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bulkbite/bulkbite-backend/api/controllers"
	"github.com/bulkbite/bulkbite-backend/api/middleware"
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
	"github.com/bulkbite/bulkbite-backend/pkg/enums"
	"github.com/bulkbite/bulkbite-backend/pkg/logger"
	"github.com/bulkbite/bulkbite-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Services bundles the domain services the router exposes.
type Services struct {
	Auth          auth.Service
	Register      auth.RegisterService
	Groups        *groups.Service
	Memberships   *memberships.Service
	ProductOrders *productorders.Service
	Orders        *orders.Service
	Consolidator  *orders.Consolidator
	Products      *products.Service
	Suppliers     *suppliers.Service
	Comparator    *suppliers.Comparator
	Notifications notifications.Service
	Analytics     *analytics.Service
	Users         *users.Repository
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions sessionManager,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.CORS(),
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(svcs.Register, svcs.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(sessions, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(sessions, cfg.JWT, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/ping", controllers.PrivatePing())
		r.Get("/v1/auth/me", controllers.AuthMe(svcs.Users, logg))

		r.Route("/v1/groups", func(r chi.Router) {
			r.Post("/", controllers.GroupCreate(svcs.Groups, logg))
			r.Get("/", controllers.GroupList(svcs.Groups, logg))

			r.Route("/{groupID}", func(r chi.Router) {
				r.Get("/", controllers.GroupGet(svcs.Groups, logg))
				r.Patch("/status", controllers.GroupUpdateStatus(svcs.Groups, logg))
				r.Delete("/", controllers.GroupDelete(svcs.Groups, logg))

				r.Post("/join", controllers.MembershipJoin(svcs.Memberships, logg))
				r.Post("/leave", controllers.MembershipLeave(svcs.Memberships, logg))
				r.Get("/members", controllers.MembershipList(svcs.Memberships, logg))

				r.Post("/products", controllers.ProductOrderAdd(svcs.ProductOrders, logg))
				r.Get("/products", controllers.ProductOrderList(svcs.ProductOrders, logg))
				r.Patch("/products/{productOrderID}", controllers.ProductOrderUpdate(svcs.ProductOrders, logg))
				r.Delete("/products/{productOrderID}", controllers.ProductOrderRemove(svcs.ProductOrders, logg))

				r.Post("/consolidate", controllers.OrderConsolidate(svcs.Consolidator, logg))
			})
		})

		r.Route("/v1/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderListMine(svcs.Orders, logg))
			r.Get("/{orderID}", controllers.OrderGet(svcs.Orders, logg))
			r.With(middleware.RequireRole(string(enums.UserRoleSupplier), logg)).
				Patch("/{orderID}/status", controllers.OrderUpdateStatus(svcs.Orders, logg))
		})

		r.Route("/v1/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(svcs.Products, logg))
			r.Get("/categories", controllers.ProductCategories(svcs.Products, logg))
			r.Get("/{productID}", controllers.ProductGet(svcs.Products, logg))
			r.Get("/{productID}/compare", controllers.SupplierCompare(svcs.Comparator, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
				r.Post("/", controllers.ProductCreate(svcs.Products, logg))
				r.Patch("/{productID}", controllers.ProductUpdate(svcs.Products, logg))
			})
		})

		r.Route("/v1/listings", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleSupplier), logg))
			r.Post("/", controllers.ListingCreate(svcs.Suppliers, logg))
			r.Get("/mine", controllers.ListingListMine(svcs.Suppliers, logg))
			r.Patch("/{listingID}", controllers.ListingUpdate(svcs.Suppliers, logg))
			r.Delete("/{listingID}", controllers.ListingDelete(svcs.Suppliers, logg))
		})

		r.Route("/v1/suppliers/me", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleSupplier), logg))
			r.Get("/", controllers.SupplierProfileGet(svcs.Suppliers, logg))
			r.Put("/", controllers.SupplierProfileUpdate(svcs.Suppliers, logg))
		})

		r.Route("/v1/notifications", func(r chi.Router) {
			r.Get("/", controllers.NotificationList(svcs.Notifications, logg))
			r.Get("/unread-count", controllers.NotificationUnreadCount(svcs.Notifications, logg))
			r.Post("/{notificationID}/read", controllers.NotificationMarkRead(svcs.Notifications, logg))
			r.Post("/read-all", controllers.NotificationMarkAllRead(svcs.Notifications, logg))
		})

		r.Route("/v1/analytics", func(r chi.Router) {
			r.Get("/vendor/dashboard", controllers.AnalyticsVendorDashboard(svcs.Analytics, logg))
			r.Get("/supplier/dashboard", controllers.AnalyticsSupplierDashboard(svcs.Analytics, logg))
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
		r.Get("/ping", controllers.AdminPing())
	})

	return r
}
