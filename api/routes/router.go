package routes

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/darkstore-backend/api/controllers"
	dashboardcontrollers "github.com/angelmondragon/darkstore-backend/api/controllers/dashboard"
	"github.com/angelmondragon/darkstore-backend/api/middleware"
	"github.com/angelmondragon/darkstore-backend/internal/address"
	"github.com/angelmondragon/darkstore-backend/internal/auth"
	"github.com/angelmondragon/darkstore-backend/internal/users"
	"github.com/angelmondragon/darkstore-backend/internal/warehouses"
	"github.com/angelmondragon/darkstore-backend/pkg/auth/session"
	"github.com/angelmondragon/darkstore-backend/pkg/config"
	"github.com/angelmondragon/darkstore-backend/pkg/enums"
	"github.com/angelmondragon/darkstore-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/darkstore-backend/pkg/redis"
)

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Dashboard areas and the roles that may use them. Order reads and order
// creation stay open to every signed-in role.
var (
	managerRoles  = []enums.UserRole{enums.UserRoleAdmin, enums.UserRoleStoreManager}
	floorRoles    = []enums.UserRole{enums.UserRoleAdmin, enums.UserRoleStoreManager, enums.UserRoleStoreStaff}
	deliveryRoles = []enums.UserRole{enums.UserRoleAdmin, enums.UserRoleStoreManager, enums.UserRoleDeliveryPartner}
	buyerRoles    = []enums.UserRole{enums.UserRoleAdmin, enums.UserRoleStoreManager, enums.UserRoleUser}
)

// Deps carries the services and infrastructure the router mounts. Nil
// stores disable the middleware that needs them.
type Deps struct {
	DB               controllers.Pinger
	Redis            controllers.Pinger
	Sessions         session.AccessSessionChecker
	Idempotency      pkgredis.IdempotencyStore
	RateLimiter      rateLimiter
	Metrics          prometheus.Gatherer
	AuthService      auth.Service
	RegisterService  auth.RegisterService
	UserService      *users.Service
	AddressService   address.Service
	WarehouseService *warehouses.Service
	Dashboard        dashboardcontrollers.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	gatherer := deps.Metrics
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": deps.DB,
			"redis":    deps.Redis,
		}))
	})

	if cfg.Avatar.Dir != "" && strings.HasPrefix(cfg.Avatar.PublicURL, "/") {
		prefix := strings.TrimRight(cfg.Avatar.PublicURL, "/")
		files := http.StripPrefix(prefix+"/", http.FileServer(http.Dir(cfg.Avatar.Dir)))
		r.Method(http.MethodGet, prefix+"/*", files)
	}

	authenticated := middleware.Auth(cfg.JWT, deps.Sessions, logg)

	r.Route("/api/user", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(middleware.RegisterRateLimitPolicy(cfg.AuthRateLimit), deps.RateLimiter, logg)).
			Post("/register", controllers.AccountRegister(deps.RegisterService, logg))
		r.With(middleware.AuthRateLimit(middleware.LoginRateLimitPolicy(cfg.AuthRateLimit), deps.RateLimiter, logg)).
			Post("/login", controllers.AccountLogin(deps.AuthService, cfg.JWT, logg))
		r.Post("/refresh-token", controllers.AccountRefresh(deps.AuthService, cfg.JWT, logg))

		r.Group(func(r chi.Router) {
			r.Use(authenticated)
			r.Get("/logout", controllers.AccountLogout(deps.AuthService, cfg.JWT, logg))
			r.Get("/user-details", controllers.AccountDetails(userService(deps.UserService), logg))
			r.Put("/update-user", controllers.AccountUpdate(userService(deps.UserService), logg))
			r.Put("/upload-avatar", controllers.AccountUploadAvatar(userService(deps.UserService), cfg.Avatar.MaxUploadBytes(), logg))
		})
	})

	r.Route("/api/address", func(r chi.Router) {
		r.Use(authenticated)
		svc := deps.AddressService
		r.Post("/create", controllers.AddressCreate(svc, logg))
		r.Get("/get", controllers.AddressList(svc, logg))
		r.Put("/update", controllers.AddressUpdate(svc, logg))
		r.Delete("/disable", controllers.AddressDisable(svc, logg))
	})

	r.Route("/api/warehouse", func(r chi.Router) {
		r.Use(authenticated)
		svc := warehouseService(deps.WarehouseService)

		r.With(middleware.RequireRole(logg, enums.UserRoleAdmin)).Post("/add-warehouse", controllers.WarehouseAdd(svc, logg))
		r.With(middleware.RequireRole(logg, enums.UserRoleAdmin)).Put("/update-warehouse/{id}", controllers.WarehouseUpdate(svc, logg))
		r.With(middleware.RequireRole(logg, enums.UserRoleAdmin)).Post("/assign-store-manager", controllers.WarehouseAssignManager(svc, logg))
		r.With(middleware.RequireRole(logg, enums.UserRoleAdmin, enums.UserRoleStoreManager)).Post("/assign-store-staff", controllers.WarehouseAssignStaff(svc, logg))

		r.With(middleware.RequireRole(logg, enums.UserRoleStoreManager)).Put("/update-stock-quantity", controllers.WarehouseUpdateStock(svc, logg))
		r.With(middleware.RequireRole(logg, enums.UserRoleStoreManager)).Put("/change-staff-shift", controllers.WarehouseChangeShift(svc, logg))

		r.With(middleware.RequireRole(logg, enums.UserRoleStoreStaff)).Put("/update-order-preparation-status", controllers.WarehouseOrderPreparation(svc, logg))
		r.With(middleware.RequireRole(logg, enums.UserRoleStoreStaff)).Put("/decrease-stock-level", controllers.WarehouseDecreaseStock(svc, logg))
	})

	r.Route("/api/v1/dashboard", func(r chi.Router) {
		r.Use(authenticated)
		r.Use(middleware.Idempotency(deps.Idempotency, logg))
		svc := deps.Dashboard

		r.Get("/stats", dashboardcontrollers.Stats(svc, logg))
		r.Get("/stores", dashboardcontrollers.Stores(svc, logg))
		r.Get("/alerts", dashboardcontrollers.Alerts(svc, logg))

		r.Route("/inventory", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, floorRoles...))
			r.Get("/", dashboardcontrollers.ListInventory(svc, logg))
			r.Post("/", dashboardcontrollers.AddInventory(svc, logg))
			r.Patch("/{id}", dashboardcontrollers.UpdateInventory(svc, logg))
			r.Delete("/{id}", dashboardcontrollers.RemoveInventory(svc, logg))
			r.Post("/{id}/restock", dashboardcontrollers.Restock(svc, logg))
		})

		r.Route("/staff", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, managerRoles...))
			r.Get("/", dashboardcontrollers.ListStaff(svc, logg))
			r.Post("/", dashboardcontrollers.AddStaff(svc, logg))
			r.Patch("/{id}", dashboardcontrollers.UpdateStaff(svc, logg))
			r.Delete("/{id}", dashboardcontrollers.RemoveStaff(svc, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", dashboardcontrollers.ListOrders(svc, logg))
			r.Post("/", dashboardcontrollers.CreateOrder(svc, logg))
			r.Get("/pending", dashboardcontrollers.PendingOrders(svc, logg))
			r.Get("/assigned", dashboardcontrollers.AssignedOrders(svc, logg))
			r.Get("/{id}", dashboardcontrollers.GetOrder(svc, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, floorRoles...))
				r.Patch("/{id}", dashboardcontrollers.UpdateOrder(svc, logg))
				r.Post("/{id}/assign", dashboardcontrollers.AssignOrder(svc, logg))
				r.Post("/{id}/complete", dashboardcontrollers.CompleteOrder(svc, logg))
				r.Post("/{id}/status", dashboardcontrollers.ChangeOrderStatus(svc, logg))
			})
		})
		r.With(middleware.RequireRole(logg, floorRoles...)).Post("/scan", dashboardcontrollers.Scan(svc, logg))

		r.Route("/deliveries", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, deliveryRoles...))
			r.Get("/", dashboardcontrollers.ListDeliveries(svc, logg))
			r.Post("/", dashboardcontrollers.AddDelivery(svc, logg))
			r.Patch("/{id}", dashboardcontrollers.UpdateDelivery(svc, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, buyerRoles...))
			r.Get("/", dashboardcontrollers.GetCart(svc, logg))
			r.Delete("/", dashboardcontrollers.ClearCart(svc, logg))
			r.Post("/items", dashboardcontrollers.AddCartItem(svc, logg))
			r.Put("/items/{id}", dashboardcontrollers.UpdateCartItem(svc, logg))
			r.Delete("/items/{id}", dashboardcontrollers.RemoveCartItem(svc, logg))
			r.Post("/checkout", dashboardcontrollers.Checkout(svc, logg))
		})
	})

	return r
}

// userService keeps a nil *Service from turning into a non-nil interface.
func userService(svc *users.Service) controllers.UserService {
	if svc == nil {
		return nil
	}
	return svc
}

func warehouseService(svc *warehouses.Service) controllers.WarehouseService {
	if svc == nil {
		return nil
	}
	return svc
}
