package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/inventario-backend/api/controllers"
	"github.com/angelmondragon/inventario-backend/api/middleware"
	"github.com/angelmondragon/inventario-backend/internal/auth"
	"github.com/angelmondragon/inventario-backend/internal/history"
	"github.com/angelmondragon/inventario-backend/internal/inventory"
	"github.com/angelmondragon/inventario-backend/internal/users"
	"github.com/angelmondragon/inventario-backend/pkg/auth/session"
	"github.com/angelmondragon/inventario-backend/pkg/config"
	"github.com/angelmondragon/inventario-backend/pkg/enums"
	"github.com/angelmondragon/inventario-backend/pkg/locations"
	"github.com/angelmondragon/inventario-backend/pkg/logger"
)

type sessionResolver interface {
	Resolve(ctx context.Context, token string) (*session.Record, error)
}

type rateLimitStore interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

type requestObserver interface {
	Observe(method, route string, status int, elapsed time.Duration)
}

type loginCounter interface {
	IncLogin(outcome string)
}

// Params carries everything the router mounts.
type Params struct {
	Config    *config.Config
	Logger    *logger.Logger
	Locations *locations.Registry

	DB          controllers.Pinger
	Redis       controllers.Pinger
	RateLimiter rateLimitStore
	Sessions    sessionResolver

	Auth      auth.Service
	Users     users.Service
	Inventory inventory.Service
	History   history.Service

	RequestMetrics requestObserver
	LoginMetrics   loginCounter
	MetricsHandler http.Handler
}

func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.RequestMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	).WithProxyHeaders(cfg.AuthRateLimit.TrustProxyHeaders)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})
	if p.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", p.MetricsHandler)
	}

	r.Get("/", controllers.LoginPage())
	r.With(middleware.AuthRateLimit(loginPolicy, p.RateLimiter, logg)).
		Post("/", controllers.AuthLogin(p.Auth, cfg.Session, p.LoginMetrics, logg))
	r.Get("/logout", controllers.AuthLogout(p.Auth, cfg.Session, logg))
	r.Post("/logout", controllers.AuthLogout(p.Auth, cfg.Session, logg))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(cfg.Session, p.Sessions, logg))
		located := middleware.Location(p.Locations, logg)

		r.Get("/dashboard", controllers.Dashboard(p.Locations, logg))
		r.Get("/select_state", controllers.SelectStatePage(p.Locations, logg))
		r.Post("/select_state", controllers.SelectState(p.Locations, logg))
		r.With(located).Get("/state_dashboard/{location}", controllers.StateDashboard(logg))
		r.Get("/change_password", controllers.ChangePasswordPage(logg))
		r.Post("/change_password", controllers.ChangePassword(p.Users, logg))

		// Capability guards run before the location guard so a denied role
		// learns nothing about which locations exist.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireCapability(enums.CapabilityViewInventory, logg))
			r.Get("/view_inventory", controllers.ChooseLocation())
			r.With(located).Get("/view_inventory/{location}", controllers.ViewInventory(p.Inventory, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireCapability(enums.CapabilityManageInventory, logg))
			r.Get("/add_product", controllers.ChooseLocation())
			r.Route("/add_product/{location}", func(r chi.Router) {
				r.Use(located)
				r.Get("/", controllers.AddProductPage(logg))
				r.Post("/", controllers.AddProduct(p.Inventory, logg))
			})
			r.Get("/edit_inventory", controllers.ChooseLocation())
			r.Route("/edit_inventory/{location}", func(r chi.Router) {
				r.Use(located)
				r.Get("/", controllers.EditInventoryPage(p.Inventory, logg))
				r.Post("/", controllers.EditInventory(p.Inventory, logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireCapability(enums.CapabilityViewHistory, logg))
			r.Get("/view_history", controllers.ChooseLocation())
			r.With(located).Get("/view_history/{location}", controllers.ViewHistory(p.History, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireCapability(enums.CapabilityManageUsers, logg))
			r.Get("/create_user", controllers.CreateUserPage(logg))
			r.Post("/create_user", controllers.CreateUser(p.Users, logg))
			r.Get("/view_users", controllers.ViewUsers(p.Users, logg))
			r.Get("/delete_user_form", controllers.DeleteUserPage(p.Users, logg))
			r.Post("/delete_user_form", controllers.DeleteUser(p.Users, logg))
		})
	})

	return r
}
