package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/apexcoatings/backoffice/internal/api/handlers"
	"github.com/apexcoatings/backoffice/internal/api/middleware"
	"github.com/apexcoatings/backoffice/internal/auth"
	"github.com/apexcoatings/backoffice/internal/shop"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB            *gorm.DB
	Redis         *redis.Client
	Logger        *slog.Logger
	Sessions      auth.SessionStore
	AuthService   *auth.Service
	ShopService   *shop.Service
	Authenticator *auth.Authenticator // nil when OIDC is not configured
	AsynqClient   *asynq.Client

	SecureCookies  bool
	EnableCSRF     bool
	AllowedOrigins []string
	RateLimitReqs  int // requests per window; 0 disables
	RateLimitSecs  int
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	if cfg.RateLimitReqs > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs))
	}

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"X-CSRF-Token", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	authHandler := handlers.NewAuthHandler(cfg.AuthService, cfg.Sessions, cfg.Authenticator, cfg.SecureCookies, cfg.Logger)
	customersHandler := handlers.NewCustomersHandler(cfg.DB, cfg.Logger)
	jobsHandler := handlers.NewJobsHandler(cfg.DB, cfg.ShopService, cfg.Logger)
	servicesHandler := handlers.NewServicesHandler(cfg.DB, cfg.Logger)
	estimatesHandler := handlers.NewEstimatesHandler(cfg.DB, cfg.ShopService, cfg.Logger)
	notesHandler := handlers.NewNotesHandler(cfg.DB, cfg.Logger)
	inventoryHandler := handlers.NewInventoryHandler(cfg.DB, cfg.Logger)
	usersHandler := handlers.NewUsersHandler(cfg.DB, cfg.AuthService, cfg.Logger)
	importsHandler := handlers.NewImportsHandler(cfg.AsynqClient, cfg.Logger)

	// Health endpoints (no auth)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	r.Route("/api", func(r chi.Router) {
		// Public auth endpoints. GET /api/login starts the federated flow;
		// POST /api/login is the local strategy.
		r.Post("/login", authHandler.Login)
		r.Post("/login/admin", authHandler.LoginAdmin)
		r.Get("/login", authHandler.OIDCLogin)
		r.Get("/callback", authHandler.OIDCCallback)
		r.Get("/logout", authHandler.Logout)
		r.Post("/logout", authHandler.Logout)

		// Authenticated routes. Capabilities are resolved once by Auth;
		// each group gates on the capability its operations need.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.Sessions))
			if cfg.EnableCSRF {
				r.Use(middleware.CSRF(middleware.NewCSRFStore()))
			}

			r.Get("/user", authHandler.CurrentUser)

			r.Route("/customers", func(r chi.Router) {
				r.With(middleware.Require(auth.CapViewShop)).Get("/", customersHandler.List)
				r.With(middleware.Require(auth.CapViewShop)).Get("/{id}", customersHandler.Get)
				r.With(middleware.Require(auth.CapManageShop)).Post("/", customersHandler.Create)
				r.With(middleware.Require(auth.CapManageShop)).Patch("/{id}", customersHandler.Update)
				r.With(middleware.Require(auth.CapManageShop)).Delete("/{id}", customersHandler.Delete)
			})

			r.Route("/jobs", func(r chi.Router) {
				r.With(middleware.Require(auth.CapViewShop)).Get("/", jobsHandler.List)
				r.With(middleware.Require(auth.CapViewShop)).Get("/{id}", jobsHandler.Get)
				r.With(middleware.Require(auth.CapManageShop)).Post("/", jobsHandler.Create)
				r.With(middleware.Require(auth.CapManageShop)).Patch("/{id}", jobsHandler.Update)
				r.With(middleware.Require(auth.CapManageShop)).Delete("/{id}", jobsHandler.Delete)
			})

			r.Route("/services", func(r chi.Router) {
				r.With(middleware.Require(auth.CapViewShop)).Get("/", servicesHandler.List)
				r.With(middleware.Require(auth.CapViewShop)).Get("/{id}", servicesHandler.Get)
				r.With(middleware.Require(auth.CapManageShop)).Post("/", servicesHandler.Create)
				r.With(middleware.Require(auth.CapManageShop)).Patch("/{id}", servicesHandler.Update)
				r.With(middleware.Require(auth.CapManageShop)).Delete("/{id}", servicesHandler.Delete)
			})

			r.Route("/estimates", func(r chi.Router) {
				r.Use(middleware.Require(auth.CapEstimates))
				r.Get("/", estimatesHandler.List)
				r.Get("/{id}", estimatesHandler.Get)
				r.Post("/", estimatesHandler.Create)
				r.Patch("/{id}", estimatesHandler.Update)
				r.Delete("/{id}", estimatesHandler.Delete)
				r.With(middleware.Require(auth.CapConvertEstimates)).
					Post("/{id}/convert-to-job", estimatesHandler.Convert)
			})

			r.Route("/notes", func(r chi.Router) {
				r.With(middleware.Require(auth.CapViewShop)).Get("/", notesHandler.List)
				r.With(middleware.Require(auth.CapManageShop)).Post("/", notesHandler.Create)
				r.With(middleware.Require(auth.CapManageShop)).Delete("/{id}", notesHandler.Delete)
			})

			r.Route("/inventory", func(r chi.Router) {
				r.With(middleware.Require(auth.CapViewShop)).Get("/", inventoryHandler.List)
				r.With(middleware.Require(auth.CapViewShop)).Get("/{id}", inventoryHandler.Get)
				r.With(middleware.Require(auth.CapManageShop)).Post("/", inventoryHandler.Create)
				r.With(middleware.Require(auth.CapManageShop)).Patch("/{id}", inventoryHandler.Update)
				r.With(middleware.Require(auth.CapManageShop)).Delete("/{id}", inventoryHandler.Delete)
			})

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.Require(auth.CapManageUsers))
				r.Get("/", usersHandler.List)
				r.Get("/{id}", usersHandler.Get)
				r.Post("/", usersHandler.Create)
				r.Patch("/{id}", usersHandler.Update)
				r.Delete("/{id}", usersHandler.Delete)
			})

			r.With(middleware.Require(auth.CapManageUsers)).
				Post("/import", importsHandler.ImportCSV)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not found", http.StatusNotFound)
	})

	return &Router{r}
}
