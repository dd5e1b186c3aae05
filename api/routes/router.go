package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/leaddesk-backend/api/controllers"
	"github.com/angelmondragon/leaddesk-backend/api/middleware"
	"github.com/angelmondragon/leaddesk-backend/internal/agents"
	"github.com/angelmondragon/leaddesk-backend/internal/auth"
	"github.com/angelmondragon/leaddesk-backend/internal/tasks"
	"github.com/angelmondragon/leaddesk-backend/internal/upload"
	"github.com/angelmondragon/leaddesk-backend/pkg/config"
	"github.com/angelmondragon/leaddesk-backend/pkg/db"
	"github.com/angelmondragon/leaddesk-backend/pkg/enums"
	"github.com/angelmondragon/leaddesk-backend/pkg/logger"
	"github.com/angelmondragon/leaddesk-backend/pkg/redis"
)

// Services groups the domain services mounted by the router.
type Services struct {
	Auth   auth.Service
	Agents agents.Service
	Tasks  tasks.Service
	Upload upload.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	identities middleware.IdentityLoader,
	metricsHandler http.Handler,
	svc Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	// A typed nil *redis.Client must not leak into the interfaces below.
	var rateStore middleware.RateLimitStore
	readyDeps := map[string]controllers.Pinger{"db": dbP}
	if redisClient != nil {
		rateStore = redisClient
		readyDeps["redis"] = redisClient
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readyDeps))
	})
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", controllers.APIHealth())

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, rateStore, logg)).Post("/login", controllers.AuthLogin(svc.Auth, logg))
			r.With(middleware.Authenticate(cfg.JWT, identities, logg)).Get("/me", controllers.AuthMe(svc.Auth, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(cfg.JWT, identities, logg))

			r.Route("/agents", func(r chi.Router) {
				r.Use(middleware.Authorize(logg, enums.RoleAdmin))
				r.Get("/", controllers.AgentsList(svc.Agents, logg))
				r.Post("/", controllers.AgentsCreate(svc.Agents, logg))
				r.Put("/{id}", controllers.AgentsUpdate(svc.Agents, logg))
				r.Delete("/{id}", controllers.AgentsDelete(svc.Agents, logg))
			})

			r.Route("/tasks", func(r chi.Router) {
				r.With(middleware.Authorize(logg, enums.RoleAdmin, enums.RoleAgent)).Get("/me", controllers.TasksMine(svc.Tasks, logg))
				r.With(middleware.Authorize(logg, enums.RoleAdmin)).Get("/by-agent/{agentId}", controllers.TasksByAgent(svc.Tasks, logg))
			})

			r.With(middleware.Authorize(logg, enums.RoleAdmin)).
				Post("/upload", controllers.UploadDistribute(svc.Upload, cfg.Upload.MaxBytes(), logg))
		})
	})

	return r
}
