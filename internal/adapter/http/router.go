package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/peerledger/internal/adapter/http/handler"
	"github.com/iho/peerledger/internal/adapter/http/middleware"
	"github.com/iho/peerledger/internal/infrastructure/metrics"
	"github.com/iho/peerledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler     *handler.AccountHandler
	TransactionHandler *handler.TransactionHandler
	BoardHandler       *handler.BoardHandler
	CourseHandler      *handler.CourseHandler
	HealthHandler      *handler.HealthHandler
	IdempotencyStore   usecase.IdempotencyStore
	Metrics            *metrics.Metrics
	MetricsHandler     http.Handler
	Logger             zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware. StripSlashes lets clients use the trailing-slash
	// forms of every route.
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.StripSlashes)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}
	r.Use(middleware.Recovery)

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.Metrics)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Accounts
		r.Route("/users", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Delete("/{id}", cfg.AccountHandler.Delete)
		})

		// Transfers and transactions
		r.Post("/send", cfg.TransactionHandler.Send)
		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", cfg.TransactionHandler.Create)
			r.Get("/{id}", cfg.TransactionHandler.Get)
			r.Get("/{id}/audit", cfg.TransactionHandler.Audit)
			r.Post("/{id}", cfg.TransactionHandler.Resolve)
		})

		// Link board
		r.Route("/posts", func(r chi.Router) {
			r.Post("/", cfg.BoardHandler.CreatePost)
			r.Get("/", cfg.BoardHandler.ListPosts)
			r.Get("/{id}", cfg.BoardHandler.GetPost)
			r.Delete("/{id}", cfg.BoardHandler.DeletePost)
			r.Post("/{id}/upvote", cfg.BoardHandler.UpvotePost)
			r.Get("/{id}/comments", cfg.BoardHandler.ListComments)
			r.Post("/{id}/comments", cfg.BoardHandler.CreateComment)
			r.Post("/{id}/comments/{cid}", cfg.BoardHandler.EditComment)
		})

		// Course management
		r.Route("/courses", func(r chi.Router) {
			r.Post("/", cfg.CourseHandler.CreateCourse)
			r.Get("/", cfg.CourseHandler.ListCourses)
			r.Get("/{id}", cfg.CourseHandler.GetCourse)
			r.Delete("/{id}", cfg.CourseHandler.DeleteCourse)
			r.Post("/{id}/add", cfg.CourseHandler.AddUser)
			r.Post("/{id}/assignment", cfg.CourseHandler.CreateAssignment)
		})
		r.Route("/course-users", func(r chi.Router) {
			r.Post("/", cfg.CourseHandler.CreateUser)
			r.Get("/{id}", cfg.CourseHandler.GetUser)
		})
	})

	return r
}
