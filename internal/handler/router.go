package handler

import (
	"net/http"

	"ucsboard/internal/logging"
	"ucsboard/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RouterConfig holds the collaborators mounted by NewRouter
type RouterConfig struct {
	Handler        *WorkspaceHandler
	Events         http.Handler
	Metrics        *metrics.Collector
	Logger         *zap.Logger
	AllowedOrigins []string
}

// NewRouter builds the HTTP routing tree
func NewRouter(cfg RouterConfig) http.Handler {
	h := cfg.Handler
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logging.OrNop(cfg.Logger)))
	r.Use(middleware.Recoverer)
	r.Use(Instrument(cfg.Metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health)
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}
	if cfg.Events != nil {
		r.Handle("/events", cfg.Events)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/workspace", h.GetWorkspace)
		r.Delete("/workspace", h.ClearWorkspace)

		r.Post("/edges", h.AddEdge)
		r.Put("/selection/mode", h.SetMode)
		r.Post("/nodes/{id}/click", h.ClickNode)

		r.Post("/history/undo", h.Undo)
		r.Post("/history/redo", h.Redo)

		r.Get("/tree", h.GetTree)

		r.Post("/search", h.Search)
		r.Route("/replay", func(r chi.Router) {
			r.Get("/", h.GetReplay)
			r.Post("/advance", h.ReplayAdvance)
			r.Post("/retreat", h.ReplayRetreat)
			r.Post("/reset", h.ReplayReset)
		})

		r.Get("/export", h.Export)
		r.Post("/import", h.Import)

		r.Route("/trees", func(r chi.Router) {
			r.Get("/", h.ListTrees)
			r.Put("/{name}", h.SaveTree)
			r.Post("/{name}/load", h.LoadTree)
			r.Delete("/{name}", h.DeleteTree)
		})
	})

	return r
}
