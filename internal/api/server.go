package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dgallion1/flowguide/internal/catalog"
	"github.com/dgallion1/flowguide/internal/config"
	"github.com/dgallion1/flowguide/internal/mount"
	"github.com/dgallion1/flowguide/internal/render"
)

// ContainerID is the id of the element each flowchart page mounts into.
const ContainerID = "flowchart"

// Server is the HTTP server for flowguide.
type Server struct {
	router   chi.Router
	catalog  *catalog.Catalog
	loader   mount.Loader
	renderer *render.Renderer
	mounts   *mount.Store
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(cat *catalog.Catalog, loader mount.Loader, renderer *render.Renderer, mounts *mount.Store, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		catalog:  cat,
		loader:   loader,
		renderer: renderer,
		mounts:   mounts,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Pages.
	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleIndex)
	r.Get("/flowcharts/{name}", s.handleFlowchartPage)

	r.Route("/api", func(r chi.Router) {
		r.Get("/flowcharts", s.handleListFlowcharts)

		r.Post("/mounts", s.handleCreateMount)
		r.Route("/mounts/{mountID}", func(r chi.Router) {
			r.Get("/", s.handleGetMount)
			r.Delete("/", s.handleDeleteMount)
			r.Get("/fragment", s.handleMountFragment)
			r.Get("/text", s.handleMountText)
			r.Post("/nodes/{nodeID}/activate", s.handleActivate)
			r.Post("/toggle-all", s.handleToggleAll)
		})

		// Catalog admin. Open when no API key is configured.
		r.Group(func(r chi.Router) {
			if s.cfg.APIKey != "" {
				r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
			}
			r.Post("/catalog/reload", s.handleReloadCatalog)
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"flowcharts": s.catalog.Len(),
		"mounts":     s.mounts.Len(),
	})
}
