package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/startpage/internal/config"
	"github.com/dgallion1/startpage/internal/gesture"
	"github.com/dgallion1/startpage/internal/pipeline"
	"github.com/dgallion1/startpage/internal/treestore"
)

// Server is the HTTP API for the start page.
type Server struct {
	router       chi.Router
	store        *treestore.Store
	resolver     *gesture.Resolver
	orchestrator *pipeline.Orchestrator
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(store *treestore.Store, resolver *gesture.Resolver, orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		store:        store,
		resolver:     resolver,
		orchestrator: orch,
		log:          log,
		cfg:          cfg,
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

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Get("/api/sections", s.handleGetSections)
		r.Post("/api/sections/{sectionID}/toggle", s.handleToggleSection)

		r.Post("/api/favorites", s.handleSaveFavorite)
		r.Post("/api/favorites/current", s.handleAddCurrent)

		r.Route("/api/items/{itemID}", func(r chi.Router) {
			r.Patch("/", s.handleRenameItem)
			r.Delete("/", s.handleDeleteItem)
			r.Post("/move", s.handleMoveItem)
			r.Post("/reorder", s.handleReorderItem)
			r.Post("/merge", s.handleMergeItem)
			r.Post("/activate", s.handleActivateItem)
		})

		r.Get("/api/view", s.handleGetView)
		r.Post("/api/view/folder", s.handleOpenFolder)
		r.Delete("/api/view/folder", s.handleCloseFolder)
		r.Post("/api/gesture", s.handleGesture)

		r.Post("/api/actions/clear-data", s.handleClearData)
		r.Get("/api/actions/clear-data/{jobID}", s.handleClearStatus)

		r.Get("/api/notice", s.handleGetNotice)
		r.Delete("/api/notice/{noticeID}", s.handleDismissNotice)

		r.Post("/api/import", s.handleImport)
		r.Get("/api/export", s.handleExport)

		r.Get("/api/stats/bridge", s.handleBridgeStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
