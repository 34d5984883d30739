package server

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"hauler/internal"
	"hauler/internal/config"
	"hauler/internal/obs"
	"hauler/internal/storage"
)

type Server struct {
	db  *storage.DB
	cfg config.Config

	// mu serialises load-modify-save of the stored workspace.
	mu sync.Mutex
}

func New(db *storage.DB, cfg config.Config) *Server {
	return &Server{db: db, cfg: cfg}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(traceID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/extract", s.extract)

		r.Get("/session", s.getSession)
		r.Post("/session/import", s.importSession)

		r.Get("/route", s.getRoute)
		r.Post("/route", s.generateRoute)
		r.Put("/route/order", s.reorderRoute)
		r.Post("/route/stops/{stopID}/toggle", s.toggleStop)
		r.Put("/route/view", s.setViewMode)

		r.Post("/cargo/{location}/move", s.moveCargo)
	})

	return r
}

// traceID carries chi's request id into the obs timing logs.
func traceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := obs.WithTraceID(r.Context(), chimiddleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) defaults() storage.Defaults {
	return storage.Defaults{
		Theme: s.cfg.Theme,
		Grid:  internal.GridLayout{Cols: s.cfg.GridCols, Rows: s.cfg.GridRows},
	}
}

// withWorkspace loads the stored workspace, applies fn and saves it back
// when fn succeeds.
func (s *Server) withWorkspace(fn func(ws *storage.Workspace) error) (*storage.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, err := s.db.LoadWorkspace(s.defaults())
	if err != nil {
		return nil, err
	}
	if err := fn(ws); err != nil {
		return nil, err
	}
	if err := s.db.SaveWorkspace(ws); err != nil {
		return nil, err
	}
	return ws, nil
}

func (s *Server) readWorkspace() (*storage.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.LoadWorkspace(s.defaults())
}
