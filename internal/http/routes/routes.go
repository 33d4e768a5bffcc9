package routes

import (
	"context"
	"encoding/json"
	"net/http"

	scs "github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"github.com/briangreenhill/partsgpt/internal/auth"
	"github.com/briangreenhill/partsgpt/internal/db"
	"github.com/briangreenhill/partsgpt/internal/history"
	appmw "github.com/briangreenhill/partsgpt/internal/http/middleware"
	"github.com/briangreenhill/partsgpt/internal/search"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// Store is the subset of *db.Queries the handlers use.
type Store interface {
	CreateUser(ctx context.Context, arg db.CreateUserParams) (db.User, error)
	GetUserByLogin(ctx context.Context, username string) (db.User, error)
	UserExists(ctx context.Context, arg db.UserExistsParams) (bool, error)
	ListSearchHistory(ctx context.Context, arg db.ListSearchHistoryParams) ([]db.SearchHistory, error)
	UpsertSearchHistory(ctx context.Context, arg db.UpsertSearchHistoryParams) error
	ClearSearchHistory(ctx context.Context, userID uuid.UUID) error
	ListParts(ctx context.Context) ([]db.Part, error)
}

// Searcher runs part searches.
type Searcher interface {
	Search(ctx context.Context, userID, query string) (*search.Result, error)
}

type Server struct {
	Router  *chi.Mux
	Sess    *scs.SessionManager
	Store   Store
	Tokens  auth.Tokens
	Search  Searcher
	History history.Recorder // after successful searches
}

type ServerOptions struct {
	Sess     *scs.SessionManager
	Store    Store
	Tokens   auth.Tokens
	Search   Searcher
	Recorder history.Recorder // defaults to writing through Store
	Metrics  http.Handler     // nil disables /metrics
	Static   string           // directory served at /, empty disables
}

func New(opts ServerOptions) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	if opts.Sess != nil {
		r.Use(opts.Sess.LoadAndSave)
	}

	s := &Server{
		Router:  r,
		Sess:    opts.Sess,
		Store:   opts.Store,
		Tokens:  opts.Tokens,
		Search:  opts.Search,
		History: opts.Recorder,
	}
	if s.History == nil {
		s.History = history.StoreRecorder{Q: opts.Store}
	}

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, map[string]any{"ok": true, "msg": "Servidor rodando"})
	})
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics)
	}

	r.Post("/api/auth/register", s.handleRegister)
	r.Post("/api/auth/login", s.handleLogin)
	r.Post("/api/auth/logout", s.handleLogout)
	r.Get("/api/pecas", s.handleListParts)

	r.Group(func(pr chi.Router) {
		pr.Use(appmw.RequireAuth(s.Tokens, s.Sess))
		pr.Post("/api/pecas/buscar", s.handleSearch)
		pr.Get("/api/historico", s.handleListHistory)
		pr.Post("/api/historico", s.handleAddHistory)
		pr.Delete("/api/historico", s.handleClearHistory)
	})

	if opts.Static != "" {
		r.Handle("/*", http.FileServer(http.Dir(opts.Static)))
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("write response failed")
	}
}

func fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]any{"ok": false, "msg": msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		hlog.FromRequest(r).Debug().Err(err).Msg("bad request body")
		fail(w, r, http.StatusBadRequest, "Corpo da requisição inválido")
		return false
	}
	return true
}
