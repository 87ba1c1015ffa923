// Package server serves the budget categories over HTTP at GET /budget.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/theirongolddev/budgetview/internal/model"
	"github.com/theirongolddev/budgetview/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"
)

// DefaultAddr matches budgetapi.DefaultBaseURL.
const DefaultAddr = "127.0.0.1:4000"

// Repository is the category storage the server reads and edits.
type Repository interface {
	Slices(ctx context.Context) ([]model.BudgetSlice, error)
	Count(ctx context.Context) (int, error)
	Add(ctx context.Context, slice model.BudgetSlice) (store.Entry, error)
	SetBudget(ctx context.Context, title string, budget float64) error
	Delete(ctx context.Context, title string) error
}

// Config controls the server runtime.
type Config struct {
	Addr   string
	Logger *slog.Logger
	// ReadOnly disables the write endpoints.
	ReadOnly bool
}

// BudgetResponse is the body of GET /budget.
type BudgetResponse struct {
	MyBudget []model.BudgetSlice `json:"myBudget"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt  time.Time `json:"started_at"`
	Addr       string    `json:"addr"`
	Requests   int64     `json:"requests"`
	Categories int       `json:"categories"`
	ReadOnly   bool      `json:"read_only"`
	LastError  string    `json:"last_error,omitempty"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Server is the budget HTTP API.
type Server struct {
	cfg       Config
	repo      Repository
	logger    *slog.Logger
	startedAt time.Time
	requests  atomic.Int64

	mu        sync.RWMutex
	addr      string
	lastError string
}

// New returns a server backed by repo.
func New(cfg Config, repo Repository) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		cfg:       cfg,
		repo:      repo,
		logger:    logger,
		startedAt: time.Now(),
		addr:      cfg.Addr,
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		requestID,
		s.logRequests,
		middleware.Recoverer,
		corsHandler(),
	)

	r.Get("/healthz", s.handleHealth)
	r.Get("/v1/status", s.handleStatus)
	r.Get("/budget", s.handleBudget)
	r.Group(func(r chi.Router) {
		if s.cfg.ReadOnly {
			r.Use(s.rejectWrites)
		}
		r.Post("/budget", s.handleAdd)
		r.Put("/budget/{title}", s.handleSet)
		r.Delete("/budget/{title}", s.handleDelete)
	})
	return r
}

// Run listens on the configured address and serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.addr = ln.Addr().String()
	s.mu.Unlock()
	s.logger.Info("starting budget server", "addr", "http://"+ln.Addr().String())

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 5 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down budget server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Addr returns the address the server is bound to.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	n, err := s.repo.Count(r.Context())
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}

	s.mu.RLock()
	st := Status{
		StartedAt:  s.startedAt,
		Addr:       s.addr,
		Requests:   s.requests.Load(),
		Categories: n,
		ReadOnly:   s.cfg.ReadOnly,
		LastError:  s.lastError,
	}
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	slices, err := s.repo.Slices(r.Context())
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	if slices == nil {
		slices = []model.BudgetSlice{}
	}
	writeJSON(w, http.StatusOK, BudgetResponse{MyBudget: slices})
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	var in model.BudgetSlice
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&in); err != nil {
		s.fail(w, r, http.StatusBadRequest, fmt.Errorf("decoding body: %w", err))
		return
	}
	e, err := s.repo.Add(r.Context(), in)
	if err != nil {
		s.fail(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, e.Slice())
}

func (s *Server) handleSet(w http.ResponseWriter, r *http.Request) {
	title, err := url.PathUnescape(chi.URLParam(r, "title"))
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	var in struct {
		Budget *float64 `json:"budget"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&in); err != nil || in.Budget == nil {
		s.fail(w, r, http.StatusBadRequest, errors.New("body must be {\"budget\": <number>}"))
		return
	}
	if err := s.repo.SetBudget(r.Context(), title, *in.Budget); err != nil {
		s.fail(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, model.BudgetSlice{Title: title, Budget: *in.Budget})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	title, err := url.PathUnescape(chi.URLParam(r, "title"))
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	if err := s.repo.Delete(r.Context(), title); err != nil {
		s.fail(w, r, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, store.ErrEmptyTitle), errors.Is(err, model.ErrInvalidSlice):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.mu.Lock()
		s.lastError = err.Error()
		s.mu.Unlock()
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorBody{Error: strings.TrimPrefix(err.Error(), "store: ")})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
