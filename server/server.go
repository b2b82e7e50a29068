// Package server exposes the regression engine over HTTP.
//
// Routes:
//
//	GET  /healthz          liveness probe
//	POST /fit              plate in, regression JSON out
//	POST /fit/curve.png    plate in, standard curve PNG out
//	POST /fit/report.csv   plate in, report tables as CSV out
//
// Every POST route takes the plate as the request body, either as bare JSON
// or as a plate file image. Validation failures answer 422 with the failure
// kind and an operator message; malformed bodies answer 400.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/arloliu/elisa/internal/options"
	"github.com/arloliu/elisa/regression"
)

// DefaultMaxBodyBytes bounds the size of a request body.
const DefaultMaxBodyBytes = 8 << 20

// MaxIterations caps the iterations query parameter.
const MaxIterations = 10 * regression.DefaultIterations

const shutdownTimeout = 10 * time.Second

// Config holds the server settings.
type Config struct {
	Logger *slog.Logger
	// FitOptions are applied to every fit before any per-request overrides.
	FitOptions   []regression.FitOption
	MaxBodyBytes int64
}

// Option is a functional option for Config.
type Option = options.Option[*Config]

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return options.New(func(cfg *Config) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		cfg.Logger = logger

		return nil
	})
}

// WithFitOptions appends fit options used by every request.
func WithFitOptions(opts ...regression.FitOption) Option {
	return options.NoError(func(cfg *Config) {
		cfg.FitOptions = append(cfg.FitOptions, opts...)
	})
}

// WithMaxBodyBytes bounds the request body size.
func WithMaxBodyBytes(n int64) Option {
	return options.New(func(cfg *Config) error {
		if n <= 0 {
			return fmt.Errorf("max body bytes must be positive, got %d", n)
		}
		cfg.MaxBodyBytes = n

		return nil
	})
}

// Server is an http.Handler serving the fit routes. It is safe for
// concurrent use; every request fits its own plate.
type Server struct {
	cfg    Config
	router *mux.Router
}

// New builds a Server.
func New(opts ...Option) (*Server, error) {
	cfg := Config{Logger: slog.Default(), MaxBodyBytes: DefaultMaxBodyBytes}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	s := &Server{cfg: cfg, router: mux.NewRouter()}
	s.routes()

	return s, nil
}

func (s *Server) routes() {
	s.router.Use(s.logRequests)

	GET := s.router.Methods(http.MethodGet, http.MethodHead).Subrouter()
	POST := s.router.Methods(http.MethodPost).Subrouter()

	GET.HandleFunc("/healthz", s.health).Name("healthz")

	POST.HandleFunc("/fit", s.fit).Name("fit")
	POST.HandleFunc("/fit/curve.png", s.curve).Name("curve")
	POST.HandleFunc("/fit/report.csv", s.reportCSV).Name("report")
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n

	return n, err
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}

		route := ""
		if cur := mux.CurrentRoute(r); cur != nil {
			route = cur.GetName()
		}
		s.cfg.Logger.LogAttrs(r.Context(), slog.LevelInfo, "request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("route", route),
			slog.Int("status", rec.status),
			slog.Int("bytes", rec.bytes),
			slog.Duration("elapsed", time.Since(start)),
		)
	})
}
