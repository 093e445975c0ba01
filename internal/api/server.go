// Package api serves the FarmQuest entity operations over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alexanderramin/farmquest/internal/photostore"
	"github.com/alexanderramin/farmquest/internal/service"
)

// UserHeader carries the acting user's handle. There is no authentication;
// unknown handles are created on first use.
const UserHeader = "X-FarmQuest-User"

type pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the collaborators the server needs. Photos may be nil, in which
// case only URL proofs are accepted.
type Deps struct {
	Users       service.UserService
	Missions    service.MissionService
	Leaderboard service.LeaderboardService
	Photos      photostore.Store
	DB          pinger
	Logger      *slog.Logger
	Registry    *prometheus.Registry
}

type Options struct {
	AllowedOrigins []string
	RateLimit      float64
	RateBurst      int
	// TrustProxy takes client addresses from X-Forwarded-For.
	TrustProxy bool
}

type Server struct {
	deps    Deps
	limiter *ipLimiter
	handler http.Handler
}

func NewServer(deps Deps, opts Options) (*Server, error) {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}
	metrics, err := newHTTPMetrics(deps.Registry)
	if err != nil {
		return nil, fmt.Errorf("registering http metrics: %w", err)
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		deps:    deps,
		limiter: newIPLimiter(opts.RateLimit, opts.RateBurst, opts.TrustProxy),
	}

	r := mux.NewRouter()
	r.Use(requestLogger(deps.Logger, opts.TrustProxy))
	r.Use(s.limiter.middleware)
	r.Use(metrics.monitor)

	r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})).Methods("GET")
	r.HandleFunc("/health", s.health).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(s.identify)

	api.HandleFunc("/users/me", s.getMe).Methods("GET")
	api.HandleFunc("/users/me", s.updateMe).Methods("PUT")
	api.HandleFunc("/users", s.listUsers).Methods("GET")
	api.HandleFunc("/onboarding", s.onboard).Methods("POST")

	api.HandleFunc("/missions", s.listMissions).Methods("GET")
	api.HandleFunc("/missions/{id}", s.getMission).Methods("GET")
	api.HandleFunc("/missions/{id}/start", s.startMission).Methods("POST")
	api.HandleFunc("/missions/{id}/advance", s.advanceMission).Methods("POST")
	api.HandleFunc("/missions/{id}/retreat", s.retreatMission).Methods("POST")
	api.HandleFunc("/missions/{id}/proof", s.submitProof).Methods("POST")

	api.HandleFunc("/progress", s.listProgress).Methods("GET")
	api.HandleFunc("/daily-bonus", s.claimDailyBonus).Methods("POST")
	api.HandleFunc("/leaderboard", s.leaderboard).Methods("GET")

	cors := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(opts.AllowedOrigins),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", UserHeader}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
	)
	s.handler = cors(r)
	return s, nil
}

func (s *Server) Handler() http.Handler { return s.handler }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go s.limiter.cleanup(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.deps.Logger.Info("server_started", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.deps.Logger.Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if s.deps.DB != nil {
		if err := s.deps.DB.PingContext(ctx); err != nil {
			respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
			return
		}
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "farmquest"})
}

type sessionKey struct{}

// identify resolves the acting user from UserHeader and stores the session
// in the request context.
func (s *Server) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handle := r.Header.Get(UserHeader)
		if handle == "" {
			respondWithError(w, http.StatusUnauthorized, UserHeader+" header is required")
			return
		}
		u, err := s.deps.Users.EnsureUser(r.Context(), handle)
		if err != nil {
			s.respondErr(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey{}, service.NewSession(u.ID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(ctx context.Context) service.Session {
	sess, _ := ctx.Value(sessionKey{}).(service.Session)
	return sess
}
