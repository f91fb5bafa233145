package ops

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flemzord/tgwire/internal/config"
)

// Server is the operational HTTP server. It binds to loopback by default and
// carries no authentication; anything it serves is already visible to a local
// operator.
type Server struct {
	cfg      config.OpsConfig
	logger   *slog.Logger
	feed     *Feed
	registry *prometheus.Registry

	version   string
	bot       string
	startedAt time.Time

	addr   string
	server *http.Server
}

// NewServer creates an ops server. registry may be nil, which disables the
// metrics endpoint; bot is the bot username shown in health output.
func NewServer(cfg config.OpsConfig, logger *slog.Logger, feed *Feed, registry *prometheus.Registry, version, bot string) *Server {
	return &Server{
		cfg:      cfg,
		logger:   logger,
		feed:     feed,
		registry: registry,
		version:  version,
		bot:      bot,
	}
}

// HealthResponse is the JSON response for GET /healthz.
type HealthResponse struct {
	Status        string `json:"status"`
	Bot           string `json:"bot,omitempty"`
	Version       string `json:"version,omitempty"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	UpdatesSeen   int64  `json:"updates_seen"`
	Subscribers   int    `json:"subscribers"`
}

// buildRouter constructs the chi mux with all routes wired.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth())
	if s.registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	r.Get("/updates/recent", s.handleRecent())
	r.Get("/ws", s.handleStream())

	return r
}

// handleHealth returns an http.HandlerFunc for GET /healthz.
func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := HealthResponse{
			Status:        "ok",
			Bot:           s.bot,
			Version:       s.version,
			UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
			UpdatesSeen:   s.feed.Published(),
			Subscribers:   s.feed.Subscribers(),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// handleRecent serves the newest updates from the in-memory ring, oldest
// first. ?limit caps the count (default 50).
func (s *Server) handleRecent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 50
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			limit = n
		}

		updates := s.feed.Recent(limit)
		w.Header().Set("Content-Type", "application/json")
		if updates == nil {
			_, _ = w.Write([]byte("[]\n"))
			return
		}
		_ = json.NewEncoder(w).Encode(updates)
	}
}

// Start begins serving in the background.
func (s *Server) Start() error {
	s.startedAt = time.Now()

	s.server = &http.Server{
		Addr:         s.cfg.Bind,
		Handler:      s.buildRouter(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp", s.cfg.Bind)
	if err != nil {
		return fmt.Errorf("ops: listen on %s: %w", s.cfg.Bind, err)
	}
	s.addr = ln.Addr().String()

	go func() {
		s.logger.Info("ops server listening", "addr", s.addr)
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("ops serve error", "error", err)
		}
	}()

	return nil
}

// Addr returns the bound address once Start has succeeded. Useful when the
// configured bind carries port 0.
func (s *Server) Addr() string {
	return s.addr
}

// Stop shuts the server down gracefully within the configured timeout.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("ops server shutting down")
	return s.server.Shutdown(shutdownCtx)
}
