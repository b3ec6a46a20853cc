// Package serve exposes the keyer over HTTP and WebSocket.
//
// Routes:
//
//	POST /api/keys    JSON array in, {"keys": [...]} out
//	GET  /api/health  liveness
//	GET  /ws          one JSON array per message, one reply per message
//	GET  /metrics     Prometheus
package serve

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/DarlingtonDeveloper/listkey/config"
	"github.com/DarlingtonDeveloper/listkey/keyer"
)

// maxBody caps request bodies and WebSocket messages.
const maxBody = 8 << 20

const shutdownTimeout = 5 * time.Second

// Server serves key requests. Every request and every WebSocket message
// is keyed in its own pass.
type Server struct {
	keyer    *keyer.Keyer
	log      *zap.Logger
	token    string
	port     int
	metrics  *metrics
	upgrader websocket.Upgrader
}

// New creates a Server from cfg. A nil log disables logging.
func New(cfg *config.Config, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	m := newMetrics()
	k, err := cfg.NewKeyer(log, keyer.WithKeyHook(m.observeKey))
	if err != nil {
		return nil, err
	}
	return &Server{
		keyer:   k,
		log:     log,
		token:   cfg.Server.AuthToken,
		port:    cfg.Server.Port,
		metrics: m,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}, nil
}

// Routes returns the HTTP handler with all routes.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/keys", s.instrument("keys", s.requireAuth(http.HandlerFunc(s.handleKeys))))
	mux.Handle("/api/health", s.instrument("health", http.HandlerFunc(s.handleHealth)))
	mux.Handle("/ws", s.requireAuth(http.HandlerFunc(s.handleWebSocket)))
	mux.Handle("/metrics", s.metrics.handler())
	return mux
}

// Run listens on the configured port until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+strconv.Itoa(s.port))
	if err != nil {
		return fmt.Errorf("failed to listen on :%d: %w", s.port, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("[serve] listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("[serve] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
