// Package server exposes the metrics registry over HTTP while races run.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/agbru/racecoord/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Server serves /metrics and /healthz.
type Server struct {
	httpServer *http.Server
	metrics    http.Handler
	logger     logging.Logger
}

// New builds a server listening on addr. metrics is typically
// metrics.PrometheusRecorder.Handler().
func New(addr string, metrics http.Handler, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Server{metrics: metrics, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", SecurityMiddleware(DefaultSecurityConfig(), s.handleMetrics))
	mux.HandleFunc("/healthz", SecurityMiddleware(DefaultSecurityConfig(), s.handleHealth))

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
	return s
}

// Start listens in the background and shuts down when ctx is done. The
// returned channel yields the serve error, if any, and is then closed.
func (s *Server) Start(ctx context.Context) (<-chan error, error) {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return nil, err
	}
	s.logger.Info("metrics server listening", logging.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("metrics server shutdown", err)
		}
	}()
	return errCh, nil
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		s.logger.Debug("rejected metrics request", logging.String("method", r.Method))
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.metrics.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}
