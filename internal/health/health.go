package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/vitals-bot/internal/adapters/database"
	"github.com/selivandex/vitals-bot/pkg/logger"
)

// Server provides health check HTTP endpoints
type Server struct {
	server    *http.Server
	db        *database.DB
	startTime time.Time
}

// Status represents system health
type Status struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// NewServer creates new health check server
func NewServer(port string, db *database.DB) *Server {
	mux := http.NewServeMux()

	s := &Server{
		server: &http.Server{
			Addr:              ":" + port,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		db:        db,
		startTime: time.Now(),
	}

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	return s
}

// Start runs the HTTP server until the context is cancelled
func (s *Server) Start(ctx context.Context) {
	go func() {
		logger.Info("health server started", zap.String("addr", s.server.Addr))
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			logger.Error("health server shutdown failed", zap.Error(err))
		}
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := Status{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
	}

	s.writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	code := http.StatusOK
	overall := "ok"

	if err := s.db.Health(); err != nil {
		checks["database"] = err.Error()
		code = http.StatusServiceUnavailable
		overall = "degraded"
	} else {
		checks["database"] = "ok"
	}

	status := Status{
		Status:    overall,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Checks:    checks,
	}

	s.writeJSON(w, code, status)
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode health response", zap.Error(err))
	}
}
