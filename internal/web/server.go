package web

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hpungsan/tinynotes/internal/config"
	"github.com/hpungsan/tinynotes/internal/idempotency"
	"github.com/hpungsan/tinynotes/internal/metrics"
	"github.com/hpungsan/tinynotes/internal/ratelimit"
)

//go:embed templates/*.html
var templateFS embed.FS

// NewServer creates and configures the HTTP server for the notes API.
// The limiter, idempotency store, and metrics recorder are constructed here,
// once per process, and shared by every route through the request pipeline.
func NewServer(database *sql.DB, cfg *config.Config, version, bind string, port int) *http.Server {
	// Create sub-FS for templates (strip "templates/" prefix)
	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		log.Fatalf("failed to create template sub-FS: %v", err)
	}

	renderer := NewRenderer(templateSub, version)

	h := &Handlers{
		db:       database,
		cfg:      cfg,
		idem:     idempotency.NewStore(),
		metrics:  metrics.NewRecorder(cfg.MetricsWindow),
		renderer: renderer,
	}

	pipeline := NewPipeline(
		ratelimit.NewLimiter(cfg.RateLimitPerSec, cfg.RateLimitBurst),
		h.metrics,
		cfg.DefaultAPIKey,
	)

	// Wrap with security headers
	handler := securityHeaders(newMux(h, pipeline))

	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", bind, port),
		Handler: handler,
	}
}

// newMux registers all routes through the pipeline. Each route's metric
// series is named by its template ("POST /notes", not the resolved path), so
// samples aggregate across instances of the same endpoint.
func newMux(h *Handlers, p *Pipeline) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET /{$}", p.Wrap("GET /", h.HandleIndex))
	mux.Handle("GET /healthz", p.Wrap("GET /healthz", h.HandleHealthz))
	mux.Handle("POST /notes", p.Wrap("POST /notes", h.HandleCreateNote))
	mux.Handle("GET /notes", p.Wrap("GET /notes", h.HandleListNotes))
	mux.Handle("GET /metrics", p.Wrap("GET /metrics", h.HandleMetrics))

	return mux
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Printf("TinyNotes API running at http://%s", srv.Addr)

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		log.Printf("WARNING: Server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
