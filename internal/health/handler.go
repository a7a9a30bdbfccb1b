package health

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Lelo88/inventory-api-golang/internal/httpx"
)

const readyTimeout = 2 * time.Second

// Pinger es lo que /ready necesita de la base. Lo cumple *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler encapsula endpoints de health.
type Handler struct {
	database Pinger
	logger   *zap.Logger
}

// New crea un handler de health. database puede ser nil: /ready responde 503.
func New(database Pinger) *Handler {
	return &Handler{database: database, logger: zap.NewNop()}
}

// WithLogger devuelve el handler usando logger para reportar fallas de /ready.
func (handler *Handler) WithLogger(logger *zap.Logger) *Handler {
	if logger != nil {
		handler.logger = logger
	}
	return handler
}

// Health indica si el proceso está vivo.
// NO chequea base de datos. Eso va en /ready.
func (handler *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, r, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready indica si la app puede atender tráfico: la base tiene que responder un ping.
func (handler *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if handler.database == nil {
		httpx.Fail(w, r, http.StatusServiceUnavailable, "not_ready", "database pool not configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := handler.database.Ping(ctx); err != nil {
		handler.logger.Warn("readiness check failed", zap.Error(err))
		httpx.Fail(w, r, http.StatusServiceUnavailable, "not_ready", "database is not reachable")
		return
	}

	httpx.OK(w, r, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

// RegisterRoutes registra /health y /ready.
func RegisterRoutes(route chi.Router, handler *Handler) {
	route.Get("/health", handler.Health)
	route.Get("/ready", handler.Ready)
}
