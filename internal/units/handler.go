package units

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Lelo88/inventory-api-golang/internal/httpx"
)

// ServiceAPI define lo que el handler necesita.
type ServiceAPI interface {
	List(ctx context.Context) ([]Unit, error)
	Get(ctx context.Context, id int64) (Unit, error)
}

// Handler HTTP para unidades de medida.
type Handler struct {
	service ServiceAPI
	logger  *zap.Logger
}

// NewHandler crea un handler de unidades. logger puede ser nil.
func NewHandler(service ServiceAPI, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// List maneja GET /units.
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	units, err := handler.service.List(request.Context())
	if err != nil {
		handler.logger.Error("list units", zap.Error(err))
		httpx.Fail(writer, request, http.StatusInternalServerError, "internal_error", "unexpected error")
		return
	}

	httpx.OK(writer, request, http.StatusOK, units)
}

// GetByID maneja GET /units/{id}.
func (handler *Handler) GetByID(writer http.ResponseWriter, request *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(request, "id"), 10, 64)
	if err != nil || id < 1 {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_id", "id must be a positive integer")
		return
	}

	unit, err := handler.service.Get(request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrorNotFound):
			httpx.Fail(writer, request, http.StatusNotFound, "not_found", "unit of measure not found")
		default:
			handler.logger.Error("get unit", zap.Int64("unit_id", id), zap.Error(err))
			httpx.Fail(writer, request, http.StatusInternalServerError, "internal_error", "unexpected error")
		}
		return
	}

	httpx.OK(writer, request, http.StatusOK, unit)
}
