package products

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Lelo88/inventory-api-golang/internal/httpx"
)

// ServiceAPI define lo que el handler necesita.
// Permite testear handlers con stubs sin tocar DB.
type ServiceAPI interface {
	List(ctx context.Context) ([]Product, error)
	ListDetailed(ctx context.Context) ([]ProductDetail, error)
	Get(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, input ProductInput) (Product, error)
	Update(ctx context.Context, id int64, input ProductInput) (Product, error)
	Delete(ctx context.Context, id int64) error
	DeleteByName(ctx context.Context, name string) error
	CreateServiceItem(ctx context.Context, input ServiceItemInput) (Product, error)
	UpdateServiceItem(ctx context.Context, id int64, input ServiceItemInput) (Product, error)
}

// Handler HTTP para productos y servicios.
// Solo traduce HTTP <-> dominio (service).
type Handler struct {
	service ServiceAPI
	logger  *zap.Logger
}

// NewHandler crea un handler de productos. logger puede ser nil.
func NewHandler(service ServiceAPI, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// List maneja GET /products.
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	products, err := handler.service.List(request.Context())
	if err != nil {
		handler.fail(writer, request, err, "list products")
		return
	}

	httpx.OK(writer, request, http.StatusOK, products)
}

// ListDetailed maneja GET /products/detailed.
func (handler *Handler) ListDetailed(writer http.ResponseWriter, request *http.Request) {
	details, err := handler.service.ListDetailed(request.Context())
	if err != nil {
		handler.fail(writer, request, err, "list detailed products")
		return
	}

	httpx.OK(writer, request, http.StatusOK, details)
}

// GetByID maneja GET /products/{id}.
func (handler *Handler) GetByID(writer http.ResponseWriter, request *http.Request) {
	id, ok := parseID(writer, request)
	if !ok {
		return
	}

	product, err := handler.service.Get(request.Context(), id)
	if err != nil {
		handler.fail(writer, request, err, "get product", zap.Int64("product_id", id))
		return
	}

	httpx.OK(writer, request, http.StatusOK, product)
}

// Create maneja POST /products.
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	var input ProductInput
	if !decodeBody(writer, request, &input) {
		return
	}

	product, err := handler.service.Create(request.Context(), input)
	if err != nil {
		handler.fail(writer, request, err, "create product")
		return
	}

	created(writer, request, product)
}

// Update maneja PUT /products/{id}.
func (handler *Handler) Update(writer http.ResponseWriter, request *http.Request) {
	id, ok := parseID(writer, request)
	if !ok {
		return
	}

	var input ProductInput
	if !decodeBody(writer, request, &input) {
		return
	}

	product, err := handler.service.Update(request.Context(), id, input)
	if err != nil {
		handler.fail(writer, request, err, "update product", zap.Int64("product_id", id))
		return
	}

	httpx.OK(writer, request, http.StatusOK, product)
}

// Delete maneja DELETE /products/{id}.
func (handler *Handler) Delete(writer http.ResponseWriter, request *http.Request) {
	id, ok := parseID(writer, request)
	if !ok {
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		handler.fail(writer, request, err, "delete product", zap.Int64("product_id", id))
		return
	}

	httpx.NoContent(writer)
}

// DeleteByName maneja DELETE /products?name= (y el alias DELETE /products/name?name=).
// El service valida que el nombre no esté vacío.
func (handler *Handler) DeleteByName(writer http.ResponseWriter, request *http.Request) {
	name := request.URL.Query().Get("name")

	if err := handler.service.DeleteByName(request.Context(), name); err != nil {
		handler.fail(writer, request, err, "delete product by name", zap.String("name", name))
		return
	}

	httpx.NoContent(writer)
}

// CreateServiceItem maneja POST /services (y el alias POST /products/services).
func (handler *Handler) CreateServiceItem(writer http.ResponseWriter, request *http.Request) {
	var input ServiceItemInput
	if !decodeBody(writer, request, &input) {
		return
	}

	item, err := handler.service.CreateServiceItem(request.Context(), input)
	if err != nil {
		handler.fail(writer, request, err, "create service item")
		return
	}

	created(writer, request, item)
}

// UpdateServiceItem maneja PUT /services/{id}.
func (handler *Handler) UpdateServiceItem(writer http.ResponseWriter, request *http.Request) {
	id, ok := parseID(writer, request)
	if !ok {
		return
	}

	var input ServiceItemInput
	if !decodeBody(writer, request, &input) {
		return
	}

	item, err := handler.service.UpdateServiceItem(request.Context(), id, input)
	if err != nil {
		handler.fail(writer, request, err, "update service item", zap.Int64("product_id", id))
		return
	}

	httpx.OK(writer, request, http.StatusOK, item)
}

// fail traduce errores de dominio a HTTP. Lo inesperado se loguea y se responde 500 sin detalles.
func (handler *Handler) fail(writer http.ResponseWriter, request *http.Request, err error, operation string, fields ...zap.Field) {
	var validationError *ValidationError

	switch {
	case errors.As(err, &validationError):
		httpx.FailWithDetails(writer, request, http.StatusBadRequest, "invalid_input", "invalid input data", validationError.Violations)
	case errors.Is(err, ErrorInvalidInput):
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_input", "invalid input data")
	case errors.Is(err, ErrorDuplicateName):
		httpx.Fail(writer, request, http.StatusBadRequest, "duplicate_name", "product name already exists")
	case errors.Is(err, ErrorDuplicateBarcode):
		httpx.Fail(writer, request, http.StatusBadRequest, "duplicate_barcode", "product barcode already exists")
	case errors.Is(err, ErrorUnknownUnit):
		httpx.Fail(writer, request, http.StatusBadRequest, "unknown_unit", "unit of measure does not exist")
	case errors.Is(err, ErrorNotFound):
		httpx.Fail(writer, request, http.StatusNotFound, "not_found", "product not found")
	default:
		// No filtramos detalles internos.
		handler.logger.Error(operation, append(fields, zap.Error(err))...)
		httpx.Fail(writer, request, http.StatusInternalServerError, "internal_error", "unexpected error")
	}
}

func parseID(writer http.ResponseWriter, request *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(request, "id"), 10, 64)
	if err != nil || id < 1 {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_id", "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func decodeBody(writer http.ResponseWriter, request *http.Request, target any) bool {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_json", "invalid JSON body")
		return false
	}
	return true
}

// created responde 201 con Location apuntando al recurso nuevo.
// Productos y servicios viven en la misma tabla, así que ambos se leen por /products/{id}.
func created(writer http.ResponseWriter, request *http.Request, product Product) {
	writer.Header().Set("Location", "/products/"+strconv.FormatInt(product.ID, 10))
	httpx.OK(writer, request, http.StatusCreated, product)
}
