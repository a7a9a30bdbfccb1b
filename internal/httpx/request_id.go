package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// RequestIDHeader es el header por el que entra y sale el request id.
const RequestIDHeader = "X-Request-Id"

// RequestID reutiliza el X-Request-Id del cliente o genera un UUID nuevo.
// Se guarda bajo la misma key de contexto que usa chi, así middleware.GetReqID sigue funcionando.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requestID := strings.TrimSpace(request.Header.Get(RequestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}

		writer.Header().Set(RequestIDHeader, requestID)
		ctx := context.WithValue(request.Context(), middleware.RequestIDKey, requestID)
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// RequestIDFrom lee el request id del contexto y, si no está, del header.
func RequestIDFrom(request *http.Request) string {
	if request == nil {
		return ""
	}
	if requestID := middleware.GetReqID(request.Context()); requestID != "" {
		return requestID
	}
	return request.Header.Get(RequestIDHeader)
}
