package httpx

import (
	"encoding/json"
	"net/http"
	"time"
)

// Response es el sobre de todas las respuestas con cuerpo de la API de inventario.
// Éxito: data + meta. Falla: error + meta.
type Response struct {
	Data  any        `json:"data,omitempty"`
	Error *ErrorBody `json:"error,omitempty"`
	Meta  *Meta      `json:"meta,omitempty"`
}

// Meta viaja en toda respuesta armada con OK o Fail.
type Meta struct {
	RequestID string `json:"request_id,omitempty"`
	TimeUTC   string `json:"time_utc,omitempty"`
}

// ErrorBody describe la falla. Code es estable (invalid_input, duplicate_name,
// not_found, rate_limited, ...); Message es para humanos y nunca trae SQL.
type ErrorBody struct {
	Code    string   `json:"code,omitempty"`
	Message string   `json:"message,omitempty"`
	Details []string `json:"details,omitempty"` // reglas violadas, solo en invalid_input
}

const fallbackBody = `{"error":{"code":"internal_error","message":"internal server error"}}`

// JSON serializa resp con el status dado.
// Si resp no se puede serializar, el cuerpo se reemplaza por un internal_error fijo.
func JSON(w http.ResponseWriter, status int, resp Response) {
	body, err := json.Marshal(resp)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(fallbackBody + "\n"))
		return
	}

	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// OK responde data dentro del sobre.
func OK(w http.ResponseWriter, r *http.Request, status int, data any) {
	JSON(w, status, Response{Data: data, Meta: newMeta(r)})
}

// Fail responde un error sin detalles.
func Fail(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	FailWithDetails(w, r, status, code, message, nil)
}

// FailWithDetails responde un error con la lista de reglas violadas.
func FailWithDetails(w http.ResponseWriter, r *http.Request, status int, code, message string, details []string) {
	JSON(w, status, Response{
		Error: &ErrorBody{Code: code, Message: message, Details: details},
		Meta:  newMeta(r),
	})
}

// NoContent responde 204 sin cuerpo (borrados).
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func newMeta(r *http.Request) *Meta {
	return &Meta{
		RequestID: RequestIDFrom(r),
		TimeUTC:   time.Now().UTC().Format(time.RFC3339),
	}
}
