package products

import (
	"errors"
	"strings"
)

// Errores de dominio (no HTTP). El handler los traduce a status codes.
var (
	ErrorInvalidInput     = errors.New("invalid input")
	ErrorDuplicateName    = errors.New("product name already exists")
	ErrorDuplicateBarcode = errors.New("product barcode already exists")
	ErrorUnknownUnit      = errors.New("unit of measure does not exist")
	ErrorNotFound         = errors.New("product not found")
)

// ValidationError lista todas las reglas violadas por un payload.
// errors.Is(err, ErrorInvalidInput) es true para cualquier ValidationError.
type ValidationError struct {
	Violations []string
}

func (validationError *ValidationError) Error() string {
	return "invalid input: " + strings.Join(validationError.Violations, "; ")
}

func (validationError *ValidationError) Unwrap() error {
	return ErrorInvalidInput
}

// violations acumula reglas rotas y devuelve nil si no hubo ninguna.
type violations []string

func (list *violations) add(message string) {
	*list = append(*list, message)
}

func (list violations) err() error {
	if len(list) == 0 {
		return nil
	}
	return &ValidationError{Violations: list}
}
