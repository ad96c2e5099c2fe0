package backend

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jhoicas/inventario-consola/internal/domain"
)

// StatusError respuesta no exitosa del backend. Se compara con los errores de
// dominio mediante errors.Is.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend: %s %s: HTTP %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// Is traduce el código HTTP al error de dominio equivalente.
func (e *StatusError) Is(target error) bool {
	switch target {
	case domain.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case domain.ErrForbidden:
		return e.Status == http.StatusForbidden
	case domain.ErrNotFound:
		return e.Status == http.StatusNotFound
	case domain.ErrInvalidInput:
		return e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity
	case domain.ErrConflict:
		return e.Status == http.StatusConflict
	case domain.ErrBackendUnavailable:
		return e.Status >= http.StatusInternalServerError
	}
	return false
}

// clientError indica un 4xx: el backend respondió, el breaker no lo cuenta como fallo.
func clientError(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status >= 400 && se.Status < 500
}
