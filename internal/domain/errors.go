package domain

import (
	"errors"
	"fmt"
)

// Tipos de error de dominio (sin dependencias externas).
var (
	ErrInvalidArgument = errors.New("argumento inválido")
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrInvalidState    = errors.New("operación no permitida en el estado actual")
	ErrConflict        = errors.New("conflicto con registros dependientes")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrForbidden       = errors.New("acceso denegado")
	ErrDuplicate       = errors.New("recurso duplicado")
)

// Error lleva un mensaje presentable al usuario y, opcionalmente, un desglose
// (conteos, ids, montos) que explica el rechazo. errors.Is(err, Kind) es true.
type Error struct {
	Kind    error
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

// Invalid construye un ErrInvalidArgument con mensaje formateado.
func Invalid(format string, args ...any) *Error {
	return &Error{Kind: ErrInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// NotFound construye un ErrNotFound para la entidad indicada.
func NotFound(entity, id string) *Error {
	return &Error{
		Kind:    ErrNotFound,
		Message: fmt.Sprintf("%s introuvable", entity),
		Details: map[string]any{"entity": entity, "id": id},
	}
}

// State construye un ErrInvalidState con desglose opcional.
func State(message string, details map[string]any) *Error {
	return &Error{Kind: ErrInvalidState, Message: message, Details: details}
}

// Conflict construye un ErrConflict con desglose de las relaciones que bloquean.
func Conflict(message string, details map[string]any) *Error {
	return &Error{Kind: ErrConflict, Message: message, Details: details}
}

// DetailsOf devuelve el desglose de un *Error en la cadena, o nil.
func DetailsOf(err error) map[string]any {
	var de *Error
	if errors.As(err, &de) {
		return de.Details
	}
	return nil
}
