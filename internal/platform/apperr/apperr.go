// Package apperr define la taxonomía de errores que cruza dominio y transporte.
//
// Los handlers sólo necesitan errors.Is contra los tres sentinels para decidir
// el status HTTP; el mensaje legible viaja en ValidationError / ConflictError.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")

	// ErrInvalidCredentials: usuario inexistente o password incorrecta (no distinguimos).
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError: input mal formado o fuera de rango.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func Validation(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// ConflictError: la operación choca con el estado actual (p.ej. turno superpuesto).
type ConflictError struct {
	Message string
	// IDs en conflicto, si aplica.
	With []string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Unwrap() error { return ErrConflict }

func Conflict(msg string, with ...string) error {
	return &ConflictError{Message: msg, With: with}
}

// NotFound envuelve ErrNotFound con el recurso buscado.
func NotFound(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }
func IsConflict(err error) bool   { return errors.Is(err, ErrConflict) }
func IsNotFound(err error) bool   { return errors.Is(err, ErrNotFound) }
