// Package httpx junta los helpers de respuesta que antes se duplicaban en cada handler.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"peluqueria-canina/internal/platform/apperr"
	"peluqueria-canina/internal/platform/logger"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// DecodeJSON rechaza campos desconocidos; el error ya viene como validación.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.Validation("", "invalid json")
	}
	return nil
}

// Status traduce un error de dominio a código HTTP.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case apperr.IsValidation(err):
		return http.StatusBadRequest
	case apperr.IsNotFound(err):
		return http.StatusNotFound
	case apperr.IsConflict(err):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// WriteError escribe texto plano como http.Error. Los 500 no exponen detalle
// y se loguean con el logger del request.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed", map[string]any{
			"error":  err,
			"method": r.Method,
			"path":   r.URL.Path,
		})
		http.Error(w, "internal error", status)
		return
	}
	http.Error(w, err.Error(), status)
}

// QueryTime parsea un parámetro RFC3339 o YYYY-MM-DD (en loc). Vacío => nil.
func QueryTime(r *http.Request, key string, loc *time.Location) (*time.Time, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation("2006-01-02", v, loc)
	if err != nil {
		return nil, apperr.Validation(key, "must be RFC3339 or YYYY-MM-DD")
	}
	return &t, nil
}

// QueryEndTime es QueryTime para el límite superior exclusivo de un rango:
// una fecha sola (YYYY-MM-DD) incluye el día entero, o sea devuelve la medianoche siguiente.
func QueryEndTime(r *http.Request, key string, loc *time.Location) (*time.Time, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation("2006-01-02", v, loc)
	if err != nil {
		return nil, apperr.Validation(key, "must be RFC3339 or YYYY-MM-DD")
	}
	next := t.AddDate(0, 0, 1)
	return &next, nil
}

// QueryBool acepta 1/true/yes.
func QueryBool(r *http.Request, key string) bool {
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get(key))) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// QueryLimit devuelve el límite pedido acotado a [1, max]; def si no viene.
func QueryLimit(r *http.Request, def, max int) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
