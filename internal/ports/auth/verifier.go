package auth

import (
	"errors"
	"net/http"
)

// ErrNoSession: el request no trae sesión válida.
var ErrNoSession = errors.New("no session")

// AuthVerifier resuelve la identidad de un request (cookie de sesión, etc).
type AuthVerifier interface {
	Verify(r *http.Request) (Claims, error)
}
