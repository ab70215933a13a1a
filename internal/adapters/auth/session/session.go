// Package session implementa login por cookie firmada (gorilla/sessions) y
// auth.AuthVerifier sobre esa cookie.
package session

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/pkg/errors"

	"peluqueria-canina/internal/domain/users"
	"peluqueria-canina/internal/platform/apperr"
	"peluqueria-canina/internal/ports/auth"
)

const (
	cookieName = "peluqueria_session"
	keyUserID  = "uid"
)

// UserLookup relee el usuario en cada request: un usuario borrado o con rol
// cambiado pierde acceso sin esperar a que venza la cookie.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (users.User, error)
}

type Options struct {
	Secret string
	Secure bool
	// MaxAge en segundos; 0 usa 12h.
	MaxAge int
}

type Manager struct {
	store *sessions.CookieStore
	users UserLookup
}

func NewManager(lookup UserLookup, opts Options) *Manager {
	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = 12 * 60 * 60
	}
	store := sessions.NewCookieStore([]byte(opts.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store, users: lookup}
}

var (
	_ auth.AuthVerifier = (*Manager)(nil)
	_ users.Sessions    = (*Manager)(nil)
)

func (m *Manager) Start(w http.ResponseWriter, r *http.Request, u users.User) error {
	// Un error de decode (cookie vieja/firmada con otra clave) igual devuelve sesión nueva.
	s, _ := m.store.Get(r, cookieName)
	s.Values[keyUserID] = u.ID
	return errors.Wrap(s.Save(r, w), "save session")
}

func (m *Manager) End(w http.ResponseWriter, r *http.Request) error {
	s, _ := m.store.Get(r, cookieName)
	delete(s.Values, keyUserID)
	s.Options.MaxAge = -1
	return errors.Wrap(s.Save(r, w), "clear session")
}

func (m *Manager) Verify(r *http.Request) (auth.Claims, error) {
	s, err := m.store.Get(r, cookieName)
	if err != nil {
		return auth.Claims{}, auth.ErrNoSession
	}
	uid, _ := s.Values[keyUserID].(string)
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return auth.Claims{}, auth.ErrNoSession
	}

	u, err := m.users.GetByID(r.Context(), uid)
	if err != nil {
		if apperr.IsNotFound(err) {
			return auth.Claims{}, auth.ErrNoSession
		}
		return auth.Claims{}, err
	}
	return auth.Claims{UserID: u.ID, Username: u.Username, Role: u.Role}, nil
}
