package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peluqueria-canina/internal/domain/users"
	"peluqueria-canina/internal/platform/apperr"
	"peluqueria-canina/internal/ports/auth"
)

type lookup map[string]users.User

func (l lookup) GetByID(_ context.Context, id string) (users.User, error) {
	u, ok := l[id]
	if !ok {
		return users.User{}, apperr.NotFound("user")
	}
	return u, nil
}

func cookiesFrom(rec *httptest.ResponseRecorder) []*http.Cookie {
	return rec.Result().Cookies()
}

func TestManager_StartVerifyEnd(t *testing.T) {
	l := lookup{"u1": {ID: "u1", Username: "laura", Role: auth.RolePeluquera}}
	m := NewManager(l, Options{Secret: "test-secret-test-secret-32bytes!"})

	rec := httptest.NewRecorder()
	require.NoError(t, m.Start(rec, httptest.NewRequest(http.MethodPost, "/login", nil), l["u1"]))
	cookies := cookiesFrom(rec)
	require.NotEmpty(t, cookies)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	claims, err := m.Verify(req)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, auth.RolePeluquera, claims.Role)

	rec = httptest.NewRecorder()
	require.NoError(t, m.End(rec, req))
	cleared := cookiesFrom(rec)
	require.NotEmpty(t, cleared)
	assert.True(t, cleared[0].MaxAge < 0)
}

func TestManager_VerifyWithoutCookie(t *testing.T) {
	m := NewManager(lookup{}, Options{Secret: "s"})
	_, err := m.Verify(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, auth.ErrNoSession)
}

func TestManager_VerifyForeignSignature(t *testing.T) {
	l := lookup{"u1": {ID: "u1", Role: auth.RoleAdmin}}
	other := NewManager(l, Options{Secret: "other-secret"})
	rec := httptest.NewRecorder()
	require.NoError(t, other.Start(rec, httptest.NewRequest(http.MethodPost, "/login", nil), l["u1"]))

	m := NewManager(l, Options{Secret: "real-secret"})
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	for _, c := range cookiesFrom(rec) {
		req.AddCookie(c)
	}
	_, err := m.Verify(req)
	assert.ErrorIs(t, err, auth.ErrNoSession)
}

func TestManager_VerifyDeletedUser(t *testing.T) {
	l := lookup{"u1": {ID: "u1", Role: auth.RoleAdmin}}
	m := NewManager(l, Options{Secret: "s"})
	rec := httptest.NewRecorder()
	require.NoError(t, m.Start(rec, httptest.NewRequest(http.MethodPost, "/login", nil), l["u1"]))

	delete(l, "u1")
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	for _, c := range cookiesFrom(rec) {
		req.AddCookie(c)
	}
	_, err := m.Verify(req)
	assert.ErrorIs(t, err, auth.ErrNoSession)
}
