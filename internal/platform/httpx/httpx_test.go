package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peluqueria-canina/internal/platform/apperr"
)

func TestStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Status(apperr.Validation("x", "bad")))
	assert.Equal(t, http.StatusNotFound, Status(apperr.NotFound("dog")))
	assert.Equal(t, http.StatusConflict, Status(apperr.Conflict("overlap", "a")))
	assert.Equal(t, http.StatusUnauthorized, Status(apperr.ErrInvalidCredentials))
	assert.Equal(t, http.StatusInternalServerError, Status(errors.New("db down")))
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)

	WriteError(rr, req, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "password")
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"name":"a","nope":1}`))
	var body struct {
		Name string `json:"name"`
	}
	err := DecodeJSON(req, &body)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestQueryTime(t *testing.T) {
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/x?date=2024-05-10&bad=ayer", nil)

	got, err := QueryTime(req, "date", loc)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Equal(time.Date(2024, 5, 10, 3, 0, 0, 0, time.UTC)))

	none, err := QueryTime(req, "missing", loc)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = QueryTime(req, "bad", loc)
	assert.True(t, apperr.IsValidation(err))
}

func TestQueryEndTime(t *testing.T) {
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/x?end=2024-05-10&exact=2024-05-10T15:00:00Z&bad=manana", nil)

	got, err := QueryEndTime(req, "end", loc)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Equal(time.Date(2024, 5, 11, 3, 0, 0, 0, time.UTC)), "next local midnight")

	exact, err := QueryEndTime(req, "exact", loc)
	require.NoError(t, err)
	assert.True(t, exact.Equal(time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)))

	none, err := QueryEndTime(req, "missing", loc)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = QueryEndTime(req, "bad", loc)
	assert.True(t, apperr.IsValidation(err))
}

func TestQueryLimit(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?limit=500", nil)
	assert.Equal(t, 50, QueryLimit(req, 20, 50))
	req = httptest.NewRequest(http.MethodGet, "/x?limit=-1", nil)
	assert.Equal(t, 20, QueryLimit(req, 20, 50))
}
