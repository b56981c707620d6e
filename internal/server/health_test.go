package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/teemow/docsmith/internal/google"
)

func serveHealth(t *testing.T, h http.Handler) (int, HealthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	return rec.Code, resp
}

func TestHealthChecker_Liveness(t *testing.T) {
	h := NewHealthChecker(nil)
	h.SetReady(false)

	code, resp := serveHealth(t, h.LivenessHandler())
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, healthStatusOK, resp.Status)
}

func TestHealthChecker_Readiness(t *testing.T) {
	provider := google.StaticTokenProvider{"default": oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "t"})}
	sc, err := NewServerContext(context.Background(), Options{TokenProvider: provider})
	require.NoError(t, err)

	h := NewHealthChecker(sc)
	assert.True(t, h.IsReady())

	code, resp := serveHealth(t, h.ReadinessHandler())
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, healthStatusOK, resp.Checks["google"])

	h.SetReady(false)
	code, resp = serveHealth(t, h.ReadinessHandler())
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, healthStatusNotReady, resp.Checks["ready"])

	h.SetReady(true)
	require.NoError(t, sc.Shutdown())
	code, resp = serveHealth(t, h.ReadinessHandler())
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, healthStatusShuttingDown, resp.Checks["shutdown"])
}

func TestHealthChecker_MissingTokenStaysReady(t *testing.T) {
	sc, err := NewServerContext(context.Background(), Options{TokenProvider: google.StaticTokenProvider{}})
	require.NoError(t, err)

	code, resp := serveHealth(t, NewHealthChecker(sc).ReadinessHandler())
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, healthStatusNoToken, resp.Checks["google"])
}
