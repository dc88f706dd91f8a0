package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kode4food/flowdraft"
	"github.com/kode4food/flowdraft/internal/assert/helpers"
	"github.com/kode4food/flowdraft/internal/events"
	"github.com/kode4food/flowdraft/internal/server"
	"github.com/kode4food/flowdraft/pkg/api"
)

func TestHealthEndpoints(t *testing.T) {
	env := helpers.NewTestEnv(t)
	defer env.Cleanup()

	for _, path := range []string{"/health", "/api/health"} {
		w := serve(env, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var res api.HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, flowdraft.Name, res.Service)
		assert.Equal(t, flowdraft.Version, res.Version)
		assert.Equal(t, api.HealthHealthy, res.Status)
		assert.Equal(t, "Workflow server is running", res.Message)
	}
}

func TestRequestIDGenerated(t *testing.T) {
	env := helpers.NewTestEnv(t)
	defer env.Cleanup()

	w := serve(env, http.MethodGet, "/health", nil)
	assert.NotEmpty(t, w.Header().Get(server.RequestIDHeader))
}

func TestRequestIDPropagated(t *testing.T) {
	env := helpers.NewTestEnv(t)
	defer env.Cleanup()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(server.RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	env.Router.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get(server.RequestIDHeader))
}

func TestCORSAllowAll(t *testing.T) {
	env := helpers.NewTestEnv(t)
	defer env.Cleanup()

	req := httptest.NewRequest(http.MethodOptions, "/api/workflows", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	env.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSRestrictedOrigins(t *testing.T) {
	cfg := helpers.NewTestConfig()
	cfg.AllowOrigins = []string{"http://editor.example.com"}
	st := helpers.NewTestStore(t, helpers.NewClock(helpers.TestEpoch))
	hub := events.NewHub()
	defer hub.Close()

	router := server.NewServer(cfg, st, hub).SetupRoutes()

	req := httptest.NewRequest(http.MethodGet, "/api/workflows", nil)
	req.Header.Set("Origin", "http://editor.example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t,
		"http://editor.example.com", w.Header().Get("Access-Control-Allow-Origin"),
	)

	req = httptest.NewRequest(http.MethodGet, "/api/workflows", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUnknownRoute(t *testing.T) {
	env := helpers.NewTestEnv(t)
	defer env.Cleanup()

	w := serve(env, http.MethodGet, "/api/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func serve(
	env *helpers.TestEnv, method, path string, body any,
) *httptest.ResponseRecorder {
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		data, _ := json.Marshal(b)
		r = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	env.Router.ServeHTTP(w, req)
	return w
}
