package helpers

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"

	"github.com/kode4food/flowdraft/internal/config"
	"github.com/kode4food/flowdraft/internal/events"
	"github.com/kode4food/flowdraft/internal/server"
	"github.com/kode4food/flowdraft/internal/store"
)

// TestEnv holds all the components needed for server testing
type TestEnv struct {
	Store   *store.Store
	Hub     *events.Hub
	Server  *server.Server
	Router  *gin.Engine
	Config  *config.Config
	Clock   *Clock
	Cleanup func()
}

// TestEpoch is the instant every TestEnv clock starts at
var TestEpoch = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewTestConfig creates a default configuration with debug logging enabled
func NewTestConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.LogLevel = "debug"
	return cfg
}

// NewTestStore creates a Store over an in-memory bucket driven by clock
func NewTestStore(t *testing.T, clock *Clock) *store.Store {
	t.Helper()
	st := store.New(memblob.OpenBucket(nil), "", store.WithClock(clock.Now))
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// NewTestEnv creates a fully wired server over an in-memory bucket
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	clock := NewClock(TestEpoch)
	st := store.New(memblob.OpenBucket(nil), "", store.WithClock(clock.Now))
	hub := events.NewHub()
	cfg := NewTestConfig()
	require.NoError(t, cfg.Validate())

	srv := server.NewServer(cfg, st, hub)
	return &TestEnv{
		Store:  st,
		Hub:    hub,
		Server: srv,
		Router: srv.SetupRoutes(),
		Config: cfg,
		Clock:  clock,
		Cleanup: func() {
			srv.CloseWebSockets()
			hub.Close()
			_ = st.Close()
		},
	}
}

// NewHTTPServer starts a real listener in front of the environment's router
func (e *TestEnv) NewHTTPServer(t *testing.T) *httptest.Server {
	t.Helper()
	res := httptest.NewServer(e.Router)
	t.Cleanup(res.Close)
	return res
}

// Seed writes workflows directly to the store, advancing the clock by one
// second between each
func (e *TestEnv) Seed(t *testing.T, wfs ...string) {
	t.Helper()
	for _, name := range wfs {
		_, _, err := e.Store.Write(context.Background(), NewWorkflow(name))
		require.NoError(t, err)
		e.Clock.Advance(time.Second)
	}
}
