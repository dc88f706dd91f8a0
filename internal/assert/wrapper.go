package assert

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kode4food/flowdraft/internal/config"
	"github.com/kode4food/flowdraft/pkg/api"
)

// Wrapper wraps testify assertions with workflow-specific helpers
type Wrapper struct {
	*testing.T
	*assert.Assertions
}

// DefaultRetryInterval is the default polling interval for Eventually checks
const DefaultRetryInterval = 20 * time.Millisecond

// New creates a new test assertion wrapper
func New(t *testing.T) *Wrapper {
	return &Wrapper{
		T:          t,
		Assertions: assert.New(t),
	}
}

// ConfigValid asserts that a configuration is valid
func (w *Wrapper) ConfigValid(cfg *config.Config) {
	w.Helper()
	w.NoError(cfg.Validate())
	w.True(cfg.APIPort > 0 && cfg.APIPort <= config.MaxTCPPort)
	w.True(cfg.ShutdownTimeout > 0)
}

// ConfigInvalid asserts that a configuration is invalid
func (w *Wrapper) ConfigInvalid(cfg *config.Config, contains string) {
	w.Helper()
	err := cfg.Validate()
	w.Error(err)
	if err != nil && contains != "" {
		w.Contains(err.Error(), contains)
	}
}

// WorkflowContent asserts that two workflows carry the same name, nodes,
// and edges, ignoring timestamps
func (w *Wrapper) WorkflowContent(expected, actual *api.Workflow) {
	w.Helper()
	if !w.NotNil(actual) {
		return
	}
	w.Equal(expected.Name, actual.Name)
	w.JSONEq(mustJSON(w.T, expected.Nodes), mustJSON(w.T, actual.Nodes))
	w.JSONEq(mustJSON(w.T, expected.Edges), mustJSON(w.T, actual.Edges))
}

// ErrorResponse asserts the recorded status code and decodes the error body
func (w *Wrapper) ErrorResponse(
	rec *httptest.ResponseRecorder, status int,
) *api.ErrorResponse {
	w.Helper()
	w.Equal(status, rec.Code)

	var res api.ErrorResponse
	w.NoError(json.Unmarshal(rec.Body.Bytes(), &res))
	w.NotEmpty(res.Error)
	return &res
}

// Eventually runs a condition repeatedly until it passes or times out
func (w *Wrapper) Eventually(
	condition func() bool, timeout time.Duration, msg string, args ...any,
) {
	w.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(DefaultRetryInterval)
	}
	w.Fail(msg, args...)
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	return string(data)
}
