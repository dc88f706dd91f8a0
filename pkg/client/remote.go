package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/kode4food/flowdraft/pkg/api"
)

// Remote stores workflows through the workflow server's HTTP API
type Remote struct {
	httpClient *http.Client
	baseURL    string
}

const (
	// DefaultBaseURL is where a development server listens
	DefaultBaseURL = "http://localhost:3001"

	// DefaultTimeout bounds a single HTTP exchange
	DefaultTimeout = 10 * time.Second

	routeWorkflows = "/api/workflows"
	routeHealth    = "/api/health"
	routeWebSocket = "/api/ws"
)

// NewRemote creates a Remote for the server at baseURL
func NewRemote(baseURL string, timeout time.Duration) *Remote {
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Health probes the server's liveness endpoint
func (r *Remote) Health(ctx context.Context) (*api.HealthResponse, error) {
	var res api.HealthResponse
	if err := r.do(ctx, http.MethodGet, routeHealth, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *Remote) List(ctx context.Context) ([]string, error) {
	var res api.WorkflowsListResponse
	err := r.do(ctx, http.MethodGet, routeWorkflows, nil, &res)
	if err != nil {
		return nil, err
	}
	if res.Workflows == nil {
		return []string{}, nil
	}
	return res.Workflows, nil
}

func (r *Remote) Read(ctx context.Context, name string) (*api.Workflow, error) {
	var res api.Workflow
	err := r.do(ctx, http.MethodGet, workflowPath(name), nil, &res)
	if err != nil {
		return nil, err
	}
	return res.WithDefaults(), nil
}

func (r *Remote) Write(
	ctx context.Context, wf *api.Workflow,
) (*api.Workflow, bool, error) {
	req := &api.SaveWorkflowRequest{
		Name:  wf.Name,
		Nodes: wf.Nodes,
		Edges: wf.Edges,
	}

	var res api.WorkflowSavedResponse
	err := r.do(ctx, http.MethodPost, routeWorkflows, req, &res)
	if err != nil {
		return nil, false, err
	}
	return res.Workflow, res.Created, nil
}

func (r *Remote) Update(
	ctx context.Context, name string, p *api.WorkflowPatch,
) (*api.Workflow, error) {
	var res api.WorkflowUpdatedResponse
	err := r.do(ctx, http.MethodPut, workflowPath(name), p, &res)
	if err != nil {
		return nil, err
	}
	return res.Workflow, nil
}

func (r *Remote) Delete(ctx context.Context, name string) error {
	var res api.MessageResponse
	return r.do(ctx, http.MethodDelete, workflowPath(name), nil, &res)
}

func (r *Remote) do(
	ctx context.Context, method, path string, body, out any,
) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: invalid response: %w", ErrServer, err)
	}
	return nil
}

func statusError(status int, body []byte) error {
	msg := gjson.GetBytes(body, "error").String()
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch status {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrInvalidRequest, msg)
	default:
		return fmt.Errorf("%w: status %d: %s", ErrServer, status, msg)
	}
}

func workflowPath(name string) string {
	return routeWorkflows + "/" + url.PathEscape(name)
}
