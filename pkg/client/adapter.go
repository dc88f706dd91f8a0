package client

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/kode4food/flowdraft/pkg/api"
)

type (
	// Adapter routes each storage call to the backend selected by its mode
	// at the moment the call starts. It never changes mode on its own
	Adapter struct {
		remote *Remote
		local  *Local
		mode   atomic.Value
	}

	// Mode selects the backend an Adapter routes to
	Mode string
)

const (
	ModeRemote Mode = "remote"
	ModeLocal  Mode = "local"
)

// NewAdapter creates an Adapter in remote mode
func NewAdapter(remote *Remote, local *Local) *Adapter {
	res := &Adapter{
		remote: remote,
		local:  local,
	}
	res.mode.Store(ModeRemote)
	return res
}

// Mode returns the currently selected mode
func (a *Adapter) Mode() Mode {
	return a.mode.Load().(Mode)
}

// UseLocal routes subsequent calls to the local backend
func (a *Adapter) UseLocal() {
	if a.mode.Swap(ModeLocal) != ModeLocal {
		slog.Info("Switched to local storage")
	}
}

// UseRemote routes subsequent calls to the server
func (a *Adapter) UseRemote() {
	if a.mode.Swap(ModeRemote) != ModeRemote {
		slog.Info("Switched to remote storage")
	}
}

// Probe reports whether the server answers its health check
func (a *Adapter) Probe(ctx context.Context) bool {
	res, err := a.remote.Health(ctx)
	return err == nil && res.Status == api.HealthHealthy
}

// Remote returns the server backend
func (a *Adapter) Remote() *Remote {
	return a.remote
}

// Local returns the local backend, which also holds preferences and the
// current draft in either mode
func (a *Adapter) Local() *Local {
	return a.local
}

func (a *Adapter) List(ctx context.Context) ([]string, error) {
	return a.backend().List(ctx)
}

func (a *Adapter) Read(ctx context.Context, name string) (*api.Workflow, error) {
	return a.backend().Read(ctx, name)
}

func (a *Adapter) Write(
	ctx context.Context, wf *api.Workflow,
) (*api.Workflow, bool, error) {
	return a.backend().Write(ctx, wf)
}

func (a *Adapter) Update(
	ctx context.Context, name string, p *api.WorkflowPatch,
) (*api.Workflow, error) {
	return a.backend().Update(ctx, name, p)
}

func (a *Adapter) Delete(ctx context.Context, name string) error {
	return a.backend().Delete(ctx, name)
}

func (a *Adapter) backend() Storage {
	if a.Mode() == ModeLocal {
		return a.local
	}
	return a.remote
}
