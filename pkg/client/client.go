package client

import (
	"context"
	"errors"

	"github.com/kode4food/flowdraft/pkg/api"
)

// Storage is implemented by every workflow backend
type Storage interface {
	List(context.Context) ([]string, error)
	Read(context.Context, string) (*api.Workflow, error)
	Write(context.Context, *api.Workflow) (*api.Workflow, bool, error)
	Update(context.Context, string, *api.WorkflowPatch) (*api.Workflow, error)
	Delete(context.Context, string) error
}

var (
	ErrUnreachable    = errors.New("workflow server unreachable")
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")
	ErrServer         = errors.New("workflow server error")
)

var (
	_ Storage = (*Remote)(nil)
	_ Storage = (*Local)(nil)
	_ Storage = (*Adapter)(nil)
)
