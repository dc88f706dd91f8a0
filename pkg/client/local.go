package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	"github.com/kode4food/flowdraft/internal/store"
	"github.com/kode4food/flowdraft/pkg/api"
)

type (
	// Local keeps workflows, the editor's preferences, and its current
	// draft in a local bucket. It is used when the server is unavailable
	Local struct {
		store  *store.Store
		bucket *blob.Bucket
	}

	// Preferences holds editor settings that survive restarts
	Preferences struct {
		Theme        Theme  `json:"theme"`
		LastWorkflow string `json:"lastWorkflow,omitempty"`
	}

	// Theme selects the editor's color scheme
	Theme string
)

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"

	// WorkflowsPrefix namespaces workflow documents inside the local bucket
	WorkflowsPrefix = "workflows/"

	preferencesKey = "preferences.json"
	draftKey       = "draft.json"
	localDirName   = "flowdraft"
)

var (
	ErrCorruptLocalData = errors.New("local data is corrupt")
	ErrInvalidTheme     = errors.New("invalid theme")
)

// NewLocal creates a Local over an already opened bucket. The Local takes
// ownership of the bucket
func NewLocal(bucket *blob.Bucket, opts ...store.Option) *Local {
	return &Local{
		store:  store.New(bucket, WorkflowsPrefix, opts...),
		bucket: bucket,
	}
}

// OpenLocalDir creates a Local over a directory, creating it if absent
func OpenLocalDir(dir string, opts ...store.Option) (*Local, error) {
	bucket, err := store.OpenDirBucket(dir)
	if err != nil {
		return nil, err
	}
	return NewLocal(bucket, opts...), nil
}

// DefaultLocalDir returns the per-user directory for local data
func DefaultLocalDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, localDirName), nil
}

// DefaultPreferences returns the preferences of a fresh install
func DefaultPreferences() *Preferences {
	return &Preferences{Theme: ThemeLight}
}

// DefaultDraft returns the draft of a fresh install
func DefaultDraft() *api.Workflow {
	res := &api.Workflow{Name: api.DefaultWorkflowName}
	return res.WithDefaults()
}

func (l *Local) List(ctx context.Context) ([]string, error) {
	res, err := l.store.List(ctx)
	return res, localError(err)
}

func (l *Local) Read(ctx context.Context, name string) (*api.Workflow, error) {
	res, err := l.store.Read(ctx, name)
	if err != nil {
		return nil, localError(err)
	}
	return res, nil
}

func (l *Local) Write(
	ctx context.Context, wf *api.Workflow,
) (*api.Workflow, bool, error) {
	res, created, err := l.store.Write(ctx, wf)
	if err != nil {
		return nil, false, localError(err)
	}
	return res, created, nil
}

func (l *Local) Update(
	ctx context.Context, name string, p *api.WorkflowPatch,
) (*api.Workflow, error) {
	res, err := l.store.Update(ctx, name, p)
	if err != nil {
		return nil, localError(err)
	}
	return res, nil
}

func (l *Local) Delete(ctx context.Context, name string) error {
	return localError(l.store.Delete(ctx, name))
}

// LoadPreferences returns the saved preferences, or the defaults if none
// were saved
func (l *Local) LoadPreferences(ctx context.Context) (*Preferences, error) {
	res := DefaultPreferences()
	ok, err := l.load(ctx, preferencesKey, res)
	if err != nil || !ok {
		return res, err
	}
	if res.Theme == "" {
		res.Theme = ThemeLight
	}
	return res, nil
}

// SavePreferences replaces the saved preferences
func (l *Local) SavePreferences(ctx context.Context, p *Preferences) error {
	if !p.Theme.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, p.Theme)
	}
	return l.save(ctx, preferencesKey, p)
}

// LoadDraft returns the saved draft, or an empty untitled workflow if none
// was saved
func (l *Local) LoadDraft(ctx context.Context) (*api.Workflow, error) {
	res := DefaultDraft()
	ok, err := l.load(ctx, draftKey, res)
	if err != nil || !ok {
		return DefaultDraft(), err
	}
	if res.Name == "" {
		res.Name = api.DefaultWorkflowName
	}
	return res.WithDefaults(), nil
}

// SaveDraft replaces the saved draft. Drafts may be unnamed
func (l *Local) SaveDraft(ctx context.Context, wf *api.Workflow) error {
	return l.save(ctx, draftKey, wf.WithDefaults())
}

// Close releases the underlying bucket
func (l *Local) Close() error {
	return l.store.Close()
}

// IsValid returns true if the theme is one the editor knows
func (t Theme) IsValid() bool {
	return t == ThemeLight || t == ThemeDark
}

func (l *Local) load(ctx context.Context, key string, out any) (bool, error) {
	data, err := l.bucket.ReadAll(ctx, key)
	if gcerrors.Code(err) == gcerrors.NotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %w", store.ErrStorageUnavailable, err)
	}
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return false, fmt.Errorf("%w: %s", ErrCorruptLocalData, key)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrCorruptLocalData, key, err)
	}
	return true, nil
}

func (l *Local) save(ctx context.Context, key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	err = l.bucket.WriteAll(ctx, key, data, &blob.WriterOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("%w: %w", store.ErrStorageUnavailable, err)
	}
	return nil
}

func localError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, store.ErrInvalidName):
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	default:
		return err
	}
}
