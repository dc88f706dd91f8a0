package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/gcerrors"

	"github.com/kode4food/flowdraft/pkg/api"
	"github.com/kode4food/flowdraft/pkg/log"

	_ "gocloud.dev/blob/azureblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

type (
	// Store persists workflow documents in a blob bucket, one JSON object per
	// sanitized name. Writes to the same key are not serialized; the last
	// completed write wins
	Store struct {
		bucket *blob.Bucket
		prefix string
		clock  Clock
	}

	// Clock supplies the current time for document timestamps
	Clock func() time.Time

	// Option configures a Store
	Option func(*Store)
)

// Ext is the file extension that identifies a stored workflow document
const Ext = ".json"

// hexEscape matches the sequences fileblob decodes when listing keys. A key
// containing one would be listed under a different name than it was
// written with
var hexEscape = regexp.MustCompile(`__0x[0-9a-f]+__`)

var (
	ErrNotFound           = errors.New("workflow not found")
	ErrInvalidName        = errors.New("invalid workflow name")
	ErrCorruptData        = errors.New("workflow data is corrupt")
	ErrStorageUnavailable = errors.New("workflow storage unavailable")
)

// Open creates a Store over the bucket at bucketURL. Supported schemes are
// file, mem, s3, gs, and azblob
func Open(
	ctx context.Context, bucketURL, prefix string, opts ...Option,
) (*Store, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return New(bucket, prefix, opts...), nil
}

// OpenDir creates a Store over a local directory, creating it if absent.
// Documents are written as plain files without metadata sidecars
func OpenDir(dir, prefix string, opts ...Option) (*Store, error) {
	bucket, err := OpenDirBucket(dir)
	if err != nil {
		return nil, err
	}
	return New(bucket, prefix, opts...), nil
}

// OpenDirBucket opens the local directory bucket that OpenDir uses
func OpenDirBucket(dir string) (*blob.Bucket, error) {
	bucket, err := fileblob.OpenBucket(dir, &fileblob.Options{
		CreateDir: true,
		NoTempDir: true,
		Metadata:  fileblob.MetadataDontWrite,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return bucket, nil
}

// New creates a Store over an already opened bucket. The Store takes
// ownership of the bucket
func New(bucket *blob.Bucket, prefix string, opts ...Option) *Store {
	s := &Store{
		bucket: bucket,
		prefix: prefix,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithClock overrides the time source used for timestamps
func WithClock(c Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// List returns the keys of all stored documents in ascending order
func (s *Store) List(ctx context.Context) ([]string, error) {
	iter := s.bucket.List(&blob.ListOptions{
		Prefix:    s.prefix,
		Delimiter: "/",
	})

	res := []string{}
	for {
		obj, err := iter.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
		}
		if obj.IsDir {
			continue
		}
		name := strings.TrimPrefix(obj.Key, s.prefix)
		if stem, ok := strings.CutSuffix(name, Ext); ok && stem != "" {
			res = append(res, stem)
		}
	}

	slices.Sort(res)
	return res, nil
}

// Exists reports whether a document is stored under the name's key
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	key, err := keyFor(name)
	if err != nil {
		return false, err
	}
	return s.exists(ctx, key)
}

// Read loads the document stored under the name's key
func (s *Store) Read(ctx context.Context, name string) (*api.Workflow, error) {
	key, err := keyFor(name)
	if err != nil {
		return nil, err
	}
	return s.read(ctx, key)
}

// Write creates or replaces the document under its name's key. When a
// document already exists its creation time is carried forward. The
// returned flag reports whether the document was newly created
func (s *Store) Write(
	ctx context.Context, wf *api.Workflow,
) (*api.Workflow, bool, error) {
	key, err := keyFor(wf.Name)
	if err != nil {
		return nil, false, err
	}

	res := wf.WithDefaults()
	now := s.now()
	res.CreatedAt = now
	res.UpdatedAt = now

	created := true
	ok, err := s.exists(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if ok {
		existing, err := s.read(ctx, key)
		switch {
		case err == nil:
			created = false
			if !existing.CreatedAt.IsZero() {
				res.CreatedAt = existing.CreatedAt
			}
			res.UpdatedAt = s.nextUpdate(existing, now)
		case errors.Is(err, ErrCorruptData):
			slog.Warn("Overwriting corrupt workflow",
				log.Key(key),
				log.Error(err))
		case errors.Is(err, ErrNotFound):
			// removed since the existence check
		default:
			return nil, false, err
		}
	}

	if err := s.put(ctx, key, res); err != nil {
		return nil, false, err
	}
	return res, created, nil
}

// Update merges the patch's supplied fields onto the stored document
func (s *Store) Update(
	ctx context.Context, name string, p *api.WorkflowPatch,
) (*api.Workflow, error) {
	key, err := keyFor(name)
	if err != nil {
		return nil, err
	}

	existing, err := s.read(ctx, key)
	if err != nil {
		return nil, err
	}

	res := existing.Apply(p)
	res.UpdatedAt = s.nextUpdate(existing, s.now())
	if err := s.put(ctx, key, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Delete removes the document stored under the name's key
func (s *Store) Delete(ctx context.Context, name string) error {
	key, err := keyFor(name)
	if err != nil {
		return err
	}

	err = s.bucket.Delete(ctx, s.pathFor(key))
	if err == nil {
		return nil
	}
	if gcerrors.Code(err) == gcerrors.NotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}

// Close releases the underlying bucket
func (s *Store) Close() error {
	return s.bucket.Close()
}

func (s *Store) exists(ctx context.Context, key string) (bool, error) {
	ok, err := s.bucket.Exists(ctx, s.pathFor(key))
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return ok, nil
}

func (s *Store) read(ctx context.Context, key string) (*api.Workflow, error) {
	data, err := s.bucket.ReadAll(ctx, s.pathFor(key))
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return decode(key, data)
}

func (s *Store) put(ctx context.Context, key string, wf *api.Workflow) error {
	data, err := json.MarshalIndent(wf, "", "  ")
	if err != nil {
		return err
	}
	err = s.bucket.WriteAll(ctx, s.pathFor(key), data, &blob.WriterOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return nil
}

func (s *Store) now() time.Time {
	return s.clock().UTC().Truncate(time.Millisecond)
}

// nextUpdate returns an update time strictly after the stored one, even if
// the clock has not advanced
func (s *Store) nextUpdate(existing *api.Workflow, now time.Time) time.Time {
	last := existing.UpdatedAt
	if existing.CreatedAt.After(last) {
		last = existing.CreatedAt
	}
	if now.After(last) {
		return now
	}
	return last.Add(time.Millisecond)
}

func (s *Store) pathFor(key string) string {
	return s.prefix + key + Ext
}

func keyFor(name string) (string, error) {
	key := api.SanitizeName(name)
	if key == "" || hexEscape.MatchString(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return key, nil
}

func decode(key string, data []byte) (*api.Workflow, error) {
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return nil, fmt.Errorf("%w: %s", ErrCorruptData, key)
	}

	var wf api.Workflow
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptData, key, err)
	}
	return wf.WithDefaults(), nil
}
