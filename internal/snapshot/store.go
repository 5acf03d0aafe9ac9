// Package snapshot persists exported filesystem trees. A snapshot is an
// opaque JSON document stored under a short name.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/skairipa/hannaterm/internal/metrics"
)

// ErrNotFound is returned by Load when no snapshot has the given name.
var ErrNotFound = errors.New("snapshot not found")

// ErrInvalidName is returned for names outside [A-Za-z0-9._-]{1,64}.
var ErrInvalidName = errors.New("invalid snapshot name")

var namePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// DefaultName is used when the client does not name its snapshot.
const DefaultName = "default"

// Store is the interface for snapshot backends.
type Store interface {
	// Load returns the snapshot stored under name.
	Load(ctx context.Context, name string) ([]byte, error)

	// Save stores data under name, replacing any previous snapshot.
	Save(ctx context.Context, name string, data []byte) error

	// Type returns the backend identifier ("memory", "local", "s3", "postgres").
	Type() string

	// Close releases any resources held by the backend.
	Close() error
}

// ValidateName checks that name is usable as a key by every backend.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Instrumented wraps a Store with name validation and metrics.
type Instrumented struct {
	Store
}

func (s Instrumented) Load(ctx context.Context, name string) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	start := time.Now()
	data, err := s.Store.Load(ctx, name)
	metrics.RecordSnapshotOperation(s.Type(), "load", time.Since(start), err == nil)
	return data, err
}

func (s Instrumented) Save(ctx context.Context, name string, data []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	start := time.Now()
	err := s.Store.Save(ctx, name, data)
	metrics.RecordSnapshotOperation(s.Type(), "save", time.Since(start), err == nil)
	return err
}
