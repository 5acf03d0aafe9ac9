package snapshot

import (
	"context"
	"fmt"
)

// Config selects and configures a backend.
type Config struct {
	Backend     string // none, memory, local, s3, postgres
	Dir         string
	S3          S3Config
	DatabaseURL string
}

// New creates the configured Store. It returns nil for the "none" backend.
func New(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case "", "none":
		return nil, nil
	case "memory":
		s = NewMemory()
	case "local":
		s, err = NewLocal(cfg.Dir)
	case "s3":
		s, err = NewS3(ctx, cfg.S3)
	case "postgres":
		s, err = NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown snapshot backend: %s", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return Instrumented{Store: s}, nil
}
