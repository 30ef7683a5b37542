package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Backend names a kind of executor.
type Backend string

const (
	BackendPostgREST Backend = "postgrest"
	BackendPostgres  Backend = "postgres"
	BackendMemory    Backend = "memory"
)

// Options selects and configures the executor Open builds.
type Options struct {
	Backend Backend
	URL     string
	Key     string
	DSN     string
	Timeout time.Duration
}

// Conn is an executor together with the function that releases it.
type Conn struct {
	Executor
	Close func() error
}

// Open builds the executor named by opts.Backend. The memory backend is only
// chosen explicitly; a misconfigured remote backend is an error, not a fallback.
func Open(ctx context.Context, opts Options, logger *zap.Logger) (*Conn, error) {
	switch opts.Backend {
	case BackendPostgREST:
		p, err := NewPostgREST(opts.URL, opts.Key, opts.Timeout)
		if err != nil {
			return nil, err
		}
		logger.Info("using postgrest backend", zap.String("url", opts.URL))
		return &Conn{Executor: p, Close: p.Close}, nil

	case BackendPostgres:
		p, err := NewPostgres(ctx, opts.DSN)
		if err != nil {
			return nil, err
		}
		logger.Info("using postgres backend")
		return &Conn{Executor: p, Close: p.Close}, nil

	case BackendMemory:
		logger.Warn("demo mode: using in-memory store, data is lost on restart")
		return &Conn{Executor: NewMemory(), Close: func() error { return nil }}, nil
	}
	return nil, fmt.Errorf("unknown backend %q", opts.Backend)
}
