package store

import (
	"fmt"
	"log/slog"

	"github.com/marcjazz/nullslot/internal/domain"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend string
	Path    string
	Redis   RedisConfig
	Logger  *slog.Logger
}

// Open builds the TokenStore named by opts.Backend. The returned close
// function releases backend resources and is never nil.
func Open(opts Options) (domain.TokenStore, func() error, error) {
	noop := func() error { return nil }

	switch opts.Backend {
	case BackendFile, "":
		if opts.Path == "" {
			return nil, noop, fmt.Errorf("file store: path is empty")
		}
		return NewFile(opts.Path, opts.Logger), noop, nil
	case BackendMemory:
		return NewMemory(), noop, nil
	case BackendRedis:
		r := NewRedis(opts.Redis)
		return r, r.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown store backend %q (must be file, memory, or redis)", opts.Backend)
	}
}
