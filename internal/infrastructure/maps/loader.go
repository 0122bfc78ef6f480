package maps

import (
	"context"
	"sync"

	"github.com/carebridge/seniorplacement/backend/pkg/config"
)

// Config is the map rendering configuration handed to clients.
type Config struct {
	TileURL string `json:"tile_url"`
	APIKey  string `json:"api_key,omitempty"`
}

// LoadFunc produces the map configuration. Separated out so tests can
// substitute a failing or slow load.
type LoadFunc func(ctx context.Context) (*Config, error)

// Loader resolves the map configuration at most once concurrently. A
// successful load is cached forever; a failed load is surfaced to every
// waiter of that attempt and the next caller retries.
type Loader struct {
	load LoadFunc

	mu       sync.Mutex
	cached   *Config
	inflight *call
}

type call struct {
	done chan struct{}
	cfg  *Config
	err  error
}

// NewLoader creates a loader backed by the given load function.
func NewLoader(load LoadFunc) *Loader {
	return &Loader{load: load}
}

// NewStaticLoader creates a loader that serves the environment-derived config.
func NewStaticLoader(cfg config.MapsConfig) *Loader {
	return NewLoader(func(ctx context.Context) (*Config, error) {
		return &Config{TileURL: cfg.TileURL, APIKey: cfg.APIKey}, nil
	})
}

// Load returns the cached configuration, or joins the in-flight load, or
// starts a new one.
func (l *Loader) Load(ctx context.Context) (*Config, error) {
	l.mu.Lock()
	if l.cached != nil {
		cfg := l.cached
		l.mu.Unlock()
		return cfg, nil
	}

	if c := l.inflight; c != nil {
		l.mu.Unlock()
		select {
		case <-c.done:
			return c.cfg, c.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	c := &call{done: make(chan struct{})}
	l.inflight = c
	l.mu.Unlock()

	c.cfg, c.err = l.load(ctx)

	l.mu.Lock()
	l.inflight = nil
	if c.err == nil {
		l.cached = c.cfg
	}
	l.mu.Unlock()
	close(c.done)

	return c.cfg, c.err
}
