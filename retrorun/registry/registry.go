// Package registry constructs emulation engines on first use and keeps them
// for the lifetime of the worker that owns the registry.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/valerio/go-retrorun/retrorun/family"
	"github.com/valerio/go-retrorun/retrorun/retro"
)

// ErrNoLoader is returned when no loader is registered for a family's engine.
var ErrNoLoader = errors.New("no loader for engine")

// Loader constructs a new engine instance.
type Loader func(ctx context.Context) (retro.Core, error)

// Loaders maps each physical engine to its constructor.
type Loaders map[family.EngineID]Loader

// Registry memoizes one engine per physical engine id. Construction of a
// given engine happens at most once at a time: concurrent callers wait on
// the construction already in flight. Failed constructions are not kept.
type Registry struct {
	loaders Loaders
	group   singleflight.Group

	mu    sync.Mutex
	cores map[family.EngineID]retro.Core
}

func New(loaders Loaders) *Registry {
	return &Registry{
		loaders: loaders,
		cores:   make(map[family.EngineID]retro.Core),
	}
}

// Resolve returns the engine servicing f, constructing it on first use.
func (r *Registry) Resolve(ctx context.Context, f family.Family) (retro.Core, error) {
	id, err := f.Engine()
	if err != nil {
		return nil, err
	}

	if core, ok := r.lookup(id); ok {
		return core, nil
	}

	load, ok := r.loaders[id]
	if !ok || load == nil {
		return nil, fmt.Errorf("%w %s", ErrNoLoader, id)
	}

	// Do runs the loader on the calling goroutine, so the engine is created
	// on the worker's own thread.
	v, err, _ := r.group.Do(id.String(), func() (interface{}, error) {
		if core, ok := r.lookup(id); ok {
			return core, nil
		}
		core, err := load(ctx)
		if err != nil {
			return nil, fmt.Errorf("construct %s: %w", id, err)
		}
		core.SetEnvironment(retro.Negotiate(core))

		r.mu.Lock()
		r.cores[id] = core
		r.mu.Unlock()
		return core, nil
	})

	if err != nil {
		return nil, err
	}
	return v.(retro.Core), nil
}

// Loaded reports whether the engine for f has been constructed.
func (r *Registry) Loaded(f family.Family) bool {
	id, err := f.Engine()
	if err != nil {
		return false
	}
	_, ok := r.lookup(id)
	return ok
}

func (r *Registry) lookup(id family.EngineID) (retro.Core, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	core, ok := r.cores[id]
	return core, ok
}
