// Package job runs a single emulation job: resolve the engine, load the game
// when needed, restore the prior state, step the requested frames and
// package everything the caller needs to continue later.
package job

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/valerio/go-retrorun/retrorun/family"
	"github.com/valerio/go-retrorun/retrorun/gamecache"
	"github.com/valerio/go-retrorun/retrorun/input"
	"github.com/valerio/go-retrorun/retrorun/registry"
	"github.com/valerio/go-retrorun/retrorun/runner"
)

// Request describes one job. State may be empty, in which case the game is
// always (re)loaded. GameHash may be empty, in which case it is computed from
// Game.
type Request struct {
	Family   family.Family
	Input    input.State
	Frames   int
	Game     []byte
	State    []byte
	GameHash string
}

// Worker owns the engines and the game cache of one execution context.
// It runs one job at a time and must not be shared.
type Worker struct {
	engines *registry.Registry
	games   *gamecache.Cache
}

func NewWorker(loaders registry.Loaders) *Worker {
	return &Worker{
		engines: registry.New(loaders),
		games:   gamecache.New(),
	}
}

// Execute runs req to completion. Any failure aborts the whole job; no
// partial frames are returned.
func (w *Worker) Execute(ctx context.Context, req Request) (*Result, error) {
	if !req.Family.Valid() {
		return nil, fmt.Errorf("%w: %d", family.ErrUnknownFamily, int(req.Family))
	}
	if req.Frames < 0 {
		return nil, runner.ErrNegativeFrames
	}

	if !w.engines.Loaded(req.Family) {
		slog.Debug("Constructing engine", "family", req.Family)
	}
	core, err := w.engines.Resolve(ctx, req.Family)
	if err != nil {
		return nil, err
	}

	hash := req.GameHash
	if hash == "" {
		hash = gamecache.Hash(req.Game)
	}

	hasState := len(req.State) > 0
	if w.games.ShouldReload(req.Family, hash, hasState) {
		if err := core.LoadGame(req.Game); err != nil {
			// the engine may no longer hold the previous game either
			w.games.RecordLoad(req.Family, "")
			return nil, fmt.Errorf("load game %s: %w", hash, err)
		}
		w.games.RecordLoad(req.Family, hash)
	}

	if hasState {
		if err := core.UnserializeState(req.State); err != nil {
			return nil, fmt.Errorf("restore state: %w", err)
		}
	}

	frames, err := runner.Run(core, req.Input, req.Frames)
	if err != nil {
		return nil, fmt.Errorf("run %d frames: %w", req.Frames, err)
	}

	res := &Result{
		Frames:   frames,
		GameHash: hash,
	}
	core.GetSystemAVInfo(&res.AVInfo)

	res.State, err = core.SerializeState()
	if err != nil {
		return nil, fmt.Errorf("save state: %w", err)
	}

	return res, nil
}

// LoadedGame returns the content hash last loaded for f on this worker.
func (w *Worker) LoadedGame(f family.Family) string {
	return w.games.Last(f)
}
