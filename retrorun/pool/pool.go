// Package pool dispatches jobs onto a fixed set of workers. Each worker is
// pinned to its own OS thread and owns its engines and game cache; nothing
// is shared between workers.
package pool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/valerio/go-retrorun/retrorun/config"
	"github.com/valerio/go-retrorun/retrorun/job"
	"github.com/valerio/go-retrorun/retrorun/registry"
)

var (
	ErrClosed        = errors.New("pool closed")
	ErrTooManyFrames = errors.New("frame count exceeds limit")
	ErrJobTimeout    = errors.New("job exceeded its time budget")
)

const (
	taskPending int32 = iota
	taskRunning
	taskFinished
	taskAbandoned
)

type outcome struct {
	res *job.Result
	err error
}

type task struct {
	ctx   context.Context
	req   job.Request
	done  chan outcome
	state atomic.Int32
}

// Pool runs jobs on worker threads.
type Pool struct {
	cfg     config.Pool
	loaders registry.Loaders
	log     *slog.Logger

	tasks chan *task
	group errgroup.Group

	mu     sync.RWMutex
	closed bool

	nextID  atomic.Int64
	live    atomic.Int32
	retired atomic.Int32
}

func New(cfg config.Pool, loaders registry.Loaders) *Pool {
	return &Pool{
		cfg:     cfg,
		loaders: loaders,
		log:     slog.Default(),
		tasks:   make(chan *task),
	}
}

// Start launches the configured number of workers.
func (p *Pool) Start() {
	n := p.cfg.WorkerCount()
	p.log.Info("Starting worker pool", "workers", n, "job_timeout", p.cfg.JobTimeout, "max_frames", p.cfg.MaxFrames)
	for i := 0; i < n; i++ {
		p.spawn()
	}
}

// Submit runs req on the next free worker and waits for its result.
//
// A job that outlives the pool's time budget, or whose ctx ends while it
// runs, is not interrupted: Submit returns early, the worker running it is
// retired once the job ends and a fresh worker takes its place.
func (p *Pool) Submit(ctx context.Context, req job.Request) (*job.Result, error) {
	if req.Frames > p.cfg.MaxFrames {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyFrames, req.Frames, p.cfg.MaxFrames)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t := &task{ctx: ctx, req: req, done: make(chan outcome, 1)}

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return nil, ErrClosed
	}
	select {
	case p.tasks <- t:
		p.mu.RUnlock()
	case <-ctx.Done():
		p.mu.RUnlock()
		return nil, ctx.Err()
	}

	budget := time.NewTimer(p.cfg.JobTimeout)
	defer budget.Stop()

	select {
	case out := <-t.done:
		return out.res, out.err
	case <-budget.C:
		if p.abandon(t) {
			return nil, fmt.Errorf("%w (%s)", ErrJobTimeout, p.cfg.JobTimeout)
		}
	case <-ctx.Done():
		if p.abandon(t) {
			return nil, ctx.Err()
		}
	}

	out := <-t.done
	return out.res, out.err
}

// Close stops accepting jobs and waits for every worker to exit.
func (p *Pool) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()
	return p.group.Wait()
}

// Workers returns the number of workers currently running.
func (p *Pool) Workers() int {
	return int(p.live.Load())
}

// Retired returns how many workers were retired after overrunning a job.
func (p *Pool) Retired() int {
	return int(p.retired.Load())
}

// abandon gives up on t. It reports false when t already finished.
func (p *Pool) abandon(t *task) bool {
	if t.state.CompareAndSwap(taskPending, taskAbandoned) {
		return true
	}
	if t.state.CompareAndSwap(taskRunning, taskAbandoned) {
		p.log.Warn("Abandoning running job, replacing worker",
			"family", t.req.Family,
			"frames", t.req.Frames)
		p.spawn()
		return true
	}
	return false
}

func (p *Pool) spawn() {
	id := p.nextID.Add(1)
	p.live.Add(1)
	p.group.Go(func() error {
		defer p.live.Add(-1)
		p.work(id)
		return nil
	})
}

func (p *Pool) work(id int64) {
	// Never unlocked: a retired worker takes its thread down with it.
	runtime.LockOSThread()

	log := p.log.With("worker", id)
	log.Debug("Worker started")

	w := job.NewWorker(p.loaders)
	for t := range p.tasks {
		if !t.state.CompareAndSwap(taskPending, taskRunning) {
			continue
		}

		res, err := w.Execute(t.ctx, t.req)

		if !t.state.CompareAndSwap(taskRunning, taskFinished) {
			p.retired.Add(1)
			log.Warn("Worker retired", "family", t.req.Family, "frames", t.req.Frames, "error", err)
			return
		}

		if res != nil {
			res = res.Move()
		}
		t.done <- outcome{res: res, err: err}
	}

	log.Debug("Worker stopped")
}
