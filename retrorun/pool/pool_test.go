package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-retrorun/retrorun/config"
	"github.com/valerio/go-retrorun/retrorun/family"
	"github.com/valerio/go-retrorun/retrorun/internal/fakecore"
	"github.com/valerio/go-retrorun/retrorun/job"
	"github.com/valerio/go-retrorun/retrorun/registry"
	"github.com/valerio/go-retrorun/retrorun/retro"
)

// slowCore takes delay per frame.
type slowCore struct {
	*fakecore.Core
	delay time.Duration
}

func (s slowCore) Run() {
	time.Sleep(s.delay)
	s.Core.Run()
}

func testLoaders(constructed *atomic.Int32) registry.Loaders {
	fast := func(ctx context.Context) (retro.Core, error) {
		constructed.Add(1)
		return fakecore.New(), nil
	}
	slow := func(ctx context.Context) (retro.Core, error) {
		constructed.Add(1)
		return slowCore{Core: fakecore.New(), delay: 20 * time.Millisecond}, nil
	}
	return registry.Loaders{
		family.EngineNES:  fast,
		family.EngineSNES: slow,
		family.EngineGB:   fast,
	}
}

func newPool(t *testing.T, workers int, timeout time.Duration) (*Pool, *atomic.Int32) {
	t.Helper()
	var constructed atomic.Int32
	p := New(config.Pool{Workers: workers, JobTimeout: timeout, MaxFrames: 100}, testLoaders(&constructed))
	p.Start()
	return p, &constructed
}

func TestSubmit(t *testing.T) {
	p, constructed := newPool(t, 1, time.Second)
	defer p.Close()

	res, err := p.Submit(context.Background(), job.Request{Family: family.NES, Frames: 4, Game: []byte("rom")})
	require.NoError(t, err)
	assert.Len(t, res.Frames, 4)
	assert.NotEmpty(t, res.State)

	next, err := p.Submit(context.Background(), job.Request{Family: family.NES, Frames: 2, Game: []byte("rom"), State: res.State, GameHash: res.GameHash})
	require.NoError(t, err)
	assert.Len(t, next.Frames, 2)
	assert.Equal(t, int32(1), constructed.Load(), "single worker constructs the engine once")
}

func TestSubmit_Parallel(t *testing.T) {
	const workers = 4
	p, constructed := newPool(t, workers, 5*time.Second)
	defer p.Close()

	var wg sync.WaitGroup
	for i := 0; i < 3*workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := p.Submit(context.Background(), job.Request{Family: family.GB, Frames: i % 5, Game: []byte("rom")})
			if assert.NoError(t, err) {
				assert.Len(t, res.Frames, i%5)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, constructed.Load(), int32(workers), "at most one engine per worker")
	assert.Equal(t, workers, p.Workers())
}

func TestSubmit_TooManyFrames(t *testing.T) {
	p, constructed := newPool(t, 1, time.Second)
	defer p.Close()

	_, err := p.Submit(context.Background(), job.Request{Family: family.NES, Frames: 101, Game: []byte("rom")})
	assert.True(t, errors.Is(err, ErrTooManyFrames))
	assert.Equal(t, int32(0), constructed.Load())
}

func TestSubmit_JobError(t *testing.T) {
	p, _ := newPool(t, 1, time.Second)
	defer p.Close()

	_, err := p.Submit(context.Background(), job.Request{Family: family.Family(9), Frames: 1})
	assert.True(t, errors.Is(err, family.ErrUnknownFamily))
	assert.Equal(t, 0, p.Retired())
}

func TestSubmit_Timeout(t *testing.T) {
	p, _ := newPool(t, 1, 30*time.Millisecond)
	defer p.Close()

	_, err := p.Submit(context.Background(), job.Request{Family: family.SNES, Frames: 10, Game: []byte("rom")})
	assert.True(t, errors.Is(err, ErrJobTimeout))

	// the replacement worker serves new jobs while the old one finishes
	res, err := p.Submit(context.Background(), job.Request{Family: family.NES, Frames: 1, Game: []byte("rom")})
	require.NoError(t, err)
	assert.Len(t, res.Frames, 1)

	assert.Eventually(t, func() bool {
		return p.Retired() == 1 && p.Workers() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSubmit_ContextCancelled(t *testing.T) {
	p, _ := newPool(t, 1, time.Second)
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Submit(ctx, job.Request{Family: family.NES, Frames: 1, Game: []byte("rom")})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClose(t *testing.T) {
	p, _ := newPool(t, 2, time.Second)
	require.NoError(t, p.Close())
	assert.Equal(t, 0, p.Workers())

	_, err := p.Submit(context.Background(), job.Request{Family: family.NES, Frames: 1})
	assert.True(t, errors.Is(err, ErrClosed))
	assert.NoError(t, p.Close())
}
