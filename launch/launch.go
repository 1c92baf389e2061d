// Package launch allocates the shared bitmap and runs the workers against it.
package launch

import (
	"context"
	"io"
	"runtime"
	"time"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/zeebo/errs/v2"
	"golang.org/x/sync/errgroup"

	"github.com/histdb/bitcontend"
	"github.com/histdb/bitcontend/bitmap"
	"github.com/histdb/bitcontend/bts"
	"github.com/histdb/bitcontend/index"
	"github.com/histdb/bitcontend/worker"
)

// Config describes a whole run.
type Config struct {
	Threads     int
	BitmapSize  uint64
	Strategy    bts.Strategy
	Mode        index.Mode
	ReportEvery uint64
	Iterations  uint64 // per worker; zero runs until the context is done

	// Pin binds worker i to the i-th allowed CPU, wrapping around.
	Pin bool

	Out      io.Writer
	OnSample func(worker.Sample)
}

// Default returns the configuration of an unmodified run.
func Default() Config {
	cfg := Config{
		Threads:     bitcontend.Threads,
		BitmapSize:  bitcontend.BitmapSize,
		ReportEvery: bitcontend.ReportEvery,
		Strategy:    bts.Manual,
		Mode:        index.Constant,
	}
	if bitcontend.MemoryOperand {
		cfg.Strategy = bts.Atomic
	}
	if bitcontend.Randomize {
		cfg.Mode = index.Random
	}
	return cfg
}

func (c Config) validate() error {
	switch {
	case c.Threads <= 0:
		return errs.Errorf("threads must be positive: %d", c.Threads)
	case c.BitmapSize == 0:
		return errs.Errorf("bitmap size must be positive")
	case c.ReportEvery == 0:
		return errs.Errorf("report interval must be positive")
	case c.Strategy != bts.Atomic && c.Strategy != bts.Manual:
		return errs.Errorf("unknown strategy: %v", c.Strategy)
	case c.Mode != index.Constant && c.Mode != index.Random:
		return errs.Errorf("unknown index mode: %v", c.Mode)
	}
	return nil
}

// maxIndices bounds how many set bits a Summary lists individually.
const maxIndices = 1 << 16

// Summary describes a finished run.
type Summary struct {
	Results []worker.Result
	SetBits uint64
	Elapsed time.Duration

	// Indices holds every set bit when there are at most maxIndices of them,
	// which is always the case in constant mode. Otherwise it is nil.
	Indices *roaring64.Bitmap
}

// Total returns the iterations summed over every worker.
func (s Summary) Total() (n uint64) {
	for _, r := range s.Results {
		n += r.Iterations
	}
	return n
}

// Run allocates the bitmap, starts cfg.Threads workers each on its own OS
// thread, and waits for all of them. With no iteration bound and a context
// that is never done it does not return.
func Run(ctx context.Context, cfg Config) (Summary, error) {
	if err := cfg.validate(); err != nil {
		return Summary{}, err
	}

	bm, err := bitmap.New(cfg.BitmapSize)
	if err != nil {
		return Summary{}, errs.Wrap(err)
	}
	// The workers hold bm's memory through a Handle; bm is only closed after
	// the group has been waited on.
	defer func() { _ = bm.Close() }()

	var cpus []int
	if cfg.Pin {
		if cpus, err = allowedCPUs(); err != nil {
			return Summary{}, err
		}
	}

	h := bm.Handle()
	results := make([]worker.Result, cfg.Threads)

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for id := range cfg.Threads {
		g.Go(func() error {
			// a pinned thread is left locked so it exits with the goroutine
			// instead of going back to the scheduler with a narrowed mask.
			runtime.LockOSThread()
			if !cfg.Pin {
				defer runtime.UnlockOSThread()
			} else if len(cpus) > 0 {
				if err := pin(cpus[id%len(cpus)]); err != nil {
					return err
				}
			}

			results[id] = worker.Run(ctx, h, worker.Config{
				ID:          id,
				Strategy:    cfg.Strategy,
				Mode:        cfg.Mode,
				ReportEvery: cfg.ReportEvery,
				Iterations:  cfg.Iterations,
				Out:         cfg.Out,
				OnSample:    cfg.OnSample,
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	sum := Summary{
		Results: results,
		SetBits: bm.Count(),
		Elapsed: time.Since(start),
	}
	if sum.SetBits <= maxIndices {
		sum.Indices = bm.Indices()
	}
	return sum, nil
}
