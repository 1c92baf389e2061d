// Package worker runs the contended bit-set loop and samples its throughput.
package worker

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/bits"
	"time"

	"github.com/histdb/bitcontend"
	"github.com/histdb/bitcontend/bitmap"
	"github.com/histdb/bitcontend/bts"
	"github.com/histdb/bitcontend/index"
)

// Config describes one worker.
type Config struct {
	// ID is the worker number. Only worker 0 reports samples.
	ID int

	Strategy bts.Strategy
	Mode     index.Mode

	// Seed is the initial index state. Zero seeds from the cycle counter.
	Seed uint64

	// ReportEvery is the number of iterations between samples and between
	// checks of the context. Zero uses bitcontend.ReportEvery.
	ReportEvery uint64

	// Iterations bounds the run. Zero runs until the context is done.
	Iterations uint64

	// Out receives one line per sample from worker 0. Write errors are
	// ignored.
	Out io.Writer

	// OnSample, if set, is called by worker 0 after every sample.
	OnSample func(Sample)
}

// Sample is one throughput measurement taken by worker 0.
type Sample struct {
	Iterations uint64        // total iterations so far
	Elapsed    time.Duration // since the previous sample
	Rate       uint64        // millions of iterations per second
	Max        uint64        // highest Rate so far
}

func (s Sample) String() string {
	return fmt.Sprintf("%d M iter per sec per thread (max observed: %d M)", s.Rate, s.Max)
}

// Result summarizes a finished worker.
type Result struct {
	ID         int
	Iterations uint64
	Elapsed    time.Duration
	Max        uint64
}

// rate returns millions of iterations per second, truncated. That is the
// same as iterations per microsecond, so it is iters*1000/ns in integers.
func rate(iters uint64, elapsed time.Duration) uint64 {
	ns := uint64(max(elapsed, 1))
	hi, lo := bits.Mul64(iters, 1000)
	if hi >= ns {
		return math.MaxUint64
	}
	q, _ := bits.Div64(hi, lo, ns)
	return q
}

// Run sets bits in h until cfg.Iterations is reached or ctx is done. The
// context is only looked at every cfg.ReportEvery iterations, so
// cancellation takes effect at the next report boundary.
//
// h must stay valid until Run returns.
func Run(ctx context.Context, h bitmap.Handle, cfg Config) Result {
	if !h.Valid() {
		panic("worker: invalid bitmap handle")
	}

	every := cfg.ReportEvery
	if every == 0 {
		every = bitcontend.ReportEvery
	}
	limit := cfg.Iterations
	if limit == 0 {
		limit = math.MaxUint64
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = index.Seed(cfg.ID)
	}

	var (
		base     = h.Base()
		src      = index.NewSource(cfg.Mode, seed, h.Bits())
		atomic   = cfg.Strategy == bts.Atomic
		reporter = cfg.ID == 0

		start = time.Now()
		prev  = start
		iter  uint64
		best  uint64
		next  = every
		stop  = min(next, limit)
	)

	for {
		if atomic {
			bts.SetAtomic(base, src.Next())
		} else {
			bts.SetManual(base, src.Next())
		}

		iter++
		if iter != stop {
			continue
		}

		if iter == next {
			if reporter {
				now := time.Now()
				s := Sample{Iterations: iter, Elapsed: now.Sub(prev)}
				s.Rate = rate(every, s.Elapsed)
				best = max(best, s.Rate)
				s.Max = best

				if cfg.Out != nil {
					_, _ = fmt.Fprintln(cfg.Out, s)
				}
				if cfg.OnSample != nil {
					cfg.OnSample(s)
				}
				prev = time.Now()
			}
			if next <= math.MaxUint64-every {
				next += every
			}
		}

		if iter == limit || ctx.Err() != nil {
			break
		}
		stop = min(next, limit)
	}

	return Result{
		ID:         cfg.ID,
		Iterations: iter,
		Elapsed:    time.Since(start),
		Max:        best,
	}
}
