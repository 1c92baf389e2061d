package launch

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/zeebo/assert"

	"github.com/histdb/bitcontend"
	"github.com/histdb/bitcontend/bts"
	"github.com/histdb/bitcontend/index"
	"github.com/histdb/bitcontend/worker"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, cfg.Threads, 20)
	assert.Equal(t, cfg.BitmapSize, uint64(512*1024*1024))
	assert.Equal(t, cfg.ReportEvery, uint64(bitcontend.ReportEvery))
	assert.Equal(t, cfg.Strategy, bts.Atomic)
	assert.Equal(t, cfg.Mode, index.Constant)
	assert.Equal(t, cfg.Iterations, uint64(0))
	assert.NoError(t, cfg.validate())
}

func TestValidate(t *testing.T) {
	ok := Config{Threads: 1, BitmapSize: 8, ReportEvery: 1}
	assert.NoError(t, ok.validate())

	for _, mut := range []func(*Config){
		func(c *Config) { c.Threads = 0 },
		func(c *Config) { c.BitmapSize = 0 },
		func(c *Config) { c.ReportEvery = 0 },
		func(c *Config) { c.Strategy = 9 },
		func(c *Config) { c.Mode = 9 },
	} {
		cfg := ok
		mut(&cfg)
		_, err := Run(context.Background(), cfg)
		assert.Error(t, err)
	}
}

func TestRun(t *testing.T) {
	for _, st := range []bts.Strategy{bts.Atomic, bts.Manual} {
		for _, mode := range []index.Mode{index.Constant, index.Random} {
			t.Run(st.String()+"/"+mode.String(), func(t *testing.T) {
				if st == bts.Manual && raceEnabled && !bts.Native {
					t.Skip("manual strategy races by construction")
				}

				var out bytes.Buffer
				var mu sync.Mutex
				samples := 0

				sum, err := Run(context.Background(), Config{
					Threads:     4,
					BitmapSize:  1 << 16,
					Strategy:    st,
					Mode:        mode,
					ReportEvery: 10_000,
					Iterations:  50_000,
					Out:         &out,
					OnSample: func(worker.Sample) {
						mu.Lock()
						samples++
						mu.Unlock()
					},
				})
				assert.NoError(t, err)

				assert.Equal(t, len(sum.Results), 4)
				for id, r := range sum.Results {
					assert.Equal(t, r.ID, id)
					assert.Equal(t, r.Iterations, uint64(50_000))
				}
				assert.Equal(t, sum.Total(), uint64(200_000))
				assert.That(t, sum.Elapsed > 0)

				assert.Equal(t, samples, 5)
				assert.Equal(t, strings.Count(out.String(), "\n"), 5)

				if mode == index.Constant {
					assert.Equal(t, sum.SetBits, uint64(1))
					assert.DeepEqual(t, sum.Indices.ToArray(), []uint64{index.ConstantIndex % ((1 << 16) * 8)})
				} else {
					assert.That(t, sum.SetBits > 1)
					if sum.SetBits <= maxIndices {
						assert.Equal(t, sum.Indices.GetCardinality(), sum.SetBits)
					} else {
						assert.That(t, sum.Indices == nil)
					}
				}
			})
		}
	}
}

func TestRunManyIndices(t *testing.T) {
	sum, err := Run(context.Background(), Config{
		Threads:     1,
		BitmapSize:  1 << 20,
		Mode:        index.Random,
		ReportEvery: 1 << 20,
		Iterations:  1 << 20,
	})
	assert.NoError(t, err)
	assert.That(t, sum.SetBits > maxIndices)
	assert.That(t, sum.Indices == nil)
}

func TestRunPinned(t *testing.T) {
	sum, err := Run(context.Background(), Config{
		Threads:     2,
		BitmapSize:  1 << 10,
		ReportEvery: 1000,
		Iterations:  1000,
		Pin:         true,
	})
	assert.NoError(t, err)
	assert.Equal(t, sum.Total(), uint64(2000))
}

func TestRunCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	sum, err := Run(ctx, Config{
		Threads:     3,
		BitmapSize:  1 << 12,
		Mode:        index.Random,
		ReportEvery: 10_000,
	})
	assert.NoError(t, err)
	assert.Equal(t, len(sum.Results), 3)
	for _, r := range sum.Results {
		assert.That(t, r.Iterations > 0)
		assert.Equal(t, r.Iterations%10_000, uint64(0))
	}
}
