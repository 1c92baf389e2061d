// Command bitcontend hammers a shared bitmap with bit-set operations from
// many threads and prints the throughput seen by the first thread.
//
// With no flags it runs the default experiment forever:
//
//	$ bitcontend
//	38 M iter per sec per thread (max observed: 38 M)
//	41 M iter per sec per thread (max observed: 41 M)
//	...
//
// Interrupting the process stops the workers at their next report boundary
// and logs a summary.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexflint/go-arg"
	"github.com/anacrolix/log"
	"github.com/dustin/go-humanize"
	"github.com/zeebo/errs/v2"

	"github.com/histdb/bitcontend/bts"
	"github.com/histdb/bitcontend/index"
	"github.com/histdb/bitcontend/launch"
)

type args struct {
	Threads     int          `arg:"-t" help:"number of worker threads"`
	Size        string       `arg:"-s" help:"bitmap size such as 4KiB, 512MiB when unset"`
	Strategy    bts.Strategy `help:"bit set strategy: atomic or manual"`
	Mode        index.Mode   `help:"index mode: constant or random"`
	ReportEvery uint64       `arg:"--report-every" help:"iterations between throughput lines"`
	Iterations  uint64       `help:"iterations per worker, 0 runs until interrupted"`
	Pin         bool         `help:"pin each worker to its own cpu"`
}

func main() {
	if err := mainErr(); err != nil {
		if errors.Is(err, arg.ErrHelp) {
			return
		}
		log.Levelf(log.Error, "fatal error: %v", err)
		os.Exit(1)
	}
}

// parseArgs overrides launch.Default with any flags given. On --help the
// usage is written to stdout and arg.ErrHelp is returned.
func parseArgs(argv []string) (launch.Config, error) {
	cfg := launch.Default()

	a := args{
		Threads:     cfg.Threads,
		Strategy:    cfg.Strategy,
		Mode:        cfg.Mode,
		ReportEvery: cfg.ReportEvery,
	}

	p, err := arg.NewParser(arg.Config{Program: "bitcontend"}, &a)
	if err != nil {
		return launch.Config{}, errs.Wrap(err)
	}
	if err := p.Parse(argv); err != nil {
		if errors.Is(err, arg.ErrHelp) {
			p.WriteHelp(os.Stdout)
			return launch.Config{}, err
		}
		return launch.Config{}, errs.Wrap(err)
	}

	if a.Size != "" {
		size, err := humanize.ParseBytes(a.Size)
		if err != nil {
			return launch.Config{}, errs.Errorf("parsing size %q: %v", a.Size, err)
		}
		cfg.BitmapSize = size
	}

	cfg.Threads = a.Threads
	cfg.Strategy = a.Strategy
	cfg.Mode = a.Mode
	cfg.ReportEvery = a.ReportEvery
	cfg.Iterations = a.Iterations
	cfg.Pin = a.Pin
	return cfg, nil
}

func mainErr() error {
	cfg, err := parseArgs(os.Args[1:])
	if err != nil {
		return err
	}
	cfg.Out = os.Stdout

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Levelf(log.Info, "running %d threads over %s (%s bits), %v strategy, %v index, native=%v",
		cfg.Threads, humanize.IBytes(cfg.BitmapSize), humanize.Comma(int64(cfg.BitmapSize*8)),
		cfg.Strategy, cfg.Mode, bts.Native)

	sum, err := launch.Run(ctx, cfg)
	if err != nil {
		return err
	}

	log.Levelf(log.Info, "%s iterations in %v over %d threads, %s bits set",
		humanize.Comma(int64(sum.Total())), sum.Elapsed, len(sum.Results),
		humanize.Comma(int64(sum.SetBits)))
	if sum.Indices != nil && sum.Indices.GetCardinality() <= 16 {
		log.Levelf(log.Info, "set bits: %v", sum.Indices.ToArray())
	}
	for _, r := range sum.Results {
		log.Levelf(log.Debug, "worker %d: %s iterations in %v", r.ID,
			humanize.Comma(int64(r.Iterations)), r.Elapsed)
	}
	return nil
}
