package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/qc-tracker/internal/metrics"
	"github.com/Spok95/qc-tracker/internal/observability"
)

type Job func(ctx context.Context) error

type Runner struct {
	ctx context.Context
	log *zap.Logger
	wg  sync.WaitGroup
}

func New(ctx context.Context, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{ctx: ctx, log: log}
}

// Every runs fn on each tick until the runner's context ends.
func (r *Runner) Every(interval time.Duration, name string, fn Job) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-r.ctx.Done():
				return
			case <-t.C:
				r.run(name, fn)
			}
		}
	}()
}

func (r *Runner) run(name string, fn Job) {
	defer observability.RecoverAs("job " + name)
	start := time.Now()
	err := fn(r.ctx)
	metrics.ObserveJob(name, start, err)
	if err != nil {
		r.log.Warn("job failed", zap.String("job", name), zap.Error(err))
		observability.CaptureWith(err, map[string]string{"job": name})
	}
}

// Wait blocks until every job loop has returned.
func (r *Runner) Wait() { r.wg.Wait() }
