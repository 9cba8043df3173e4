package telemetry

import (
	"context"
	"log/slog"
	"time"

	"github.com/viant/vecbench/internal/logger"
)

// Usage is the resource cost of one measured call.
type Usage struct {
	Elapsed time.Duration
	// MemoryDeltaBytes is the change in resident memory; it can be negative.
	MemoryDeltaBytes int64
	// CPUPercent is CPU time over wall time, so it exceeds 100 when the call
	// keeps more than one core busy.
	CPUPercent float64
}

// Reporter measures calls with a Sampler.
type Reporter struct {
	sampler Sampler
	log     *slog.Logger
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithSampler replaces the default procfs sampler.
func WithSampler(s Sampler) Option {
	return func(r *Reporter) { r.sampler = s }
}

// WithLogger sets the logger used for sampling failures and usage lines.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reporter) { r.log = l }
}

// NewReporter creates a reporter backed by ProcSampler unless overridden.
func NewReporter(opts ...Option) *Reporter {
	r := &Reporter{sampler: NewProcSampler(), log: logger.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Measure runs fn and reports its resource usage. fn's error is returned
// unchanged; sampling errors never fail the call.
func (r *Reporter) Measure(ctx context.Context, phase string, fn func(context.Context) error) (Usage, error) {
	before, beforeErr := r.sampler.Sample()
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	after, afterErr := r.sampler.Sample()

	u := Usage{Elapsed: elapsed}
	if beforeErr != nil || afterErr != nil {
		r.log.Warn("resource sampling failed", "phase", phase, "before", beforeErr, "after", afterErr)
		return u, err
	}
	u.MemoryDeltaBytes = int64(after.RSS) - int64(before.RSS)
	wall := after.At.Sub(before.At).Seconds()
	if wall <= 0 {
		wall = elapsed.Seconds()
	}
	if wall > 0 {
		u.CPUPercent = (after.CPUSeconds - before.CPUSeconds) / wall * 100
	}
	r.log.Info("resource usage",
		"phase", phase,
		"elapsed", u.Elapsed,
		"memory_delta_bytes", u.MemoryDeltaBytes,
		"cpu_percent", u.CPUPercent,
	)
	return u, err
}
