package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cognicore/bitext/internal/parallel"
	"github.com/cognicore/bitext/pkg/bitext/record"
)

// Pipeline applies an ordered list of stages to a batch.
type Pipeline struct {
	stages  []Stage
	workers int
	logger  *zap.Logger
}

// Options configures a Pipeline
type Options struct {
	// Workers bounds per-record parallelism; <= 0 means GOMAXPROCS.
	Workers int
	Logger  *zap.Logger
}

// New creates a pipeline over the given stages
func New(stages []Stage, opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		stages:  append([]Stage(nil), stages...),
		workers: parallel.Workers(opts.Workers),
		logger:  logger,
	}
}

// Stages returns the configured stages in execution order.
func (p *Pipeline) Stages() []Stage {
	return append([]Stage(nil), p.stages...)
}

// StageReport summarises one stage of a run.
type StageReport struct {
	Name     string
	Kind     Kind
	In       int
	Out      int
	Duration time.Duration
}

// Dropped returns the number of records the stage removed.
func (r StageReport) Dropped() int { return r.In - r.Out }

// Report summarises a whole run.
type Report struct {
	Input    int
	Output   int
	Stages   []StageReport
	Duration time.Duration
}

// Run applies every stage in order. Each stage finishes the whole batch
// before the next starts. The context is checked between stages only: a
// stage is never left half applied.
func (p *Pipeline) Run(ctx context.Context, batch []record.Record) ([]record.Record, Report, error) {
	start := time.Now()
	rep := Report{Input: len(batch), Stages: make([]StageReport, 0, len(p.stages))}

	cur := batch
	for _, s := range p.stages {
		if err := ctx.Err(); err != nil {
			return nil, rep, fmt.Errorf("before stage %q: %w", s.Name, err)
		}

		stageStart := time.Now()
		next, err := Apply(context.WithoutCancel(ctx), s, cur, p.workers)
		if err != nil {
			p.logger.Error("pipeline: stage failed", zap.String("stage", s.Name), zap.Error(err))
			return nil, rep, fmt.Errorf("stage %q: %w", s.Name, err)
		}

		sr := StageReport{
			Name:     s.Name,
			Kind:     s.Kind,
			In:       len(cur),
			Out:      len(next),
			Duration: time.Since(stageStart),
		}
		rep.Stages = append(rep.Stages, sr)
		p.logger.Info("pipeline: stage complete",
			zap.String("stage", sr.Name),
			zap.Stringer("kind", sr.Kind),
			zap.Int("in", sr.In),
			zap.Int("out", sr.Out),
			zap.Int64("duration_ms", sr.Duration.Milliseconds()),
		)
		cur = next
	}

	rep.Output = len(cur)
	rep.Duration = time.Since(start)
	return cur, rep, nil
}
