// Package bitext cleans parallel corpora: it reads aligned source and
// target files, runs them through a configurable pipeline of cleaners,
// filters and deduplicators, writes the survivors back out and keeps a
// history of every run.
package bitext

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/cognicore/bitext/pkg/bitext/config"
	"github.com/cognicore/bitext/pkg/bitext/pipeline"
	"github.com/cognicore/bitext/pkg/bitext/record"
	"github.com/cognicore/bitext/pkg/bitext/registry"
	"github.com/cognicore/bitext/pkg/bitext/source"
	"github.com/cognicore/bitext/pkg/bitext/store"
)

// Cleaner is the main corpus cleaning facade
type Cleaner struct {
	pipeline   *pipeline.Pipeline
	store      store.Store
	ids        *store.IDs
	logger     *zap.Logger
	configPath string
}

// Options configures a Cleaner
type Options struct {
	// Config selects the stages; nil runs the default pipeline.
	Config *config.Config
	// ConfigPath is recorded with each run.
	ConfigPath string
	// Store records run history when set.
	Store  store.Store
	Logger *zap.Logger
	// Workers overrides Config.Workers when > 0.
	Workers int
}

// Result identifies a finished run
type Result struct {
	RunID  string // empty without a store
	Report pipeline.Report
}

// New resolves the configured stages and builds the pipeline. Configuration
// errors surface here, before any record is touched.
func New(opts Options) (*Cleaner, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	workers := opts.Workers
	stages := pipeline.Default()
	if cfg := opts.Config; cfg != nil {
		if workers <= 0 {
			workers = cfg.Workers
		}
		reg, err := registry.Standard(registry.StandardOptions{KeyWorkers: cfg.KeyWorkers})
		if err != nil {
			return nil, err
		}
		stages, err = reg.Resolve(cfg.Specs(reg, logger))
		if err != nil {
			return nil, err
		}
	}

	c := &Cleaner{
		pipeline:   pipeline.New(stages, pipeline.Options{Workers: workers, Logger: logger}),
		store:      opts.Store,
		logger:     logger,
		configPath: opts.ConfigPath,
	}
	if c.store != nil {
		c.ids = store.NewIDs()
	}
	return c, nil
}

// Pipeline returns the resolved pipeline.
func (c *Cleaner) Pipeline() *pipeline.Pipeline { return c.pipeline }

// Close releases the run store, if any.
func (c *Cleaner) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}

// Clean runs the pipeline over an in-memory batch.
func (c *Cleaner) Clean(ctx context.Context, batch []record.Record) ([]record.Record, Result, error) {
	id := c.begin(ctx, source.Options{})
	return c.run(ctx, id, batch, true)
}

// CleanFiles reads an aligned corpus, cleans it and writes the survivors to
// outSrc and outTrg.
func (c *Cleaner) CleanFiles(ctx context.Context, in source.Options, outSrc, outTrg string) (Result, error) {
	id := c.begin(ctx, in)

	batch, err := source.ReadAligned(ctx, in)
	if err != nil {
		c.finish(ctx, id, 0, 0, err)
		return Result{RunID: id}, err
	}

	out, res, err := c.run(ctx, id, batch, false)
	if err != nil {
		return res, err
	}

	if err := source.WriteAligned(ctx, outSrc, outTrg, out); err != nil {
		c.finish(ctx, id, len(batch), len(out), err)
		return res, err
	}
	c.finish(ctx, id, len(batch), len(out), nil)
	return res, nil
}

// run applies the pipeline and records its stages. A failed run is always
// closed; a successful one only when closeRun is set.
func (c *Cleaner) run(ctx context.Context, id string, batch []record.Record, closeRun bool) ([]record.Record, Result, error) {
	out, rep, err := c.pipeline.Run(ctx, batch)
	res := Result{RunID: id, Report: rep}
	c.recordStages(ctx, id, rep)
	if err != nil {
		c.finish(ctx, id, len(batch), 0, err)
		return nil, res, err
	}
	if closeRun {
		c.finish(ctx, id, len(batch), len(out), nil)
	}
	return out, res, nil
}

// begin opens a run record and returns its ID, or "" without a store.
func (c *Cleaner) begin(ctx context.Context, in source.Options) string {
	if c.store == nil {
		return ""
	}
	id := c.ids.New()
	run := store.Run{
		ID:         id,
		SourcePath: in.SourcePath,
		TargetPath: in.TargetPath,
		ConfigPath: c.configPath,
		StartedAt:  time.Now(),
		Status:     store.StatusRunning,
	}
	if err := c.store.CreateRun(context.WithoutCancel(ctx), run); err != nil {
		c.logger.Warn("bitext: failed to create run", zap.Error(err))
		return ""
	}
	return id
}

func (c *Cleaner) recordStages(ctx context.Context, id string, rep pipeline.Report) {
	if id == "" {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for i, sr := range rep.Stages {
		err := c.store.AddStageReport(ctx, id, store.StageReport{
			Position: i,
			Name:     sr.Name,
			Kind:     sr.Kind.String(),
			In:       sr.In,
			Out:      sr.Out,
			Duration: sr.Duration,
		})
		if err != nil {
			c.logger.Warn("bitext: failed to record stage",
				zap.String("run_id", id),
				zap.String("stage", sr.Name),
				zap.Error(err),
			)
		}
	}
}

// finish closes a run record. Cancellation is recorded as a failure.
func (c *Cleaner) finish(ctx context.Context, id string, input, output int, runErr error) {
	if id == "" {
		return
	}
	res := store.Result{
		Status:     store.StatusSucceeded,
		Input:      input,
		Output:     output,
		FinishedAt: time.Now(),
	}
	if runErr != nil {
		res.Status = store.StatusFailed
		res.Error = runErr.Error()
		if errors.Is(runErr, context.Canceled) {
			res.Error = "cancelled: " + res.Error
		}
	}
	if err := c.store.FinishRun(context.WithoutCancel(ctx), id, res); err != nil {
		c.logger.Warn("bitext: failed to finish run", zap.String("run_id", id), zap.Error(err))
	}
}
