package pipeline

import (
	"context"
	"fmt"
	"maps"

	"github.com/cognicore/bitext/internal/parallel"
	"github.com/cognicore/bitext/pkg/bitext/record"
)

// Kind tags how a stage treats the batch.
type Kind int

const (
	// KindClean rewrites every record and never drops one.
	KindClean Kind = iota
	// KindFilter keeps the records its predicate accepts.
	KindFilter
	// KindDedup drops repeated keys; it runs sequentially.
	KindDedup
)

func (k Kind) String() string {
	switch k {
	case KindClean:
		return "clean"
	case KindFilter:
		return "filter"
	case KindDedup:
		return "dedup"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Deduplicator is the order dependent stage implementation.
type Deduplicator interface {
	Deduplicate(ctx context.Context, batch []record.Record) ([]record.Record, error)
}

// Stage is one named step of a pipeline. Exactly one of the behaviour
// fields is set, matching Kind.
type Stage struct {
	Name   string
	Kind   Kind
	Params map[string]string

	clean  func(record.Record) record.Record
	accept func(record.Record) bool
	dedup  Deduplicator
}

// Cleaner builds a clean stage.
func Cleaner(name string, fn func(record.Record) record.Record) Stage {
	return Stage{Name: name, Kind: KindClean, clean: fn}
}

// Filter builds a filter stage.
func Filter(name string, accept func(record.Record) bool) Stage {
	return Stage{Name: name, Kind: KindFilter, accept: accept}
}

// Dedup builds a deduplication stage.
func Dedup(name string, d Deduplicator) Stage {
	return Stage{Name: name, Kind: KindDedup, dedup: d}
}

// WithParams returns a copy of the stage annotated with the parameters it
// was built from.
func (s Stage) WithParams(params map[string]string) Stage {
	s.Params = maps.Clone(params)
	return s
}

func (s Stage) valid() bool {
	switch s.Kind {
	case KindClean:
		return s.clean != nil
	case KindFilter:
		return s.accept != nil
	case KindDedup:
		return s.dedup != nil
	}
	return false
}

// Apply runs one stage over the whole batch. Clean and filter stages spread
// records over up to workers goroutines and keep input order; dedup stages
// run as a single ordered scan. The input slice is not modified.
func Apply(ctx context.Context, s Stage, batch []record.Record, workers int) ([]record.Record, error) {
	if !s.valid() {
		return nil, fmt.Errorf("stage %q: no implementation for kind %s", s.Name, s.Kind)
	}
	if len(batch) == 0 {
		return batch, nil
	}

	switch s.Kind {
	case KindClean:
		out := make([]record.Record, len(batch))
		err := parallel.ForEachChunk(ctx, len(batch), workers, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				out[i] = s.clean(batch[i])
			}
		})
		if err != nil {
			return nil, err
		}
		return out, nil

	case KindFilter:
		keep := make([]bool, len(batch))
		err := parallel.ForEachChunk(ctx, len(batch), workers, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				keep[i] = s.accept(batch[i])
			}
		})
		if err != nil {
			return nil, err
		}
		out := make([]record.Record, 0, len(batch))
		for i, ok := range keep {
			if ok {
				out = append(out, batch[i])
			}
		}
		return out, nil

	default:
		return s.dedup.Deduplicate(ctx, batch)
	}
}
