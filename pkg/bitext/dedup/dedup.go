// Package dedup removes exact duplicates from a batch.
//
// Retention is order dependent: a record survives only if no earlier record
// in the same batch produced the same key. Keys may be derived on several
// goroutines, but membership is always decided by one scan in input order,
// which keeps the output identical for any worker count.
package dedup

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cognicore/bitext/internal/parallel"
	"github.com/cognicore/bitext/pkg/bitext/record"
)

// Policy selects which fields form the dedup key.
type Policy int

const (
	// Pair keys on translation followed by text.
	Pair Policy = iota
	// Source keys on the source text alone.
	Source
)

func (p Policy) String() string {
	switch p {
	case Pair:
		return "pair"
	case Source:
		return "source"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// KeySet is the set of keys seen during one deduplication call.
type KeySet struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

// NewKeySet creates an empty set sized for n keys.
func NewKeySet(n int) *KeySet {
	return &KeySet{keys: make(map[string]struct{}, n)}
}

// Insert adds key and reports whether it was absent. The lookup and the
// insert happen under one lock, so two callers racing on the same key
// cannot both see it as new.
func (s *KeySet) Insert(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.keys[key]; ok {
		return false
	}
	s.keys[key] = struct{}{}
	return true
}

// Len returns the number of distinct keys seen.
func (s *KeySet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}

// Deduplicator drops records whose key already occurred earlier in the batch.
type Deduplicator struct {
	policy    Policy
	lowercase bool
	workers   int
}

// Option configures a Deduplicator.
type Option func(*Deduplicator)

// WithLowercase folds keys to lower case before comparing.
func WithLowercase(on bool) Option {
	return func(d *Deduplicator) { d.lowercase = on }
}

// WithKeyWorkers derives keys on up to n goroutines. Membership checks stay
// sequential regardless.
func WithKeyWorkers(n int) Option {
	return func(d *Deduplicator) {
		if n > 0 {
			d.workers = n
		}
	}
}

// New creates a Deduplicator for the given policy.
func New(policy Policy, opts ...Option) *Deduplicator {
	d := &Deduplicator{policy: policy, workers: 1}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Policy returns the configured key policy.
func (d *Deduplicator) Policy() Policy { return d.policy }

// Lowercase reports whether keys are case folded.
func (d *Deduplicator) Lowercase() bool { return d.lowercase }

// Key derives the dedup key for a record.
func (d *Deduplicator) Key(r record.Record) string {
	var key string
	switch d.policy {
	case Source:
		key = r.Text
	default:
		key = r.TranslationOrEmpty() + r.Text
	}
	if d.lowercase {
		key = strings.ToLower(key)
	}
	return key
}

// Deduplicate returns the first occurrence of every key, in input order.
// The key set lives only for this call.
func (d *Deduplicator) Deduplicate(ctx context.Context, batch []record.Record) ([]record.Record, error) {
	if len(batch) == 0 {
		return batch, nil
	}

	keys, err := d.keys(ctx, batch)
	if err != nil {
		return nil, err
	}

	seen := NewKeySet(len(batch))
	out := make([]record.Record, 0, len(batch))
	for i, r := range batch {
		if seen.Insert(keys[i]) {
			out = append(out, r)
		}
	}
	return out, nil
}

// keys derives one key per record; keys[i] always belongs to batch[i].
func (d *Deduplicator) keys(ctx context.Context, batch []record.Record) ([]string, error) {
	keys := make([]string, len(batch))
	err := parallel.ForEachChunk(ctx, len(batch), d.workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			keys[i] = d.Key(batch[i])
		}
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}
