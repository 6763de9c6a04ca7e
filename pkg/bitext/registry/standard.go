package registry

import (
	"github.com/cognicore/bitext/pkg/bitext/clean"
	"github.com/cognicore/bitext/pkg/bitext/dedup"
	"github.com/cognicore/bitext/pkg/bitext/filter"
	"github.com/cognicore/bitext/pkg/bitext/pipeline"
)

// StandardOptions tunes the built-in stages.
type StandardOptions struct {
	// KeyWorkers is passed to dedup stages for key derivation.
	KeyWorkers int
}

// Standard returns a registry holding every built-in stage.
//
// Defaults match the stock pipeline (5..40 words, ratio 0.8, long words
// over 30 graphemes, similarity threshold 2). regexp_filter needs a
// pattern and langid_filter a language; there is no sensible default.
func Standard(opts StandardOptions) (*Registry, error) {
	return NewBuilder().
		Register("whitespace_cleaner", cleaner(clean.Whitespace)).
		Register("diacritics_cleaner", cleaner(clean.Diacritics)).
		Register("html_entity_cleaner", cleaner(clean.HTMLEntities)).
		Register("html_filter", cleaner(clean.HTMLTags)).
		Register("length_filter", lengthFilter).
		Register("length_ratio_filter", lengthRatioFilter).
		Register("long_word_filter", longWordFilter).
		Register("regexp_filter", regexpFilter).
		Register("langid_filter", langIDFilter).
		Register("similarity_filter", similarityFilter).
		Register("pair_dedup", dedupStage(dedup.Pair, opts.KeyWorkers)).
		Register("source_dedup", dedupStage(dedup.Source, opts.KeyWorkers)).
		Build()
}

func cleaner(fn clean.Func) Factory {
	return func(p *Params) (pipeline.Stage, error) {
		return pipeline.Cleaner(p.Stage(), fn.Record), nil
	}
}

func lengthFilter(p *Params) (pipeline.Stage, error) {
	minLen, err := p.IntOr("min", pipeline.DefaultMinWords)
	if err != nil {
		return pipeline.Stage{}, err
	}
	maxLen, err := p.IntOr("max", pipeline.DefaultMaxWords)
	if err != nil {
		return pipeline.Stage{}, err
	}
	unit, err := p.UnitOr("unit", filter.Word)
	if err != nil {
		return pipeline.Stage{}, err
	}
	pred, err := filter.Length(minLen, maxLen, unit)
	if err != nil {
		return pipeline.Stage{}, err
	}
	return pipeline.Filter(p.Stage(), pred), nil
}

func lengthRatioFilter(p *Params) (pipeline.Stage, error) {
	threshold, err := p.FloatOr("threshold", pipeline.DefaultLengthRatio)
	if err != nil {
		return pipeline.Stage{}, err
	}
	unit, err := p.UnitOr("unit", filter.Word)
	if err != nil {
		return pipeline.Stage{}, err
	}
	pred, err := filter.LengthRatio(threshold, unit)
	if err != nil {
		return pipeline.Stage{}, p.invalid("threshold", err)
	}
	return pipeline.Filter(p.Stage(), pred), nil
}

func longWordFilter(p *Params) (pipeline.Stage, error) {
	threshold, err := p.IntOr("threshold", pipeline.DefaultLongWordLength)
	if err != nil {
		return pipeline.Stage{}, err
	}
	pred, err := filter.LongWord(threshold)
	if err != nil {
		return pipeline.Stage{}, p.invalid("threshold", err)
	}
	return pipeline.Filter(p.Stage(), pred), nil
}

func regexpFilter(p *Params) (pipeline.Stage, error) {
	pattern, err := p.String("pattern")
	if err != nil {
		return pipeline.Stage{}, err
	}
	accept, err := p.BoolOr("accept", true)
	if err != nil {
		return pipeline.Stage{}, err
	}
	pred, err := filter.RegExp(pattern, accept)
	if err != nil {
		return pipeline.Stage{}, p.invalid("pattern", err)
	}
	return pipeline.Filter(p.Stage(), pred), nil
}

func langIDFilter(p *Params) (pipeline.Stage, error) {
	lang, err := p.String("language")
	if err != nil {
		return pipeline.Stage{}, err
	}
	pred, err := filter.LanguageID(lang, p.List("candidates")...)
	if err != nil {
		return pipeline.Stage{}, p.invalid("language", err)
	}
	return pipeline.Filter(p.Stage(), pred), nil
}

func similarityFilter(p *Params) (pipeline.Stage, error) {
	threshold, err := p.IntOr("threshold", 2)
	if err != nil {
		return pipeline.Stage{}, err
	}
	lowercase, err := p.BoolOr("lowercase", false)
	if err != nil {
		return pipeline.Stage{}, err
	}
	pred, err := filter.Similarity(threshold, lowercase)
	if err != nil {
		return pipeline.Stage{}, p.invalid("threshold", err)
	}
	return pipeline.Filter(p.Stage(), pred), nil
}

func dedupStage(policy dedup.Policy, keyWorkers int) Factory {
	return func(p *Params) (pipeline.Stage, error) {
		lowercase, err := p.BoolOr("lowercase", false)
		if err != nil {
			return pipeline.Stage{}, err
		}
		d := dedup.New(policy, dedup.WithLowercase(lowercase), dedup.WithKeyWorkers(keyWorkers))
		return pipeline.Dedup(p.Stage(), d), nil
	}
}
