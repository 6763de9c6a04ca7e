package pipeline

import (
	"github.com/cognicore/bitext/pkg/bitext/clean"
	"github.com/cognicore/bitext/pkg/bitext/dedup"
	"github.com/cognicore/bitext/pkg/bitext/filter"
)

// Default thresholds of the stock pipeline.
const (
	DefaultMinWords       = 5
	DefaultMaxWords       = 40
	DefaultLengthRatio    = 0.8
	DefaultLongWordLength = 30
)

// Default returns the stock cleaning chain: whitespace, source dedup,
// word length, word length ratio, long words, diacritics.
func Default() []Stage {
	length, err := filter.Length(DefaultMinWords, DefaultMaxWords, filter.Word)
	if err != nil {
		panic(err)
	}
	ratio, err := filter.LengthRatio(DefaultLengthRatio, filter.Word)
	if err != nil {
		panic(err)
	}
	longWord, err := filter.LongWord(DefaultLongWordLength)
	if err != nil {
		panic(err)
	}

	return []Stage{
		Cleaner("whitespace_cleaner", clean.Func(clean.Whitespace).Record),
		Dedup("source_dedup", dedup.New(dedup.Source)),
		Filter("length_filter", length).WithParams(map[string]string{"min": "5", "max": "40", "unit": "word"}),
		Filter("length_ratio_filter", ratio).WithParams(map[string]string{"threshold": "0.8", "unit": "word"}),
		Filter("long_word_filter", longWord).WithParams(map[string]string{"threshold": "30"}),
		Cleaner("diacritics_cleaner", clean.Func(clean.Diacritics).Record),
	}
}
