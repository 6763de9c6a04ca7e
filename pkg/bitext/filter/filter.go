// Package filter holds the record predicates. A filter decides whether a
// record is kept; the state it needs is fixed at construction and only read
// afterwards, so a filter may be called from many goroutines at once.
package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/rivo/uniseg"

	"github.com/cognicore/bitext/pkg/bitext/record"
)

// Predicate reports whether a record is kept.
type Predicate func(record.Record) bool

// Unit selects how segment length is measured.
type Unit int

const (
	Char Unit = iota
	Word
)

func (u Unit) String() string {
	switch u {
	case Char:
		return "char"
	case Word:
		return "word"
	default:
		return fmt.Sprintf("unit(%d)", int(u))
	}
}

// ParseUnit accepts "char"/"character" and "word".
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "char", "chars", "character", "characters":
		return Char, nil
	case "word", "words":
		return Word, nil
	default:
		return 0, fmt.Errorf("unknown length unit %q", s)
	}
}

// Length keeps records whose source length lies in [min, max].
// Characters are counted as grapheme clusters, so a flag emoji counts once.
func Length(min, max int, unit Unit) (Predicate, error) {
	if min < 0 || max < 0 {
		return nil, fmt.Errorf("length bounds must be non-negative (min=%d, max=%d)", min, max)
	}
	if min > max {
		return nil, fmt.Errorf("min length %d exceeds max length %d", min, max)
	}
	count := graphemes
	if unit == Word {
		count = words
	}
	return func(r record.Record) bool {
		n := count(r.Text)
		return n >= min && n <= max
	}, nil
}

// LengthRatio keeps pairs whose shorter/longer length ratio is at least
// threshold. Characters are counted as bytes here, not graphemes.
// Records without a translation, or with an empty side, are dropped.
func LengthRatio(threshold float64, unit Unit) (Predicate, error) {
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("length ratio threshold %v outside [0,1]", threshold)
	}
	count := func(s string) int { return len(s) }
	if unit == Word {
		count = words
	}
	return func(r record.Record) bool {
		if !r.HasTranslation {
			return false
		}
		src, trg := count(r.Text), count(r.Translation)
		if src == 0 || trg == 0 {
			return false
		}
		return float64(min(src, trg))/float64(max(src, trg)) >= threshold
	}, nil
}

// LongWord drops records containing a space-separated token longer than
// threshold grapheme clusters.
func LongWord(threshold int) (Predicate, error) {
	if threshold < 0 {
		return nil, fmt.Errorf("long word threshold must be non-negative, got %d", threshold)
	}
	return func(r record.Record) bool {
		for _, word := range strings.Split(r.Text, " ") {
			if len(word) > threshold && graphemes(word) > threshold {
				return false
			}
		}
		return true
	}, nil
}

// RegExp keeps a record when "pattern matches the text" equals acceptOnMatch.
func RegExp(pattern string, acceptOnMatch bool) (Predicate, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile pattern: %w", err)
	}
	return func(r record.Record) bool {
		return re.MatchString(r.Text) == acceptOnMatch
	}, nil
}

// Similarity drops pairs whose two sides are nearly identical, which is
// typical of untranslated alignment noise. A pair is kept when the byte
// lengths differ by at most threshold and the edit distance exceeds it.
// Records without a translation are kept.
func Similarity(threshold int, lowercase bool) (Predicate, error) {
	if threshold < 0 {
		return nil, fmt.Errorf("similarity threshold must be non-negative, got %d", threshold)
	}
	return func(r record.Record) bool {
		if !r.HasTranslation {
			return true
		}
		src, trg := r.Text, r.Translation
		if abs(len(src)-len(trg)) > threshold {
			return false
		}
		if lowercase {
			src, trg = strings.ToLower(src), strings.ToLower(trg)
		}
		return levenshtein.ComputeDistance(src, trg) > threshold
	}, nil
}

// All combines predicates; a record is kept only if every one keeps it.
func All(preds ...Predicate) Predicate {
	return func(r record.Record) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	}
}

func graphemes(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

func words(s string) int {
	return len(strings.Fields(s))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
