package filter

import (
	"fmt"
	"strings"

	"github.com/pemistahl/lingua-go"

	"github.com/cognicore/bitext/pkg/bitext/record"
)

// ParseLanguage resolves a language by English name ("German") or by
// ISO 639-1 / 639-3 code ("de", "deu"), case-insensitively.
func ParseLanguage(name string) (lingua.Language, error) {
	name = strings.TrimSpace(name)
	for _, lang := range lingua.AllLanguages() {
		if strings.EqualFold(lang.String(), name) ||
			strings.EqualFold(lang.IsoCode639_1().String(), name) ||
			strings.EqualFold(lang.IsoCode639_3().String(), name) {
			return lang, nil
		}
	}
	return lingua.Unknown, fmt.Errorf("unknown language %q", name)
}

// LanguageID keeps records whose source text is detected as target.
// Text for which no language can be detected is dropped.
//
// By default the detector considers every supported language. Passing
// candidates narrows it down; at least two are needed, and the target is
// always included.
func LanguageID(target string, candidates ...string) (Predicate, error) {
	want, err := ParseLanguage(target)
	if err != nil {
		return nil, err
	}

	var builder lingua.LanguageDetectorBuilder
	if len(candidates) == 0 {
		builder = lingua.NewLanguageDetectorBuilder().FromAllLanguages()
	} else {
		langs := []lingua.Language{want}
		seen := map[lingua.Language]bool{want: true}
		for _, c := range candidates {
			lang, err := ParseLanguage(c)
			if err != nil {
				return nil, err
			}
			if !seen[lang] {
				seen[lang] = true
				langs = append(langs, lang)
			}
		}
		if len(langs) < 2 {
			return nil, fmt.Errorf("language detection needs at least two candidate languages, got %d", len(langs))
		}
		builder = lingua.NewLanguageDetectorBuilder().FromLanguages(langs...)
	}
	detector := builder.Build()

	return func(r record.Record) bool {
		got, ok := detector.DetectLanguageOf(r.Text)
		return ok && got == want
	}, nil
}
