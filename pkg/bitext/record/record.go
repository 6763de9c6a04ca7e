package record

import (
	"errors"
	"unicode/utf8"
)

// Record is one aligned source/target segment pair.
//
// Records are plain values. Stages receive a copy and return a new value,
// so a record held by one stage is never changed by another.
type Record struct {
	Text                string
	Language            string // optional, empty when unknown
	Translation         string
	HasTranslation      bool   // false for monolingual records
	TranslationLanguage string // optional, empty when unknown
}

// New creates a monolingual record.
func New(text string) Record {
	return Record{Text: text}
}

// NewPair creates a record carrying both segments.
func NewPair(text, translation string) Record {
	return Record{Text: text, Translation: translation, HasTranslation: true}
}

// WithLanguages returns a copy tagged with the given language codes.
func (r Record) WithLanguages(src, trg string) Record {
	r.Language = src
	r.TranslationLanguage = trg
	return r
}

// Map applies fn to Text and, when present, to Translation.
func (r Record) Map(fn func(string) string) Record {
	r.Text = fn(r.Text)
	if r.HasTranslation {
		r.Translation = fn(r.Translation)
	}
	return r
}

// TranslationOrEmpty returns the translation, or "" when absent.
func (r Record) TranslationOrEmpty() string {
	if !r.HasTranslation {
		return ""
	}
	return r.Translation
}

// Validate checks that the segments are valid UTF-8
func (r Record) Validate() error {
	if !utf8.ValidString(r.Text) {
		return errors.New("record text is not valid UTF-8")
	}
	if r.HasTranslation && !utf8.ValidString(r.Translation) {
		return errors.New("record translation is not valid UTF-8")
	}
	return nil
}

// Texts returns the source segments of a batch, in order.
func Texts(batch []Record) []string {
	out := make([]string, len(batch))
	for i, r := range batch {
		out[i] = r.Text
	}
	return out
}
