package filter

import (
	"testing"

	"github.com/pemistahl/lingua-go"

	"github.com/cognicore/bitext/pkg/bitext/record"
)

func TestParseLanguage(t *testing.T) {
	tests := map[string]lingua.Language{
		"English": lingua.English,
		"german":  lingua.German,
		"fr":      lingua.French,
		"DEU":     lingua.German,
	}
	for in, want := range tests {
		got, err := ParseLanguage(in)
		if err != nil {
			t.Errorf("ParseLanguage(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseLanguage(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := ParseLanguage("Klingon"); err == nil {
		t.Error("unknown language should fail")
	}
}

func TestLanguageIDFilter(t *testing.T) {
	p := must(t)(LanguageID("English", "French", "German"))
	recs := monolingual(
		"Some of this is bad.",
		"This is a simple test",
		"C'est une test",
		"Das ist ein test",
	)
	if got := countKept(p, recs); got != 2 {
		t.Errorf("Expected 2 survivors, got %d", got)
	}
}

func TestLanguageIDNoDetection(t *testing.T) {
	p := must(t)(LanguageID("English", "German"))
	if p(record.New("")) {
		t.Error("empty text cannot be detected and should be rejected")
	}
	if p(record.New("12345")) {
		t.Error("digits cannot be detected and should be rejected")
	}
}

func TestLanguageIDConfigErrors(t *testing.T) {
	if _, err := LanguageID("Elvish"); err == nil {
		t.Error("unknown target should fail")
	}
	if _, err := LanguageID("English", "English"); err == nil {
		t.Error("a single candidate language should fail")
	}
	if _, err := LanguageID("English", "Dothraki"); err == nil {
		t.Error("unknown candidate should fail")
	}
}

func TestLanguageIDAllLanguages(t *testing.T) {
	p := must(t)(LanguageID("German"))
	if !p(record.New("Die Häuser am Fluss sind sehr alt und wunderschön.")) {
		t.Error("German sentence should be kept")
	}
	if p(record.New("The houses by the river are very old and beautiful.")) {
		t.Error("English sentence should be dropped")
	}
}

func TestLanguageIDRepeatedCandidates(t *testing.T) {
	p := must(t)(LanguageID("English", "German", "german", "de"))
	if !p(record.New("This is a simple test")) {
		t.Error("English sentence should be kept")
	}
}
