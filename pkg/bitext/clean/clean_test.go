package clean

import (
	"strings"
	"testing"

	"github.com/cognicore/bitext/pkg/bitext/record"
)

func TestWhitespace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"123  123     123", "123 123 123"},
		{"123 123", "123 123"},
		{"", ""},
		{"   ", " "},
		{"tab\t\tstays", "tab\t\tstays"},
		{"line\n\nbreaks  too", "line\n\nbreaks too"},
	}

	for _, tt := range tests {
		if got := Whitespace(tt.in); got != tt.want {
			t.Errorf("Whitespace(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if twice := Whitespace(Whitespace(tt.in)); twice != Whitespace(tt.in) {
			t.Errorf("Whitespace not idempotent on %q", tt.in)
		}
	}
}

func TestWhitespaceRecord(t *testing.T) {
	r := Func(Whitespace).Record(record.NewPair("a  b", "c   d"))
	if r.Text != "a b" || r.Translation != "c d" {
		t.Errorf("unexpected record: %+v", r)
	}
}

func TestDiacritics(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abcde", "abcde"},
		{"äöüéàõ", "aoueao"},
		{"Crème Brûlée", "Creme Brulee"},
		{"コココ", "コココ"},
		{"한국어", "한국어"},
		{"ß", "ß"},
	}

	for _, tt := range tests {
		got := Diacritics(tt.in)
		if got != tt.want {
			t.Errorf("Diacritics(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if again := Diacritics(got); again != got {
			t.Errorf("Diacritics not idempotent: %q -> %q", got, again)
		}
	}
}

func TestDiacriticsKeepsStandaloneMarks(t *testing.T) {
	// "e" followed by a combining acute accent: nothing decomposes here.
	in := "e\u0301"
	if got := Diacritics(in); got != in {
		t.Errorf("Diacritics(%q) = %q, want unchanged", in, got)
	}
}

func TestHTMLEntities(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Tom &amp; Jerry", "Tom & Jerry"},
		{"1 &lt; 2 &gt; 0", "1 < 2 > 0"},
		{"&#39;quoted&#x27;", "'quoted'"},
		{"no entities here", "no entities here"},
		{"&amp;amp;", "&"},
		{"AT&T", "AT&T"},
	}

	for _, tt := range tests {
		got := HTMLEntities(tt.in)
		if got != tt.want {
			t.Errorf("HTMLEntities(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if again := HTMLEntities(got); again != got {
			t.Errorf("HTMLEntities not idempotent: %q -> %q", got, again)
		}
	}
}

func TestHTMLEntitiesDeepNesting(t *testing.T) {
	in := "&" + strings.Repeat("amp;", 10) + "lt;"
	got := HTMLEntities(in)
	if got != "<" {
		t.Errorf("HTMLEntities(%q) = %q, want %q", in, got, "<")
	}
	if again := HTMLEntities(got); again != got {
		t.Errorf("HTMLEntities not idempotent: %q -> %q", got, again)
	}
}

func TestHTMLTags(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<b>bold</b> text", "bold text"},
		{"<P class=\"x\">para</p>", "para"},
		{"line<br/>break", "linebreak"},
		{"<a href='https://example.com'>link</a>", "link"},
		{"<foo>kept</foo>", "<foo>kept</foo>"},
		{"I <3 you", "I <3 you"},
		{"a < b > c", "a < b > c"},
		{"<href>attribute name</href>", "<href>attribute name</href>"},
	}

	for _, tt := range tests {
		if got := HTMLTags(tt.in); got != tt.want {
			t.Errorf("HTMLTags(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
