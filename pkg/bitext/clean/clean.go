// Package clean holds the record cleaners. A cleaner is a total string
// transform: it never drops a record, and it is applied to the source text
// and, when present, to the translation.
package clean

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/cognicore/bitext/pkg/bitext/record"
)

// Func is a string transform applied to both segments of a record.
type Func func(string) string

// Record applies the cleaner to a record, returning a new one.
func (f Func) Record(r record.Record) record.Record {
	return r.Map(f)
}

var spaceRun = regexp.MustCompile(` {2,}`)

// Whitespace collapses runs of ASCII spaces into a single space.
// Tabs and newlines are left as they are.
func Whitespace(s string) string {
	if !strings.Contains(s, "  ") {
		return s
	}
	return spaceRun.ReplaceAllString(s, " ")
}

// stripMarks decomposes, drops nonspacing marks and recomposes.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Diacritics replaces accented characters with their base form.
// Only characters that have a canonical decomposition are rewritten; a
// combining mark that already stands on its own in the input is kept.
func Diacritics(s string) string {
	var b strings.Builder
	changed := false
	for i, r := range s {
		if r < utf8.RuneSelf || norm.NFD.IsNormalString(string(r)) {
			if changed {
				b.WriteRune(r)
			}
			continue
		}
		base, _, err := transform.String(stripMarks, string(r))
		if err != nil || base == string(r) {
			if changed {
				b.WriteRune(r)
			}
			continue
		}
		if !changed {
			b.Grow(len(s))
			b.WriteString(s[:i])
			changed = true
		}
		b.WriteString(base)
	}
	if !changed {
		return s
	}
	return b.String()
}

// HTMLEntities decodes named and numeric character references.
// Decoding repeats until the text stops changing, so "&amp;amp;" ends as "&".
// Every decoding pass that changes the text shortens it, so the loop ends.
func HTMLEntities(s string) string {
	for strings.IndexByte(s, '&') >= 0 {
		next := html.UnescapeString(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

var tagLike = regexp.MustCompile(`</?([A-Za-z][A-Za-z0-9]*)(?:\s[^<>]*)?/?>`)

// HTMLTags removes tags naming a known HTML element. Tag-like sequences
// with an unknown name ("<foo>", "<3") are left untouched.
func HTMLTags(s string) string {
	if strings.IndexByte(s, '<') < 0 {
		return s
	}
	return tagLike.ReplaceAllStringFunc(s, func(tag string) string {
		m := tagLike.FindStringSubmatch(tag)
		if !elements[atom.Lookup([]byte(strings.ToLower(m[1])))] {
			return tag
		}
		return ""
	})
}
