// Package source reads and writes line-aligned corpora: two files of equal
// line count, line i of one being the translation of line i of the other.
package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/cognicore/bitext/internal/bitexterr"
	"github.com/cognicore/bitext/pkg/bitext/record"
)

// maxLine bounds a single segment; corpus lines are sentences, but web
// crawls occasionally carry whole documents on one line.
const maxLine = 16 << 20

// Error reports a failure to read or write a corpus file. It matches
// bitexterr.ErrSource.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("source %s: %v", e.Path, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == bitexterr.ErrSource }

// Options names the two sides of an aligned corpus.
type Options struct {
	SourcePath string
	TargetPath string
	SourceLang string
	TargetLang string
}

// ReadAligned zips the two files line by line into records. Both files are
// opened before anything is read, so a missing file fails fast. Differing
// line counts and invalid UTF-8 are errors.
func ReadAligned(ctx context.Context, opts Options) ([]record.Record, error) {
	src, err := os.Open(opts.SourcePath)
	if err != nil {
		return nil, &Error{Path: opts.SourcePath, Err: eris.Wrap(err, "open source side")}
	}
	defer src.Close()

	trg, err := os.Open(opts.TargetPath)
	if err != nil {
		return nil, &Error{Path: opts.TargetPath, Err: eris.Wrap(err, "open target side")}
	}
	defer trg.Close()

	return Zip(ctx, src, trg, opts)
}

// Zip pairs lines from two readers. Paths in opts are used for error
// messages and the languages for tagging.
func Zip(ctx context.Context, srcR, trgR io.Reader, opts Options) ([]record.Record, error) {
	srcScan := newScanner(srcR)
	trgScan := newScanner(trgR)

	var out []record.Record
	for line := 1; ; line++ {
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		srcOK := srcScan.Scan()
		trgOK := trgScan.Scan()
		if err := srcScan.Err(); err != nil {
			return nil, &Error{Path: opts.SourcePath, Err: eris.Wrapf(err, "read line %d", line)}
		}
		if err := trgScan.Err(); err != nil {
			return nil, &Error{Path: opts.TargetPath, Err: eris.Wrapf(err, "read line %d", line)}
		}
		if !srcOK && !trgOK {
			return out, nil
		}
		if srcOK != trgOK {
			path := opts.TargetPath
			if !srcOK {
				path = opts.SourcePath
			}
			return nil, &Error{Path: path, Err: eris.Errorf("line count mismatch: file ends at line %d", line-1)}
		}

		r := record.NewPair(srcScan.Text(), trgScan.Text()).WithLanguages(opts.SourceLang, opts.TargetLang)
		if err := r.Validate(); err != nil {
			return nil, &Error{Path: opts.SourcePath + "|" + opts.TargetPath, Err: eris.Wrapf(err, "line %d", line)}
		}
		out = append(out, r)
	}
}

func newScanner(r io.Reader) *bufio.Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLine)
	return s
}

// WriteAligned writes the records back as two aligned files. Records
// without a translation produce an empty target line. Newlines inside a
// segment are replaced by spaces so the files stay aligned.
func WriteAligned(ctx context.Context, srcPath, trgPath string, batch []record.Record) error {
	src, err := os.Create(srcPath)
	if err != nil {
		return &Error{Path: srcPath, Err: eris.Wrap(err, "create source side")}
	}
	defer src.Close()

	trg, err := os.Create(trgPath)
	if err != nil {
		return &Error{Path: trgPath, Err: eris.Wrap(err, "create target side")}
	}
	defer trg.Close()

	srcW := bufio.NewWriter(src)
	trgW := bufio.NewWriter(trg)
	for i, r := range batch {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if _, err := srcW.WriteString(oneLine(r.Text) + "\n"); err != nil {
			return &Error{Path: srcPath, Err: eris.Wrap(err, "write")}
		}
		if _, err := trgW.WriteString(oneLine(r.TranslationOrEmpty()) + "\n"); err != nil {
			return &Error{Path: trgPath, Err: eris.Wrap(err, "write")}
		}
	}

	if err := srcW.Flush(); err != nil {
		return &Error{Path: srcPath, Err: eris.Wrap(err, "flush")}
	}
	if err := trgW.Flush(); err != nil {
		return &Error{Path: trgPath, Err: eris.Wrap(err, "flush")}
	}
	if err := src.Close(); err != nil {
		return &Error{Path: srcPath, Err: eris.Wrap(err, "close")}
	}
	if err := trg.Close(); err != nil {
		return &Error{Path: trgPath, Err: eris.Wrap(err, "close")}
	}
	return nil
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func oneLine(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return lineBreaks.Replace(s)
}
