// Package annotator inserts resource comments above literal loads of known
// resource ids in smali files.
package annotator

import (
	"bytes"
	"context"
	"fmt"

	"resannotate/internal/parser"
	"resannotate/internal/textutil"

	"github.com/rs/zerolog/log"
)

// Annotator rewrites instruction files using a fixed set of tables.
type Annotator struct {
	lookup Lookup
	dryRun bool
}

// Option configures an Annotator.
type Option func(*Annotator)

// WithDryRun computes results without touching any file.
func WithDryRun(dryRun bool) Option {
	return func(a *Annotator) { a.dryRun = dryRun }
}

// New creates an Annotator.
func New(lookup Lookup, opts ...Option) *Annotator {
	a := &Annotator{lookup: lookup}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Annotate runs one pass over lines. Blocks inserted by an earlier run are
// dropped from their marker line up to the next literal load, and a fresh
// block is emitted above every literal load that resolves, so the output of
// Annotate is a fixed point of itself.
func Annotate(lines []string, lookup Lookup) ([]string, []Reference) {
	out := make([]string, 0, len(lines))
	var refs []Reference
	suppressing := false

	for _, line := range lines {
		if parser.IsAnnotationMarker(line) {
			suppressing = true
			continue
		}

		if lit, ok := parser.MatchLiteralLoad(line); ok {
			if lit.Valid {
				if entry, found := lookup.Resource(lit.Value); found {
					ref := Reference{ID: entry.ID, Type: entry.Type, Name: entry.Name}
					out = append(out, parser.FormatAnnotation(entry.Type, entry.Name))
					if v, ok := lookup.Value(entry.Type, entry.Name); ok {
						out = append(out, parser.FormatValue(textutil.EscapeLineBreaks(v)))
						ref.Value = v
						ref.HasValue = true
					}
					ref.Line = len(out) + 1
					refs = append(refs, ref)
				}
			}
			suppressing = false
		}

		if !suppressing {
			out = append(out, line)
		}
	}

	return out, refs
}

// AnnotateFile rewrites the file at path in place. The file is only written
// when its content changes.
func (a *Annotator) AnnotateFile(ctx context.Context, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parsed, err := parser.ReadLines(path)
	if err != nil {
		return nil, fmt.Errorf("read instruction file: %w", err)
	}

	lines, refs := Annotate(parsed.RawLines, a.lookup)
	for i := range refs {
		refs[i].File = path
	}

	content := parser.Reconstruct(lines)
	result := &Result{
		Path:       path,
		Changed:    !bytes.Equal(content, parsed.Raw),
		References: refs,
	}

	if !result.Changed || a.dryRun {
		return result, nil
	}

	if err := writeAtomic(path, content); err != nil {
		return nil, fmt.Errorf("write instruction file: %w", err)
	}

	log.Debug().
		Str("file", path).
		Int("references", len(refs)).
		Msg("File annotated")

	return result, nil
}
