// Package values loads the per-type value tables (strings, integers, bools,
// colors, dimens) with locale fallback.
package values

import (
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"resannotate/internal/parser"

	"github.com/rs/zerolog/log"
)

// Table maps a resource name to its raw value.
type Table map[string]string

// Set holds one Table per Kind.
type Set struct {
	tables map[Kind]Table
}

// NewSet builds a Set from already loaded tables. Missing kinds are empty.
func NewSet(tables map[Kind]Table) *Set {
	s := &Set{tables: make(map[Kind]Table, len(Kinds))}
	for _, k := range Kinds {
		t := tables[k]
		if t == nil {
			t = Table{}
		}
		s.tables[k] = t
	}
	return s
}

// Table returns the table for kind.
func (s *Set) Table(k Kind) Table {
	return s.tables[k]
}

// Lookup resolves the value of the resource resType/name. Types without a
// value table never resolve.
func (s *Set) Lookup(resType, name string) (string, bool) {
	k, ok := KindOf(resType)
	if !ok {
		return "", false
	}
	v, ok := s.tables[k][name]
	return v, ok
}

// Paths returns the locale-specific and default file for kind. The locale
// path is empty when no qualifier was requested.
func Paths(projectDir, qualifier string, k Kind) (localePath, defaultPath string) {
	defaultPath = filepath.Join(projectDir, "res", "values", k.FileName())
	if qualifier == "" {
		return "", defaultPath
	}
	return filepath.Join(projectDir, "res", "values-"+qualifier, k.FileName()), defaultPath
}

// LoadAll loads every kind for the project, preferring qualifier-specific values.
func LoadAll(projectDir, qualifier string) (*Set, error) {
	tables := make(map[Kind]Table, len(Kinds))
	for _, k := range Kinds {
		log.Info().Str("kind", k.Type()).Msg("Reading values")

		localePath, defaultPath := Paths(projectDir, qualifier, k)
		t, err := Load(k, localePath, defaultPath)
		if err != nil {
			return nil, fmt.Errorf("load %s values: %w", k, err)
		}
		tables[k] = t
	}
	return NewSet(tables), nil
}

// Load reads the table for kind. localePath (if set) is read before
// defaultPath and the first value seen for a name wins. Files that are absent
// or unreadable contribute nothing; malformed XML is an error.
func Load(k Kind, localePath, defaultPath string) (Table, error) {
	t := make(Table)
	for _, path := range []string{localePath, defaultPath} {
		if path == "" {
			continue
		}
		if err := t.mergeFile(k, path); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t Table) mergeFile(k Kind, path string) error {
	f, err := parser.OpenSource(path)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("Skipping values file")
		return nil
	}
	defer f.Close()

	before := len(t)
	if err := t.merge(k, f); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	log.Debug().
		Str("path", path).
		Int("added", len(t)-before).
		Msg("Merged values file")
	return nil
}

// merge adds every <type name="..">text</type> element of r whose name is not
// yet present. Text inside nested markup is part of the value.
func (t Table) merge(k Kind, r io.Reader) error {
	d := parser.NewXMLDecoder(r)
	elem := k.Type()

	var (
		name   string
		inside bool
		value  strings.Builder
	)

	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("decode values xml: %w", err)
		}

		switch tok := tok.(type) {
		case xml.StartElement:
			if tok.Name.Local != elem {
				continue
			}
			name, inside = parser.Attr(tok, "name")
			value.Reset()
		case xml.CharData:
			if inside {
				value.Write(tok)
			}
		case xml.EndElement:
			if tok.Name.Local != elem || !inside {
				continue
			}
			if _, exists := t[name]; !exists {
				t[name] = value.String()
			}
			inside = false
		}
	}
}
