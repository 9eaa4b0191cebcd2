// Package resource loads the id-definitions table (res/values/public.xml)
// that maps numeric resource ids to their type and name.
package resource

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"resannotate/internal/parser"

	"github.com/rs/zerolog/log"
)

// PublicPath is the location of the id table relative to the project root.
var PublicPath = filepath.Join("res", "values", "public.xml")

// ErrTableMissing is returned when the id table cannot be opened.
var ErrTableMissing = errors.New("resource id table not found or readable")

// Entry is one declared resource id.
type Entry struct {
	ID   uint32
	Type string
	Name string
}

// Table maps a resource id to its declaration.
type Table map[uint32]Entry

// Lookup returns the entry declared for id.
func (t Table) Lookup(id uint32) (Entry, bool) {
	e, ok := t[id]
	return e, ok
}

// Load reads the id table at path. A missing or unreadable file yields
// ErrTableMissing; malformed XML is returned as a parse error.
func Load(path string) (Table, error) {
	f, err := parser.OpenSource(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTableMissing, path, err)
	}
	defer f.Close()

	table, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	log.Info().Int("count", len(table)).Str("path", path).Msg("Loaded resource ids")
	return table, nil
}

// Parse decodes <public type=".." name=".." id="0x.."/> declarations.
// Incomplete, unparsable and duplicate entries are skipped with a warning.
func Parse(r io.Reader) (Table, error) {
	table := make(Table)
	d := parser.NewXMLDecoder(r)

	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode public xml: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "public" {
			continue
		}
		table.add(start)
	}

	return table, nil
}

func (t Table) add(start xml.StartElement) {
	resType, hasType := parser.Attr(start, "type")
	name, hasName := parser.Attr(start, "name")
	rawID, hasID := parser.Attr(start, "id")
	if !hasType || !hasName || !hasID {
		log.Warn().Str("type", resType).Str("name", name).Msg("Incomplete public entry")
		return
	}

	id, err := parseID(rawID)
	if err != nil {
		log.Warn().Str("id", rawID).Msg("Invalid resource id")
		return
	}

	if _, exists := t[id]; exists {
		log.Warn().Str("id", fmt.Sprintf("0x%x", id)).Str("name", name).Msg("Duplicate resource id")
		return
	}

	t[id] = Entry{ID: id, Type: resType, Name: name}
}

// parseID drops the two-character prefix (normally "0x") and parses the rest
// as a 32-bit hex number.
func parseID(raw string) (uint32, error) {
	if len(raw) < 2 {
		return 0, fmt.Errorf("id too short: %q", raw)
	}
	v, err := strconv.ParseUint(raw[2:], 16, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}
