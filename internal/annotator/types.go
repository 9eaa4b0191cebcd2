package annotator

import (
	"resannotate/internal/resource"
	"resannotate/internal/values"
)

// Lookup resolves literal ids and resource values.
type Lookup interface {
	Resource(id uint32) (resource.Entry, bool)
	Value(resType, name string) (string, bool)
}

// Tables is the Lookup backed by the loaded id and value tables.
type Tables struct {
	Resources resource.Table
	Values    *values.Set
}

func (t Tables) Resource(id uint32) (resource.Entry, bool) {
	return t.Resources.Lookup(id)
}

func (t Tables) Value(resType, name string) (string, bool) {
	if t.Values == nil {
		return "", false
	}
	return t.Values.Lookup(resType, name)
}

// Reference is one literal load that resolved to a resource.
type Reference struct {
	// File is the instruction file containing the literal.
	File string
	// Line is the 1-based line of the instruction in the annotated output.
	Line int
	ID   uint32
	Type string
	Name string
	// Value is the resolved value; only meaningful when HasValue is set.
	Value    string
	HasValue bool
}

// Result summarises the annotation of one file.
type Result struct {
	Path       string
	Changed    bool
	References []Reference
}
