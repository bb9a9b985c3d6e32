package data

import (
	"sort"
	"sync"
)

// FontMetadata holds the structural information extracted from one font
// file. Tag sets are sorted and deduplicated. Codepoint coverage is
// produced lazily because enumerating the charmap is the most expensive
// part of extraction and many queries never need it.
type FontMetadata struct {
	Axes     []string
	Features []string
	Scripts  []string
	Tables   []string
	Names    []string

	coverageFn func() []rune
	coverage   []rune
	once       sync.Once
}

// NewFontMetadata builds a record around a lazy coverage function. The
// function is invoked at most once; callers may pass nil when coverage is
// already known and set it with SetCoverage instead.
func NewFontMetadata(axes, features, scripts, tables, names []string, coverageFn func() []rune) *FontMetadata {
	return &FontMetadata{
		Axes:       sortedUnique(axes),
		Features:   sortedUnique(features),
		Scripts:    sortedUnique(scripts),
		Tables:     sortedUnique(tables),
		Names:      sortedUnique(names),
		coverageFn: coverageFn,
	}
}

// Coverage returns the sorted set of codepoints the font maps to a glyph.
// The first call materializes the set; later calls return the same slice.
func (m *FontMetadata) Coverage() []rune {
	m.once.Do(func() {
		if m.coverageFn != nil {
			m.coverage = sortCodepoints(m.coverageFn())
		}
	})
	return m.coverage
}

// SetCoverage installs an already-known coverage set, bypassing the lazy
// function. Used when a record is reconstructed from stored rows.
func (m *FontMetadata) SetCoverage(cps []rune) {
	m.once.Do(func() {})
	m.coverage = sortCodepoints(cps)
}

// Variable reports whether the font exposes at least one variation axis.
func (m *FontMetadata) Variable() bool {
	return len(m.Axes) > 0
}

// Candidate is one row of a store query result: a font path plus the name
// strings needed for in-process pattern filtering.
type Candidate struct {
	Path  string
	Names []string
}

func sortedUnique(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)

	dedup := out[:0]
	prev := ""
	for i, s := range out {
		if i == 0 || s != prev {
			dedup = append(dedup, s)
			prev = s
		}
	}
	return dedup
}
