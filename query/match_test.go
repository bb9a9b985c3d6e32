package query

import (
	"testing"

	"github.com/twardoch/fontgrep/data"
)

func testMeta(t *testing.T, axes, features, scripts, tables, names []string, coverage []rune) *data.FontMetadata {
	t.Helper()
	meta := data.NewFontMetadata(axes, features, scripts, tables, names, nil)
	meta.SetCoverage(coverage)
	return meta
}

func mustCriteria(t *testing.T, in Input) *Criteria {
	t.Helper()
	crit, err := NewCriteria(in)
	if err != nil {
		t.Fatalf("NewCriteria failed: %v", err)
	}
	return crit
}

func TestMatch_Conjunctive(t *testing.T) {
	meta := testMeta(t,
		[]string{"wght", "wdth"},
		[]string{"kern", "smcp"},
		[]string{"latn"},
		[]string{"GPOS", "GSUB", "glyf"},
		[]string{"Demo Sans"},
		[]rune{'A', 'B', 'C'},
	)

	// All criteria satisfied
	crit := mustCriteria(t, Input{
		Axes:       []string{"wght", "wdth"},
		Features:   []string{"smcp"},
		Scripts:    []string{"latn"},
		Tables:     []string{"GPOS"},
		Codepoints: []string{"U+0041-U+0042"},
		Variable:   true,
	})
	if !Match(crit, meta) {
		t.Error("Expected match when every criterion is satisfied")
	}

	// One missing axis fails the whole match
	crit = mustCriteria(t, Input{Axes: []string{"wght", "ital"}})
	if Match(crit, meta) {
		t.Error("Expected no match with one missing axis")
	}

	// One uncovered codepoint fails the whole match
	crit = mustCriteria(t, Input{Codepoints: []string{"U+0041,U+005A"}})
	if Match(crit, meta) {
		t.Error("Expected no match with one uncovered codepoint")
	}
}

func TestMatch_EmptyCriteriaMatchesEverything(t *testing.T) {
	crit := mustCriteria(t, Input{})

	if !Match(crit, testMeta(t, nil, nil, nil, nil, nil, nil)) {
		t.Error("Expected empty criteria to match a bare font")
	}
	if !Match(crit, testMeta(t, []string{"wght"}, nil, nil, nil, nil, []rune{'A'})) {
		t.Error("Expected empty criteria to match any font")
	}
}

func TestMatch_Variable(t *testing.T) {
	crit := mustCriteria(t, Input{Variable: true})

	if !Match(crit, testMeta(t, []string{"opsz"}, nil, nil, nil, nil, nil)) {
		t.Error("Expected font with an axis to match --variable")
	}
	if Match(crit, testMeta(t, nil, nil, nil, nil, nil, nil)) {
		t.Error("Expected static font to fail --variable")
	}
}

func TestMatch_Names(t *testing.T) {
	meta := testMeta(t, nil, nil, nil, nil,
		[]string{"Demo Sans", "Demo Sans Bold"}, nil)

	if !Match(crit(t, "(?i)demo"), meta) {
		t.Error("Expected case-insensitive name match")
	}
	if Match(crit(t, "Serif"), meta) {
		t.Error("Expected no match for absent name")
	}
}

func crit(t *testing.T, pattern string) *Criteria {
	t.Helper()
	return mustCriteria(t, Input{Names: []string{pattern}})
}

func TestMatch_CoverageSkippedWithoutCodepointCriteria(t *testing.T) {
	// The lazy coverage function must not run unless codepoints are asked for.
	invoked := false
	meta := data.NewFontMetadata([]string{"wght"}, nil, nil, nil, nil, func() []rune {
		invoked = true
		return []rune{'A'}
	})

	if !Match(mustCriteria(t, Input{Axes: []string{"wght"}}), meta) {
		t.Fatal("Expected axis match")
	}
	if invoked {
		t.Error("Coverage enumerated although no codepoint criterion was given")
	}

	if !Match(mustCriteria(t, Input{Codepoints: []string{"U+0041"}}), meta) {
		t.Fatal("Expected codepoint match")
	}
	if !invoked {
		t.Error("Coverage should be enumerated for codepoint criteria")
	}
}
