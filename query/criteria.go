package query

import (
	"fmt"
	"regexp"

	"github.com/twardoch/fontgrep/data"
)

// Criteria describes which fonts a search should match. Semantics are
// conjunctive across and within categories: a font must carry every
// requested axis, feature, script and table, cover every codepoint of
// every set, and satisfy every name pattern. Variable additionally
// requires a non-empty axis set.
type Criteria struct {
	Axes     []string
	Features []string
	Scripts  []string
	Tables   []string

	// One set per input expression or text string. Every codepoint of
	// every set must be covered.
	CodepointSets [][]rune

	// Compiled name patterns, matched against name table strings.
	Names []*regexp.Regexp

	Variable bool
}

// Input is the raw, unvalidated criteria as supplied by a caller (flag
// values, config). NewCriteria validates it eagerly so that a bad tag or
// range fails before any scan or query starts.
type Input struct {
	Axes     []string
	Features []string
	Scripts  []string
	Tables   []string

	// Codepoint expressions, e.g. "U+0041-U+005A,U+00C0".
	Codepoints []string

	// Literal text strings; each becomes one required codepoint set.
	Texts []string

	// Name patterns as uncompiled regular expressions.
	Names []string

	Variable bool
}

// NewCriteria validates every element of in and returns the compiled
// criteria set.
func NewCriteria(in Input) (*Criteria, error) {
	axes, err := data.ParseTags(in.Axes)
	if err != nil {
		return nil, fmt.Errorf("axis: %w", err)
	}
	features, err := data.ParseTags(in.Features)
	if err != nil {
		return nil, fmt.Errorf("feature: %w", err)
	}
	scripts, err := data.ParseTags(in.Scripts)
	if err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	tables, err := data.ParseTags(in.Tables)
	if err != nil {
		return nil, fmt.Errorf("table: %w", err)
	}

	var sets [][]rune
	for _, expr := range in.Codepoints {
		set, err := data.ParseCodepointSet(expr)
		if err != nil {
			return nil, err
		}
		if len(set) > 0 {
			sets = append(sets, set)
		}
	}
	for _, text := range in.Texts {
		set := data.TextCodepoints(text)
		if len(set) > 0 {
			sets = append(sets, set)
		}
	}

	var names []*regexp.Regexp
	for _, pattern := range in.Names {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", data.ErrInvalidPattern, pattern, err)
		}
		names = append(names, re)
	}

	return &Criteria{
		Axes:          axes,
		Features:      features,
		Scripts:       scripts,
		Tables:        tables,
		CodepointSets: sets,
		Names:         names,
		Variable:      in.Variable,
	}, nil
}

// Empty reports whether the criteria place no restriction at all, in which
// case every font matches.
func (c *Criteria) Empty() bool {
	return !c.Variable &&
		len(c.Axes) == 0 &&
		len(c.Features) == 0 &&
		len(c.Scripts) == 0 &&
		len(c.Tables) == 0 &&
		len(c.CodepointSets) == 0 &&
		len(c.Names) == 0
}
