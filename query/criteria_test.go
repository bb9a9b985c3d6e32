package query

import (
	"errors"
	"testing"

	"github.com/twardoch/fontgrep/data"
)

func TestNewCriteria_ValidatesEagerly(t *testing.T) {
	cases := []struct {
		name     string
		input    Input
		expected error
	}{
		{"bad axis", Input{Axes: []string{"toolong"}}, data.ErrInvalidTag},
		{"bad feature", Input{Features: []string{""}}, data.ErrInvalidTag},
		{"bad codepoint", Input{Codepoints: []string{"U+ZZZZ"}}, data.ErrInvalidCodepoint},
		{"reversed range", Input{Codepoints: []string{"U+005A-U+0041"}}, data.ErrInvalidRange},
		{"bad pattern", Input{Names: []string{"("}}, data.ErrInvalidPattern},
	}

	for _, c := range cases {
		if _, err := NewCriteria(c.input); !errors.Is(err, c.expected) {
			t.Errorf("%s: expected %v, got %v", c.name, c.expected, err)
		}
	}
}

func TestNewCriteria_NormalizesTags(t *testing.T) {
	crit, err := NewCriteria(Input{Tables: []string{"CFF"}})
	if err != nil {
		t.Fatalf("NewCriteria failed: %v", err)
	}
	if len(crit.Tables) != 1 || crit.Tables[0] != "CFF " {
		t.Errorf("Expected padded tag, got %v", crit.Tables)
	}
}

func TestNewCriteria_TextBecomesCodepointSet(t *testing.T) {
	crit, err := NewCriteria(Input{
		Codepoints: []string{"U+0041"},
		Texts:      []string{"hello"},
	})
	if err != nil {
		t.Fatalf("NewCriteria failed: %v", err)
	}
	if len(crit.CodepointSets) != 2 {
		t.Fatalf("Expected 2 codepoint sets, got %d", len(crit.CodepointSets))
	}
	// "hello" has 4 distinct characters
	if len(crit.CodepointSets[1]) != 4 {
		t.Errorf("Expected 4 codepoints from text, got %v", crit.CodepointSets[1])
	}
}

func TestCriteria_Empty(t *testing.T) {
	crit, err := NewCriteria(Input{})
	if err != nil {
		t.Fatalf("NewCriteria failed: %v", err)
	}
	if !crit.Empty() {
		t.Error("Expected empty criteria")
	}

	crit, err = NewCriteria(Input{Variable: true})
	if err != nil {
		t.Fatalf("NewCriteria failed: %v", err)
	}
	if crit.Empty() {
		t.Error("Variable criteria must not be empty")
	}
}
