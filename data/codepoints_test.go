package data

import (
	"errors"
	"testing"
)

func TestParseCodepointSet_Forms(t *testing.T) {
	// All accepted forms for the same codepoint
	for _, input := range []string{"U+0041", "u+0041", "0041", "41", "A"} {
		set, err := ParseCodepointSet(input)
		if err != nil {
			t.Fatalf("ParseCodepointSet(%q) failed: %v", input, err)
		}
		if len(set) != 1 || set[0] != 'A' {
			t.Errorf("ParseCodepointSet(%q) = %v, expected [U+0041]", input, set)
		}
	}
}

func TestParseCodepointSet_Range(t *testing.T) {
	set, err := ParseCodepointSet("U+0041-U+0043")
	if err != nil {
		t.Fatalf("ParseCodepointSet failed: %v", err)
	}

	expected := []rune{'A', 'B', 'C'}
	if len(set) != len(expected) {
		t.Fatalf("Expected %d codepoints, got %d", len(expected), len(set))
	}
	for i, cp := range expected {
		if set[i] != cp {
			t.Errorf("Expected %U at %d, got %U", cp, i, set[i])
		}
	}
}

func TestParseCodepointSet_CommaSeparated(t *testing.T) {
	set, err := ParseCodepointSet("U+00C0,U+0041-U+0042,Z")
	if err != nil {
		t.Fatalf("ParseCodepointSet failed: %v", err)
	}

	expected := []rune{'A', 'B', 'Z', 0x00C0}
	if len(set) != len(expected) {
		t.Fatalf("Expected %d codepoints, got %v", len(expected), set)
	}
	for i, cp := range expected {
		if set[i] != cp {
			t.Errorf("Expected %U at %d, got %U", cp, i, set[i])
		}
	}
}

func TestParseCodepointSet_SortedAndDeduplicated(t *testing.T) {
	set, err := ParseCodepointSet("U+0043,U+0041,U+0041-U+0042")
	if err != nil {
		t.Fatalf("ParseCodepointSet failed: %v", err)
	}

	if len(set) != 3 {
		t.Fatalf("Expected 3 unique codepoints, got %v", set)
	}
	for i := 1; i < len(set); i++ {
		if set[i] <= set[i-1] {
			t.Errorf("Set not strictly sorted at %d: %v", i, set)
		}
	}
}

func TestParseCodepointSet_LiteralDash(t *testing.T) {
	// A bare "-" is the literal character, not a range separator
	set, err := ParseCodepointSet("-")
	if err != nil {
		t.Fatalf("ParseCodepointSet failed: %v", err)
	}
	if len(set) != 1 || set[0] != '-' {
		t.Errorf("Expected [U+002D], got %v", set)
	}
}

func TestParseCodepointSet_RangeSkipsSurrogates(t *testing.T) {
	set, err := ParseCodepointSet("U+D7FF-U+E000")
	if err != nil {
		t.Fatalf("ParseCodepointSet failed: %v", err)
	}
	if len(set) != 2 {
		t.Fatalf("Expected surrogates dropped from range, got %d codepoints", len(set))
	}
	if set[0] != 0xD7FF || set[1] != 0xE000 {
		t.Errorf("Expected [U+D7FF U+E000], got %v", set)
	}
}

func TestParseCodepointSet_Errors(t *testing.T) {
	cases := []struct {
		input    string
		expected error
	}{
		{"", ErrInvalidCodepoint},
		{"U+0041,,U+0042", ErrInvalidCodepoint},
		{"U+ZZZZ", ErrInvalidCodepoint},
		{"U+110000", ErrInvalidCodepoint},
		{"U+D800", ErrInvalidCodepoint},
		{"U+005A-U+0041", ErrInvalidRange},
	}

	for _, c := range cases {
		if _, err := ParseCodepointSet(c.input); !errors.Is(err, c.expected) {
			t.Errorf("ParseCodepointSet(%q): expected %v, got %v", c.input, c.expected, err)
		}
	}
}

func TestTextCodepoints(t *testing.T) {
	set := TextCodepoints("cab")
	expected := []rune{'a', 'b', 'c'}

	if len(set) != len(expected) {
		t.Fatalf("Expected %d codepoints, got %d", len(expected), len(set))
	}
	for i, cp := range expected {
		if set[i] != cp {
			t.Errorf("Expected %U at %d, got %U", cp, i, set[i])
		}
	}

	// Repeated characters collapse
	if got := TextCodepoints("aaa"); len(got) != 1 {
		t.Errorf("Expected deduplicated set, got %v", got)
	}
}
