package data

import (
	"fmt"
	"strings"
)

// Tag is a 4-byte OpenType identifier, as used for tables, variation axes,
// typographic features and scripts. Shorter input is padded with spaces,
// matching the OpenType convention (e.g. "CFF " or "kern").
type Tag string

// KnownTables is the allow-list of table tags the cache will record.
// Tags outside this list are ignored during extraction so that criteria
// and cache contents agree on the same vocabulary.
var KnownTables = []Tag{
	"BASE", "CBDT", "CBLC", "CFF ", "CFF2", "COLR", "CPAL", "DSIG",
	"EBDT", "EBLC", "GDEF", "GPOS", "GSUB", "JSTF", "MATH", "OS/2",
	"SVG ", "avar", "cmap", "cvar", "fvar", "gasp", "glyf", "gvar",
	"head", "hhea", "hmtx", "kern", "loca", "maxp", "name", "post",
	"sbix", "vhea", "vmtx",
}

// ParseTag validates and normalizes a tag string. Input must be 1 to 4
// printable ASCII characters; shorter tags are right-padded with spaces.
func ParseTag(s string) (Tag, error) {
	if len(s) == 0 || len(s) > 4 {
		return "", fmt.Errorf("%w: %q must be 1-4 characters", ErrInvalidTag, s)
	}
	for _, c := range s {
		if c < 0x20 || c > 0x7E {
			return "", fmt.Errorf("%w: %q contains non-printable or non-ASCII characters", ErrInvalidTag, s)
		}
	}
	if len(s) < 4 {
		s += strings.Repeat(" ", 4-len(s))
	}
	return Tag(s), nil
}

// ParseTags validates a list of tag strings in one pass.
func ParseTags(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	for _, s := range in {
		tag, err := ParseTag(s)
		if err != nil {
			return nil, err
		}
		out = append(out, string(tag))
	}
	return out, nil
}

// IsKnownTable reports whether tag is part of the recorded table allow-list.
func IsKnownTable(tag Tag) bool {
	for _, t := range KnownTables {
		if t == tag {
			return true
		}
	}
	return false
}

func (t Tag) String() string {
	return string(t)
}
