package data

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"
)

const maxCodepoint = 0x10FFFF

// ParseCodepointSet parses one comma-separated codepoint expression into a
// sorted, deduplicated set. Accepted forms per element:
//
//	U+0041        hex codepoint with prefix
//	0041          bare hex codepoint
//	A             single literal character
//	U+0041-U+005A inclusive range (either end may use any accepted form)
func ParseCodepointSet(input string) ([]rune, error) {
	var result []rune

	for _, item := range strings.Split(input, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			return nil, fmt.Errorf("%w: empty element in %q", ErrInvalidCodepoint, input)
		}

		// A bare "-" is a literal character, not a range separator.
		if idx := strings.Index(item, "-"); idx > 0 && idx < len(item)-1 {
			start, err := parseCodepoint(item[:idx])
			if err != nil {
				return nil, err
			}
			end, err := parseCodepoint(item[idx+1:])
			if err != nil {
				return nil, err
			}
			if start > end {
				return nil, fmt.Errorf("%w: %q starts after it ends", ErrInvalidRange, item)
			}
			for cp := start; cp <= end; cp++ {
				if utf16.IsSurrogate(rune(cp)) {
					continue
				}
				result = append(result, rune(cp))
			}
			continue
		}

		cp, err := parseCodepoint(item)
		if err != nil {
			return nil, err
		}
		result = append(result, rune(cp))
	}

	return sortCodepoints(result), nil
}

// TextCodepoints converts a literal text string into the sorted set of
// codepoints it contains. Every character of the text must be covered by a
// matching font.
func TextCodepoints(text string) []rune {
	cps := make([]rune, 0, len(text))
	for _, r := range text {
		cps = append(cps, r)
	}
	return sortCodepoints(cps)
}

func parseCodepoint(input string) (uint32, error) {
	input = strings.TrimSpace(input)

	hex := input
	if strings.HasPrefix(input, "U+") || strings.HasPrefix(input, "u+") {
		hex = input[2:]
	} else if len([]rune(input)) == 1 {
		// Single literal character
		return uint32([]rune(input)[0]), nil
	}

	cp, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCodepoint, input)
	}
	if cp > maxCodepoint {
		return 0, fmt.Errorf("%w: %q exceeds U+10FFFF", ErrInvalidCodepoint, input)
	}
	if utf16.IsSurrogate(rune(cp)) {
		return 0, fmt.Errorf("%w: %q is a surrogate value", ErrInvalidCodepoint, input)
	}

	return uint32(cp), nil
}

func sortCodepoints(cps []rune) []rune {
	sort.Slice(cps, func(i, j int) bool { return cps[i] < cps[j] })

	out := cps[:0]
	var prev rune = -1
	for _, cp := range cps {
		if cp != prev {
			out = append(out, cp)
			prev = cp
		}
	}
	return out
}
