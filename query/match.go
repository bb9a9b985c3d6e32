package query

import "github.com/twardoch/fontgrep/data"

// Match evaluates criteria against one in-memory metadata record. The
// pipeline short-circuits on the first failed predicate and runs cheapest
// checks first; codepoint coverage comes last because it may force the
// record to enumerate the font's entire charmap.
func Match(c *Criteria, meta *data.FontMetadata) bool {
	if c.Variable && !meta.Variable() {
		return false
	}
	if !containsAll(meta.Axes, c.Axes) {
		return false
	}
	if !containsAll(meta.Features, c.Features) {
		return false
	}
	if !containsAll(meta.Scripts, c.Scripts) {
		return false
	}
	if !containsAll(meta.Tables, c.Tables) {
		return false
	}
	if !namesMatch(c.Names, meta.Names) {
		return false
	}

	if len(c.CodepointSets) > 0 {
		coverage := meta.Coverage()
		for _, set := range c.CodepointSets {
			for _, cp := range set {
				if !coversCodepoint(coverage, cp) {
					return false
				}
			}
		}
	}

	return true
}

// containsAll reports whether the sorted set have includes every wanted
// element.
func containsAll(have, wanted []string) bool {
	for _, w := range wanted {
		if !containsString(have, w) {
			return false
		}
	}
	return true
}

func containsString(sorted []string, s string) bool {
	lo, hi := 0, len(sorted)
	for lo < hi {
		mid := (lo + hi) / 2
		if sorted[mid] < s {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo < len(sorted) && sorted[lo] == s
}

// coversCodepoint binary-searches a sorted coverage set.
func coversCodepoint(sorted []rune, cp rune) bool {
	lo, hi := 0, len(sorted)
	for lo < hi {
		mid := (lo + hi) / 2
		if sorted[mid] < cp {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo < len(sorted) && sorted[lo] == cp
}
