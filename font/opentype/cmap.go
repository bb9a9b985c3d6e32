package opentype

import (
	"fmt"
	"unicode/utf16"

	"github.com/twardoch/fontgrep/font"
)

const maxCodepoint = 0x10FFFF

// enumerateCoverage walks the best available cmap subtable exactly once and
// returns every codepoint mapped to a glyph. Cost is proportional to the
// number of mapped characters, never to the size of the Unicode codespace:
// format 12 is read group by group and format 4 segment by segment.
// Surrogates and values beyond U+10FFFF are excluded.
func enumerateCoverage(tables map[string]reader) ([]rune, error) {
	cmap, ok := tables["cmap"]
	if !ok {
		return nil, nil
	}

	sub, err := selectSubtable(cmap)
	if err != nil {
		return nil, err
	}
	if sub.len() == 0 {
		return nil, nil
	}

	format, err := sub.u16(0)
	if err != nil {
		return nil, err
	}

	switch format {
	case 4:
		return enumerateFormat4(sub)
	case 12:
		return enumerateFormat12(sub)
	default:
		return nil, fmt.Errorf("%w: unsupported cmap subtable format %d", font.ErrTruncated, format)
	}
}

// selectSubtable prefers a full-repertoire UCS-4 subtable (Windows
// encoding 10 or Unicode encodings 4-6) over a BMP one (Windows encoding 1
// or Unicode 0-3).
func selectSubtable(cmap reader) (reader, error) {
	numTables, err := cmap.u16(2)
	if err != nil {
		return reader{}, err
	}

	var best reader
	bestScore := 0
	for i := 0; i < int(numTables); i++ {
		rec := 4 + i*8
		platformID, err := cmap.u16(rec)
		if err != nil {
			return reader{}, err
		}
		encodingID, err := cmap.u16(rec + 2)
		if err != nil {
			return reader{}, err
		}
		offset, err := cmap.u32(rec + 4)
		if err != nil {
			return reader{}, err
		}

		score := 0
		switch {
		case platformID == platformWindows && encodingID == 10:
			score = 4
		case platformID == platformUnicode && encodingID >= 4:
			score = 3
		case platformID == platformWindows && encodingID == 1:
			score = 2
		case platformID == platformUnicode:
			score = 1
		}
		if score <= bestScore {
			continue
		}

		sub, err := cmap.sub(int(offset), -1)
		if err != nil {
			return reader{}, err
		}
		best = sub
		bestScore = score
	}

	return best, nil
}

// enumerateFormat4 reads BMP segment arrays. Mapped codepoints are the
// segment ranges whose computed glyph id is non-zero.
func enumerateFormat4(r reader) ([]rune, error) {
	segCountX2, err := r.u16(6)
	if err != nil {
		return nil, err
	}
	segCount := int(segCountX2) / 2

	endBase := 14
	startBase := endBase + segCount*2 + 2 // skip reservedPad
	deltaBase := startBase + segCount*2
	rangeBase := deltaBase + segCount*2

	var out []rune
	for seg := 0; seg < segCount; seg++ {
		end, err := r.u16(endBase + seg*2)
		if err != nil {
			return nil, err
		}
		start, err := r.u16(startBase + seg*2)
		if err != nil {
			return nil, err
		}
		delta, err := r.u16(deltaBase + seg*2)
		if err != nil {
			return nil, err
		}
		rangeOffset, err := r.u16(rangeBase + seg*2)
		if err != nil {
			return nil, err
		}

		for c := int(start); c <= int(end); c++ {
			if c == 0xFFFF {
				break
			}
			if utf16.IsSurrogate(rune(c)) {
				continue
			}

			var glyph uint16
			if rangeOffset == 0 {
				glyph = uint16(c) + delta
			} else {
				// Self-relative lookup into glyphIdArray.
				idx := rangeBase + seg*2 + int(rangeOffset) + (c-int(start))*2
				g, err := r.u16(idx)
				if err != nil {
					continue
				}
				if g == 0 {
					continue
				}
				glyph = g + delta
			}
			if glyph != 0 {
				out = append(out, rune(c))
			}
		}
	}

	return out, nil
}

// enumerateFormat12 reads sequential map groups of full Unicode range.
func enumerateFormat12(r reader) ([]rune, error) {
	numGroups, err := r.u32(12)
	if err != nil {
		return nil, err
	}

	var out []rune
	for g := 0; g < int(numGroups); g++ {
		rec := 16 + g*12
		start, err := r.u32(rec)
		if err != nil {
			return nil, err
		}
		end, err := r.u32(rec + 4)
		if err != nil {
			return nil, err
		}
		if end > maxCodepoint {
			end = maxCodepoint
		}
		for c := start; c <= end; c++ {
			if utf16.IsSurrogate(rune(c)) {
				continue
			}
			out = append(out, rune(c))
		}
	}

	return out, nil
}
