package opentype

import (
	"fmt"

	"github.com/twardoch/fontgrep/data"
	"github.com/twardoch/fontgrep/font"
)

// sfnt magic numbers accepted in the offset table.
const (
	sfntTrueType   = 0x00010000
	sfntOpenType   = 0x4F54544F // 'OTTO'
	sfntAppleTrue  = 0x74727565 // 'true'
	sfntCollection = 0x74746366 // 'ttcf'
)

// Extractor reads sfnt-packaged fonts (TTF, OTF and the first face of a
// collection) and satisfies the font.Extractor contract. It only walks the
// structures needed for search criteria; glyph data is never touched.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses the table directory and the fvar, GSUB, GPOS and name
// tables eagerly. Codepoint coverage is deferred behind the returned
// record's Coverage method, which enumerates the cmap on first use.
func (e *Extractor) Extract(raw []byte) (*data.FontMetadata, error) {
	r := reader{buf: raw}

	tables, err := parseDirectory(r)
	if err != nil {
		return nil, err
	}

	var tableTags []string
	for tag := range tables {
		if data.IsKnownTable(data.Tag(tag)) {
			tableTags = append(tableTags, tag)
		}
	}

	axes, err := parseAxes(tables)
	if err != nil {
		return nil, err
	}

	features, scripts, err := parseLayout(tables)
	if err != nil {
		return nil, err
	}

	names, err := parseNames(tables)
	if err != nil {
		return nil, err
	}

	coverageFn := func() []rune {
		// A malformed cmap yields empty coverage rather than failing a
		// scan that already extracted everything else.
		cps, err := enumerateCoverage(tables)
		if err != nil {
			return nil
		}
		return cps
	}

	return data.NewFontMetadata(axes, features, scripts, tableTags, names, coverageFn), nil
}

// parseDirectory reads the offset table and returns a map of table tag to
// windowed reader. Collections resolve to their first face.
func parseDirectory(r reader) (map[string]reader, error) {
	magic, err := r.u32(0)
	if err != nil {
		return nil, fmt.Errorf("%w: file too small for an sfnt header", font.ErrNotFont)
	}

	dirOffset := 0
	if magic == sfntCollection {
		numFonts, err := r.u32(8)
		if err != nil {
			return nil, err
		}
		if numFonts == 0 {
			return nil, fmt.Errorf("%w: collection with no fonts", font.ErrTruncated)
		}
		first, err := r.u32(12)
		if err != nil {
			return nil, err
		}
		dirOffset = int(first)
		magic, err = r.u32(dirOffset)
		if err != nil {
			return nil, err
		}
	}

	switch magic {
	case sfntTrueType, sfntOpenType, sfntAppleTrue:
	default:
		return nil, fmt.Errorf("%w: unknown sfnt magic 0x%08X", font.ErrNotFont, magic)
	}

	numTables, err := r.u16(dirOffset + 4)
	if err != nil {
		return nil, err
	}

	tables := make(map[string]reader, numTables)
	for i := 0; i < int(numTables); i++ {
		rec := dirOffset + 12 + i*16
		tag, err := r.tag(rec)
		if err != nil {
			return nil, err
		}
		offset, err := r.u32(rec + 8)
		if err != nil {
			return nil, err
		}
		length, err := r.u32(rec + 12)
		if err != nil {
			return nil, err
		}
		sub, err := r.sub(int(offset), int(length))
		if err != nil {
			return nil, fmt.Errorf("%w: table %q extends past end of file", font.ErrTruncated, tag)
		}
		tables[tag] = sub
	}

	if len(tables) == 0 {
		return nil, fmt.Errorf("%w: empty table directory", font.ErrTruncated)
	}

	return tables, nil
}

// parseAxes reads variation axis tags from the fvar table.
func parseAxes(tables map[string]reader) ([]string, error) {
	fvar, ok := tables["fvar"]
	if !ok {
		return nil, nil
	}

	axesOffset, err := fvar.u16(4)
	if err != nil {
		return nil, err
	}
	axisCount, err := fvar.u16(8)
	if err != nil {
		return nil, err
	}
	axisSize, err := fvar.u16(10)
	if err != nil {
		return nil, err
	}
	if axisSize < 20 {
		return nil, fmt.Errorf("%w: fvar axis record size %d", font.ErrTruncated, axisSize)
	}

	axes := make([]string, 0, axisCount)
	for i := 0; i < int(axisCount); i++ {
		tag, err := fvar.tag(int(axesOffset) + i*int(axisSize))
		if err != nil {
			return nil, err
		}
		axes = append(axes, tag)
	}
	return axes, nil
}
