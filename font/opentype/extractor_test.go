package opentype

import (
	"encoding/binary"
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/twardoch/fontgrep/font"
)

// sfntFont assembles a minimal sfnt file from raw table payloads. base is
// the position the font will occupy in the final file, so collection faces
// can carry absolute table offsets.
func sfntFont(base int, tables map[string][]byte) []byte {
	tags := make([]string, 0, len(tables))
	for tag := range tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	headerLen := 12 + len(tags)*16
	out := make([]byte, headerLen)
	binary.BigEndian.PutUint32(out[0:], sfntTrueType)
	binary.BigEndian.PutUint16(out[4:], uint16(len(tags)))

	pos := base + headerLen
	for i, tag := range tags {
		rec := 12 + i*16
		copy(out[rec:], tag)
		binary.BigEndian.PutUint32(out[rec+8:], uint32(pos))
		binary.BigEndian.PutUint32(out[rec+12:], uint32(len(tables[tag])))
		pos += len(tables[tag])
	}
	for _, tag := range tags {
		out = append(out, tables[tag]...)
	}
	return out
}

// fvarTable builds an fvar with one 20-byte record per axis tag.
func fvarTable(axes ...string) []byte {
	out := make([]byte, 16+len(axes)*20)
	binary.BigEndian.PutUint16(out[0:], 1)  // majorVersion
	binary.BigEndian.PutUint16(out[4:], 16) // axesArrayOffset
	binary.BigEndian.PutUint16(out[8:], uint16(len(axes)))
	binary.BigEndian.PutUint16(out[10:], 20) // axisSize
	for i, axis := range axes {
		copy(out[16+i*20:], axis)
	}
	return out
}

// layoutTable builds a GSUB/GPOS header with a ScriptList and FeatureList.
func layoutTable(scripts, features []string) []byte {
	scriptList := tagRecordList(scripts)
	featureList := tagRecordList(features)

	out := make([]byte, 10)
	binary.BigEndian.PutUint32(out[0:], 0x00010000)
	binary.BigEndian.PutUint16(out[4:], 10)
	binary.BigEndian.PutUint16(out[6:], uint16(10+len(scriptList)))
	out = append(out, scriptList...)
	out = append(out, featureList...)
	return out
}

func tagRecordList(tags []string) []byte {
	out := make([]byte, 2+len(tags)*6)
	binary.BigEndian.PutUint16(out[0:], uint16(len(tags)))
	for i, tag := range tags {
		copy(out[2+i*6:], tag)
	}
	return out
}

// nameTable builds a name table with one Windows UTF-16BE record per value.
func nameTable(values ...string) []byte {
	var strings []byte
	out := make([]byte, 6+len(values)*12)
	binary.BigEndian.PutUint16(out[2:], uint16(len(values)))
	binary.BigEndian.PutUint16(out[4:], uint16(len(out)))
	for i, value := range values {
		encoded := utf16be(value)
		rec := 6 + i*12
		binary.BigEndian.PutUint16(out[rec:], platformWindows)
		binary.BigEndian.PutUint16(out[rec+6:], uint16(i+1)) // nameID
		binary.BigEndian.PutUint16(out[rec+8:], uint16(len(encoded)))
		binary.BigEndian.PutUint16(out[rec+10:], uint16(len(strings)))
		strings = append(strings, encoded...)
	}
	return append(out, strings...)
}

func utf16be(s string) []byte {
	var out []byte
	for _, r := range s {
		out = append(out, byte(r>>8), byte(r))
	}
	return out
}

// cmapFormat4 builds a cmap with a single Windows BMP subtable covering one
// contiguous range with identity-ish glyph ids.
func cmapFormat4(start, end uint16) []byte {
	// Two segments: the range and the required 0xFFFF terminator
	sub := make([]byte, 32)
	binary.BigEndian.PutUint16(sub[0:], 4)               // format
	binary.BigEndian.PutUint16(sub[2:], uint16(len(sub))) // length
	binary.BigEndian.PutUint16(sub[6:], 4)               // segCountX2
	binary.BigEndian.PutUint16(sub[14:], end)            // endCode[0]
	binary.BigEndian.PutUint16(sub[16:], 0xFFFF)         // endCode[1]
	binary.BigEndian.PutUint16(sub[20:], start)          // startCode[0]
	binary.BigEndian.PutUint16(sub[22:], 0xFFFF)         // startCode[1]
	binary.BigEndian.PutUint16(sub[24:], 0)              // idDelta[0]
	binary.BigEndian.PutUint16(sub[26:], 1)              // idDelta[1]
	// idRangeOffset[0..1] stay zero

	out := make([]byte, 12)
	binary.BigEndian.PutUint16(out[2:], 1) // numTables
	binary.BigEndian.PutUint16(out[4:], platformWindows)
	binary.BigEndian.PutUint16(out[6:], 1)  // BMP encoding
	binary.BigEndian.PutUint32(out[8:], 12) // subtable offset
	return append(out, sub...)
}

// cmapFormat12 builds a cmap with a single UCS-4 subtable of the given
// (start, end) groups.
func cmapFormat12(groups ...[2]uint32) []byte {
	sub := make([]byte, 16+len(groups)*12)
	binary.BigEndian.PutUint16(sub[0:], 12)
	binary.BigEndian.PutUint32(sub[4:], uint32(len(sub)))
	binary.BigEndian.PutUint32(sub[12:], uint32(len(groups)))
	for i, g := range groups {
		rec := 16 + i*12
		binary.BigEndian.PutUint32(sub[rec:], g[0])
		binary.BigEndian.PutUint32(sub[rec+4:], g[1])
	}

	out := make([]byte, 12)
	binary.BigEndian.PutUint16(out[2:], 1)
	binary.BigEndian.PutUint16(out[4:], platformWindows)
	binary.BigEndian.PutUint16(out[6:], 10) // UCS-4 encoding
	binary.BigEndian.PutUint32(out[8:], 12)
	return append(out, sub...)
}

func TestExtract_FullFont(t *testing.T) {
	raw := sfntFont(0, map[string][]byte{
		"fvar": fvarTable("wght", "wdth"),
		"GSUB": layoutTable([]string{"latn"}, []string{"smcp", "liga"}),
		"name": nameTable("Demo Sans", "Regular"),
		"cmap": cmapFormat4('A', 'C'),
		"glyf": {0x00},
	})

	meta, err := NewExtractor().Extract(raw)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if !reflect.DeepEqual(meta.Axes, []string{"wdth", "wght"}) {
		t.Errorf("Expected sorted axes [wdth wght], got %v", meta.Axes)
	}
	if !reflect.DeepEqual(meta.Features, []string{"liga", "smcp"}) {
		t.Errorf("Expected features [liga smcp], got %v", meta.Features)
	}
	if !reflect.DeepEqual(meta.Scripts, []string{"latn"}) {
		t.Errorf("Expected scripts [latn], got %v", meta.Scripts)
	}
	if !reflect.DeepEqual(meta.Tables, []string{"GSUB", "cmap", "fvar", "glyf", "name"}) {
		t.Errorf("Unexpected tables: %v", meta.Tables)
	}
	if !reflect.DeepEqual(meta.Names, []string{"Demo Sans", "Regular"}) {
		t.Errorf("Unexpected names: %v", meta.Names)
	}
	if !meta.Variable() {
		t.Error("Expected variable font")
	}

	coverage := meta.Coverage()
	if !reflect.DeepEqual(coverage, []rune{'A', 'B', 'C'}) {
		t.Errorf("Expected coverage [A B C], got %v", coverage)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	raw := sfntFont(0, map[string][]byte{
		"fvar": fvarTable("wght"),
		"cmap": cmapFormat4('a', 'z'),
	})

	first, err := NewExtractor().Extract(raw)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	second, err := NewExtractor().Extract(raw)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if !reflect.DeepEqual(first.Axes, second.Axes) ||
		!reflect.DeepEqual(first.Tables, second.Tables) ||
		!reflect.DeepEqual(first.Coverage(), second.Coverage()) {
		t.Error("Repeated extraction of identical bytes disagrees")
	}
}

func TestExtract_Format12Coverage(t *testing.T) {
	raw := sfntFont(0, map[string][]byte{
		"cmap": cmapFormat12([2]uint32{'A', 'B'}, [2]uint32{0x1F600, 0x1F602}),
	})

	meta, err := NewExtractor().Extract(raw)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	expected := []rune{'A', 'B', 0x1F600, 0x1F601, 0x1F602}
	if !reflect.DeepEqual(meta.Coverage(), expected) {
		t.Errorf("Expected coverage %v, got %v", expected, meta.Coverage())
	}
}

func TestExtract_Collection(t *testing.T) {
	const headerLen = 16
	face := sfntFont(headerLen, map[string][]byte{
		"fvar": fvarTable("opsz"),
	})

	raw := make([]byte, headerLen)
	copy(raw[0:], "ttcf")
	binary.BigEndian.PutUint32(raw[4:], 0x00010000)
	binary.BigEndian.PutUint32(raw[8:], 1)         // numFonts
	binary.BigEndian.PutUint32(raw[12:], headerLen) // first face offset
	raw = append(raw, face...)

	meta, err := NewExtractor().Extract(raw)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !reflect.DeepEqual(meta.Axes, []string{"opsz"}) {
		t.Errorf("Expected first face axes, got %v", meta.Axes)
	}
}

func TestExtract_UnknownTablesIgnored(t *testing.T) {
	raw := sfntFont(0, map[string][]byte{
		"glyf": {0x00},
		"ZZZZ": {0x01, 0x02},
	})

	meta, err := NewExtractor().Extract(raw)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !reflect.DeepEqual(meta.Tables, []string{"glyf"}) {
		t.Errorf("Expected unknown tags dropped, got %v", meta.Tables)
	}
}

func TestExtract_NotFont(t *testing.T) {
	cases := [][]byte{
		nil,
		{0x00},
		[]byte("this is definitely not a font file"),
	}
	for _, raw := range cases {
		if _, err := NewExtractor().Extract(raw); !errors.Is(err, font.ErrNotFont) {
			t.Errorf("Extract(%d bytes): expected ErrNotFont, got %v", len(raw), err)
		}
	}
}

func TestExtract_Truncated(t *testing.T) {
	// Valid magic, one directory record pointing past the end of file
	raw := make([]byte, 28)
	binary.BigEndian.PutUint32(raw[0:], sfntTrueType)
	binary.BigEndian.PutUint16(raw[4:], 1)
	copy(raw[12:], "glyf")
	binary.BigEndian.PutUint32(raw[20:], 1024) // offset past EOF
	binary.BigEndian.PutUint32(raw[24:], 16)

	if _, err := NewExtractor().Extract(raw); !errors.Is(err, font.ErrTruncated) {
		t.Errorf("Expected ErrTruncated, got %v", err)
	}
}

func TestExtract_MalformedCmapYieldsEmptyCoverage(t *testing.T) {
	// cmap advertises a subtable beyond its own bounds; extraction must
	// still succeed and coverage degrade to empty.
	broken := make([]byte, 12)
	binary.BigEndian.PutUint16(broken[2:], 1)
	binary.BigEndian.PutUint16(broken[4:], platformWindows)
	binary.BigEndian.PutUint16(broken[6:], 1)
	binary.BigEndian.PutUint32(broken[8:], 4096)

	raw := sfntFont(0, map[string][]byte{
		"cmap": broken,
		"glyf": {0x00},
	})

	meta, err := NewExtractor().Extract(raw)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(meta.Coverage()) != 0 {
		t.Errorf("Expected empty coverage, got %v", meta.Coverage())
	}
}
