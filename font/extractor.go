package font

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/twardoch/fontgrep/data"
)

// Extraction errors. Implementations must distinguish data that is not a
// font at all from data that looks like a font but is cut short or
// internally inconsistent.
var (
	ErrNotFont   = errors.New("fontgrep: not a recognized font file")
	ErrTruncated = errors.New("fontgrep: truncated or corrupt font data")
)

// Extractor produces structural metadata from raw font bytes. The returned
// record resolves its codepoint coverage lazily; implementations must make
// the coverage function safe to call after Extract returns, independent of
// the input slice's lifetime only if they retain it.
type Extractor interface {
	Extract(raw []byte) (*data.FontMetadata, error)
}

// Extensions that mark a file as worth opening at all. The prefilter runs
// before any read, so keeping this list tight saves the most work on large
// trees.
var fontExtensions = map[string]struct{}{
	".ttf": {},
	".otf": {},
	".ttc": {},
	".otc": {},
}

// IsFontPath reports whether the path carries a font-like extension.
func IsFontPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := fontExtensions[ext]
	return ok
}

// Reconstruct builds a FontMetadata from previously extracted values, with
// coverage already materialized. Used when a cached record is evaluated
// without re-parsing the file.
func Reconstruct(axes, features, scripts, tables, names []string, coverage []rune) *data.FontMetadata {
	meta := data.NewFontMetadata(axes, features, scripts, tables, names, nil)
	meta.SetCoverage(coverage)
	return meta
}
