package opentype

import "unicode/utf16"

const (
	platformUnicode   = 0
	platformMacintosh = 1
	platformWindows   = 3
)

// parseNames collects the decoded strings of the name table. Unicode and
// Windows records are UTF-16BE; Macintosh records are decoded as Latin-1,
// which is exact for the Roman encoding's ASCII range and lossy but safe
// beyond it.
func parseNames(tables map[string]reader) ([]string, error) {
	name, ok := tables["name"]
	if !ok {
		return nil, nil
	}

	count, err := name.u16(2)
	if err != nil {
		return nil, err
	}
	stringOffset, err := name.u16(4)
	if err != nil {
		return nil, err
	}

	var out []string
	for i := 0; i < int(count); i++ {
		rec := 6 + i*12
		platformID, err := name.u16(rec)
		if err != nil {
			return nil, err
		}
		length, err := name.u16(rec + 8)
		if err != nil {
			return nil, err
		}
		offset, err := name.u16(rec + 10)
		if err != nil {
			return nil, err
		}

		raw, err := name.bytes(int(stringOffset)+int(offset), int(length))
		if err != nil {
			// Some real fonts carry name records pointing past the
			// table; skip them instead of rejecting the font.
			continue
		}

		var decoded string
		switch platformID {
		case platformUnicode, platformWindows:
			decoded = decodeUTF16BE(raw)
		case platformMacintosh:
			decoded = decodeLatin1(raw)
		default:
			continue
		}

		if decoded != "" {
			out = append(out, decoded)
		}
	}

	return out, nil
}

func decodeUTF16BE(b []byte) string {
	units := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		units = append(units, uint16(b[i])<<8|uint16(b[i+1]))
	}
	return string(utf16.Decode(units))
}

func decodeLatin1(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
