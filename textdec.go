package save

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// legacyCharmaps are tried in fixed order when bytes are not valid UTF-8.
// Latin-1 accepts every byte sequence, so the chain effectively terminates
// there for arbitrary input; cp1252 and the replacement fallback keep the
// documented order regardless.
var legacyCharmaps = []*charmap.Charmap{
	charmap.ISO8859_1,
	charmap.Windows1252,
}

// decodeText turns raw save bytes into text without ever failing: UTF-8
// first (a leading BOM is stripped), then the legacy 8-bit encodings, then
// UTF-8 with replacement characters for anything undecodable.
func decodeText(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)

	if utf8.Valid(data) {
		return string(data)
	}

	for _, cm := range legacyCharmaps {
		if out, err := cm.NewDecoder().Bytes(data); err == nil {
			return string(out)
		}
	}

	return strings.ToValidUTF8(string(data), string(utf8.RuneError))
}
