package save

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// keySeparators strips the separators humans paste between hex digit pairs.
var keySeparators = strings.NewReplacer(" ", "", "-", "", ":", "")

// DecodeKey converts a human-entered hexadecimal key string into raw bytes.
// Spaces, hyphens, and colons between digit pairs are ignored. The decoded
// length is not constrained here; the cipher layer enforces AES key sizes.
func DecodeKey(s string) ([]byte, error) {
	clean := keySeparators.Replace(s)
	if len(clean)%2 != 0 {
		return nil, fmt.Errorf("%w: odd number of hex digits", ErrMalformedKey)
	}
	key, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}
	return key, nil
}

// EncodeKey renders a raw key as a bare hex string for display or reuse.
func EncodeKey(key []byte) string {
	return hex.EncodeToString(key)
}
