package dialer

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// encodeHeaderParams JSON-encodes each parameter into its own header.
// Runes outside printable ASCII are escaped as \uXXXX so header values
// stay 7-bit clean; surrogate pairs fall out of Go's UTF-16 encoding of
// runes above the BMP.
func encodeHeaderParams(h http.Header, params map[string]any) error {
	for key, value := range params {
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode param %q: %w", key, err)
		}
		h.Set(key, escapeNonASCII(string(raw)))
	}
	return nil
}

func escapeNonASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x7f {
			b.WriteRune(r)
			continue
		}
		if r > 0xffff {
			r1, r2 := utf16Pair(r)
			fmt.Fprintf(&b, `\u%04x\u%04x`, r1, r2)
			continue
		}
		fmt.Fprintf(&b, `\u%04x`, r)
	}
	return b.String()
}

func utf16Pair(r rune) (rune, rune) {
	r -= 0x10000
	return 0xd800 + (r >> 10), 0xdc00 + (r & 0x3ff)
}
