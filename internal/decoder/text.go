package decoder

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// PlainText decodes UTF-8 text. A UTF-16 or UTF-8 byte order mark selects the
// encoding and is stripped. Invalid sequences are replaced with U+FFFD.
type PlainText struct{}

// Decode implements Decoder.
func (PlainText) Decode(data []byte) (string, error) {
	out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(out), "\uFFFD"), nil
}
