package composite

import "strings"

// stringsToRawBytes packs a list of strings into the raw-byte form used by
// the 'a' (CHARSTAR8 array) composite format code: each string followed by
// a NUL separator, with the whole run padded with NUL bytes to a 4-byte
// boundary. When the unpadded length already lands on a word boundary, a
// full extra NUL word is appended so the padding is never ambiguous with
// a string that happens to end exactly on a boundary.
func stringsToRawBytes(strs []string) []byte {
	joined := strings.Join(strs, "\x00") + "\x00"
	raw := []byte(joined)

	pad := (4 - len(raw)%4) % 4
	if pad == 0 {
		pad = 4
	}

	return append(raw, make([]byte, pad)...)
}

// rawBytesToStrings reverses stringsToRawBytes: splits on NUL and drops the
// trailing empty strings produced by the separator and padding.
func rawBytesToStrings(raw []byte) []string {
	parts := strings.Split(string(raw), "\x00")

	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}

	return parts
}
