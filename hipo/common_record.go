package hipo

import (
	"github.com/jlab-hipo/evio/endian"
	"github.com/jlab-hipo/evio/errs"
)

// CommonRecord packs an optional XML dictionary and an optional "first
// event" into the single user-header blob a file header carries, so a
// split file can reconstruct both from its own header alone. The layout is
// a fixed 8-byte length prefix (dictionary length, first-event length)
// followed by the two byte runs back to back, uncompressed and unpadded
// (the caller pads the whole user header to a word boundary separately).
type CommonRecord struct {
	Dictionary []byte
	FirstEvent []byte
}

// Empty reports whether both fields are empty, in which case the file
// header's user header should simply be the caller-supplied bytes (or
// nothing) rather than a CommonRecord.
func (c *CommonRecord) Empty() bool {
	return len(c.Dictionary) == 0 && len(c.FirstEvent) == 0
}

// Encode serializes c as the fixed-prefix layout described above.
func (c *CommonRecord) Encode(order endian.EndianEngine) []byte {
	out := make([]byte, 8, 8+len(c.Dictionary)+len(c.FirstEvent))
	order.PutUint32(out[0:4], uint32(len(c.Dictionary))) //nolint:gosec
	order.PutUint32(out[4:8], uint32(len(c.FirstEvent))) //nolint:gosec
	out = append(out, c.Dictionary...)
	out = append(out, c.FirstEvent...)

	return out
}

// DecodeCommonRecord parses the layout Encode produces.
func DecodeCommonRecord(data []byte, order endian.EndianEngine) (*CommonRecord, error) {
	if len(data) < 8 {
		return nil, errs.ErrTruncatedBuffer
	}

	dictLen := int(order.Uint32(data[0:4]))
	firstLen := int(order.Uint32(data[4:8]))

	if 8+dictLen+firstLen > len(data) {
		return nil, errs.ErrTruncatedBuffer
	}

	c := &CommonRecord{}
	if dictLen > 0 {
		c.Dictionary = append([]byte(nil), data[8:8+dictLen]...)
	}
	if firstLen > 0 {
		c.FirstEvent = append([]byte(nil), data[8+dictLen:8+dictLen+firstLen]...)
	}

	return c, nil
}
