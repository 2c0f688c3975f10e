package cursor

import (
	"math"

	"github.com/jlab-hipo/evio/endian"
	"github.com/jlab-hipo/evio/errs"
	"github.com/jlab-hipo/evio/internal/pool"
)

// Cursor is a typed absolute/relative reader and writer over a byte buffer
// with an explicit byte order. hipo's file and trailer assembly use it;
// header, record, evio, and composite read and write []byte directly.
//
// A Cursor is not safe for concurrent use.
type Cursor struct {
	bb    *pool.ByteBuffer
	pos   int
	order endian.EndianEngine
}

// New wraps an existing byte slice for reading. Relative writes append past
// len(data), growing the buffer as needed.
func New(data []byte, order endian.EndianEngine) *Cursor {
	bb := &pool.ByteBuffer{B: data}
	return &Cursor{bb: bb, order: order}
}

// NewWriter returns an empty, growable cursor for building up a buffer from
// scratch. sizeHint pre-allocates capacity to avoid early reallocations.
func NewWriter(order endian.EndianEngine, sizeHint int) *Cursor {
	return &Cursor{bb: pool.NewByteBuffer(sizeHint), order: order}
}

// NewFromPooled wraps an already-pooled ByteBuffer (e.g. from
// pool.GetRecordBuffer/GetFileBuffer) for writing, avoiding a fresh
// allocation. The caller releases it via Release once done with the cursor.
func NewFromPooled(bb *pool.ByteBuffer, order endian.EndianEngine) *Cursor {
	return &Cursor{bb: bb, order: order}
}

// Release hands the cursor's backing buffer to put (typically
// pool.PutRecordBuffer or pool.PutFileBuffer) and detaches it; the cursor
// must not be used afterward.
func (c *Cursor) Release(put func(*pool.ByteBuffer)) {
	put(c.bb)
	c.bb = nil
}

// Order returns the cursor's current byte order.
func (c *Cursor) Order() endian.EndianEngine { return c.order }

// SetOrder changes the byte order used by subsequent typed reads/writes.
// It does not retroactively swap already-written data.
func (c *Cursor) SetOrder(order endian.EndianEngine) { c.order = order }

// Len returns the number of valid bytes currently in the buffer.
func (c *Cursor) Len() int { return c.bb.Len() }

// Pos returns the current read/write position.
func (c *Cursor) Pos() int { return c.pos }

// Remaining returns the number of bytes between the current position and
// the end of the buffer.
func (c *Cursor) Remaining() int { return c.bb.Len() - c.pos }

// Bytes returns the underlying buffer. The slice is valid until the next
// write that triggers a grow; callers that need a stable copy should copy it.
func (c *Cursor) Bytes() []byte { return c.bb.Bytes() }

// Seek sets the absolute read/write position. It fails with
// ErrTruncatedBuffer if pos is negative or past the end of the buffer.
func (c *Cursor) Seek(pos int) error {
	if pos < 0 || pos > c.bb.Len() {
		return errs.ErrTruncatedBuffer
	}
	c.pos = pos

	return nil
}

// Skip advances the position by n bytes (n may be negative).
func (c *Cursor) Skip(n int) error {
	return c.Seek(c.pos + n)
}

// Reset empties the buffer and rewinds the position to zero, retaining the
// underlying allocation for reuse.
func (c *Cursor) Reset() {
	c.bb.Reset()
	c.pos = 0
}

func (c *Cursor) checkRead(n int) error {
	if c.pos+n > c.bb.Len() {
		return errs.ErrTruncatedBuffer
	}

	return nil
}

// --- relative typed reads ---

func (c *Cursor) ReadUint8() (uint8, error) {
	if err := c.checkRead(1); err != nil {
		return 0, err
	}
	v := c.bb.B[c.pos]
	c.pos++

	return v, nil
}

func (c *Cursor) ReadInt8() (int8, error) {
	v, err := c.ReadUint8()
	return int8(v), err //nolint:gosec
}

func (c *Cursor) ReadUint16() (uint16, error) {
	if err := c.checkRead(2); err != nil {
		return 0, err
	}
	v := c.order.Uint16(c.bb.B[c.pos : c.pos+2])
	c.pos += 2

	return v, nil
}

func (c *Cursor) ReadInt16() (int16, error) {
	v, err := c.ReadUint16()
	return int16(v), err //nolint:gosec
}

func (c *Cursor) ReadUint32() (uint32, error) {
	if err := c.checkRead(4); err != nil {
		return 0, err
	}
	v := c.order.Uint32(c.bb.B[c.pos : c.pos+4])
	c.pos += 4

	return v, nil
}

func (c *Cursor) ReadInt32() (int32, error) {
	v, err := c.ReadUint32()
	return int32(v), err //nolint:gosec
}

func (c *Cursor) ReadUint64() (uint64, error) {
	if err := c.checkRead(8); err != nil {
		return 0, err
	}
	v := c.order.Uint64(c.bb.B[c.pos : c.pos+8])
	c.pos += 8

	return v, nil
}

func (c *Cursor) ReadInt64() (int64, error) {
	v, err := c.ReadUint64()
	return int64(v), err //nolint:gosec
}

func (c *Cursor) ReadFloat32() (float32, error) {
	v, err := c.ReadUint32()
	return math.Float32frombits(v), err
}

func (c *Cursor) ReadFloat64() (float64, error) {
	v, err := c.ReadUint64()
	return math.Float64frombits(v), err
}

// ReadBytes returns a sub-slice of the next n bytes (not a copy) and
// advances the position past them.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if err := c.checkRead(n); err != nil {
		return nil, err
	}
	b := c.bb.B[c.pos : c.pos+n]
	c.pos += n

	return b, nil
}

// --- absolute typed reads (position unchanged) ---

func (c *Cursor) Uint32At(pos int) (uint32, error) {
	if pos < 0 || pos+4 > c.bb.Len() {
		return 0, errs.ErrTruncatedBuffer
	}

	return c.order.Uint32(c.bb.B[pos : pos+4]), nil
}

func (c *Cursor) Uint16At(pos int) (uint16, error) {
	if pos < 0 || pos+2 > c.bb.Len() {
		return 0, errs.ErrTruncatedBuffer
	}

	return c.order.Uint16(c.bb.B[pos : pos+2]), nil
}

func (c *Cursor) Uint64At(pos int) (uint64, error) {
	if pos < 0 || pos+8 > c.bb.Len() {
		return 0, errs.ErrTruncatedBuffer
	}

	return c.order.Uint64(c.bb.B[pos : pos+8]), nil
}

// SliceAt returns a sub-slice [pos, pos+n) without moving the cursor.
func (c *Cursor) SliceAt(pos, n int) ([]byte, error) {
	if pos < 0 || n < 0 || pos+n > c.bb.Len() {
		return nil, errs.ErrTruncatedBuffer
	}

	return c.bb.B[pos : pos+n], nil
}

// --- relative typed writes (append, growing as needed) ---

func (c *Cursor) WriteUint8(v uint8) {
	c.bb.MustWrite([]byte{v})
	c.pos = c.bb.Len()
}

func (c *Cursor) WriteUint16(v uint16) {
	c.bb.B = c.order.AppendUint16(c.bb.B, v)
	c.pos = c.bb.Len()
}

func (c *Cursor) WriteUint32(v uint32) {
	c.bb.B = c.order.AppendUint32(c.bb.B, v)
	c.pos = c.bb.Len()
}

func (c *Cursor) WriteUint64(v uint64) {
	c.bb.B = c.order.AppendUint64(c.bb.B, v)
	c.pos = c.bb.Len()
}

func (c *Cursor) WriteFloat32(v float32) {
	c.WriteUint32(math.Float32bits(v))
}

func (c *Cursor) WriteFloat64(v float64) {
	c.WriteUint64(math.Float64bits(v))
}

// WriteBytes appends data verbatim, growing the buffer if necessary.
func (c *Cursor) WriteBytes(data []byte) {
	c.bb.MustWrite(data)
	c.pos = c.bb.Len()
}

// WriteZeros appends n zero bytes, used for padding.
func (c *Cursor) WriteZeros(n int) {
	for range n {
		c.bb.MustWrite([]byte{0})
	}
	c.pos = c.bb.Len()
}

// --- absolute typed writes (overwrite in place; buffer must already be long enough) ---

// PutUint32At overwrites 4 bytes at pos. Panics if pos+4 exceeds the
// buffer's capacity, mirroring pool.ByteBuffer.Slice's contract: this
// is a programming error (writing a header field before the buffer has
// been sized), not a malformed-input condition. A range past Len but within
// capacity does not panic; it is written into unused capacity and Len does
// not change.
func (c *Cursor) PutUint32At(pos int, v uint32) {
	c.order.PutUint32(c.bb.Slice(pos, pos+4), v)
}

func (c *Cursor) PutUint16At(pos int, v uint16) {
	c.order.PutUint16(c.bb.Slice(pos, pos+2), v)
}

func (c *Cursor) PutUint64At(pos int, v uint64) {
	c.order.PutUint64(c.bb.Slice(pos, pos+8), v)
}

// PutBytesAt overwrites len(data) bytes at pos verbatim. Panics if
// pos+len(data) exceeds the buffer's capacity, the same contract as
// PutUint32At.
func (c *Cursor) PutBytesAt(pos int, data []byte) {
	copy(c.bb.Slice(pos, pos+len(data)), data)
}

// Grow ensures capacity for at least n additional bytes without forcing a
// length change, matching pool.ByteBuffer.Grow's amortized growth strategy.
func (c *Cursor) Grow(n int) { c.bb.Grow(n) }

// SetLength truncates or extends the visible buffer to exactly n bytes.
// Extending exposes zero-valued bytes only if the backing array already
// held them; callers extending into fresh capacity should follow with
// explicit writes.
func (c *Cursor) SetLength(n int) { c.bb.SetLength(n) }
