package record

import (
	"fmt"

	"github.com/jlab-hipo/evio/compress"
	"github.com/jlab-hipo/evio/endian"
	"github.com/jlab-hipo/evio/errs"
	"github.com/jlab-hipo/evio/format"
	"github.com/jlab-hipo/evio/header"
	"github.com/jlab-hipo/evio/internal/options"
	"github.com/jlab-hipo/evio/internal/pool"
)

// DefaultMaxEventCount is the default event-count ceiling before AddEvent
// reports ErrRecordFull.
const DefaultMaxEventCount = 1_000_000

// DefaultMaxBufferSize is the default uncompressed-events byte ceiling
// before AddEvent reports ErrRecordFull.
const DefaultMaxBufferSize = 8 * 1024 * 1024

// RecordOutputConfig holds the tunables applied by RecordOutputOption.
type RecordOutputConfig struct {
	order           endian.EndianEngine
	kind            format.HeaderType
	compressionType format.CompressionType
	maxEventCount   int
	maxBufferSize   int
}

func newRecordOutputConfig() *RecordOutputConfig {
	return &RecordOutputConfig{
		order:           endian.GetLittleEndianEngine(),
		kind:            format.HipoRecord,
		compressionType: format.CompressionNone,
		maxEventCount:   DefaultMaxEventCount,
		maxBufferSize:   DefaultMaxBufferSize,
	}
}

// RecordOutputOption configures a RecordOutput at construction time.
type RecordOutputOption = options.Option[*RecordOutputConfig]

// WithLittleEndian writes the record in little-endian byte order. This is
// the default.
func WithLittleEndian() RecordOutputOption {
	return options.NoError(func(c *RecordOutputConfig) {
		c.order = endian.GetLittleEndianEngine()
	})
}

// WithBigEndian writes the record in big-endian byte order.
func WithBigEndian() RecordOutputOption {
	return options.NoError(func(c *RecordOutputConfig) {
		c.order = endian.GetBigEndianEngine()
	})
}

// WithHeaderType sets the header-type bits written into the record's
// BitInfo word. Defaults to format.HipoRecord.
func WithHeaderType(kind format.HeaderType) RecordOutputOption {
	return options.NoError(func(c *RecordOutputConfig) {
		c.kind = kind
	})
}

// WithCompression sets the compression applied to the index/user-header/
// events region on Build. Defaults to format.CompressionNone.
func WithCompression(t format.CompressionType) RecordOutputOption {
	return options.New(func(c *RecordOutputConfig) error {
		if !t.Valid() {
			return fmt.Errorf("%w: %v", errs.ErrUnsupportedCompression, t)
		}

		c.compressionType = t

		return nil
	})
}

// WithMaxEventCount overrides the event-count ceiling.
func WithMaxEventCount(n int) RecordOutputOption {
	return options.NoError(func(c *RecordOutputConfig) {
		c.maxEventCount = n
	})
}

// WithMaxBufferSize overrides the uncompressed-events byte-size ceiling.
func WithMaxBufferSize(n int) RecordOutputOption {
	return options.NoError(func(c *RecordOutputConfig) {
		c.maxBufferSize = n
	})
}

// RecordOutput accumulates events in an internal uncompressed buffer and
// builds a single record's bytes on demand.
//
// Note: RecordOutput is NOT thread-safe. Each instance should be driven by
// a single goroutine at a time.
type RecordOutput struct {
	*RecordOutputConfig

	eventsBuf  *pool.ByteBuffer
	lengths    []uint32
	userHeader []byte
	recordNum  uint32
}

// NewRecordOutput creates a RecordOutput ready to accept events.
func NewRecordOutput(opts ...RecordOutputOption) (*RecordOutput, error) {
	cfg := newRecordOutputConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &RecordOutput{
		RecordOutputConfig: cfg,
		eventsBuf:          pool.NewByteBuffer(pool.RecordBufferDefaultSize),
		lengths:            make([]uint32, 0, 16),
	}, nil
}

// SetRecordNumber sets the record number written into the header on Build.
// Assigning record numbers is the writer façade's responsibility, not
// RecordOutput's own.
func (r *RecordOutput) SetRecordNumber(n uint32) {
	r.recordNum = n
}

// SetUserHeader sets the (unpadded) user header bytes written into the
// record on Build. Pass nil to clear it.
func (r *RecordOutput) SetUserHeader(data []byte) {
	r.userHeader = data
}

// EventCount returns the number of events accumulated so far.
func (r *RecordOutput) EventCount() int {
	return len(r.lengths)
}

// AddEvent appends the event's bytes verbatim and records its length in the
// pending index array. It fails with ErrRecordFull if adding the event
// would exceed the configured event-count or byte-size limit.
func (r *RecordOutput) AddEvent(data []byte) error {
	if len(r.lengths) >= r.maxEventCount {
		return fmt.Errorf("%w: %d events", errs.ErrRecordFull, r.maxEventCount)
	}

	if r.eventsBuf.Len()+len(data) > r.maxBufferSize {
		return fmt.Errorf("%w: %d bytes", errs.ErrRecordFull, r.maxBufferSize)
	}

	r.eventsBuf.MustWrite(data)
	r.lengths = append(r.lengths, uint32(len(data))) //nolint:gosec

	return nil
}

// Reset clears all accumulated events and the user header, allowing the
// encoder to be reused for the next record.
func (r *RecordOutput) Reset() {
	r.eventsBuf.Reset()
	r.lengths = r.lengths[:0]
	r.userHeader = nil
	r.recordNum = 0
}

// Build finalizes the record: header, index (one 4-byte length per event,
// in record byte order), padded user header, then events. If the
// configured compression type is not CompressionNone, the
// [index | user header | events] region is compressed and fields 5, 7, 9,
// and 10 of the header are rewritten accordingly; the header itself is
// never compressed.
func (r *RecordOutput) Build() ([]byte, error) {
	indexLen := 4 * len(r.lengths)
	userHdrPadded := endian.PadWords(len(r.userHeader)) * 4
	eventsLen := r.eventsBuf.Len()
	eventsPadded := endian.PadWords(eventsLen) * 4

	// Each section - index, user header, events - is independently padded
	// to a word boundary; their combined length is therefore already word
	// aligned before compression is considered.
	region := make([]byte, 0, indexLen+userHdrPadded+eventsPadded)
	for _, l := range r.lengths {
		word := make([]byte, 4)
		r.order.PutUint32(word, l)
		region = append(region, word...)
	}

	region = append(region, r.userHeader...)
	region = append(region, make([]byte, userHdrPadded-len(r.userHeader))...)
	region = append(region, r.eventsBuf.Bytes()...)
	region = append(region, make([]byte, eventsPadded-eventsLen)...)

	h := header.NewRecordHeader(r.kind)
	h.Order = r.order
	h.RecordNumber = r.recordNum
	h.EntryCount = uint32(len(r.lengths)) //nolint:gosec
	h.IndexLength = uint32(indexLen)      //nolint:gosec
	h.SetUserHeaderLength(uint32(len(r.userHeader)))
	// UncompressedDataLength covers events only; index and user header are
	// accounted for separately via IndexLength/UserHeaderLength.
	h.SetUncompressedDataLength(uint32(eventsLen))
	h.CompressionType = r.compressionType

	if r.compressionType == format.CompressionNone {
		h.CompressedDataLengthWords = 0
		h.BitInfo = h.BitInfo.WithCompressedDataPadding(0)
		h.RecordLengthWords = uint32(header.StandardHeaderWords + len(region)/4) //nolint:gosec

		out := make([]byte, 0, header.StandardHeaderLength+len(region))
		out = append(out, h.Bytes()...)
		out = append(out, region...)

		return out, nil
	}

	codec, err := compress.NewCodec(r.compressionType)
	if err != nil {
		return nil, err
	}

	compressed, err := codec.Compress(region)
	if err != nil {
		return nil, err
	}

	h.SetCompressedDataLength(uint32(len(compressed))) //nolint:gosec
	compressedPad := endian.Pad(len(compressed))
	h.RecordLengthWords = uint32(header.StandardHeaderWords + h.CompressedDataLengthWords) //nolint:gosec

	out := make([]byte, 0, header.StandardHeaderLength+len(compressed)+compressedPad)
	out = append(out, h.Bytes()...)
	out = append(out, compressed...)
	out = append(out, make([]byte, compressedPad)...)

	return out, nil
}
