package hipo

import (
	"fmt"

	"github.com/jlab-hipo/evio/cursor"
	"github.com/jlab-hipo/evio/endian"
	"github.com/jlab-hipo/evio/errs"
	"github.com/jlab-hipo/evio/format"
	"github.com/jlab-hipo/evio/header"
	"github.com/jlab-hipo/evio/internal/options"
	"github.com/jlab-hipo/evio/internal/pool"
	"github.com/jlab-hipo/evio/record"
)

// WriterConfig holds the tunables applied by WriterOption.
type WriterConfig struct {
	order               endian.EndianEngine
	compressionType     format.CompressionType
	maxEventCount       int
	maxBufferSize       int
	userHeader          []byte
	dictionary          []byte
	firstEvent          []byte
	addTrailerWithIndex bool
	splitSize           int
}

func newWriterConfig() *WriterConfig {
	return &WriterConfig{
		order:           endian.GetLittleEndianEngine(),
		compressionType: format.CompressionNone,
		maxEventCount:   record.DefaultMaxEventCount,
		maxBufferSize:   record.DefaultMaxBufferSize,
	}
}

// WriterOption configures a Writer at construction time.
type WriterOption = options.Option[*WriterConfig]

// WithWriterLittleEndian writes the file in little-endian byte order. This
// is the default.
func WithWriterLittleEndian() WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.order = endian.GetLittleEndianEngine()
	})
}

// WithWriterBigEndian writes the file in big-endian byte order.
func WithWriterBigEndian() WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.order = endian.GetBigEndianEngine()
	})
}

// WithWriterCompression sets the compression applied to every record's
// index/user-header/events region.
func WithWriterCompression(t format.CompressionType) WriterOption {
	return options.New(func(c *WriterConfig) error {
		if !t.Valid() {
			return fmt.Errorf("%w: %v", errs.ErrUnsupportedCompression, t)
		}

		c.compressionType = t

		return nil
	})
}

// WithWriterMaxEventCount overrides the per-record event-count ceiling.
func WithWriterMaxEventCount(n int) WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.maxEventCount = n
	})
}

// WithWriterMaxBufferSize overrides the per-record uncompressed byte-size
// ceiling.
func WithWriterMaxBufferSize(n int) WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.maxBufferSize = n
	})
}

// WithUserHeader sets the caller-supplied bytes carried in the file header's
// user header, alongside any dictionary/first event also configured.
func WithUserHeader(data []byte) WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.userHeader = data
	})
}

// WithDictionary sets the XML dictionary bytes replicated into the file
// header's synthesized user header.
func WithDictionary(data []byte) WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.dictionary = data
	})
}

// WithFirstEvent sets the event bytes replicated into the file header's
// synthesized user header, so a downstream reader can recover it without
// reading the first record.
func WithFirstEvent(data []byte) WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.firstEvent = data
	})
}

// WithTrailerIndex enables writing a trailer record on Close whose data is
// the flat (recordLengthBytes, recordEntries) index of every record
// written so far.
func WithTrailerIndex(enabled bool) WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.addTrailerWithIndex = enabled
	})
}

// WithSplitSize enables size-based file splitting: after each record is
// appended, once the running byte counter of the physical file currently
// being assembled has reached n bytes, the writer finalizes that file
// (trailer included, per WithTrailerIndex) and starts a fresh one carrying
// the same dictionary and first event forward, per spec.md §4.7. The check
// runs after the record is written, so a finalized file can be larger than
// n. Zero, the default, disables splitting: Close always returns exactly
// one file.
func WithSplitSize(n int) WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.splitSize = n
	})
}

// Writer sequences events into records and records into a single in-memory
// file: a FileHeader, that file's (possibly synthesized) user header, each
// record as built by record.RecordOutput, and an optional trailer.
//
// Note: Writer is NOT thread-safe; a single goroutine must drive it from
// NewWriter through Close.
type Writer struct {
	*WriterConfig

	out            *cursor.Cursor
	cur            *record.RecordOutput
	recordCount    uint32
	trailerPairs   []uint32 // flat (lengthBytes, entries) pairs
	completedFiles [][]byte // physical files already finalized by a split
	closed         bool
}

// NewWriter creates a Writer and immediately emits the file header (and its
// user header) into the internal buffer.
func NewWriter(opts ...WriterOption) (*Writer, error) {
	cfg := newWriterConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	w := &Writer{
		WriterConfig: cfg,
		out:          cursor.NewFromPooled(pool.GetFileBuffer(), cfg.order),
	}

	if err := w.writeFileHeader(); err != nil {
		return nil, err
	}

	return w, nil
}

func (w *Writer) writeFileHeader() error {
	h := header.NewFileHeader(format.HipoFile)
	h.Order = w.order

	common := &CommonRecord{Dictionary: w.dictionary, FirstEvent: w.firstEvent}

	var userHeader []byte
	if !common.Empty() {
		userHeader = append(common.Encode(w.order), w.userHeader...)
		h.BitInfo = h.BitInfo.WithDictionary(len(w.dictionary) > 0).WithFirstEvent(len(w.firstEvent) > 0)
	} else {
		userHeader = w.userHeader
	}

	pad := endian.Pad(len(userHeader))
	h.SetUserHeaderLength(uint32(len(userHeader))) //nolint:gosec
	h.RecordLengthWords = uint32(header.StandardHeaderWords + (len(userHeader)+pad)/4) //nolint:gosec

	w.out.WriteBytes(h.Bytes())
	w.out.WriteBytes(userHeader)
	w.out.WriteZeros(pad)

	return nil
}

// AddEvent appends an event, starting a new record (flushing the current
// one first) whenever the event-count or buffer-size ceiling is reached.
func (w *Writer) AddEvent(data []byte) error {
	if w.closed {
		return errs.ErrWriterClosed
	}

	if w.cur == nil {
		if err := w.newRecord(); err != nil {
			return err
		}
	}

	if err := w.cur.AddEvent(data); err != nil {
		if err := w.flushRecord(); err != nil {
			return err
		}

		if err := w.maybeSplit(); err != nil {
			return err
		}

		if err := w.newRecord(); err != nil {
			return err
		}

		return w.cur.AddEvent(data)
	}

	return nil
}

func (w *Writer) newRecord() error {
	opts := []record.RecordOutputOption{
		record.WithHeaderType(format.HipoRecord),
		record.WithCompression(w.compressionType),
		record.WithMaxEventCount(w.maxEventCount),
		record.WithMaxBufferSize(w.maxBufferSize),
	}

	if w.order == endian.GetBigEndianEngine() {
		opts = append(opts, record.WithBigEndian())
	}

	cur, err := record.NewRecordOutput(opts...)
	if err != nil {
		return err
	}

	w.cur = cur

	return nil
}

// Flush forces the current (possibly partially filled) record to be built
// and appended, so every event added so far is in the file buffer that
// Close returns.
func (w *Writer) Flush() error {
	if w.closed {
		return errs.ErrWriterClosed
	}

	if err := w.flushRecord(); err != nil {
		return err
	}

	return w.maybeSplit()
}

func (w *Writer) flushRecord() error {
	if w.cur == nil || w.cur.EventCount() == 0 {
		return nil
	}

	w.cur.SetRecordNumber(w.recordCount)

	built, err := w.cur.Build()
	if err != nil {
		return err
	}

	w.out.WriteBytes(built)
	w.trailerPairs = append(w.trailerPairs, uint32(len(built)), uint32(w.cur.EventCount())) //nolint:gosec
	w.recordCount++
	w.cur = nil

	return nil
}

// maybeSplit finalizes the physical file currently being assembled and
// starts a fresh one, carrying the dictionary/first event forward, once the
// running byte counter (w.out.Len()) has reached the configured split size.
// A no-op when splitting is disabled or the current file is still
// empty of records (a split never produces a record-less leading file).
func (w *Writer) maybeSplit() error {
	if w.splitSize <= 0 || w.recordCount == 0 || w.out.Len() < w.splitSize {
		return nil
	}

	finished, err := w.finalizeFile()
	if err != nil {
		return err
	}

	w.completedFiles = append(w.completedFiles, finished)

	return w.startNewFile()
}

// startNewFile replaces w.out with a freshly-written file header (and its
// synthesized user header) for the next physical file of a split, resetting
// the per-file record bookkeeping.
func (w *Writer) startNewFile() error {
	w.out = cursor.NewFromPooled(pool.GetFileBuffer(), w.order)
	w.recordCount = 0
	w.trailerPairs = nil

	return w.writeFileHeader()
}

// CompletedFiles returns the bytes of every physical file already finalized
// by a size-based split, in write order. The final file - the one still
// being assembled - is not included here; it is returned by Close.
func (w *Writer) CompletedFiles() [][]byte {
	return w.completedFiles
}

// Close flushes any pending record, optionally appends a trailer record,
// patches the file header's record count and trailer position, and returns
// the complete bytes of the final physical file. The Writer must not be
// used afterward. If splitting was configured and triggered earlier, the
// physical files written before this one are available from
// CompletedFiles.
func (w *Writer) Close() ([]byte, error) {
	if w.closed {
		return nil, errs.ErrWriterClosed
	}

	if err := w.flushRecord(); err != nil {
		return nil, err
	}

	result, err := w.finalizeFile()
	if err != nil {
		return nil, err
	}

	w.closed = true

	return result, nil
}

// finalizeFile optionally appends a trailer record, patches the file
// header's record count and trailer position, and returns a standalone copy
// of the physical file assembled so far. It does not mark the Writer
// closed: a size-based split calls this mid-stream to seal off one physical
// file before starting the next.
func (w *Writer) finalizeFile() ([]byte, error) {
	var trailerPos uint64

	if w.addTrailerWithIndex {
		trailerPos = uint64(w.out.Len()) //nolint:gosec

		trailerBytes, err := buildTrailer(w.order, w.trailerPairs)
		if err != nil {
			return nil, err
		}

		w.out.WriteBytes(trailerBytes)
	}

	w.patchFileHeader(trailerPos)

	result := make([]byte, w.out.Len())
	copy(result, w.out.Bytes())
	w.out.Release(pool.PutFileBuffer)
	w.out = nil

	return result, nil
}

// patchFileHeader rewrites the 56-byte file header in place with the final
// record count and, if a trailer was written, its position. The file
// header's own IsLastRecord bit doubles as "this file has a trailer",
// mirroring the original writer's hasTrailer tracking.
func (w *Writer) patchFileHeader(trailerPos uint64) {
	h := header.NewFileHeader(format.HipoFile)
	if err := h.Parse(w.out.Bytes()[:header.StandardHeaderLength], w.order); err != nil {
		return
	}

	h.EntryCount = w.recordCount

	if trailerPos != 0 {
		h.SetTrailerPosition(trailerPos)
		h.BitInfo = h.BitInfo.WithLastRecord(true)
	}

	w.out.PutBytesAt(0, h.Bytes())
}

// buildTrailer constructs a standalone trailer record: a RecordHeader with
// headerType EvioTrailer, isLastRecord set, zero entries, and a raw data
// region holding pairs flattened directly (no index array, no user header,
// no compression).
func buildTrailer(order endian.EndianEngine, pairs []uint32) ([]byte, error) {
	h := header.NewRecordHeader(format.EvioTrailer)
	h.Order = order
	h.BitInfo = h.BitInfo.WithLastRecord(true)
	h.CompressionType = format.CompressionNone

	dataLen := 4 * len(pairs)
	pad := endian.Pad(dataLen)

	h.SetUncompressedDataLength(uint32(dataLen))                                 //nolint:gosec
	h.RecordLengthWords = uint32(header.StandardHeaderWords + (dataLen+pad)/4) //nolint:gosec

	c := cursor.NewFromPooled(pool.GetRecordBuffer(), order)
	defer c.Release(pool.PutRecordBuffer)

	c.WriteBytes(h.Bytes())

	for _, v := range pairs {
		c.WriteUint32(v)
	}

	c.WriteZeros(pad)

	out := make([]byte, c.Len())
	copy(out, c.Bytes())

	return out, nil
}
