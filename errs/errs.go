// Package errs collects the sentinel errors shared across this module.
//
// Callers should compare with errors.Is, since call sites typically wrap a
// sentinel with extra context: fmt.Errorf("%w: record 3", errs.ErrIndexOutOfRange).
package errs

import "errors"

var (
	// ErrMalformedHeader is returned when a header's magic word matches
	// neither the expected value nor its byte-swapped form, when its index
	// or header length field is invalid, or when a file header carries a
	// non-file header type.
	ErrMalformedHeader = errors.New("evio: malformed header")

	// ErrUnsupportedVersion is returned when a header's version field is
	// below the minimum this codec understands.
	ErrUnsupportedVersion = errors.New("evio: unsupported header version")

	// ErrUnsupportedCompression is returned for a compression code outside
	// {0..3}, or for GZIP when it was not compiled in.
	ErrUnsupportedCompression = errors.New("evio: unsupported compression type")

	// ErrInconsistentHeader is returned when a record header's index
	// length and entry count disagree.
	ErrInconsistentHeader = errors.New("evio: inconsistent record header")

	// ErrTruncatedBuffer is returned whenever a read would run past the
	// end of the supplied buffer.
	ErrTruncatedBuffer = errors.New("evio: truncated buffer")

	// ErrTruncatedStructure is returned when an evio structure's header or
	// data extends past the bounds of its backing buffer.
	ErrTruncatedStructure = errors.New("evio: truncated structure")

	// ErrIndexOutOfRange is returned by event/index accessors given an
	// index that is not less than the entry count.
	ErrIndexOutOfRange = errors.New("evio: index out of range")

	// ErrBadFormat is returned by the composite-data compiler/interpreter
	// for an invalid format string or a runtime invariant violation.
	ErrBadFormat = errors.New("evio: bad composite format")

	// ErrBufferOverflow is returned when a write target lacks capacity.
	ErrBufferOverflow = errors.New("evio: buffer overflow")

	// ErrCompressionFailure is returned for a codec-level compression or
	// decompression failure.
	ErrCompressionFailure = errors.New("evio: compression failure")

	// ErrRecordFull is returned by RecordOutput.AddEvent when adding the
	// event would exceed the configured event-count or byte-size limit.
	ErrRecordFull = errors.New("evio: record full")

	// ErrInvalidHeaderSize names a header byte slice of the wrong size. No
	// parser in this module returns it: a slice shorter than its header is
	// reported as ErrTruncatedBuffer or ErrTruncatedStructure.
	ErrInvalidHeaderSize = errors.New("evio: invalid header size")

	// ErrWriterClosed is returned by Writer methods called after Close.
	ErrWriterClosed = errors.New("evio: writer already closed")

	// ErrInvalidPadding is returned when a decoded padding field is
	// outside its valid range.
	ErrInvalidPadding = errors.New("evio: invalid padding value")
)
