package record

import (
	"fmt"

	"github.com/jlab-hipo/evio/compress"
	"github.com/jlab-hipo/evio/endian"
	"github.com/jlab-hipo/evio/errs"
	"github.com/jlab-hipo/evio/format"
	"github.com/jlab-hipo/evio/header"
)

// RecordInput decodes a single record from a byte source: header, index,
// user header, and events. It adopts the byte order resolved from the
// record header's magic word for all further reads.
//
// Note: RecordInput is NOT thread-safe, and a fresh instance is expected
// per ReadFrom call; it is not designed for reuse across records.
type RecordInput struct {
	Header *header.RecordHeader

	data []byte // decompressed [index | user header | events] region

	userHeaderOffset int
	eventsOffset     int
}

// ReadFrom decodes a record beginning at src[offset:]. It parses the
// header, decompresses the data region via the compress package,
// reconstructs the index when the header reports a zero index length, and
// rewrites the index into cumulative end offsets so GetEvent/GetEventLength
// are O(1) afterward.
func (r *RecordInput) ReadFrom(src []byte, offset int) error {
	if len(src) < offset+header.StandardHeaderLength {
		return errs.ErrTruncatedBuffer
	}

	h := &header.RecordHeader{}
	if err := h.Parse(src[offset:offset+header.StandardHeaderLength], endian.GetLittleEndianEngine()); err != nil {
		return err
	}
	r.Header = h

	entries := int(h.EntryCount)
	indexLen := int(h.IndexLength)

	reconstruct := false
	switch {
	case indexLen == 0 && entries > 0:
		reconstruct = true
		indexLen = 4 * entries
	case indexLen != 4*entries:
		return fmt.Errorf("%w: index length %d does not match 4*entries (%d)", errs.ErrInconsistentHeader, indexLen, 4*entries)
	}

	userHdrPadded := h.UserHeaderLengthWords() * 4
	eventsLen := 4 * h.DataLengthWords()

	recordStart := offset + h.HeaderLengthBytes()
	recordEnd := offset + int(h.RecordLengthWords)*4

	var region []byte
	if h.CompressionType == format.CompressionNone {
		if recordEnd > len(src) {
			return errs.ErrTruncatedBuffer
		}

		body := src[recordStart:recordEnd]
		region = make([]byte, indexLen+userHdrPadded+eventsLen)
		if reconstruct {
			copy(region[indexLen:], body)
		} else {
			copy(region, body)
		}
	} else {
		compressedLen := h.CompressedDataLengthBytes()
		if recordStart+compressedLen > len(src) {
			return errs.ErrTruncatedBuffer
		}

		codec, err := compress.NewCodec(h.CompressionType)
		if err != nil {
			return err
		}

		// In reconstruction mode the index was never physically written
		// (compressed or not), so the compressed stream only covers the
		// user header and events; the index-sized gap is reserved below.
		uncompressedLen := userHdrPadded + eventsLen
		if !reconstruct {
			uncompressedLen = indexLen + userHdrPadded + eventsLen
		}

		decompressed, err := codec.Decompress(src[recordStart:recordStart+compressedLen], uncompressedLen)
		if err != nil {
			return err
		}

		if reconstruct {
			region = make([]byte, indexLen+len(decompressed))
			copy(region[indexLen:], decompressed)
		} else {
			region = decompressed
		}
	}

	r.data = region
	r.userHeaderOffset = indexLen
	r.eventsOffset = indexLen + userHdrPadded

	r.rewriteIndex(entries, reconstruct)

	return nil
}

// rewriteIndex transforms the first 4*entries bytes of r.data from
// per-event lengths (or, in reconstruction mode, scanned evio bank
// lengths) into cumulative end offsets relative to r.eventsOffset.
func (r *RecordInput) rewriteIndex(entries int, reconstruct bool) {
	order := r.Header.Order

	pos := 0
	readPos := r.eventsOffset

	for i := 0; i < entries; i++ {
		var size int
		if reconstruct {
			// The event payload must be evio: its first word is the bank
			// length in words, exclusive of that word itself.
			bankLenWords := order.Uint32(r.data[readPos : readPos+4])
			size = 4 * (int(bankLenWords) + 1)
			readPos += size
		} else {
			size = int(order.Uint32(r.data[i*4 : i*4+4]))
		}

		pos += size
		order.PutUint32(r.data[i*4:i*4+4], uint32(pos)) //nolint:gosec
	}
}

// EntryCount returns the number of events in the record.
func (r *RecordInput) EntryCount() int {
	return int(r.Header.EntryCount)
}

// GetEvent returns a copy of the event at index i.
func (r *RecordInput) GetEvent(i int) ([]byte, error) {
	start, end, err := r.eventBounds(i)
	if err != nil {
		return nil, err
	}

	event := make([]byte, end-start)
	copy(event, r.data[r.eventsOffset+start:r.eventsOffset+end])

	return event, nil
}

// GetEventLength returns the byte length of the event at index i without
// copying it.
func (r *RecordInput) GetEventLength(i int) (int, error) {
	start, end, err := r.eventBounds(i)
	if err != nil {
		return 0, err
	}

	return end - start, nil
}

func (r *RecordInput) eventBounds(i int) (start, end int, err error) {
	if i < 0 || i >= int(r.Header.EntryCount) {
		return 0, 0, fmt.Errorf("%w: event %d", errs.ErrIndexOutOfRange, i)
	}

	order := r.Header.Order
	if i > 0 {
		start = int(order.Uint32(r.data[(i-1)*4 : (i-1)*4+4]))
	}
	end = int(order.Uint32(r.data[i*4 : i*4+4]))

	return start, end, nil
}

// GetUserHeader returns the record's (unpadded) user header bytes.
func (r *RecordInput) GetUserHeader() []byte {
	n := int(r.Header.UserHeaderLength)
	return r.data[r.userHeaderOffset : r.userHeaderOffset+n]
}

// UncompressRecord writes the uncompressed form of the record at
// src[srcOffset:] into dst: the header verbatim except with its
// compression type cleared and record length reset to the uncompressed
// value, followed by the uncompressed [index | user header | events]
// region. It returns the number of bytes written.
func UncompressRecord(src []byte, srcOffset int, dst []byte) (int, error) {
	h := &header.RecordHeader{}
	if err := h.Parse(src[srcOffset:srcOffset+header.StandardHeaderLength], endian.GetLittleEndianEngine()); err != nil {
		return 0, err
	}

	indexLen := int(h.IndexLength)
	userHdrPadded := h.UserHeaderLengthWords() * 4
	eventsLen := 4 * h.DataLengthWords()
	uncompressedLen := indexLen + userHdrPadded + eventsLen

	var region []byte
	if h.CompressionType == format.CompressionNone {
		start := srcOffset + h.HeaderLengthBytes()
		region = src[start : start+uncompressedLen]
	} else {
		codec, err := compress.NewCodec(h.CompressionType)
		if err != nil {
			return 0, err
		}

		compressedLen := h.CompressedDataLengthBytes()
		start := srcOffset + h.HeaderLengthBytes()

		decompressed, err := codec.Decompress(src[start:start+compressedLen], uncompressedLen)
		if err != nil {
			return 0, err
		}

		region = decompressed
	}

	h.CompressionType = format.CompressionNone
	h.CompressedDataLengthWords = 0
	h.BitInfo = h.BitInfo.WithCompressedDataPadding(0)
	h.RecordLengthWords = uint32(header.StandardHeaderWords + endian.PadWords(len(region))) //nolint:gosec

	n := copy(dst, h.Bytes())
	n += copy(dst[n:], region)

	return n, nil
}
