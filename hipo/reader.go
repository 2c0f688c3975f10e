package hipo

import (
	"fmt"

	"github.com/jlab-hipo/evio/endian"
	"github.com/jlab-hipo/evio/errs"
	"github.com/jlab-hipo/evio/header"
	"github.com/jlab-hipo/evio/record"
)

// Reader walks the file layout a Writer produces: a FileHeader, that file's
// user header (optionally a CommonRecord), zero or more records, and an
// optional trailer. Record offsets are discovered once, up front, by
// walking the record headers in order; a present trailer's own offset
// simply ends that walk rather than being consulted to locate records,
// since the two must agree and the walk is already a linear pass over
// 56-byte headers.
//
// Note: Reader is NOT thread-safe; concurrent calls must be serialized by
// the caller.
type Reader struct {
	data []byte

	Header *header.FileHeader

	common       *CommonRecord
	userHeader   []byte
	recordOffset []int

	trailerOffset int // 0 means no trailer present
	trailerPairs  []uint32
}

// NewReader parses the file header and locates every record (and an
// optional trailer) in data.
func NewReader(data []byte) (*Reader, error) {
	if len(data) < header.StandardHeaderLength {
		return nil, errs.ErrTruncatedBuffer
	}

	h := header.NewFileHeader(0)
	if err := h.Parse(data[:header.StandardHeaderLength], endian.GetLittleEndianEngine()); err != nil {
		return nil, err
	}
	if !h.BitInfo.HeaderType().IsFileHeader() {
		return nil, fmt.Errorf("%w: not a file header", errs.ErrMalformedHeader)
	}

	userHeaderLen := int(h.UserHeaderLength)
	userHeaderPadded := h.UserHeaderLengthWords() * 4

	if header.StandardHeaderLength+userHeaderPadded > len(data) {
		return nil, errs.ErrTruncatedBuffer
	}

	rawUserHeader := data[header.StandardHeaderLength : header.StandardHeaderLength+userHeaderLen]

	r := &Reader{data: data, Header: h}

	if h.BitInfo.HasDictionary() || h.BitInfo.HasFirstEvent() {
		common, remainder, err := decodeCommonRecordWithRemainder(rawUserHeader, h.Order)
		if err != nil {
			return nil, err
		}

		r.common = common
		r.userHeader = remainder
	} else {
		r.common = &CommonRecord{}
		r.userHeader = rawUserHeader
	}

	if err := r.scan(header.StandardHeaderLength + userHeaderPadded); err != nil {
		return nil, err
	}

	return r, nil
}

// scan walks forward from pos, recording the offset of every record until
// it reaches a trailer header or the end of data.
func (r *Reader) scan(pos int) error {
	for pos < len(r.data) {
		if len(r.data) < pos+header.StandardHeaderLength {
			return errs.ErrTruncatedBuffer
		}

		var h header.RecordHeader
		if err := h.Parse(r.data[pos:pos+header.StandardHeaderLength], r.Header.Order); err != nil {
			return err
		}

		if h.BitInfo.HeaderType().IsTrailer() {
			r.trailerOffset = pos

			pairs, err := parseTrailerData(r.data[pos:], &h)
			if err != nil {
				return err
			}

			r.trailerPairs = pairs

			return nil
		}

		r.recordOffset = append(r.recordOffset, pos)
		pos += int(h.RecordLengthWords) * 4
	}

	return nil
}

// parseTrailerData reads a trailer record's raw (recordLengthBytes,
// recordEntries) pairs. The trailer is always written uncompressed with no
// user header, so its data region sits immediately after the 56-byte
// header.
func parseTrailerData(recordBytes []byte, h *header.RecordHeader) ([]uint32, error) {
	dataLen := int(h.UncompressedDataLength)
	if header.StandardHeaderLength+dataLen > len(recordBytes) {
		return nil, errs.ErrTruncatedBuffer
	}

	data := recordBytes[header.StandardHeaderLength : header.StandardHeaderLength+dataLen]

	pairs := make([]uint32, dataLen/4)
	for i := range pairs {
		pairs[i] = h.Order.Uint32(data[4*i : 4*i+4])
	}

	return pairs, nil
}

// decodeCommonRecordWithRemainder is DecodeCommonRecord plus the trailing
// bytes left over after the dictionary/first-event pair, which are the
// caller-supplied user header bytes a Writer appended after the common
// record blob.
func decodeCommonRecordWithRemainder(data []byte, order endian.EndianEngine) (*CommonRecord, []byte, error) {
	c, err := DecodeCommonRecord(data, order)
	if err != nil {
		return nil, nil, err
	}

	consumed := 8 + len(c.Dictionary) + len(c.FirstEvent)

	return c, data[consumed:], nil
}

// RecordCount returns the number of records (excluding any trailer).
func (r *Reader) RecordCount() int {
	return len(r.recordOffset)
}

// Record decodes the record at index i.
func (r *Reader) Record(i int) (*record.RecordInput, error) {
	if i < 0 || i >= len(r.recordOffset) {
		return nil, fmt.Errorf("%w: record %d", errs.ErrIndexOutOfRange, i)
	}

	ri := &record.RecordInput{}
	if err := ri.ReadFrom(r.data, r.recordOffset[i]); err != nil {
		return nil, err
	}

	return ri, nil
}

// Dictionary returns the file-level XML dictionary bytes, or nil if none.
func (r *Reader) Dictionary() []byte { return r.common.Dictionary }

// FirstEvent returns the file-level first-event bytes, or nil if none.
func (r *Reader) FirstEvent() []byte { return r.common.FirstEvent }

// UserHeader returns the caller-supplied user header bytes, with any
// dictionary/first-event framing already stripped out.
func (r *Reader) UserHeader() []byte { return r.userHeader }

// HasTrailer reports whether the file carries a trailer record.
func (r *Reader) HasTrailer() bool { return r.trailerOffset != 0 }

// TrailerIndex returns the trailer's flat (recordLengthBytes, recordEntries)
// pairs, or nil if the file has no trailer.
func (r *Reader) TrailerIndex() []uint32 { return r.trailerPairs }
