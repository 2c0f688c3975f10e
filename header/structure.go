package header

import (
	"github.com/jlab-hipo/evio/endian"
	"github.com/jlab-hipo/evio/errs"
	"github.com/jlab-hipo/evio/format"
)

// Structure header sizes in bytes.
const (
	BankHeaderSize       = 8
	SegmentHeaderSize    = 4
	TagSegmentHeaderSize = 4
)

// packLeafByte combines a structure's padding and data type into the
// 8-bit middle field shared by bank and segment headers: padding in the
// top 2 bits, data type in the low 6.
func packLeafByte(padding int, dataType format.DataType) byte {
	return byte(padding&0x3)<<6 | byte(dataType&0x3F) //nolint:gosec
}

func unpackLeafByte(b byte) (padding int, dataType format.DataType) {
	return int(b >> 6), format.DataType(b & 0x3F)
}

// BankHeader is the 2-word header preceding every evio bank: a length word
// followed by a tag/type/num word.
//
//	word 1: length in words, excluding itself
//	word 2 (BE bit order): tag:16 | padding:2 | dataType:6 | num:8
type BankHeader struct {
	Length   uint32 // words, excluding this header's own first word
	Tag      uint16
	DataType format.DataType
	Padding  int // 0..3, meaningful only for sub-word primitive leaves
	Num      uint8
}

// Parse decodes a BankHeader from the first 8 bytes of data using order.
func (h *BankHeader) Parse(data []byte, order endian.EndianEngine) error {
	if len(data) < BankHeaderSize {
		return errs.ErrTruncatedStructure
	}

	h.Length = order.Uint32(data[0:4])

	word2 := order.Uint32(data[4:8])
	h.Tag = uint16(word2 >> 16) //nolint:gosec
	padding, dataType := unpackLeafByte(byte(word2 >> 8)) //nolint:gosec
	h.Padding = padding
	h.DataType = dataType
	h.Num = byte(word2) //nolint:gosec

	return nil
}

// Bytes encodes the BankHeader as 8 bytes in order.
func (h BankHeader) Bytes(order endian.EndianEngine) []byte {
	b := make([]byte, BankHeaderSize)
	order.PutUint32(b[0:4], h.Length)

	word2 := uint32(h.Tag)<<16 | uint32(packLeafByte(h.Padding, h.DataType))<<8 | uint32(h.Num)
	order.PutUint32(b[4:8], word2)

	return b
}

// SegmentHeader is the 1-word header preceding every evio segment.
//
//	tag:8 | padding:2 | dataType:6 | length:16
type SegmentHeader struct {
	Tag      uint8
	DataType format.DataType
	Padding  int
	Length   uint16 // words, excluding this header
}

func (h *SegmentHeader) Parse(data []byte, order endian.EndianEngine) error {
	if len(data) < SegmentHeaderSize {
		return errs.ErrTruncatedStructure
	}

	word := order.Uint32(data[0:4])
	h.Tag = byte(word >> 24) //nolint:gosec
	padding, dataType := unpackLeafByte(byte(word >> 16)) //nolint:gosec
	h.Padding = padding
	h.DataType = dataType
	h.Length = uint16(word) //nolint:gosec

	return nil
}

func (h SegmentHeader) Bytes(order endian.EndianEngine) []byte {
	b := make([]byte, SegmentHeaderSize)

	word := uint32(h.Tag)<<24 | uint32(packLeafByte(h.Padding, h.DataType))<<16 | uint32(h.Length)
	order.PutUint32(b[0:4], word)

	return b
}

// TagSegmentHeader is the 1-word header preceding every evio tag-segment.
// Unlike bank and segment, it has no padding field (a legacy omission).
//
//	tag:12 | dataType:4 | length:16
type TagSegmentHeader struct {
	Tag      uint16 // 12 bits
	DataType format.DataType
	Length   uint16 // words, excluding this header
}

func (h *TagSegmentHeader) Parse(data []byte, order endian.EndianEngine) error {
	if len(data) < TagSegmentHeaderSize {
		return errs.ErrTruncatedStructure
	}

	word := order.Uint32(data[0:4])
	h.Tag = uint16(word>>20) & 0xFFF      //nolint:gosec
	h.DataType = format.DataType(word>>16) & 0xF //nolint:gosec
	h.Length = uint16(word)               //nolint:gosec

	return nil
}

func (h TagSegmentHeader) Bytes(order endian.EndianEngine) []byte {
	b := make([]byte, TagSegmentHeaderSize)

	word := uint32(h.Tag&0xFFF)<<20 | uint32(h.DataType&0xF)<<16 | uint32(h.Length)
	order.PutUint32(b[0:4], word)

	return b
}
