package header

import (
	"fmt"

	"github.com/jlab-hipo/evio/endian"
	"github.com/jlab-hipo/evio/errs"
	"github.com/jlab-hipo/evio/format"
)

// StandardHeaderWords is the header length, in 32-bit words, of a standard
// record or file header with no extension.
const StandardHeaderWords = 14

// StandardHeaderLength is StandardHeaderWords in bytes.
const StandardHeaderLength = StandardHeaderWords * 4

// CurrentVersion is the version this package writes and the minimum version
// it accepts on read.
const CurrentVersion = 6

// RecordHeader is the 14-word (56-byte) header shared by records and files;
// FileHeader reuses the exact same layout (see file.go), distinguished only
// by the header-type field packed into BitInfo.
//
//	word  1: record length in words, inclusive of this header
//	word  2: record number
//	word  3: header length in words (== 14 for a standard header)
//	word  4: entry count (event count)
//	word  5: index array length in bytes
//	word  6: bit-info word (see BitInfo)
//	word  7: user header length in bytes
//	word  8: magic number
//	word  9: uncompressed data length in bytes
//	word 10: compression type (top 4 bits) | compressed data length in words (low 28 bits)
//	word 11-12: user register #1 (64-bit)
//	word 13-14: user register #2 (64-bit)
type RecordHeader struct {
	RecordLengthWords      uint32
	RecordNumber           uint32
	HeaderLengthWords      uint32
	EntryCount             uint32
	IndexLength            uint32 // bytes
	BitInfo                BitInfo
	UserHeaderLength       uint32 // bytes
	UncompressedDataLength uint32 // bytes
	CompressionType        format.CompressionType
	CompressedDataLengthWords uint32
	UserRegister1          uint64
	UserRegister2          uint64

	// Order is the byte order resolved from the magic word during Parse.
	// It is not part of the wire layout.
	Order endian.EndianEngine
}

// NewRecordHeader returns a RecordHeader initialized for the given header
// kind with the current version and all other fields zeroed.
func NewRecordHeader(kind format.HeaderType) *RecordHeader {
	return &RecordHeader{
		HeaderLengthWords: StandardHeaderWords,
		BitInfo:           NewBitInfo(CurrentVersion, kind),
		Order:             endian.GetLittleEndianEngine(),
	}
}

// Parse decodes a RecordHeader from the first 56 bytes of data. The byte
// order is resolved from the magic word at byte offset 28 rather than
// taken from a caller-supplied hint; assumedOrder is only the initial guess
// used to interpret that one word (see resolveOrder).
func (h *RecordHeader) Parse(data []byte, assumedOrder endian.EndianEngine) error {
	if len(data) < StandardHeaderLength {
		return errs.ErrTruncatedBuffer
	}

	order, err := resolveOrder(data[28:32], assumedOrder)
	if err != nil {
		return err
	}
	h.Order = order

	h.RecordLengthWords = order.Uint32(data[0:4])
	h.RecordNumber = order.Uint32(data[4:8])
	h.HeaderLengthWords = order.Uint32(data[8:12])
	h.EntryCount = order.Uint32(data[12:16])
	h.IndexLength = order.Uint32(data[16:20])
	h.BitInfo = BitInfo(order.Uint32(data[20:24]))
	h.UserHeaderLength = order.Uint32(data[24:28])
	// data[28:32] is the magic word, already consumed by resolveOrder.
	h.UncompressedDataLength = order.Uint32(data[32:36])

	word10 := order.Uint32(data[36:40])
	h.CompressionType = format.CompressionType(word10 >> 28) //nolint:gosec
	h.CompressedDataLengthWords = word10 & 0x0FFF_FFFF

	h.UserRegister1 = order.Uint64(data[40:48])
	h.UserRegister2 = order.Uint64(data[48:56])

	if h.BitInfo.Version() < CurrentVersion {
		return fmt.Errorf("%w: version %d", errs.ErrUnsupportedVersion, h.BitInfo.Version())
	}
	if h.IndexLength%4 != 0 {
		return fmt.Errorf("%w: index length %d not a multiple of 4", errs.ErrMalformedHeader, h.IndexLength)
	}
	if h.HeaderLengthWords < StandardHeaderWords {
		return fmt.Errorf("%w: header length %d words", errs.ErrMalformedHeader, h.HeaderLengthWords)
	}
	if !h.CompressionType.Valid() {
		return fmt.Errorf("%w: %v", errs.ErrUnsupportedCompression, h.CompressionType)
	}

	return nil
}

// Bytes encodes the RecordHeader as StandardHeaderLength bytes using h.Order
// (or LittleEndian if unset).
func (h *RecordHeader) Bytes() []byte {
	order := h.Order
	if order == nil {
		order = endian.GetLittleEndianEngine()
	}

	b := make([]byte, StandardHeaderLength)
	order.PutUint32(b[0:4], h.RecordLengthWords)
	order.PutUint32(b[4:8], h.RecordNumber)
	order.PutUint32(b[8:12], h.HeaderLengthWords)
	order.PutUint32(b[12:16], h.EntryCount)
	order.PutUint32(b[16:20], h.IndexLength)
	order.PutUint32(b[20:24], uint32(h.BitInfo))
	order.PutUint32(b[24:28], h.UserHeaderLength)
	order.PutUint32(b[28:32], MagicWord)
	order.PutUint32(b[32:36], h.UncompressedDataLength)

	word10 := uint32(h.CompressionType)<<28 | (h.CompressedDataLengthWords & 0x0FFF_FFFF) //nolint:gosec
	order.PutUint32(b[36:40], word10)

	order.PutUint64(b[40:48], h.UserRegister1)
	order.PutUint64(b[48:56], h.UserRegister2)

	return b
}

// HeaderLengthBytes returns 4 * HeaderLengthWords.
func (h *RecordHeader) HeaderLengthBytes() int { return int(h.HeaderLengthWords) * 4 }

// UserHeaderLengthWords returns ceil_div4(UserHeaderLength).
func (h *RecordHeader) UserHeaderLengthWords() int {
	return endian.PadWords(int(h.UserHeaderLength))
}

// DataLengthWords returns ceil_div4(UncompressedDataLength).
func (h *RecordHeader) DataLengthWords() int {
	return endian.PadWords(int(h.UncompressedDataLength))
}

// CompressedDataLengthBytes returns 4*CompressedDataLengthWords minus the
// compressed-data padding recorded in BitInfo.
func (h *RecordHeader) CompressedDataLengthBytes() int {
	return int(h.CompressedDataLengthWords)*4 - h.BitInfo.CompressedDataPadding()
}

// SetUncompressedDataLength sets the uncompressed data length and updates
// the matching padding bits in BitInfo.
func (h *RecordHeader) SetUncompressedDataLength(n uint32) {
	h.UncompressedDataLength = n
	h.BitInfo = h.BitInfo.WithDataPadding(endian.Pad(int(n)))
}

// SetUserHeaderLength sets the user header length and updates the matching
// padding bits in BitInfo.
func (h *RecordHeader) SetUserHeaderLength(n uint32) {
	h.UserHeaderLength = n
	h.BitInfo = h.BitInfo.WithUserHeaderPadding(endian.Pad(int(n)))
}

// SetCompressedDataLength sets the compressed data length (bytes) and
// updates the word count and padding bits in BitInfo accordingly.
func (h *RecordHeader) SetCompressedDataLength(n uint32) {
	pad := endian.Pad(int(n))
	h.CompressedDataLengthWords = uint32(endian.PadWords(int(n))) //nolint:gosec
	h.BitInfo = h.BitInfo.WithCompressedDataPadding(pad)
}
