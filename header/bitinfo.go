package header

import "github.com/jlab-hipo/evio/format"

// Bit masks and shifts within the record/file header's bit-info word
// (word 6). Layout mirrors the original RecordHeader's bitInfo field:
// version in bits 0-7, three independent flag bits, a 4-bit event type,
// three 2-bit padding fields, and a 4-bit header type at the top.
const (
	versionMask   = 0x0000_00FF
	dictionaryBit = 1 << 8
	firstEventBit = 1 << 9
	lastRecordBit = 1 << 10

	eventTypeShift = 11
	eventTypeMask  = 0xF << eventTypeShift

	userHeaderPaddingShift = 20
	userHeaderPaddingMask  = 0x3 << userHeaderPaddingShift

	dataPaddingShift = 22
	dataPaddingMask  = 0x3 << dataPaddingShift

	compressedPaddingShift = 24
	compressedPaddingMask  = 0x3 << compressedPaddingShift

	headerTypeShift = 28
	headerTypeMask  = 0xF << headerTypeShift
)

// BitInfo is the packed sixth word of a RecordHeader/FileHeader. It is kept
// as a plain uint32 wrapper rather than a struct of separate fields so a
// header's Bytes/Parse methods can read and write it as a single unit while
// every flag is still mutated through named accessors.
type BitInfo uint32

// NewBitInfo returns a BitInfo with the given version and header type and
// all other flags cleared.
func NewBitInfo(version uint8, headerType format.HeaderType) BitInfo {
	return BitInfo(uint32(version)&versionMask | uint32(headerType)<<headerTypeShift) //nolint:gosec
}

func (b BitInfo) Version() uint8 { return uint8(b & versionMask) } //nolint:gosec

func (b BitInfo) WithVersion(version uint8) BitInfo {
	return (b &^ versionMask) | BitInfo(version)&versionMask
}

func (b BitInfo) HasDictionary() bool { return b&dictionaryBit != 0 }

func (b BitInfo) WithDictionary(v bool) BitInfo {
	if v {
		return b | dictionaryBit
	}

	return b &^ dictionaryBit
}

func (b BitInfo) HasFirstEvent() bool { return b&firstEventBit != 0 }

func (b BitInfo) WithFirstEvent(v bool) BitInfo {
	if v {
		return b | firstEventBit
	}

	return b &^ firstEventBit
}

func (b BitInfo) IsLastRecord() bool { return b&lastRecordBit != 0 }

func (b BitInfo) WithLastRecord(v bool) BitInfo {
	if v {
		return b | lastRecordBit
	}

	return b &^ lastRecordBit
}

func (b BitInfo) EventType() format.EventType {
	return format.EventType((b & eventTypeMask) >> eventTypeShift) //nolint:gosec
}

func (b BitInfo) WithEventType(t format.EventType) BitInfo {
	return (b &^ eventTypeMask) | (BitInfo(t)<<eventTypeShift)&eventTypeMask
}

func (b BitInfo) UserHeaderPadding() int {
	return int((b & userHeaderPaddingMask) >> userHeaderPaddingShift)
}

func (b BitInfo) WithUserHeaderPadding(pad int) BitInfo {
	return (b &^ userHeaderPaddingMask) | (BitInfo(pad)<<userHeaderPaddingShift)&userHeaderPaddingMask //nolint:gosec
}

func (b BitInfo) DataPadding() int {
	return int((b & dataPaddingMask) >> dataPaddingShift)
}

func (b BitInfo) WithDataPadding(pad int) BitInfo {
	return (b &^ dataPaddingMask) | (BitInfo(pad)<<dataPaddingShift)&dataPaddingMask //nolint:gosec
}

func (b BitInfo) CompressedDataPadding() int {
	return int((b & compressedPaddingMask) >> compressedPaddingShift)
}

func (b BitInfo) WithCompressedDataPadding(pad int) BitInfo {
	return (b &^ compressedPaddingMask) | (BitInfo(pad)<<compressedPaddingShift)&compressedPaddingMask //nolint:gosec
}

func (b BitInfo) HeaderType() format.HeaderType {
	return format.HeaderType((b & headerTypeMask) >> headerTypeShift) //nolint:gosec
}

func (b BitInfo) WithHeaderType(t format.HeaderType) BitInfo {
	return (b &^ headerTypeMask) | (BitInfo(t)<<headerTypeShift)&headerTypeMask
}
