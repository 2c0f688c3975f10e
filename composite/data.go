package composite

import (
	"fmt"

	"github.com/jlab-hipo/evio/endian"
	"github.com/jlab-hipo/evio/errs"
	"github.com/jlab-hipo/evio/format"
	"github.com/jlab-hipo/evio/header"
)

// Data is the in-memory model of one composite-data value: a format
// string, its tags, and the typed items it carries. It is the builder-
// facing counterpart to the raw Compile/Parse/Build/SwapData functions,
// producing and consuming the full on-the-wire layout described in
// spec.md 6: a tag-segment carrying the CHARSTAR8 format string
// immediately followed by a bank whose payload is the format-driven byte
// stream.
type Data struct {
	Format    string
	FormatTag uint16
	DataTag   uint16
	DataNum   uint8
	Items     []Item
}

// innerBankDataType is the data type written into the wrapped data bank's
// header: format.Composite, matching the original implementation's
// `new EvioBank(dataTag, DataType.COMPOSITE, dataNum)`. This inner bank is
// never itself handed to evio.Scan for recursion - composite.SwapInPlace
// and DecodeData consume it directly - the field is carried only because
// readers of the raw bytes (e.g. a debug dump) expect it.
const innerBankDataType = format.Composite

// Encode serializes d as the tag-segment-plus-bank wire structure, in
// order. The returned bytes are exactly what an enclosing bank's data
// region should contain when that bank's own data type is
// format.Composite.
func (d *Data) Encode(order endian.EndianEngine) ([]byte, error) {
	prog, err := Compile(d.Format)
	if err != nil {
		return nil, err
	}

	payload, err := Build(d.Items, order, prog)
	if err != nil {
		return nil, err
	}

	formatBytes := stringsToRawBytes([]string{d.Format})
	tsHeader := header.TagSegmentHeader{
		Tag:      d.FormatTag,
		DataType: format.Charstar8,
		Length:   uint16(len(formatBytes) / 4), //nolint:gosec
	}

	payloadPad := endian.Pad(len(payload))
	bHeader := header.BankHeader{
		Length:   uint32(1 + (len(payload)+payloadPad)/4), //nolint:gosec
		Tag:      d.DataTag,
		DataType: innerBankDataType,
		Padding:  payloadPad,
		Num:      d.DataNum,
	}

	out := make([]byte, 0, header.TagSegmentHeaderSize+len(formatBytes)+header.BankHeaderSize+len(payload)+payloadPad)
	out = append(out, tsHeader.Bytes(order)...)
	out = append(out, formatBytes...)
	out = append(out, bHeader.Bytes(order)...)
	out = append(out, payload...)
	out = append(out, make([]byte, payloadPad)...)

	return out, nil
}

// DecodeData parses the tag-segment-plus-bank wire structure at buf[:],
// returning the decoded Data and the number of bytes consumed.
func DecodeData(buf []byte, order endian.EndianEngine) (*Data, int, error) {
	if len(buf) < header.TagSegmentHeaderSize {
		return nil, 0, errs.ErrTruncatedStructure
	}

	var tsHeader header.TagSegmentHeader
	if err := tsHeader.Parse(buf[:header.TagSegmentHeaderSize], order); err != nil {
		return nil, 0, err
	}

	pos := header.TagSegmentHeaderSize
	formatLen := 4 * int(tsHeader.Length)

	if pos+formatLen > len(buf) {
		return nil, 0, errs.ErrTruncatedStructure
	}

	strs := rawBytesToStrings(buf[pos : pos+formatLen])
	if len(strs) < 1 {
		return nil, 0, fmt.Errorf("%w: missing composite format string", errs.ErrBadFormat)
	}

	formatStr := strs[0]
	pos += formatLen

	if pos+header.BankHeaderSize > len(buf) {
		return nil, 0, errs.ErrTruncatedStructure
	}

	var bHeader header.BankHeader
	if err := bHeader.Parse(buf[pos:pos+header.BankHeaderSize], order); err != nil {
		return nil, 0, err
	}

	pos += header.BankHeaderSize
	dataLen := 4*int(bHeader.Length) - 4

	if pos+dataLen > len(buf) {
		return nil, 0, errs.ErrTruncatedStructure
	}

	payload := buf[pos : pos+dataLen-bHeader.Padding]
	pos += dataLen

	prog, err := Compile(formatStr)
	if err != nil {
		return nil, 0, err
	}

	items, err := Parse(payload, order, prog)
	if err != nil {
		return nil, 0, err
	}

	return &Data{
		Format:    formatStr,
		FormatTag: tsHeader.Tag,
		DataTag:   bHeader.Tag,
		DataNum:   bHeader.Num,
		Items:     items,
	}, pos, nil
}

// SwapInPlace byte-swaps one composite value's full wire structure - the
// tag-segment header, its format string (copied, not swapped), the
// wrapped bank header, and finally its format-driven data - in place.
// payload is the data region of an enclosing bank whose data type is
// format.Composite; order is the byte order that data currently carries.
func SwapInPlace(payload []byte, order endian.EndianEngine) error {
	if len(payload) < header.TagSegmentHeaderSize {
		return errs.ErrTruncatedStructure
	}

	var tsHeader header.TagSegmentHeader
	if err := tsHeader.Parse(payload[:header.TagSegmentHeaderSize], order); err != nil {
		return err
	}

	formatLen := 4 * int(tsHeader.Length)
	if formatLen < 1 {
		return fmt.Errorf("%w: no composite format data", errs.ErrBadFormat)
	}
	if header.TagSegmentHeaderSize+formatLen > len(payload) {
		return errs.ErrTruncatedStructure
	}

	strs := rawBytesToStrings(payload[header.TagSegmentHeaderSize : header.TagSegmentHeaderSize+formatLen])
	if len(strs) < 1 {
		return fmt.Errorf("%w: missing composite format string", errs.ErrBadFormat)
	}

	prog, err := Compile(strs[0])
	if err != nil {
		return err
	}

	// Swap the tag-segment header word; its format-string data is
	// character data and is copied, not swapped, so it's left untouched.
	swapHeaderWord(payload[0:header.TagSegmentHeaderSize], order)

	pos := header.TagSegmentHeaderSize + formatLen
	if pos+header.BankHeaderSize > len(payload) {
		return errs.ErrTruncatedStructure
	}

	var bHeader header.BankHeader
	if err := bHeader.Parse(payload[pos:pos+header.BankHeaderSize], order); err != nil {
		return err
	}

	dataLen := 4*int(bHeader.Length) - 4
	if dataLen < 1 {
		return fmt.Errorf("%w: no composite data", errs.ErrBadFormat)
	}
	if pos+header.BankHeaderSize+dataLen > len(payload) {
		return errs.ErrTruncatedStructure
	}

	// Swap the wrapped bank's 2-word header in place.
	swapElems(payload[pos:pos+header.BankHeaderSize], 4, order)

	dataStart := pos + header.BankHeaderSize
	dataBytes := dataLen - bHeader.Padding

	return SwapData(payload[dataStart:], dataBytes, order, prog)
}

// swapHeaderWord byte-swaps a single 4-byte header word in place.
func swapHeaderWord(b []byte, order endian.EndianEngine) {
	swapElems(b, 4, order)
}
