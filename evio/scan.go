package evio

import (
	"fmt"

	"github.com/jlab-hipo/evio/endian"
	"github.com/jlab-hipo/evio/errs"
	"github.com/jlab-hipo/evio/format"
	"github.com/jlab-hipo/evio/header"
)

// ExtractEvent scans the event (a top-level bank) at buf[pos:] and returns
// its flat node tree. Every top-level event is a bank by convention.
func ExtractEvent(buf []byte, pos int, order endian.EndianEngine) (*Tree, error) {
	return Scan(buf, pos, order, format.Bank)
}

// Scan parses the structure at buf[pos:], whose own kind is rootKind
// (format.Bank, format.Segment, format.TagSegment, or an alt code), and
// recursively descends into its children, returning the resulting flat
// node tree. Nodes store only indices and byte offsets into buf; no data
// is copied.
func Scan(buf []byte, pos int, order endian.EndianEngine, rootKind format.DataType) (*Tree, error) {
	t := &Tree{Buf: buf}

	if _, err := t.extract(pos, order, rootKind, -1); err != nil {
		return nil, err
	}

	return t, nil
}

// extract parses one structure header at t.Buf[pos:], appends its node to
// the arena, and recurses into its children if its data type is itself a
// structure kind. It returns the new node's index.
func (t *Tree) extract(pos int, order endian.EndianEngine, kind format.DataType, parent int) (int, error) {
	var (
		tag, num int
		dataType format.DataType
		padding  int
		dataPos  int
		dataLen  int
	)

	switch {
	case kind == format.Bank || kind == format.BankAlt:
		if pos+header.BankHeaderSize > len(t.Buf) {
			return 0, errs.ErrTruncatedStructure
		}

		var h header.BankHeader
		if err := h.Parse(t.Buf[pos:pos+header.BankHeaderSize], order); err != nil {
			return 0, err
		}

		if h.Length < 1 {
			return 0, fmt.Errorf("%w: bank length %d at offset %d", errs.ErrTruncatedStructure, h.Length, pos)
		}

		tag, num, dataType, padding = int(h.Tag), int(h.Num), h.DataType, h.Padding
		dataPos = pos + header.BankHeaderSize
		dataLen = 4*int(h.Length) - 4

	case kind == format.Segment || kind == format.SegmentAlt:
		if pos+header.SegmentHeaderSize > len(t.Buf) {
			return 0, errs.ErrTruncatedStructure
		}

		var h header.SegmentHeader
		if err := h.Parse(t.Buf[pos:pos+header.SegmentHeaderSize], order); err != nil {
			return 0, err
		}

		tag, dataType, padding = int(h.Tag), h.DataType, h.Padding
		dataPos = pos + header.SegmentHeaderSize
		dataLen = 4 * int(h.Length)

	case kind == format.TagSegment:
		if pos+header.TagSegmentHeaderSize > len(t.Buf) {
			return 0, errs.ErrTruncatedStructure
		}

		var h header.TagSegmentHeader
		if err := h.Parse(t.Buf[pos:pos+header.TagSegmentHeaderSize], order); err != nil {
			return 0, err
		}

		tag, dataType = int(h.Tag), h.DataType
		dataPos = pos + header.TagSegmentHeaderSize
		dataLen = 4 * int(h.Length)

	default:
		return 0, fmt.Errorf("%w: unrecognized structure kind %v", errs.ErrBadFormat, kind)
	}

	if dataPos+dataLen > len(t.Buf) {
		return 0, errs.ErrTruncatedStructure
	}

	idx := len(t.Nodes)
	t.Nodes = append(t.Nodes, Node{
		Pos:      pos,
		DataPos:  dataPos,
		DataLen:  dataLen,
		Tag:      uint16(tag), //nolint:gosec
		Num:      uint8(num),  //nolint:gosec
		Kind:     kind,
		DataType: dataType,
		Padding:  padding,
		Parent:   parent,
	})

	if dataType.IsStructure() {
		children, err := t.scanChildren(dataPos, dataPos+dataLen, order, dataType, idx)
		if err != nil {
			return 0, err
		}

		t.Nodes[idx].Children = children
	}

	return idx, nil
}

// scanChildren repeatedly extracts structures of the given kind from
// [start, end) until the range is exhausted, appending each as a child of
// parent. Buffer order is preserved in the returned index list.
func (t *Tree) scanChildren(start, end int, order endian.EndianEngine, kind format.DataType, parent int) ([]int, error) {
	var children []int

	pos := start
	for pos < end {
		idx, err := t.extract(pos, order, kind, parent)
		if err != nil {
			return nil, err
		}

		children = append(children, idx)

		n := &t.Nodes[idx]
		pos = n.DataPos + n.DataLen
	}

	return children, nil
}
