package evio

import (
	"github.com/jlab-hipo/evio/composite"
	"github.com/jlab-hipo/evio/endian"
	"github.com/jlab-hipo/evio/errs"
	"github.com/jlab-hipo/evio/format"
)

// SwapInPlace rewrites the event (a top-level bank) at buf[pos:] with
// opposite byte order, recursing into structural children and delegating
// COMPOSITE leaves to the composite package. srcOrder is the byte order
// the data is currently in.
func SwapInPlace(buf []byte, pos int, srcOrder endian.EndianEngine) error {
	tree, err := ExtractEvent(buf, pos, srcOrder)
	if err != nil {
		return err
	}

	return swapNode(tree, tree.Root(), srcOrder)
}

// swapNode swaps one node's header word(s) in place, then either recurses
// into its children (if its data type is structural) or swaps its leaf
// data, dispatching on the node's kind for the header layout and on its
// data type for the leaf element size.
func swapNode(t *Tree, idx int, srcOrder endian.EndianEngine) error {
	n := &t.Nodes[idx]
	dstOrder := endian.Opposite(srcOrder)

	if err := swapHeaderWords(t.Buf, n, srcOrder, dstOrder); err != nil {
		return err
	}

	if n.DataType.IsStructure() {
		for _, child := range n.Children {
			if err := swapNode(t, child, srcOrder); err != nil {
				return err
			}
		}

		return nil
	}

	return swapLeaf(t.Buf[n.DataPos:n.DataPos+n.DataLen], n.DataType, n.Padding, srcOrder)
}

// swapHeaderWords swaps the 32-bit header word(s) of a node in place. The
// header fields themselves (tag, num, length, padding, data type) are
// order-independent once decoded, so this simply byte-swaps the raw words;
// re-encoding via header.BankHeader.Bytes would needlessly require
// re-deriving the original field values.
func swapHeaderWords(buf []byte, n *Node, srcOrder, dstOrder endian.EndianEngine) error {
	var size int

	switch {
	case n.Kind == format.Bank || n.Kind == format.BankAlt:
		size = 8
	case n.Kind == format.Segment || n.Kind == format.SegmentAlt, n.Kind == format.TagSegment:
		size = 4
	default:
		return errs.ErrBadFormat
	}

	for off := 0; off < size; off += 4 {
		v := srcOrder.Uint32(buf[n.Pos+off : n.Pos+off+4])
		dstOrder.PutUint32(buf[n.Pos+off:n.Pos+off+4], v)
	}

	return nil
}

// swapLeaf byte-swaps a leaf data region of the given data type in place.
// UNKNOWN32, CHAR8/UCHAR8/CHARSTAR8 are copied verbatim (no byte-level
// swap applies to single-byte data); COMPOSITE is delegated to the
// composite package's own swap. Trailing padding bytes are preserved,
// never swapped as data.
func swapLeaf(data []byte, dt format.DataType, padding int, order endian.EndianEngine) error {
	payload := data[:len(data)-padding]

	switch dt {
	case format.Composite:
		return composite.SwapInPlace(payload, order)
	case format.Unknown32, format.Char8, format.Uchar8, format.Charstar8:
		return nil
	default:
		switch dt.ElementSize() {
		case 2:
			endian.SwapSlice16(payload, order)
		case 4:
			endian.SwapSlice32(payload, order)
		case 8:
			endian.SwapSlice64(payload, order)
		}

		return nil
	}
}
