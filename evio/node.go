package evio

import "github.com/jlab-hipo/evio/format"

// Node describes one bank, segment, or tag-segment within a scanned event.
// It stores only indices and byte offsets into the tree's backing buffer -
// never a copy of the data itself.
type Node struct {
	Pos      int             // byte offset of this node's header
	DataPos  int             // byte offset of this node's data, after its header
	DataLen  int             // data length in bytes, including any trailing padding
	Tag      uint16
	Num      uint8 // meaningful only when Kind is a bank
	Kind     format.DataType // this node's own structural kind (Bank/Segment/TagSegment)
	DataType format.DataType // type of the data this node contains
	Padding  int             // trailing pad bytes, meaningful for sub-word leaf types
	Parent   int             // index into Tree.Nodes, or -1 for the root
	Children []int           // indices into Tree.Nodes, in buffer order
}

// IsStructure reports whether this node's contained data type is itself a
// structure kind (so the node has children rather than leaf data).
func (n *Node) IsStructure() bool {
	return n.DataType.IsStructure()
}

// Data returns this node's data region, including any trailing padding.
// The slice aliases the tree's backing buffer.
func (t *Tree) Data(idx int) []byte {
	n := &t.Nodes[idx]
	return t.Buf[n.DataPos : n.DataPos+n.DataLen]
}

// PayloadLength returns the node's data length in bytes with its trailing
// padding subtracted - the number of bytes that are actual leaf values
// rather than end-of-structure filler.
func (t *Tree) PayloadLength(idx int) int {
	n := &t.Nodes[idx]
	return n.DataLen - n.Padding
}

// Tree is the flat arena of nodes produced by Scan/ExtractEvent. Node 0 is
// always the root (top-level) bank.
type Tree struct {
	Buf   []byte
	Nodes []Node
}

// Root returns the index of the tree's top-level node, always 0.
func (t *Tree) Root() int { return 0 }
