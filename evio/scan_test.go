package evio_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jlab-hipo/evio/endian"
	"github.com/jlab-hipo/evio/evio"
	"github.com/jlab-hipo/evio/format"
	"github.com/jlab-hipo/evio/header"
)

func u32Bytes(order endian.EndianEngine, vals ...uint32) []byte {
	out := make([]byte, 4*len(vals))
	for i, v := range vals {
		order.PutUint32(out[4*i:4*i+4], v)
	}

	return out
}

func TestScanFlatBank(t *testing.T) {
	order := endian.GetLittleEndianEngine()

	h := header.BankHeader{Length: 5, Tag: 7, DataType: format.Uint32, Num: 2}
	buf := append(h.Bytes(order), u32Bytes(order, 1, 2, 3, 4)...)

	tree, err := evio.ExtractEvent(buf, 0, order)
	require.NoError(t, err)
	require.Len(t, tree.Nodes, 1)

	root := &tree.Nodes[tree.Root()]
	require.Equal(t, uint16(7), root.Tag)
	require.Equal(t, uint8(2), root.Num)
	require.Equal(t, format.Uint32, root.DataType)
	require.Equal(t, 16, root.DataLen)
	require.Equal(t, u32Bytes(order, 1, 2, 3, 4), tree.Data(tree.Root()))
}

func TestScanNestedBank(t *testing.T) {
	order := endian.GetLittleEndianEngine()

	childA := header.BankHeader{Length: 2, Tag: 1, DataType: format.Uint32}
	childABytes := append(childA.Bytes(order), u32Bytes(order, 42)...)

	childB := header.BankHeader{Length: 3, Tag: 2, DataType: format.Int32}
	childBBytes := append(childB.Bytes(order), u32Bytes(order, 1, 2)...)

	var children []byte
	children = append(children, childABytes...)
	children = append(children, childBBytes...)

	outer := header.BankHeader{
		Length:   uint32(1 + len(children)/4), //nolint:gosec
		Tag:      99,
		DataType: format.Bank,
	}
	buf := append(outer.Bytes(order), children...)

	tree, err := evio.ExtractEvent(buf, 0, order)
	require.NoError(t, err)
	require.Len(t, tree.Nodes, 3)

	root := &tree.Nodes[tree.Root()]
	require.True(t, root.IsStructure())
	require.Len(t, root.Children, 2)

	a := &tree.Nodes[root.Children[0]]
	require.Equal(t, uint16(1), a.Tag)
	require.Equal(t, format.Uint32, a.DataType)

	b := &tree.Nodes[root.Children[1]]
	require.Equal(t, uint16(2), b.Tag)
	require.Equal(t, format.Int32, b.DataType)
}

func TestScanTruncatedBuffer(t *testing.T) {
	order := endian.GetLittleEndianEngine()

	h := header.BankHeader{Length: 4, Tag: 1, DataType: format.Uint32}
	buf := h.Bytes(order) // missing the 4 data words the header promises

	_, err := evio.ExtractEvent(buf, 0, order)
	require.Error(t, err)
}
