package header

import (
	"testing"

	"github.com/jlab-hipo/evio/endian"
	"github.com/jlab-hipo/evio/format"
	"github.com/stretchr/testify/require"
)

func TestBankHeader_RoundTrip(t *testing.T) {
	orders := []endian.EndianEngine{endian.GetLittleEndianEngine(), endian.GetBigEndianEngine()}

	for _, order := range orders {
		h := BankHeader{Length: 5, Tag: 0x1234, DataType: format.Uint32, Padding: 0, Num: 7}

		b := h.Bytes(order)
		require.Len(t, b, BankHeaderSize)

		var got BankHeader
		require.NoError(t, got.Parse(b, order))
		require.Equal(t, h, got)
	}
}

func TestBankHeader_TruncatedFails(t *testing.T) {
	var h BankHeader
	require.Error(t, h.Parse([]byte{1, 2, 3}, endian.GetLittleEndianEngine()))
}

func TestSegmentHeader_RoundTrip(t *testing.T) {
	h := SegmentHeader{Tag: 0x55, DataType: format.Char8, Padding: 3, Length: 42}

	order := endian.GetLittleEndianEngine()
	b := h.Bytes(order)
	require.Len(t, b, SegmentHeaderSize)

	var got SegmentHeader
	require.NoError(t, got.Parse(b, order))
	require.Equal(t, h, got)
}

func TestTagSegmentHeader_RoundTrip(t *testing.T) {
	h := TagSegmentHeader{Tag: 0xABC, DataType: format.Charstar8, Length: 17}

	order := endian.GetBigEndianEngine()
	b := h.Bytes(order)
	require.Len(t, b, TagSegmentHeaderSize)

	var got TagSegmentHeader
	require.NoError(t, got.Parse(b, order))
	require.Equal(t, h, got)
}

func TestPackLeafByte(t *testing.T) {
	b := packLeafByte(2, format.Double64)
	pad, dt := unpackLeafByte(b)
	require.Equal(t, 2, pad)
	require.Equal(t, format.Double64, dt)
}
