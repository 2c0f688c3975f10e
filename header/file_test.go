package header

import (
	"testing"

	"github.com/jlab-hipo/evio/endian"
	"github.com/jlab-hipo/evio/format"
	"github.com/stretchr/testify/require"
)

func TestFileHeader_RoundTrip(t *testing.T) {
	h := NewFileHeader(format.HipoFile)
	h.SetTrailerPosition(376)

	b := h.Bytes()
	require.Len(t, b, StandardHeaderLength)

	got := &FileHeader{}
	require.NoError(t, got.Parse(b, endian.GetLittleEndianEngine()))

	require.Equal(t, format.HipoFile, got.BitInfo.HeaderType())
	require.Equal(t, uint64(376), got.TrailerPosition())
}
