package header

import (
	"testing"

	"github.com/jlab-hipo/evio/format"
	"github.com/stretchr/testify/require"
)

func TestBitInfo_VersionAndHeaderType(t *testing.T) {
	b := NewBitInfo(6, format.HipoRecord)

	require.Equal(t, uint8(6), b.Version())
	require.Equal(t, format.HipoRecord, b.HeaderType())
}

func TestBitInfo_Flags(t *testing.T) {
	b := NewBitInfo(6, format.EvioRecord)
	require.False(t, b.HasDictionary())
	require.False(t, b.HasFirstEvent())
	require.False(t, b.IsLastRecord())

	b = b.WithDictionary(true).WithFirstEvent(true).WithLastRecord(true)
	require.True(t, b.HasDictionary())
	require.True(t, b.HasFirstEvent())
	require.True(t, b.IsLastRecord())

	b = b.WithDictionary(false)
	require.False(t, b.HasDictionary())
	require.True(t, b.HasFirstEvent(), "clearing one flag must not disturb another")
}

func TestBitInfo_EventType(t *testing.T) {
	b := NewBitInfo(6, format.HipoRecord).WithEventType(format.EventPhysics)
	require.Equal(t, format.EventPhysics, b.EventType())
}

func TestBitInfo_PaddingFields(t *testing.T) {
	b := NewBitInfo(6, format.HipoRecord)
	b = b.WithUserHeaderPadding(1).WithDataPadding(2).WithCompressedDataPadding(3)

	require.Equal(t, 1, b.UserHeaderPadding())
	require.Equal(t, 2, b.DataPadding())
	require.Equal(t, 3, b.CompressedDataPadding())
	require.Equal(t, format.HipoRecord, b.HeaderType(), "setting padding must not disturb header type")
}

func TestBitInfo_WithHeaderType(t *testing.T) {
	b := NewBitInfo(6, format.EvioRecord)
	b = b.WithHeaderType(format.EvioTrailer)
	require.Equal(t, format.EvioTrailer, b.HeaderType())
	require.Equal(t, uint8(6), b.Version(), "changing header type must not disturb version")
}
