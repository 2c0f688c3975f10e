package record

import (
	"testing"

	"github.com/jlab-hipo/evio/endian"
	"github.com/jlab-hipo/evio/errs"
	"github.com/jlab-hipo/evio/format"
	"github.com/jlab-hipo/evio/header"
	"github.com/stretchr/testify/require"
)

func TestRecordOutput_SingleEventRoundTrip(t *testing.T) {
	out, err := NewRecordOutput()
	require.NoError(t, err)

	event := []byte{1, 0, 0, 0, 0, 0, 0, 0} // 2-word bank: length=1, tag/type/num word
	require.NoError(t, out.AddEvent(event))

	b, err := out.Build()
	require.NoError(t, err)

	var in RecordInput
	require.NoError(t, in.ReadFrom(b, 0))
	require.Equal(t, 1, in.EntryCount())

	got, err := in.GetEvent(0)
	require.NoError(t, err)
	require.Equal(t, event, got)
}

func TestRecordOutput_EmptyRecordRoundTrip(t *testing.T) {
	out, err := NewRecordOutput()
	require.NoError(t, err)

	b, err := out.Build()
	require.NoError(t, err)
	require.Equal(t, 0, len(b)%4, "record must be word-aligned")

	var in RecordInput
	require.NoError(t, in.ReadFrom(b, 0))
	require.Equal(t, 0, in.EntryCount())
	require.Equal(t, header.StandardHeaderLength, len(b))
}

func TestRecordOutput_MultipleEventsAndUserHeader(t *testing.T) {
	out, err := NewRecordOutput(WithHeaderType(format.HipoRecord))
	require.NoError(t, err)

	out.SetUserHeader([]byte{1, 2, 3})
	out.SetRecordNumber(7)

	events := [][]byte{
		{0, 0, 0, 0, 1, 0, 0, 0},
		{1, 2, 3, 4, 5},
		{9, 9, 9, 9, 9, 9, 9},
	}
	for _, e := range events {
		require.NoError(t, out.AddEvent(e))
	}

	b, err := out.Build()
	require.NoError(t, err)
	require.Equal(t, 0, len(b)%4, "record must be word-aligned")

	var in RecordInput
	require.NoError(t, in.ReadFrom(b, 0))
	require.Equal(t, uint32(7), in.Header.RecordNumber)
	require.Equal(t, []byte{1, 2, 3}, in.GetUserHeader())

	for i, want := range events {
		got, err := in.GetEvent(i)
		require.NoError(t, err)
		require.Equal(t, want, got)

		l, err := in.GetEventLength(i)
		require.NoError(t, err)
		require.Equal(t, len(want), l)
	}
}

func TestRecordOutput_CompressedRoundTrip(t *testing.T) {
	for _, ct := range []format.CompressionType{format.CompressionLZ4, format.CompressionLZ4Best, format.CompressionGZIP} {
		out, err := NewRecordOutput(WithCompression(ct))
		require.NoError(t, err)

		event := make([]byte, 256)
		for i := range event {
			event[i] = byte(i)
		}
		require.NoError(t, out.AddEvent(event))

		b, err := out.Build()
		require.NoError(t, err)

		var in RecordInput
		require.NoError(t, in.ReadFrom(b, 0))
		require.Equal(t, ct, in.Header.CompressionType)

		got, err := in.GetEvent(0)
		require.NoError(t, err)
		require.Equal(t, event, got)
	}
}

func TestRecordOutput_RecordFullByCount(t *testing.T) {
	out, err := NewRecordOutput(WithMaxEventCount(1))
	require.NoError(t, err)

	require.NoError(t, out.AddEvent([]byte{1, 2, 3, 4}))
	err = out.AddEvent([]byte{5, 6, 7, 8})
	require.ErrorIs(t, err, errs.ErrRecordFull)
}

func TestRecordOutput_RecordFullBySize(t *testing.T) {
	out, err := NewRecordOutput(WithMaxBufferSize(4))
	require.NoError(t, err)

	err = out.AddEvent([]byte{1, 2, 3, 4, 5})
	require.ErrorIs(t, err, errs.ErrRecordFull)
}

func TestRecordOutput_Reset(t *testing.T) {
	out, err := NewRecordOutput()
	require.NoError(t, err)

	require.NoError(t, out.AddEvent([]byte{1, 2, 3, 4}))
	out.SetUserHeader([]byte{9})
	out.Reset()

	require.Equal(t, 0, out.EventCount())

	b, err := out.Build()
	require.NoError(t, err)
	require.Equal(t, header.StandardHeaderLength, len(b))
}

func TestRecordOutput_BigEndian(t *testing.T) {
	out, err := NewRecordOutput(WithBigEndian())
	require.NoError(t, err)

	require.NoError(t, out.AddEvent([]byte{1, 2, 3, 4}))
	b, err := out.Build()
	require.NoError(t, err)

	var in RecordInput
	require.NoError(t, in.ReadFrom(b, 0))
	require.Equal(t, endian.GetBigEndianEngine(), in.Header.Order)
}

func TestRecordOutput_InvalidCompressionOption(t *testing.T) {
	_, err := NewRecordOutput(WithCompression(format.CompressionType(99)))
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
}

func TestRecordOutput_HeaderLengthIsStandard(t *testing.T) {
	out, err := NewRecordOutput()
	require.NoError(t, err)
	require.NoError(t, out.AddEvent([]byte{1, 2, 3, 4}))

	b, err := out.Build()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(b), header.StandardHeaderLength)
	require.Equal(t, uint32(header.StandardHeaderWords), endian.GetLittleEndianEngine().Uint32(b[8:12]))
}
