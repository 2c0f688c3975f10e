package hipo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jlab-hipo/evio/endian"
	"github.com/jlab-hipo/evio/format"
	"github.com/jlab-hipo/evio/header"
	"github.com/jlab-hipo/evio/hipo"
)

// bankEvent builds a minimal evio bank event: a 2-word bank header followed
// by len(values) uint32 data words.
func bankEvent(order endian.EndianEngine, tag uint16, values []uint32) []byte {
	h := header.BankHeader{
		Length:   uint32(1 + len(values)), //nolint:gosec
		Tag:      tag,
		DataType: format.Uint32,
	}

	out := h.Bytes(order)
	for _, v := range values {
		word := make([]byte, 4)
		order.PutUint32(word, v)
		out = append(out, word...)
	}

	return out
}

func TestWriterSingleIntEvent(t *testing.T) {
	order := endian.GetLittleEndianEngine()
	event := bankEvent(order, 1, []uint32{1, 2, 3})
	require.Len(t, event, 20)

	w, err := hipo.NewWriter()
	require.NoError(t, err)

	require.NoError(t, w.AddEvent(event))

	out, err := w.Close()
	require.NoError(t, err)
	require.Len(t, out, 136)

	r, err := hipo.NewReader(out)
	require.NoError(t, err)
	require.Equal(t, 1, r.RecordCount())

	rec, err := r.Record(0)
	require.NoError(t, err)
	require.Equal(t, 1, rec.EntryCount())

	got, err := rec.GetEvent(0)
	require.NoError(t, err)
	require.Equal(t, event, got)
}

func TestWriterEndiannessFlip(t *testing.T) {
	event := bankEvent(endian.GetBigEndianEngine(), 1, []uint32{1, 2, 3})

	w, err := hipo.NewWriter(hipo.WithWriterBigEndian())
	require.NoError(t, err)
	require.NoError(t, w.AddEvent(event))

	out, err := w.Close()
	require.NoError(t, err)

	r, err := hipo.NewReader(out)
	require.NoError(t, err)

	rec, err := r.Record(0)
	require.NoError(t, err)

	got, err := rec.GetEvent(0)
	require.NoError(t, err)
	require.Equal(t, event, got)
}

func TestWriterTrailerWithIndex(t *testing.T) {
	order := endian.GetLittleEndianEngine()

	w, err := hipo.NewWriter(
		hipo.WithWriterMaxEventCount(1),
		hipo.WithTrailerIndex(true),
	)
	require.NoError(t, err)

	sizes := []int{1, 2, 3}
	for _, n := range sizes {
		values := make([]uint32, n)
		for i := range values {
			values[i] = uint32(i) //nolint:gosec
		}

		require.NoError(t, w.AddEvent(bankEvent(order, 1, values)))
	}

	out, err := w.Close()
	require.NoError(t, err)

	r, err := hipo.NewReader(out)
	require.NoError(t, err)
	require.True(t, r.HasTrailer())
	require.Equal(t, 3, r.RecordCount())

	pairs := r.TrailerIndex()
	require.Len(t, pairs, 6)

	var sum uint32
	for i := 0; i < len(pairs); i += 2 {
		sum += pairs[i]
	}

	require.Equal(t, uint64(header.StandardHeaderLength)+uint64(sum), r.Header.TrailerPosition())
}

func TestWriterDictionaryAndFirstEvent(t *testing.T) {
	order := endian.GetLittleEndianEngine()
	dict := []byte("<xml/>")
	first := bankEvent(order, 9, []uint32{42})

	w, err := hipo.NewWriter(
		hipo.WithDictionary(dict),
		hipo.WithFirstEvent(first),
		hipo.WithUserHeader([]byte("extra")),
	)
	require.NoError(t, err)
	require.NoError(t, w.AddEvent(bankEvent(order, 1, []uint32{7})))

	out, err := w.Close()
	require.NoError(t, err)

	r, err := hipo.NewReader(out)
	require.NoError(t, err)
	require.Equal(t, dict, r.Dictionary())
	require.Equal(t, first, r.FirstEvent())
	require.Equal(t, []byte("extra"), r.UserHeader())
}

func TestWriterEmptyFileRoundTrip(t *testing.T) {
	w, err := hipo.NewWriter()
	require.NoError(t, err)

	out, err := w.Close()
	require.NoError(t, err)

	r, err := hipo.NewReader(out)
	require.NoError(t, err)
	require.Equal(t, 0, r.RecordCount())
	require.False(t, r.HasTrailer())
}

func TestWriterSplitBySize(t *testing.T) {
	order := endian.GetLittleEndianEngine()
	event := bankEvent(order, 1, []uint32{1, 2, 3})

	// One record per event (WithWriterMaxEventCount(1)) makes the running
	// byte counter grow in known steps; probe an unsplit two-record file to
	// learn the byte count at which the third record should force a split.
	probe, err := hipo.NewWriter(hipo.WithWriterMaxEventCount(1))
	require.NoError(t, err)
	require.NoError(t, probe.AddEvent(event))
	require.NoError(t, probe.AddEvent(event))
	probeOut, err := probe.Close()
	require.NoError(t, err)
	splitAt := len(probeOut)

	dict := []byte("<xml/>")
	first := bankEvent(order, 9, []uint32{42})

	w, err := hipo.NewWriter(
		hipo.WithWriterMaxEventCount(1),
		hipo.WithSplitSize(splitAt),
		hipo.WithDictionary(dict),
		hipo.WithFirstEvent(first),
	)
	require.NoError(t, err)

	for range 3 {
		require.NoError(t, w.AddEvent(event))
	}

	lastFile, err := w.Close()
	require.NoError(t, err)

	completed := w.CompletedFiles()
	require.Len(t, completed, 1, "third event should force exactly one split")

	files := append(completed, lastFile)

	var totalEvents int
	for _, f := range files {
		r, err := hipo.NewReader(f)
		require.NoError(t, err)
		require.Equal(t, dict, r.Dictionary(), "every split file must carry the dictionary")
		require.Equal(t, first, r.FirstEvent(), "every split file must carry the first event")

		for i := 0; i < r.RecordCount(); i++ {
			rec, err := r.Record(i)
			require.NoError(t, err)
			totalEvents += rec.EntryCount()
		}
	}

	require.Equal(t, 3, totalEvents)

	firstReader, err := hipo.NewReader(completed[0])
	require.NoError(t, err)
	require.Equal(t, 2, firstReader.RecordCount())

	lastReader, err := hipo.NewReader(lastFile)
	require.NoError(t, err)
	require.Equal(t, 1, lastReader.RecordCount())
}
