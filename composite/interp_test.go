package composite

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jlab-hipo/evio/endian"
)

func build(t *testing.T, formatStr string, items []Item, order endian.EndianEngine) []byte {
	t.Helper()

	prog, err := Compile(formatStr)
	require.NoError(t, err)

	out, err := Build(items, order, prog)
	require.NoError(t, err)

	return out
}

func TestParseBuildRoundTripNFormat(t *testing.T) {
	order := endian.GetLittleEndianEngine()

	items := []Item{
		ItemI32(2), // N
		ItemI32(1), ItemF32(1.0),
		ItemI32(2), ItemF32(2.0),
	}

	data := build(t, "N(I,F)", items, order)
	require.Len(t, data, 20)

	prog, err := Compile("N(I,F)")
	require.NoError(t, err)

	parsed, err := Parse(data, order, prog)
	require.NoError(t, err)
	require.Equal(t, items, parsed)
}

func TestParseBuildRoundTripTrailingGroup(t *testing.T) {
	order := endian.GetLittleEndianEngine()

	items := []Item{ItemI32(1), ItemI32(2), ItemI32(3), ItemI32(4)}

	data := build(t, "(I)", items, order)

	prog, err := Compile("(I)")
	require.NoError(t, err)

	parsed, err := Parse(data, order, prog)
	require.NoError(t, err)
	require.Equal(t, items, parsed)
}

func TestSwapDataIdempotence(t *testing.T) {
	order := endian.GetLittleEndianEngine()

	items := []Item{
		ItemI32(2),
		ItemI32(1), ItemF32(1.0),
		ItemI32(2), ItemF32(2.0),
	}

	data := build(t, "N(I,F)", items, order)
	orig := append([]byte(nil), data...)

	prog, err := Compile("N(I,F)")
	require.NoError(t, err)

	require.NoError(t, SwapData(data, len(data), order, prog))
	require.NotEqual(t, orig, data)

	require.NoError(t, SwapData(data, len(data), endian.Opposite(order), prog))
	require.Equal(t, orig, data)
}

func TestParseZeroRepeatNoDataMovement(t *testing.T) {
	order := endian.GetLittleEndianEngine()

	items := []Item{ItemI32(0)}

	data := build(t, "N(I)", items, order)
	require.Len(t, data, 4)

	prog, err := Compile("N(I)")
	require.NoError(t, err)

	parsed, err := Parse(data, order, prog)
	require.NoError(t, err)
	require.Equal(t, items, parsed)
}

func TestSwapDataNeverReadsPastNBytes(t *testing.T) {
	order := endian.GetLittleEndianEngine()

	prog, err := Compile("I")
	require.NoError(t, err)

	data := []byte{1, 0, 0, 0, 0xAA, 0xBB, 0xCC, 0xDD}
	trailer := append([]byte(nil), data[4:]...)

	require.NoError(t, SwapData(data, 4, order, prog))
	require.Equal(t, trailer, data[4:])
}

func TestStringsRoundTrip(t *testing.T) {
	raw := stringsToRawBytes([]string{"abc", "de"})
	require.Equal(t, 0, len(raw)%4)

	got := rawBytesToStrings(raw)
	require.Equal(t, []string{"abc", "de"}, got)
}
