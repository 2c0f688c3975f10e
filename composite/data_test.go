package composite

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jlab-hipo/evio/endian"
)

func TestDataEncodeDecodeRoundTrip(t *testing.T) {
	order := endian.GetLittleEndianEngine()

	d := &Data{
		Format:    "N(I,F)",
		FormatTag: 5,
		DataTag:   9,
		DataNum:   3,
		Items: []Item{
			ItemI32(2),
			ItemI32(1), ItemF32(1.0),
			ItemI32(2), ItemF32(2.0),
		},
	}

	encoded, err := d.Encode(order)
	require.NoError(t, err)
	require.Equal(t, 0, len(encoded)%4)

	decoded, n, err := DecodeData(encoded, order)
	require.NoError(t, err)
	require.Equal(t, len(encoded), n)
	require.Equal(t, d.Format, decoded.Format)
	require.Equal(t, d.FormatTag, decoded.FormatTag)
	require.Equal(t, d.DataTag, decoded.DataTag)
	require.Equal(t, d.DataNum, decoded.DataNum)
	require.Equal(t, d.Items, decoded.Items)
}

func TestDataSwapInPlaceIdempotence(t *testing.T) {
	order := endian.GetLittleEndianEngine()

	d := &Data{
		Format:    "N(I,F)",
		FormatTag: 1,
		DataTag:   2,
		Items: []Item{
			ItemI32(1),
			ItemI32(7), ItemF32(3.5),
		},
	}

	encoded, err := d.Encode(order)
	require.NoError(t, err)

	orig := append([]byte(nil), encoded...)

	require.NoError(t, SwapInPlace(encoded, order))
	require.NotEqual(t, orig, encoded)

	require.NoError(t, SwapInPlace(encoded, endian.Opposite(order)))
	require.Equal(t, orig, encoded)
}
