package compress

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/jlab-hipo/evio/errs"
	"github.com/jlab-hipo/evio/format"
	"github.com/stretchr/testify/require"
)

// getAllCodecs returns all available codec implementations for testing.
func getAllCodecs() map[string]Codec {
	return map[string]Codec{
		"NoOp":    NewNoOpCompressor(),
		"LZ4":     NewLZ4Compressor(),
		"LZ4Best": NewLZ4BestCompressor(),
		"GZIP":    GZIPCompressor{},
	}
}

func TestNewCodec(t *testing.T) {
	tests := []struct {
		name    string
		cType   format.CompressionType
		wantErr bool
	}{
		{"none", format.CompressionNone, false},
		{"lz4", format.CompressionLZ4, false},
		{"lz4best", format.CompressionLZ4Best, false},
		{"gzip", format.CompressionGZIP, false},
		{"unknown", format.CompressionType(0x7F), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCodec(tt.cType)
			if tt.wantErr {
				require.Error(t, err)
				require.ErrorIs(t, err, errs.ErrUnsupportedCompression)

				return
			}
			require.NoError(t, err)
			require.NotNil(t, c)
		})
	}
}

func TestNoOpCompressor_EmptyData(t *testing.T) {
	compressor := NewNoOpCompressor()

	compressed, err := compressor.Compress(nil)
	require.NoError(t, err)
	require.Nil(t, compressed)

	decompressed, err := compressor.Decompress(nil, 0)
	require.NoError(t, err)
	require.Nil(t, decompressed)
}

func TestNoOpCompressor_RoundTrip(t *testing.T) {
	compressor := NewNoOpCompressor()
	data := []byte("hello world")

	compressed, err := compressor.Compress(data)
	require.NoError(t, err)
	require.Same(t, &data[0], &compressed[0])

	decompressed, err := compressor.Decompress(compressed, len(data))
	require.NoError(t, err)
	require.Equal(t, data, decompressed)
}

func TestAllCodecs_RoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{"small_text", []byte("Hello, World!")},
		{"repeated_pattern", bytes.Repeat([]byte("ABCD"), 100)},
		{"binary_data", []byte{0x00, 0x01, 0x02, 0x03, 0xFF, 0xFE, 0xFD, 0xFC}},
		{"single_byte", []byte{0x42}},
		{"medium_payload", bytes.Repeat([]byte("bank tag=3 num=1 data payload"), 256)},
		{"highly_compressible", make([]byte, 256*1024)},
	}

	codecs := getAllCodecs()

	for codecName, codec := range codecs {
		t.Run(codecName, func(t *testing.T) {
			for _, tc := range testCases {
				t.Run(tc.name, func(t *testing.T) {
					compressed, err := codec.Compress(tc.data)
					require.NoError(t, err)

					if len(tc.data) == 0 {
						require.Nil(t, compressed)

						return
					}
					require.NotNil(t, compressed)

					decompressed, err := codec.Decompress(compressed, len(tc.data))
					require.NoError(t, err)
					require.Equal(t, tc.data, decompressed)
				})
			}
		})
	}
}

func TestAllCodecs_InvalidData(t *testing.T) {
	invalidInputs := [][]byte{
		{0xFF, 0xFF, 0xFF, 0xFF},
		[]byte("this is not compressed data"),
	}

	codecs := getAllCodecs()

	for codecName, codec := range codecs {
		t.Run(codecName, func(t *testing.T) {
			if codecName == "NoOp" {
				t.Skip("NoOp codec does not validate data")

				return
			}

			for i, input := range invalidInputs {
				t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
					_, err := codec.Decompress(input, 4096)
					require.Error(t, err)
					require.ErrorIs(t, err, errs.ErrCompressionFailure)
				})
			}
		})
	}
}

func TestAllCodecs_InterfaceCompliance(t *testing.T) {
	for name, codec := range getAllCodecs() {
		t.Run(name, func(t *testing.T) {
			var _ Codec = codec
			require.NotNil(t, codec)
		})
	}
}

func TestLZ4Best_CompressesAtLeastAsWellAsFast(t *testing.T) {
	data := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog "), 512)

	fast, err := NewLZ4Compressor().Compress(data)
	require.NoError(t, err)

	best, err := NewLZ4BestCompressor().Compress(data)
	require.NoError(t, err)

	require.LessOrEqual(t, len(best), len(fast))
}
