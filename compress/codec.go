package compress

import (
	"fmt"

	"github.com/jlab-hipo/evio/errs"
	"github.com/jlab-hipo/evio/format"
)

// Compressor compresses a contiguous byte range.
//
// Memory management:
//   - Returned slice is newly allocated and owned by the caller
//   - Input slice is not modified
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses a contiguous byte range, given the expected
// uncompressed length so the destination can be sized without guessing.
type Decompressor interface {
	Decompress(data []byte, uncompressedLen int) ([]byte, error)
}

// Codec combines both directions for one compression type.
type Codec interface {
	Compressor
	Decompressor
}

// NewCodec is a factory that returns the Codec for a given compression
// type. GZIP support can be compiled out; see gzip.go's build tag.
func NewCodec(t format.CompressionType) (Codec, error) {
	switch t {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	case format.CompressionLZ4Best:
		return NewLZ4BestCompressor(), nil
	case format.CompressionGZIP:
		return newGZIPCodec()
	default:
		return nil, fmt.Errorf("%w: %v", errs.ErrUnsupportedCompression, t)
	}
}
