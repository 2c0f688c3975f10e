//go:build !nogzip

package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jlab-hipo/evio/errs"
	"github.com/klauspost/compress/gzip"
)

// GZIPCompressor implements format.CompressionGZIP using
// klauspost/compress/gzip, a drop-in replacement for the standard library's
// compress/gzip with a considerably faster implementation.
//
// GZIP support can be removed from the binary entirely by building with the
// "nogzip" tag; see gzip_stub.go.
type GZIPCompressor struct{}

var _ Codec = GZIPCompressor{}

// newGZIPCodec constructs the GZIP codec. It never fails in this build; the
// error return exists so the nogzip-tagged stub can report
// ErrUnsupportedCompression with the same signature.
func newGZIPCodec() (Codec, error) {
	return GZIPCompressor{}, nil
}

// Compress gzips data at the default compression level.
func (c GZIPCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("%w: gzip compress: %v", errs.ErrCompressionFailure, err) //nolint:errorlint
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%w: gzip compress: %v", errs.ErrCompressionFailure, err) //nolint:errorlint
	}

	return buf.Bytes(), nil
}

// Decompress gunzips data into a buffer pre-sized to uncompressedLen.
func (c GZIPCompressor) Decompress(data []byte, uncompressedLen int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: gzip decompress: %v", errs.ErrCompressionFailure, err) //nolint:errorlint
	}
	defer r.Close()

	dst := bytes.NewBuffer(make([]byte, 0, uncompressedLen))
	if _, err := io.Copy(dst, r); err != nil {
		return nil, fmt.Errorf("%w: gzip decompress: %v", errs.ErrCompressionFailure, err) //nolint:errorlint
	}

	return dst.Bytes(), nil
}
