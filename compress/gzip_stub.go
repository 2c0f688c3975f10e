//go:build nogzip

package compress

import "github.com/jlab-hipo/evio/errs"

// newGZIPCodec reports ErrUnsupportedCompression when the module is built
// with the nogzip tag, matching spec.md's "decompression of GZIP is
// optional; if not compiled in, fail with UnsupportedCompression".
func newGZIPCodec() (Codec, error) {
	return nil, errs.ErrUnsupportedCompression
}
