// Package compress provides the compression adapter (spec component C3):
// a uniform Codec interface over none / LZ4-fast / LZ4-best / GZIP,
// operating on contiguous byte ranges exactly as record.RecordOutput.Build
// and record.RecordInput.ReadFrom need.
//
// # Overview
//
// A record's [index | user-header | events] region is compressed as one
// blob; the record header itself is never compressed. The four codes are:
//
//	0 None     - no compression, fastest
//	1 LZ4      - pierrec/lz4 fast block mode
//	2 LZ4Best  - pierrec/lz4 high-compression block mode
//	3 GZIP     - klauspost/compress/gzip, optional (build-excludable)
//
// # Error Handling
//
// A compression or decompression failure is always wrapped in
// errs.ErrCompressionFailure without touching the destination buffer,
// matching spec.md §7's "failure in the compressor must surface as
// CompressionFailure without corrupting destination".
package compress
