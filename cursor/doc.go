// Package cursor provides Cursor, a typed absolute/relative reader and
// writer over a growable byte buffer carrying an explicit byte order.
//
// Packages whose wire layout is a genuinely sequential append-then-patch
// build (hipo's file and trailer assembly, most notably) read and write
// through a Cursor rather than doing raw slice arithmetic, so bounds
// checks and byte-order handling live in one place. Packages with a
// fixed-offset layout (header) or a program-counter-driven one
// (composite) operate directly on []byte plus an endian.EndianEngine
// instead, since a Cursor's linear position would add indirection without
// replacing any arithmetic they still have to do.
//
// A Cursor owns no compression, header-semantics, or structure knowledge —
// it is the thin typed-I/O layer built on top of internal/pool.ByteBuffer's
// growth strategy, optionally wrapping an already-pooled buffer via
// NewFromPooled/Release.
package cursor
