package header

import (
	"github.com/jlab-hipo/evio/endian"
	"github.com/jlab-hipo/evio/format"
)

// FileHeader shares RecordHeader's exact 14-word wire layout; only the
// header-type bits packed into BitInfo distinguish a file header from a
// record header. The trailer position that the original C++ implementation
// stores in a dedicated field is carried here in UserRegister1, the same
// slot a record header uses for a caller-supplied register — a file header
// has no use for that register itself, so TrailerPosition repurposes it.
type FileHeader struct {
	RecordHeader
}

// NewFileHeader returns a FileHeader initialized for the given header kind
// (format.HipoFile or format.EvioFile) with the current version.
func NewFileHeader(kind format.HeaderType) *FileHeader {
	return &FileHeader{RecordHeader: *NewRecordHeader(kind)}
}

// TrailerPosition returns the absolute byte offset of the trailer record,
// filled in when the file is closed. Zero means no trailer was written.
func (h *FileHeader) TrailerPosition() uint64 { return h.UserRegister1 }

// SetTrailerPosition records the absolute byte offset of the trailer.
func (h *FileHeader) SetTrailerPosition(pos uint64) { h.UserRegister1 = pos }

// Parse decodes a FileHeader the same way RecordHeader.Parse does.
func (h *FileHeader) Parse(data []byte, assumedOrder endian.EndianEngine) error {
	return h.RecordHeader.Parse(data, assumedOrder)
}
