package composite

// Kind identifies which field of an Item holds a value. Composite data is a
// union of primitive types in the source material; here it becomes a
// tagged sum instead, with variable-length string data kept in its own
// field so it never has to share storage with a fixed-size numeric union.
type Kind uint8

const (
	KindI32 Kind = iota
	KindU32
	KindI16
	KindU16
	KindI8
	KindU8
	KindF32
	KindF64
	KindI64
	KindU64
	KindString
)

// Item is one decoded (or to-be-encoded) value in a composite-data stream.
// Exactly one field is meaningful, selected by Kind.
type Item struct {
	Kind    Kind
	I32     int32
	U32     uint32
	I16     int16
	U16     uint16
	I8      int8
	U8      uint8
	F32     float32
	F64     float64
	I64     int64
	U64     uint64
	Strings []string
}

func ItemI32(v int32) Item { return Item{Kind: KindI32, I32: v} }
func ItemU32(v uint32) Item { return Item{Kind: KindU32, U32: v} }
func ItemI16(v int16) Item { return Item{Kind: KindI16, I16: v} }
func ItemU16(v uint16) Item { return Item{Kind: KindU16, U16: v} }
func ItemI8(v int8) Item   { return Item{Kind: KindI8, I8: v} }
func ItemU8(v uint8) Item  { return Item{Kind: KindU8, U8: v} }
func ItemF32(v float32) Item { return Item{Kind: KindF32, F32: v} }
func ItemF64(v float64) Item { return Item{Kind: KindF64, F64: v} }
func ItemI64(v int64) Item { return Item{Kind: KindI64, I64: v} }
func ItemU64(v uint64) Item { return Item{Kind: KindU64, U64: v} }
func ItemStrings(s []string) Item { return Item{Kind: KindString, Strings: s} }
