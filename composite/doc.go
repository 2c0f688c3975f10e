// Package composite implements the composite-data mini-interpreter: a
// format-string-driven stream machine that serializes, parses, and
// byte-swaps heterogeneous arrays of primitives whose repeat counts may
// themselves be read from the data stream.
//
// A format string drawn from the alphabet "(),0-9NnmiFaSsCcDLlIA" is
// compiled once into a compact []uint16 bytecode (Compile); Parse, Build,
// and SwapData then drive the same stack-based state machine over that
// bytecode to move data in the three directions the record codec needs.
// SwapInPlace additionally understands the on-the-wire composite layout -
// a tag-segment carrying the format string immediately followed by a bank
// holding the format-driven byte stream - and is what evio.SwapInPlace
// delegates COMPOSITE leaves to.
package composite
