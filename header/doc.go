// Package header implements the fixed-layout header codec (spec component
// C4): pack/unpack functions for the three evio structure headers (bank,
// segment, tag-segment) and the two 14-word block headers (record, file).
//
// Every header kind is a plain struct with a Parse/Bytes pair rather than a
// polymorphic class hierarchy; dispatch on header kind, where needed, is a
// switch over format.HeaderType, not an interface method set.
package header
