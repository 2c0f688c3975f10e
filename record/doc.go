// Package record implements the record layer: RecordInput decodes a single
// record (header, index, user header, events) from a byte source, and
// RecordOutput accumulates events and builds one.
package record
