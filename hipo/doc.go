// Package hipo provides the top-level file/buffer façade: Writer sequences
// records produced by the record package into a complete in-memory file
// (file header, zero or more records, optional trailer); Reader walks that
// layout back out, locating every record by a linear walk over the record
// headers; a trailer, when present, ends that walk and its index is exposed
// as-is but is not used to locate records.
//
// # Basic usage
//
//	w, err := hipo.NewWriter()
//	if err != nil {
//	    // handle error
//	}
//	if err := w.AddEvent(eventBytes); err != nil {
//	    // handle error
//	}
//	out, err := w.Close()
//
//	r, err := hipo.NewReader(out)
//	if err != nil {
//	    // handle error
//	}
//	for i := 0; i < r.RecordCount(); i++ {
//	    rec, err := r.Record(i)
//	    ...
//	}
//
// Size-based splitting (WithSplitSize) finalizes and starts a fresh
// physical file whenever a record appended to the current one brings it
// to or past a byte threshold, carrying the same dictionary/first event
// into every split file;
// Writer.CompletedFiles returns the files sealed off before the one Close
// returns. Multi-threaded compression pipelines remain out of scope; see
// the module's design notes.
package hipo
