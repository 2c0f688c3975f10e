package composite

import (
	"fmt"
	"math"

	"github.com/jlab-hipo/evio/endian"
	"github.com/jlab-hipo/evio/errs"
)

// consumeRemaining is the sentinel repeat count used when execution reaches
// the sole atom of a trailing parenthesized group at the very end of the
// program: "consume whatever data remains" (spec.md 4.6).
const consumeRemaining = 999_999_999

// frame is one open-parenthesis entry in the interpreter's fixed-depth
// stack: never heap-allocated per call, per Design Notes.
type frame struct {
	leftPC  int // bytecode index of the '(' atom itself
	nRepeat int
	iRepeat int
}

// walker drives the program counter over a compiled bytecode program,
// handling ')' bookkeeping, the FORTRAN reuse-from-start rule, and the
// "last atom of a trailing group" exit condition. It never touches the
// data stream itself; resolving a data-driven repeat count and moving the
// actual bytes is the caller's job (Parse/Build/SwapData each do this
// differently).
type walker struct {
	prog  []uint16
	pc    int
	stack [maxDepth]frame
	depth int
}

func newWalker(prog []uint16) *walker {
	return &walker{prog: prog}
}

// next advances past any ')' atoms - looping back for another repetition
// or popping a finished frame - and returns the next '(' or primitive atom.
// isParen distinguishes the two; isLast reports the "consume remaining
// data" exit condition.
func (w *walker) next() (typeCode uint16, repeat int, repeatSrc uint16, isParen, isLast bool, err error) {
	for {
		if w.pc >= len(w.prog) {
			w.pc = 0
		}

		word := w.prog[w.pc]
		if word == 0 {
			if w.depth == 0 {
				return 0, 0, 0, false, false, fmt.Errorf("%w: unbalanced ')' at runtime", errs.ErrBadFormat)
			}

			f := &w.stack[w.depth-1]
			f.iRepeat++

			if f.iRepeat >= f.nRepeat {
				w.depth--
				w.pc++
			} else {
				w.pc = f.leftPC + 1
			}

			continue
		}

		tc := word & 0xFF
		rep := int((word >> repeatShift) & repeatMask)
		rs := (word >> repeatSrcShift) & 0x3

		if tc == 0 {
			return 0, rep, rs, true, false, nil
		}

		last := w.depth > 0 &&
			w.pc == len(w.prog)-2 &&
			w.pc == w.stack[w.depth-1].leftPC+1

		return tc, rep, rs, false, last, nil
	}
}

// advance moves the program counter past the primitive atom most recently
// returned by next().
func (w *walker) advance() { w.pc++ }

// enterParen registers the '(' atom at the walker's current pc as either a
// new open frame (nRepeat > 0) or, per the "execute zero iterations"
// resolution of the left-parenthesis-with-zero-repeat open question, skips
// straight to its matching ')' without running the body at all.
func (w *walker) enterParen(nRepeat int) error {
	openPC := w.pc

	if nRepeat == 0 {
		closePC, err := findMatchingClose(w.prog, openPC)
		if err != nil {
			return err
		}

		w.pc = closePC + 1

		return nil
	}

	if w.depth >= maxDepth {
		return fmt.Errorf("%w: nesting depth exceeds %d during execution", errs.ErrBadFormat, maxDepth)
	}

	w.stack[w.depth] = frame{leftPC: openPC, nRepeat: nRepeat}
	w.depth++
	w.pc = openPC + 1

	return nil
}

// findMatchingClose scans forward from a '(' atom at openPC, tracking
// nesting depth, and returns the index of its matching ')' atom.
func findMatchingClose(prog []uint16, openPC int) (int, error) {
	depth := 1
	pc := openPC + 1

	for pc < len(prog) {
		word := prog[pc]
		switch {
		case word == 0:
			depth--
			if depth == 0 {
				return pc, nil
			}
		case word&0xFF == 0:
			depth++
		}

		pc++
	}

	return 0, fmt.Errorf("%w: unbalanced '(' with no matching ')'", errs.ErrBadFormat)
}

// elemInfo returns the element byte width for a primitive type code, and
// whether it is a character type ('a'/C/c) that is copied rather than
// byte-swapped.
func elemInfo(tc uint16) (size int, isChar bool) {
	switch tc {
	case 1, 2, 11, 12: // i, F, I, A - 32-bit
		return 4, false
	case 4, 5: // S, s - 16-bit
		return 2, false
	case 3, 6, 7: // a, C, c - 8-bit
		return 1, true
	case 8, 9, 10: // D, L, l - 64-bit
		return 8, false
	default:
		return 0, false
	}
}

// readCount reads an nb-byte (4, 2, or 1) signed count from data[pos:] in
// order, returning the new position.
func readCount(data []byte, pos, nb int, order endian.EndianEngine) (int, int, error) {
	if pos+nb > len(data) {
		return 0, pos, errs.ErrTruncatedBuffer
	}

	switch nb {
	case 4:
		return int(int32(order.Uint32(data[pos : pos+4]))), pos + 4, nil //nolint:gosec
	case 2:
		return int(int16(order.Uint16(data[pos : pos+2]))), pos + 2, nil //nolint:gosec
	case 1:
		return int(int8(data[pos])), pos + 1, nil //nolint:gosec
	default:
		return 0, pos, errs.ErrBadFormat
	}
}

// countBytesFor maps a repeat-source tag to its data-stream width.
func countBytesFor(repeatSrc uint16) int {
	switch repeatSrc {
	case repeatN:
		return 4
	case repeatShort:
		return 2
	case repeatByte:
		return 1
	default:
		return 0
	}
}

func countKindFor(repeatSrc uint16) Kind {
	switch repeatSrc {
	case repeatN:
		return KindI32
	case repeatShort:
		return KindI16
	default:
		return KindI8
	}
}

// Parse drives the compiled program over data, decoding every primitive
// atom into an Item. Data-driven repeat counts (N/n/m) are themselves
// appended as an Item of the matching integer kind, so Build can write them
// back out and round-trip the original bytes exactly. Execution stops once
// the data pointer reaches end of data; the interpreter never reads past
// len(data) even if the format would ask for more.
func Parse(data []byte, order endian.EndianEngine, prog []uint16) ([]Item, error) {
	if len(prog) == 0 {
		return nil, errs.ErrBadFormat
	}

	w := newWalker(prog)

	var items []Item

	pos := 0
	for pos < len(data) {
		tc, rep, rs, isParen, isLast, err := w.next()
		if err != nil {
			return nil, err
		}

		if isParen {
			n := rep
			if rs != repeatLiteral {
				nb := countBytesFor(rs)

				var v int
				v, pos, err = readCount(data, pos, nb, order)
				if err != nil {
					return nil, err
				}

				items = append(items, intItem(countKindFor(rs), v))
				n = v
			}

			if err := w.enterParen(n); err != nil {
				return nil, err
			}

			continue
		}

		ncnf := rep
		if isLast {
			// The trailing-group exit condition overrides any data-driven
			// read for this atom: there is nothing left to consume but the
			// remaining bytes themselves.
			ncnf = consumeRemaining
		} else if rs != repeatLiteral {
			nb := countBytesFor(rs)

			var v int
			v, pos, err = readCount(data, pos, nb, order)
			if err != nil {
				return nil, err
			}

			items = append(items, intItem(countKindFor(rs), v))
			ncnf = v
		}

		size, isChar := elemInfo(tc)
		if size == 0 {
			return nil, fmt.Errorf("%w: unknown type code %d", errs.ErrBadFormat, tc)
		}

		avail := (len(data) - pos) / size
		if ncnf > avail {
			ncnf = avail
		}
		if ncnf < 0 {
			ncnf = 0
		}

		if tc == 3 { // 'a': packed string list
			n := ncnf // byte count, not element count for 'a'
			if n > 0 {
				items = append(items, ItemStrings(rawBytesToStrings(data[pos:pos+n])))
				pos += n
			}
		} else if isChar {
			for range ncnf {
				items = append(items, charItem(tc, data[pos]))
				pos++
			}
		} else {
			for range ncnf {
				items = append(items, readNumericItem(tc, data[pos:pos+size], order))
				pos += size
			}
		}

		w.advance()
	}

	return items, nil
}

func intItem(k Kind, v int) Item {
	switch k {
	case KindI32:
		return ItemI32(int32(v)) //nolint:gosec
	case KindI16:
		return ItemI16(int16(v)) //nolint:gosec
	default:
		return ItemI8(int8(v)) //nolint:gosec
	}
}

func charItem(tc uint16, b byte) Item {
	if tc == 7 {
		return ItemU8(b)
	}

	return ItemI8(int8(b)) //nolint:gosec
}

func readNumericItem(tc uint16, b []byte, order endian.EndianEngine) Item {
	switch tc {
	case 1:
		return ItemU32(order.Uint32(b))
	case 2:
		return ItemF32(math.Float32frombits(order.Uint32(b)))
	case 4:
		return ItemI16(int16(order.Uint16(b))) //nolint:gosec
	case 5:
		return ItemU16(order.Uint16(b))
	case 8:
		return ItemF64(math.Float64frombits(order.Uint64(b)))
	case 9:
		return ItemI64(int64(order.Uint64(b))) //nolint:gosec
	case 10:
		return ItemU64(order.Uint64(b))
	case 11:
		return ItemI32(int32(order.Uint32(b))) //nolint:gosec
	case 12:
		return ItemU32(order.Uint32(b))
	default:
		return Item{}
	}
}

func writeNumericItem(tc uint16, dst []byte, it Item, order endian.EndianEngine) {
	switch tc {
	case 1:
		order.PutUint32(dst, it.U32)
	case 2:
		order.PutUint32(dst, math.Float32bits(it.F32))
	case 4:
		order.PutUint16(dst, uint16(it.I16)) //nolint:gosec
	case 5:
		order.PutUint16(dst, it.U16)
	case 8:
		order.PutUint64(dst, math.Float64bits(it.F64))
	case 9:
		order.PutUint64(dst, uint64(it.I64)) //nolint:gosec
	case 10:
		order.PutUint64(dst, it.U64)
	case 11:
		order.PutUint32(dst, uint32(it.I32)) //nolint:gosec
	case 12:
		order.PutUint32(dst, it.U32)
	}
}

// Build drives the compiled program over items, producing the equivalent
// format-driven byte stream in order. It consumes exactly as many items as
// Parse would have produced for the same data, including the synthesized
// entries for data-driven N/n/m repeat counts.
func Build(items []Item, order endian.EndianEngine, prog []uint16) ([]byte, error) {
	if len(prog) == 0 {
		return nil, errs.ErrBadFormat
	}

	w := newWalker(prog)

	var out []byte

	idx := 0
	nextItem := func() (Item, error) {
		if idx >= len(items) {
			return Item{}, fmt.Errorf("%w: ran out of items", errs.ErrBadFormat)
		}

		it := items[idx]
		idx++

		return it, nil
	}

	for idx < len(items) {
		tc, rep, rs, isParen, isLast, err := w.next()
		if err != nil {
			return nil, err
		}

		if isParen {
			n := rep
			if rs != repeatLiteral {
				it, err := nextItem()
				if err != nil {
					return nil, err
				}

				n = itemAsInt(it)
				out = appendCount(out, countBytesFor(rs), n, order)
			}

			if err := w.enterParen(n); err != nil {
				return nil, err
			}

			continue
		}

		ncnf := rep
		if isLast {
			ncnf = len(items) - idx
		} else if rs != repeatLiteral {
			it, err := nextItem()
			if err != nil {
				return nil, err
			}

			ncnf = itemAsInt(it)
			out = appendCount(out, countBytesFor(rs), ncnf, order)
		}

		size, isChar := elemInfo(tc)
		if size == 0 {
			return nil, fmt.Errorf("%w: unknown type code %d", errs.ErrBadFormat, tc)
		}

		if tc == 3 {
			it, err := nextItem()
			if err != nil {
				return nil, err
			}

			raw := stringsToRawBytes(it.Strings)
			out = append(out, raw...)
		} else {
			for range ncnf {
				it, err := nextItem()
				if err != nil {
					return nil, err
				}

				if isChar {
					out = append(out, byteFromItem(it))
				} else {
					buf := make([]byte, size)
					writeNumericItem(tc, buf, it, order)
					out = append(out, buf...)
				}
			}
		}

		w.advance()
	}

	return out, nil
}

func itemAsInt(it Item) int {
	switch it.Kind {
	case KindI32:
		return int(it.I32)
	case KindU32:
		return int(it.U32)
	case KindI16:
		return int(it.I16)
	case KindU16:
		return int(it.U16)
	case KindI8:
		return int(it.I8)
	case KindU8:
		return int(it.U8)
	default:
		return 0
	}
}

func byteFromItem(it Item) byte {
	switch it.Kind {
	case KindU8:
		return it.U8
	case KindI8:
		return byte(it.I8) //nolint:gosec
	default:
		return 0
	}
}

func appendCount(out []byte, nb, v int, order endian.EndianEngine) []byte {
	switch nb {
	case 4:
		return order.AppendUint32(out, uint32(int32(v))) //nolint:gosec
	case 2:
		return order.AppendUint16(out, uint16(int16(v))) //nolint:gosec
	default:
		return append(out, byte(v)) //nolint:gosec
	}
}

// SwapData byte-swaps a flat format-driven data region in place: the
// region data[:nBytes], described by prog, with order as the byte order
// data currently carries. Data-driven repeat counts are read in order
// and their own bytes reversed too, exactly like every other element.
// Character types ('a'/C/c) are left untouched - no byte-level swap
// applies to single-byte data.
func SwapData(data []byte, nBytes int, order endian.EndianEngine, prog []uint16) error {
	if len(prog) == 0 {
		return errs.ErrBadFormat
	}
	if nBytes > len(data) {
		return errs.ErrTruncatedBuffer
	}

	w := newWalker(prog)

	pos := 0
	for pos < nBytes {
		tc, rep, rs, isParen, isLast, err := w.next()
		if err != nil {
			return err
		}

		if isParen {
			n := rep
			if rs != repeatLiteral {
				nb := countBytesFor(rs)

				var v int
				v, _, err = readCount(data[:nBytes], pos, nb, order)
				if err != nil {
					return err
				}

				swapElems(data[pos:pos+nb], nb, order)
				pos += nb
				n = v
			}

			if err := w.enterParen(n); err != nil {
				return err
			}

			continue
		}

		ncnf := rep
		if isLast {
			ncnf = consumeRemaining
		} else if rs != repeatLiteral {
			nb := countBytesFor(rs)

			var v int
			v, _, err = readCount(data[:nBytes], pos, nb, order)
			if err != nil {
				return err
			}

			swapElems(data[pos:pos+nb], nb, order)
			pos += nb
			ncnf = v
		}

		size, isChar := elemInfo(tc)
		if size == 0 {
			return fmt.Errorf("%w: unknown type code %d", errs.ErrBadFormat, tc)
		}

		avail := (nBytes - pos) / size
		if ncnf > avail {
			ncnf = avail
		}
		if ncnf < 0 {
			ncnf = 0
		}

		n := ncnf * size
		if !isChar {
			swapElems(data[pos:pos+n], size, order)
		}

		pos += n

		w.advance()
	}

	return nil
}

// swapElems reverses the physical byte order of every size-byte element in
// b, in place. Because reading with engine and writing Swap*(v) back with
// the same engine produces the byte-reversed physical layout regardless of
// whether engine is big- or little-endian, this works as a pure
// "flip these bytes" operation driven purely by element width.
func swapElems(b []byte, size int, order endian.EndianEngine) {
	switch size {
	case 2:
		endian.SwapSlice16(b, order)
	case 4:
		endian.SwapSlice32(b, order)
	case 8:
		endian.SwapSlice64(b, order)
	}
}
