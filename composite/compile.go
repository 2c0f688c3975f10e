package composite

import (
	"fmt"

	"github.com/jlab-hipo/evio/errs"
)

// maxDepth is the implementation ceiling on parenthesis nesting: the
// interpreter's frame stack is a fixed [10]frame array, never heap
// allocated per call.
const maxDepth = 10

// Bytecode word layout (see spec.md 4.6):
//
//	bits 0-7   type code: 0 = ')' (or '(' when combined with a nonzero
//	           repeat field/source), 1..12 = primitive code
//	bits 8-13  literal repeat count 0..63 (0 means "take from data")
//	bits 14-15 repeat source: 0 = literal, 1 = N (i32), 2 = n (i16), 3 = m (i8)
const (
	repeatShift    = 8
	repeatMask     = 0x3F
	repeatSrcShift = 14
)

// repeat-source tags, matching the N/n/m atoms that precede a '(' or a
// primitive to mark its count as data-driven.
const (
	repeatLiteral uint16 = 0
	repeatN       uint16 = 1
	repeatShort   uint16 = 2
	repeatByte    uint16 = 3
)

// typeCodeFor maps one format character to its primitive type code (1..12),
// per spec.md's type-code table. It returns false for structural
// characters ('(', ')', ',', digits, N/n/m) and anything else.
func typeCodeFor(ch rune) (uint16, bool) {
	switch ch {
	case 'i':
		return 1, true
	case 'F':
		return 2, true
	case 'a':
		return 3, true
	case 'S':
		return 4, true
	case 's':
		return 5, true
	case 'C':
		return 6, true
	case 'c':
		return 7, true
	case 'D':
		return 8, true
	case 'L':
		return 9, true
	case 'l':
		return 10, true
	case 'I':
		return 11, true
	case 'A':
		return 12, true
	default:
		return 0, false
	}
}

// Compile translates a composite-data format string into its bytecode: one
// 16-bit word per atom ('(' / ')' / primitive). Whitespace is ignored; a
// ',' resets the pending repeat count; a literal repeat above 15
// immediately before '(' is rejected, above 63 anywhere else.
//
// A literal (non-data-driven) repeat count of zero is always encoded as 1,
// matching a bare atom with no digit - this is what keeps the all-zero
// bytecode word reserved exclusively for ')'.
func Compile(formatStr string) ([]uint16, error) {
	prog := make([]uint16, 0, len(formatStr))

	depth := 0
	pendingDigits := -1 // -1 = no digit seen since the last atom/comma
	var repeatSrc uint16

	reset := func() {
		pendingDigits = -1
		repeatSrc = repeatLiteral
	}

	for _, ch := range formatStr {
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			continue

		case ch >= '0' && ch <= '9':
			d := int(ch - '0')
			if pendingDigits < 0 {
				pendingDigits = d
			} else {
				pendingDigits = pendingDigits*10 + d
			}

		case ch == 'N':
			repeatSrc = repeatN
			pendingDigits = -1
		case ch == 'n':
			repeatSrc = repeatShort
			pendingDigits = -1
		case ch == 'm':
			repeatSrc = repeatByte
			pendingDigits = -1

		case ch == '(':
			if depth >= maxDepth {
				return nil, fmt.Errorf("%w: nesting depth exceeds %d", errs.ErrBadFormat, maxDepth)
			}

			var word uint16
			if repeatSrc != repeatLiteral {
				word = repeatSrc << repeatSrcShift
			} else {
				if pendingDigits > 15 {
					return nil, fmt.Errorf("%w: repeat count %d before '(' exceeds 15", errs.ErrBadFormat, pendingDigits)
				}

				count := 1
				if pendingDigits > 0 {
					count = pendingDigits
				}

				word = uint16(count) << repeatShift //nolint:gosec
			}

			prog = append(prog, word)
			depth++
			reset()

		case ch == ')':
			if depth == 0 {
				return nil, fmt.Errorf("%w: unbalanced ')'", errs.ErrBadFormat)
			}

			depth--
			prog = append(prog, 0)
			reset()

		case ch == ',':
			reset()

		default:
			tc, ok := typeCodeFor(ch)
			if !ok {
				return nil, fmt.Errorf("%w: illegal character %q", errs.ErrBadFormat, ch)
			}

			var word uint16
			if repeatSrc != repeatLiteral {
				word = repeatSrc<<repeatSrcShift | tc
			} else {
				if pendingDigits > 63 {
					return nil, fmt.Errorf("%w: repeat count %d exceeds 63", errs.ErrBadFormat, pendingDigits)
				}

				count := 1
				if pendingDigits > 0 {
					count = pendingDigits
				}

				word = uint16(count)<<repeatShift | tc //nolint:gosec
			}

			prog = append(prog, word)
			reset()
		}
	}

	if depth != 0 {
		return nil, fmt.Errorf("%w: unbalanced '('", errs.ErrBadFormat)
	}
	if len(prog) == 0 {
		return nil, fmt.Errorf("%w: empty format", errs.ErrBadFormat)
	}

	return prog, nil
}
