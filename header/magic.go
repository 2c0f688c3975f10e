package header

import (
	"fmt"

	"github.com/jlab-hipo/evio/endian"
	"github.com/jlab-hipo/evio/errs"
)

// MagicWord identifies an evio/HIPO record or file header and anchors byte
// order detection: any other 32-bit value at this position is malformed.
const MagicWord uint32 = 0xC0DA0100

// swappedMagicWord is MagicWord read with the opposite byte order.
var swappedMagicWord = endian.Swap32(MagicWord)

// resolveOrder reads the magic word out of magicBytes using assumed as a
// first guess, then returns the byte order the rest of the header must
// actually be decoded with: assumed unchanged if the magic word matches
// directly, its opposite if the magic word matches byte-swapped, or an
// error if neither matches.
func resolveOrder(magicBytes []byte, assumed endian.EndianEngine) (endian.EndianEngine, error) {
	v := assumed.Uint32(magicBytes)

	switch v {
	case MagicWord:
		return assumed, nil
	case swappedMagicWord:
		return endian.Opposite(assumed), nil
	default:
		return nil, fmt.Errorf("%w: magic word 0x%08X", errs.ErrMalformedHeader, v)
	}
}
