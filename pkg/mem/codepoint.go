package mem

import (
	"encoding/binary"
	"unicode/utf8"
)

// CodepointArray is an immutable sequence of codepoints.  Elements are not
// restricted to Unicode scalar values;  any 32-bit integer is permitted.
//
// The zero value is the empty array.  Copies of a CodepointArray share their
// backing storage, which is never written after construction.
type CodepointArray struct {
	cps     []rune
	key     string
	invalid bool
}

func newCodepointArray(cps []rune) CodepointArray {
	valid := true
	for _, r := range cps {
		if !utf8.ValidRune(r) {
			valid = false
			break
		}
	}

	return CodepointArray{
		cps:     cps,
		key:     codepointKey(cps, valid),
		invalid: !valid,
	}
}

// codepointKey returns a lossless, comparable encoding of cps.  Sequences of
// Unicode scalar values are encoded as UTF-8.  All others are prefixed with
// 0xFF, which never occurs in UTF-8, followed by each element as a 32-bit
// big-endian integer.
func codepointKey(cps []rune, valid bool) string {
	if valid {
		return string(cps)
	}

	buf := make([]byte, 1, 1+4*len(cps))
	buf[0] = 0xFF
	for _, r := range cps {
		buf = binary.BigEndian.AppendUint32(buf, uint32(r))
	}
	return string(buf)
}

// Len returns the number of codepoints.
func (c CodepointArray) Len() int { return len(c.cps) }

// At returns the codepoint at index i.  It panics if i is out of range.
func (c CodepointArray) At(i int) rune { return c.cps[i] }

// Runes returns a copy of the codepoints.
func (c CodepointArray) Runes() []rune {
	return append([]rune(nil), c.cps...)
}

// Valid reports whether every element is a Unicode scalar value, in which
// case the array is losslessly representable as a Go string.
func (c CodepointArray) Valid() bool { return !c.invalid }

// ASCII reports whether every element is in the 7-bit ASCII range.
func (c CodepointArray) ASCII() bool {
	for _, r := range c.cps {
		if r < 0 || r > 0x7F {
			return false
		}
	}
	return true
}

// Key returns the canonical key.  Two arrays are equal iff their keys are.
func (c CodepointArray) Key() string { return c.key }

// Equal reports whether both arrays hold the same codepoints.
func (c CodepointArray) Equal(other CodepointArray) bool {
	return c.key == other.key
}

// String returns the array as a Go string.  If the array is not Valid, each
// invalid element is replaced with utf8.RuneError.
func (c CodepointArray) String() string {
	if !c.invalid {
		return c.key
	}
	return string(c.cps)
}

// positional returns the ordinal of a positional attribute name (U+0000,
// U+0001 or U+0002), or -1.
func (c CodepointArray) positional() int {
	if len(c.cps) == 1 && c.cps[0] >= 0 && c.cps[0] <= 2 {
		return int(c.cps[0])
	}
	return -1
}
