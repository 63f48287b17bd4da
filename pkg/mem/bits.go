package mem

// Bits is an immutable, packed sequence of bits.  The zero value is empty.
type Bits struct {
	data []byte
	n    int
}

// NewBits returns a packed copy of bs.
func NewBits(bs []bool) Bits {
	data := make([]byte, (len(bs)+7)/8)
	for i, b := range bs {
		if b {
			data[i/8] |= 1 << (7 - uint(i%8))
		}
	}

	return Bits{data: data, n: len(bs)}
}

// Len returns the number of bits.
func (b Bits) Len() int { return b.n }

// At returns the bit at index i.  It panics if i is out of range.
func (b Bits) At(i int) bool {
	if i < 0 || i >= b.n {
		panic("mem: bit index out of range")
	}
	return b.data[i/8]&(1<<(7-uint(i%8))) != 0
}

// Bools returns the bits as a freshly-allocated slice.
func (b Bits) Bools() []bool {
	bs := make([]bool, b.n)
	for i := range bs {
		bs[i] = b.At(i)
	}
	return bs
}

func (b Bits) String() string {
	buf := make([]byte, b.n)
	for i := range buf {
		buf[i] = '0'
		if b.At(i) {
			buf[i] = '1'
		}
	}
	return string(buf)
}
