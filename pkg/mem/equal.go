package mem

import (
	"bytes"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Same reports whether a and b are the same Muldis D value.  Reference
// equality is tried first, then structural comparison.  Handles are only
// ever the same as themselves.
func Same(a, b *Value) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.kind != b.kind || a.kind == KindHandle {
		return false
	}
	if ha, hb := a.hash.Load(), b.hash.Load(); ha != 0 && hb != 0 && ha != hb {
		return false
	}

	switch x := a.payload.(type) {
	case boolean:
		return x == b.payload.(boolean)
	case integer:
		return x.v.Cmp(b.payload.(integer).v) == 0
	case fraction:
		return x.v.Cmp(b.payload.(fraction).v) == 0
	case *ArrayNode:
		return sameArray(x, b.payload.(*ArrayNode))
	case *BagNode:
		return sameBag(x, b.payload.(*BagNode))
	case *TupleStruct:
		return sameTuple(x, b.payload.(*TupleStruct))
	case *CapsuleStruct:
		y := b.payload.(*CapsuleStruct)
		return Same(x.label, y.label) && Same(x.attrs, y.attrs)
	}

	return false
}

func sameArray(x, y *ArrayNode) bool {
	if x == y {
		return true
	}
	if x.count != y.count {
		return false
	}

	if x.IsLeaf() && y.IsLeaf() && x.multiplicity == y.multiplicity {
		switch xm := x.local.(type) {
		case octetMembers:
			if ym, ok := y.local.(octetMembers); ok {
				return bytes.Equal(xm, ym)
			}
		case codepointMembers:
			if ym, ok := y.local.(codepointMembers); ok {
				return xm.key == ym.key
			}
		case bitMembers:
			if ym, ok := y.local.(bitMembers); ok {
				return bytes.Equal(xm.data, ym.data)
			}
		}
	}

	i := 0
	return x.each(func(e element) bool {
		ok := e.equal(y.at(i))
		i++
		return ok
	})
}

func sameBag(x, y *BagNode) bool {
	if x == y {
		return true
	}
	if x.count != y.count || x.uniqueCount != y.uniqueCount {
		return false
	}

	same := true
	x.Each(func(m MultipliedMember) bool {
		same = y.Multiplicity(m.Member) == m.Multiplicity
		return same
	})
	return same
}

func sameTuple(x, y *TupleStruct) bool {
	if x == y {
		return true
	}
	if x.degree != y.degree {
		return false
	}

	for _, a := range x.Attrs() {
		if v, ok := y.lookup(a.Name); !ok || !Same(a.Value, v) {
			return false
		}
	}
	return true
}

// Hash returns the structural hash of v.  Values that are Same have equal
// hashes.  The result is memoized.
func Hash(v *Value) uint64 {
	if h := v.hash.Load(); h != 0 {
		return h
	}

	h := nonzero(computeHash(v))
	v.hash.Store(h)
	return h
}

func computeHash(v *Value) uint64 {
	d := xxhash.New()
	d.Write([]byte{byte(v.kind)})

	switch x := v.payload.(type) {
	case boolean:
		if x {
			d.Write([]byte{1})
		} else {
			d.Write([]byte{0})
		}

	case integer:
		if x.v.IsInt64() {
			return hashInt64(x.v.Int64())
		}
		d.Write([]byte{'I', byte(x.v.Sign() + 1)})
		d.Write(x.v.Bytes())

	case fraction:
		d.Write([]byte{byte(x.v.Sign() + 1)})
		d.Write(x.v.Num().Bytes())
		d.Write([]byte{'/'})
		d.Write(x.v.Denom().Bytes())

	case *ArrayNode:
		writeUint64(d, uint64(x.count))
		x.each(func(e element) bool {
			writeUint64(d, e.hash())
			return true
		})

	case *BagNode:
		var sum uint64
		x.Each(func(m MultipliedMember) bool {
			var buf [16]byte
			binary.BigEndian.PutUint64(buf[:8], Hash(m.Member))
			binary.BigEndian.PutUint64(buf[8:], uint64(m.Multiplicity))
			sum += xxhash.Sum64(buf[:])
			return true
		})
		writeUint64(d, uint64(x.uniqueCount))
		writeUint64(d, sum)

	case *TupleStruct:
		var sum uint64
		for _, a := range x.Attrs() {
			buf := binary.BigEndian.AppendUint64([]byte(a.Name.Key()), Hash(a.Value))
			sum += xxhash.Sum64(buf)
		}
		writeUint64(d, uint64(x.degree))
		writeUint64(d, sum)

	case *CapsuleStruct:
		writeUint64(d, Hash(x.label))
		writeUint64(d, Hash(x.attrs))

	case *HandleStruct:
		d.Write(x.id[:])
	}

	return d.Sum64()
}

// hashInt64 returns the hash of the Integer c, whether or not it has been
// materialized as a Value.
func hashInt64(c int64) uint64 {
	var buf [10]byte
	buf[0], buf[1] = byte(KindInteger), 'i'
	binary.BigEndian.PutUint64(buf[2:], uint64(c))
	return nonzero(xxhash.Sum64(buf[:]))
}

func writeUint64(d *xxhash.Digest, u uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], u)
	d.Write(buf[:])
}

// nonzero reserves zero to mean "not yet computed".
func nonzero(h uint64) uint64 {
	if h == 0 {
		return 1
	}
	return h
}
