package mem

import (
	"math/big"
	"sync/atomic"

	"github.com/muldis/mre/pkg/wkt"
)

// Value is an immutable Muldis D value.  Values are only ever produced by a
// Pool and are always handled by pointer.
type Value struct {
	kind    Kind
	types   wkt.TypeSet
	payload payload

	hash atomic.Uint64 // memoized structural hash; zero until computed
}

// payload is the foundation payload of a value.  Exactly one variant exists
// per foundation kind (or family of kinds).
type payload interface{ isPayload() }

type (
	boolean  bool
	integer  struct{ v *big.Int }
	fraction struct{ v *big.Rat }
)

func (boolean) isPayload()        {}
func (integer) isPayload()        {}
func (fraction) isPayload()       {}
func (*ArrayNode) isPayload()     {}
func (*BagNode) isPayload()       {}
func (*TupleStruct) isPayload()   {}
func (*CapsuleStruct) isPayload() {}
func (*HandleStruct) isPayload()  {}

func newValue(k Kind, types wkt.TypeSet, p payload) *Value {
	return &Value{kind: k, types: types, payload: p}
}

// Kind returns the foundation kind of the value.
func (v *Value) Kind() Kind { return v.kind }

// Is reports whether v is known to be a member of t.  A false result does
// not prove that v is not a member of t.
func (v *Value) Is(t wkt.Type) bool { return v.types.Has(t) }

// Types returns the memoized set of well-known types.
func (v *Value) Types() wkt.TypeSet { return v.types }

// Boolean returns the truth value of a Boolean.
func (v *Value) Boolean() (bool, error) {
	if b, ok := v.payload.(boolean); ok {
		return bool(b), nil
	}

	return false, wrongKind(v, KindBoolean)
}

// Integer returns a copy of the value of an Integer.
func (v *Value) Integer() (*big.Int, error) {
	if i, ok := v.payload.(integer); ok {
		return new(big.Int).Set(i.v), nil
	}

	return nil, wrongKind(v, KindInteger)
}

// Fraction returns a copy of the value of a Fraction.
func (v *Value) Fraction() (*big.Rat, error) {
	if f, ok := v.payload.(fraction); ok {
		return new(big.Rat).Set(f.v), nil
	}

	return nil, wrongKind(v, KindFraction)
}

// Array returns the member tree of a Bits, Blob, Text or Array.
func (v *Value) Array() (*ArrayNode, error) {
	if v.kind.arrayed() {
		return v.payload.(*ArrayNode), nil
	}

	return nil, wrongKind(v, KindBits, KindBlob, KindText, KindArray)
}

// Bag returns the member tree of a Set or Bag.
func (v *Value) Bag() (*BagNode, error) {
	if v.kind.bagged() {
		return v.payload.(*BagNode), nil
	}

	return nil, wrongKind(v, KindSet, KindBag)
}

// Tuple returns the attributes of a Tuple.
func (v *Value) Tuple() (*TupleStruct, error) {
	if t, ok := v.payload.(*TupleStruct); ok {
		return t, nil
	}

	return nil, wrongKind(v, KindTuple)
}

// Capsule returns the label and attributes of a Capsule.
func (v *Value) Capsule() (*CapsuleStruct, error) {
	if c, ok := v.payload.(*CapsuleStruct); ok {
		return c, nil
	}

	return nil, wrongKind(v, KindCapsule)
}

// Handle returns the handle payload.
func (v *Value) Handle() (*HandleStruct, error) {
	if h, ok := v.payload.(*HandleStruct); ok {
		return h, nil
	}

	return nil, wrongKind(v, KindHandle)
}

func (v *Value) isTrue() bool {
	b, ok := v.payload.(boolean)
	return ok && bool(b)
}

// int64Value returns the value of an Integer that fits in an int64.
func (v *Value) int64Value() (int64, bool) {
	if i, ok := v.payload.(integer); ok && i.v.IsInt64() {
		return i.v.Int64(), true
	}
	return 0, false
}
