package mem

import (
	"math"
	"sync"

	"github.com/muldis/mre/pkg/wkt"
)

// WidestType is the narrowest member representation that can hold every
// member of an array.  The ordering is significant.
type WidestType uint8

const (
	WidestNone WidestType = iota
	WidestBit
	WidestOctet
	WidestCodepoint
	WidestUnrestricted
)

func (w WidestType) String() string {
	switch w {
	case WidestNone:
		return "None"
	case WidestBit:
		return "Bit"
	case WidestOctet:
		return "Octet"
	case WidestCodepoint:
		return "Codepoint"
	case WidestUnrestricted:
		return "Unrestricted"
	}

	return "WidestType(?)"
}

// element is an array member.  Members held in compact form are integers
// that have not been materialized as a Value.
type element struct {
	code int64
	v    *Value // nil for compact members
}

func (e element) equal(other element) bool {
	switch {
	case e.v == nil && other.v == nil:
		return e.code == other.code
	case e.v == nil:
		c, ok := other.v.int64Value()
		return ok && c == e.code
	case other.v == nil:
		c, ok := e.v.int64Value()
		return ok && c == other.code
	}

	return Same(e.v, other.v)
}

func (e element) hash() uint64 {
	if e.v == nil {
		return hashInt64(e.code)
	}
	return Hash(e.v)
}

// members is the local member storage of a leaf node.
type members interface {
	len() int
	at(i int) element
	widest() WidestType
}

type (
	bitMembers       Bits
	octetMembers     []byte
	codepointMembers CodepointArray
	valueMembers     []*Value
)

func (m bitMembers) len() int           { return m.n }
func (m bitMembers) widest() WidestType { return WidestBit }
func (m bitMembers) at(i int) element {
	if Bits(m).At(i) {
		return element{code: 1}
	}
	return element{code: 0}
}

func (m octetMembers) len() int           { return len(m) }
func (m octetMembers) widest() WidestType { return WidestOctet }
func (m octetMembers) at(i int) element   { return element{code: int64(m[i])} }

func (m codepointMembers) len() int           { return len(m.cps) }
func (m codepointMembers) widest() WidestType { return WidestCodepoint }
func (m codepointMembers) at(i int) element   { return element{code: int64(m.cps[i])} }

func (m valueMembers) len() int           { return len(m) }
func (m valueMembers) widest() WidestType { return WidestUnrestricted }
func (m valueMembers) at(i int) element   { return element{v: m[i]} }

// ArrayNode is a node in the member tree of a Bits, Blob, Text or Array.
// A leaf holds local members, repeated LocalMultiplicity times.  A
// catenation holds an ordered list of child nodes.  Nodes are immutable and
// may be shared between trees.
type ArrayNode struct {
	local        members
	multiplicity int
	children     []*ArrayNode

	count       int
	localWidest WidestType
	treeWidest  WidestType

	uniqueOnce sync.Once
	allUnique  bool
}

var emptyArrayNode = &ArrayNode{}

func newLeaf(m members, multiplicity int) *ArrayNode {
	if m.len() == 0 || multiplicity == 0 {
		return emptyArrayNode
	}

	return &ArrayNode{
		local:        m,
		multiplicity: multiplicity,
		count:        m.len() * multiplicity,
		localWidest:  m.widest(),
		treeWidest:   m.widest(),
	}
}

func newCatenation(children ...*ArrayNode) *ArrayNode {
	n := &ArrayNode{}
	for _, c := range children {
		if c.count == 0 {
			continue
		}
		n.children = append(n.children, c)
		n.count += c.count
		if c.treeWidest > n.treeWidest {
			n.treeWidest = c.treeWidest
		}
	}

	switch len(n.children) {
	case 0:
		return emptyArrayNode
	case 1:
		return n.children[0]
	}

	return n
}

// Count returns the number of members in the tree.
func (n *ArrayNode) Count() int { return n.count }

// LocalMultiplicity returns the number of times the local members of a leaf
// are repeated.  It is zero for catenations.
func (n *ArrayNode) LocalMultiplicity() int { return n.multiplicity }

// LocalWidest returns the widest type of the local members.
func (n *ArrayNode) LocalWidest() WidestType { return n.localWidest }

// TreeWidest returns the widest type of every member in the tree.
func (n *ArrayNode) TreeWidest() WidestType { return n.treeWidest }

// IsLeaf reports whether n holds its members locally.
func (n *ArrayNode) IsLeaf() bool { return n.children == nil }

// Children returns the child nodes of a catenation.
func (n *ArrayNode) Children() []*ArrayNode {
	return append([]*ArrayNode(nil), n.children...)
}

// IsBitRestricted reports whether every member is 0 or 1.
func (n *ArrayNode) IsBitRestricted() bool { return n.treeWidest <= WidestBit }

// IsOctetRestricted reports whether every member is in 0..255.
func (n *ArrayNode) IsOctetRestricted() bool { return n.treeWidest <= WidestOctet }

// IsCodepointRestricted reports whether every member is a codepoint.
func (n *ArrayNode) IsCodepointRestricted() bool { return n.treeWidest <= WidestCodepoint }

// AllUnique reports whether no two members are equal.  The result is
// computed on first use and memoized.
func (n *ArrayNode) AllUnique() bool {
	n.uniqueOnce.Do(func() {
		if n.multiplicity > 1 {
			return
		}

		seen := make(map[uint64][]element, n.count)
		n.allUnique = n.each(func(e element) bool {
			h := e.hash()
			for _, other := range seen[h] {
				if e.equal(other) {
					return false
				}
			}
			seen[h] = append(seen[h], e)
			return true
		})
	})

	return n.allUnique
}

func (n *ArrayNode) at(i int) element {
	for {
		if n.IsLeaf() {
			return n.local.at(i % n.local.len())
		}

		for _, c := range n.children {
			if i < c.count {
				n = c
				break
			}
			i -= c.count
		}
	}
}

// each calls fn for every member, in order, until fn returns false.  It
// reports whether every call returned true.
func (n *ArrayNode) each(fn func(element) bool) bool {
	if !n.IsLeaf() {
		for _, c := range n.children {
			if !c.each(fn) {
				return false
			}
		}
		return true
	}

	if n.count == 0 {
		return true
	}

	for r := 0; r < n.multiplicity; r++ {
		for i := 0; i < n.local.len(); i++ {
			if !fn(n.local.at(i)) {
				return false
			}
		}
	}
	return true
}

// Array returns an Array of the given members.  Pass knownIsString if the
// caller has proved that members is a String.
func (p *Pool) Array(members []*Value, knownIsString bool) *Value {
	if len(members) == 0 {
		return p.emptyArray
	}

	ms := make(valueMembers, len(members))
	allAttrNames := true
	for i, m := range members {
		if m == nil {
			panic(argError("members", ErrNilValue))
		}
		ms[i] = m
		allAttrNames = allAttrNames && m.Is(wkt.AttrName)
	}

	types := wkt.Of(wkt.Array)
	if knownIsString {
		types.Add(wkt.String)
	}
	if allAttrNames {
		types.Add(wkt.AttrNameList)
	}

	return newValue(KindArray, types, newLeaf(ms, 1))
}

// BitString returns a String whose members are the bits of b.
func (p *Pool) BitString(b Bits) *Value {
	if b.Len() == 0 {
		return p.emptyArray
	}
	return newValue(KindArray, wkt.Of(wkt.Array, wkt.String), newLeaf(bitMembers(b), 1))
}

// OctetString returns a String whose members are the octets of b.
func (p *Pool) OctetString(b []byte) *Value {
	if len(b) == 0 {
		return p.emptyArray
	}
	ms := append(octetMembers(nil), b...)
	return newValue(KindArray, wkt.Of(wkt.Array, wkt.String), newLeaf(ms, 1))
}

// CodepointString returns a String whose members are the codepoints of c.
func (p *Pool) CodepointString(c CodepointArray) *Value {
	if c.Len() == 0 {
		return p.emptyArray
	}
	return newValue(KindArray, wkt.Of(wkt.Array, wkt.String), newLeaf(codepointMembers(c), 1))
}

// ArrayCatenate returns the members of a followed by the members of b.
func (p *Pool) ArrayCatenate(a, b *Value) (*Value, error) {
	if a.kind != KindArray {
		return nil, argError("a", wrongKind(a, KindArray))
	}
	if b.kind != KindArray {
		return nil, argError("b", wrongKind(b, KindArray))
	}

	na, nb := a.payload.(*ArrayNode), b.payload.(*ArrayNode)
	switch {
	case nb.count == 0:
		return a, nil
	case na.count == 0:
		return b, nil
	case na.count > math.MaxInt-nb.count:
		return nil, argErrorf("b", ErrTooLarge, "%d + %d members", na.count, nb.count)
	}

	types := wkt.Of(wkt.Array)
	for _, t := range []wkt.Type{wkt.String, wkt.AttrNameList} {
		if a.Is(t) && b.Is(t) {
			types.Add(t)
		}
	}

	return newValue(KindArray, types, newCatenation(na, nb)), nil
}

// ArrayReplicate returns the members of a, repeated n times.
func (p *Pool) ArrayReplicate(a *Value, n int) (*Value, error) {
	if a.kind != KindArray {
		return nil, argError("a", wrongKind(a, KindArray))
	}
	if n < 0 {
		return nil, argErrorf("n", ErrNegativeQuantity, "%d", n)
	}

	node := a.payload.(*ArrayNode)
	switch {
	case n == 0 || node.count == 0:
		return p.emptyArray, nil
	case n == 1:
		return a, nil
	case n > math.MaxInt/node.count:
		return nil, argErrorf("n", ErrTooLarge, "%d copies of %d members", n, node.count)
	}

	var rep *ArrayNode
	if node.IsLeaf() {
		rep = newLeaf(node.local, node.multiplicity*n)
	} else {
		rep = replicate(node, n)
	}

	return newValue(KindArray, a.types, rep), nil
}

// replicate catenates n copies of node by repeated doubling, sharing
// subtrees, so the result has O(log n) new nodes.
func replicate(node *ArrayNode, n int) *ArrayNode {
	acc := emptyArrayNode
	for pow := node; n > 0; n >>= 1 {
		if n&1 == 1 {
			acc = newCatenation(acc, pow)
		}
		if n > 1 {
			pow = newCatenation(pow, pow)
		}
	}
	return acc
}

// ArrayAt returns the member of a Bits, Blob, Text or Array at ordinal
// position i.  Compact members are returned as Integer values.
func (p *Pool) ArrayAt(a *Value, i int) (*Value, error) {
	node, err := a.Array()
	if err != nil {
		return nil, argError("a", err)
	}
	if i < 0 || i >= node.count {
		return nil, argErrorf("i", ErrNoSuchOrdPos, "%d not in [0, %d)", i, node.count)
	}

	return p.materialize(node.at(i)), nil
}

// ArrayMembers returns every member of a Bits, Blob, Text or Array.
// Compact members are returned as Integer values.
func (p *Pool) ArrayMembers(a *Value) ([]*Value, error) {
	node, err := a.Array()
	if err != nil {
		return nil, argError("a", err)
	}

	vs := make([]*Value, 0, node.count)
	node.each(func(e element) bool {
		vs = append(vs, p.materialize(e))
		return true
	})
	return vs, nil
}

func (p *Pool) materialize(e element) *Value {
	if e.v != nil {
		return e.v
	}
	return p.Int64(e.code)
}

// Bits returns the members of a Bits value.
func (v *Value) Bits() (Bits, error) {
	if v.kind != KindBits {
		return Bits{}, wrongKind(v, KindBits)
	}

	n := v.payload.(*ArrayNode)
	if m, ok := n.local.(bitMembers); ok && n.multiplicity == 1 {
		return Bits(m), nil
	}

	bs := make([]bool, 0, n.count)
	n.each(func(e element) bool {
		bs = append(bs, e.code != 0)
		return true
	})
	return NewBits(bs), nil
}

// Blob returns a copy of the members of a Blob value.
func (v *Value) Blob() ([]byte, error) {
	if v.kind != KindBlob {
		return nil, wrongKind(v, KindBlob)
	}

	n := v.payload.(*ArrayNode)
	b := make([]byte, 0, n.count)
	n.each(func(e element) bool {
		b = append(b, byte(e.code))
		return true
	})
	return b, nil
}

// Text returns the codepoints of a Text value.
func (v *Value) Text() (CodepointArray, error) {
	if v.kind != KindText {
		return CodepointArray{}, wrongKind(v, KindText)
	}

	n := v.payload.(*ArrayNode)
	if m, ok := n.local.(codepointMembers); ok && n.multiplicity == 1 {
		return CodepointArray(m), nil
	}

	cps := make([]rune, 0, n.count)
	n.each(func(e element) bool {
		cps = append(cps, rune(e.code))
		return true
	})
	return newCodepointArray(cps), nil
}
