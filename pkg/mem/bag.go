package mem

import (
	"sync"

	"github.com/muldis/mre/pkg/wkt"
)

// MultipliedMember is a distinct bag member together with its count.
type MultipliedMember struct {
	Member       *Value
	Multiplicity int64
}

// BagSymbol identifies how a BagNode represents its members.
type BagSymbol uint8

const (
	// BagNone is the empty bag.
	BagNone BagSymbol = iota
	// BagArrayed holds an explicit list of distinct members.
	BagArrayed
	// BagUnique wraps a primary node and asserts that every multiplicity is 1.
	BagUnique
)

func (s BagSymbol) String() string {
	switch s {
	case BagNone:
		return "None"
	case BagArrayed:
		return "Arrayed"
	case BagUnique:
		return "Unique"
	}

	return "BagSymbol(?)"
}

// BagNode is a node in the member tree of a Set or Bag.  Nodes are immutable.
type BagNode struct {
	symbol  BagSymbol
	members []MultipliedMember
	primary *BagNode

	count       int64
	uniqueCount int
	allUnique   bool

	indexOnce sync.Once
	index     map[uint64][]int
}

var emptyBagNode = &BagNode{allUnique: true}

func newArrayedBag(ms []MultipliedMember) *BagNode {
	if len(ms) == 0 {
		return emptyBagNode
	}

	n := &BagNode{
		symbol:      BagArrayed,
		members:     ms,
		uniqueCount: len(ms),
		allUnique:   true,
	}
	for _, m := range ms {
		n.count += m.Multiplicity
		n.allUnique = n.allUnique && m.Multiplicity == 1
	}
	return n
}

func newUniqueBag(primary *BagNode) *BagNode {
	if primary.symbol == BagNone || primary.symbol == BagUnique {
		return primary
	}

	return &BagNode{
		symbol:      BagUnique,
		primary:     primary,
		count:       primary.count,
		uniqueCount: primary.uniqueCount,
		allUnique:   true,
	}
}

// Symbol returns the representation of the node.
func (n *BagNode) Symbol() BagSymbol { return n.symbol }

// Primary returns the node wrapped by a Unique node, or nil.
func (n *BagNode) Primary() *BagNode { return n.primary }

// Count returns the number of members, counting each repetition.
func (n *BagNode) Count() int64 { return n.count }

// UniqueCount returns the number of distinct members.
func (n *BagNode) UniqueCount() int { return n.uniqueCount }

// AllUnique reports whether every member has a multiplicity of 1.
func (n *BagNode) AllUnique() bool { return n.allUnique }

// Each calls fn for every distinct member until fn returns false.
func (n *BagNode) Each(fn func(MultipliedMember) bool) {
	for _, m := range n.arrayed().members {
		if !fn(m) {
			return
		}
	}
}

// Members returns every distinct member.
func (n *BagNode) Members() []MultipliedMember {
	return append([]MultipliedMember(nil), n.arrayed().members...)
}

// Multiplicity returns the number of times v occurs in the bag.
func (n *BagNode) Multiplicity(v *Value) int64 {
	a := n.arrayed()
	a.indexOnce.Do(func() {
		a.index = make(map[uint64][]int, len(a.members))
		for i, m := range a.members {
			h := Hash(m.Member)
			a.index[h] = append(a.index[h], i)
		}
	})

	for _, i := range a.index[Hash(v)] {
		if Same(a.members[i].Member, v) {
			return a.members[i].Multiplicity
		}
	}
	return 0
}

func (n *BagNode) arrayed() *BagNode {
	for n.symbol == BagUnique {
		n = n.primary
	}
	return n
}

// mergeMembers combines structurally-equal members, summing their counts.
// The order of first occurrence is preserved.
func mergeMembers(ms []MultipliedMember) ([]MultipliedMember, error) {
	merged := make([]MultipliedMember, 0, len(ms))
	buckets := make(map[uint64][]int, len(ms))

next:
	for _, m := range ms {
		if m.Member == nil {
			return nil, argError("members", ErrNilValue)
		}
		if m.Multiplicity < 1 {
			return nil, argErrorf("members", ErrBadMultiplicity, "%d", m.Multiplicity)
		}

		h := Hash(m.Member)
		for _, i := range buckets[h] {
			if Same(merged[i].Member, m.Member) {
				merged[i].Multiplicity += m.Multiplicity
				continue next
			}
		}

		buckets[h] = append(buckets[h], len(merged))
		merged = append(merged, m)
	}

	return merged, nil
}

// Bag returns a Bag of the given members.  Equal members are merged.  If
// withUnique is set, the caller asserts that no member occurs more than once;
// the assertion is verified and ErrNotUnique is returned if it fails.
func (p *Pool) Bag(members []MultipliedMember, withUnique bool) (*Value, error) {
	merged, err := mergeMembers(members)
	if err != nil {
		return nil, err
	}

	if len(merged) == 0 {
		return p.emptyBag, nil
	}

	node := newArrayedBag(merged)
	if withUnique {
		if !node.allUnique {
			return nil, argError("members", ErrNotUnique)
		}
		node = newUniqueBag(node)
	}

	return newValue(KindBag, wkt.Of(wkt.Bag), node), nil
}

// Set returns a Set of the given members.  Duplicates are discarded.
func (p *Pool) Set(members []*Value) *Value {
	ms := make([]MultipliedMember, len(members))
	for i, m := range members {
		ms[i] = MultipliedMember{Member: m, Multiplicity: 1}
	}

	merged, err := mergeMembers(ms)
	if err != nil {
		panic(err)
	}
	if len(merged) == 0 {
		return p.emptySet
	}

	for i := range merged {
		merged[i].Multiplicity = 1
	}

	return newValue(KindSet, wkt.Of(wkt.Set), newUniqueBag(newArrayedBag(merged)))
}
