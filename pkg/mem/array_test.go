package mem_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muldis/mre/pkg/mem"
	"github.com/muldis/mre/pkg/wkt"
)

func TestArray(t *testing.T) {
	t.Parallel()

	p := mem.New()

	t.Run("Empty", func(t *testing.T) {
		t.Parallel()

		assert.Same(t, p.EmptyArray(), p.Array(nil, false))
		assert.Same(t, p.EmptyArray(), p.OctetString(nil))
		assert.Same(t, p.EmptyArray(), p.CodepointString(mem.CodepointArray{}))
		assert.True(t, p.EmptyArray().Is(wkt.String))
	})

	t.Run("CompactMembers", func(t *testing.T) {
		t.Parallel()

		octets := p.OctetString([]byte{1, 0, 1})
		bits := p.BitString(mem.NewBits([]bool{true, false, true}))
		values := p.Array([]*mem.Value{p.Int64(1), p.Int64(0), p.Int64(1)}, false)

		assert.True(t, mem.Same(octets, bits), "representation should not affect equality")
		assert.True(t, mem.Same(bits, values))
		assert.Equal(t, mem.Hash(octets), mem.Hash(values))
		assert.True(t, octets.Is(wkt.String))
		assert.False(t, values.Is(wkt.String), "caller did not assert String")

		assert.Equal(t, mem.WidestBit, mustArray(t, bits).TreeWidest())
		assert.Equal(t, mem.WidestOctet, mustArray(t, octets).TreeWidest())
		assert.Equal(t, mem.WidestUnrestricted, mustArray(t, values).TreeWidest())
	})

	t.Run("At", func(t *testing.T) {
		t.Parallel()

		cps, err := p.CodepointsOf("abc")
		require.NoError(t, err)
		s := p.CodepointString(cps)

		v, err := p.ArrayAt(s, 1)
		require.NoError(t, err)
		assert.Same(t, p.Int64('b'), v)

		_, err = p.ArrayAt(s, 3)
		assert.ErrorIs(t, err, mem.ErrNoSuchOrdPos)
		_, err = p.ArrayAt(p.True(), 0)
		assert.ErrorIs(t, err, mem.ErrWrongKind)
	})

	t.Run("Catenate", func(t *testing.T) {
		t.Parallel()

		a := p.OctetString([]byte{1, 2})
		b := p.Array([]*mem.Value{p.Int64(3), p.Int64(4)}, true)

		ab, err := p.ArrayCatenate(a, b)
		require.NoError(t, err)
		assert.Equal(t, 4, mustArray(t, ab).Count())
		assert.False(t, mustArray(t, ab).IsLeaf())
		assert.True(t, ab.Is(wkt.String))
		assert.Equal(t, mem.WidestUnrestricted, mustArray(t, ab).TreeWidest())

		want := p.OctetString([]byte{1, 2, 3, 4})
		assert.True(t, mem.Same(want, ab))
		assert.Equal(t, mem.Hash(want), mem.Hash(ab))

		members, err := p.ArrayMembers(ab)
		require.NoError(t, err)
		assert.Len(t, members, 4)
		assert.Same(t, p.Int64(3), members[2])

		same, err := p.ArrayCatenate(a, p.EmptyArray())
		require.NoError(t, err)
		assert.Same(t, a, same)

		_, err = p.ArrayCatenate(a, p.Int64(1))
		assert.ErrorIs(t, err, mem.ErrWrongKind)
	})

	t.Run("Replicate", func(t *testing.T) {
		t.Parallel()

		a := p.OctetString([]byte{7, 8})
		r, err := p.ArrayReplicate(a, 3)
		require.NoError(t, err)

		node := mustArray(t, r)
		assert.Equal(t, 6, node.Count())
		assert.Equal(t, 3, node.LocalMultiplicity())
		assert.False(t, node.AllUnique())
		assert.True(t, mem.Same(r, p.OctetString([]byte{7, 8, 7, 8, 7, 8})))

		r, err = p.ArrayReplicate(a, 0)
		require.NoError(t, err)
		assert.Same(t, p.EmptyArray(), r)

		_, err = p.ArrayReplicate(a, -1)
		assert.ErrorIs(t, err, mem.ErrNegativeQuantity)
	})

	t.Run("ReplicateCatenation", func(t *testing.T) {
		t.Parallel()

		c, err := p.ArrayCatenate(p.OctetString([]byte{1, 2}), p.OctetString([]byte{3}))
		require.NoError(t, err)
		require.False(t, mustArray(t, c).IsLeaf())

		r, err := p.ArrayReplicate(c, 5)
		require.NoError(t, err)
		assert.Equal(t, 15, mustArray(t, r).Count())
		assert.True(t, mem.Same(r, p.OctetString([]byte{1, 2, 3, 1, 2, 3, 1, 2, 3, 1, 2, 3, 1, 2, 3})))

		r, err = p.ArrayReplicate(c, 1<<40)
		require.NoError(t, err)
		node := mustArray(t, r)
		assert.Equal(t, 3<<40, node.Count())
		assert.LessOrEqual(t, len(node.Children()), 2, "copies should share subtrees")
	})

	t.Run("TooLarge", func(t *testing.T) {
		t.Parallel()

		a := p.OctetString([]byte{1, 2})
		v, err := p.ArrayReplicate(a, math.MaxInt/2+1)
		assert.ErrorIs(t, err, mem.ErrTooLarge)
		assert.ErrorIs(t, err, mem.ErrDomain)
		assert.Nil(t, v)

		big, err := p.ArrayReplicate(a, math.MaxInt/2)
		require.NoError(t, err)
		assert.Equal(t, math.MaxInt/2*2, mustArray(t, big).Count())

		_, err = p.ArrayCatenate(big, a)
		assert.ErrorIs(t, err, mem.ErrTooLarge)
	})

	t.Run("WrongKind", func(t *testing.T) {
		t.Parallel()

		_, err := p.Boolean(true).Array()
		assert.ErrorIs(t, err, mem.ErrWrongKind)
		_, err = p.OctetString([]byte{1}).Bag()
		assert.ErrorIs(t, err, mem.ErrWrongKind)
		_, err = p.Set(nil).Array()
		assert.ErrorIs(t, err, mem.ErrWrongKind)
	})

	t.Run("AllUnique", func(t *testing.T) {
		t.Parallel()

		assert.True(t, mustArray(t, p.OctetString([]byte{1, 2, 3})).AllUnique())
		assert.False(t, mustArray(t, p.Array([]*mem.Value{p.Int64(1), p.Int64(2), p.Int64(1)}, false)).AllUnique())
		assert.True(t, mustArray(t, p.Array([]*mem.Value{p.Int64(200), p.OctetString([]byte{200})}, false)).AllUnique(),
			"an integer and an array are distinct")
	})
}
