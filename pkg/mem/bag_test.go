package mem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muldis/mre/pkg/mem"
)

func TestBag(t *testing.T) {
	t.Parallel()

	p := mem.New()

	t.Run("Merge", func(t *testing.T) {
		t.Parallel()

		x, _ := p.TextOf("x")
		v, err := p.Bag([]mem.MultipliedMember{
			{Member: x, Multiplicity: 2},
			{Member: p.Int64(1), Multiplicity: 1},
			{Member: p.Text(p.Codepoints([]rune("x"))), Multiplicity: 3},
		}, false)
		require.NoError(t, err)

		bag := mustBag(t, v)
		assert.Equal(t, mem.BagArrayed, bag.Symbol())
		assert.Equal(t, int64(6), bag.Count())
		assert.Equal(t, 2, bag.UniqueCount())
		assert.False(t, bag.AllUnique())
		assert.Equal(t, int64(5), bag.Multiplicity(x))
		assert.Equal(t, int64(0), bag.Multiplicity(p.Int64(2)))
	})

	t.Run("Unique", func(t *testing.T) {
		t.Parallel()

		v, err := p.Bag([]mem.MultipliedMember{
			{Member: p.Int64(1), Multiplicity: 1},
			{Member: p.Int64(2), Multiplicity: 1},
		}, true)
		require.NoError(t, err)

		bag := mustBag(t, v)
		assert.Equal(t, mem.BagUnique, bag.Symbol())
		assert.Equal(t, mem.BagArrayed, bag.Primary().Symbol())
		assert.True(t, bag.AllUnique())
		assert.Equal(t, int64(2), bag.Count())
	})

	t.Run("NotUnique", func(t *testing.T) {
		t.Parallel()

		v, err := p.Bag([]mem.MultipliedMember{
			{Member: p.Int64(1), Multiplicity: 1},
			{Member: p.Int64(1), Multiplicity: 1},
		}, true)
		assert.ErrorIs(t, err, mem.ErrNotUnique)
		assert.ErrorIs(t, err, mem.ErrContractViolation)
		assert.Nil(t, v)
	})

	t.Run("BadMultiplicity", func(t *testing.T) {
		t.Parallel()

		_, err := p.Bag([]mem.MultipliedMember{{Member: p.Int64(1), Multiplicity: 0}}, false)
		assert.ErrorIs(t, err, mem.ErrBadMultiplicity)

		_, err = p.Bag([]mem.MultipliedMember{{Multiplicity: 1}}, false)
		assert.ErrorIs(t, err, mem.ErrNilValue)
	})

	t.Run("Equality", func(t *testing.T) {
		t.Parallel()

		a, err := p.Bag([]mem.MultipliedMember{
			{Member: p.Int64(1), Multiplicity: 2},
			{Member: p.Int64(2), Multiplicity: 1},
		}, false)
		require.NoError(t, err)
		b, err := p.Bag([]mem.MultipliedMember{
			{Member: p.Int64(2), Multiplicity: 1},
			{Member: p.Int64(1), Multiplicity: 1},
			{Member: p.Int64(1), Multiplicity: 1},
		}, false)
		require.NoError(t, err)

		assert.True(t, mem.Same(a, b), "member order should not matter")
		assert.Equal(t, mem.Hash(a), mem.Hash(b))
	})

	t.Run("Empty", func(t *testing.T) {
		t.Parallel()

		v, err := p.Bag(nil, true)
		require.NoError(t, err)
		assert.Same(t, p.EmptyBag(), v)
		assert.Same(t, p.EmptySet(), p.Set(nil))
		assert.False(t, mem.Same(p.EmptyBag(), p.EmptySet()))
	})
}

func TestSet(t *testing.T) {
	t.Parallel()

	p := mem.New()

	a := p.Set([]*mem.Value{p.Int64(3), p.Int64(1), p.Int64(3)})
	b := p.Set([]*mem.Value{p.Int64(1), p.Int64(3)})

	set := mustBag(t, a)
	assert.Equal(t, mem.KindSet, a.Kind())
	assert.Equal(t, int64(2), set.Count(), "duplicates should be discarded")
	assert.True(t, set.AllUnique())
	assert.True(t, mem.Same(a, b))
	assert.Equal(t, mem.Hash(a), mem.Hash(b))

	assert.Panics(t, func() { p.Set([]*mem.Value{nil}) })
}

func mustBag(t *testing.T, v *mem.Value) *mem.BagNode {
	t.Helper()

	b, err := v.Bag()
	require.NoError(t, err)
	return b
}
