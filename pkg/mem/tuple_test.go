package mem_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muldis/mre/pkg/mem"
	"github.com/muldis/mre/pkg/wkt"
)

func TestTuple(t *testing.T) {
	t.Parallel()

	p := mem.New()

	t.Run("Nullary", func(t *testing.T) {
		t.Parallel()

		v, err := p.Tuple(mem.TupleAttrs{})
		require.NoError(t, err)
		assert.Same(t, p.NullaryTuple(), v)
		assert.True(t, v.Is(wkt.Heading), "nullary tuple is the empty heading")
		assert.False(t, v.Is(wkt.AttrName))
	})

	t.Run("Degree", func(t *testing.T) {
		t.Parallel()

		x := attr(t, p, "x", p.Int64(1))
		y := attr(t, p, "y", p.Int64(2))
		z := attr(t, p, "z", p.Int64(3))

		for _, tt := range []struct {
			attrs  mem.TupleAttrs
			degree int
		}{
			{mem.TupleAttrs{A0: p.True()}, 1},
			{mem.TupleAttrs{A0: p.True(), A2: p.False()}, 2},
			{mem.TupleAttrs{OnlyOA: &x}, 1},
			{mem.TupleAttrs{MultiOA: []mem.Attr{x, y}}, 2},
			{mem.TupleAttrs{A1: p.True(), OnlyOA: &z, MultiOA: []mem.Attr{x, y}}, 4},
		} {
			v, err := p.Tuple(tt.attrs)
			require.NoError(t, err)
			assert.Equal(t, tt.degree, mustTuple(t, v).Degree())
		}
	})

	t.Run("Attr", func(t *testing.T) {
		t.Parallel()

		v, err := p.TupleOf(map[string]*mem.Value{
			"\x00": p.Int64(10),
			"name": p.Int64(20),
		})
		require.NoError(t, err)

		tuple := mustTuple(t, v)
		got, err := tuple.Attr(p.Codepoints([]rune{0}))
		require.NoError(t, err)
		assert.Same(t, p.Int64(10), got, "should be stored in the first positional slot")

		got, err = tuple.Attr(p.Codepoints([]rune("name")))
		require.NoError(t, err)
		assert.Same(t, p.Int64(20), got)

		_, err = tuple.Attr(p.Codepoints([]rune("missing")))
		assert.ErrorIs(t, err, mem.ErrNoSuchAttrName)
		assert.ErrorIs(t, err, mem.ErrDomain)
	})

	t.Run("Misplaced", func(t *testing.T) {
		t.Parallel()

		a0 := mem.Attr{Name: p.Codepoints([]rune{0}), Value: p.True()}
		_, err := p.Tuple(mem.TupleAttrs{OnlyOA: &a0})
		assert.ErrorIs(t, err, mem.ErrMisplacedAttrName)
		assert.ErrorIs(t, err, mem.ErrContractViolation)
	})

	t.Run("Duplicate", func(t *testing.T) {
		t.Parallel()

		x := attr(t, p, "x", p.True())
		_, err := p.Tuple(mem.TupleAttrs{OnlyOA: &x, MultiOA: []mem.Attr{x}})
		assert.ErrorIs(t, err, mem.ErrDuplicateAttrName)

		_, err = p.TupleFromAttrs([]mem.Attr{x, x})
		assert.ErrorIs(t, err, mem.ErrDuplicateAttrName)
	})

	t.Run("MalformedNames", func(t *testing.T) {
		t.Parallel()

		_, err := p.TupleOf(map[string]*mem.Value{
			"\xff":   p.True(),
			"\xc3(":  p.True(),
			"simple": p.True(),
		})
		assert.ErrorIs(t, err, mem.ErrMalformedText)
		assert.Contains(t, err.Error(), `"\xff"`)
		assert.Contains(t, err.Error(), `"\xc3("`, "should report every malformed name")
	})
}

func TestHeading(t *testing.T) {
	t.Parallel()

	p := mem.New()

	t.Run("InsertionOrder", func(t *testing.T) {
		t.Parallel()

		x := attr(t, p, "x", p.True())
		y := attr(t, p, "y", p.True())

		a, err := p.TupleFromAttrs([]mem.Attr{x, y})
		require.NoError(t, err)
		b, err := p.TupleFromAttrs([]mem.Attr{y, x})
		require.NoError(t, err)
		c, err := p.Tuple(mem.TupleAttrs{OnlyOA: &y, MultiOA: []mem.Attr{x}})
		require.NoError(t, err)
		d, err := p.Heading("y", "x")
		require.NoError(t, err)

		assert.Same(t, a, b, "heading should not depend on insertion order")
		assert.Same(t, a, c, "heading should not depend on layout")
		assert.Same(t, a, d)
		assert.True(t, a.Is(wkt.Heading))
		assert.False(t, a.Is(wkt.AttrName), "binary heading is not an attribute name")
	})

	t.Run("NotAllTrue", func(t *testing.T) {
		t.Parallel()

		v, err := p.TupleOf(map[string]*mem.Value{"x": p.True(), "y": p.False()})
		require.NoError(t, err)
		assert.False(t, v.Is(wkt.Heading))
		assert.Equal(t, wkt.Of(wkt.Tuple), v.Types())
	})

	t.Run("Large", func(t *testing.T) {
		t.Parallel()

		names := make([]string, 31)
		for i := range names {
			names[i] = fmt.Sprintf("a%d", i)
		}

		a, err := p.Heading(names...)
		require.NoError(t, err)
		b, err := p.Heading(names...)
		require.NoError(t, err)
		assert.NotSame(t, a, b, "should not intern headings beyond the degree limit")
		assert.True(t, mem.Same(a, b))
		assert.True(t, a.Is(wkt.Heading))

		c, err := p.Heading(names[:30]...)
		require.NoError(t, err)
		d, err := p.Heading(names[:30]...)
		require.NoError(t, err)
		assert.Same(t, c, d)
	})

	t.Run("HeadingOf", func(t *testing.T) {
		t.Parallel()

		v, err := p.TupleOf(map[string]*mem.Value{"x": p.Int64(1), "y": p.Int64(2)})
		require.NoError(t, err)
		h, err := p.HeadingOf(v)
		require.NoError(t, err)
		want, err := p.Heading("x", "y")
		require.NoError(t, err)
		assert.Same(t, want, h)
	})
}

func TestAttrName(t *testing.T) {
	t.Parallel()

	p := mem.New()

	a, err := p.AttrNameOf("foo")
	require.NoError(t, err)
	b := p.AttrName(p.Codepoints([]rune("foo")))
	assert.Same(t, a, b)
	assert.Equal(t, wkt.Of(wkt.Tuple, wkt.Heading, wkt.AttrName), a.Types())

	c, err := p.TupleOf(map[string]*mem.Value{"foo": p.True()})
	require.NoError(t, err)
	assert.Same(t, a, c, "unary heading should be the interned attribute name")

	name, err := p.AttrNameAsCodepoints(a)
	require.NoError(t, err)
	assert.Equal(t, "foo", name.String())

	pos := p.AttrName(p.Codepoints([]rune{1}))
	v, err := p.Tuple(mem.TupleAttrs{A1: p.True()})
	require.NoError(t, err)
	assert.Same(t, pos, v, "positional attribute names are interned")

	name, err = p.AttrNameAsCodepoints(pos)
	require.NoError(t, err)
	assert.Equal(t, []rune{1}, name.Runes())

	_, err = p.AttrNameAsCodepoints(p.Int64(3))
	assert.ErrorIs(t, err, mem.ErrNotAttrName)

	notTrue, err := p.TupleOf(map[string]*mem.Value{"foo": p.False()})
	require.NoError(t, err)
	assert.False(t, notTrue.Is(wkt.AttrName))
	_, err = p.AttrNameAsCodepoints(notTrue)
	assert.ErrorIs(t, err, mem.ErrNotAttrName)

	_, err = p.AttrNameOf("\x80")
	assert.ErrorIs(t, err, mem.ErrMalformedText)
}

func TestAttrNameList(t *testing.T) {
	t.Parallel()

	p := mem.New()
	x, _ := p.AttrNameOf("x")
	y, _ := p.AttrNameOf("y")

	assert.True(t, p.Array([]*mem.Value{x, y}, false).Is(wkt.AttrNameList))
	assert.False(t, p.Array([]*mem.Value{x, p.Int64(1)}, false).Is(wkt.AttrNameList))
	assert.True(t, p.EmptyArray().Is(wkt.AttrNameList))
}

func attr(t *testing.T, p *mem.Pool, name string, v *mem.Value) mem.Attr {
	t.Helper()

	c, err := p.CodepointsOf(name)
	require.NoError(t, err)
	return mem.Attr{Name: c, Value: v}
}

func mustTuple(t *testing.T, v *mem.Value) *mem.TupleStruct {
	t.Helper()

	ts, err := v.Tuple()
	require.NoError(t, err)
	return ts
}
