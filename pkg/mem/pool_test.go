package mem_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/muldis/mre/pkg/mem"
	"github.com/muldis/mre/pkg/wkt"
)

func TestBoolean(t *testing.T) {
	t.Parallel()

	p := mem.New()
	assert.Same(t, p.False(), p.Boolean(false), "should intern False")
	assert.Same(t, p.True(), p.Boolean(true), "should intern True")
	assert.False(t, mem.Same(p.False(), p.True()))

	b, err := p.True().Boolean()
	require.NoError(t, err)
	assert.True(t, b)

	_, err = p.Int64(1).Boolean()
	assert.ErrorIs(t, err, mem.ErrWrongKind)
	assert.ErrorIs(t, err, mem.ErrContractViolation)
}

func TestInteger(t *testing.T) {
	t.Parallel()

	t.Run("Interned", func(t *testing.T) {
		t.Parallel()

		p := mem.New()
		assert.Same(t, p.Int64(42), p.Int64(42))
		assert.Same(t, p.Int64(-7), p.Integer(big.NewInt(-7)))
		assert.Same(t, p.Int64(2_000_000_000), p.Int64(2_000_000_000),
			"should intern integers at the bound")
	})

	t.Run("OutOfRange", func(t *testing.T) {
		t.Parallel()

		p := mem.New()
		a, b := p.Int64(2_000_000_001), p.Int64(2_000_000_001)
		assert.NotSame(t, a, b, "should not intern integers beyond the bound")
		assert.True(t, mem.Same(a, b))
		assert.Equal(t, mem.Hash(a), mem.Hash(b))

		huge, ok := new(big.Int).SetString("123456789012345678901234567890", 10)
		require.True(t, ok)
		assert.True(t, mem.Same(p.Integer(huge), p.Integer(huge)))
	})

	t.Run("Copied", func(t *testing.T) {
		t.Parallel()

		p := mem.New()
		x, _ := new(big.Int).SetString("99999999999999999999", 10)
		v := p.Integer(x)
		x.SetInt64(0)

		got, err := v.Integer()
		require.NoError(t, err)
		assert.Equal(t, "99999999999999999999", got.String(),
			"should not alias the caller's big.Int")
	})

	t.Run("WellKnownTypes", func(t *testing.T) {
		t.Parallel()

		p := mem.New()
		assert.Equal(t, wkt.Of(wkt.Integer), p.Int64(-1).Types())
		assert.Equal(t, wkt.Of(wkt.Integer, wkt.IntegerNN), p.Int64(0).Types())
		assert.Equal(t, wkt.Of(wkt.Integer, wkt.IntegerNN, wkt.IntegerP), p.Int64(1).Types())
	})
}

func TestIntegerCacheBounded(t *testing.T) {
	t.Parallel()

	p := mem.New()
	for i := int64(0); i < 12_000; i++ {
		p.Int64(i)
	}

	assert.Equal(t, mem.DefaultLimits.MaxCacheEntries, p.Stats().Integers,
		"cache should stop growing at its limit")

	a, b := p.Int64(11_500), p.Int64(11_500)
	assert.NotSame(t, a, b, "should bypass a full cache")
	assert.True(t, mem.Same(a, b), "should still compare equal")
	assert.Same(t, p.Int64(100), p.Int64(100), "earlier entries should remain interned")
}

func TestFraction(t *testing.T) {
	t.Parallel()

	p := mem.New()

	v, err := p.Fraction(big.NewInt(2), big.NewInt(4))
	require.NoError(t, err)
	r, err := v.Fraction()
	require.NoError(t, err)
	assert.Equal(t, "1/2", r.String(), "should normalize to lowest terms")
	assert.True(t, mem.Same(v, p.Rat(big.NewRat(1, 2))))

	v, err = p.Fraction(big.NewInt(1), big.NewInt(0))
	assert.ErrorIs(t, err, mem.ErrZeroDenominator)
	assert.ErrorIs(t, err, mem.ErrDomain)
	assert.Nil(t, v, "should not construct a value")

	var ae *mem.ArgumentError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "den", ae.Arg)
}

func TestCodepoints(t *testing.T) {
	t.Parallel()

	p := mem.New()

	t.Run("Interned", func(t *testing.T) {
		t.Parallel()

		a, err := p.CodepointsOf("hello")
		require.NoError(t, err)
		b := p.Codepoints([]rune("hello"))
		assert.True(t, a.Equal(b))
		assert.Equal(t, "hello", b.String())
		assert.True(t, b.Valid())
	})

	t.Run("Malformed", func(t *testing.T) {
		t.Parallel()

		_, err := p.CodepointsOf("\xff\xfe")
		assert.ErrorIs(t, err, mem.ErrMalformedText)
	})

	t.Run("NotUnicode", func(t *testing.T) {
		t.Parallel()

		c := p.Codepoints([]rune{'a', 0xD800, -1})
		assert.False(t, c.Valid(), "surrogates are not scalar values")
		assert.Equal(t, 3, c.Len())
		assert.Equal(t, rune(-1), c.At(2))
		assert.False(t, c.Equal(p.Codepoints([]rune{'a', 0xD800})))
		assert.True(t, c.Equal(p.Codepoints([]rune{'a', 0xD800, -1})))

		v := p.Text(c)
		assert.True(t, v.Is(wkt.Text))
		assert.False(t, v.Is(wkt.TextUnicode))
	})

	t.Run("Copied", func(t *testing.T) {
		t.Parallel()

		cps := []rune("mutable")
		c := p.Codepoints(cps)
		cps[0] = 'M'
		assert.Equal(t, "mutable", c.String())
	})
}

func TestText(t *testing.T) {
	t.Parallel()

	p := mem.New()

	a, err := p.TextOf("Muldis")
	require.NoError(t, err)
	b, err := p.TextOf("Muldis")
	require.NoError(t, err)
	assert.Same(t, a, b, "should intern short texts")
	assert.Equal(t, wkt.Of(wkt.Text, wkt.TextUnicode, wkt.TextASCII), a.Types())

	c, err := p.TextOf("Müldis")
	require.NoError(t, err)
	assert.True(t, c.Is(wkt.TextUnicode))
	assert.False(t, c.Is(wkt.TextASCII))

	empty, err := p.TextOf("")
	require.NoError(t, err)
	assert.Equal(t, 0, mustArray(t, empty).Count())

	_, err = p.TextOf("\xc3\x28")
	assert.ErrorIs(t, err, mem.ErrMalformedText)
}

func TestLongTextNotInterned(t *testing.T) {
	t.Parallel()

	p := mem.New(mem.WithLimits(mem.Limits{MaxCodepoints: 4}))

	a, _ := p.TextOf("abcde")
	b, _ := p.TextOf("abcde")
	assert.NotSame(t, a, b)
	assert.True(t, mem.Same(a, b))

	c, _ := p.TextOf("abcd")
	d, _ := p.TextOf("abcd")
	assert.Same(t, c, d)
}

func TestBitsAndBlob(t *testing.T) {
	t.Parallel()

	p := mem.New()

	bits := p.Bits(mem.NewBits([]bool{true, false, true}))
	assert.Equal(t, mem.KindBits, bits.Kind())
	assert.True(t, mustArray(t, bits).IsBitRestricted())
	assert.Equal(t, "0bb101", bits.String())
	assert.Same(t, p.Bits(mem.Bits{}), p.Bits(mem.NewBits(nil)))

	buf := []byte{0xDE, 0xAD}
	blob := p.Blob(buf)
	buf[0] = 0
	assert.Equal(t, "0xxDEAD", blob.String(), "should copy the input")
	assert.True(t, mustArray(t, blob).IsOctetRestricted())
	assert.False(t, mustArray(t, blob).IsBitRestricted())
}

func TestConcurrentInterning(t *testing.T) {
	t.Parallel()

	p := mem.New()
	results := make([][]*mem.Value, 8)

	var g errgroup.Group
	for i := range results {
		i := i
		g.Go(func() error {
			for c := int64(0); c < 500; c++ {
				v := p.Int64(c)
				name, err := p.AttrNameOf("attr")
				if err != nil {
					return err
				}
				results[i] = append(results[i], v, name)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for _, rs := range results[1:] {
		for j, v := range rs {
			assert.Same(t, results[0][j], v,
				"concurrent construction should yield a single instance")
		}
	}
}

func mustArray(t *testing.T, v *mem.Value) *mem.ArrayNode {
	t.Helper()

	n, err := v.Array()
	require.NoError(t, err)
	return n
}
