package mem_test

import (
	"math/big"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muldis/mre/pkg/mem"
	test_mem "github.com/muldis/mre/pkg/mem/test"
)

func TestSame(t *testing.T) {
	t.Parallel()

	p := mem.New()
	a := p.Int64(5_000_000_000)
	b := p.Integer(big.NewInt(5_000_000_000))
	f := p.Rat(big.NewRat(5_000_000_000, 1))

	for _, tt := range []struct {
		name string
		a, b *mem.Value
		same bool
	}{
		{"Identical", a, a, true},
		{"Structural", a, b, true},
		{"KindMismatch", a, f, false},
		{"Nil", a, nil, false},
		{"TextVersusString", mustText(t, p, "ab"), p.OctetString([]byte("ab")), false},
		{"TextVersusText", mustText(t, p, "ab"), p.Text(p.Codepoints([]rune("ab"))), true},
		{"BitsVersusBlob", p.Bits(mem.NewBits([]bool{true})), p.Blob([]byte{1}), false},
	} {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.same, mem.Same(tt.a, tt.b))
			if tt.same {
				assert.Equal(t, mem.Hash(tt.a), mem.Hash(tt.b))
			}
		})
	}
}

func TestNestedEquality(t *testing.T) {
	t.Parallel()

	build := func(p *mem.Pool) *mem.Value {
		inner := p.Set([]*mem.Value{p.Int64(1), mustText(t, p, "two")})
		tuple, err := p.TupleOf(map[string]*mem.Value{
			"inner": inner,
			"big":   p.Int64(1 << 40),
		})
		require.NoError(t, err)
		return p.Array([]*mem.Value{tuple, p.Rat(big.NewRat(3, 4))}, false)
	}

	p := mem.New()
	a, b := build(p), build(p)
	assert.NotSame(t, a, b)
	assert.True(t, mem.Same(a, b))
	assert.Equal(t, mem.Hash(a), mem.Hash(b))
	assert.Equal(t, a.String(), b.String())
}

func TestRender(t *testing.T) {
	t.Parallel()

	p := mem.New()
	pos, err := p.TupleOf(map[string]*mem.Value{"\x00": p.Int64(1), "\x01": p.Int64(2)})
	require.NoError(t, err)
	bag, err := p.Bag([]mem.MultipliedMember{{Member: p.True(), Multiplicity: 2}}, false)
	require.NoError(t, err)
	quoted, err := p.TupleOf(map[string]*mem.Value{"two words": p.True(), "b": p.True()})
	require.NoError(t, err)

	for _, tt := range []struct {
		v    *mem.Value
		want string
	}{
		{p.True(), "True"},
		{p.Int64(-12), "-12"},
		{p.Rat(big.NewRat(6, 3)), "2/1"},
		{mustText(t, p, `say "hi"`), `"say \"hi\""`},
		{mustText(t, p, "é"), `"\(0uE9)"`},
		{p.OctetString([]byte{1, 2}), "[1, 2]"},
		{p.Set([]*mem.Value{p.False()}), "{False}"},
		{bag, "{True : 2}"},
		{pos, "(0 : 1, 1 : 2)"},
		{quoted, "(b : True, 'two words' : True)"},
		{p.NullaryTuple(), "()"},
	} {
		assert.Equal(t, tt.want, tt.v.String())
	}
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	counts := make(map[string]int)
	metrics := test_mem.NewMockMetrics(ctrl)
	metrics.EXPECT().
		Incr(gomock.Any()).
		Do(func(bucket string) { counts[bucket]++ }).
		AnyTimes()
	metrics.EXPECT().
		Gauge(gomock.Any(), gomock.Any()).
		AnyTimes()

	p := mem.New(mem.WithMetrics(metrics))
	misses, hits := counts["integer.miss"], counts["integer.hit"]

	p.Int64(1234)
	assert.Equal(t, misses+1, counts["integer.miss"])
	assert.Equal(t, hits, counts["integer.hit"])

	p.Int64(1234)
	assert.Equal(t, misses+1, counts["integer.miss"])
	assert.Equal(t, hits+1, counts["integer.hit"])
}

func TestMetricsBypass(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	counts := make(map[string]int)
	metrics := test_mem.NewMockMetrics(ctrl)
	metrics.EXPECT().
		Incr(gomock.Any()).
		Do(func(bucket string) { counts[bucket]++ }).
		AnyTimes()
	metrics.EXPECT().
		Gauge(gomock.Any(), gomock.Any()).
		AnyTimes()

	p := mem.New(
		mem.WithMetrics(metrics),
		mem.WithLimits(mem.Limits{MaxCacheEntries: 200}))

	for i := int64(0); i < 300; i++ {
		p.Int64(i)
	}

	assert.Equal(t, 101, counts["integer.bypass"],
		"should bypass once the cache holds 200 entries")
	assert.Equal(t, 200, p.Stats().Integers)
	assert.Equal(t, 200, p.Loggable()["integers"])
}

func mustText(t *testing.T, p *mem.Pool, s string) *mem.Value {
	t.Helper()

	v, err := p.TextOf(s)
	require.NoError(t, err)
	return v
}
