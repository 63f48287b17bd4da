package mem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muldis/mre/pkg/mem"
	"github.com/muldis/mre/pkg/wkt"
)

func TestVariable(t *testing.T) {
	t.Parallel()

	p := mem.New()
	v := p.Variable(p.Int64(1))
	assert.True(t, v.Is(wkt.Variable))

	h, err := v.Handle()
	require.NoError(t, err)
	assert.Equal(t, mem.HandleVariable, h.Type())

	cur, err := h.Current()
	require.NoError(t, err)
	assert.Same(t, p.Int64(1), cur)

	require.NoError(t, h.Assign(p.True()))
	cur, err = h.Current()
	require.NoError(t, err)
	assert.Same(t, p.True(), cur)

	assert.ErrorIs(t, h.Assign(nil), mem.ErrNilValue)
	assert.Panics(t, func() { p.Variable(nil) })
}

func TestHandleIdentity(t *testing.T) {
	t.Parallel()

	p := mem.New()

	a, b := p.Process(), p.Process()
	assert.True(t, mem.Same(a, a))
	assert.False(t, mem.Same(a, b), "handles are only equal to themselves")

	ha, _ := a.Handle()
	hb, _ := b.Handle()
	assert.NotEqual(t, ha.ID(), hb.ID())

	x, y := p.Variable(p.True()), p.Variable(p.True())
	assert.False(t, mem.Same(x, y))

	_, err := ha.Current()
	assert.ErrorIs(t, err, mem.ErrWrongKind)
	assert.ErrorIs(t, ha.Assign(p.True()), mem.ErrWrongKind)
}

func TestExternal(t *testing.T) {
	t.Parallel()

	p := mem.New()
	payload := &struct{ n int }{n: 42}

	v := p.External(payload)
	assert.True(t, v.Is(wkt.External))
	h, err := v.Handle()
	require.NoError(t, err)

	got, err := h.Payload()
	require.NoError(t, err)
	assert.Same(t, payload, got)

	s, _ := p.Stream().Handle()
	_, err = s.Payload()
	assert.ErrorIs(t, err, mem.ErrWrongKind)
}
