package types

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muldis/mre/pkg/catalog"
	"github.com/muldis/mre/pkg/wkt"
)

func TestNames(t *testing.T) {
	t.Parallel()

	cat, err := catalog.New()
	require.NoError(t, err)

	assert.Len(t, names(cat, query{}), len(wkt.All()))

	binary := names(cat, query{functions: true, arity: 2})
	assert.ElementsMatch(t, wkt.BinaryFunctionNames(), binary)

	all := names(cat, query{functions: true})
	assert.Greater(t, len(all), len(binary))

	for _, name := range names(cat, query{functions: true, arity: 1, prefix: "Integer"}) {
		f, ok := cat.Function(name)
		require.True(t, ok)
		assert.Equal(t, 1, f.Arity, "%s", name)
		assert.Regexp(t, "^Integer", name)
	}

	var buf bytes.Buffer
	require.NoError(t, write(&buf, []string{"a", "b"}))
	assert.Equal(t, "a\nb\n", buf.String())
}
