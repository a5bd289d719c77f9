package kernel

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource(t *testing.T) {
	p, err := Source(VARIANT_SCALAR)
	require.NoError(t, err)
	assert.Equal(t, "vector_add_scalar", p.Entry)
	assert.Equal(t, 1, p.Width)
	assert.True(t, strings.Contains(p.Source, "__kernel void "+p.Entry+"("))

	p, err = Source(VARIANT_VECTORIZED)
	require.NoError(t, err)
	assert.Equal(t, "vector_add_vectorized", p.Entry)
	assert.Equal(t, 4, p.Width)
	assert.True(t, strings.Contains(p.Source, "float4"))
}

func TestSourceUnknown(t *testing.T) {
	_, err := Source("double")
	assert.Error(t, err)
}
