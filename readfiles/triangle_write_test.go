package readfiles

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gopart/mesh"
)

func TestWriteTriangleMesh(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteElements(&buf, mesh.TwoTriangleMesh()))
	assert.Equal(t, "2 3 0\n1 1 2 3\n2 2 3 4\n", buf.String())
	buf.Reset()
	require.NoError(t, WriteNodes(&buf, mesh.TwoTriangleMesh()))
	assert.Equal(t, "4 2 0 0\n1 0 0\n2 1 0\n3 1 1\n4 0 1\n", buf.String())

	m := mesh.SquareMesh(3, 2)
	base := filepath.Join(t.TempDir(), "square")
	require.NoError(t, WriteTriangleMesh(base, m))
	back, nd, err := ReadTriangleMesh(base)
	require.NoError(t, err)
	assert.Equal(t, 1, nd.Base)
	require.Equal(t, m.NumElems(), back.NumElems())
	for e := 0; e < m.NumElems(); e++ {
		assert.Equal(t, m.ElemVerts(e), back.ElemVerts(e))
	}
	for p := 0; p < m.NumPts(); p++ {
		assert.Equal(t, m.Point(p), back.Point(p))
	}
}
