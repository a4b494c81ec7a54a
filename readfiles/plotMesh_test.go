package readfiles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gopart/mesh"
)

func TestPartitionTriMesh(t *testing.T) {
	m := mesh.TwoTriangleMesh()
	trimesh, field, err := partitionTriMesh(m, []int{0, 1})
	require.NoError(t, err)
	require.Len(t, trimesh.Triangles, 2)
	for i, v := range []int32{1, 2, 3} {
		assert.Equal(t, v, trimesh.Triangles[1].Nodes[i])
	}
	assert.Equal(t, []float32{1, 1, 1}, trimesh.Attributes[1])
	assert.Equal(t, float32(1), trimesh.Geometry[2].X[0])
	// Point 0 is only in element 0, the others are owned by element 1
	assert.Equal(t, []float32{0, 1, 1, 1}, field)

	_, _, err = partitionTriMesh(m, []int{0})
	assert.Error(t, err)
	_, _, err = partitionTriMesh(mesh.TwoTetMesh(), []int{0, 1})
	assert.Error(t, err)
}
