package readfiles

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gopart/utils"
)

// Two tets sharing face 2-3-4, with a boundary triangle and a line that are
// not part of the volume mesh
const twoTetGmsh22 = `$MeshFormat
2.2 0 8
$EndMeshFormat
$PhysicalNames
1
3 1 "fluid"
$EndPhysicalNames
$Nodes
5
1 0 0 0
2 1 0 0
3 0 1 0
4 0 0 1
5 1 1 1
$EndNodes
$Elements
4
1 1 2 0 1 1 2
2 2 2 0 1 1 2 3
3 4 2 1 1 1 2 3 4
4 4 2 1 1 2 3 4 5
$EndElements
`

// Unit square split into two triangles, node tags out of order
const twoTriangleGmsh41 = `$MeshFormat
4.1 0 8
$EndMeshFormat
$Entities
0 0 1 0
1 0 0 0 1 1 0 0 0
$EndEntities
$Nodes
1 4 10 40
2 1 0 4
10
20
30
40
0 0 0
1 0 0
1 1 0
0 1 0
$EndNodes
$Elements
2 3 1 3
1 1 1 1
1 10 20
2 1 2 2
2 10 20 30
3 10 30 40
$EndElements
`

func TestParseGmsh22(t *testing.T) {
	m, nd, err := ParseGmsh("twotet.msh", strings.NewReader(twoTetGmsh22))
	require.NoError(t, err)
	assert.Equal(t, 3, m.Dimension())
	assert.Equal(t, 5, m.NumPts())
	require.Equal(t, 2, m.NumElems())
	assert.Equal(t, []int{0, 1, 2, 3}, m.ElemVerts(0))
	assert.Equal(t, []int{1, 2, 3, 4}, m.ElemVerts(1))
	assert.Equal(t, "1 1 1", nd.Text[4])
	neighbors, nEdges, err := m.FindNeighbors()
	require.NoError(t, err)
	assert.Equal(t, 1, nEdges)
	assert.Equal(t, [][]int{{1}, {0}}, neighbors)
}

func TestParseGmsh41(t *testing.T) {
	m, nd, err := ParseGmsh("square.msh", strings.NewReader(twoTriangleGmsh41))
	require.NoError(t, err)
	assert.Equal(t, 2, m.Dimension())
	require.Equal(t, 2, m.NumElems())
	// Tags 10..40 become ids 0..3
	assert.Equal(t, []int{0, 1, 2}, m.ElemVerts(0))
	assert.Equal(t, []int{0, 2, 3}, m.ElemVerts(1))
	assert.Equal(t, []float64{1, 1}, m.Point(2))
	assert.Equal(t, "0 1", nd.Text[3])
	assert.Equal(t, 2, nd.Dim)
}

func TestParseGmsh_Errors(t *testing.T) {
	for _, tc := range []struct {
		name, input, msg string
	}{
		{"binary", "$MeshFormat\n4.1 1 8\n$EndMeshFormat\n", "binary"},
		{"version", "$MeshFormat\n3.0 0 8\n$EndMeshFormat\n", "unsupported"},
		{"no format", "$Nodes\n0\n$EndNodes\n", "before $MeshFormat"},
		{"truncated", strings.Split(twoTetGmsh22, "3 4 2 1 1 1 2 3 4")[0], "unexpected end"},
		{"hexes", strings.Replace(twoTetGmsh22, "4 4 2 1 1 2 3 4 5", "4 5 2 1 1 1 2 3 4 5 1 2 3", 1), "not a simplex"},
		{"undefined node", strings.Replace(twoTetGmsh22, "2 3 4 5\n$EndElements", "2 3 4 9\n$EndElements", 1), "node 9"},
		{"only lines", "$MeshFormat\n2.2 0 8\n$EndMeshFormat\n$Nodes\n2\n1 0 0 0\n2 1 0 0\n$EndNodes\n$Elements\n1\n1 1 0 1 2\n$EndElements\n", "no triangle"},
		{"unknown type", strings.Replace(twoTetGmsh22, "1 1 2 0 1 1 2", "1 8 2 0 1 1 2 3", 1), "type 8"},
	} {
		_, _, err := ParseGmsh("bad.msh", strings.NewReader(tc.input))
		require.Error(t, err, tc.name)
		assert.True(t, errors.Is(err, utils.ErrMalformedInput), tc.name)
		assert.Contains(t, err.Error(), tc.msg, tc.name)
	}
}

func TestReadMeshFile_Gmsh(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "square.msh")
	require.NoError(t, os.WriteFile(filename, []byte(twoTriangleGmsh41), 0644))
	m, _, err := ReadMeshFile(filename)
	require.NoError(t, err)
	assert.Equal(t, 2, m.NumElems())
	assert.Equal(t, 4, m.NumPts())
}
