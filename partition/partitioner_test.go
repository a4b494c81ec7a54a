package partition

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gopart/chaco"
	"github.com/notargets/gopart/mesh"
	"github.com/notargets/gopart/utils"
)

func TestBuildMetisGraph(t *testing.T) {
	xadj, adjncy := buildMetisGraph([][]int{{1}, {0}})
	assert.Equal(t, []int32{0, 1, 2}, xadj)
	assert.Equal(t, []int32{1, 0}, adjncy)

	m := mesh.SquareMesh(3, 1)
	neighbors, nEdges, err := m.FindNeighbors()
	require.NoError(t, err)
	xadj, adjncy = buildMetisGraph(neighbors)
	assert.Len(t, xadj, m.NumElems()+1)
	assert.Len(t, adjncy, 2*nEdges)
	assert.Equal(t, []int32{1, 3}, adjncy[xadj[0]:xadj[1]])
}

func TestMetisPartitioner(t *testing.T) {
	m := mesh.SquareMesh(8, 8)
	neighbors, nEdges, err := m.FindNeighbors()
	require.NoError(t, err)
	mp := NewMetisPartitioner(nil)
	assignments, err := mp.Partition(context.Background(), m, neighbors, nEdges, 4)
	require.NoError(t, err)
	require.Len(t, assignments, m.NumElems())
	counts := make([]int, 4)
	for _, p := range assignments {
		require.True(t, p >= 0 && p < 4)
		counts[p]++
	}
	for p, n := range counts {
		assert.Greater(t, n, 0, "processor %d is empty", p)
	}

	mp.Config.Objective = "cut"
	assignments, err = mp.Partition(context.Background(), m, neighbors, nEdges, 2)
	require.NoError(t, err)
	assert.NoError(t, CheckAssignments(assignments, 2))
}

func TestMetisPartitioner_Trivial(t *testing.T) {
	m := mesh.TwoTriangleMesh()
	neighbors, nEdges, err := m.FindNeighbors()
	require.NoError(t, err)
	mp := NewMetisPartitioner(DefaultPartitionConfig())
	assignments, err := mp.Partition(context.Background(), m, neighbors, nEdges, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0}, assignments)

	_, err = mp.Partition(context.Background(), m, neighbors, nEdges, 0)
	assert.True(t, errors.Is(err, utils.ErrInvalidAssignment))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = mp.Partition(ctx, m, neighbors, nEdges, 2)
	assert.True(t, errors.Is(err, context.Canceled))
}

// fakeChaco reads the chacoInput answers and puts element i in set i % nSets
const fakeChaco = `#!/bin/sh
read graph
read assign
read method
read target
read nsets
read divider
read again
n=$(head -n 1 "$graph" | cut -d' ' -f1)
i=0
: > "$assign"
while [ $i -lt $n ]; do
  echo $((i % nsets)) >> "$assign"
  i=$((i+1))
done
`

func writeFakeChaco(t *testing.T, dir, script string) string {
	exe := filepath.Join(dir, "chaco")
	require.NoError(t, os.WriteFile(exe, []byte(script), 0755))
	return exe
}

func TestChacoPartitioner(t *testing.T) {
	dir := t.TempDir()
	exe := writeFakeChaco(t, dir, fakeChaco)
	m := mesh.SquareMesh(2, 2)
	neighbors, nEdges, err := m.FindNeighbors()
	require.NoError(t, err)
	base := filepath.Join(dir, "square")

	cp := NewChacoPartitioner(exe, base)
	_, err = cp.Partition(context.Background(), m, neighbors, nEdges, 2)
	assert.Error(t, err, "graph file not written yet")

	require.NoError(t, chaco.WriteGraphFile(base, neighbors, nEdges))
	assignments, err := cp.Partition(context.Background(), m, neighbors, nEdges, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0, 1, 0, 1, 0, 1}, assignments)
}

func TestChacoPartitioner_BadOutput(t *testing.T) {
	dir := t.TempDir()
	// Writes one assignment too few
	exe := writeFakeChaco(t, dir, "#!/bin/sh\nread graph\nread assign\nprintf '0\\n1\\n' > \"$assign\"\n")
	m := mesh.SquareMesh(1, 2)
	neighbors, nEdges, err := m.FindNeighbors()
	require.NoError(t, err)
	base := filepath.Join(dir, "square")
	require.NoError(t, chaco.WriteGraphFile(base, neighbors, nEdges))
	_, err = NewChacoPartitioner(exe, base).Partition(context.Background(), m, neighbors, nEdges, 2)
	assert.True(t, errors.Is(err, utils.ErrInvalidAssignment))
}
