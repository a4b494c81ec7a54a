package chaco

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gopart/mesh"
	"github.com/notargets/gopart/utils"
)

func TestWriteGraph_TwoTriangles(t *testing.T) {
	m := mesh.TwoTriangleMesh()
	neighbors, nEdges, err := m.FindNeighbors()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WriteGraph(&buf, neighbors, nEdges))
	assert.Equal(t, "2 1\n2 \n1 \n", buf.String())
}

func TestGraph_RoundTrip(t *testing.T) {
	m := mesh.SquareMesh(4, 3)
	neighbors, nEdges, err := m.FindNeighbors()
	require.NoError(t, err)

	dir := t.TempDir()
	base := filepath.Join(dir, "square")
	require.NoError(t, WriteGraphFile(base, neighbors, nEdges))
	readBack, nEdgesBack, err := ReadGraphFile(base)
	require.NoError(t, err)
	assert.Equal(t, nEdges, nEdgesBack)
	require.Len(t, readBack, len(neighbors))
	for i := range neighbors {
		assert.ElementsMatch(t, neighbors[i], readBack[i], "element %d", i)
	}
}

func TestReadGraph(t *testing.T) {
	// Comments, an isolated element and trailing spaces
	graph := "% made by hand\n3 1\n2   \n1\n\n"
	neighbors, nEdges, err := ReadGraph("g.graph", strings.NewReader(graph))
	require.NoError(t, err)
	assert.Equal(t, 1, nEdges)
	assert.Equal(t, [][]int{{1}, {0}, {}}, neighbors)

	tests := []struct {
		name, graph, msg string
	}{
		{"odd count", "2 2\n2\n1\n", "hold 2 entries"},
		{"range", "2 1\n3\n1\n", "out of range"},
		{"text", "2 1\nx\n1\n", "not an integer"},
		{"short", "3 1\n2\n1\n", "expected 3 element lines"},
		{"long", "1 0\n\n1\n", "more than 1"},
		{"weights", "2 1 11\n2\n1\n", "not supported"},
		{"empty", "", "missing header"},
	}
	for _, tt := range tests {
		_, _, err := ReadGraph("bad.graph", strings.NewReader(tt.graph))
		require.Error(t, err, tt.name)
		assert.True(t, errors.Is(err, utils.ErrMalformedInput), tt.name)
		assert.Contains(t, err.Error(), tt.msg, tt.name)
	}
}

func TestReadAssignments(t *testing.T) {
	assignments, err := ReadAssignments("a.assign", strings.NewReader("# chaco output\n1\n0\n#\n 1 \n0\n"))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 1, 0}, assignments)

	// Blank lines are errors, a # after the number is not a comment
	_, err = ReadAssignments("a.assign", strings.NewReader("1\n\n0\n"))
	assert.True(t, errors.Is(err, utils.ErrMalformedInput))
	assert.Contains(t, err.Error(), "a.assign:2")
	_, err = ReadAssignments("a.assign", strings.NewReader("1 # first\n"))
	assert.True(t, errors.Is(err, utils.ErrMalformedInput))

	_, err = ReadAssignments("a.assign", strings.NewReader("1\n0.5\n"))
	assert.True(t, errors.Is(err, utils.ErrMalformedInput))
	assert.Contains(t, err.Error(), "a.assign:2")

	_, err = ReadAssignments("a.assign", strings.NewReader("1 2\n"))
	assert.True(t, errors.Is(err, utils.ErrMalformedInput))

	_, err = ReadAssignments("a.assign", strings.NewReader("-1\n"))
	assert.True(t, errors.Is(err, utils.ErrMalformedInput))

	dir := t.TempDir()
	base := filepath.Join(dir, "mesh")
	require.NoError(t, WriteAssignFile(base, []int{2, 0, 1}))
	assignments, err = ReadAssignFile(base)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 1}, assignments)
}

func TestWritePartition(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePartition(&buf, []int{1, 0, 1, 0}, 2))
	assert.Equal(t, "4 2\n0 1\n1 0\n2 1\n3 0\n", buf.String())
}

func TestOwners(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOwners(&buf, []int{0, 1, 2, 3}, []int{0, 1, 1, 1}))
	assert.Equal(t, "4\n0 0\n1 1\n2 1\n3 1\n", buf.String())
	nodes, owners, err := ReadOwners("o.owner", strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, nodes)
	assert.Equal(t, []int{0, 1, 1, 1}, owners)

	assert.Error(t, WriteOwners(&buf, []int{0}, nil))
	_, _, err = ReadOwners("o.owner", strings.NewReader("2\n0 0\n"))
	assert.True(t, errors.Is(err, utils.ErrMalformedInput))
}

func TestControlFiles(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteParams(&buf))
	assert.Equal(t, `OUTPUT_ASSIGN=true
PROMPT=false
ARCHITECTURE=1
REFINE_PARTITION=4
INTERNAL_VERTICES=true
MATCH_TYPE=4
COARSE_NLEVEL_KL=1
CUT_TO_HOP_COST=1.0
`, buf.String())
	buf.Reset()
	require.NoError(t, WriteInput(&buf, "wing", 8))
	assert.Equal(t, "wing.graph\nwing.assign\n1\n400\n8\n1\nn\n", buf.String())
}

// fakeChaco answers the stdin script and assigns element i to i % nSets
const fakeChaco = `#!/bin/sh
read graph
read assign
read method
read target
read nsets
read divider
read again
test -f User_Params || exit 4
n=$(head -n 1 "$graph" | cut -d' ' -f1)
i=0
: > "$assign"
while [ $i -lt $n ]; do
  echo $((i % nsets)) >> "$assign"
  i=$((i+1))
done
`

func TestRunner(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "chaco")
	require.NoError(t, os.WriteFile(exe, []byte(fakeChaco), 0755))

	m := mesh.SquareMesh(2, 2)
	neighbors, nEdges, err := m.FindNeighbors()
	require.NoError(t, err)
	base := filepath.Join(dir, "square")
	require.NoError(t, WriteGraphFile(base, neighbors, nEdges))

	r := NewRunner(exe)
	assignments, err := r.Run(context.Background(), base, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 0, 1, 2, 0, 1}, assignments)
	_, err = os.Stat(filepath.Join(dir, ParamsFile))
	assert.NoError(t, err)
	input, err := os.ReadFile(filepath.Join(dir, InputFile))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(input), "square.graph\nsquare.assign\n"))
}

func TestRunner_Failures(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "square")
	require.NoError(t, WriteGraphFile(base, [][]int{{1}, {0}}, 1))

	broken := filepath.Join(dir, "broken")
	require.NoError(t, os.WriteFile(broken, []byte("#!/bin/sh\nexit 2\n"), 0755))
	_, err := NewRunner(broken).Run(context.Background(), base, 2)
	assert.True(t, errors.Is(err, utils.ErrExternalTool))

	silent := filepath.Join(dir, "silent")
	require.NoError(t, os.WriteFile(silent, []byte("#!/bin/sh\ncat > /dev/null\n"), 0755))
	// An assignment left from an earlier run is not taken as output
	require.NoError(t, WriteAssignFile(base, []int{0, 1}))
	_, err = NewRunner(silent).Run(context.Background(), base, 2)
	assert.True(t, errors.Is(err, utils.ErrExternalTool))
	assert.Contains(t, err.Error(), "without writing")
}
