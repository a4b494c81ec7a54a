package partition

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze(t *testing.T) {
	m, assignments, na := stripMesh(t)
	neighbors, nEdges, err := m.FindNeighbors()
	require.NoError(t, err)
	require.Equal(t, 5, nEdges)

	ps := Analyze(neighbors, assignments, na, 2)
	assert.Equal(t, 1, ps.CutEdges)
	assert.Equal(t, map[[2]int]int{{0, 1}: 1}, ps.Interfaces)
	assert.Equal(t, 2, ps.Procs[0].NumElements)
	assert.Equal(t, 4, ps.Procs[1].NumElements)
	assert.Equal(t, 2, ps.Procs[0].NumNodes)
	assert.Equal(t, 6, ps.Procs[1].NumNodes)
	assert.Equal(t, map[int]int{1: 1}, ps.Procs[0].NumNeighbors)
	assert.Equal(t, 1, ps.Procs[0].Components)
	assert.Equal(t, 1, ps.Procs[1].Components)
	assert.Equal(t, 2, ps.MinLoad)
	assert.Equal(t, 4, ps.MaxLoad)
	assert.InDelta(t, 3.0, ps.LoadMean, 1e-12)
	assert.InDelta(t, math.Sqrt2, ps.LoadStdDev, 1e-12)
	assert.InDelta(t, 1.0/3.0, ps.Imbalance, 1e-12)
	ps.Report(true)
}

func TestAnalyze_SplitProcessor(t *testing.T) {
	m, _, _ := stripMesh(t)
	neighbors, _, err := m.FindNeighbors()
	require.NoError(t, err)
	assignments := []int{0, 1, 1, 0, 0, 0}
	ps := Analyze(neighbors, assignments, nil, 2)
	assert.Equal(t, 2, ps.Procs[0].Components)
	assert.Equal(t, 2, ps.Procs[1].Components)
	assert.Equal(t, 3, ps.CutEdges)
}

func TestAnalyze_EmptyProcessor(t *testing.T) {
	m, _, _ := stripMesh(t)
	neighbors, _, err := m.FindNeighbors()
	require.NoError(t, err)
	ps := Analyze(neighbors, make([]int, m.NumElems()), nil, 3)
	assert.Equal(t, 0, ps.CutEdges)
	assert.Equal(t, 0, ps.Procs[2].Components)
	assert.Equal(t, 0, ps.MinLoad)
	assert.InDelta(t, 2.0, ps.Imbalance, 1e-12)
}
