package mesh

import (
	"fmt"
	"sort"

	"github.com/james-bowman/sparse"

	"github.com/notargets/gopart/utils"
)

// FindNeighbors builds the element adjacency graph. Two elements are
// neighbors when they share exactly Dimension() vertices, i.e. a full face of
// a d-simplex. Sharing only a vertex or an edge of a tet does not count.
//
// Each neighbor list is returned ascending. The edge count is the total list
// length halved, since every edge is found from both of its ends.
func (m *Mesh) FindNeighbors() (neighbors [][]int, nEdges int, err error) {
	if m.dim < 1 {
		err = fmt.Errorf("mesh dimension must be set before finding neighbors: %w",
			utils.ErrInconsistentMesh)
		return
	}
	if err = m.checkArity(); err != nil {
		return
	}
	var (
		nElems = m.NumElems()
		total  int
	)
	neighbors = make([][]int, nElems)
	candidates := make(IntSet)
	for i := 0; i < nElems; i++ {
		clear(candidates)
		for _, v := range m.sortedVerts[i] {
			candidates.Union(m.vertToElem[v])
		}
		candidates.Remove(i)
		full := make([]int, 0, m.dim+1)
		for j := range candidates {
			if numCommon(m.sortedVerts[i], m.sortedVerts[j]) == m.dim {
				full = append(full, j)
			}
		}
		sort.Ints(full)
		neighbors[i] = full
		total += len(full)
	}
	if total%2 != 0 {
		err = fmt.Errorf("neighbor lists have odd total length %d, adjacency is not symmetric: %w",
			total, utils.ErrMalformedInput)
		return
	}
	nEdges = total / 2
	return
}

// numCommon counts the ids present in both ascending slices
func numCommon(a, b []int) (n int) {
	var i, j int
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			n++
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return
}

// AdjacencyCSR stores the neighbor lists as a symmetric nElems x nElems CSR
// matrix with unit entries. Its Indptr / Ind arrays are the xadj / adjncy
// arrays of a METIS graph.
func AdjacencyCSR(neighbors [][]int) *sparse.CSR {
	var (
		n      = len(neighbors)
		indptr = make([]int, n+1)
		ind    []int
		data   []float64
	)
	for i, nbrs := range neighbors {
		start := len(ind)
		for _, j := range nbrs {
			if j < 0 || j >= n || j == i {
				continue
			}
			ind = append(ind, j)
			data = append(data, 1)
		}
		sort.Ints(ind[start:])
		indptr[i+1] = len(ind)
	}
	return sparse.NewCSR(n, n, indptr, ind, data)
}

// IsSymmetric reports whether j is in the list of i exactly when i is in the
// list of j
func IsSymmetric(neighbors [][]int) bool {
	csr := AdjacencyCSR(neighbors)
	for i, nbrs := range neighbors {
		for _, j := range nbrs {
			if j < 0 || j >= len(neighbors) || csr.At(j, i) == 0 {
				return false
			}
		}
	}
	return true
}
