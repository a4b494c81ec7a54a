package partition

import (
	"github.com/notargets/gopart/mesh"
	"github.com/notargets/gopart/utils"
)

// Halo is the ghost region of one processor: nodes and elements that live on
// other processors but are needed to assemble its own elements. Both slices
// are ascending.
type Halo struct {
	Nodes []int
	Elems []int
}

// GetOffProcData computes the halo of processor p in three passes:
//  1. nodes of p's elements that are not on p
//  2. elements not on p incident on those nodes
//  3. nodes of those elements that are not on p
//
// The closure stops after the second expansion. Nodes added in pass 3 do not
// pull in more elements.
func GetOffProcData(m *mesh.Mesh, p int, elemAssignments []int, na *NodeAssignments) (halo Halo) {
	var (
		offNodes = make(mesh.IntSet)
		offElems = make(mesh.IntSet)
	)
	addOffNodes := func(e int) {
		for _, v := range m.ElemVerts(e) {
			if na.Proc(v) != p {
				offNodes.Add(v)
			}
		}
	}
	for e, q := range elemAssignments {
		if q == p {
			addOffNodes(e)
		}
	}
	for _, v := range offNodes.Sorted() {
		for _, e := range m.ElemsOfVert(v) {
			if elemAssignments[e] != p {
				offElems.Add(e)
			}
		}
	}
	for e := range offElems {
		addOffNodes(e)
	}
	halo.Nodes = offNodes.Sorted()
	halo.Elems = offElems.Sorted()
	return
}

// GetAllOffProcData computes the halo of every processor. Processors are split
// into contiguous blocks, one goroutine per block, all reading the same mesh
// and assignments.
func GetAllOffProcData(m *mesh.Mesh, nProc int, elemAssignments []int, na *NodeAssignments) (halos []Halo) {
	halos = make([]Halo, nProc)
	if nProc == 0 {
		return
	}
	pm := utils.NewPartitionMap(utils.ParallelDegree(0, nProc), nProc)
	pm.ForEachBucket(func(bn, pMin, pMax int) {
		for p := pMin; p < pMax; p++ {
			halos[p] = GetOffProcData(m, p, elemAssignments, na)
		}
	})
	return
}
