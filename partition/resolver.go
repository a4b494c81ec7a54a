// Package partition turns a per-element processor assignment into the
// per-processor view of a mesh: entity renumbering, node ownership, halo
// sets and the distributed output files.
package partition

import (
	"fmt"
	"sort"

	"github.com/notargets/gopart/mesh"
	"github.com/notargets/gopart/utils"
)

// CheckAssignments fails with ErrInvalidAssignment unless there are nProc >= 1
// processors and every rank is in [0, nProc)
func CheckAssignments(assignments []int, nProc int) error {
	if nProc < 1 {
		return fmt.Errorf("processor count %d: %w", nProc, utils.ErrInvalidAssignment)
	}
	for i, p := range assignments {
		if p < 0 || p >= nProc {
			return fmt.Errorf("entity %d assigned to processor %d, want [0,%d): %w",
				i, p, nProc, utils.ErrInvalidAssignment)
		}
	}
	return nil
}

// RemapEntities renumbers entities so that each processor's entities get a
// contiguous range of new ids, ranges ordered by rank and original order kept
// within a range. remap[oldId] is the new id.
func RemapEntities(assignments []int, nProc int) (remap []int, err error) {
	if err = CheckAssignments(assignments, nProc); err != nil {
		return
	}
	// Counting sort: offsets[p] is the first new id of processor p
	offsets := make([]int, nProc+1)
	for _, p := range assignments {
		offsets[p+1]++
	}
	for p := 0; p < nProc; p++ {
		offsets[p+1] += offsets[p]
	}
	remap = make([]int, len(assignments))
	for i, p := range assignments {
		remap[i] = offsets[p]
		offsets[p]++
	}
	return
}

// NodeAssignments holds the processor of every node of a mesh. A node is owned
// by its incident element with the largest id and lives on that element's
// processor. Slices are parallel to Nodes, which is ascending.
type NodeAssignments struct {
	Nodes   []int
	Procs   []int // Processor of Nodes[i]
	Owners  []int // Owner element of Nodes[i]
	PerProc []int // Number of nodes on each processor
}

// GetNodeAssignments resolves node ownership from the element assignments
func GetNodeAssignments(m *mesh.Mesh, nProc int, elemAssignments []int) (na *NodeAssignments, err error) {
	if len(elemAssignments) != m.NumElems() {
		return nil, fmt.Errorf("%d element assignments for %d elements: %w",
			len(elemAssignments), m.NumElems(), utils.ErrInvalidAssignment)
	}
	if err = CheckAssignments(elemAssignments, nProc); err != nil {
		return
	}
	nodes, owners := NodeOwners(m)
	na = &NodeAssignments{
		Nodes:   nodes,
		Procs:   make([]int, len(nodes)),
		Owners:  owners,
		PerProc: make([]int, nProc),
	}
	for i, owner := range owners {
		p := elemAssignments[owner]
		na.Procs[i] = p
		na.PerProc[p]++
	}
	return
}

// NodeOwners returns every node, ascending, with its owner element: the
// incident element with the largest id. Ownership does not depend on the
// partition.
func NodeOwners(m *mesh.Mesh) (nodes, owners []int) {
	nodes = m.Nodes()
	owners = make([]int, len(nodes))
	for i, v := range nodes {
		elems := m.ElemsOfVert(v)
		owners[i] = elems[len(elems)-1]
	}
	return
}

// Index returns the position of node v in Nodes, or -1
func (na *NodeAssignments) Index(v int) int {
	i := sort.SearchInts(na.Nodes, v)
	if i < len(na.Nodes) && na.Nodes[i] == v {
		return i
	}
	return -1
}

// Proc returns the processor of node v, or -1 for a vertex no element uses
func (na *NodeAssignments) Proc(v int) int {
	if i := na.Index(v); i >= 0 {
		return na.Procs[i]
	}
	return -1
}

// NodesOf returns the nodes on processor p, ascending
func (na *NodeAssignments) NodesOf(p int) (nodes []int) {
	nodes = make([]int, 0, na.PerProc[p])
	for i, v := range na.Nodes {
		if na.Procs[i] == p {
			nodes = append(nodes, v)
		}
	}
	return
}

// ElemsOf returns the elements assigned to processor p, ascending
func ElemsOf(elemAssignments []int, p int) (elems []int) {
	for e, q := range elemAssignments {
		if q == p {
			elems = append(elems, e)
		}
	}
	return
}
