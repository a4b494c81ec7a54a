package mesh

import (
	"fmt"
	"sort"

	"github.com/notargets/gopart/utils"
)

// IntSet is an unordered set of entity ids
type IntSet map[int]struct{}

func (s IntSet) Add(i int)    { s[i] = struct{}{} }
func (s IntSet) Remove(i int) { delete(s, i) }

func (s IntSet) Has(i int) bool {
	_, ok := s[i]
	return ok
}

func (s IntSet) Union(other IntSet) {
	for i := range other {
		s[i] = struct{}{}
	}
}

// Sorted returns the members of the set in ascending order
func (s IntSet) Sorted() (ids []int) {
	ids = make([]int, 0, len(s))
	for i := range s {
		ids = append(ids, i)
	}
	sort.Ints(ids)
	return
}

// Mesh is a simplex mesh built by sequential AddPoint / AddElem calls.
// Points and elements are identified by their insertion index. The vertex to
// element incidence map is only mutated by AddElem, everything derived from
// the mesh treats it as read-only.
type Mesh struct {
	pts         [][]float64
	elemVerts   [][]int // Element to vertex connectivity, as given
	sortedVerts [][]int // Same, ascending, used for face intersection
	vertToElem  map[int]IntSet
	maxVert     int
	dim         int
}

// NewMesh creates an empty mesh of topological dimension dim. A dimension of
// zero means "not yet known", see SetDimension.
func NewMesh(dim int) *Mesh {
	return &Mesh{
		vertToElem: make(map[int]IntSet),
		maxVert:    -1,
		dim:        dim,
	}
}

func (m *Mesh) SetDimension(d int) { m.dim = d }
func (m *Mesh) Dimension() int     { return m.dim }
func (m *Mesh) NumPts() int        { return len(m.pts) }
func (m *Mesh) NumElems() int      { return len(m.elemVerts) }

// AddPoint appends a point, its local id is the previous NumPts()
func (m *Mesh) AddPoint(coord []float64) {
	pt := make([]float64, len(coord))
	copy(pt, coord)
	m.pts = append(m.pts, pt)
}

// AddElem appends an element and records it in the incidence map of each of
// its vertices. Upper bounds on vertex ids are not checked here because the
// points may be loaded after the elements, Validate does that.
func (m *Mesh) AddElem(verts []int) error {
	lid := len(m.elemVerts)
	if m.dim > 0 && len(verts) != m.dim+1 {
		return fmt.Errorf("element %d has %d vertices, a %d-simplex needs %d: %w",
			lid, len(verts), m.dim, m.dim+1, utils.ErrInconsistentMesh)
	}
	sorted := make([]int, len(verts))
	copy(sorted, verts)
	sort.Ints(sorted)
	for i, v := range sorted {
		if v < 0 {
			return fmt.Errorf("element %d references negative vertex %d: %w",
				lid, v, utils.ErrInconsistentMesh)
		}
		if i > 0 && sorted[i-1] == v {
			return fmt.Errorf("element %d repeats vertex %d: %w",
				lid, v, utils.ErrInconsistentMesh)
		}
	}
	ev := make([]int, len(verts))
	copy(ev, verts)
	m.elemVerts = append(m.elemVerts, ev)
	m.sortedVerts = append(m.sortedVerts, sorted)
	for _, v := range verts {
		if _, ok := m.vertToElem[v]; !ok {
			m.vertToElem[v] = make(IntSet)
		}
		m.vertToElem[v].Add(lid)
		if v > m.maxVert {
			m.maxVert = v
		}
	}
	return nil
}

// Point returns the coordinates of point i
func (m *Mesh) Point(i int) []float64 { return m.pts[i] }

// ElemVerts returns the vertex ids of element e in the order they were added
func (m *Mesh) ElemVerts(e int) []int { return m.elemVerts[e] }

// ElemsOfVert returns the ids of the elements incident on vertex v, ascending
func (m *Mesh) ElemsOfVert(v int) []int {
	set, ok := m.vertToElem[v]
	if !ok {
		return nil
	}
	return set.Sorted()
}

// Nodes returns the vertex ids referenced by at least one element, ascending
func (m *Mesh) Nodes() (nodes []int) {
	nodes = make([]int, 0, len(m.vertToElem))
	for v := range m.vertToElem {
		nodes = append(nodes, v)
	}
	sort.Ints(nodes)
	return
}

// NumNodes is the number of distinct vertices referenced by elements
func (m *Mesh) NumNodes() int { return len(m.vertToElem) }

// Validate checks the element connectivity against the point set. Every
// referenced vertex must be a point, and every point must be referenced.
func (m *Mesh) Validate() error {
	if m.dim < 1 {
		return fmt.Errorf("mesh dimension not set: %w", utils.ErrInconsistentMesh)
	}
	if err := m.checkArity(); err != nil {
		return err
	}
	if m.maxVert >= len(m.pts) {
		return fmt.Errorf("elements reference vertex %d but only %d points are defined: %w",
			m.maxVert, len(m.pts), utils.ErrInconsistentMesh)
	}
	if len(m.vertToElem) != len(m.pts) {
		for i := range m.pts {
			if _, ok := m.vertToElem[i]; !ok {
				return fmt.Errorf("point %d is not referenced by any element: %w",
					i, utils.ErrInconsistentMesh)
			}
		}
	}
	return nil
}

// checkArity catches elements added before the dimension was known
func (m *Mesh) checkArity() error {
	for e, verts := range m.sortedVerts {
		if len(verts) != m.dim+1 {
			return fmt.Errorf("element %d has %d vertices, a %d-simplex needs %d: %w",
				e, len(verts), m.dim, m.dim+1, utils.ErrInconsistentMesh)
		}
	}
	return nil
}
