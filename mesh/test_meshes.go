package mesh

// Small meshes with known connectivity, shared by the tests of several
// packages.

// TwoTriangleMesh is two triangles sharing the edge (1,2)
//
//	3-----2
//	| \ 1 |
//	|  \  |
//	| 0 \ |
//	0-----1
func TwoTriangleMesh() *Mesh {
	m := NewMesh(2)
	for _, pt := range [][]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}} {
		m.AddPoint(pt)
	}
	mustAdd(m, []int{0, 1, 2})
	mustAdd(m, []int{1, 2, 3})
	return m
}

// SquareMesh triangulates the unit square with nx by ny cells, each cell split
// along its diagonal into two triangles. Points are numbered row by row.
func SquareMesh(nx, ny int) *Mesh {
	m := NewMesh(2)
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			m.AddPoint([]float64{float64(i) / float64(nx), float64(j) / float64(ny)})
		}
	}
	id := func(i, j int) int { return i + j*(nx+1) }
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			mustAdd(m, []int{id(i, j), id(i+1, j), id(i+1, j+1)})
			mustAdd(m, []int{id(i, j), id(i+1, j+1), id(i, j+1)})
		}
	}
	return m
}

// TwoTetMesh is two tets sharing the face (1,2,3)
func TwoTetMesh() *Mesh {
	m := NewMesh(3)
	for _, pt := range [][]float64{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 1, 1},
	} {
		m.AddPoint(pt)
	}
	mustAdd(m, []int{0, 1, 2, 3})
	mustAdd(m, []int{1, 2, 3, 4})
	return m
}

func mustAdd(m *Mesh, verts []int) {
	if err := m.AddElem(verts); err != nil {
		panic(err)
	}
}
