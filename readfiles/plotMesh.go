package readfiles

import (
	"fmt"

	graphics2D "github.com/notargets/avs/geometry"

	"github.com/notargets/gopart/mesh"
	"github.com/notargets/gopart/utils"
)

// PlotPartition opens a chart of a 2D triangle mesh shaded by processor. Each
// point takes the processor of its owner element, the incident element with
// the largest id. The chart runs in its own goroutine, the caller keeps the
// process alive while it is displayed.
func PlotPartition(m *mesh.Mesh, assignments []int, nProc int) (sp *utils.SurfacePlot, err error) {
	var (
		trimesh graphics2D.TriMesh
		field   []float32
	)
	if trimesh, field, err = partitionTriMesh(m, assignments); err != nil {
		return
	}
	box := graphics2D.NewBoundingBox(trimesh.GetGeometry())
	box = box.Scale(1.5)
	sp = utils.NewSurfacePlot(1920, 1920,
		float64(box.XMin[0]), float64(box.XMax[0]), float64(box.XMin[1]), float64(box.XMax[1]),
		&trimesh)
	sp.AddColorMap(0, float64(max(nProc-1, 1)))
	if err = sp.AddFunctionSurface("Processors", field); err != nil {
		return nil, fmt.Errorf("unable to add processor field to chart: %w", err)
	}
	if err = sp.AddMeshLines("TriMesh", utils.Black); err != nil {
		return nil, fmt.Errorf("unable to add mesh to chart: %w", err)
	}
	return
}

// partitionTriMesh converts the mesh to chart geometry with the processor of
// each point as the field. Triangle attributes hold the element's processor.
func partitionTriMesh(m *mesh.Mesh, assignments []int) (trimesh graphics2D.TriMesh, field []float32, err error) {
	K := m.NumElems()
	if m.Dimension() != 2 {
		err = fmt.Errorf("can only plot triangle meshes, mesh dimension is %d", m.Dimension())
		return
	}
	if len(assignments) != K {
		err = fmt.Errorf("have %d assignments for %d elements", len(assignments), K)
		return
	}
	points := make([]graphics2D.Point, m.NumPts())
	field = make([]float32, m.NumPts())
	for i := range points {
		pt := m.Point(i)
		points[i].X[0] = float32(pt[0])
		points[i].X[1] = float32(pt[1])
		if elems := m.ElemsOfVert(i); len(elems) != 0 {
			field[i] = float32(assignments[elems[len(elems)-1]])
		}
	}
	trimesh.Triangles = make([]graphics2D.Triangle, K)
	trimesh.Attributes = make([][]float32, K)
	for k := 0; k < K; k++ {
		verts := m.ElemVerts(k)
		trimesh.Attributes[k] = make([]float32, 3)
		for i := 0; i < 3; i++ {
			trimesh.Triangles[k].Nodes[i] = int32(verts[i])
			trimesh.Attributes[k][i] = float32(assignments[k])
		}
	}
	trimesh.Geometry = points
	return
}
