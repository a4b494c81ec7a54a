package mesh

import (
	"fmt"
	"math/rand"

	"github.com/pradeep-pyro/triangle"

	"github.com/notargets/gopart/utils"
)

// GenerateRectangle builds a Delaunay triangulation of an (nx+1) by (ny+1)
// lattice of points on [0,xmax] x [0,ymax]. Interior points are moved by up to
// jitter times the lattice spacing, using a generator seeded with seed, so
// the triangulation is not a regular pattern.
func GenerateRectangle(nx, ny int, xmax, ymax, jitter float64, seed int64) (m *Mesh, err error) {
	if nx < 1 || ny < 1 || xmax <= 0 || ymax <= 0 {
		return nil, fmt.Errorf("invalid rectangle %dx%d cells on [0,%g]x[0,%g]: %w",
			nx, ny, xmax, ymax, utils.ErrMalformedInput)
	}
	if jitter < 0 || jitter >= 0.5 {
		return nil, fmt.Errorf("jitter %g must be in [0,0.5): %w", jitter, utils.ErrMalformedInput)
	}
	var (
		rng    = rand.New(rand.NewSource(seed))
		dx, dy = xmax / float64(nx), ymax / float64(ny)
		pts    = make([][2]float64, 0, (nx+1)*(ny+1))
	)
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			x, y := float64(i)*dx, float64(j)*dy
			if i > 0 && i < nx && j > 0 && j < ny {
				x += (2*rng.Float64() - 1) * jitter * dx
				y += (2*rng.Float64() - 1) * jitter * dy
			}
			pts = append(pts, [2]float64{x, y})
		}
	}
	tris := triangle.Delaunay(pts)
	m = NewMesh(2)
	for _, pt := range pts {
		m.AddPoint([]float64{pt[0], pt[1]})
	}
	for _, tri := range tris {
		if err = m.AddElem([]int{int(tri[0]), int(tri[1]), int(tri[2])}); err != nil {
			return nil, err
		}
	}
	if err = m.Validate(); err != nil {
		return nil, err
	}
	return
}
