package utils

import (
	"image/color"

	"github.com/notargets/avs/chart2d"
	"github.com/notargets/avs/functions"
	graphics2D "github.com/notargets/avs/geometry"
	utils2 "github.com/notargets/avs/utils"
)

type ColorName uint8

const (
	White ColorName = iota
	Blue
	Red
	Green
	Black
)

func GetColor(name ColorName) (c color.RGBA) {
	switch name {
	case White:
		c = color.RGBA{
			R: 255,
			G: 255,
			B: 255,
			A: 0,
		}
	case Blue:
		c = color.RGBA{
			R: 50,
			G: 0,
			B: 255,
			A: 0,
		}
	case Red:
		c = color.RGBA{
			R: 255,
			G: 0,
			B: 50,
			A: 0,
		}
	case Green:
		c = color.RGBA{
			R: 25,
			G: 255,
			B: 25,
			A: 0,
		}
	case Black:
		c = color.RGBA{
			R: 0,
			G: 0,
			B: 0,
			A: 0,
		}
	}
	return
}

type SurfacePlot struct {
	Chart        *chart2d.Chart2D
	ColorMap     *utils2.ColorMap
	GraphicsMesh *graphics2D.TriMesh
}

func NewSurfacePlot(width, height int, xmin, xmax, ymin, ymax float64,
	gm *graphics2D.TriMesh) (sp *SurfacePlot) {
	sp = &SurfacePlot{
		Chart:        chart2d.NewChart2D(width, height, float32(xmin), float32(xmax), float32(ymin), float32(ymax)),
		GraphicsMesh: gm,
	}
	go sp.Chart.Plot()
	return
}

func (sp *SurfacePlot) AddColorMap(fmin, fmax float64) {
	sp.ColorMap = utils2.NewColorMap(float32(fmin), float32(fmax), 1.)
	sp.Chart.AddColorMap(sp.ColorMap)
}

// AddFunctionSurface shades the mesh by a field holding one value per
// geometry point
func (sp *SurfacePlot) AddFunctionSurface(name string, field []float32) error {
	fs := functions.NewFSurface(sp.GraphicsMesh, [][]float32{field}, 0)
	return sp.Chart.AddFunctionSurface(name, *fs, chart2d.NoLine, GetColor(White))
}

// AddMeshLines draws the element edges over the surface
func (sp *SurfacePlot) AddMeshLines(name string, lineColor ColorName) error {
	return sp.Chart.AddTriMesh(name, *sp.GraphicsMesh,
		chart2d.NoGlyph, chart2d.Solid, GetColor(lineColor))
}
