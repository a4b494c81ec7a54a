package readfiles

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/notargets/gopart/mesh"
)

// ReadMeshFile reads a mesh based on its extension. Gambit neutral (.neu),
// SU2 (.su2) and Gmsh (.msh) files are read directly, anything else is taken
// as the base name of a Triangle .node / .ele pair.
func ReadMeshFile(filename string) (*mesh.Mesh, *NodeData, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".neu":
		return ReadGambitNeutral(filename)
	case ".su2":
		return ReadSU2(filename)
	case ".msh":
		return ReadGmsh(filename)
	case ".node", ".ele":
		return ReadTriangleMesh(strings.TrimSuffix(filename, filepath.Ext(filename)))
	default:
		return ReadTriangleMesh(filename)
	}
}

// ReadGambitNeutral reads the nodes and the triangle or tet cells of a
// Gambit neutral file. Element groups and boundary sets are skipped.
func ReadGambitNeutral(filename string) (m *mesh.Mesh, nd *NodeData, err error) {
	var file *os.File
	if file, err = os.Open(filename); err != nil {
		return
	}
	defer file.Close()
	return ParseGambitNeutral(filename, file)
}

// Gambit NTYPE codes of the simplex cells
const (
	gambitTri = 3
	gambitTet = 6
)

func ParseGambitNeutral(name string, r io.Reader) (m *mesh.Mesh, nd *NodeData, err error) {
	var (
		lr            = NewLineReader(name, r, "")
		fields        []string
		ok            bool
		numnp, nelem  int
		ndfcd         int
		nodesRead     bool
		elementsRead  bool
		header        []int
		verts, values []int
	)
	for {
		if fields, ok, err = lr.Next(); err != nil {
			return
		} else if !ok {
			break
		}
		line := strings.Join(fields, " ")
		switch {
		case strings.Contains(line, "NUMNP") && strings.Contains(line, "NELEM"):
			if fields, ok, err = lr.Next(); err != nil {
				return
			} else if !ok || len(fields) < 5 {
				return nil, nil, lr.Errorf("control info needs NUMNP NELEM NGRPS NBSETS NDFCD")
			}
			if header, err = lr.Ints(fields[:5]); err != nil {
				return
			}
			numnp, nelem, ndfcd = header[0], header[1], header[4]
			if numnp < 0 || nelem < 0 || ndfcd < 2 || ndfcd > 3 {
				return nil, nil, lr.Errorf("invalid control info %v", header)
			}

		case strings.HasPrefix(line, "NODAL COORDINATES"):
			nd = &NodeData{
				Dim:    ndfcd,
				Base:   1,
				Coords: make([][]float64, numnp),
				Text:   make([]string, numnp),
			}
			for i := 0; i < numnp; i++ {
				if fields, ok, err = lr.Next(); err != nil {
					return
				} else if !ok || len(fields) < 1+ndfcd {
					return nil, nil, lr.Errorf("node line needs %d fields", 1+ndfcd)
				}
				var id int
				if id, err = strconv.Atoi(fields[0]); err != nil || id < 1 || id > numnp {
					return nil, nil, lr.Errorf("node id %q out of range [1,%d]", fields[0], numnp)
				}
				coord := make([]float64, ndfcd)
				for d := range coord {
					if coord[d], err = strconv.ParseFloat(fields[1+d], 64); err != nil {
						return nil, nil, lr.Errorf("coordinate %q is not a number", fields[1+d])
					}
				}
				nd.Coords[id-1] = coord
				nd.Text[id-1] = strings.Join(fields[1:1+ndfcd], " ")
			}
			nodesRead = true

		case strings.HasPrefix(line, "ELEMENTS/CELLS"):
			m = mesh.NewMesh(0)
			for i := 0; i < nelem; i++ {
				if fields, ok, err = lr.Next(); err != nil {
					return
				} else if !ok || len(fields) < 3 {
					return nil, nil, lr.Errorf("element line needs NE NTYPE NDP")
				}
				if values, err = lr.Ints(fields); err != nil {
					return
				}
				var dim int
				switch values[1] {
				case gambitTri:
					dim = 2
				case gambitTet:
					dim = 3
				default:
					return nil, nil, lr.Errorf("element type %d is not a triangle or tetrahedron", values[1])
				}
				if m.Dimension() == 0 {
					m.SetDimension(dim)
				} else if m.Dimension() != dim {
					return nil, nil, lr.Errorf("mixed triangle and tetrahedron cells")
				}
				if values[2] != dim+1 || len(values) < 3+dim+1 {
					return nil, nil, lr.Errorf("element %d needs %d nodes", values[0], dim+1)
				}
				verts = values[3 : 3+dim+1]
				for j := range verts {
					verts[j]--
				}
				if err = m.AddElem(verts); err != nil {
					return nil, nil, fmt.Errorf("%s:%d: %w", name, lr.Line(), err)
				}
			}
			elementsRead = true
		}
		if nodesRead && elementsRead {
			break
		}
	}
	if !nodesRead || !elementsRead {
		return nil, nil, lr.Errorf("missing NODAL COORDINATES or ELEMENTS/CELLS section")
	}
	for i, c := range nd.Coords {
		if c == nil {
			return nil, nil, lr.Errorf("node %d not defined", i+1)
		}
		m.AddPoint(c)
	}
	if err = m.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", name, err)
	}
	return
}
