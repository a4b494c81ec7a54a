package readfiles

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/gopart/mesh"
)

// NodeData holds the content of a Triangle .node file. Coordinates are kept
// both parsed and as the original text so partitioned node files reproduce
// the input digits exactly.
type NodeData struct {
	Dim        int
	NumAttr    int
	NumMarkers int
	Base       int // Id of the first node, 0 or 1
	Coords     [][]float64
	Text       []string // Coordinate fields of each node joined by a space
}

func (nd *NodeData) NumNodes() int { return len(nd.Coords) }

// ReadNodeFile reads a Triangle .node file:
//
//	<# of points> <dimension> <# of attributes> <# of boundary markers>
//	<point #> <x> <y> [attributes] [boundary marker]
func ReadNodeFile(filename string) (nd *NodeData, err error) {
	var file *os.File
	if file, err = os.Open(filename); err != nil {
		return
	}
	defer file.Close()
	return ParseNodes(filename, file)
}

func ParseNodes(name string, r io.Reader) (nd *NodeData, err error) {
	var (
		lr     = NewLineReader(name, r, "#")
		fields []string
		header []int
		ok     bool
	)
	if fields, ok, err = lr.Next(); err != nil {
		return
	} else if !ok {
		return nil, lr.Errorf("missing header")
	}
	if len(fields) != 4 {
		return nil, lr.Errorf("node header needs 4 fields, found %d", len(fields))
	}
	if header, err = lr.Ints(fields); err != nil {
		return
	}
	nPts := header[0]
	nd = &NodeData{
		Dim:        header[1],
		NumAttr:    header[2],
		NumMarkers: header[3],
		Coords:     make([][]float64, 0, max(nPts, 0)),
		Text:       make([]string, 0, max(nPts, 0)),
	}
	if nPts < 0 || nd.Dim < 1 || nd.NumAttr < 0 || nd.NumMarkers < 0 {
		return nil, lr.Errorf("invalid node header %v", header)
	}
	minFields := 1 + nd.Dim + nd.NumAttr + nd.NumMarkers
	for i := 0; i < nPts; i++ {
		if fields, ok, err = lr.Next(); err != nil {
			return nil, err
		} else if !ok {
			return nil, lr.Errorf("expected %d points, found %d", nPts, i)
		}
		if len(fields) < minFields {
			return nil, lr.Errorf("point line needs %d fields, found %d", minFields, len(fields))
		}
		var id int
		if id, err = strconv.Atoi(fields[0]); err != nil {
			return nil, lr.Errorf("point id %q is not an integer", fields[0])
		}
		if i == 0 {
			if id != 0 && id != 1 {
				return nil, lr.Errorf("first point id must be 0 or 1, found %d", id)
			}
			nd.Base = id
		}
		if id != nd.Base+i {
			return nil, lr.Errorf("point id %d out of sequence, expected %d", id, nd.Base+i)
		}
		coord := make([]float64, nd.Dim)
		for d := 0; d < nd.Dim; d++ {
			if coord[d], err = strconv.ParseFloat(fields[1+d], 64); err != nil {
				return nil, lr.Errorf("coordinate %q is not a number", fields[1+d])
			}
		}
		nd.Coords = append(nd.Coords, coord)
		nd.Text = append(nd.Text, strings.Join(fields[1:1+nd.Dim], " "))
	}
	return
}

// ReadEleFile reads a Triangle (or TetGen) .ele file into a mesh with no
// points:
//
//	<# of elements> <nodes per element> [<# of attributes>]
//	<element #> <node> <node> ... [attributes]
//
// The mesh dimension is nodes per element - 1. Ids are shifted by base so the
// mesh is 0-based. A negative base takes the base from the first element id.
func ReadEleFile(filename string, base int) (m *mesh.Mesh, err error) {
	var file *os.File
	if file, err = os.Open(filename); err != nil {
		return
	}
	defer file.Close()
	return ParseElements(filename, file, base)
}

func ParseElements(name string, r io.Reader, base int) (m *mesh.Mesh, err error) {
	var (
		lr     = NewLineReader(name, r, "#")
		fields []string
		header []int
		vals   []int
		ok     bool
	)
	if fields, ok, err = lr.Next(); err != nil {
		return
	} else if !ok {
		return nil, lr.Errorf("missing header")
	}
	if len(fields) < 2 || len(fields) > 3 {
		return nil, lr.Errorf("element header needs 2 or 3 fields, found %d", len(fields))
	}
	if header, err = lr.Ints(fields); err != nil {
		return
	}
	nElems, nVerts := header[0], header[1]
	if nElems < 0 || nVerts < 2 {
		return nil, lr.Errorf("invalid element header %v", header)
	}
	m = mesh.NewMesh(nVerts - 1)
	for i := 0; i < nElems; i++ {
		if fields, ok, err = lr.Next(); err != nil {
			return nil, err
		} else if !ok {
			return nil, lr.Errorf("expected %d elements, found %d", nElems, i)
		}
		if len(fields) < 1+nVerts {
			return nil, lr.Errorf("element line needs %d fields, found %d", 1+nVerts, len(fields))
		}
		if vals, err = lr.Ints(fields[:1+nVerts]); err != nil {
			return nil, err
		}
		if i == 0 && base < 0 {
			if vals[0] != 0 && vals[0] != 1 {
				return nil, lr.Errorf("first element id must be 0 or 1, found %d", vals[0])
			}
			base = vals[0]
		}
		if vals[0] != base+i {
			return nil, lr.Errorf("element id %d out of sequence, expected %d", vals[0], base+i)
		}
		verts := vals[1:]
		for j := range verts {
			verts[j] -= base
		}
		if err = m.AddElem(verts); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, lr.Line(), err)
		}
	}
	return
}

// ReadTriangleMesh reads basename.node and basename.ele and checks that they
// agree with each other
func ReadTriangleMesh(basename string) (m *mesh.Mesh, nd *NodeData, err error) {
	if nd, err = ReadNodeFile(basename + ".node"); err != nil {
		return
	}
	if m, err = ReadEleFile(basename+".ele", nd.Base); err != nil {
		return
	}
	for _, c := range nd.Coords {
		m.AddPoint(c)
	}
	if err = m.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", basename, err)
	}
	return
}

// WriteTriangleMesh writes m as 1-based basename.node and basename.ele files
// with no attributes or markers
func WriteTriangleMesh(basename string, m *mesh.Mesh) (err error) {
	if err = writeTo(basename+".node", func(w io.Writer) error {
		return WriteNodes(w, m)
	}); err != nil {
		return
	}
	return writeTo(basename+".ele", func(w io.Writer) error {
		return WriteElements(w, m)
	})
}

func WriteNodes(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d 0 0\n", m.NumPts(), m.Dimension())
	for i := 0; i < m.NumPts(); i++ {
		bw.WriteString(strconv.Itoa(i + 1))
		for _, x := range m.Point(i) {
			bw.WriteByte(' ')
			bw.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func WriteElements(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d 0\n", m.NumElems(), m.Dimension()+1)
	for e := 0; e < m.NumElems(); e++ {
		bw.WriteString(strconv.Itoa(e + 1))
		for _, v := range m.ElemVerts(e) {
			bw.WriteByte(' ')
			bw.WriteString(strconv.Itoa(v + 1))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func writeTo(filename string, write func(w io.Writer) error) (err error) {
	var file *os.File
	if file, err = os.Create(filename); err != nil {
		return
	}
	if err = write(file); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	return file.Close()
}
