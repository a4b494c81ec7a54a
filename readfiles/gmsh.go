package readfiles

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/gopart/mesh"
	"github.com/notargets/gopart/utils"
)

// Gmsh element types this reader knows. Only the simplex cells of the
// highest dimension present become mesh elements, the rest (points, lines,
// boundary triangles of a tet mesh) are dropped.
var gmshTypes = map[int]struct {
	dim, nodes int
	simplex    bool
}{
	15: {0, 1, true},  // point
	1:  {1, 2, true},  // line
	2:  {2, 3, true},  // triangle
	3:  {2, 4, false}, // quadrangle
	4:  {3, 4, true},  // tetrahedron
	5:  {3, 8, false}, // hexahedron
	6:  {3, 6, false}, // prism
	7:  {3, 5, false}, // pyramid
}

type gmshCell struct {
	elemType int
	tags     []int // node tags
	line     int
}

type gmshReader struct {
	lr       *LineReader
	version  int // major version, 2 or 4
	nodeTags []int
	coords   [][]string // x y z text of each node, in file order
	cells    []gmshCell
}

// ReadGmsh reads an ASCII Gmsh .msh file, format 2.2 or 4.1
func ReadGmsh(filename string) (m *mesh.Mesh, nd *NodeData, err error) {
	var file *os.File
	if file, err = os.Open(filename); err != nil {
		return
	}
	defer file.Close()
	return ParseGmsh(filename, file)
}

// ParseGmsh reads the $MeshFormat, $Nodes and $Elements sections. Nodes are
// numbered in the order they appear, whatever their tags. The mesh dimension
// is that of the highest dimensional cells, which must be triangles or
// tetrahedra.
func ParseGmsh(name string, r io.Reader) (m *mesh.Mesh, nd *NodeData, err error) {
	gr := &gmshReader{lr: NewLineReader(name, r, "")}
	var (
		fields []string
		ok     bool
	)
	for {
		if fields, ok, err = gr.lr.Next(); err != nil {
			return
		} else if !ok {
			break
		}
		if len(fields) != 1 || !strings.HasPrefix(fields[0], "$") {
			return nil, nil, gr.lr.Errorf("expected a section start, found %q", strings.Join(fields, " "))
		}
		section := fields[0][1:]
		switch section {
		case "MeshFormat":
			err = gr.readFormat()
		case "Nodes":
			err = gr.readNodes()
		case "Elements":
			err = gr.readElements()
		default:
			if err = gr.skipTo("$End" + section); err != nil {
				return nil, nil, err
			}
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		if err = gr.skipTo("$End" + section); err != nil {
			return nil, nil, err
		}
	}
	return gr.build()
}

// next returns the next line, failing at end of file
func (gr *gmshReader) next() (fields []string, err error) {
	var ok bool
	if fields, ok, err = gr.lr.Next(); err != nil {
		return
	} else if !ok {
		return nil, gr.lr.Errorf("unexpected end of file")
	}
	return
}

func (gr *gmshReader) nextInts(min int) (vals []int, err error) {
	var fields []string
	if fields, err = gr.next(); err != nil {
		return
	}
	if len(fields) < min {
		return nil, gr.lr.Errorf("expected at least %d integers, found %d fields", min, len(fields))
	}
	return gr.lr.Ints(fields)
}

func (gr *gmshReader) skipTo(end string) error {
	for {
		fields, err := gr.next()
		if err != nil {
			return err
		}
		if len(fields) == 1 && fields[0] == end {
			return nil
		}
	}
}

func (gr *gmshReader) readFormat() error {
	fields, err := gr.next()
	if err != nil {
		return err
	}
	if len(fields) < 3 {
		return gr.lr.Errorf("format line needs version, file type and data size")
	}
	if fields[1] != "0" {
		return gr.lr.Errorf("binary Gmsh files are not supported")
	}
	switch {
	case strings.HasPrefix(fields[0], "2."):
		gr.version = 2
	case strings.HasPrefix(fields[0], "4."):
		gr.version = 4
	default:
		return gr.lr.Errorf("unsupported Gmsh format version %s", fields[0])
	}
	return nil
}

func (gr *gmshReader) addNode(tag int, fields []string) error {
	if len(fields) < 3 {
		return gr.lr.Errorf("node %d needs x y z", tag)
	}
	for _, f := range fields[:3] {
		if _, err := strconv.ParseFloat(f, 64); err != nil {
			return gr.lr.Errorf("coordinate %q is not a number", f)
		}
	}
	gr.nodeTags = append(gr.nodeTags, tag)
	gr.coords = append(gr.coords, fields[:3])
	return nil
}

func (gr *gmshReader) readNodes() error {
	if gr.version == 0 {
		return gr.lr.Errorf("$Nodes before $MeshFormat")
	}
	if gr.version == 2 {
		header, err := gr.nextInts(1)
		if err != nil {
			return err
		}
		for i := 0; i < header[0]; i++ {
			fields, err := gr.next()
			if err != nil {
				return err
			}
			tag, err := strconv.Atoi(fields[0])
			if err != nil {
				return gr.lr.Errorf("node tag %q is not an integer", fields[0])
			}
			if err = gr.addNode(tag, fields[1:]); err != nil {
				return err
			}
		}
		return nil
	}
	// numEntityBlocks numNodes minNodeTag maxNodeTag
	header, err := gr.nextInts(4)
	if err != nil {
		return err
	}
	for b := 0; b < header[0]; b++ {
		// entityDim entityTag parametric numNodesInBlock
		block, err := gr.nextInts(4)
		if err != nil {
			return err
		}
		tags := make([]int, block[3])
		for j := range tags {
			vals, err := gr.nextInts(1)
			if err != nil {
				return err
			}
			tags[j] = vals[0]
		}
		for _, tag := range tags {
			fields, err := gr.next()
			if err != nil {
				return err
			}
			if err = gr.addNode(tag, fields); err != nil {
				return err
			}
		}
	}
	return nil
}

func (gr *gmshReader) readElements() error {
	if gr.version == 0 {
		return gr.lr.Errorf("$Elements before $MeshFormat")
	}
	if gr.version == 2 {
		header, err := gr.nextInts(1)
		if err != nil {
			return err
		}
		for i := 0; i < header[0]; i++ {
			// elm-number elm-type number-of-tags <tags> node-number-list
			vals, err := gr.nextInts(3)
			if err != nil {
				return err
			}
			start := 3 + vals[2]
			if start > len(vals) {
				return gr.lr.Errorf("element %d has %d tags but the line is too short", vals[0], vals[2])
			}
			if err = gr.addCell(vals[1], vals[start:]); err != nil {
				return err
			}
		}
		return nil
	}
	// numEntityBlocks numElements minElementTag maxElementTag
	header, err := gr.nextInts(4)
	if err != nil {
		return err
	}
	for b := 0; b < header[0]; b++ {
		// entityDim entityTag elementType numElementsInBlock
		block, err := gr.nextInts(4)
		if err != nil {
			return err
		}
		for j := 0; j < block[3]; j++ {
			vals, err := gr.nextInts(2)
			if err != nil {
				return err
			}
			if err = gr.addCell(block[2], vals[1:]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (gr *gmshReader) addCell(elemType int, tags []int) error {
	info, known := gmshTypes[elemType]
	if !known {
		return gr.lr.Errorf("element type %d is not supported", elemType)
	}
	if len(tags) != info.nodes {
		return gr.lr.Errorf("element type %d needs %d nodes, found %d", elemType, info.nodes, len(tags))
	}
	gr.cells = append(gr.cells, gmshCell{elemType: elemType, tags: tags, line: gr.lr.Line()})
	return nil
}

func (gr *gmshReader) build() (m *mesh.Mesh, nd *NodeData, err error) {
	name := gr.lr.Name
	dim := 0
	for _, c := range gr.cells {
		dim = max(dim, gmshTypes[c.elemType].dim)
	}
	if dim < 2 {
		return nil, nil, fmt.Errorf("%s: no triangle or tetrahedron cells: %w", name, utils.ErrMalformedInput)
	}
	index := make(map[int]int, len(gr.nodeTags))
	for i, tag := range gr.nodeTags {
		if _, dup := index[tag]; dup {
			return nil, nil, fmt.Errorf("%s: node %d defined twice: %w", name, tag, utils.ErrMalformedInput)
		}
		index[tag] = i
	}
	m = mesh.NewMesh(dim)
	verts := make([]int, dim+1)
	for _, c := range gr.cells {
		info := gmshTypes[c.elemType]
		if info.dim != dim {
			continue
		}
		if !info.simplex {
			return nil, nil, fmt.Errorf("%s:%d: element type %d is not a simplex: %w",
				name, c.line, c.elemType, utils.ErrMalformedInput)
		}
		for j, tag := range c.tags {
			var ok bool
			if verts[j], ok = index[tag]; !ok {
				return nil, nil, fmt.Errorf("%s:%d: node %d is not defined: %w",
					name, c.line, tag, utils.ErrMalformedInput)
			}
		}
		if err = m.AddElem(verts); err != nil {
			return nil, nil, fmt.Errorf("%s:%d: %w", name, c.line, err)
		}
	}
	nd = &NodeData{
		Dim:    dim,
		Base:   1,
		Coords: make([][]float64, len(gr.coords)),
		Text:   make([]string, len(gr.coords)),
	}
	for i, text := range gr.coords {
		coord := make([]float64, dim)
		for d := range coord {
			coord[d], _ = strconv.ParseFloat(text[d], 64)
		}
		nd.Coords[i] = coord
		nd.Text[i] = strings.Join(text[:dim], " ")
		m.AddPoint(coord)
	}
	if err = m.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", name, err)
	}
	return
}
