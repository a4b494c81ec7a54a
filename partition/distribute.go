package partition

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/gopart/mesh"
)

// Distribution is a mesh resolved against an element partition: node
// ownership, global renumbering and halos, ready to be written out per
// processor
type Distribution struct {
	Mesh            *mesh.Mesh
	NProc           int
	ElemAssignments []int
	Nodes           *NodeAssignments
	NodeRemap       []int // New id of Nodes.Nodes[i]
	ElemRemap       []int // New id of element e
	Halos           []Halo
	// NodeText is the original text of each point, written after the global
	// id in node files. Coordinates are formatted when it is nil.
	NodeText []string
}

// NewDistribution resolves node ownership, renumbers nodes and elements so that
// each processor owns a contiguous id range and computes every halo
func NewDistribution(m *mesh.Mesh, nProc int, elemAssignments []int, nodeText []string) (d *Distribution, err error) {
	d = &Distribution{
		Mesh:            m,
		NProc:           nProc,
		ElemAssignments: elemAssignments,
		NodeText:        nodeText,
	}
	if d.Nodes, err = GetNodeAssignments(m, nProc, elemAssignments); err != nil {
		return nil, err
	}
	if d.NodeRemap, err = RemapEntities(d.Nodes.Procs, nProc); err != nil {
		return nil, err
	}
	if d.ElemRemap, err = RemapEntities(elemAssignments, nProc); err != nil {
		return nil, err
	}
	d.Halos = GetAllOffProcData(m, nProc, elemAssignments, d.Nodes)
	return
}

// GlobalNode returns the new id of node v
func (d *Distribution) GlobalNode(v int) int {
	return d.NodeRemap[d.Nodes.Index(v)]
}

func (d *Distribution) nodeText(v int) string {
	if d.NodeText != nil {
		return d.NodeText[v]
	}
	pt := d.Mesh.Point(v)
	s := make([]string, len(pt))
	for i, x := range pt {
		s[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	return strings.Join(s, " ")
}

func (d *Distribution) writeGlobalVerts(bw *bufio.Writer, e int) {
	for _, v := range d.Mesh.ElemVerts(e) {
		fmt.Fprintf(bw, " %d", d.GlobalNode(v))
	}
}

// WriteNodeFile writes the nodes of processor p: their count, then
// "<globalNodeId> <original node text>" in ascending original id
func (d *Distribution) WriteNodeFile(w io.Writer, p int) error {
	bw := bufio.NewWriter(w)
	nodes := d.Nodes.NodesOf(p)
	fmt.Fprintf(bw, "%d\n", len(nodes))
	for _, v := range nodes {
		fmt.Fprintf(bw, "%d %s\n", d.GlobalNode(v), d.nodeText(v))
	}
	return bw.Flush()
}

// WriteElemFile writes the elements of processor p: "<count> <d+1>", then
// "<globalElemId> <globalVertexIds...>"
func (d *Distribution) WriteElemFile(w io.Writer, p int) error {
	bw := bufio.NewWriter(w)
	elems := ElemsOf(d.ElemAssignments, p)
	fmt.Fprintf(bw, "%d %d\n", len(elems), d.Mesh.Dimension()+1)
	for _, e := range elems {
		fmt.Fprintf(bw, "%d", d.ElemRemap[e])
		d.writeGlobalVerts(bw, e)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteHaloFile writes the halo of processor p: "<nNodes> <nElems>", then
// "node <globalNodeId> <ownerRank>" and
// "elem <globalElemId> <ownerRank> <globalVertexIds...>" lines
func (d *Distribution) WriteHaloFile(w io.Writer, p int) error {
	bw := bufio.NewWriter(w)
	halo := d.Halos[p]
	fmt.Fprintf(bw, "%d %d\n", len(halo.Nodes), len(halo.Elems))
	for _, v := range halo.Nodes {
		fmt.Fprintf(bw, "node %d %d\n", d.GlobalNode(v), d.Nodes.Proc(v))
	}
	for _, e := range halo.Elems {
		fmt.Fprintf(bw, "elem %d %d", d.ElemRemap[e], d.ElemAssignments[e])
		d.writeGlobalVerts(bw, e)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ProcFileName is the name of processor p's file with the given extension,
// basename.nProc.p.ext
func ProcFileName(basename string, nProc, p int, ext string) string {
	return fmt.Sprintf("%s.%d.%d.%s", basename, nProc, p, ext)
}

// WriteFiles writes the .node, .ele and .halo files of every processor
func (d *Distribution) WriteFiles(basename string) error {
	writers := []struct {
		ext   string
		write func(io.Writer, int) error
	}{
		{"node", d.WriteNodeFile},
		{"ele", d.WriteElemFile},
		{"halo", d.WriteHaloFile},
	}
	for p := 0; p < d.NProc; p++ {
		for _, wr := range writers {
			if err := writeFile(ProcFileName(basename, d.NProc, p, wr.ext), func(w io.Writer) error {
				return wr.write(w, p)
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeFile(filename string, write func(w io.Writer) error) (err error) {
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
