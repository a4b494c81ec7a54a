package partition

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/notargets/gopart/chaco"
	"github.com/notargets/gopart/mesh"
	"github.com/notargets/gopart/readfiles"
	"github.com/notargets/gopart/utils"
)

// Pipeline partitions one mesh file into NProc sets of per-processor files
// written next to it
type Pipeline struct {
	// MeshFile is a Triangle base name, a .node / .ele file, a Gambit .neu,
	// an SU2 file, a Gmsh .msh file or, with Exodus set, an Exodus .exo file
	MeshFile    string
	NProc       int
	Partitioner Partitioner
	Exodus      bool
	ExodusTools readfiles.ExodusTools
	Verbose     bool
	// Measure, when set, wraps the graph building stage, e.g. to count
	// instructions
	Measure func(stage string, fn func() error) error
}

// Result is what a pipeline run produced
type Result struct {
	Basename     string
	Mesh         *mesh.Mesh
	NumEdges     int
	Assignments  []int
	Distribution *Distribution
	Stats        *PartitionStats
}

// Basename is MeshFile without its extension. Output files are named from it.
func (pl *Pipeline) Basename() string {
	ext := filepath.Ext(pl.MeshFile)
	switch strings.ToLower(ext) {
	case ".node", ".ele", ".neu", ".su2", ".msh", ".exo":
		return strings.TrimSuffix(pl.MeshFile, ext)
	}
	return pl.MeshFile
}

func stageError(stage, file string, err error) error {
	return fmt.Errorf("%s stage (%s): %w", stage, file, err)
}

// Run executes every stage in order and stops at the first failure
func (pl *Pipeline) Run(ctx context.Context) (res *Result, err error) {
	var (
		basename  = pl.Basename()
		neighbors [][]int
		nodeData  *readfiles.NodeData
	)
	if pl.NProc < 1 {
		return nil, stageError("setup", basename,
			fmt.Errorf("processor count %d: %w", pl.NProc, utils.ErrInvalidAssignment))
	}
	if pl.Partitioner == nil {
		return nil, stageError("setup", basename, fmt.Errorf("no partitioner"))
	}
	res = &Result{Basename: basename}

	if pl.Exodus {
		if err = readfiles.ConvertExodus(ctx, pl.ExodusTools, basename); err != nil {
			return nil, stageError("convert", basename+".exo", err)
		}
	}

	meshFile := pl.MeshFile
	if pl.Exodus {
		meshFile = basename
	}
	log.Printf("Reading mesh %s", meshFile)
	if res.Mesh, nodeData, err = readfiles.ReadMeshFile(meshFile); err != nil {
		return nil, stageError("read", meshFile, err)
	}
	m := res.Mesh
	log.Printf("Mesh has %d points and %d elements in %d dimensions",
		m.NumPts(), m.NumElems(), m.Dimension())

	buildGraph := func() (err error) {
		neighbors, res.NumEdges, err = m.FindNeighbors()
		return
	}
	if pl.Measure != nil {
		err = pl.Measure("graph", buildGraph)
	} else {
		err = buildGraph()
	}
	if err != nil {
		return nil, stageError("graph", basename, err)
	}
	log.Printf("Adjacency graph has %d edges", res.NumEdges)
	if err = chaco.WriteGraphFile(basename, neighbors, res.NumEdges); err != nil {
		return nil, stageError("graph", basename+".graph", err)
	}
	nodes, owners := NodeOwners(m)
	if err = chaco.WriteOwnerFile(basename, nodes, owners); err != nil {
		return nil, stageError("graph", basename+".owner", err)
	}

	partitioner := pl.Partitioner
	cp, isChaco := partitioner.(*ChacoPartitioner)
	if isChaco && cp.Basename == "" {
		local := *cp
		local.Basename = basename
		partitioner = &local
	}
	if res.Assignments, err = partitioner.Partition(ctx, m, neighbors, res.NumEdges, pl.NProc); err != nil {
		return nil, stageError("partition", basename, err)
	}
	if !isChaco {
		if err = chaco.WriteAssignFile(basename, res.Assignments); err != nil {
			return nil, stageError("partition", basename+".assign", err)
		}
	}
	if err = chaco.WritePartitionFile(basename, res.Assignments, pl.NProc); err != nil {
		return nil, stageError("partition", basename+".part", err)
	}

	var nodeText []string
	if nodeData != nil {
		nodeText = nodeData.Text
	}
	if res.Distribution, err = NewDistribution(m, pl.NProc, res.Assignments, nodeText); err != nil {
		return nil, stageError("distribute", basename, err)
	}
	if err = res.Distribution.WriteFiles(basename); err != nil {
		return nil, stageError("write", basename, err)
	}
	log.Printf("Wrote %s.%d.[0-%d].{node,ele,halo}", basename, pl.NProc, pl.NProc-1)
	if pl.Verbose {
		log.Printf("Memory: %s", utils.GetMemUsage())
	}

	res.Stats = Analyze(neighbors, res.Assignments, res.Distribution.Nodes, pl.NProc)
	res.Stats.Report(pl.Verbose)
	return
}
