package partition

import (
	"context"
	"fmt"
	"log"
	"os"

	metis "github.com/notargets/go-metis"

	"github.com/notargets/gopart/chaco"
	"github.com/notargets/gopart/mesh"
	"github.com/notargets/gopart/utils"
)

// Partitioner assigns every element of a mesh to one of nProc processors,
// given the element adjacency graph
type Partitioner interface {
	Partition(ctx context.Context, m *mesh.Mesh, neighbors [][]int, nEdges, nProc int) ([]int, error)
}

// ChacoPartitioner runs the external Chaco program on basename.graph, which
// must already be written, and reads back basename.assign
type ChacoPartitioner struct {
	Runner   *chaco.Runner
	Basename string
}

func NewChacoPartitioner(executable, basename string) *ChacoPartitioner {
	return &ChacoPartitioner{
		Runner:   chaco.NewRunner(executable),
		Basename: basename,
	}
}

func (cp *ChacoPartitioner) Partition(ctx context.Context, m *mesh.Mesh, neighbors [][]int, nEdges, nProc int) (assignments []int, err error) {
	if _, err = os.Stat(cp.Basename + ".graph"); err != nil {
		return nil, fmt.Errorf("chaco input: %w", err)
	}
	if assignments, err = cp.Runner.Run(ctx, cp.Basename, nProc); err != nil {
		return
	}
	if err = checkPartition(assignments, m.NumElems(), nProc); err != nil {
		return nil, fmt.Errorf("%s.assign: %w", cp.Basename, err)
	}
	return
}

// PartitionConfig holds the METIS settings
type PartitionConfig struct {
	ImbalanceFactor float32 // e.g., 1.05 for 5% imbalance
	Objective       string  // "cut" or "vol"
}

// DefaultPartitionConfig minimizes communication volume with 5% imbalance
func DefaultPartitionConfig() *PartitionConfig {
	return &PartitionConfig{
		ImbalanceFactor: 1.05,
		Objective:       "vol",
	}
}

// MetisPartitioner partitions in process with METIS k-way, unit element and
// face weights
type MetisPartitioner struct {
	Config *PartitionConfig
}

func NewMetisPartitioner(config *PartitionConfig) *MetisPartitioner {
	if config == nil {
		config = DefaultPartitionConfig()
	}
	return &MetisPartitioner{Config: config}
}

func (mp *MetisPartitioner) Partition(ctx context.Context, m *mesh.Mesh, neighbors [][]int, nEdges, nProc int) (assignments []int, err error) {
	if nProc < 1 {
		return nil, fmt.Errorf("processor count %d: %w", nProc, utils.ErrInvalidAssignment)
	}
	if err = ctx.Err(); err != nil {
		return
	}
	ne := m.NumElems()
	if nProc == 1 || ne == 0 {
		return make([]int, ne), nil
	}
	log.Printf("Partitioning mesh with %d elements and %d faces into %d parts",
		ne, nEdges, nProc)

	xadj, adjncy := buildMetisGraph(neighbors)

	opts := make([]int32, metis.NoOptions)
	if err = metis.SetDefaultOptions(opts); err != nil {
		return nil, fmt.Errorf("failed to set METIS options: %w", err)
	}
	if mp.Config.Objective == "vol" {
		opts[metis.OptionObjType] = metis.ObjTypeVol
	} else {
		opts[metis.OptionObjType] = metis.ObjTypeCut
	}
	ubvec := []float32{mp.Config.ImbalanceFactor}

	part, objval, err := metis.PartGraphKwayWeighted(
		xadj, adjncy, nil, nil,
		int32(nProc), nil, ubvec, opts,
	)
	if err != nil {
		return nil, fmt.Errorf("METIS partitioning failed: %w", err)
	}
	log.Printf("METIS objective (%s): %d", mp.Config.Objective, objval)

	assignments = make([]int, len(part))
	for i, p := range part {
		assignments[i] = int(p)
	}
	if err = checkPartition(assignments, ne, nProc); err != nil {
		return nil, fmt.Errorf("METIS result: %w", err)
	}
	return
}

// buildMetisGraph converts the adjacency lists to METIS xadj / adjncy through
// their CSR form
func buildMetisGraph(neighbors [][]int) (xadj, adjncy []int32) {
	raw := mesh.AdjacencyCSR(neighbors).RawMatrix()
	xadj = make([]int32, len(raw.Indptr))
	for i, v := range raw.Indptr {
		xadj[i] = int32(v)
	}
	adjncy = make([]int32, xadj[len(xadj)-1])
	for i := range adjncy {
		adjncy[i] = int32(raw.Ind[i])
	}
	return
}

// checkPartition validates a partitioner's output before anything uses it
func checkPartition(assignments []int, nElems, nProc int) error {
	if len(assignments) != nElems {
		return fmt.Errorf("%d assignments for %d elements: %w",
			len(assignments), nElems, utils.ErrInvalidAssignment)
	}
	return CheckAssignments(assignments, nProc)
}
