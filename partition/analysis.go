package partition

import (
	"log"
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/stat"
)

// ProcStats holds statistics for a single processor
type ProcStats struct {
	ID           int
	NumElements  int
	NumNodes     int
	NumNeighbors map[int]int // neighbor processor -> shared faces

	// Components is the number of connected pieces of the processor's
	// element subgraph. More than one means the partitioner split it.
	Components int
}

// PartitionStats summarizes the quality of a partition
type PartitionStats struct {
	NProc      int
	CutEdges   int
	Interfaces map[[2]int]int // [p1,p2] with p1 < p2 -> shared faces
	Procs      []ProcStats
	LoadMean   float64
	LoadStdDev float64
	Imbalance  float64 // max load / mean load - 1
	MinLoad    int
	MaxLoad    int
}

// Analyze computes partition quality metrics. Load is the element count.
func Analyze(neighbors [][]int, elemAssignments []int, na *NodeAssignments, nProc int) (ps *PartitionStats) {
	ps = &PartitionStats{
		NProc:      nProc,
		Interfaces: make(map[[2]int]int),
		Procs:      make([]ProcStats, nProc),
	}
	graphs := make([]*simple.UndirectedGraph, nProc)
	for p := range ps.Procs {
		ps.Procs[p].ID = p
		ps.Procs[p].NumNeighbors = make(map[int]int)
		graphs[p] = simple.NewUndirectedGraph()
	}
	if na != nil {
		for p, n := range na.PerProc {
			ps.Procs[p].NumNodes = n
		}
	}
	for elem, p := range elemAssignments {
		ps.Procs[p].NumElements++
		graphs[p].AddNode(simple.Node(elem))
	}
	for elem, nbrs := range neighbors {
		elemPart := elemAssignments[elem]
		for _, neighbor := range nbrs {
			if neighbor <= elem { // Count each edge once
				continue
			}
			neighborPart := elemAssignments[neighbor]
			if elemPart == neighborPart {
				g := graphs[elemPart]
				g.SetEdge(g.NewEdge(simple.Node(elem), simple.Node(neighbor)))
				continue
			}
			ps.CutEdges++
			p1, p2 := elemPart, neighborPart
			if p1 > p2 {
				p1, p2 = p2, p1
			}
			ps.Interfaces[[2]int{p1, p2}]++
			ps.Procs[elemPart].NumNeighbors[neighborPart]++
			ps.Procs[neighborPart].NumNeighbors[elemPart]++
		}
	}

	loads := make([]float64, nProc)
	for p := range ps.Procs {
		ps.Procs[p].Components = len(topo.ConnectedComponents(graphs[p]))
		load := ps.Procs[p].NumElements
		loads[p] = float64(load)
		if p == 0 || load < ps.MinLoad {
			ps.MinLoad = load
		}
		if load > ps.MaxLoad {
			ps.MaxLoad = load
		}
	}
	if nProc > 0 {
		ps.LoadMean = stat.Mean(loads, nil)
	}
	if nProc > 1 {
		ps.LoadStdDev = stat.StdDev(loads, nil)
	}
	if ps.LoadMean > 0 {
		ps.Imbalance = float64(ps.MaxLoad)/ps.LoadMean - 1.0
	}
	return
}

// Report logs the statistics, per processor details when verbose
func (ps *PartitionStats) Report(verbose bool) {
	log.Printf("Partition Analysis:")
	log.Printf("  Cut edges: %d", ps.CutEdges)
	log.Printf("  Load imbalance: %.2f%%", ps.Imbalance*100)
	log.Printf("  Load range: [%d, %d], avg: %.1f, std dev: %.2f",
		ps.MinLoad, ps.MaxLoad, ps.LoadMean, ps.LoadStdDev)
	for _, stats := range ps.Procs {
		if stats.Components > 1 {
			log.Printf("  Processor %d is split into %d pieces", stats.ID, stats.Components)
		}
	}
	if !verbose {
		return
	}
	log.Printf("Per-processor statistics:")
	for _, stats := range ps.Procs {
		log.Printf("  Processor %d:", stats.ID)
		log.Printf("    Elements: %d", stats.NumElements)
		log.Printf("    Nodes: %d", stats.NumNodes)
		log.Printf("    Neighbors: %d", len(stats.NumNeighbors))
	}
	log.Printf("Interface statistics:")
	pairs := make([][2]int, 0, len(ps.Interfaces))
	for pair := range ps.Interfaces {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	for _, pair := range pairs {
		log.Printf("  Processor %d <-> %d: %d faces", pair[0], pair[1], ps.Interfaces[pair])
	}
}
