/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/notargets/gopart/chaco"
	"github.com/notargets/gopart/mesh"
	"github.com/notargets/gopart/partition"
	"github.com/notargets/gopart/readfiles"
	"github.com/notargets/gopart/utils"
)

// GraphCmd represents the graph command
var GraphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Write the adjacency graph and node owners of a mesh",
	Long: `
Writes <base>.graph in Chaco format and <base>.owner without partitioning, for
running a partitioner by hand. With --check the graph file is read back and
tested for symmetry.

gopart graph -F wing.node`,
	Run: func(cmd *cobra.Command, args []string) {
		meshFile, _ := cmd.Flags().GetString("meshFile")
		if len(meshFile) == 0 {
			log.Fatalf("error: must supply a mesh file (-F, --meshFile)")
		}
		check, _ := cmd.Flags().GetBool("check")
		perf, _ := cmd.Flags().GetBool("perf")
		if err := writeGraph(meshFile, check, perf); err != nil {
			log.Fatalf("error: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(GraphCmd)
	GraphCmd.Flags().StringP("meshFile", "F", "", "mesh: Triangle .node/.ele base name, Gambit .neu, SU2 .su2 or Gmsh .msh")
	GraphCmd.Flags().Bool("check", false, "read the graph file back and verify it")
	GraphCmd.Flags().Bool("perf", false, "log the CPU instructions used to build the adjacency graph")
}

func writeGraph(meshFile string, check, perf bool) (err error) {
	var (
		m         *mesh.Mesh
		neighbors [][]int
		nEdges    int
		basename  = (&partition.Pipeline{MeshFile: meshFile}).Basename()
	)
	if m, _, err = readfiles.ReadMeshFile(meshFile); err != nil {
		return
	}
	build := func() (err error) {
		neighbors, nEdges, err = m.FindNeighbors()
		return
	}
	if perf {
		err = utils.MeasureInstructions("graph", build)
	} else {
		err = build()
	}
	if err != nil {
		return fmt.Errorf("%s: %w", meshFile, err)
	}
	if err = chaco.WriteGraphFile(basename, neighbors, nEdges); err != nil {
		return
	}
	nodes, owners := partition.NodeOwners(m)
	if err = chaco.WriteOwnerFile(basename, nodes, owners); err != nil {
		return
	}
	log.Printf("Wrote %s.graph: %d elements, %d edges", basename, m.NumElems(), nEdges)
	if !check {
		return
	}
	var readBack [][]int
	if readBack, _, err = chaco.ReadGraphFile(basename); err != nil {
		return
	}
	if !mesh.IsSymmetric(readBack) {
		return fmt.Errorf("%s.graph is not symmetric: %w", basename, utils.ErrMalformedInput)
	}
	log.Printf("%s.graph is symmetric", basename)
	return
}
