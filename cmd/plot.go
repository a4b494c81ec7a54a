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
	"log"

	"github.com/spf13/cobra"

	"github.com/notargets/gopart/chaco"
	"github.com/notargets/gopart/partition"
	"github.com/notargets/gopart/readfiles"
)

// PlotCmd represents the plot command
var PlotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Display a partitioned 2D mesh",
	Long: `
Shows a triangle mesh shaded by processor, read from <base>.assign as written
by the partition command. Runs until the window is closed or interrupted.

gopart plot -F rect.node`,
	Run: func(cmd *cobra.Command, args []string) {
		meshFile, _ := cmd.Flags().GetString("meshFile")
		if len(meshFile) == 0 {
			log.Fatalf("error: must supply a mesh file (-F, --meshFile)")
		}
		basename := (&partition.Pipeline{MeshFile: meshFile}).Basename()
		m, _, err := readfiles.ReadMeshFile(meshFile)
		if err != nil {
			log.Fatalf("error: %v", err)
		}
		assignments, err := chaco.ReadAssignFile(basename)
		if err != nil {
			log.Fatalf("error: %v", err)
		}
		nProc := 0
		for _, p := range assignments {
			nProc = max(nProc, p+1)
		}
		if _, err = readfiles.PlotPartition(m, assignments, nProc); err != nil {
			log.Fatalf("error: %v", err)
		}
		select {}
	},
}

func init() {
	rootCmd.AddCommand(PlotCmd)
	PlotCmd.Flags().StringP("meshFile", "F", "", "2D mesh: Triangle .node/.ele base name, Gambit .neu, SU2 .su2 or Gmsh .msh")
}
