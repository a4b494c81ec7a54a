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

	"github.com/notargets/gopart/mesh"
	"github.com/notargets/gopart/readfiles"
)

// GenerateCmd represents the generate command
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a Delaunay triangle mesh of a rectangle",
	Long: `
Triangulates a jittered lattice of points on a rectangle and writes it as
Triangle <base>.node and <base>.ele files, ready for the partition command.

gopart generate -o rect --nx 40 --ny 20`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			base, _   = cmd.Flags().GetString("output")
			nx, _     = cmd.Flags().GetInt("nx")
			ny, _     = cmd.Flags().GetInt("ny")
			xmax, _   = cmd.Flags().GetFloat64("xMax")
			ymax, _   = cmd.Flags().GetFloat64("yMax")
			jitter, _ = cmd.Flags().GetFloat64("jitter")
			seed, _   = cmd.Flags().GetInt64("seed")
		)
		if err := generateMesh(base, nx, ny, xmax, ymax, jitter, seed); err != nil {
			log.Fatalf("error: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(GenerateCmd)
	GenerateCmd.Flags().StringP("output", "o", "rect", "base name of the .node / .ele files")
	GenerateCmd.Flags().Int("nx", 20, "lattice cells in x")
	GenerateCmd.Flags().Int("ny", 20, "lattice cells in y")
	GenerateCmd.Flags().Float64("xMax", 1, "rectangle width")
	GenerateCmd.Flags().Float64("yMax", 1, "rectangle height")
	GenerateCmd.Flags().Float64("jitter", 0.25, "random displacement of interior points, fraction of the spacing")
	GenerateCmd.Flags().Int64("seed", 1, "random seed for the jitter")
}

func generateMesh(base string, nx, ny int, xmax, ymax, jitter float64, seed int64) (err error) {
	var m *mesh.Mesh
	if m, err = mesh.GenerateRectangle(nx, ny, xmax, ymax, jitter, seed); err != nil {
		return
	}
	if err = readfiles.WriteTriangleMesh(base, m); err != nil {
		return
	}
	log.Printf("Wrote %s.node and %s.ele: %d points, %d triangles", base, base, m.NumPts(), m.NumElems())
	return
}
