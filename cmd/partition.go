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
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/notargets/gopart/InputParameters"
	"github.com/notargets/gopart/partition"
	"github.com/notargets/gopart/readfiles"
	"github.com/notargets/gopart/utils"
)

// PartitionCmd represents the partition command
var PartitionCmd = &cobra.Command{
	Use:   "partition",
	Short: "Partition a mesh and write per-processor files",
	Long: `
Reads a mesh, writes its adjacency graph (.graph) and node owners (.owner),
partitions it and writes the assignment (.assign, .part) and, for every
processor p of n, the files <base>.<n>.<p>.node, .ele and .halo.

gopart partition -F wing.node -n 16 -p metis`,
	Run: func(cmd *cobra.Command, args []string) {
		ip, err := partitionParameters(cmd.Flags())
		if err != nil {
			log.Fatalf("error: %v", err)
		}
		if ip.Verbose {
			ip.Print()
		}
		pl := newPipeline(ip)
		if perf, _ := cmd.Flags().GetBool("perf"); perf {
			pl.Measure = utils.MeasureInstructions
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if _, err = pl.Run(ctx); err != nil {
			log.Fatalf("error: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(PartitionCmd)
	PartitionCmd.Flags().StringP("meshFile", "F", "", "mesh to partition: Triangle .node/.ele base name, Gambit .neu, SU2 .su2, Gmsh .msh or Exodus .exo")
	PartitionCmd.Flags().StringP("inputParametersFile", "I", "", "YAML file for partition parameters like:\n\t- NumProcessors\n\t- Partitioner (chaco or metis)")
	PartitionCmd.Flags().IntP("nproc", "n", 0, "number of processors")
	PartitionCmd.Flags().StringP("partitioner", "p", "chaco", "partitioner: chaco (external program) or metis")
	PartitionCmd.Flags().String("objective", "vol", "METIS objective: vol (communication volume) or cut (edge cut)")
	PartitionCmd.Flags().Float32("imbalance", 1.05, "METIS allowed load imbalance factor")
	PartitionCmd.Flags().Bool("exodus", false, "convert an Exodus mesh with ncdump and Exo2Triangle first")
	PartitionCmd.Flags().Bool("perf", false, "log the CPU instructions used to build the adjacency graph")
	PartitionCmd.Flags().String("chaco", "", "path of the Chaco executable")
	_ = viper.BindPFlag(chacoKey, PartitionCmd.Flags().Lookup("chaco"))
}

// partitionParameters reads the optional parameters file, then applies the
// flags given on the command line over it
func partitionParameters(flags *pflag.FlagSet) (ip *InputParameters.PartitionParameters, err error) {
	ip = InputParameters.NewPartitionParameters()
	ipFile, _ := flags.GetString("inputParametersFile")
	if len(ipFile) != 0 {
		var data []byte
		if data, err = os.ReadFile(ipFile); err != nil {
			return nil, err
		}
		if err = ip.Parse(data); err != nil {
			return nil, fmt.Errorf("%s: %w", ipFile, err)
		}
	}
	if flags.Changed("meshFile") || ip.MeshFile == "" {
		ip.MeshFile, _ = flags.GetString("meshFile")
	}
	if flags.Changed("nproc") {
		ip.NumProcessors, _ = flags.GetInt("nproc")
	}
	if flags.Changed("partitioner") {
		ip.Partitioner, _ = flags.GetString("partitioner")
	}
	if flags.Changed("objective") {
		ip.Objective, _ = flags.GetString("objective")
	}
	if flags.Changed("imbalance") {
		ip.ImbalanceFactor, _ = flags.GetFloat32("imbalance")
	}
	if flags.Changed("exodus") {
		ip.Exodus, _ = flags.GetBool("exodus")
	}
	if verbose, _ := flags.GetBool("verbose"); verbose {
		ip.Verbose = true
	}
	if ip.MeshFile == "" {
		return nil, fmt.Errorf("must supply a mesh file (-F, --meshFile) or MeshFile in the parameters file")
	}
	if strings.EqualFold(filepath.Ext(ip.MeshFile), ".exo") {
		ip.Exodus = true
	}
	if err = ip.Validate(); err != nil {
		return nil, err
	}
	return
}

// toolPath returns the executable for a tool: the parameters file entry if
// present, else the viper setting (flag, GOPART_* environment, config file,
// default)
func toolPath(ip *InputParameters.PartitionParameters, key string) string {
	if path, ok := ip.Tools[key]; ok && path != "" {
		return path
	}
	return viper.GetString(key)
}

func newPipeline(ip *InputParameters.PartitionParameters) *partition.Pipeline {
	pl := &partition.Pipeline{
		MeshFile: ip.MeshFile,
		NProc:    ip.NumProcessors,
		Exodus:   ip.Exodus,
		ExodusTools: readfiles.ExodusTools{
			Ncdump:       toolPath(ip, ncdumpKey),
			Exo2Triangle: toolPath(ip, exo2triangleKey),
		},
		Verbose: ip.Verbose,
	}
	if strings.EqualFold(ip.Partitioner, "metis") {
		pl.Partitioner = partition.NewMetisPartitioner(&partition.PartitionConfig{
			ImbalanceFactor: ip.ImbalanceFactor,
			Objective:       strings.ToLower(ip.Objective),
		})
	} else {
		pl.Partitioner = partition.NewChacoPartitioner(toolPath(ip, chacoKey), "")
	}
	return pl
}
