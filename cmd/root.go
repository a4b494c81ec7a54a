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
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	profiler interface{ Stop() }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gopart",
	Short: "Partition unstructured simplex meshes for parallel solvers",
	Long: `
Builds the element adjacency graph of a triangle or tetrahedral mesh, partitions
it with Chaco or METIS and writes per-processor node, element and halo files.

gopart partition -F mesh.node -n 8`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if prof, _ := cmd.Flags().GetBool("profile"); prof {
			profiler = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if profiler != nil {
			profiler.Stop()
			profiler = nil
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gopart.yaml)")
	rootCmd.PersistentFlags().Bool("profile", false, "write a CPU profile (cpu.pprof) to the current directory")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log per-processor statistics and memory use")
}

// Tool paths, overridable in the config file or with GOPART_CHACO,
// GOPART_NCDUMP and GOPART_EXO2TRIANGLE
const (
	chacoKey        = "chaco"
	ncdumpKey       = "ncdump"
	exo2triangleKey = "exo2triangle"
)

func setConfigDefaults() {
	viper.SetDefault(chacoKey, "chaco")
	viper.SetDefault(ncdumpKey, "ncdump")
	viper.SetDefault(exo2triangleKey, "./Exo2Triangle.exe")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setConfigDefaults()
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".gopart" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".gopart")
	}

	viper.SetEnvPrefix("GOPART")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
