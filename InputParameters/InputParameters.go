package InputParameters

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type PartitionParameters struct {
	Title           string            `yaml:"Title"`
	MeshFile        string            `yaml:"MeshFile"`
	NumProcessors   int               `yaml:"NumProcessors"`
	Partitioner     string            `yaml:"Partitioner"` // chaco or metis
	Objective       string            `yaml:"Objective"`   // METIS only: vol or cut
	ImbalanceFactor float32           `yaml:"ImbalanceFactor"`
	Exodus          bool              `yaml:"Exodus"`
	Verbose         bool              `yaml:"Verbose"`
	Tools           map[string]string `yaml:"Tools"` // Executable paths by tool name
}

func NewPartitionParameters() *PartitionParameters {
	return &PartitionParameters{
		Partitioner:     "chaco",
		Objective:       "vol",
		ImbalanceFactor: 1.05,
	}
}

func (ip *PartitionParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

// Validate checks the values a run cannot proceed without
func (ip *PartitionParameters) Validate() error {
	if ip.NumProcessors < 1 {
		return fmt.Errorf("NumProcessors must be at least 1, got %d", ip.NumProcessors)
	}
	switch strings.ToLower(ip.Partitioner) {
	case "chaco", "metis":
	default:
		return fmt.Errorf("unknown Partitioner %q, want chaco or metis", ip.Partitioner)
	}
	switch strings.ToLower(ip.Objective) {
	case "vol", "cut":
	default:
		return fmt.Errorf("unknown Objective %q, want vol or cut", ip.Objective)
	}
	if ip.ImbalanceFactor < 1 {
		return fmt.Errorf("ImbalanceFactor must be at least 1, got %g", ip.ImbalanceFactor)
	}
	return nil
}

func (ip *PartitionParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t= Mesh File\n", ip.MeshFile)
	fmt.Printf("[%d]\t\t\t= Number of Processors\n", ip.NumProcessors)
	fmt.Printf("[%s]\t\t\t= Partitioner\n", ip.Partitioner)
	if strings.ToLower(ip.Partitioner) == "metis" {
		fmt.Printf("[%s]\t\t\t= Objective\n", ip.Objective)
		fmt.Printf("%8.5f\t\t= Imbalance Factor\n", ip.ImbalanceFactor)
	}
	fmt.Printf("[%v]\t\t\t= Exodus input\n", ip.Exodus)
	keys := make([]string, len(ip.Tools))
	i := 0
	for k := range ip.Tools {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("Tools[%s] = %v\n", key, ip.Tools[key])
	}
}
