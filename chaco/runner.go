package chaco

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/notargets/gopart/readfiles"
	"github.com/notargets/gopart/utils"
)

const (
	ParamsFile = "User_Params"
	InputFile  = "chacoInput"
)

// Fixed Chaco control values: multilevel Kernighan-Lin, coarsening to 400
// vertices, recursive bisection, no vertex-to-processor mapping questions
var Params = []string{
	"OUTPUT_ASSIGN=true",
	"PROMPT=false",
	"ARCHITECTURE=1",
	"REFINE_PARTITION=4",
	"INTERNAL_VERTICES=true",
	"MATCH_TYPE=4",
	"COARSE_NLEVEL_KL=1",
	"CUT_TO_HOP_COST=1.0",
}

const (
	globalMethod     = 1   // Multilevel-KL
	coarsenTarget    = 400 // Vertices in the coarsest graph
	partitionDivider = 1   // Bisection
)

// WriteParams writes the User_Params control file
func WriteParams(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, p := range Params {
		fmt.Fprintln(bw, p)
	}
	return bw.Flush()
}

// WriteInput writes the answers Chaco reads from stdin: graph file, assignment
// file, global method, coarsening target, number of sets, divider, and "n"
// to decline another run
func WriteInput(w io.Writer, graphName string, nProc int) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s.graph\n", graphName)
	fmt.Fprintf(bw, "%s.assign\n", graphName)
	fmt.Fprintf(bw, "%d\n", globalMethod)
	fmt.Fprintf(bw, "%d\n", coarsenTarget)
	fmt.Fprintf(bw, "%d\n", nProc)
	fmt.Fprintf(bw, "%d\n", partitionDivider)
	fmt.Fprintf(bw, "n\n")
	return bw.Flush()
}

// Runner runs the Chaco executable on a graph file already on disk
type Runner struct {
	Executable string
	// WorkDir holds the control files and is Chaco's working directory.
	// Empty means the directory of the graph file.
	WorkDir string
}

func NewRunner(executable string) *Runner {
	if executable == "" {
		executable = "chaco"
	}
	return &Runner{Executable: executable}
}

// Run partitions basename.graph into nProc sets and returns the contents of
// the basename.assign file Chaco writes. The call blocks until Chaco exits.
func (r *Runner) Run(ctx context.Context, basename string, nProc int) (assignments []int, err error) {
	var (
		workDir = r.WorkDir
		input   *os.File
	)
	if workDir == "" {
		workDir = filepath.Dir(basename)
	}
	graphName, relErr := filepath.Rel(workDir, basename)
	if relErr != nil {
		if graphName, err = filepath.Abs(basename); err != nil {
			return
		}
	}
	if err = writeFile(filepath.Join(workDir, ParamsFile), WriteParams); err != nil {
		return
	}
	inputPath := filepath.Join(workDir, InputFile)
	if err = writeFile(inputPath, func(w io.Writer) error {
		return WriteInput(w, graphName, nProc)
	}); err != nil {
		return
	}
	// A stale assignment from an earlier run must not be mistaken for output
	if err = os.Remove(basename + ".assign"); err != nil && !os.IsNotExist(err) {
		return
	}
	if input, err = os.Open(inputPath); err != nil {
		return
	}
	defer input.Close()

	log.Printf("Running %s on %s.graph for %d processors", r.Executable, basename, nProc)
	if err = readfiles.RunToolIn(ctx, workDir, io.Discard, input, r.Executable); err != nil {
		return nil, fmt.Errorf("partitioning %s.graph: %w", basename, err)
	}
	if _, err = os.Stat(basename + ".assign"); err != nil {
		return nil, fmt.Errorf("%s exited without writing %s.assign: %w",
			r.Executable, basename, utils.ErrExternalTool)
	}
	return ReadAssignFile(basename)
}
