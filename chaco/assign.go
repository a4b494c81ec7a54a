package chaco

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/gopart/readfiles"
	"github.com/notargets/gopart/utils"
)

// ReadAssignments reads a Chaco assignment file: the processor of each
// element, one per line, in element order. Only lines whose first character
// is # are comments. Any other line, blank ones included, must hold a single
// non-negative integer.
func ReadAssignments(name string, r io.Reader) (assignments []int, err error) {
	var (
		scanner = bufio.NewScanner(r)
		lineNum int
	)
	malformed := func(format string, args ...interface{}) error {
		return fmt.Errorf("%s:%d: %s: %w", name, lineNum,
			fmt.Sprintf(format, args...), utils.ErrMalformedInput)
	}
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		var p int
		if p, err = strconv.Atoi(strings.TrimSpace(line)); err != nil {
			return nil, malformed("%q is not a processor number", line)
		}
		if p < 0 {
			return nil, malformed("negative processor number %d", p)
		}
		assignments = append(assignments, p)
	}
	if err = scanner.Err(); err != nil {
		return nil, err
	}
	return
}

// ReadAssignFile reads basename.assign
func ReadAssignFile(basename string) (assignments []int, err error) {
	var file *os.File
	if file, err = os.Open(basename + ".assign"); err != nil {
		return
	}
	defer file.Close()
	return ReadAssignments(basename+".assign", file)
}

// WriteAssignments writes one processor number per line
func WriteAssignments(w io.Writer, assignments []int) error {
	bw := bufio.NewWriter(w)
	for _, p := range assignments {
		fmt.Fprintf(bw, "%d\n", p)
	}
	return bw.Flush()
}

// WriteAssignFile writes basename.assign, used when the partition comes from
// an in-process backend so downstream tools see the same files as with Chaco
func WriteAssignFile(basename string, assignments []int) error {
	return writeFile(basename+".assign", func(w io.Writer) error {
		return WriteAssignments(w, assignments)
	})
}

// WritePartition writes a Triangle .part file, viewable with showme:
// "<numElements> <numProcessors>" then "<elementId> <rank>" per element
func WritePartition(w io.Writer, assignments []int, nProc int) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", len(assignments), nProc)
	for i, p := range assignments {
		fmt.Fprintf(bw, "%d %d\n", i, p)
	}
	return bw.Flush()
}

// WritePartitionFile writes basename.part
func WritePartitionFile(basename string, assignments []int, nProc int) error {
	return writeFile(basename+".part", func(w io.Writer) error {
		return WritePartition(w, assignments, nProc)
	})
}

// WriteOwners writes the node ownership file: the node count, then
// "<nodeId> <ownerElementId>" per node
func WriteOwners(w io.Writer, nodes, owners []int) error {
	if len(nodes) != len(owners) {
		return fmt.Errorf("%d nodes but %d owners", len(nodes), len(owners))
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", len(nodes))
	for i, n := range nodes {
		fmt.Fprintf(bw, "%d %d\n", n, owners[i])
	}
	return bw.Flush()
}

// WriteOwnerFile writes basename.owner
func WriteOwnerFile(basename string, nodes, owners []int) error {
	return writeFile(basename+".owner", func(w io.Writer) error {
		return WriteOwners(w, nodes, owners)
	})
}

// ReadOwners parses a node ownership file
func ReadOwners(name string, r io.Reader) (nodes, owners []int, err error) {
	var (
		lr     = readfiles.NewLineReader(name, r, "#")
		fields []string
		vals   []int
		ok     bool
	)
	if fields, ok, err = lr.Next(); err != nil {
		return
	} else if !ok || len(fields) != 1 {
		return nil, nil, lr.Errorf("owner file header must be the node count")
	}
	if vals, err = lr.Ints(fields); err != nil {
		return
	}
	n := vals[0]
	for i := 0; i < n; i++ {
		if fields, ok, err = lr.Next(); err != nil {
			return nil, nil, err
		} else if !ok {
			return nil, nil, lr.Errorf("expected %d nodes, found %d", n, i)
		}
		if len(fields) != 2 {
			return nil, nil, lr.Errorf("owner line needs 2 fields, found %d", len(fields))
		}
		if vals, err = lr.Ints(fields); err != nil {
			return nil, nil, err
		}
		nodes = append(nodes, vals[0])
		owners = append(owners, vals[1])
	}
	return
}
