// Package chaco reads and writes the files exchanged with the Chaco graph
// partitioner and runs it as an external process.
package chaco

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/gopart/utils"
)

// WriteGraph writes an adjacency graph in Chaco format. The header is
// "<numElements> <numEdges>", followed by one line per element listing its
// neighbors 1-based, each followed by a space.
func WriteGraph(w io.Writer, neighbors [][]int, nEdges int) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", len(neighbors), nEdges)
	for _, nbrs := range neighbors {
		for _, j := range nbrs {
			bw.WriteString(strconv.Itoa(j + 1))
			bw.WriteByte(' ')
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteGraphFile writes basename.graph
func WriteGraphFile(basename string, neighbors [][]int, nEdges int) (err error) {
	return writeFile(basename+".graph", func(w io.Writer) error {
		return WriteGraph(w, neighbors, nEdges)
	})
}

// ReadGraph parses a Chaco graph without weights. Lines starting with % are
// comments. A blank line is an element without neighbors, so the body is
// read line by line rather than by tokens.
func ReadGraph(name string, r io.Reader) (neighbors [][]int, nEdges int, err error) {
	var (
		scanner = bufio.NewScanner(r)
		lineNum int
		nElems  = -1
		total   int
	)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	malformed := func(format string, args ...interface{}) error {
		return fmt.Errorf("%s:%d: %s: %w", name, lineNum, fmt.Sprintf(format, args...),
			utils.ErrMalformedInput)
	}
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "%") {
			continue
		}
		fields := strings.Fields(line)
		if nElems < 0 {
			if len(fields) == 0 {
				continue
			}
			if len(fields) < 2 || len(fields) > 3 {
				return nil, 0, malformed("graph header needs 2 fields, found %d", len(fields))
			}
			var header [3]int
			for i, f := range fields {
				if header[i], err = strconv.Atoi(f); err != nil {
					return nil, 0, malformed("header field %q is not an integer", f)
				}
			}
			if header[2] != 0 {
				return nil, 0, malformed("weighted graphs (fmt %d) are not supported", header[2])
			}
			if nElems, nEdges = header[0], header[1]; nElems < 0 || nEdges < 0 {
				return nil, 0, malformed("negative sizes in header")
			}
			neighbors = make([][]int, 0, nElems)
			continue
		}
		if len(neighbors) == nElems {
			if len(fields) != 0 {
				return nil, 0, malformed("more than %d element lines", nElems)
			}
			continue
		}
		nbrs := make([]int, len(fields))
		for i, f := range fields {
			var j int
			if j, err = strconv.Atoi(f); err != nil {
				return nil, 0, malformed("neighbor %q is not an integer", f)
			}
			if j < 1 || j > nElems {
				return nil, 0, malformed("neighbor %d out of range [1,%d]", j, nElems)
			}
			nbrs[i] = j - 1
		}
		total += len(nbrs)
		neighbors = append(neighbors, nbrs)
	}
	if err = scanner.Err(); err != nil {
		return nil, 0, err
	}
	if nElems < 0 {
		return nil, 0, malformed("missing header")
	}
	if len(neighbors) != nElems {
		return nil, 0, malformed("expected %d element lines, found %d", nElems, len(neighbors))
	}
	if total != 2*nEdges {
		return nil, 0, malformed("header has %d edges, neighbor lists hold %d entries", nEdges, total)
	}
	return
}

// ReadGraphFile reads basename.graph
func ReadGraphFile(basename string) (neighbors [][]int, nEdges int, err error) {
	var file *os.File
	if file, err = os.Open(basename + ".graph"); err != nil {
		return
	}
	defer file.Close()
	return ReadGraph(basename+".graph", file)
}

func writeFile(filename string, write func(w io.Writer) error) (err error) {
	var file *os.File
	if file, err = os.Create(filename); err != nil {
		return
	}
	if err = write(file); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	return file.Close()
}
