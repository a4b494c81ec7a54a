package readfiles

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/notargets/gopart/utils"
)

// LineReader returns the non-blank, non-comment lines of a text file split
// into fields, tracking line numbers for error messages
type LineReader struct {
	Name    string
	Comment string
	scanner *bufio.Scanner
	lineNum int
}

func NewLineReader(name string, r io.Reader, comment string) *LineReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &LineReader{
		Name:    name,
		Comment: comment,
		scanner: scanner,
	}
}

// Next returns the fields of the next data line. ok is false at end of file.
func (lr *LineReader) Next() (fields []string, ok bool, err error) {
	for lr.scanner.Scan() {
		lr.lineNum++
		line := lr.scanner.Text()
		if lr.Comment != "" {
			if idx := strings.Index(line, lr.Comment); idx >= 0 {
				line = line[:idx]
			}
		}
		fields = strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		return fields, true, nil
	}
	return nil, false, lr.scanner.Err()
}

// Line is the number of the line last returned by Next
func (lr *LineReader) Line() int { return lr.lineNum }

// Errorf builds an ErrMalformedInput error located at the current line
func (lr *LineReader) Errorf(format string, args ...interface{}) error {
	return fmt.Errorf("%s:%d: %s: %w", lr.Name, lr.lineNum,
		fmt.Sprintf(format, args...), utils.ErrMalformedInput)
}

// Ints parses every field as an integer
func (lr *LineReader) Ints(fields []string) (vals []int, err error) {
	vals = make([]int, len(fields))
	for i, f := range fields {
		if vals[i], err = strconv.Atoi(f); err != nil {
			return nil, lr.Errorf("field %d: %q is not an integer", i+1, f)
		}
	}
	return
}
