package utils

import "errors"

// Error classes for the partitioning pipeline. Callers wrap these with
// fmt.Errorf("%w") adding the file, line or stage that failed, and test with
// errors.Is.
var (
	// ErrMalformedInput marks a header or data line of a .node, .ele,
	// .graph or .assign file that does not parse.
	ErrMalformedInput = errors.New("malformed input")
	// ErrInvalidAssignment marks a processor rank outside [0, nProc).
	ErrInvalidAssignment = errors.New("invalid processor assignment")
	// ErrInconsistentMesh marks element connectivity that disagrees with the
	// point set.
	ErrInconsistentMesh = errors.New("inconsistent mesh")
	// ErrExternalTool marks a partitioner or converter process that exited
	// non-zero or did not produce its output file.
	ErrExternalTool = errors.New("external tool failure")
)
