//go:build linux

package utils

import (
	perf "github.com/hodgesds/perf-utils"
)

// CountInstructions runs fn under a hardware instruction counter and returns
// the number of CPU instructions it retired
func CountInstructions(fn func() error) (instructions uint64, err error) {
	var pv *perf.ProfileValue
	if pv, err = perf.CPUInstructions(fn); err != nil {
		return
	}
	return pv.Value, nil
}
