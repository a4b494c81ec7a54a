//go:build !linux

package utils

import "errors"

// CountInstructions needs the Linux perf_event interface. Elsewhere fn runs
// uncounted.
func CountInstructions(fn func() error) (instructions uint64, err error) {
	if err = fn(); err != nil {
		return
	}
	return 0, errors.New("instruction counting is only available on Linux")
}
