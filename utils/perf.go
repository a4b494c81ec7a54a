package utils

import (
	"log"
	"time"
)

// MeasureInstructions runs fn and logs its duration and, where the perf
// counters can be opened, its instruction count. Counter failures are logged,
// fn always runs exactly once and its error is returned.
func MeasureInstructions(stage string, fn func() error) error {
	var (
		ran   bool
		fnErr error
		start = time.Now()
	)
	count, err := CountInstructions(func() error {
		ran = true
		fnErr = fn()
		return fnErr
	})
	if !ran {
		fnErr = fn()
	}
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		log.Printf("%s: %v elapsed, instruction count unavailable: %v", stage, time.Since(start), err)
		return nil
	}
	log.Printf("%s: %v elapsed, %d instructions", stage, time.Since(start), count)
	return nil
}
