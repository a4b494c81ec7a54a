package utils

import (
	"runtime"
	"sync"
)

// ParallelDegree returns the number of workers used to process maxIndex
// items: procLimit if set, the CPU count otherwise, and 1 when there are
// fewer items than workers.
func ParallelDegree(procLimit, maxIndex int) (np int) {
	if procLimit > 0 {
		np = procLimit
	} else {
		np = runtime.NumCPU()
	}
	if np > maxIndex {
		np = 1
	}
	return
}

type PartitionMap struct {
	MaxIndex       int // MaxIndex is partitioned into ParallelDegree partitions
	ParallelDegree int
	Partitions     [][2]int // Beginning and end index of partitions
}

func NewPartitionMap(ParallelDegree, maxIndex int) (pm *PartitionMap) {
	if ParallelDegree < 1 {
		ParallelDegree = 1
	}
	pm = &PartitionMap{
		MaxIndex:       maxIndex,
		ParallelDegree: ParallelDegree,
		Partitions:     make([][2]int, ParallelDegree),
	}
	for n := 0; n < ParallelDegree; n++ {
		pm.Partitions[n] = pm.Split1D(n)
	}
	return
}

func (pm *PartitionMap) GetBucketRange(bucketNum int) (kMin, kMax int) {
	kMin, kMax = pm.Partitions[bucketNum][0], pm.Partitions[bucketNum][1]
	return
}

func (pm *PartitionMap) Split1D(threadNum int) (bucket [2]int) {
	// Splits MaxIndex into ParallelDegree pieces with a maximum imbalance of one item
	var (
		Npart            = pm.MaxIndex / (pm.ParallelDegree)
		startAdd, endAdd int
		remainder        int
	)
	remainder = pm.MaxIndex % pm.ParallelDegree
	if remainder != 0 { // spread the remainder over the first chunks evenly
		if threadNum+1 > remainder {
			startAdd = remainder
			endAdd = 0
		} else {
			startAdd = threadNum
			endAdd = 1
		}
	}
	bucket[0] = threadNum*Npart + startAdd
	bucket[1] = bucket[0] + Npart + endAdd
	return
}

// ForEachBucket runs fn once per bucket, each in its own goroutine, and
// waits for all of them. fn must only write state owned by its bucket.
func (pm *PartitionMap) ForEachBucket(fn func(bn, kMin, kMax int)) {
	var wg sync.WaitGroup
	for np := 0; np < pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			kMin, kMax := pm.GetBucketRange(np)
			fn(np, kMin, kMax)
			wg.Done()
		}(np)
	}
	wg.Wait()
}
