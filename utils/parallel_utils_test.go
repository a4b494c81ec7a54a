package utils

import (
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	{ // Bucket sizes differ by at most one and cover every index
		getHisto := func(K, Np int) (histo map[int]int) {
			pm := NewPartitionMap(Np, K)
			histo = make(map[int]int)
			for np := 0; np < pm.ParallelDegree; np++ {
				kMin, kMax := pm.GetBucketRange(np)
				histo[kMax-kMin]++
			}
			return
		}
		getTotal := func(histo map[int]int) (total int) {
			for key, count := range histo {
				total += key * count
			}
			return
		}
		assert.Equal(t, map[int]int{0: 30, 1: 2}, getHisto(2, 32))
		assert.Equal(t, map[int]int{1: 32}, getHisto(32, 32))
		assert.Equal(t, map[int]int{8: 32}, getHisto(256, 32))
		assert.Equal(t, map[int]int{8: 1, 9: 31}, getHisto(287, 32))
		assert.Equal(t, 287, getTotal(getHisto(287, 32)))
		for n := 64; n < 2000; n++ {
			var (
				keys   [2]float64
				keyNum int
			)
			histo := getHisto(n, 32)
			for key := range histo {
				keys[keyNum] = float64(key)
				keyNum++
			}
			if keyNum == 2 {
				assert.Equal(t, 1., math.Abs(keys[0]-keys[1]))
			}
			assert.Equal(t, n, getTotal(histo))
		}
	}
	{ // Buckets are contiguous and ordered
		pm := NewPartitionMap(5, 23)
		next := 0
		for bn := 0; bn < pm.ParallelDegree; bn++ {
			kMin, kMax := pm.GetBucketRange(bn)
			assert.Equal(t, next, kMin)
			next = kMax
		}
		assert.Equal(t, 23, next)
	}
}

func TestForEachBucket(t *testing.T) {
	var (
		pm      = NewPartitionMap(7, 100)
		visited = make([]int32, 100)
		calls   int32
	)
	pm.ForEachBucket(func(bn, kMin, kMax int) {
		atomic.AddInt32(&calls, 1)
		for k := kMin; k < kMax; k++ {
			visited[k]++
		}
	})
	assert.Equal(t, int32(7), calls)
	for k, v := range visited {
		assert.Equal(t, int32(1), v, "index %d", k)
	}
}

func TestParallelDegree(t *testing.T) {
	assert.Equal(t, 3, ParallelDegree(3, 10))
	assert.Equal(t, 1, ParallelDegree(3, 2))
	assert.GreaterOrEqual(t, ParallelDegree(0, 1<<20), 1)
}
