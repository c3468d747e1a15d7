package facet

import (
	"cmp"
	"slices"

	"github.com/matst80/laser-finder/pkg/types"
)

// BucketBits sets the histogram bucket width to 1<<BucketBits.
const BucketBits = 9

// MaxBucketValue bounds the values a Histogram accepts. Larger values, along
// with negative, NaN and infinite ones, are not counted.
const MaxBucketValue = float64(1 << 40)

func bucketable(v float64) bool {
	return v >= 0 && v < MaxBucketValue
}

func GetBucket[V float64 | int | float32](value V) int {
	return int(value) >> BucketBits
}

type BucketCount struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// Histogram counts valid values per bucket.
type Histogram struct {
	counts map[int]int
}

func (h *Histogram) add(n types.Number) {
	if !n.Valid || !bucketable(n.Value) {
		return
	}
	if h.counts == nil {
		h.counts = make(map[int]int)
	}
	h.counts[GetBucket(n.Value)]++
}

// Buckets returns the non empty buckets in ascending order.
func (h Histogram) Buckets() []BucketCount {
	keys := make([]int, 0, len(h.counts))
	for k := range h.counts {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, cmp.Compare[int])
	ret := make([]BucketCount, 0, len(keys))
	for _, k := range keys {
		ret = append(ret, BucketCount{
			Min:   float64(k << BucketBits),
			Max:   float64((k + 1) << BucketBits),
			Count: h.counts[k],
		})
	}
	return ret
}
