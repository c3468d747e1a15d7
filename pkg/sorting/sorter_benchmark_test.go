package sorting

import (
	"fmt"
	"testing"

	"github.com/matst80/laser-finder/pkg/types"
)

func makeCatalog(n int) []*types.Machine {
	raws := make([]types.RawMachine, n)
	for i := range raws {
		raws[i] = types.RawMachine{
			"id":            fmt.Sprintf("%d", i),
			"Machine Name":  fmt.Sprintf("Machine %d", (i*7919)%n),
			"Price":         fmt.Sprintf("%d", (i*31)%5000),
			"Laser Power A": fmt.Sprintf("%dW", i%120),
			"Speed":         fmt.Sprintf("%d mm/s", (i*13)%2000),
		}
	}
	return types.NormalizeAll(raws)
}

func BenchmarkSortRecords(b *testing.B) {
	catalog := makeCatalog(500)
	for _, key := range []types.SortKey{types.SortPriceAsc, types.SortNameAsc} {
		b.Run(string(key), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				SortRecords(catalog, key)
			}
		})
	}
}
