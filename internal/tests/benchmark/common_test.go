package benchmark

import (
	"fmt"
	"runtime"
	"strings"
	"testing"

	"github.com/yndnr/kvwire-go/pkg/resp"
)

// ValueSizes defines the bulk string sizes for benchmarking.
var ValueSizes = []int{16, 256, 4096, 65536}

// ArrayLengths defines the array lengths for benchmarking.
var ArrayLengths = []int{1, 16, 256, 4096}

// bulkArray builds an array of n bulk strings of size bytes each.
func bulkArray(n, size int) resp.Value {
	item := strings.Repeat("x", size)
	elems := make([]resp.Value, n)
	for i := range elems {
		elems[i] = resp.BulkString(item)
	}
	return resp.Array(elems...)
}

// nested builds an array nested depth levels deep.
func nested(depth int) resp.Value {
	v := resp.Int(1)
	for range depth {
		v = resp.Array(v, resp.SimpleString("OK"))
	}
	return v
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runWithSizes runs a benchmark function once per size.
func runWithSizes(b *testing.B, label string, sizes []int, benchFn func(b *testing.B, size int)) {
	for _, size := range sizes {
		b.Run(fmt.Sprintf("%s_%d", label, size), func(b *testing.B) {
			benchFn(b, size)
		})
	}
}
