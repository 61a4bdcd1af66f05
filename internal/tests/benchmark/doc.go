// Package benchmark provides performance benchmarks for kvwire.
//
// Run benchmarks with:
//
//	go test -bench=. -benchmem ./internal/tests/benchmark/...
//
// Run only the codec benchmarks:
//
//	go test -bench=BenchmarkRESP -benchmem -benchtime=5s ./internal/tests/benchmark/...
//
// Compare results:
//
//	benchstat old.txt new.txt
package benchmark
