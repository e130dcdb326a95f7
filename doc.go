// Package blobsort sorts binary files of fixed-width 32-bit unsigned values
// that are larger than available RAM.
//
// The input file is treated as a contiguous array of little-endian uint32
// words. Sorting is a recursive external merge sort: ranges small enough to
// fit one pooled buffer are read, sorted in memory, and spilled to a chunk
// file in a per-run temp workspace; larger ranges are halved, sorted
// concurrently, and combined with a streaming two-way merge. A fixed pool of
// buffers caps both peak memory and the number of in-flight leaf sorts, so
// resource usage stays constant regardless of input size.
//
// # Basic Usage
//
//	stats, err := blobsort.SortBlob32(ctx, "values.blob", "values.sorted")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("sorted %d bytes in %s\n", stats.BytesSorted, stats.Elapsed)
//
// Memory ceiling and parallelism are configurable:
//
//	stats, err := blobsort.SortBlob32(ctx, in, out,
//	    blobsort.WithMemoryLimit(512<<20),
//	    blobsort.WithParallelism(8),
//	    blobsort.WithVerify())
//
// # Package Structure
//
//   - Public API: blobsort.go (SortBlob32, Stats), verify.go (CheckSorted, MultisetDigest)
//   - Configuration: options.go (Option, With* functions)
//   - Core: pool.go (bounded buffer pool), chunk.go (leaf sort), merge.go (streaming merge)
//   - Lifecycle: workspace.go (per-run temp directory)
//   - Platform: fallocate_*.go, fadvise_*.go (OS-specific I/O hints)
package blobsort
