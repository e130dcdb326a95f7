// blobsort sorts a binary file of little-endian uint32 values using bounded
// memory, spilling intermediate chunks to a temp directory.
//
// Usage:
//
//	blobsort [flags] <input> <output>
//	blobsort -gen 1000000 <output>
//
// Flags may also come from a YAML config file:
//
//	blobsort -config sort.yaml big.blob big.sorted
//
// where sort.yaml looks like:
//
//	memory_limit_mb: 512
//	parallelism: 8
//	temp_dir: /mnt/scratch
//	max_input_gb: 32
//
// Flags given on the command line override the config file.
package main

import (
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/tamirms/blobsort"
	"gopkg.in/yaml.v2"
)

type fileConfig struct {
	MemoryLimitMB int64  `yaml:"memory_limit_mb"`
	Parallelism   int    `yaml:"parallelism"`
	TempDir       string `yaml:"temp_dir"`
	MaxInputGB    int64  `yaml:"max_input_gb"`
}

func main() {
	memMB := flag.Int64("mem", 0, "memory limit in MB (default 256)")
	parallel := flag.Int("parallel", 0, "parallelism hint (default: number of CPUs)")
	tmpDir := flag.String("tmp", "", "parent directory for the temp workspace (default: system temp dir)")
	verify := flag.Bool("verify", false, "re-read the output and verify order and content")
	configPath := flag.String("config", "", "YAML config file")
	genCount := flag.Int64("gen", 0, "write N random values to <output> instead of sorting")
	verbose := flag.Bool("v", false, "log each merge")
	flag.Parse()

	if *genCount > 0 {
		if flag.NArg() != 1 {
			usage()
		}
		if err := generate(flag.Arg(0), *genCount); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if flag.NArg() != 2 {
		usage()
	}

	var opts []blobsort.Option
	if *configPath != "" {
		fromFile, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		opts = append(opts, fromFile...)
	}
	// Command-line flags override the config file.
	if *memMB > 0 {
		opts = append(opts, blobsort.WithMemoryLimit(*memMB<<20))
	}
	if *parallel > 0 {
		opts = append(opts, blobsort.WithParallelism(*parallel))
	}
	if *tmpDir != "" {
		opts = append(opts, blobsort.WithTempDir(*tmpDir))
	}
	if *verify {
		opts = append(opts, blobsort.WithVerify())
	}
	if *verbose {
		opts = append(opts, blobsort.WithLogger(log.New(os.Stderr, "", log.LstdFlags)))
	}

	stats, err := blobsort.SortBlob32(context.Background(), flag.Arg(0), flag.Arg(1), opts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("Finished: %d bytes in %s (%d leaf sorts, %d merges, %d×%dKB buffers)\n",
		stats.BytesSorted, stats.Elapsed, stats.LeafSorts, stats.Merges,
		stats.BufferCount, stats.BufferSize>>10)
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: blobsort [flags] <input> <output>")
	fmt.Fprintln(os.Stderr, "       blobsort -gen N <output>")
	flag.PrintDefaults()
	os.Exit(2)
}

func loadConfig(path string) ([]blobsort.Option, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var fc fileConfig
	if err := yaml.UnmarshalStrict(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	var opts []blobsort.Option
	if fc.MemoryLimitMB > 0 {
		opts = append(opts, blobsort.WithMemoryLimit(fc.MemoryLimitMB<<20))
	}
	if fc.Parallelism > 0 {
		opts = append(opts, blobsort.WithParallelism(fc.Parallelism))
	}
	if fc.TempDir != "" {
		opts = append(opts, blobsort.WithTempDir(fc.TempDir))
	}
	if fc.MaxInputGB > 0 {
		opts = append(opts, blobsort.WithMaxInputSize(fc.MaxInputGB<<30))
	}
	return opts, nil
}

// generate writes n random uint32 values to path, for producing test blobs.
func generate(path string, n int64) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	var word [4]byte
	buf := make([]byte, 0, 1<<16)
	for i := int64(0); i < n; i++ {
		binary.LittleEndian.PutUint32(word[:], rand.Uint32())
		buf = append(buf, word[:]...)
		if len(buf) == cap(buf) {
			if _, err := f.Write(buf); err != nil {
				f.Close()
				return fmt.Errorf("write %s: %w", path, err)
			}
			buf = buf[:0]
		}
	}
	if len(buf) > 0 {
		if _, err := f.Write(buf); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	fmt.Printf("Wrote %d values (%d bytes) to %s\n", n, n*4, path)
	return nil
}
