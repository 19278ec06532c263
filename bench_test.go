package rxio

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/DataDog/zstd"
)

// compression selects how benchmark input is stored on disk.
type compression int

const (
	noCompression compression = iota
	gzipCompression
	zstdCompression
)

func (c compression) String() string {
	switch c {
	case gzipCompression:
		return "gzip"
	case zstdCompression:
		return "zstd"
	default:
		return "plain"
	}
}

// generateBenchFile writes lines log lines of roughly 100 bytes each.
func generateBenchFile(b *testing.B, lines int, c compression) string {
	b.Helper()

	name := "bench.log"
	switch c {
	case gzipCompression:
		name += ".gz"
	case zstdCompression:
		name += ".zst"
	}
	path := filepath.Join(b.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		b.Fatalf("creating %s: %v", path, err)
	}
	defer f.Close()

	var w io.WriteCloser = nopWriteCloser{f}
	switch c {
	case gzipCompression:
		w = gzip.NewWriter(f)
	case zstdCompression:
		w = zstd.NewWriterLevel(f, zstd.DefaultCompression)
	}
	bw := bufio.NewWriter(w)
	for i := 0; i < lines; i++ {
		fmt.Fprintf(bw, "2025-06-01T12:%02d:%02d INFO worker=%03d request=%08d status=ok latency=%dms\n",
			i/60%60, i%60, i%128, i, i%997)
	}
	if err := bw.Flush(); err != nil {
		b.Fatalf("writing %s: %v", path, err)
	}
	if err := w.Close(); err != nil {
		b.Fatalf("closing %s: %v", path, err)
	}
	return path
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func BenchmarkLines(b *testing.B) {
	for _, c := range []compression{noCompression, gzipCompression, zstdCompression} {
		path := generateBenchFile(b, 100_000, c)
		st, err := os.Stat(path)
		if err != nil {
			b.Fatal(err)
		}
		for _, chunkSize := range []int{4096, DefaultChunkSize} {
			b.Run(fmt.Sprintf("%s/chunk=%d", c, chunkSize), func(b *testing.B) {
				opts := Options{ChunkSize: chunkSize, Decompress: c != noCompression}
				b.SetBytes(st.Size())
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					lines, err := collect(Lines(path, opts))
					if err != nil {
						b.Fatal(err)
					}
					if len(lines) != 100_000 {
						b.Fatalf("expected 100000 lines, got %d", len(lines))
					}
				}
			})
		}
	}
}

func BenchmarkReadAll(b *testing.B) {
	path := generateBenchFile(b, 100_000, noCompression)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := ReadAllContext(context.Background(), path, Options{}).Result(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkWriteLines(b *testing.B) {
	lines := make([]string, 10_000)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %05d of the write benchmark", i)
	}
	dir := b.TempDir()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		path := filepath.Join(dir, fmt.Sprintf("out-%d.txt", i))
		if _, err := WriteLines(path, lines).Result(); err != nil {
			b.Fatal(err)
		}
	}
}
