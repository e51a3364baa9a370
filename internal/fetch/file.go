package fetch

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// FileFetcher reads documents from the local filesystem.
type FileFetcher struct {
	// MaxBytes caps the decompressed size; zero disables the cap
	MaxBytes int64
}

// NewFileFetcher creates a file fetcher.
func NewFileFetcher(maxBytes int64) *FileFetcher {
	return &FileFetcher{MaxBytes: maxBytes}
}

// Fetch reads a bare path or file:// URL. Paths ending in .gz or .zst are decompressed.
func (f *FileFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := location
	if u, err := url.Parse(location); err == nil && strings.EqualFold(u.Scheme, "file") {
		path = u.Path
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open failed: %w", err)
	}
	defer file.Close()

	var reader io.Reader = file

	// Auto-detect compression
	switch {
	case strings.HasSuffix(path, ".gz"):
		gzReader, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("gzip failed: %w", err)
		}
		defer gzReader.Close()
		reader = gzReader
	case strings.HasSuffix(path, ".zst"):
		zstdReader, err := zstd.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("zstd failed: %w", err)
		}
		defer zstdReader.Close()
		reader = zstdReader
	}

	if f.MaxBytes > 0 {
		reader = io.LimitReader(reader, f.MaxBytes+1)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if f.MaxBytes > 0 && int64(len(data)) > f.MaxBytes {
		return nil, fmt.Errorf("read %s: %w", path, ErrTooLarge)
	}
	return data, nil
}
