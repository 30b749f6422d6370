package romloader

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nwaples/rardecode/v2"
)

// extractFromRAR extracts the first ROM file from a RAR archive
func extractFromRAR(path string, extensions []string) ([]byte, string, error) {
	r, err := rardecode.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open rar: %w", err)
	}

	next := func() (string, error) {
		for {
			header, err := r.Next()
			if err != nil {
				return "", err
			}
			if !header.IsDir {
				return header.Name, nil
			}
		}
	}
	return extract(&stream{next: next, r: r, closer: r}, extensions)
}

// extractFromTarGz extracts the first ROM file from a tar.gz archive
func extractFromTarGz(path string, extensions []string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open tar.gz: %w", err)
	}
	gr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, "", fmt.Errorf("failed to create gzip reader: %w", err)
	}

	tr := tar.NewReader(gr)
	next := func() (string, error) {
		for {
			header, err := tr.Next()
			if err != nil {
				return "", err
			}
			if header.Typeflag == tar.TypeReg {
				return header.Name, nil
			}
		}
	}
	return extract(&stream{next: next, r: tr, closer: closers{gr, f}}, extensions)
}

// decompressGzip treats a plain .gz as a single compressed ROM named after
// the archive minus its .gz suffix.
func decompressGzip(path string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open gzip: %w", err)
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gr.Close()

	data, err := limitedRead(gr)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decompress gzip: %w", err)
	}

	name := filepath.Base(path)
	if strings.HasSuffix(strings.ToLower(name), ".gz") {
		name = name[:len(name)-3]
	}
	return data, name, nil
}
