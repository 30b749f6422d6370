// Package romloader reads ROM images from disk, unpacking them from ZIP,
// 7z, RAR, gzip or tar.gz archives when needed.
package romloader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Magic bytes for format detection
var (
	magicZIP    = []byte{0x50, 0x4B, 0x03, 0x04}
	magicZIPEnd = []byte{0x50, 0x4B, 0x05, 0x06} // empty zip
	magic7z     = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	magicGzip   = []byte{0x1F, 0x8B}
	magicRAR    = []byte{0x52, 0x61, 0x72, 0x21} // "Rar!"
)

// Largest ROM image accepted from disk or an archive.
const maxROMSize = 64 * 1024 * 1024

var (
	// ErrNoROMFile is returned when no ROM file is found in an archive
	ErrNoROMFile = errors.New("no ROM file found in archive")

	// ErrFileTooLarge is returned when content exceeds maxROMSize
	ErrFileTooLarge = errors.New("file exceeds maximum size limit")
)

type formatType int

const (
	formatRaw formatType = iota
	formatZIP
	format7z
	formatGzip
	formatTarGz
	formatRAR
)

var formatNames = map[formatType]string{
	formatRaw:   "raw",
	formatZIP:   "zip",
	format7z:    "7z",
	formatGzip:  "gzip",
	formatTarGz: "tar.gz",
	formatRAR:   "rar",
}

func (f formatType) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// Load reads the ROM at path. Archives are unpacked and the first file
// whose name ends in one of extensions (".sfc", ".gba", ...) is returned.
// An empty extension list takes the first file in the archive. A file whose
// own extension is in the list is never unpacked, since the core reads
// that format itself.
//
// Returns the ROM data and the base name of the file it came from.
func Load(path string, extensions []string) ([]byte, string, error) {
	header, err := readHeader(path)
	if err != nil {
		return nil, "", err
	}

	switch detectFormat(header, path, extensions) {
	case formatZIP:
		return extractFromZIP(path, extensions)
	case format7z:
		return extractFrom7z(path, extensions)
	case formatRAR:
		return extractFromRAR(path, extensions)
	case formatTarGz:
		return extractFromTarGz(path, extensions)
	case formatGzip:
		return decompressGzip(path)
	}

	data, err := ReadRaw(path)
	if err != nil {
		return nil, "", err
	}
	return data, filepath.Base(path), nil
}

// ReadRaw reads a file without archive detection.
func ReadRaw(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	data, err := limitedRead(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read ROM: %w", err)
	}
	return data, nil
}

func readHeader(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	header := make([]byte, 8)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("failed to read file header: %w", err)
	}
	return header[:n], nil
}

// detectFormat decides how to read path. A name matching one of the core's
// extensions wins, then magic bytes, then archive file extensions.
func detectFormat(header []byte, path string, extensions []string) formatType {
	lower := strings.ToLower(path)
	ext := filepath.Ext(lower)

	if slices.ContainsFunc(extensions, func(e string) bool { return strings.ToLower(e) == ext }) {
		return formatRaw
	}

	tarGz := strings.HasSuffix(lower, ".tar.gz") || ext == ".tgz"
	switch {
	case bytes.HasPrefix(header, magicZIP), bytes.HasPrefix(header, magicZIPEnd):
		return formatZIP
	case bytes.HasPrefix(header, magicRAR):
		return formatRAR
	case bytes.HasPrefix(header, magic7z):
		return format7z
	case bytes.HasPrefix(header, magicGzip) && tarGz:
		return formatTarGz
	case bytes.HasPrefix(header, magicGzip):
		return formatGzip
	}

	switch {
	case ext == ".zip":
		return formatZIP
	case ext == ".7z":
		return format7z
	case ext == ".rar":
		return formatRAR
	case tarGz:
		return formatTarGz
	case ext == ".gz":
		return formatGzip
	}
	return formatRaw
}

// isROMFile reports whether name ends in one of extensions. Every name
// matches an empty list.
func isROMFile(name string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// limitedRead reads from r up to maxROMSize bytes, returning an error if exceeded
func limitedRead(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxROMSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxROMSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
