package romloader

import (
	"archive/zip"
	"fmt"

	"github.com/bodgit/sevenzip"
)

// extractFromZIP extracts the first ROM file from a ZIP archive
func extractFromZIP(path string, extensions []string) ([]byte, string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open zip: %w", err)
	}

	var files []listedFile
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		files = append(files, listedFile{name: f.Name, open: f.Open})
	}
	return extract(newFileList(files, r), extensions)
}

// extractFrom7z extracts the first ROM file from a 7z archive
func extractFrom7z(path string, extensions []string) ([]byte, string, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open 7z: %w", err)
	}

	var files []listedFile
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		files = append(files, listedFile{name: f.Name, open: f.Open})
	}
	return extract(newFileList(files, r), extensions)
}
