package romloader

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
)

// archive walks the regular files of an archive in stored order.
type archive interface {
	// Next advances to the next file and returns its name, or io.EOF.
	Next() (string, error)
	// Open returns a reader over the current file.
	Open() (io.Reader, error)
	Close() error
}

// extract returns the first file in a that isROMFile accepts. a is closed.
func extract(a archive, extensions []string) ([]byte, string, error) {
	defer a.Close()

	for {
		name, err := a.Next()
		if errors.Is(err, io.EOF) {
			return nil, "", ErrNoROMFile
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to read archive entry: %w", err)
		}
		if !isROMFile(name, extensions) {
			continue
		}

		r, err := a.Open()
		if err != nil {
			return nil, "", fmt.Errorf("failed to open %s in archive: %w", name, err)
		}
		data, err := limitedRead(r)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", name, err)
		}
		return data, filepath.Base(name), nil
	}
}

// listedFile is an entry of an archive with a central directory.
type listedFile struct {
	name string
	open func() (io.ReadCloser, error)
}

// fileList adapts a directory-based archive (zip, 7z) to archive.
type fileList struct {
	files   []listedFile
	pos     int
	current io.ReadCloser
	closer  io.Closer
}

func newFileList(files []listedFile, closer io.Closer) *fileList {
	return &fileList{files: files, pos: -1, closer: closer}
}

func (l *fileList) Next() (string, error) {
	l.closeCurrent()
	l.pos++
	if l.pos >= len(l.files) {
		return "", io.EOF
	}
	return l.files[l.pos].name, nil
}

func (l *fileList) Open() (io.Reader, error) {
	l.closeCurrent()
	rc, err := l.files[l.pos].open()
	if err != nil {
		return nil, err
	}
	l.current = rc
	return rc, nil
}

func (l *fileList) Close() error {
	l.closeCurrent()
	return l.closer.Close()
}

func (l *fileList) closeCurrent() {
	if l.current != nil {
		l.current.Close()
		l.current = nil
	}
}

// stream adapts a sequential archive (rar, tar) to archive. next skips
// non-file entries and leaves r positioned at the returned file.
type stream struct {
	next   func() (string, error)
	r      io.Reader
	closer io.Closer
}

func (s *stream) Next() (string, error)    { return s.next() }
func (s *stream) Open() (io.Reader, error) { return s.r, nil }
func (s *stream) Close() error             { return s.closer.Close() }

// closers closes in order and returns the first error.
type closers []io.Closer

func (c closers) Close() error {
	var first error
	for _, cl := range c {
		if err := cl.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
