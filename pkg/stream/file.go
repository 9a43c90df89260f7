package stream

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/skyforge/sdlog/pkg/codec"
)

const defaultBufferSize = 4096

// File is a buffered Output over an open file. The caller owns the file
// handle: Close flushes pending bytes but leaves the handle open.
type File struct {
	f   *os.File
	buf []byte
	n   int
}

// NewFile wraps an open file with the default write buffer.
func NewFile(f *os.File) *File {
	return NewFileSize(f, defaultBufferSize)
}

// NewFileSize wraps an open file with a write buffer of the given size.
func NewFileSize(f *os.File, size int) *File {
	if size <= 0 {
		size = defaultBufferSize
	}
	return &File{f: f, buf: make([]byte, size)}
}

func (s *File) BeginSession() error {
	return nil
}

func (s *File) Write(p []byte) (int, error) {
	// Large payloads bypass the buffer once pending bytes are out.
	if len(p) >= len(s.buf) {
		if err := s.Flush(); err != nil {
			return 0, err
		}
		n, err := s.f.Write(p)
		if err != nil {
			return n, fmt.Errorf("%w: %v", codec.ErrWrite, err)
		}
		return n, nil
	}

	if s.n+len(p) > len(s.buf) {
		if err := s.Flush(); err != nil {
			return 0, err
		}
	}

	copy(s.buf[s.n:], p)
	s.n += len(p)
	return len(p), nil
}

// Flush drains the write buffer into the file.
func (s *File) Flush() error {
	if s.n == 0 {
		return nil
	}
	if _, err := s.f.Write(s.buf[:s.n]); err != nil {
		return fmt.Errorf("%w: %v", codec.ErrWrite, err)
	}
	s.n = 0
	return nil
}

// Sync flushes the buffer and fsyncs the file to stable storage.
func (s *File) Sync() error {
	if err := s.Flush(); err != nil {
		return err
	}
	if err := s.f.Sync(); err != nil {
		return fmt.Errorf("%w: %v", codec.ErrIO, err)
	}
	return nil
}

func (s *File) EndSession() error {
	return s.Flush()
}

func (s *File) Close() error {
	return s.Flush()
}

// FileReader is an Input over an open file. A short read that still delivers
// bytes reports success; end of file surfaces only on the subsequent
// zero-byte read, so callers always see the data before the EOF.
type FileReader struct {
	f *os.File
}

// NewFileReader wraps an open file. The caller owns the file handle.
func NewFileReader(f *os.File) *FileReader {
	return &FileReader{f: f}
}

func (r *FileReader) Read(p []byte) (int, error) {
	n, err := r.f.Read(p)
	if n > 0 {
		return n, nil
	}
	if errors.Is(err, io.EOF) {
		return 0, codec.ErrEOF
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", codec.ErrRead, err)
	}
	return 0, nil
}

func (r *FileReader) Close() error {
	return nil
}
