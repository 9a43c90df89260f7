package stream

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/skyforge/sdlog/pkg/codec"
)

func TestBufferAccumulates(t *testing.T) {
	b := NewBuffer()

	payloads := [][]byte{
		[]byte("one"),
		[]byte(""),
		bytes.Repeat([]byte{0xAB}, 100), // forces several doublings
		[]byte{0xA3, 0x95},
	}

	var want []byte
	for _, p := range payloads {
		n, err := b.Write(p)
		if err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if n != len(p) {
			t.Fatalf("Write = %d, want %d", n, len(p))
		}
		want = append(want, p...)
	}

	if !bytes.Equal(b.Bytes(), want) {
		t.Errorf("buffer contents mismatch: got %d bytes, want %d", b.Len(), len(want))
	}
}

func TestBufferReader(t *testing.T) {
	r := NewBufferReader([]byte("abcdef"))

	p := make([]byte, 4)
	n, err := r.Read(p)
	if err != nil || n != 4 || string(p[:n]) != "abcd" {
		t.Fatalf("first read: n=%d err=%v p=%q", n, err, p[:n])
	}

	n, err = r.Read(p)
	if err != nil || n != 2 || string(p[:n]) != "ef" {
		t.Fatalf("second read: n=%d err=%v", n, err)
	}

	if _, err := r.Read(p); !errors.Is(err, codec.ErrEOF) {
		t.Fatalf("expected ErrEOF, got %v", err)
	}
}

func TestNullDiscards(t *testing.T) {
	n := NewNull()
	if err := n.BeginSession(); err != nil {
		t.Fatal(err)
	}
	if w, err := n.Write(make([]byte, 1000)); err != nil || w != 1000 {
		t.Fatalf("Write = %d, %v", w, err)
	}
	if err := n.Flush(); err != nil {
		t.Fatal(err)
	}
	if err := n.EndSession(); err != nil {
		t.Fatal(err)
	}
	if err := n.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestFileWriteAndReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		t.Fatal(err)
	}

	s := NewFileSize(f, 8) // buffer smaller than the payload, so the write bypasses it
	payload := []byte("0123456789abcdef0123")
	if err := WriteAll(s, payload); err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}
	if err := s.Sync(); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("file contents = %q, want %q", got, payload)
	}
}

func TestFileReaderEOFAfterData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.bin")
	if err := os.WriteFile(path, []byte("abc"), 0600); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	r := NewFileReader(f)

	// A read that drains the file still reports success; the EOF surfaces
	// on the next call.
	p := make([]byte, 16)
	n, err := r.Read(p)
	if err != nil || n != 3 {
		t.Fatalf("first read: n=%d err=%v", n, err)
	}
	if _, err := r.Read(p); !errors.Is(err, codec.ErrEOF) {
		t.Fatalf("expected ErrEOF on second read, got %v", err)
	}
}

// shortWriter accepts at most two bytes per call.
type shortWriter struct {
	Buffer
}

func (s *shortWriter) Write(p []byte) (int, error) {
	if len(p) > 2 {
		p = p[:2]
	}
	return s.Buffer.Write(p)
}

func TestWriteAllRetriesPartialWrites(t *testing.T) {
	s := &shortWriter{}
	payload := []byte("a longer payload than two bytes")

	if err := WriteAll(s, payload); err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}
	if !bytes.Equal(s.Bytes(), payload) {
		t.Errorf("sink contents = %q", s.Bytes())
	}
}

// overWriter claims more bytes than offered.
type overWriter struct{ Null }

func (overWriter) Write(p []byte) (int, error) {
	return len(p) + 1, nil
}

func TestWriteAllRejectsOverclaim(t *testing.T) {
	if err := WriteAll(&overWriter{}, []byte("x")); !errors.Is(err, codec.ErrWrite) {
		t.Fatalf("expected ErrWrite, got %v", err)
	}
}
