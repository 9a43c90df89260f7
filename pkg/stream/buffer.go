package stream

import "github.com/skyforge/sdlog/pkg/codec"

const initialBufferCapacity = 16

// Buffer is an Output that accumulates everything written to it in memory,
// growing by doubling from a 16-byte initial allocation.
type Buffer struct {
	data []byte
}

// NewBuffer creates an empty growing buffer.
func NewBuffer() *Buffer {
	return &Buffer{data: make([]byte, 0, initialBufferCapacity)}
}

func (b *Buffer) BeginSession() error {
	return nil
}

func (b *Buffer) Write(p []byte) (int, error) {
	for cap(b.data)-len(b.data) < len(p) {
		newCap := cap(b.data) * 2
		if newCap == 0 {
			newCap = initialBufferCapacity
		}
		grown := make([]byte, len(b.data), newCap)
		copy(grown, b.data)
		b.data = grown
	}
	b.data = append(b.data, p...)
	return len(p), nil
}

func (b *Buffer) Flush() error {
	return nil
}

func (b *Buffer) EndSession() error {
	return nil
}

func (b *Buffer) Close() error {
	b.data = nil
	return nil
}

// Bytes returns the accumulated contents. The slice aliases the internal
// buffer and is invalidated by the next Write; copy it to keep it.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the number of bytes written so far.
func (b *Buffer) Len() int {
	return len(b.data)
}

// BufferReader is an Input over an in-memory byte slice.
type BufferReader struct {
	data []byte
	pos  int
}

// NewBufferReader creates an Input reading from data.
func NewBufferReader(data []byte) *BufferReader {
	return &BufferReader{data: data}
}

func (r *BufferReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, codec.ErrEOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

func (r *BufferReader) Close() error {
	r.data = nil
	return nil
}
