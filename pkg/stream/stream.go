// Package stream provides the byte-sink and byte-source abstractions that
// log writers emit into: a buffered file sink, a growing in-memory buffer,
// and a null sink that discards everything.
package stream

import (
	"fmt"

	"github.com/skyforge/sdlog/pkg/codec"
)

// Output is a byte sink for log records. Write may accept fewer bytes than
// offered; callers that need the full payload on the wire use WriteAll.
// BeginSession and EndSession bracket one writer session on the sink.
type Output interface {
	BeginSession() error
	Write(p []byte) (int, error)
	Flush() error
	EndSession() error
	Close() error
}

// Input is a byte source. Read may legally return 0 bytes with a nil error
// when no data is available; end of stream is reported as codec.ErrEOF.
type Input interface {
	Read(p []byte) (int, error)
	Close() error
}

// WriteAll writes p in full, retrying partial writes until the byte count is
// satisfied. This is the only loop in the library that may block.
func WriteAll(out Output, p []byte) error {
	for len(p) > 0 {
		n, err := out.Write(p)
		if err != nil {
			return err
		}
		if n > len(p) {
			return fmt.Errorf("stream reported %d bytes written of %d: %w", n, len(p), codec.ErrWrite)
		}
		p = p[n:]
	}
	return nil
}
