// Package writer emits self-describing binary logs. A Writer tracks which
// message formats have already been announced on its stream and lazily
// precedes the first record of every format with an FMT record describing
// its column layout, so the resulting stream carries its own schema.
package writer

import (
	"fmt"

	"github.com/skyforge/sdlog/pkg/codec"
	"github.com/skyforge/sdlog/pkg/stream"
)

// AnnounceFunc observes every message format the moment its FMT record is
// written. Used to mirror announcements into a format registry.
type AnnounceFunc func(format *codec.MessageFormat)

// Option configures a Writer.
type Option func(*Writer)

// WithAnnounceFunc installs an announcement observer.
func WithAnnounceFunc(fn AnnounceFunc) Option {
	return func(w *Writer) {
		w.announce = fn
	}
}

// Writer is a session-scoped record emitter. It owns a scratch buffer and
// the built-in FMT meta-format, and shares its output stream by reference.
//
// Announced formats are keyed by pointer identity, not structural equality:
// rebuilding a format for the same message id makes the writer re-announce
// it, which is the only way to redefine an id mid-stream. The writer never
// diffs column sets. Caller-supplied formats must outlive the writer's use
// of them and must not be mutated in between writes.
//
// A Writer and its stream belong to one goroutine at a time; there is no
// internal locking.
type Writer struct {
	out        stream.Output
	hasSession bool
	buf        []byte
	formats    [codec.NumMessageFormats]*codec.MessageFormat
	fmtFormat  *codec.MessageFormat
	announce   AnnounceFunc
}

// New creates a writer over the given output stream.
func New(out stream.Output, opts ...Option) (*Writer, error) {
	fmtFormat, err := codec.FMTMessageFormat()
	if err != nil {
		return nil, err
	}

	w := &Writer{
		out:       out,
		buf:       make([]byte, codec.MaxMessageLength),
		fmtFormat: fmtFormat,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Write encodes one record against format and writes it to the stream,
// preceded by an FMT record if this format has not been announced yet.
//
// A failing sub-operation aborts the write and is returned as-is; the
// session stays open and the stream may be left mid-record. The caller
// decides whether to End or abandon the writer.
func (w *Writer) Write(format *codec.MessageFormat, values ...codec.Value) error {
	if err := w.ensureSession(); err != nil {
		return err
	}
	if err := w.ensureAnnounced(format); err != nil {
		return err
	}

	n, err := codec.Encode(format, w.buf, values)
	if err != nil {
		return err
	}
	return stream.WriteAll(w.out, w.buf[:n])
}

// WriteEncoded writes a pre-encoded record verbatim, applying the same
// session and announcement logic as Write. A length of zero substitutes the
// canonical record size of the format, header included.
func (w *Writer) WriteEncoded(format *codec.MessageFormat, record []byte, length int) error {
	if length == 0 {
		length = int(format.Size()) + 3
	}
	if length > len(record) {
		return fmt.Errorf("encoded record is %d bytes, need %d: %w", len(record), length, codec.ErrInvalid)
	}

	if err := w.ensureSession(); err != nil {
		return err
	}
	if err := w.ensureAnnounced(format); err != nil {
		return err
	}

	return stream.WriteAll(w.out, record[:length])
}

// Flush forces pending bytes down to the stream.
func (w *Writer) Flush() error {
	return w.out.Flush()
}

// End flushes and closes the current session on the stream. It is
// idempotent: without an open session it does nothing.
func (w *Writer) End() error {
	if !w.hasSession {
		return nil
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if err := w.out.EndSession(); err != nil {
		return err
	}
	w.hasSession = false
	return nil
}

// Close ends the session if one is active and releases the writer's
// resources. The output stream itself is the caller's to close.
func (w *Writer) Close() error {
	err := w.End()
	w.buf = nil
	for i := range w.formats {
		w.formats[i] = nil
	}
	return err
}

func (w *Writer) ensureSession() error {
	if w.hasSession {
		return nil
	}
	if err := w.out.BeginSession(); err != nil {
		return err
	}
	w.hasSession = true
	return nil
}

func (w *Writer) ensureAnnounced(format *codec.MessageFormat) error {
	if w.formats[format.ID()] == format {
		return nil
	}
	if err := w.writeFormat(format); err != nil {
		return err
	}
	w.formats[format.ID()] = format
	if w.announce != nil {
		w.announce(format)
	}
	return nil
}

// writeFormat emits the FMT record describing format. Length is the total
// size of one future record of the format, including its 3-byte header.
func (w *Writer) writeFormat(format *codec.MessageFormat) error {
	n, err := codec.Encode(w.fmtFormat, w.buf, []codec.Value{
		codec.Uint(uint64(format.ID())),
		codec.Uint(uint64(format.Size()) + 3),
		codec.Str(format.Type()),
		codec.Str(format.FormatString()),
		codec.Str(format.ColumnNames(",")),
	})
	if err != nil {
		return err
	}
	return stream.WriteAll(w.out, w.buf[:n])
}
