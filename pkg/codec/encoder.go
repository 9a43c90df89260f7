package codec

import (
	"encoding/binary"
	"fmt"
	"math"
)

// recordHeaderSize is the sync header plus the message id byte.
const recordHeaderSize = 3

// Encode serializes one record into buf:
//
//	[0xA3][0x95][id][column 0]...[column n-1]
//
// Values are consumed positionally, one per column, and narrowed to each
// column's wire width. All multi-byte scalars are little-endian; floats are
// stored by their IEEE-754 bit pattern; strings are zero-padded to the fixed
// field width and truncated when longer. Encode never allocates; buf must be
// able to hold the full record. The return value is the number of bytes
// written, 3 plus the format's payload size.
func Encode(format *MessageFormat, buf []byte, values []Value) (int, error) {
	if len(buf) < recordHeaderSize+int(format.Size()) {
		return 0, fmt.Errorf("buffer too small for record: %w", ErrInvalid)
	}
	if len(values) != format.ColumnCount() {
		return 0, fmt.Errorf("format %q needs %d values, got %d: %w",
			format.Type(), format.ColumnCount(), len(values), ErrInvalid)
	}

	buf[0] = SyncByte0
	buf[1] = SyncByte1
	buf[2] = format.ID()

	written := recordHeaderSize
	for i, value := range values {
		column := format.Column(i)
		n, err := encodeColumn(buf[written:], column, value)
		if err != nil {
			return 0, fmt.Errorf("column %q: %w", column.Name, err)
		}
		written += n
	}

	return written, nil
}

func encodeColumn(dst []byte, column *ColumnFormat, value Value) (int, error) {
	switch column.Type {
	case 'b', 'B', 'M':
		if !value.isInteger() {
			return 0, ErrInvalid
		}
		dst[0] = byte(value.bits)
		return 1, nil

	case 'c', 'C', 'h', 'H':
		if !value.isInteger() {
			return 0, ErrInvalid
		}
		binary.LittleEndian.PutUint16(dst, uint16(value.bits))
		return 2, nil

	case 'e', 'E', 'L', 'i', 'I':
		if !value.isInteger() {
			return 0, ErrInvalid
		}
		binary.LittleEndian.PutUint32(dst, uint32(value.bits))
		return 4, nil

	case 'q', 'Q':
		if !value.isInteger() {
			return 0, ErrInvalid
		}
		binary.LittleEndian.PutUint64(dst, value.bits)
		return 8, nil

	case 'f':
		if value.kind != kindFloat {
			return 0, ErrInvalid
		}
		binary.LittleEndian.PutUint32(dst, math.Float32bits(float32(value.float())))
		return 4, nil

	case 'd':
		if value.kind != kindFloat {
			return 0, ErrInvalid
		}
		binary.LittleEndian.PutUint64(dst, value.bits)
		return 8, nil

	case 'n', 'N', 'Z':
		if value.kind != kindString {
			return 0, ErrInvalid
		}
		width := int(SizeOf(column.Type))
		for i := 0; i < width; i++ {
			dst[i] = 0
		}
		copy(dst[:width], value.str)
		return width, nil

	case 'a':
		return 0, ErrUnimplemented

	default:
		return 0, ErrInvalid
	}
}
