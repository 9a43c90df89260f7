package codec

import (
	"fmt"
	"strings"
)

// MessageFormat is an ordered list of columns identified by a numeric message
// id and a short type name. Formats are built once by the caller, handed to a
// writer by reference, and must not be mutated while a writer still refers to
// them.
type MessageFormat struct {
	id      uint8
	mtype   string
	columns []ColumnFormat
}

// NewMessageFormat creates an empty message format. The type name must be at
// most four ASCII characters. Id 128 is reserved for the built-in FMT
// meta-format and is rejected here.
func NewMessageFormat(id uint8, mtype string) (*MessageFormat, error) {
	if len(mtype) > MaxMessageTypeLength {
		return nil, fmt.Errorf("message type %q too long: %w", mtype, ErrInvalid)
	}
	if id == IDFmt {
		return nil, fmt.Errorf("message id %d is reserved for FMT records: %w", id, ErrInvalid)
	}
	return &MessageFormat{
		id:      id,
		mtype:   mtype,
		columns: make([]ColumnFormat, 0, 4),
	}, nil
}

// FMTMessageFormat builds the meta-format used to serialize FMT records:
// Type(B), Length(B), Name(n), Format(N), Columns(Z) under id 128.
func FMTMessageFormat() (*MessageFormat, error) {
	f := &MessageFormat{
		id:      IDFmt,
		mtype:   "FMT",
		columns: make([]ColumnFormat, 0, 4),
	}
	if err := f.AddColumns("Type,Length,Name,Format,Columns", "BBnNZ", "-----"); err != nil {
		return nil, err
	}
	return f, nil
}

// ID returns the message id.
func (f *MessageFormat) ID() uint8 {
	return f.id
}

// Type returns the message type name.
func (f *MessageFormat) Type() string {
	return f.mtype
}

// ColumnCount returns the number of columns added so far.
func (f *MessageFormat) ColumnCount() int {
	return len(f.columns)
}

// Column returns the i-th column, or nil beyond bounds.
func (f *MessageFormat) Column(i int) *ColumnFormat {
	if i < 0 || i >= len(f.columns) {
		return nil
	}
	return &f.columns[i]
}

// Size returns the encoded payload size of one record of this format,
// excluding the three-byte sync+id header.
func (f *MessageFormat) Size() uint16 {
	var total uint16
	for i := range f.columns {
		total += uint16(f.columns[i].Size())
	}
	return total
}

// FormatString returns the concatenation of the column type codes, in order.
func (f *MessageFormat) FormatString() string {
	var b strings.Builder
	b.Grow(len(f.columns))
	for i := range f.columns {
		b.WriteByte(f.columns[i].Type)
	}
	return b.String()
}

// ColumnNames returns the column names joined by sep.
func (f *MessageFormat) ColumnNames(sep string) string {
	var b strings.Builder
	for i := range f.columns {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(f.columns[i].Name)
	}
	return b.String()
}

// AddColumn appends one column. It fails with an invalid-value error for an
// unknown type code, and with a limit error when the column count would
// exceed 255 or the encoded record would no longer fit MaxMessageLength.
func (f *MessageFormat) AddColumn(name string, typ, unit byte) error {
	if len(f.columns) == NumMessageFormats-1 {
		return fmt.Errorf("column count: %w", ErrLimit)
	}

	column, err := NewColumnFormat(name, typ, unit)
	if err != nil {
		return fmt.Errorf("column %q: %w", name, err)
	}

	if int(f.Size())+int(column.Size())+recordHeaderSize > MaxMessageLength {
		return fmt.Errorf("record size would exceed %d bytes: %w", MaxMessageLength, ErrLimit)
	}

	if len(f.columns) == cap(f.columns) {
		if err := f.grow(); err != nil {
			return err
		}
	}

	f.columns = append(f.columns, column)
	return nil
}

// grow widens the column storage: doubling while small, then in steps of 16,
// never past the 255-column ceiling.
func (f *MessageFormat) grow() error {
	newCap := cap(f.columns) * 2
	if cap(f.columns) >= 32 {
		newCap = cap(f.columns) + 16
	}
	if newCap > NumMessageFormats-1 {
		return fmt.Errorf("column capacity: %w", ErrLimit)
	}

	grown := make([]ColumnFormat, len(f.columns), newCap)
	copy(grown, f.columns)
	f.columns = grown
	return nil
}

// AddColumns appends a batch of columns. names is a comma-separated list;
// types is a character sequence whose length determines the column count;
// units is aligned to types and padded with '-' when shorter. When names runs
// out of commas, the final segment is consumed for the next column and any
// further columns get an empty name.
//
// The batch is not transactional: columns added before a failing one remain.
// Callers that need all-or-nothing semantics must rebuild the format.
func (f *MessageFormat) AddColumns(names, types, units string) error {
	if NumMessageFormats-1-len(f.columns) < len(types) {
		return fmt.Errorf("column count: %w", ErrLimit)
	}

	rest := names
	exhausted := false
	for i := 0; i < len(types); i++ {
		var name string
		switch {
		case exhausted:
			name = ""
		default:
			if j := strings.IndexByte(rest, ','); j >= 0 {
				name, rest = rest[:j], rest[j+1:]
			} else {
				name, exhausted = rest, true
			}
		}

		unit := byte('-')
		if i < len(units) {
			unit = units[i]
		}

		if err := f.AddColumn(name, types[i], unit); err != nil {
			return err
		}
	}

	return nil
}
