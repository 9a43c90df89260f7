// Package codec implements the record model and encoder for the ArduPilot
// self-describing binary log format.
//
// # Record Format
//
// Every record starts with the two sync bytes 0xA3 0x95 followed by the
// 8-bit message id and the column payload:
//
//	[0xA3][0x95][id][column 0][column 1]...[column n-1]
//
// Columns are fixed-width and little-endian. The column layout of a message
// id is declared by a MessageFormat, and a log stream carries those
// declarations itself as FMT records (message id 128), so a consumer needs
// no out-of-band schema.
//
// # Type Codes
//
// Each column is typed by a single character drawn from a closed set:
// integers of 1 to 8 bytes (b/B, h/H, i/I, q/Q), fixed-point integers
// (c/C, e/E, L), IEEE-754 floats (f, d), zero-padded strings (n, N, Z),
// the flight-mode byte (M), and the reserved array code (a), which cannot
// be encoded yet.
//
// # Usage
//
//	format, err := codec.NewMessageFormat(1, "GPS")
//	if err != nil {
//	    return err
//	}
//	if err := format.AddColumns("Lat,Lng,Alt", "LLf", "DU-"); err != nil {
//	    return err
//	}
//
//	buf := make([]byte, codec.MaxMessageLength)
//	n, err := codec.Encode(format, buf, []codec.Value{
//	    codec.Int(473566770), codec.Int(190252926), codec.Float64(118.5),
//	})
//
// # Error Handling
//
// Fallible operations return errors that are, or wrap, the package's
// sentinel errors, so callers can match failure classes with errors.Is.
// The numeric error codes and their messages are stable; see ErrorString.
package codec
