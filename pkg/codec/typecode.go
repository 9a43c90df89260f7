package codec

// Wire-format limits. Records larger than MaxMessageLength cannot be
// represented, so message format construction rejects column sets that
// would push an encoded record past it.
const (
	// MaxMessageLength is the maximum size of one encoded record,
	// including the three-byte sync+id header.
	MaxMessageLength = 256

	// NumMessageFormats is the size of the message id space.
	NumMessageFormats = 256

	// IDFmt is the message id reserved for FMT records, the records that
	// describe the column layout of every other message id in a log.
	IDFmt = 128

	// MaxMessageTypeLength is the maximum length of a message type name.
	MaxMessageTypeLength = 4
)

// Sync header bytes that begin every record (little-endian 0x95A3).
const (
	SyncByte0 = 0xA3
	SyncByte1 = 0x95
)

// SizeOf returns the encoded width in bytes of a column type code.
// Unknown type codes map to zero, which is what column construction uses
// to reject them.
func SizeOf(code byte) uint8 {
	switch code {
	case 'b', // int8
		'B', // uint8
		'M': // flight mode, stored as uint8
		return 1
	case 'c', // fixed-point int16 x 0.01
		'C', // fixed-point uint16 x 0.01
		'h', // int16
		'H': // uint16
		return 2
	case 'e', // fixed-point int32 x 0.01
		'E', // fixed-point uint32 x 0.01
		'f', // IEEE binary32
		'i', // int32
		'I', // uint32
		'L', // int32 x 1e-7, geodetic coordinates
		'n': // string, max length 4
		return 4
	case 'd', // IEEE binary64
		'q', // int64
		'Q': // uint64
		return 8
	case 'N': // string, max length 16
		return 16
	case 'a', // int16[32], reserved
		'Z': // string, max length 64
		return 64
	default:
		return 0
	}
}
