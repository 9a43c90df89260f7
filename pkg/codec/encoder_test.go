package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func mustFormat(t *testing.T, id uint8, mtype, names, types, units string) *MessageFormat {
	t.Helper()
	f, err := NewMessageFormat(id, mtype)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.AddColumns(names, types, units); err != nil {
		t.Fatal(err)
	}
	return f
}

func TestEncodeIntegerRecord(t *testing.T) {
	f := mustFormat(t, 1, "INT", "s8,u8,s16,u16,s32,u32,s64,u64", "bBhHiIqQ", "--------")

	buf := make([]byte, MaxMessageLength)
	n, err := Encode(f, buf, []Value{
		Int(0x0badcafe), Uint(0xdeadbeef), Int(0x0badcafe), Uint(0xdeadbeef),
		Int(0x0badcafe), Uint(0xdeadbeef), Int(0x0badcafe), Uint(0xdeadbeef),
	})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	want := []byte{
		0xA3, 0x95, 0x01,
		0xfe,
		0xef,
		0xfe, 0xca,
		0xef, 0xbe,
		0xfe, 0xca, 0xad, 0x0b,
		0xef, 0xbe, 0xad, 0xde,
		0xfe, 0xca, 0xad, 0x0b, 0x00, 0x00, 0x00, 0x00,
		0xef, 0xbe, 0xad, 0xde, 0x00, 0x00, 0x00, 0x00,
	}
	if n != len(want) {
		t.Fatalf("written = %d, want %d", n, len(want))
	}
	if n != 3+int(f.Size()) {
		t.Fatalf("written = %d, want 3+%d", n, f.Size())
	}
	if !bytes.Equal(buf[:n], want) {
		t.Errorf("encoded record:\n got %x\nwant %x", buf[:n], want)
	}
}

func TestEncodeFloatRecord(t *testing.T) {
	f := mustFormat(t, 2, "FLT", "float,double", "fd", "--")

	buf := make([]byte, MaxMessageLength)
	n, err := Encode(f, buf, []Value{Float64(0.125), Float64(0.25)})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	want := []byte{
		0xA3, 0x95, 0x02,
		0x00, 0x00, 0x00, 0x3e,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xd0, 0x3f,
	}
	if !bytes.Equal(buf[:n], want) {
		t.Errorf("encoded record:\n got %x\nwant %x", buf[:n], want)
	}
}

func TestEncodeFloatRoundTrip(t *testing.T) {
	f := mustFormat(t, 3, "FPR", "f32,f64", "fd", "")

	inputs := []struct{ f32, f64 float64 }{
		{0, 0},
		{1.5, -2.25},
		{float64(float32(math.Pi)), math.Pi},
		{math.MaxFloat32, math.MaxFloat64},
		{-0.0, math.SmallestNonzeroFloat64},
	}

	buf := make([]byte, MaxMessageLength)
	for _, in := range inputs {
		n, err := Encode(f, buf, []Value{Float64(in.f32), Float64(in.f64)})
		if err != nil {
			t.Fatalf("Encode(%v) failed: %v", in, err)
		}
		if n != 3+4+8 {
			t.Fatalf("written = %d", n)
		}

		gotF32 := math.Float32frombits(binary.LittleEndian.Uint32(buf[3:]))
		gotF64 := math.Float64frombits(binary.LittleEndian.Uint64(buf[7:]))
		if gotF32 != float32(in.f32) {
			t.Errorf("f32 round trip: got %v, want %v", gotF32, float32(in.f32))
		}
		if gotF64 != in.f64 {
			t.Errorf("f64 round trip: got %v, want %v", gotF64, in.f64)
		}
	}
}

func TestEncodeIntegerRoundTrip(t *testing.T) {
	f := mustFormat(t, 4, "RT", "v", "i", "")

	buf := make([]byte, MaxMessageLength)
	for _, v := range []int32{0, 1, -1, math.MaxInt32, math.MinInt32, 123456789} {
		if _, err := Encode(f, buf, []Value{Int(int64(v))}); err != nil {
			t.Fatalf("Encode(%d) failed: %v", v, err)
		}
		got := int32(binary.LittleEndian.Uint32(buf[3:]))
		if got != v {
			t.Errorf("int32 round trip: got %d, want %d", got, v)
		}
	}
}

func TestEncodeStrings(t *testing.T) {
	f := mustFormat(t, 5, "STR", "short,mid,long", "nNZ", "")

	buf := make([]byte, MaxMessageLength)
	n, err := Encode(f, buf, []Value{Str("ABCDEF"), Str("hello"), Str("")})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if n != 3+4+16+64 {
		t.Fatalf("written = %d", n)
	}

	// 'n' truncates at 4 bytes with no terminator.
	if !bytes.Equal(buf[3:7], []byte("ABCD")) {
		t.Errorf("n field = %q", buf[3:7])
	}
	// 'N' zero-pads to 16.
	wantMid := make([]byte, 16)
	copy(wantMid, "hello")
	if !bytes.Equal(buf[7:23], wantMid) {
		t.Errorf("N field = %q", buf[7:23])
	}
	// 'Z' of the empty string is all zeros.
	if !bytes.Equal(buf[23:87], make([]byte, 64)) {
		t.Errorf("Z field not zeroed: %q", buf[23:87])
	}
}

func TestEncodeArrayUnimplemented(t *testing.T) {
	f, err := NewMessageFormat(6, "ARR")
	if err != nil {
		t.Fatal(err)
	}
	if err := f.AddColumn("samples", 'a', '-'); err != nil {
		t.Fatalf("'a' must be a valid column type: %v", err)
	}

	buf := make([]byte, MaxMessageLength)
	_, err = Encode(f, buf, []Value{Int(0)})
	if !errors.Is(err, ErrUnimplemented) {
		t.Fatalf("expected ErrUnimplemented, got %v", err)
	}
}

func TestEncodeUnknownType(t *testing.T) {
	// Column validation rejects unknown codes, so forge a format to make
	// sure the encoder guards on its own.
	f := &MessageFormat{id: 7, mtype: "BAD", columns: []ColumnFormat{{Name: "x", Type: '@'}}}

	buf := make([]byte, MaxMessageLength)
	_, err := Encode(f, buf, []Value{Int(0)})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestEncodeValueKindMismatch(t *testing.T) {
	f := mustFormat(t, 8, "MIS", "n,s", "bn", "")

	buf := make([]byte, MaxMessageLength)
	if _, err := Encode(f, buf, []Value{Str("x"), Str("y")}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("string into integer column: expected ErrInvalid, got %v", err)
	}
	if _, err := Encode(f, buf, []Value{Int(1), Int(2)}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("integer into string column: expected ErrInvalid, got %v", err)
	}
}

func TestEncodeValueCountMismatch(t *testing.T) {
	f := mustFormat(t, 9, "CNT", "a,b", "bb", "")

	buf := make([]byte, MaxMessageLength)
	if _, err := Encode(f, buf, []Value{Int(1)}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for missing value, got %v", err)
	}
	if _, err := Encode(f, buf, []Value{Int(1), Int(2), Int(3)}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for extra value, got %v", err)
	}
}

func TestEncodeBufferTooSmall(t *testing.T) {
	f := mustFormat(t, 10, "SM", "a", "q", "")

	if _, err := Encode(f, make([]byte, 5), []Value{Int(1)}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for short buffer, got %v", err)
	}
}
