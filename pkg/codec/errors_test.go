package codec

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorStringOrdering(t *testing.T) {
	// The numeric ordering of the codes is a public contract.
	codes := []Code{
		Success, Failure, NoMem, Inval, Limit,
		ReadFailed, WriteFailed, IOFailed, Unimplemented, EndOfStream,
	}
	for want, code := range codes {
		if int(code) != want {
			t.Fatalf("code %d has value %d, want %d", want, code, want)
		}
	}

	if ErrorString(int(Success)) != "no error" {
		t.Errorf("unexpected success string: %q", ErrorString(int(Success)))
	}
	if ErrorString(int(Inval)) != "invalid value" {
		t.Errorf("unexpected invalid string: %q", ErrorString(int(Inval)))
	}
}

func TestErrorStringOutOfRange(t *testing.T) {
	want := ErrorString(int(Failure))
	if got := ErrorString(-1); got != want {
		t.Errorf("ErrorString(-1) = %q, want %q", got, want)
	}
	if got := ErrorString(1000); got != want {
		t.Errorf("ErrorString(1000) = %q, want %q", got, want)
	}
}

func TestSentinelMatching(t *testing.T) {
	wrapped := fmt.Errorf("column \"x\": %w", ErrInvalid)
	if !errors.Is(wrapped, ErrInvalid) {
		t.Error("wrapped error does not match ErrInvalid")
	}
	if errors.Is(wrapped, ErrLimit) {
		t.Error("wrapped error unexpectedly matches ErrLimit")
	}
}
