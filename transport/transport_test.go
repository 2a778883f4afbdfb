package transport

import (
	"errors"
	"io"
	"testing"
)

func TestMerge(t *testing.T) {
	if got := Merge(0x15, 0x3f, 0x08); got != 0x08 {
		t.Errorf("got 0x%02x", got)
	}
	if got := Merge(0xf5, 0x0c, 0xff); got != 0xfd {
		t.Errorf("got 0x%02x", got)
	}
	if got := Merge(0xaa, 0x00, 0xff); got != 0xaa {
		t.Errorf("empty mask changed value: 0x%02x", got)
	}
}

func TestError_Matching(t *testing.T) {
	err := error(&Error{Op: OpRead, Bank: 0x04, Addr: 0x08, Err: io.ErrUnexpectedEOF})
	if !errors.Is(err, ErrTransport) {
		t.Error("expected ErrTransport match")
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("expected cause to unwrap")
	}
	if err.Error() != "read 0x0408: unexpected EOF" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
