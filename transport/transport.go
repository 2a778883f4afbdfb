package transport

import (
	"context"
	"errors"
	"fmt"
)

// ErrTransport matches every *Error via errors.Is.
var ErrTransport = errors.New("register transport failure")

// Transport reaches the PMIC register space. Implementations are used by a
// single caller at a time; they do not retry.
type Transport interface {
	Type() string

	// Read returns the current value of one register.
	Read(ctx context.Context, bank, addr uint8) (uint8, error)
	// Update replaces the bits selected by mask with val, leaving the
	// remaining bits untouched.
	Update(ctx context.Context, bank, addr, mask, val uint8) error
}

// Op names the failed transport operation.
type Op string

const (
	OpRead   Op = "read"
	OpUpdate Op = "update"
)

// Error is a failed single-register access.
type Error struct {
	Op   Op
	Bank uint8
	Addr uint8
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s 0x%02x%02x: %v", e.Op, e.Bank, e.Addr, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrTransport) hold for any *Error.
func (e *Error) Is(target error) bool { return target == ErrTransport }

// Merge applies a masked write to old.
func Merge(old, mask, val uint8) uint8 { return old&^mask | val&mask }
