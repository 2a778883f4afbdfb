//go:build !linux

package i2cdev

import (
	"context"

	"github.com/cocoonstack/pmicdbg/transport"
)

// compile-time interface check.
var _ transport.Transport = (*Bus)(nil)

// Bus is unavailable off linux; Open always fails.
type Bus struct {
	base uint8
}

// Open reports ErrUnsupported.
func Open(int, uint8) (*Bus, error) { return nil, ErrUnsupported }

func (b *Bus) Close() error { return nil }

func (b *Bus) Read(_ context.Context, bank, addr uint8) (uint8, error) {
	return 0, &transport.Error{Op: transport.OpRead, Bank: bank, Addr: addr, Err: ErrUnsupported}
}

func (b *Bus) Update(_ context.Context, bank, addr, _, _ uint8) error {
	return &transport.Error{Op: transport.OpUpdate, Bank: bank, Addr: addr, Err: ErrUnsupported}
}
