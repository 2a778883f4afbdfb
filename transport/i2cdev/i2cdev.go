// Package i2cdev reaches the PMIC through a Linux /dev/i2c-N adapter. Each
// register bank answers on its own slave address, base+bank.
package i2cdev

import (
	"errors"
	"fmt"
)

const typ = "i2c"

// ErrUnsupported is returned on platforms without i2c-dev.
var ErrUnsupported = errors.New("i2c-dev transport requires linux")

// DevicePath returns the character device for adapter n.
func DevicePath(n int) string { return fmt.Sprintf("/dev/i2c-%d", n) }

func (b *Bus) Type() string { return typ }

func (b *Bus) slave(bank uint8) (int, error) {
	addr := int(b.base) + int(bank)
	if addr > 0x7f { //nolint:mnd
		return 0, fmt.Errorf("bank 0x%02x maps to slave 0x%x beyond 7-bit range", bank, addr)
	}
	return addr, nil
}
