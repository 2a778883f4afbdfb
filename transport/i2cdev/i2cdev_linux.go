//go:build linux

package i2cdev

import (
	"context"
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/projecteru2/core/log"

	"github.com/cocoonstack/pmicdbg/transport"
)

const (
	ioctlSlaveForce = 0x0706
	ioctlSMBus      = 0x0720

	smbusRead      = 1
	smbusWrite     = 0
	smbusByteData  = 2
	smbusBlockSize = 34
)

// compile-time interface check.
var _ transport.Transport = (*Bus)(nil)

// Bus is an open i2c adapter.
type Bus struct {
	mu   sync.Mutex
	path string
	fd   int
	base uint8
	cur  int // selected slave address, -1 before the first access
}

type smbusIoctl struct {
	readWrite uint8
	command   uint8
	size      uint32
	data      *[smbusBlockSize]byte
}

// Open opens adapter n. base is the slave address of bank 0.
func Open(n int, base uint8) (*Bus, error) {
	path := DevicePath(n)
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Bus{path: path, fd: fd, base: base, cur: -1}, nil
}

// Close releases the adapter.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fd < 0 {
		return nil
	}
	err := unix.Close(b.fd)
	b.fd = -1
	return err
}

// Read implements transport.Transport.
func (b *Bus) Read(ctx context.Context, bank, addr uint8) (uint8, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, err := b.readLocked(bank, addr)
	if err != nil {
		log.WithFunc("i2cdev.Read").Debugf(ctx, "%s 0x%02x%02x: %v", b.path, bank, addr, err)
		return 0, &transport.Error{Op: transport.OpRead, Bank: bank, Addr: addr, Err: err}
	}
	return v, nil
}

// Update implements transport.Transport as read-modify-write under the bus
// mutex.
func (b *Bus) Update(ctx context.Context, bank, addr, mask, val uint8) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	old, err := b.readLocked(bank, addr)
	if err == nil {
		err = b.writeLocked(bank, addr, transport.Merge(old, mask, val))
	}
	if err != nil {
		log.WithFunc("i2cdev.Update").Debugf(ctx, "%s 0x%02x%02x: %v", b.path, bank, addr, err)
		return &transport.Error{Op: transport.OpUpdate, Bank: bank, Addr: addr, Err: err}
	}
	return nil
}

func (b *Bus) readLocked(bank, addr uint8) (uint8, error) {
	if err := b.selectBank(bank); err != nil {
		return 0, err
	}
	var data [smbusBlockSize]byte
	if err := b.smbus(smbusRead, addr, &data); err != nil {
		return 0, err
	}
	return data[0], nil
}

func (b *Bus) writeLocked(bank, addr, v uint8) error {
	if err := b.selectBank(bank); err != nil {
		return err
	}
	var data [smbusBlockSize]byte
	data[0] = v
	return b.smbus(smbusWrite, addr, &data)
}

func (b *Bus) selectBank(bank uint8) error {
	if b.fd < 0 {
		return fmt.Errorf("%s: closed", b.path)
	}
	slave, err := b.slave(bank)
	if err != nil {
		return err
	}
	if slave == b.cur {
		return nil
	}
	if err := unix.IoctlSetInt(b.fd, ioctlSlaveForce, slave); err != nil {
		return fmt.Errorf("force slave 0x%02x: %w", slave, err)
	}
	b.cur = slave
	return nil
}

func (b *Bus) smbus(rw, command uint8, data *[smbusBlockSize]byte) error {
	req := smbusIoctl{readWrite: rw, command: command, size: smbusByteData, data: data}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(b.fd), ioctlSMBus, uintptr(unsafe.Pointer(&req))) //nolint:gosec
	if errno != 0 {
		return fmt.Errorf("smbus command 0x%02x: %w", command, errno)
	}
	return nil
}
