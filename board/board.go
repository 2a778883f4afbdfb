// Package board answers the two questions asked once at probe time: does
// the hardware need the low-power external supply override, and which
// power profile did the bootloader record.
package board

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/cocoonstack/pmicdbg/catalog"
	"github.com/cocoonstack/pmicdbg/transport"
)

const (
	// MinChipRevision is the first AB8500 cut needing the adjustment.
	MinChipRevision uint8 = 0x30
	// SoCRevisionV22 is the host SoC revision paired with it.
	SoCRevisionV22 = "v2.2"
	// ProfileV5x is the first board profile for which suspend force is on
	// by default.
	ProfileV5x uint8 = 50
)

// ErrProfileUnavailable means the boot profile could not be read.
var ErrProfileUnavailable = errors.New("board profile unavailable")

// Identifier decides whether the running board matches the external
// supply variant.
type Identifier interface {
	Matches(ctx context.Context) (bool, error)
}

// ProfileSource yields the boot-recorded board profile byte.
type ProfileSource interface {
	Profile(ctx context.Context) (uint8, error)
}

// Match applies the variant rule.
func Match(chipRevision uint8, socRevision string) bool {
	return chipRevision >= MinChipRevision && socRevision == SoCRevisionV22
}

// Static is an Identifier with both revisions known up front.
type Static struct {
	ChipRevision uint8
	SoCRevision  string
}

func (s Static) Matches(context.Context) (bool, error) {
	return Match(s.ChipRevision, s.SoCRevision), nil
}

// ChipID reads the chip revision register over the transport. The SoC
// revision is not visible on the PMIC bus and comes from configuration.
type ChipID struct {
	Transport   transport.Transport
	SoCRevision string
}

func (c ChipID) Matches(ctx context.Context) (bool, error) {
	loc := catalog.ChipRevision
	rev, err := c.Transport.Read(ctx, loc.Bank, loc.Addr)
	if err != nil {
		return false, fmt.Errorf("read chip revision: %w", err)
	}
	return Match(rev, c.SoCRevision), nil
}

// StaticProfile is a fixed profile value.
type StaticProfile uint8

func (p StaticProfile) Profile(context.Context) (uint8, error) { return uint8(p), nil }

// FileProfile reads one byte at Offset of a backup RAM image. The file is
// read at most once; later calls return the first result.
type FileProfile struct {
	Path   string
	Offset int64

	once sync.Once
	val  uint8
	err  error
}

func (p *FileProfile) Profile(context.Context) (uint8, error) {
	p.once.Do(func() {
		p.val, p.err = readByte(p.Path, p.Offset)
	})
	return p.val, p.err
}

func readByte(path string, off int64) (uint8, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrProfileUnavailable, err)
	}
	defer f.Close() //nolint:errcheck
	var b [1]byte
	if _, err := f.ReadAt(b[:], off); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("%w: %s shorter than offset %d", ErrProfileUnavailable, path, off)
		}
		return 0, fmt.Errorf("%w: %w", ErrProfileUnavailable, err)
	}
	return b[0], nil
}

// ForceByDefault reports whether profile enables suspend force.
func ForceByDefault(profile uint8) bool { return profile >= ProfileV5x }
