package sim

import (
	"context"
	"maps"

	"github.com/cocoonstack/pmicdbg/lock/flock"
	"github.com/cocoonstack/pmicdbg/storage"
	storejson "github.com/cocoonstack/pmicdbg/storage/json"
	"github.com/cocoonstack/pmicdbg/transport"
	"github.com/cocoonstack/pmicdbg/types"
)

// compile-time interface check.
var _ transport.Transport = (*Image)(nil)

// Image is a Chip persisted to a JSON file. Each access loads, mutates and
// saves the file under its flock, so faults and register values are shared
// between processes.
type Image struct {
	path  string
	store storage.Store[Chip]
}

// Open returns the image at path. The file is created on first write.
func Open(path string) *Image {
	return &Image{path: path, store: storejson.New[Chip](path, flock.For(path))}
}

// Path returns the image file.
func (im *Image) Path() string { return im.path }

func (im *Image) Type() string { return typ }

// Read implements transport.Transport. The image is only written back when
// a counted read fault has to be consumed. Plain reads and reads failing on
// a permanent fault leave the file untouched.
func (im *Image) Read(ctx context.Context, bank, addr uint8) (uint8, error) {
	loc := types.Location{Bank: bank, Addr: addr}
	var (
		v        uint8
		access   error
		consumed bool
	)
	err := im.store.With(ctx, func(c *Chip) error {
		if consumed = c.consumes(transport.OpRead, loc); !consumed {
			v, access = c.read(loc)
		}
		return nil
	})
	if err == nil && consumed {
		err = im.store.Update(ctx, func(c *Chip) error {
			v, access = c.read(loc)
			return nil
		})
	}
	if err != nil {
		return 0, &transport.Error{Op: transport.OpRead, Bank: bank, Addr: addr, Err: err}
	}
	return v, access
}

// Update implements transport.Transport.
func (im *Image) Update(ctx context.Context, bank, addr, mask, val uint8) error {
	var access error
	if err := im.store.Update(ctx, func(c *Chip) error {
		access = c.update(types.Location{Bank: bank, Addr: addr}, mask, val)
		return nil
	}); err != nil {
		return &transport.Error{Op: transport.OpUpdate, Bank: bank, Addr: addr, Err: err}
	}
	return access
}

// Inject adds a persistent fault to the image.
func (im *Image) Inject(ctx context.Context, op transport.Op, register string, count int) error {
	return im.store.Update(ctx, func(c *Chip) error {
		return c.Inject(op, register, count)
	})
}

// ClearFaults drops every fault stored in the image.
func (im *Image) ClearFaults(ctx context.Context) error {
	return im.store.Update(ctx, func(c *Chip) error {
		c.Faults = nil
		return nil
	})
}

// Faults lists the pending faults.
func (im *Image) Faults(ctx context.Context) ([]Fault, error) {
	var out []Fault
	err := im.store.With(ctx, func(c *Chip) error {
		out = append(out, c.Faults...)
		return nil
	})
	return out, err
}

// Registers returns a copy of the stored register map.
func (im *Image) Registers(ctx context.Context) (map[string]uint8, error) {
	var out map[string]uint8
	err := im.store.With(ctx, func(c *Chip) error {
		out = maps.Clone(c.Registers)
		return nil
	})
	return out, err
}

// Seed replaces register values (and optionally faults) from s. Registers
// not mentioned in s keep their current value unless reset is set.
func (im *Image) Seed(ctx context.Context, s *Seed, reset bool) error {
	return im.store.Update(ctx, func(c *Chip) error {
		return s.Apply(c, reset)
	})
}
