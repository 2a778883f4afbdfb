// Package sim is a register-level PMIC simulator. Chip is an in-memory
// transport with fault injection; Image persists the same state to a
// flock-guarded JSON file so several CLI invocations share one device.
package sim

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/cocoonstack/pmicdbg/catalog"
	"github.com/cocoonstack/pmicdbg/transport"
	"github.com/cocoonstack/pmicdbg/types"
)

const typ = "sim"

// ErrInjected is the cause carried by every simulated failure.
var ErrInjected = errors.New("injected fault")

// compile-time interface check.
var _ transport.Transport = (*Chip)(nil)

// Fault fails accesses to one register. Count is the number of accesses
// still to fail; zero or less fails forever.
type Fault struct {
	Op       transport.Op `json:"op" yaml:"op"`
	Register string       `json:"register" yaml:"register"`
	Count    int          `json:"count,omitempty" yaml:"count,omitempty"`
}

// Access is one completed or failed transport call, kept for inspection.
type Access struct {
	Op    transport.Op   `json:"op"`
	Loc   types.Location `json:"loc"`
	Mask  uint8          `json:"mask,omitempty"`
	Value uint8          `json:"value"`
	Err   bool           `json:"err,omitempty"`
}

// Chip is the simulated register file. Register keys are "0xBBAA";
// unseeded registers read as zero.
type Chip struct {
	mu sync.Mutex

	Registers map[string]uint8 `json:"registers"`
	Faults    []Fault          `json:"faults,omitempty"`

	journal []Access
}

// New returns a chip preloaded with Defaults.
func New() *Chip {
	c := &Chip{}
	c.Init()
	return c
}

// Init implements storage.Initer.
func (c *Chip) Init() {
	if c.Registers == nil {
		c.Registers = Defaults()
	}
}

// Defaults is the power-on register content used when nothing is seeded.
// Values follow the AB8500 OTP defaults where they are known.
func Defaults() map[string]uint8 {
	return map[string]uint8{
		catalog.Locate(catalog.ReguSysClkReq1HPValid2).String(): 0x03,
		catalog.Locate(catalog.VsimSysClkCtrl).String():         0x01,
		catalog.Locate(catalog.ExtSupplyRegu).String():          0x15,
		catalog.Locate(catalog.ArmRegu1).String():               0x01,
		catalog.Locate(catalog.VarmSel1).String():               0x10,
		catalog.Locate(catalog.VapeRegu).String():               0x01,
		catalog.Locate(catalog.VapeSel1).String():               0x20,
		catalog.Locate(catalog.Vsmps1Regu).String():             0x01,
		catalog.Locate(catalog.Vsmps1Sel1).String():             0x28,
		catalog.Locate(catalog.Vsmps2Regu).String():             0x01,
		catalog.Locate(catalog.Vsmps2Sel1).String():             0x39,
		catalog.Locate(catalog.Vsmps3Regu).String():             0x01,
		catalog.Locate(catalog.Vsmps3Sel1).String():             0x2c,
		catalog.ChipRevision.String():                           0x30,
	}
}

func (c *Chip) Type() string { return typ }

// Read implements transport.Transport.
func (c *Chip) Read(_ context.Context, bank, addr uint8) (uint8, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.read(types.Location{Bank: bank, Addr: addr})
}

// Update implements transport.Transport.
func (c *Chip) Update(_ context.Context, bank, addr, mask, val uint8) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.update(types.Location{Bank: bank, Addr: addr}, mask, val)
}

func (c *Chip) read(loc types.Location) (uint8, error) {
	if err := c.trip(transport.OpRead, loc); err != nil {
		c.journal = append(c.journal, Access{Op: transport.OpRead, Loc: loc, Err: true})
		return 0, err
	}
	v := c.Registers[loc.String()]
	c.journal = append(c.journal, Access{Op: transport.OpRead, Loc: loc, Value: v})
	return v, nil
}

func (c *Chip) update(loc types.Location, mask, val uint8) error {
	if err := c.trip(transport.OpUpdate, loc); err != nil {
		c.journal = append(c.journal, Access{Op: transport.OpUpdate, Loc: loc, Mask: mask, Value: val, Err: true})
		return err
	}
	c.Registers[loc.String()] = transport.Merge(c.Registers[loc.String()], mask, val)
	c.journal = append(c.journal, Access{Op: transport.OpUpdate, Loc: loc, Mask: mask, Value: val})
	return nil
}

// consumes reports whether an access would use up a counted fault. The
// first matching fault decides, as in trip; permanent faults never change.
func (c *Chip) consumes(op transport.Op, loc types.Location) bool {
	for _, f := range c.Faults {
		if f.Op == op && f.Register == loc.String() {
			return f.Count > 0
		}
	}
	return false
}

// trip consumes a matching fault, if any.
func (c *Chip) trip(op transport.Op, loc types.Location) error {
	for i := range c.Faults {
		f := &c.Faults[i]
		if f.Op != op || f.Register != loc.String() {
			continue
		}
		if f.Count > 0 {
			f.Count--
			if f.Count == 0 {
				c.Faults = append(c.Faults[:i], c.Faults[i+1:]...)
			}
		}
		return &transport.Error{Op: op, Bank: loc.Bank, Addr: loc.Addr, Err: ErrInjected}
	}
	return nil
}

// Set writes a register directly, bypassing faults.
func (c *Chip) Set(loc types.Location, v uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Registers[loc.String()] = v
}

// Get reads a register directly, bypassing faults.
func (c *Chip) Get(loc types.Location) uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Registers[loc.String()]
}

// Inject adds a fault. register is a catalog name or "0xBBAA".
func (c *Chip) Inject(op transport.Op, register string, count int) error {
	loc, err := resolve(register)
	if err != nil {
		return err
	}
	if op != transport.OpRead && op != transport.OpUpdate {
		return fmt.Errorf("unknown transport op %q", op)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Faults = append(c.Faults, Fault{Op: op, Register: loc.String(), Count: count})
	return nil
}

// ClearFaults drops every pending fault.
func (c *Chip) ClearFaults() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Faults = nil
}

// Snapshot returns a copy of the register map.
func (c *Chip) Snapshot() map[string]uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return maps.Clone(c.Registers)
}

// Journal returns the accesses seen since the chip was created.
func (c *Chip) Journal() []Access {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Access(nil), c.journal...)
}

// resolve accepts a catalog register name, "0xBBAA", or the chip revision
// register name "ChipRevision".
func resolve(ref string) (types.Location, error) {
	if ref == "ChipRevision" || ref == catalog.ChipRevision.String() {
		return catalog.ChipRevision, nil
	}
	r, err := catalog.Lookup(ref)
	if err != nil {
		return types.Location{}, err
	}
	return r.Location, nil
}
