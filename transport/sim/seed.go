package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cocoonstack/pmicdbg/transport"
)

// Seed is the YAML form of a simulator preset:
//
//	registers:
//	  ExtSupplyRegu: 0x15
//	  "0x0680": 0x00
//	faults:
//	  - {op: read, register: VsimSysClkCtrl, count: 1}
type Seed struct {
	Registers map[string]uint8 `yaml:"registers"`
	Faults    []Fault          `yaml:"faults"`
}

// LoadSeed parses a seed file.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	var s Seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse seed %s: %w", path, err)
	}
	return &s, nil
}

// Apply loads the seed into c. With reset the register file starts from
// Defaults and existing faults are dropped.
func (s *Seed) Apply(c *Chip, reset bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if reset || c.Registers == nil {
		c.Registers = Defaults()
		c.Faults = nil
	}
	for ref, v := range s.Registers {
		loc, err := resolve(ref)
		if err != nil {
			return fmt.Errorf("seed register %q: %w", ref, err)
		}
		c.Registers[loc.String()] = v
	}
	for _, f := range s.Faults {
		loc, err := resolve(f.Register)
		if err != nil {
			return fmt.Errorf("seed fault %q: %w", f.Register, err)
		}
		if f.Op != transport.OpRead && f.Op != transport.OpUpdate {
			return fmt.Errorf("seed fault %q: unknown op %q", f.Register, f.Op)
		}
		f.Register = loc.String()
		c.Faults = append(c.Faults, f)
	}
	return nil
}
