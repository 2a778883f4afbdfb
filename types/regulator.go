package types

import "fmt"

// NumSlots is the maximum number of voltage selector registers per rail.
const NumSlots = 3

// Field is a bit field inside one register.
type Field struct {
	Reg  RegisterID `json:"reg"`
	Mask uint8      `json:"mask"`
}

// Extract masks raw down to the field. The result is not shifted.
func (f Field) Extract(raw uint8) uint8 { return raw & f.Mask }

// Choice names one value a field can hold.
type Choice[V any] struct {
	Value uint8
	Name  V
}

// EnumField is a bit field with a table of named values. Values are
// matched in table order; the first match wins.
type EnumField[V any] struct {
	Field
	Choices []Choice[V]
}

// Match looks up the name of the field value inside raw.
func (e *EnumField[V]) Match(raw uint8) (V, bool) {
	v := e.Extract(raw)
	for _, c := range e.Choices {
		if c.Value == v {
			return c.Name, true
		}
	}
	var zero V
	return zero, false
}

// ManualMode is the software-controlled operating mode of a rail.
type ManualMode int

const (
	ModeOff ManualMode = iota
	ModeOn
	ModeHW
	ModeLP
	ModeUndefined
)

func (m ManualMode) String() string {
	switch m {
	case ModeOff:
		return "off"
	case ModeOn:
		return "on"
	case ModeHW:
		return "hw"
	case ModeLP:
		return "lp"
	default:
		return "-"
	}
}

// HWMode is the mode a rail takes when its hardware request is active.
type HWMode int

const (
	HWModeHPLP HWMode = iota
	HWModeHPOff
	HWModeHP
	HWModeUndefined
)

func (m HWMode) String() string {
	switch m {
	case HWModeHPLP:
		return "hp/lp"
	case HWModeHPOff:
		return "hp/off"
	case HWModeHP:
		return "hp"
	default:
		return "-/-"
	}
}

// Requester is a source that can validate a rail's HP request.
type Requester int

const (
	ReqSysClk1 Requester = iota
	ReqHW1
	ReqHW2
	ReqSW

	NumRequesters = int(ReqSW) + 1
)

func (r Requester) String() string {
	switch r {
	case ReqSysClk1:
		return "sysclkreq1"
	case ReqHW1:
		return "hwreq1"
	case ReqHW2:
		return "hwreq2"
	case ReqSW:
		return "swreq"
	default:
		return fmt.Sprintf("requester(%d)", int(r))
	}
}

// Slot is one voltage selector register with its calibration table.
type Slot struct {
	Field
	Ranges []VoltRange
}

// Regulator describes the control bits of one rail. Optional parts are nil
// when the rail does not have them. Descriptors are never mutated after
// the catalog is built.
type Regulator struct {
	Name     string
	Manual   EnumField[ManualMode]
	HWMode   *EnumField[HWMode]
	HWValid  [NumRequesters]*Field
	Selector *EnumField[int] // names slot 1..NumSlots
	Slots    [NumSlots]*Slot
}

// Slot returns selector slot n (1-based).
func (r *Regulator) Slot(n int) (*Slot, error) {
	if n < 1 || n > NumSlots || r.Slots[n-1] == nil {
		return nil, &SlotAbsentError{Regulator: r.Name, Slot: n}
	}
	return r.Slots[n-1], nil
}

// Valid returns the hardware-valid source for req, if any.
func (r *Regulator) Valid(req Requester) (Field, bool) {
	if req < 0 || int(req) >= NumRequesters || r.HWValid[req] == nil {
		return Field{}, false
	}
	return *r.HWValid[req], true
}

// Registers lists every register the descriptor reads, without duplicates.
func (r *Regulator) Registers() []RegisterID {
	seen := map[RegisterID]struct{}{}
	var out []RegisterID
	add := func(id RegisterID) {
		if id == NoRegister {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	add(r.Manual.Reg)
	if r.HWMode != nil {
		add(r.HWMode.Reg)
	}
	for _, f := range r.HWValid {
		if f != nil {
			add(f.Reg)
		}
	}
	if r.Selector != nil {
		add(r.Selector.Reg)
	}
	for _, s := range r.Slots {
		if s != nil {
			add(s.Reg)
		}
	}
	return out
}

// SlotAbsentError reports a request for a selector slot the rail lacks.
type SlotAbsentError struct {
	Regulator string
	Slot      int
}

func (e *SlotAbsentError) Error() string {
	return fmt.Sprintf("%s has no voltage selector slot %d", e.Regulator, e.Slot)
}
