// Package report builds the decoded regulator status and the raw register
// dump from snapshot data, and renders both as the fixed-width tables the
// debug interface has always printed.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cocoonstack/pmicdbg/types"
	"github.com/cocoonstack/pmicdbg/voltage"
)

// InvalidStateIndexError rejects a report-state selector outside
// [0, types.NumStates].
type InvalidStateIndexError struct {
	Input string
}

func (e *InvalidStateIndexError) Error() string {
	return fmt.Sprintf("invalid report state %q: want 0..%d", e.Input, types.NumStates)
}

// ValidateStateIndex accepts 0..NumStates. NumStates itself is allowed and
// always renders as not recorded.
func ValidateStateIndex(idx int) error {
	if idx < 0 || idx > types.NumStates {
		return &InvalidStateIndexError{Input: strconv.Itoa(idx)}
	}
	return nil
}

// ParseStateIndex parses an operator-supplied selector. Base prefixes
// (0x, 0o, 0b) are honoured.
func ParseStateIndex(s string) (int, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil || v > uint64(types.NumStates) {
		return 0, &InvalidStateIndexError{Input: s}
	}
	return int(v), nil
}

// Bit is one hardware-valid cell.
type Bit int

const (
	BitAbsent Bit = iota
	BitClear
	BitSet
)

func (b Bit) String() string {
	switch b {
	case BitClear:
		return "0"
	case BitSet:
		return "1"
	default:
		return " "
	}
}

// MarshalText implements encoding.TextMarshaler.
func (b Bit) MarshalText() ([]byte, error) { return []byte(strings.TrimSpace(b.String())), nil }

// Slot cell values besides 1..NumSlots.
const (
	SlotNone      = 0  // rail has no selector chooser
	SlotUndefined = -1 // chooser value matched no slot
)

// Volt is one voltage cell.
type Volt struct {
	Present    bool   `json:"present"`
	MicroVolts int    `json:"uv,omitempty"`
	Err        string `json:"error,omitempty"`
}

// Row is the decoded state of one regulator.
type Row struct {
	Name   string                   `json:"name"`
	Manual string                   `json:"manual"`
	HWMode string                   `json:"hw_mode,omitempty"`
	Valid  [types.NumRequesters]Bit `json:"valid"`
	Slot   int                      `json:"slot"`
	Volts  [types.NumSlots]Volt     `json:"volts"`
}

// Status is the decoded report for one lifecycle state.
type Status struct {
	Index    int    `json:"index"`
	State    string `json:"state"`
	Recorded bool   `json:"recorded"`
	Rows     []Row  `json:"rows,omitempty"`
}

// Reader is the snapshot access the report needs.
type Reader interface {
	IsCaptured(types.State) bool
	Read(types.State, types.RegisterID) (uint8, bool)
}

// Build decodes every regulator from the snapshot of state index idx.
func Build(regs []*types.Regulator, snaps Reader, idx int) (*Status, error) {
	if err := ValidateStateIndex(idx); err != nil {
		return nil, err
	}
	st := types.State(idx)
	out := &Status{Index: idx, State: st.String()}
	if !st.Valid() || !snaps.IsCaptured(st) {
		return out, nil
	}
	out.Recorded = true
	raw := func(id types.RegisterID) uint8 {
		v, _ := snaps.Read(st, id)
		return v
	}
	for _, r := range regs {
		out.Rows = append(out.Rows, buildRow(r, raw))
	}
	return out, nil
}

func buildRow(r *types.Regulator, raw func(types.RegisterID) uint8) Row {
	row := Row{Name: r.Name, Manual: types.ModeUndefined.String()}
	if m, ok := r.Manual.Match(raw(r.Manual.Reg)); ok {
		row.Manual = m.String()
	}
	if r.HWMode != nil {
		row.HWMode = types.HWModeUndefined.String()
		if m, ok := r.HWMode.Match(raw(r.HWMode.Reg)); ok {
			row.HWMode = m.String()
		}
	}
	for i := range types.NumRequesters {
		f, ok := r.Valid(types.Requester(i))
		switch {
		case !ok:
			row.Valid[i] = BitAbsent
		case f.Extract(raw(f.Reg)) != 0:
			row.Valid[i] = BitSet
		default:
			row.Valid[i] = BitClear
		}
	}
	if r.Selector != nil {
		row.Slot = SlotUndefined
		if n, ok := r.Selector.Match(raw(r.Selector.Reg)); ok {
			row.Slot = n
		}
	}
	for i := range types.NumSlots {
		s, err := r.Slot(i + 1)
		if err != nil {
			continue
		}
		row.Volts[i].Present = true
		uv, err := voltage.Decode(s.Ranges, s.Extract(raw(s.Reg)))
		if err != nil {
			row.Volts[i].Err = err.Error()
			continue
		}
		row.Volts[i].MicroVolts = uv
	}
	return row
}
