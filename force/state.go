package force

import (
	"fmt"
	"slices"
)

// State is the persisted form of the override table between processes.
type State struct {
	Cycle   string  `json:"cycle,omitempty"`
	Forced  bool    `json:"forced,omitempty"`
	Entries []Entry `json:"entries"`
}

// Export returns the table and open cycle.
func (f *Forcer) Export() State {
	return State{Cycle: f.cycle, Forced: f.forced, Entries: slices.Clone(f.entries)}
}

// Import restores a previously exported table. Entries are matched by name;
// the register and mask always come from the catalog.
func (f *Forcer) Import(st State) error {
	if len(st.Entries) == 0 {
		return nil
	}
	if len(st.Entries) != len(f.entries) {
		return fmt.Errorf("override table has %d entries, expected %d", len(st.Entries), len(f.entries))
	}
	next := slices.Clone(f.entries)
	for i := range next {
		in := st.Entries[i]
		if in.Name != next[i].Name {
			return fmt.Errorf("override %d is %q, expected %q", i, in.Name, next[i].Name)
		}
		next[i].Value = in.Value & next[i].Mask
		next[i].Eligible = in.Eligible
		next[i].Saved = in.Saved
	}
	f.entries = next
	f.cycle = st.Cycle
	f.forced = st.Forced
	return nil
}
