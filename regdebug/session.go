package regdebug

import (
	"fmt"

	"github.com/cocoonstack/pmicdbg/report"
	"github.com/cocoonstack/pmicdbg/session"
)

// Export returns the debugger state for persistence.
func (d *Debugger) Export() session.State {
	return session.State{
		ForceEnabled: d.forceEnabled,
		ReportState:  d.reportState,
		ProfileRead:  d.profileRead,
		Profile:      d.profile,
		BoardMatch:   d.boardMatch,
		Snapshots:    d.snaps.Export(),
		Force:        d.forcer.Export(),
		LastCycle:    d.lastCycle,
	}
}

// Import loads a previously exported state. Nothing is changed on error.
func (d *Debugger) Import(st session.State) error {
	if err := report.ValidateStateIndex(st.ReportState); err != nil {
		return fmt.Errorf("import session: %w", err)
	}
	prevSnaps := d.snaps.Export()
	if err := d.snaps.Import(st.Snapshots); err != nil {
		return fmt.Errorf("import snapshots: %w", err)
	}
	if err := d.forcer.Import(st.Force); err != nil {
		_ = d.snaps.Import(prevSnaps)
		return fmt.Errorf("import overrides: %w", err)
	}
	d.forceEnabled = st.ForceEnabled
	d.reportState = st.ReportState
	d.profileRead = st.ProfileRead
	d.profile = st.Profile
	d.boardMatch = st.BoardMatch
	d.lastCycle = st.LastCycle
	return nil
}
