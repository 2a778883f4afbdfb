// Package force applies the suspend register overrides and restores them on
// resume.
package force

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/projecteru2/core/log"

	"github.com/cocoonstack/pmicdbg/catalog"
	"github.com/cocoonstack/pmicdbg/snapshot"
	"github.com/cocoonstack/pmicdbg/transport"
	"github.com/cocoonstack/pmicdbg/types"
)

var (
	// ErrCycleOpen is returned by Apply while a previous cycle has not been
	// restored.
	ErrCycleOpen = errors.New("override cycle already open")
)

// Outcome is what happened to one entry during Apply or Restore.
type Outcome string

const (
	OutcomeForced      Outcome = "forced"
	OutcomeReadFailed  Outcome = "read-failed"
	OutcomeWriteFailed Outcome = "write-failed"
	OutcomeSkipped     Outcome = "skipped"
	OutcomeRestored    Outcome = "restored"
	OutcomeNotEligible Outcome = "not-eligible"
	OutcomeRestoreFail Outcome = "restore-failed"
)

// Entry is one override plus the state carried from Apply to Restore.
type Entry struct {
	catalog.Override
	// Eligible is set when the saved value may be written back.
	Eligible bool  `json:"eligible"`
	Saved    uint8 `json:"saved"`
}

// Step records the outcome for one entry.
type Step struct {
	Name    string  `json:"name"`
	Outcome Outcome `json:"outcome"`
	Value   uint8   `json:"value"`
	Err     string  `json:"error,omitempty"`
}

// Result describes one Apply or Restore call.
type Result struct {
	Cycle    string    `json:"cycle"`
	Forced   bool      `json:"forced"`
	Steps    []Step    `json:"steps,omitempty"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
}

// Failed counts steps that did not complete.
func (r *Result) Failed() int {
	n := 0
	for _, s := range r.Steps {
		switch s.Outcome {
		case OutcomeReadFailed, OutcomeWriteFailed, OutcomeRestoreFail:
			n++
		}
	}
	return n
}

// Forcer runs one apply/restore cycle at a time.
type Forcer struct {
	tr      transport.Transport
	snaps   *snapshot.Store
	entries []Entry
	cycle   string
	forced  bool
}

// New builds a Forcer over the catalog override table.
func New(tr transport.Transport, snaps *snapshot.Store) *Forcer {
	f := &Forcer{tr: tr, snaps: snaps}
	for _, o := range catalog.Overrides() {
		f.entries = append(f.entries, Entry{Override: o})
	}
	return f
}

// AdjustForBoard switches ExtSupplyRegu to the low-power value on boards
// that cannot leave the external supplies in HW control. On other boards
// the catalog value is put back, so an adjustment carried in a saved
// session does not outlive a probe that no longer matches.
func (f *Forcer) AdjustForBoard(ctx context.Context, match bool) {
	defaults := catalog.Overrides()
	for i := range f.entries {
		e := &f.entries[i]
		if e.Reg != catalog.ExtSupplyRegu {
			continue
		}
		want := defaults[i].Value
		if match {
			want = catalog.ExtSupplyLowPower
		}
		if e.Value == want {
			continue
		}
		e.Value = want
		log.WithFunc("force.AdjustForBoard").Infof(ctx, "%s forced value set to 0x%02x", e.Name, e.Value)
	}
}

// Entries returns a copy of the override table with its cycle state.
func (f *Forcer) Entries() []Entry { return slices.Clone(f.entries) }

// Cycle returns the id of the open cycle, or "" when none is open.
func (f *Forcer) Cycle() string { return f.cycle }

// Apply captures suspend, forces every entry when enabled, then captures
// suspend-core. A read failure stops the remaining entries; a write failure
// only drops that entry from restore. The asymmetry is intentional.
//
// The returned error joins every failure and is informational; the cycle
// is open afterwards regardless, unless Apply returned ErrCycleOpen.
func (f *Forcer) Apply(ctx context.Context, enabled bool) (*Result, error) {
	if f.cycle != "" {
		return nil, fmt.Errorf("%w: %s", ErrCycleOpen, f.cycle)
	}
	logger := log.WithFunc("force.Apply")
	f.cycle = uuid.NewString()
	f.forced = enabled
	res := &Result{Cycle: f.cycle, Forced: enabled, Started: time.Now()}
	var errs []error

	if err := f.snaps.Capture(ctx, types.StateSuspend); err != nil {
		logger.Warnf(ctx, "record suspend state: %v", err)
		errs = append(errs, err)
	}

	if enabled {
		errs = append(errs, f.apply(ctx, res)...)
	}

	if err := f.snaps.Capture(ctx, types.StateSuspendCore); err != nil {
		logger.Warnf(ctx, "record suspend-core state: %v", err)
		errs = append(errs, err)
	}
	res.Finished = time.Now()
	return res, errors.Join(errs...)
}

func (f *Forcer) apply(ctx context.Context, res *Result) []error {
	logger := log.WithFunc("force.Apply")
	var errs []error
	for i := range f.entries {
		e := &f.entries[i]
		loc := catalog.Locate(e.Reg)

		v, err := f.tr.Read(ctx, loc.Bank, loc.Addr)
		if err != nil {
			// read failure: abort the rest of the table
			e.Eligible = false
			logger.Warnf(ctx, "read %s: %v", e.Name, err)
			errs = append(errs, fmt.Errorf("read %s: %w", e.Name, err))
			res.Steps = append(res.Steps, Step{Name: e.Name, Outcome: OutcomeReadFailed, Err: err.Error()})
			for _, rest := range f.entries[i+1:] {
				res.Steps = append(res.Steps, Step{Name: rest.Name, Outcome: OutcomeSkipped})
			}
			break
		}
		e.Saved = v
		e.Eligible = true

		logger.Debugf(ctx, "save and set %s: %s mask 0x%02x val 0x%02x (was 0x%02x)", e.Name, loc, e.Mask, e.Value, v)
		if err := f.tr.Update(ctx, loc.Bank, loc.Addr, e.Mask, e.Value); err != nil {
			// write failure: this entry only
			e.Eligible = false
			logger.Warnf(ctx, "write %s: %v", e.Name, err)
			errs = append(errs, fmt.Errorf("write %s: %w", e.Name, err))
			res.Steps = append(res.Steps, Step{Name: e.Name, Outcome: OutcomeWriteFailed, Value: v, Err: err.Error()})
			continue
		}
		res.Steps = append(res.Steps, Step{Name: e.Name, Outcome: OutcomeForced, Value: v})
	}
	return errs
}

// Restore captures resume-core, writes back the saved value of every
// eligible entry in reverse order, then captures resume. Without an open
// cycle nothing is written but both snapshots are still taken.
func (f *Forcer) Restore(ctx context.Context) (*Result, error) {
	logger := log.WithFunc("force.Restore")
	res := &Result{Cycle: f.cycle, Forced: f.forced, Started: time.Now()}
	var errs []error

	if err := f.snaps.Capture(ctx, types.StateResumeCore); err != nil {
		logger.Warnf(ctx, "record resume-core state: %v", err)
		errs = append(errs, err)
	}

	if f.cycle == "" {
		logger.Debugf(ctx, "no open override cycle")
	} else if f.forced {
		for i := len(f.entries) - 1; i >= 0; i-- {
			e := &f.entries[i]
			if !e.Eligible {
				res.Steps = append(res.Steps, Step{Name: e.Name, Outcome: OutcomeNotEligible})
				continue
			}
			loc := catalog.Locate(e.Reg)
			if err := f.tr.Update(ctx, loc.Bank, loc.Addr, e.Mask, e.Saved); err != nil {
				logger.Warnf(ctx, "restore %s: %v", e.Name, err)
				errs = append(errs, fmt.Errorf("restore %s: %w", e.Name, err))
				res.Steps = append(res.Steps, Step{Name: e.Name, Outcome: OutcomeRestoreFail, Value: e.Saved, Err: err.Error()})
				continue
			}
			logger.Debugf(ctx, "restore %s: %s mask 0x%02x val 0x%02x", e.Name, loc, e.Mask, e.Saved)
			res.Steps = append(res.Steps, Step{Name: e.Name, Outcome: OutcomeRestored, Value: e.Saved})
		}
	}

	if err := f.snaps.Capture(ctx, types.StateResume); err != nil {
		logger.Warnf(ctx, "record resume state: %v", err)
		errs = append(errs, err)
	}

	f.close()
	res.Finished = time.Now()
	return res, errors.Join(errs...)
}

func (f *Forcer) close() {
	for i := range f.entries {
		f.entries[i].Eligible = false
		f.entries[i].Saved = 0
	}
	f.cycle = ""
	f.forced = false
}
