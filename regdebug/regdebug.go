// Package regdebug ties the snapshot store, the override subsystem and the
// report surface into one debugger instance per PMIC.
package regdebug

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/projecteru2/core/log"

	"github.com/cocoonstack/pmicdbg/board"
	"github.com/cocoonstack/pmicdbg/catalog"
	"github.com/cocoonstack/pmicdbg/force"
	"github.com/cocoonstack/pmicdbg/report"
	"github.com/cocoonstack/pmicdbg/snapshot"
	"github.com/cocoonstack/pmicdbg/transport"
	"github.com/cocoonstack/pmicdbg/types"
)

// InvalidForceError rejects a force setting other than 0 or 1.
type InvalidForceError struct {
	Input string
}

func (e *InvalidForceError) Error() string {
	return fmt.Sprintf("invalid force setting %q: want 0 or 1", e.Input)
}

// ParseForce parses the force switch. Base prefixes are honoured; values
// above 1 are rejected.
func ParseForce(s string) (bool, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil || v > 1 {
		return false, &InvalidForceError{Input: s}
	}
	return v == 1, nil
}

// ForceString is the one-line description of the force switch.
func ForceString(enabled bool) string {
	if enabled {
		return "suspend force enabled"
	}
	return "no suspend force"
}

// Option configures a Debugger.
type Option func(*options)

type options struct {
	snaps []snapshot.Option
}

// WithClock sets the timestamp source for captures.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.snaps = append(o.snaps, snapshot.WithClock(now)) }
}

// WithoutSnapshots turns register capture off.
func WithoutSnapshots() Option {
	return func(o *options) { o.snaps = append(o.snaps, snapshot.Disabled()) }
}

// Debugger is the regulator debug model of one PMIC. It is not safe for
// concurrent use.
type Debugger struct {
	tr     transport.Transport
	snaps  *snapshot.Store
	forcer *force.Forcer
	regs   []*types.Regulator

	forceEnabled bool
	reportState  int

	profileRead bool
	profile     uint8
	boardMatch  bool
	lastCycle   *force.Result
}

// New creates a Debugger reading and writing through tr.
func New(tr transport.Transport, opts ...Option) *Debugger {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	snaps := snapshot.New(tr, o.snaps...)
	return &Debugger{
		tr:     tr,
		snaps:  snaps,
		forcer: force.New(tr, snaps),
		regs:   catalog.Regulators(),
	}
}

// Transport returns the register access the debugger uses.
func (d *Debugger) Transport() transport.Transport { return d.tr }

// Snapshots exposes the per-state register copies.
func (d *Debugger) Snapshots() *snapshot.Store { return d.snaps }

// Probe runs the driver start-up sequence: capture init, adjust the
// external supply override for the board variant, and read the boot
// profile once. Every step is attempted; the joined error is informational.
func (d *Debugger) Probe(ctx context.Context, id board.Identifier, prof board.ProfileSource) error {
	logger := log.WithFunc("regdebug.Probe")
	var errs []error

	if err := d.snaps.Capture(ctx, types.StateInit); err != nil {
		logger.Warnf(ctx, "record init state: %v", err)
		errs = append(errs, err)
	}

	if id != nil {
		match, err := id.Matches(ctx)
		if err != nil {
			logger.Warnf(ctx, "identify board: %v", err)
			errs = append(errs, err)
		}
		d.boardMatch = match
		d.forcer.AdjustForBoard(ctx, match)
	}

	if prof != nil && !d.profileRead {
		d.profileRead = true
		p, err := prof.Profile(ctx)
		if err != nil {
			logger.Warnf(ctx, "read board profile: %v", err)
			errs = append(errs, err)
		} else {
			d.profile = p
			logger.Debugf(ctx, "board profile is 0x%02x", p)
			if board.ForceByDefault(p) {
				d.forceEnabled = true
			}
		}
	}
	return errors.Join(errs...)
}

// Suspend opens an override cycle with the current force setting.
func (d *Debugger) Suspend(ctx context.Context) (*force.Result, error) {
	res, err := d.forcer.Apply(ctx, d.forceEnabled)
	if res != nil {
		d.lastCycle = res
	}
	return res, err
}

// Resume closes the override cycle, restoring saved values.
func (d *Debugger) Resume(ctx context.Context) (*force.Result, error) {
	res, err := d.forcer.Restore(ctx)
	if res != nil {
		d.lastCycle = res
	}
	return res, err
}

// LastCycle returns the result of the most recent Suspend or Resume.
func (d *Debugger) LastCycle() *force.Result { return d.lastCycle }

// Capture records state now.
func (d *Debugger) Capture(ctx context.Context, state types.State) error {
	return d.snaps.Capture(ctx, state)
}

// Overrides returns the override table with its open-cycle state.
func (d *Debugger) Overrides() []force.Entry { return d.forcer.Entries() }

// Cycle returns the open cycle id, if any.
func (d *Debugger) Cycle() string { return d.forcer.Cycle() }

// Status captures current and decodes the selected report state. A
// failed capture is logged and the report falls back to whatever is
// recorded.
func (d *Debugger) Status(ctx context.Context) (*report.Status, error) {
	if err := d.snaps.Capture(ctx, types.StateCurrent); err != nil {
		log.WithFunc("regdebug.Status").Warnf(ctx, "record current state: %v", err)
	}
	return report.Build(d.regs, d.snaps, d.reportState)
}

// Dump captures current and collects the raw register table.
func (d *Debugger) Dump(ctx context.Context) (*report.Dump, error) {
	if err := d.snaps.Capture(ctx, types.StateCurrent); err != nil {
		log.WithFunc("regdebug.Dump").Warnf(ctx, "record current state: %v", err)
	}
	return report.BuildDump(d.snaps)
}

// ForceEnabled reports whether Suspend writes the overrides.
func (d *Debugger) ForceEnabled() bool { return d.forceEnabled }

// SetForceEnabled switches the overrides on or off for the next Suspend.
func (d *Debugger) SetForceEnabled(v bool) { d.forceEnabled = v }

// ReportState returns the state index Status decodes.
func (d *Debugger) ReportState() int { return d.reportState }

// SetReportState selects the state Status decodes. Out-of-range values are
// rejected and leave the selection unchanged.
func (d *Debugger) SetReportState(idx int) error {
	if err := report.ValidateStateIndex(idx); err != nil {
		return err
	}
	d.reportState = idx
	return nil
}

// Profile returns the boot profile and whether it has been read.
func (d *Debugger) Profile() (uint8, bool) { return d.profile, d.profileRead }

// BoardMatch reports whether the last Probe identified the external
// supply variant.
func (d *Debugger) BoardMatch() bool { return d.boardMatch }
