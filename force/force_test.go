package force

import (
	"context"
	"errors"
	"testing"

	"github.com/cocoonstack/pmicdbg/catalog"
	"github.com/cocoonstack/pmicdbg/snapshot"
	"github.com/cocoonstack/pmicdbg/transport"
	"github.com/cocoonstack/pmicdbg/transport/sim"
	"github.com/cocoonstack/pmicdbg/types"
)

const initial = 0xa5

func setup(t *testing.T, opts ...snapshot.Option) (*sim.Chip, *snapshot.Store, *Forcer) {
	t.Helper()
	chip := sim.New()
	for _, o := range catalog.Overrides() {
		chip.Set(catalog.Locate(o.Reg), initial)
	}
	snaps := snapshot.New(chip, opts...)
	return chip, snaps, New(chip, snaps)
}

func overrideValues(chip *sim.Chip) map[string]uint8 {
	out := map[string]uint8{}
	for _, o := range catalog.Overrides() {
		out[o.Name] = chip.Get(catalog.Locate(o.Reg))
	}
	return out
}

func updates(chip *sim.Chip) []types.Location {
	var out []types.Location
	for _, a := range chip.Journal() {
		if a.Op == transport.OpUpdate {
			out = append(out, a.Loc)
		}
	}
	return out
}

// --- Apply ---

func TestApply_Disabled_LeavesRegisters(t *testing.T) {
	chip, snaps, f := setup(t)
	before := overrideValues(chip)

	res, err := f.Apply(context.Background(), false)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if res.Forced || len(res.Steps) != 0 {
		t.Errorf("unexpected result %+v", res)
	}
	after := overrideValues(chip)
	for name, v := range before {
		if after[name] != v {
			t.Errorf("%s changed: 0x%02x -> 0x%02x", name, v, after[name])
		}
	}
	if len(updates(chip)) != 0 {
		t.Error("disabled apply wrote to the transport")
	}
	if !snaps.IsCaptured(types.StateSuspend) || !snaps.IsCaptured(types.StateSuspendCore) {
		t.Error("suspend and suspend-core must be captured")
	}
}

func TestApply_ForcesMaskedValues(t *testing.T) {
	chip, snaps, f := setup(t)
	if _, err := f.Apply(context.Background(), true); err != nil {
		t.Fatalf("apply: %v", err)
	}
	for _, o := range catalog.Overrides() {
		want := transport.Merge(initial, o.Mask, o.Value)
		if got := chip.Get(catalog.Locate(o.Reg)); got != want {
			t.Errorf("%s: got 0x%02x want 0x%02x", o.Name, got, want)
		}
	}
	// suspend sees the original, suspend-core the forced value
	pre, _ := snaps.Read(types.StateSuspend, catalog.ExtSupplyRegu)
	post, _ := snaps.Read(types.StateSuspendCore, catalog.ExtSupplyRegu)
	if pre != initial || post != transport.Merge(initial, 0x3f, 0x08) {
		t.Errorf("snapshots: suspend 0x%02x suspend-core 0x%02x", pre, post)
	}
}

func TestApply_ReadFailureAbortsRemaining(t *testing.T) {
	chip, _, f := setup(t, snapshot.Disabled())
	// fourth entry
	if err := chip.Inject(transport.OpRead, "VsimSysClkCtrl", 1); err != nil {
		t.Fatal(err)
	}

	res, err := f.Apply(context.Background(), true)
	if !errors.Is(err, transport.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	want := []Outcome{OutcomeForced, OutcomeForced, OutcomeForced, OutcomeReadFailed, OutcomeSkipped, OutcomeSkipped, OutcomeSkipped}
	if len(res.Steps) != len(want) {
		t.Fatalf("steps = %+v", res.Steps)
	}
	for i, s := range res.Steps {
		if s.Outcome != want[i] {
			t.Errorf("step %d %s: %s, want %s", i, s.Name, s.Outcome, want[i])
		}
	}
	if got := len(updates(chip)); got != 3 {
		t.Errorf("expected 3 writes before abort, got %d", got)
	}
	for i, e := range f.Entries() {
		if e.Eligible != (i < 3) {
			t.Errorf("%s eligible = %v", e.Name, e.Eligible)
		}
	}

	// already applied entries are still restored
	if _, err := f.Restore(context.Background()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	for name, v := range overrideValues(chip) {
		if v != initial {
			t.Errorf("%s not restored: 0x%02x", name, v)
		}
	}
}

func TestApply_WriteFailureContinues(t *testing.T) {
	chip, _, f := setup(t)
	if err := chip.Inject(transport.OpUpdate, "ReguRequestCtrl3", 1); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	res, err := f.Apply(ctx, true)
	if err == nil {
		t.Fatal("expected joined write error")
	}
	if res.Failed() != 1 || res.Steps[2].Outcome != OutcomeWriteFailed {
		t.Fatalf("steps = %+v", res.Steps)
	}
	for _, s := range res.Steps[3:] {
		if s.Outcome != OutcomeForced {
			t.Errorf("%s: %s", s.Name, s.Outcome)
		}
	}

	forced := overrideValues(chip)
	rres, err := f.Restore(ctx)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	for _, s := range rres.Steps {
		if s.Name == "ReguRequestCtrl3" && s.Outcome != OutcomeNotEligible {
			t.Errorf("failed entry was restored: %s", s.Outcome)
		}
	}
	after := overrideValues(chip)
	for name, v := range after {
		switch name {
		case "ReguRequestCtrl3":
			if v != forced[name] {
				t.Errorf("excluded entry changed on restore: 0x%02x -> 0x%02x", forced[name], v)
			}
		default:
			if v != initial {
				t.Errorf("%s not restored: 0x%02x", name, v)
			}
		}
	}
}

func TestApply_CycleOpen(t *testing.T) {
	chip, _, f := setup(t)
	ctx := context.Background()
	if _, err := f.Apply(ctx, true); err != nil {
		t.Fatal(err)
	}
	n := len(chip.Journal())
	if _, err := f.Apply(ctx, true); !errors.Is(err, ErrCycleOpen) {
		t.Fatalf("expected ErrCycleOpen, got %v", err)
	}
	if len(chip.Journal()) != n {
		t.Error("rejected apply touched the transport")
	}
}

// --- Restore ---

func TestRoundTrip_RestoresOriginals(t *testing.T) {
	chip, snaps, f := setup(t)
	ctx := context.Background()
	ares, err := f.Apply(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	rres, err := f.Restore(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if ares.Cycle == "" || ares.Cycle != rres.Cycle {
		t.Errorf("cycle ids: %q vs %q", ares.Cycle, rres.Cycle)
	}
	for name, v := range overrideValues(chip) {
		if v != initial {
			t.Errorf("%s: 0x%02x after round trip", name, v)
		}
	}
	for _, st := range types.States()[:types.NumStates-1] {
		if st != types.StateInit && !snaps.IsCaptured(st) {
			t.Errorf("%s not captured", st)
		}
	}
	if f.Cycle() != "" {
		t.Error("cycle still open after restore")
	}
}

func TestRestore_ReverseOrder(t *testing.T) {
	chip, _, f := setup(t, snapshot.Disabled())
	ctx := context.Background()
	_, _ = f.Apply(ctx, true)
	_, _ = f.Restore(ctx)

	ups := updates(chip)
	ovr := catalog.Overrides()
	if len(ups) != 2*len(ovr) {
		t.Fatalf("expected %d writes, got %d", 2*len(ovr), len(ups))
	}
	for i, o := range ovr {
		if ups[i] != catalog.Locate(o.Reg) {
			t.Errorf("apply write %d at %s, want %s", i, ups[i], o.Name)
		}
		if ups[len(ups)-1-i] != catalog.Locate(o.Reg) {
			t.Errorf("restore write %d at %s, want %s", i, ups[len(ups)-1-i], o.Name)
		}
	}
}

func TestRestore_WithoutCycle(t *testing.T) {
	chip, snaps, f := setup(t)
	res, err := f.Restore(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Steps) != 0 || len(updates(chip)) != 0 {
		t.Error("restore without a cycle must not write")
	}
	if !snaps.IsCaptured(types.StateResumeCore) || !snaps.IsCaptured(types.StateResume) {
		t.Error("resume snapshots missing")
	}
}

func TestRestore_WriteFailureDoesNotBlock(t *testing.T) {
	chip, _, f := setup(t, snapshot.Disabled())
	ctx := context.Background()
	_, _ = f.Apply(ctx, true)
	_ = chip.Inject(transport.OpUpdate, "TVoutCtrl", 1)

	res, err := f.Restore(ctx)
	if err == nil {
		t.Fatal("expected restore error")
	}
	if res.Steps[0].Outcome != OutcomeRestoreFail {
		t.Errorf("first restore step: %+v", res.Steps[0])
	}
	for _, s := range res.Steps[1:] {
		if s.Outcome != OutcomeRestored {
			t.Errorf("%s: %s", s.Name, s.Outcome)
		}
	}
}

// --- Board / state ---

func TestAdjustForBoard(t *testing.T) {
	_, _, f := setup(t)
	f.AdjustForBoard(context.Background(), false)
	if f.Entries()[5].Value != 0x08 {
		t.Fatal("non-matching board changed table")
	}
	f.AdjustForBoard(context.Background(), true)
	if e := f.Entries()[5]; e.Name != "ExtSupplyRegu" || e.Value != catalog.ExtSupplyLowPower {
		t.Errorf("unexpected entry %+v", e)
	}
}

func TestAdjustForBoard_MismatchRevertsImportedValue(t *testing.T) {
	chip, snaps, f := setup(t)
	ctx := context.Background()
	f.AdjustForBoard(ctx, true)

	g := New(chip, snaps)
	if err := g.Import(f.Export()); err != nil {
		t.Fatalf("import: %v", err)
	}
	if g.Entries()[5].Value != catalog.ExtSupplyLowPower {
		t.Fatal("adjusted value not carried by import")
	}
	g.AdjustForBoard(ctx, false)
	if e := g.Entries()[5]; e.Name != "ExtSupplyRegu" || e.Value != 0x08 {
		t.Errorf("non-matching board kept adjusted entry %+v", e)
	}
}

func TestExportImport_CarriesCycle(t *testing.T) {
	chip, snaps, f := setup(t)
	ctx := context.Background()
	f.AdjustForBoard(ctx, true)
	if _, err := f.Apply(ctx, true); err != nil {
		t.Fatal(err)
	}
	st := f.Export()

	g := New(chip, snaps)
	if err := g.Import(st); err != nil {
		t.Fatalf("import: %v", err)
	}
	if g.Cycle() != f.Cycle() || g.Entries()[5].Value != catalog.ExtSupplyLowPower {
		t.Error("cycle or board adjust lost")
	}
	if _, err := g.Restore(ctx); err != nil {
		t.Fatal(err)
	}
	for name, v := range overrideValues(chip) {
		if v != initial {
			t.Errorf("%s: 0x%02x after cross-instance restore", name, v)
		}
	}

	bad := f.Export()
	bad.Entries[0].Name = "Bogus"
	if err := g.Import(bad); err == nil {
		t.Error("expected name mismatch error")
	}
}
