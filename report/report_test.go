package report

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/cocoonstack/pmicdbg/catalog"
	"github.com/cocoonstack/pmicdbg/snapshot"
	"github.com/cocoonstack/pmicdbg/transport"
	"github.com/cocoonstack/pmicdbg/transport/sim"
	"github.com/cocoonstack/pmicdbg/types"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func captured(t *testing.T, states ...types.State) (*sim.Chip, *snapshot.Store) {
	t.Helper()
	chip := sim.New()
	snaps := snapshot.New(chip, snapshot.WithClock(func() time.Time { return epoch }))
	for _, st := range states {
		if err := snaps.Capture(context.Background(), st); err != nil {
			t.Fatalf("capture %s: %v", st, err)
		}
	}
	return chip, snaps
}

func lines(b *bytes.Buffer) []string {
	return strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
}

// --- Selector ---

func TestParseStateIndex(t *testing.T) {
	for in, want := range map[string]int{"0": 0, "5": 5, "6": 6, "0x3": 3, " 2 ": 2} {
		got, err := ParseStateIndex(in)
		if err != nil || got != want {
			t.Errorf("ParseStateIndex(%q) = %d, %v; want %d", in, got, err, want)
		}
	}
	for _, in := range []string{"7", "-1", "", "suspend", "256"} {
		_, err := ParseStateIndex(in)
		var ie *InvalidStateIndexError
		if !errors.As(err, &ie) {
			t.Errorf("ParseStateIndex(%q): expected InvalidStateIndexError, got %v", in, err)
		}
	}
}

func TestBuild_NumStatesIsNotRecorded(t *testing.T) {
	_, snaps := captured(t, types.States()...)
	s, err := Build(catalog.Regulators(), snaps, types.NumStates)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if s.Recorded || len(s.Rows) != 0 {
		t.Errorf("selector %d should never be recorded: %+v", types.NumStates, s)
	}
	if _, err := Build(catalog.Regulators(), snaps, types.NumStates+1); err == nil {
		t.Error("selector past NumStates accepted")
	}
}

// --- Status ---

func TestBuild_DecodesDefaults(t *testing.T) {
	_, snaps := captured(t, types.StateInit)
	s, err := Build(catalog.Regulators(), snaps, int(types.StateInit))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !s.Recorded || len(s.Rows) != 27 {
		t.Fatalf("expected 27 recorded rows, got %d (recorded %v)", len(s.Rows), s.Recorded)
	}
	want := Row{
		Name:   "Varm",
		Manual: "on",
		HWMode: "hp/lp",
		Valid:  [types.NumRequesters]Bit{BitSet, BitAbsent, BitAbsent, BitClear},
		Slot:   1,
		Volts: [types.NumSlots]Volt{
			{Present: true, MicroVolts: 900000},
			{Present: true, MicroVolts: 700000},
			{Present: true, MicroVolts: 700000},
		},
	}
	if diff := cmp.Diff(want, s.Rows[0]); diff != "" {
		t.Errorf("Varm row mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_PartialIsNotRecorded(t *testing.T) {
	chip, snaps := captured(t)
	if err := chip.Inject(transport.OpRead, "VapeSel1", 1); err != nil {
		t.Fatal(err)
	}
	if err := snaps.Capture(context.Background(), types.StateSuspend); !errors.Is(err, snapshot.ErrPartialCapture) {
		t.Fatalf("expected partial capture, got %v", err)
	}
	s, err := Build(catalog.Regulators(), snaps, int(types.StateSuspend))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if s.Recorded {
		t.Error("partial capture rendered as recorded")
	}
}

func TestWriteStatus_Table(t *testing.T) {
	_, snaps := captured(t, types.StateCurrent)
	s, err := Build(catalog.Regulators(), snaps, int(types.StateCurrent))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteStatus(&buf, s); err != nil {
		t.Fatalf("WriteStatus: %v", err)
	}
	got := lines(&buf)
	head := []string{
		"ab8500-regulator status:",
		"     current",
		"+-----------+----+--------------+-------------------------+",
		"|       name|man |auto          |voltage                  |",
		"+-----------+----+--------------+ +-----------------------+",
		"|           |mode|mode  |0|1|2|3| |    1  |    2  |    3  |",
		"+-----------+----+------+-+-+-+-+-+-------+-------+-------+",
		"|       Varm|  on| hp/lp|1| | |0|1| 900000| 700000| 700000|",
		"|       Vbbp| off|      |0| | | |1|      0|      0|       |",
	}
	if diff := cmp.Diff(head, got[:len(head)]); diff != "" {
		t.Errorf("status head mismatch (-want +got):\n%s", diff)
	}
	tail := []string{
		"+-----------+----+------+-+-+-+-+-+-------+-------+-------+",
		"Note! In HW mode, voltage selection is controlled by HW.",
	}
	if diff := cmp.Diff(tail, got[len(got)-2:]); diff != "" {
		t.Errorf("status tail mismatch (-want +got):\n%s", diff)
	}
	if len(got) != 7+27+2 {
		t.Errorf("expected %d lines, got %d", 7+27+2, len(got))
	}
}

func TestWriteStatus_NotRecorded(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteStatus(&buf, &Status{Index: 1, State: "suspend"}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "ab8500-regulator status is not recorded.\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestFormatRow_Cells(t *testing.T) {
	r := Row{
		Name:   "Vaux3",
		Manual: "-",
		Valid:  [types.NumRequesters]Bit{BitClear, BitSet, BitAbsent, BitSet},
		Slot:   SlotUndefined,
		Volts:  [types.NumSlots]Volt{{Present: true, Err: "misaligned"}, {Present: true, MicroVolts: -400000}},
	}
	want := "|      Vaux3|   -|      |0|1| |1|-|invalid|-400000|       |"
	if got := FormatRow(r); got != want {
		t.Errorf("FormatRow:\n got %q\nwant %q", got, want)
	}
}

// --- Dump ---

func TestWriteDump_Layout(t *testing.T) {
	chip, snaps := captured(t, types.StateInit, types.StateCurrent)
	if err := chip.Inject(transport.OpRead, "ReguRequestCtrl3", 1); err != nil {
		t.Fatal(err)
	}
	_ = snaps.Capture(context.Background(), types.StateSuspend)

	d, err := BuildDump(snaps)
	if err != nil {
		t.Fatalf("BuildDump: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteDump(&buf, d, time.Time{}); err != nil {
		t.Fatalf("WriteDump: %v", err)
	}
	got := lines(&buf)
	want := []string{
		"ab8500-regulator dump:",
		"         current saved ------------------------------------+",
		"      resume not saved -------------------------------+    |",
		" resume-core not saved --------------------------+    |    |",
		"suspend-core not saved ---------------------+    |    |    |",
		"       suspend partial ----------------+    |    |    |    |",
		"            init saved -----------+    |    |    |    |    |",
		"",
		"                       addr",
		"      ReguRequestCtrl1 0x0303: 0x00 0x00 0x00 0x00 0x00 0x00",
	}
	if diff := cmp.Diff(want, got[:len(want)]); diff != "" {
		t.Errorf("dump mismatch (-want +got):\n%s", diff)
	}
	if n := len(got) - len(want) + 1; n != catalog.NumRegisters-1 {
		t.Errorf("expected %d register rows, got %d", catalog.NumRegisters-1, n)
	}
}

func TestWriteDump_Age(t *testing.T) {
	_, snaps := captured(t, types.StateInit)
	d, err := BuildDump(snaps)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteDump(&buf, d, epoch.Add(5*time.Minute)); err != nil {
		t.Fatal(err)
	}
	got := lines(&buf)
	if want := "            init saved -----------+    |    |    |    |    | 5 minutes ago"; got[6] != want {
		t.Errorf("init line:\n got %q\nwant %q", got[6], want)
	}
}

func TestBuildDump_PartialValuesKept(t *testing.T) {
	chip, snaps := captured(t)
	if err := chip.Inject(transport.OpRead, "VarmSel2", 1); err != nil {
		t.Fatal(err)
	}
	_ = snaps.Capture(context.Background(), types.StateResume)
	d, err := BuildDump(snaps)
	if err != nil {
		t.Fatal(err)
	}
	if d.States[types.StateResume].Status != snapshot.Partial.String() {
		t.Fatalf("resume status %q", d.States[types.StateResume].Status)
	}
	for _, r := range d.Rows {
		if r.Name == "VarmSel1" && r.Values[types.StateResume] != 0x10 {
			t.Errorf("VarmSel1 in partial capture = 0x%02x", r.Values[types.StateResume])
		}
	}
}
