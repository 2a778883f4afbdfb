package report

import (
	"bufio"
	"fmt"
	"io"
	"time"

	units "github.com/docker/go-units"

	"github.com/cocoonstack/pmicdbg/snapshot"
	"github.com/cocoonstack/pmicdbg/types"
)

const (
	statusRule = "+-----------+----+------+-+-+-+-+-+-------+-------+-------+"
	statusNote = "Note! In HW mode, voltage selection is controlled by HW."
)

var statusHeader = []string{
	"+-----------+----+--------------+-------------------------+",
	"|       name|man |auto          |voltage                  |",
	"+-----------+----+--------------+ +-----------------------+",
	"|           |mode|mode  |0|1|2|3| |    1  |    2  |    3  |",
	statusRule,
}

// WriteStatus renders s as the regulator status table.
func WriteStatus(w io.Writer, s *Status) error {
	bw := bufio.NewWriter(w)
	if !s.Recorded {
		_, _ = fmt.Fprintln(bw, "ab8500-regulator status is not recorded.")
		return bw.Flush()
	}
	_, _ = fmt.Fprintln(bw, "ab8500-regulator status:")
	_, _ = fmt.Fprintf(bw, "%12s\n", s.State)
	for _, l := range statusHeader {
		_, _ = fmt.Fprintln(bw, l)
	}
	for _, r := range s.Rows {
		_, _ = fmt.Fprintln(bw, FormatRow(r))
	}
	_, _ = fmt.Fprintln(bw, statusRule)
	_, _ = fmt.Fprintln(bw, statusNote)
	return bw.Flush()
}

// FormatRow renders one regulator line of the status table.
func FormatRow(r Row) string {
	line := fmt.Sprintf("|%11s|%4s|", r.Name, r.Manual)
	if r.HWMode == "" {
		line += "      |"
	} else {
		line += fmt.Sprintf("%6s|", r.HWMode)
	}
	for _, b := range r.Valid {
		line += b.String() + "|"
	}
	switch {
	case r.Slot == SlotNone:
		line += " |"
	case r.Slot == SlotUndefined:
		line += "-|"
	default:
		line += fmt.Sprintf("%d|", r.Slot)
	}
	for _, v := range r.Volts {
		switch {
		case !v.Present:
			line += "       |"
		case v.Err != "":
			line += "invalid|"
		default:
			line += fmt.Sprintf("%7d|", v.MicroVolts)
		}
	}
	return line
}

// WriteDump renders d as the raw register dump. States are listed newest
// first with a staircase pointing at their value column. now is used for
// the capture age; pass the zero time to omit it.
func WriteDump(w io.Writer, d *Dump, now time.Time) error {
	bw := bufio.NewWriter(w)
	_, _ = fmt.Fprintln(bw, "ab8500-regulator dump:")
	for i := len(d.States) - 1; i >= 0; i-- {
		ds := d.States[i]
		switch ds.Status {
		case snapshot.Captured.String():
			_, _ = fmt.Fprintf(bw, "%16s saved -------", ds.State)
		case snapshot.Partial.String():
			_, _ = fmt.Fprintf(bw, "%14s partial -------", ds.State)
		default:
			_, _ = fmt.Fprintf(bw, "%12s not saved -------", ds.State)
		}
		for col := range types.NumStates {
			switch {
			case col < i:
				_, _ = fmt.Fprint(bw, "-----")
			case col == i:
				_, _ = fmt.Fprint(bw, "----+")
			default:
				_, _ = fmt.Fprint(bw, "    |")
			}
		}
		if ds.CapturedAt != nil && !now.IsZero() {
			_, _ = fmt.Fprintf(bw, " %s ago", units.HumanDuration(now.Sub(*ds.CapturedAt)))
		}
		_, _ = fmt.Fprintln(bw)
	}
	_, _ = fmt.Fprint(bw, "\n                       addr\n")
	for _, r := range d.Rows {
		_, _ = fmt.Fprintf(bw, "%22s %s:", r.Name, r.Loc)
		for _, v := range r.Values {
			_, _ = fmt.Fprintf(bw, " 0x%02x", v)
		}
		_, _ = fmt.Fprintln(bw)
	}
	return bw.Flush()
}
