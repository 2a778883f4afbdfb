package report

import (
	"time"

	"github.com/cocoonstack/pmicdbg/catalog"
	"github.com/cocoonstack/pmicdbg/snapshot"
	"github.com/cocoonstack/pmicdbg/types"
)

// DumpState is the header entry for one lifecycle state.
type DumpState struct {
	State      types.State `json:"state"`
	Status     string      `json:"status"`
	CapturedAt *time.Time  `json:"captured_at,omitempty"`
	Digest     string      `json:"digest,omitempty"`
}

// DumpRow is one register across all states.
type DumpRow struct {
	Name   string                 `json:"name"`
	Loc    string                 `json:"loc"`
	Values [types.NumStates]uint8 `json:"values"`
}

// Dump is the raw register table.
type Dump struct {
	States []DumpState `json:"states"`
	Rows   []DumpRow   `json:"rows"`
}

// EntryReader is the snapshot access the dump needs.
type EntryReader interface {
	Entry(types.State) (snapshot.Entry, error)
}

// BuildDump collects every register value of every state. States that were
// never captured read as zero, partial captures show what was read.
func BuildDump(snaps EntryReader) (*Dump, error) {
	var entries [types.NumStates]snapshot.Entry
	d := &Dump{}
	for _, st := range types.States() {
		e, err := snaps.Entry(st)
		if err != nil {
			return nil, err
		}
		entries[st] = e
		ds := DumpState{State: st, Status: e.Status.String(), Digest: string(e.Digest)}
		if e.Status != snapshot.NotCaptured {
			at := e.CapturedAt
			ds.CapturedAt = &at
		}
		d.States = append(d.States, ds)
	}
	for _, r := range catalog.Registers() {
		row := DumpRow{Name: r.Name, Loc: r.Location.String()}
		for st := range entries {
			row.Values[st] = entries[st].Values[r.ID]
		}
		d.Rows = append(d.Rows, row)
	}
	return d, nil
}
