package snapshot

import (
	"errors"
	"fmt"
	"time"

	"github.com/opencontainers/go-digest"

	"github.com/cocoonstack/pmicdbg/catalog"
	"github.com/cocoonstack/pmicdbg/types"
)

// ErrDigestMismatch is returned by Import when stored values do not match
// their recorded digest.
var ErrDigestMismatch = errors.New("snapshot digest mismatch")

// Record is the persisted form of one non-empty state. Values are keyed by
// register name so the file stays readable and survives catalog reordering.
type Record struct {
	State      types.State      `json:"state"`
	Status     string           `json:"status"`
	CapturedAt time.Time        `json:"captured_at"`
	Digest     digest.Digest    `json:"digest,omitempty"`
	Values     map[string]uint8 `json:"values"`
}

// Export returns a record for every state that holds data.
func (s *Store) Export() []Record {
	var out []Record
	for _, st := range types.States() {
		e := &s.states[st]
		if e.Status == NotCaptured {
			continue
		}
		rec := Record{
			State:      st,
			Status:     e.Status.String(),
			CapturedAt: e.CapturedAt,
			Digest:     e.Digest,
			Values:     make(map[string]uint8, catalog.NumRegisters-1),
		}
		for _, r := range catalog.Registers() {
			rec.Values[r.Name] = e.Values[r.ID]
		}
		out = append(out, rec)
	}
	return out
}

// Import replaces all entries with recs. Captured records are checked
// against their digest; on any error the store is left unchanged.
func (s *Store) Import(recs []Record) error {
	var states [types.NumStates]Entry
	for _, rec := range recs {
		if !rec.State.Valid() {
			return fmt.Errorf("%w: %d", ErrInvalidState, int(rec.State))
		}
		e := Entry{CapturedAt: rec.CapturedAt, Digest: rec.Digest}
		switch rec.Status {
		case Captured.String():
			e.Status = Captured
		case Partial.String():
			e.Status = Partial
		default:
			continue
		}
		for name, v := range rec.Values {
			r, err := catalog.Lookup(name)
			if err != nil {
				return fmt.Errorf("import %s: %w", rec.State, err)
			}
			e.Values[r.ID] = v
		}
		if e.Status == Captured {
			if got := e.Values.Digest(); got != rec.Digest {
				return fmt.Errorf("import %s: %w: have %s, recorded %s", rec.State, ErrDigestMismatch, got, rec.Digest)
			}
		}
		states[rec.State] = e
	}
	s.states = states
	return nil
}
