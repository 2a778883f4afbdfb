// Package snapshot keeps one raw copy of every catalog register per
// lifecycle state.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/opencontainers/go-digest"
	"github.com/projecteru2/core/log"

	"github.com/cocoonstack/pmicdbg/catalog"
	"github.com/cocoonstack/pmicdbg/transport"
	"github.com/cocoonstack/pmicdbg/types"
)

var (
	// ErrPartialCapture marks a capture that stopped at a failed read. The
	// values read so far are kept but the state is not captured.
	ErrPartialCapture = errors.New("partial capture")
	// ErrInvalidState is returned for a state outside the lifecycle set.
	ErrInvalidState = errors.New("invalid lifecycle state")
)

// Status is the capture status of one state.
type Status int

const (
	NotCaptured Status = iota
	Partial
	Captured
)

func (s Status) String() string {
	switch s {
	case Partial:
		return "partial"
	case Captured:
		return "captured"
	default:
		return "not captured"
	}
}

// Values holds one raw byte per register id. Index 0 is the sentinel and
// always zero.
type Values [catalog.NumRegisters]uint8

// Digest fingerprints the register contents, ignoring the sentinel.
func (v *Values) Digest() digest.Digest {
	return digest.FromBytes(v[1:])
}

// Entry is the stored copy of one state.
type Entry struct {
	Status     Status
	CapturedAt time.Time
	Digest     digest.Digest
	Values     Values
}

// Store owns the per-state copies. It is not safe for concurrent use; the
// caller serializes captures.
type Store struct {
	tr      transport.Transport
	enabled bool
	now     func() time.Time
	states  [types.NumStates]Entry
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the capture timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Disabled starts the store with snapshotting turned off.
func Disabled() Option {
	return func(s *Store) { s.enabled = false }
}

// New creates an empty store reading through tr.
func New(tr transport.Transport, opts ...Option) *Store {
	s := &Store{tr: tr, enabled: true, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Enabled reports whether Capture reads the hardware.
func (s *Store) Enabled() bool { return s.enabled }

// SetEnabled turns snapshotting on or off. Existing entries are kept.
func (s *Store) SetEnabled(v bool) { s.enabled = v }

// Capture reads every catalog register into state. With snapshotting
// disabled it does nothing and succeeds. A failed read stops the capture;
// what was read is kept with status Partial and the error wraps both
// ErrPartialCapture and the transport error.
func (s *Store) Capture(ctx context.Context, state types.State) error {
	if !state.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidState, int(state))
	}
	if !s.enabled {
		return nil
	}
	logger := log.WithFunc("snapshot.Capture")

	var buf Values
	for _, r := range catalog.Registers() {
		v, err := s.tr.Read(ctx, r.Bank, r.Addr)
		if err != nil {
			s.states[state] = Entry{Status: Partial, CapturedAt: s.now(), Values: buf}
			logger.Warnf(ctx, "capture %s stopped at %s: %v", state, r.Name, err)
			return fmt.Errorf("capture %s at %s: %w: %w", state, r.Name, ErrPartialCapture, err)
		}
		buf[r.ID] = v
	}
	s.states[state] = Entry{Status: Captured, CapturedAt: s.now(), Digest: buf.Digest(), Values: buf}
	logger.Debugf(ctx, "captured %s (%s)", state, s.states[state].Digest.Encoded()[:12])
	return nil
}

// IsCaptured reports whether state holds a complete capture.
func (s *Store) IsCaptured(state types.State) bool {
	return s.Status(state) == Captured
}

// Status returns the capture status of state.
func (s *Store) Status(state types.State) Status {
	if !state.Valid() {
		return NotCaptured
	}
	return s.states[state].Status
}

// Read returns the captured value of id in state. ok is false when the
// state is not fully captured or id is not a catalog register.
func (s *Store) Read(state types.State, id types.RegisterID) (v uint8, ok bool) {
	v, st := s.Lookup(state, id)
	if st != Captured {
		return 0, false
	}
	return v, true
}

// Lookup returns whatever is stored for id, including values of a partial
// capture, along with the state's status.
func (s *Store) Lookup(state types.State, id types.RegisterID) (uint8, Status) {
	if !state.Valid() || id <= types.NoRegister || int(id) >= catalog.NumRegisters {
		return 0, NotCaptured
	}
	e := &s.states[state]
	return e.Values[id], e.Status
}

// Entry returns a copy of the stored entry for state.
func (s *Store) Entry(state types.State) (Entry, error) {
	if !state.Valid() {
		return Entry{}, fmt.Errorf("%w: %d", ErrInvalidState, int(state))
	}
	return s.states[state], nil
}
