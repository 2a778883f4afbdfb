// Package session persists the debugger state between CLI invocations.
// Each command loads the session, runs, and writes it back under one flock,
// so two invocations never interleave a suspend/resume cycle.
package session

import (
	"context"
	"time"

	"github.com/cocoonstack/pmicdbg/force"
	"github.com/cocoonstack/pmicdbg/lock/flock"
	"github.com/cocoonstack/pmicdbg/snapshot"
	"github.com/cocoonstack/pmicdbg/storage"
	storejson "github.com/cocoonstack/pmicdbg/storage/json"
)

// State is everything the debugger keeps for the lifetime of a "driver".
type State struct {
	ForceEnabled bool `json:"force_enabled"`
	ReportState  int  `json:"report_state"`

	// Boot profile is read at most once per session.
	ProfileRead bool  `json:"profile_read"`
	Profile     uint8 `json:"profile,omitempty"`
	BoardMatch  bool  `json:"board_match,omitempty"`

	Snapshots []snapshot.Record `json:"snapshots,omitempty"`
	Force     force.State       `json:"force"`
	LastCycle *force.Result     `json:"last_cycle,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Store keeps State in a JSON file.
type Store struct {
	path  string
	store storage.Store[State]
}

// Open returns the session stored at path, guarded by an flock on lockPath.
// The file is created on first Update; a missing file reads as a fresh
// session.
func Open(path, lockPath string) *Store {
	return &Store{path: path, store: storejson.New[State](path, flock.New(lockPath))}
}

// Path returns the session file.
func (s *Store) Path() string { return s.path }

// Load returns a copy of the stored session.
func (s *Store) Load(ctx context.Context) (*State, error) {
	var out State
	err := s.store.With(ctx, func(st *State) error {
		out = *st
		return nil
	})
	return &out, err
}

// Update runs fn against the stored session and writes the result back.
func (s *Store) Update(ctx context.Context, fn func(*State) error) error {
	return s.store.Update(ctx, func(st *State) error {
		if err := fn(st); err != nil {
			return err
		}
		st.UpdatedAt = time.Now()
		return nil
	})
}

// Reset discards the stored session.
func (s *Store) Reset(ctx context.Context) error {
	return s.store.Update(ctx, func(st *State) error {
		*st = State{UpdatedAt: time.Now()}
		return nil
	})
}
