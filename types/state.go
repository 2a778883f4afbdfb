package types

import (
	"fmt"
	"strconv"
	"strings"
)

// State is a point in the suspend/resume transition at which a full
// register snapshot may be taken. It is a label, not a state machine: any
// state can be (re-)captured at any time.
type State int

const (
	StateInit        State = iota // driver probe
	StateSuspend                  // entering suspend, before overrides
	StateSuspendCore              // after overrides, last point before sleep
	StateResumeCore               // first point after wakeup, before restore
	StateResume                   // after restore
	StateCurrent                  // on-demand probe

	// NumStates is the number of lifecycle states. As a report selector it
	// is accepted and always yields "not recorded".
	NumStates = int(StateCurrent) + 1
)

var stateNames = [NumStates]string{
	StateInit:        "init",
	StateSuspend:     "suspend",
	StateSuspendCore: "suspend-core",
	StateResumeCore:  "resume-core",
	StateResume:      "resume",
	StateCurrent:     "current",
}

// States returns all lifecycle states in order.
func States() []State {
	out := make([]State, NumStates)
	for i := range out {
		out[i] = State(i)
	}
	return out
}

// Valid reports whether s names one of the lifecycle states.
func (s State) Valid() bool { return s >= 0 && int(s) < NumStates }

func (s State) String() string {
	if !s.Valid() {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// ParseState accepts a state name ("suspend-core") or its index ("2").
func ParseState(v string) (State, error) {
	v = strings.TrimSpace(strings.ToLower(v))
	for i, name := range stateNames {
		if v == name {
			return State(i), nil
		}
	}
	if idx, err := strconv.Atoi(v); err == nil && State(idx).Valid() {
		return State(idx), nil
	}
	return 0, fmt.Errorf("unknown lifecycle state %q", v)
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(b []byte) error {
	st, err := ParseState(string(b))
	if err != nil {
		return err
	}
	*s = st
	return nil
}
