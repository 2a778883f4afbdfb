package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cocoonstack/pmicdbg/force"
	"github.com/cocoonstack/pmicdbg/snapshot"
	"github.com/cocoonstack/pmicdbg/transport/sim"
	"github.com/cocoonstack/pmicdbg/types"
)

func open(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	return Open(path, path+".lock")
}

func TestStore_MissingFileIsFresh(t *testing.T) {
	s := open(t)
	st, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, st.ForceEnabled)
	assert.Equal(t, 0, st.ReportState)
	assert.Empty(t, st.Snapshots)
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	chip := sim.New()
	snaps := snapshot.New(chip)
	require.NoError(t, snaps.Capture(ctx, types.StateInit))
	f := force.New(chip, snaps)
	_, err := f.Apply(ctx, true)
	require.NoError(t, err)

	s := open(t)
	require.NoError(t, s.Update(ctx, func(st *State) error {
		st.ForceEnabled = true
		st.ReportState = 3
		st.Snapshots = snaps.Export()
		st.Force = f.Export()
		return nil
	}))

	got, err := Open(s.Path(), s.Path()+".lock").Load(ctx)
	require.NoError(t, err)
	assert.True(t, got.ForceEnabled)
	assert.Equal(t, 3, got.ReportState)
	assert.False(t, got.UpdatedAt.IsZero())
	assert.Equal(t, f.Cycle(), got.Force.Cycle)

	restored := snapshot.New(chip)
	require.NoError(t, restored.Import(got.Snapshots))
	for _, st := range []types.State{types.StateInit, types.StateSuspend, types.StateSuspendCore} {
		assert.True(t, restored.IsCaptured(st), st.String())
	}

	f2 := force.New(chip, restored)
	require.NoError(t, f2.Import(got.Force))
	assert.Equal(t, f.Entries(), f2.Entries())
}

func TestStore_Reset(t *testing.T) {
	ctx := context.Background()
	s := open(t)
	require.NoError(t, s.Update(ctx, func(st *State) error {
		st.ForceEnabled = true
		return nil
	}))
	require.NoError(t, s.Reset(ctx))
	st, err := s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, st.ForceEnabled)
}
