package sim

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cocoonstack/pmicdbg/catalog"
	"github.com/cocoonstack/pmicdbg/transport"
)

var ext = catalog.Locate(catalog.ExtSupplyRegu)

// --- Chip ---

func TestChip_UpdateIsMasked(t *testing.T) {
	c := New()
	ctx := context.Background()
	require.NoError(t, c.Update(ctx, ext.Bank, ext.Addr, 0x0c, 0xff))
	v, err := c.Read(ctx, ext.Bank, ext.Addr)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x1d), v) // 0x15 with bits 2-3 set
}

func TestChip_CountedFault(t *testing.T) {
	c := New()
	ctx := context.Background()
	require.NoError(t, c.Inject(transport.OpRead, "ExtSupplyRegu", 2))

	for range 2 {
		_, err := c.Read(ctx, ext.Bank, ext.Addr)
		require.Error(t, err)
		assert.ErrorIs(t, err, transport.ErrTransport)
		assert.ErrorIs(t, err, ErrInjected)
		var te *transport.Error
		require.True(t, errors.As(err, &te))
		assert.Equal(t, transport.OpRead, te.Op)
		assert.Equal(t, ext.Addr, te.Addr)
	}
	_, err := c.Read(ctx, ext.Bank, ext.Addr)
	assert.NoError(t, err)
	assert.Empty(t, c.Faults)
}

func TestChip_PersistentWriteFault(t *testing.T) {
	c := New()
	ctx := context.Background()
	require.NoError(t, c.Inject(transport.OpUpdate, "0x0408", 0))
	for range 3 {
		assert.Error(t, c.Update(ctx, ext.Bank, ext.Addr, 0xff, 0))
	}
	assert.Equal(t, uint8(0x15), c.Get(ext), "failed writes must not land")
	_, err := c.Read(ctx, ext.Bank, ext.Addr)
	assert.NoError(t, err, "write faults do not affect reads")

	c.ClearFaults()
	assert.NoError(t, c.Update(ctx, ext.Bank, ext.Addr, 0xff, 0))
}

func TestChip_InjectRejectsUnknown(t *testing.T) {
	c := New()
	assert.ErrorIs(t, c.Inject(transport.OpRead, "Nope", 1), catalog.ErrUnknownRegister)
	assert.Error(t, c.Inject("erase", "ExtSupplyRegu", 1))
}

func TestChip_Journal(t *testing.T) {
	c := New()
	ctx := context.Background()
	_, _ = c.Read(ctx, ext.Bank, ext.Addr)
	_ = c.Update(ctx, ext.Bank, ext.Addr, 0x03, 0x03)
	j := c.Journal()
	require.Len(t, j, 2)
	assert.Equal(t, transport.OpRead, j[0].Op)
	assert.Equal(t, uint8(0x15), j[0].Value)
	assert.Equal(t, transport.OpUpdate, j[1].Op)
	assert.Equal(t, uint8(0x03), j[1].Mask)
}

// --- Image ---

func TestImage_SharedBetweenHandles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chip.json")
	ctx := context.Background()
	a, b := Open(path), Open(path)

	require.NoError(t, a.Update(ctx, ext.Bank, ext.Addr, 0x3f, 0x08))
	v, err := b.Read(ctx, ext.Bank, ext.Addr)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x08), v)

	require.NoError(t, a.Inject(ctx, transport.OpRead, "ExtSupplyRegu", 1))
	_, err = b.Read(ctx, ext.Bank, ext.Addr)
	assert.ErrorIs(t, err, ErrInjected)
	faults, err := a.Faults(ctx)
	require.NoError(t, err)
	assert.Empty(t, faults, "counted fault consumed through the other handle")
}

// --- Seed ---

func TestSeed_LoadAndApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`registers:
  ExtSupplyRegu: 0x2a
  "0x0680": 0x03
faults:
  - {op: update, register: SysClkCtrl, count: 1}
`), 0o600))

	s, err := LoadSeed(path)
	require.NoError(t, err)

	im := Open(filepath.Join(t.TempDir(), "chip.json"))
	ctx := context.Background()
	require.NoError(t, im.Seed(ctx, s, true))

	regs, err := im.Registers(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x2a), regs["0x0408"])
	assert.Equal(t, uint8(0x03), regs["0x0680"])
	assert.Equal(t, uint8(0x01), regs["0x0233"], "defaults kept for unseeded registers")

	faults, err := im.Faults(ctx)
	require.NoError(t, err)
	require.Len(t, faults, 1)
	assert.Equal(t, "0x020c", faults[0].Register)
}

func TestSeed_BadRegister(t *testing.T) {
	s := &Seed{Registers: map[string]uint8{"Bogus": 1}}
	assert.ErrorIs(t, s.Apply(New(), false), catalog.ErrUnknownRegister)
}

func TestImage_PlainReadDoesNotRewrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chip.json")
	ctx := context.Background()
	im := Open(path)
	require.NoError(t, im.Update(ctx, ext.Bank, ext.Addr, 0xff, 0x15))
	before, err := os.Stat(path)
	require.NoError(t, err)

	_, err = im.Read(ctx, ext.Bank, ext.Addr)
	require.NoError(t, err)
	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, os.SameFile(before, after), "read replaced the image file")
}

func TestImage_PermanentReadFaultDoesNotRewrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chip.json")
	ctx := context.Background()
	im := Open(path)
	require.NoError(t, im.Inject(ctx, transport.OpRead, "VarmSel1", 0))
	before, err := os.Stat(path)
	require.NoError(t, err)

	loc := catalog.Locate(catalog.VarmSel1)
	for range 3 {
		_, err = im.Read(ctx, loc.Bank, loc.Addr)
		require.ErrorIs(t, err, ErrInjected)
		after, statErr := os.Stat(path)
		require.NoError(t, statErr)
		assert.True(t, os.SameFile(before, after), "failed read replaced the image file")
	}

	faults, err := im.Faults(ctx)
	require.NoError(t, err)
	require.Len(t, faults, 1)
	assert.Equal(t, 0, faults[0].Count)
}

func TestImage_CountedReadFaultIsConsumed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chip.json")
	ctx := context.Background()
	im := Open(path)
	require.NoError(t, im.Inject(ctx, transport.OpRead, "VarmSel1", 1))

	loc := catalog.Locate(catalog.VarmSel1)
	_, err := im.Read(ctx, loc.Bank, loc.Addr)
	require.ErrorIs(t, err, ErrInjected)
	v, err := im.Read(ctx, loc.Bank, loc.Addr)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x10), v)

	faults, err := im.Faults(ctx)
	require.NoError(t, err)
	assert.Empty(t, faults)
}
