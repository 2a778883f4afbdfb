package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cocoonstack/pmicdbg/board"
	"github.com/cocoonstack/pmicdbg/catalog"
	"github.com/cocoonstack/pmicdbg/config"
	"github.com/cocoonstack/pmicdbg/regdebug"
	"github.com/cocoonstack/pmicdbg/session"
	"github.com/cocoonstack/pmicdbg/transport"
	"github.com/cocoonstack/pmicdbg/transport/i2cdev"
	"github.com/cocoonstack/pmicdbg/transport/sim"
	"github.com/cocoonstack/pmicdbg/types"
)

// initTransport opens the configured register backend. The returned func
// releases it.
func initTransport() (transport.Transport, func(), error) {
	if err := conf.EnsureDirs(); err != nil {
		return nil, nil, fmt.Errorf("ensure dirs: %w", err)
	}
	switch conf.Transport {
	case config.TransportI2C:
		bus, err := i2cdev.Open(conf.I2CBus, uint8(conf.I2CBaseAddr)) //nolint:gosec
		if err != nil {
			return nil, nil, fmt.Errorf("init i2c transport: %w", err)
		}
		return bus, func() { _ = bus.Close() }, nil
	default:
		return sim.Open(conf.SimImagePath()), func() {}, nil
	}
}

// initSimImage opens the simulator image for sim-only commands.
func initSimImage() (*sim.Image, error) {
	if conf.Transport != config.TransportSim {
		return nil, fmt.Errorf("transport is %q, simulator commands need %q", conf.Transport, config.TransportSim)
	}
	if err := conf.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("ensure dirs: %w", err)
	}
	return sim.Open(conf.SimImagePath()), nil
}

func initSession() *session.Store {
	return session.Open(conf.SessionFile(), conf.SessionLock())
}

// boardSources builds the probe-time collaborators from config.
func boardSources(tr transport.Transport) (board.Identifier, board.ProfileSource) {
	var id board.Identifier = board.Static{
		ChipRevision: uint8(conf.ChipRevision), //nolint:gosec
		SoCRevision:  conf.SoCRevision,
	}
	if conf.ChipID {
		id = board.ChipID{Transport: tr, SoCRevision: conf.SoCRevision}
	}
	var prof board.ProfileSource
	switch {
	case conf.BoardProfileFile != "":
		prof = &board.FileProfile{Path: conf.BoardProfileFile, Offset: conf.BoardProfileOffset}
	case conf.BoardProfile >= 0:
		prof = board.StaticProfile(uint8(conf.BoardProfile)) //nolint:gosec
	}
	return id, prof
}

// withDebugger loads the session into a Debugger, runs fn and stores the
// session back. The session is saved even when fn fails, since a failed
// capture or override step still changes what is recorded.
func withDebugger(ctx context.Context, fn func(context.Context, *regdebug.Debugger) error) error {
	tr, release, err := initTransport()
	if err != nil {
		return err
	}
	defer release()

	var opts []regdebug.Option
	if !conf.SnapshotEnabled {
		opts = append(opts, regdebug.WithoutSnapshots())
	}
	d := regdebug.New(tr, opts...)

	store := initSession()
	var runErr error
	if err := store.Update(ctx, func(st *session.State) error {
		if err := d.Import(*st); err != nil {
			return fmt.Errorf("load session %s: %w", store.Path(), err)
		}
		runErr = fn(ctx, d)
		*st = d.Export()
		return nil
	}); err != nil {
		return err
	}
	return runErr
}

// resolveRegister accepts a catalog name, "0xBBAA", or ChipRevision.
func resolveRegister(ref string) (string, types.Location, error) {
	if strings.EqualFold(ref, "ChipRevision") || strings.EqualFold(ref, catalog.ChipRevision.String()) {
		return "ChipRevision", catalog.ChipRevision, nil
	}
	r, err := catalog.Lookup(ref)
	if err != nil {
		return "", types.Location{}, err
	}
	return r.Name, r.Location, nil
}

// parseByte parses a register value, honouring base prefixes.
func parseByte(what, s string) (uint8, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", what, s, err)
	}
	return uint8(v), nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
