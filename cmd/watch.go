package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	units "github.com/docker/go-units"
	"github.com/fsnotify/fsnotify"
	"github.com/moby/term"
	"github.com/projecteru2/core/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cocoonstack/pmicdbg/catalog"
	"github.com/cocoonstack/pmicdbg/config"
	"github.com/cocoonstack/pmicdbg/regdebug"
	"github.com/cocoonstack/pmicdbg/snapshot"
	"github.com/cocoonstack/pmicdbg/types"
)

var watchCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-capture current state on every change and print changed registers",
		Long: `Re-capture the current state whenever the registers may have changed and
print the registers whose value differs from the previous capture.

With the simulator transport the image file is watched; with i2c the bus
is polled every watch_interval.`,
		Args: cobra.NoArgs,
		RunE: runWatch,
	}
	cmd.Flags().Duration("interval", 0, "poll interval (default: watch_interval from config)")
	cmd.Flags().Bool("clear", false, "clear the terminal before each report")
	return cmd
}()

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	interval, _ := cmd.Flags().GetDuration("interval")
	if interval <= 0 {
		interval = conf.WatchInterval
	}
	clearScreen, _ := cmd.Flags().GetBool("clear")
	if _, isTerm := term.GetFdInfo(os.Stdout); !isTerm {
		clearScreen = false
	}
	if err := conf.EnsureDirs(); err != nil {
		return fmt.Errorf("ensure dirs: %w", err)
	}

	trigger := make(chan struct{}, 1)
	notify := func() {
		select {
		case trigger <- struct{}{}:
		default:
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	if conf.Transport == config.TransportSim {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer w.Close() //nolint:errcheck
		// the image is replaced by rename, so watch its directory
		if err := w.Add(filepath.Dir(conf.SimImagePath())); err != nil {
			return fmt.Errorf("watch %s: %w", conf.SimImagePath(), err)
		}
		g.Go(func() error { return watchImage(ctx, w, conf.SimImagePath(), notify) })
	} else {
		g.Go(func() error { return pollEvery(ctx, interval, notify) })
	}

	notify()
	g.Go(func() error {
		var prev *snapshot.Entry
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-trigger:
			}
			next, err := recaptureCurrent(ctx)
			if err != nil {
				log.WithFunc("cmd.watch").Warnf(ctx, "capture current: %v", err)
				continue
			}
			if prev != nil && next.Digest == prev.Digest {
				continue
			}
			if clearScreen {
				fmt.Print("\033[H\033[2J")
			}
			printChanges(prev, next)
			prev = next
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func watchImage(ctx context.Context, w *fsnotify.Watcher, path string, notify func()) error {
	logger := log.WithFunc("cmd.watchImage")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) == filepath.Clean(path) && ev.Has(fsnotify.Create|fsnotify.Write) {
				notify()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warnf(ctx, "watch %s: %v", path, err)
		}
	}
}

func pollEvery(ctx context.Context, interval time.Duration, notify func()) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			notify()
		}
	}
}

// recaptureCurrent records current through the session so other commands
// see the same snapshot.
func recaptureCurrent(ctx context.Context) (*snapshot.Entry, error) {
	var out snapshot.Entry
	err := withDebugger(ctx, func(ctx context.Context, d *regdebug.Debugger) error {
		if err := d.Capture(ctx, types.StateCurrent); err != nil {
			return err
		}
		e, err := d.Snapshots().Entry(types.StateCurrent)
		out = e
		return err
	})
	if err != nil {
		return nil, err
	}
	if out.Status != snapshot.Captured {
		return nil, fmt.Errorf("current state %s", out.Status)
	}
	return &out, nil
}

func printChanges(prev, next *snapshot.Entry) {
	if prev == nil {
		fmt.Printf("%s current captured (%s)\n", next.CapturedAt.Format(time.TimeOnly), next.Digest.Encoded()[:12])
		return
	}
	fmt.Printf("%s current changed, %s after previous capture\n",
		next.CapturedAt.Format(time.TimeOnly), units.HumanDuration(next.CapturedAt.Sub(prev.CapturedAt)))
	for _, r := range catalog.Registers() {
		if old, cur := prev.Values[r.ID], next.Values[r.ID]; old != cur {
			fmt.Printf("%22s %s: 0x%02x -> 0x%02x\n", r.Name, r.Location, old, cur)
		}
	}
}
