package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/projecteru2/core/log"
	"github.com/spf13/cobra"

	"github.com/cocoonstack/pmicdbg/force"
	"github.com/cocoonstack/pmicdbg/regdebug"
	"github.com/cocoonstack/pmicdbg/types"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Run start-up: record init, identify the board, read the boot profile",
	Args:  cobra.NoArgs,
	RunE:  runProbe,
}

var suspendCmd = cycleStepCmd("suspend", "Record suspend, apply overrides if forced, record suspend-core")
var resumeCmd = cycleStepCmd("resume", "Record resume-core, restore overrides, record resume")

var cycleCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cycle",
		Short: "Run suspend and resume back to back",
		Args:  cobra.NoArgs,
		RunE:  runCycle,
	}
	cmd.Flags().Bool("json", false, "output JSON")
	return cmd
}()

var captureCmd = &cobra.Command{
	Use:   "capture STATE",
	Short: "Record all registers into STATE (name or index)",
	Args:  cobra.ExactArgs(1),
	RunE:  runCapture,
}

func cycleStepCmd(name, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			return withDebugger(commandContext(cmd), func(ctx context.Context, d *regdebug.Debugger) error {
				fn := d.Suspend
				if name == "resume" {
					fn = d.Resume
				}
				return cycleStep(ctx, name, fn, asJSON)
			})
		},
	}
	cmd.Flags().Bool("json", false, "output JSON")
	return cmd
}

// cycleStep runs one half of an override cycle and reports per-entry
// outcomes. Failures are reported after the table.
func cycleStep(ctx context.Context, name string, fn func(context.Context) (*force.Result, error), asJSON bool) error {
	logger := log.WithFunc("cmd." + name)
	res, err := fn(ctx)
	if res != nil {
		logger.Infof(ctx, "%s cycle %s: %d steps, %d failed", name, res.Cycle, len(res.Steps), res.Failed())
		if asJSON {
			if jerr := printJSON(res); jerr != nil {
				return jerr
			}
		} else {
			printResult(name, res)
		}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func printResult(name string, res *force.Result) {
	cycle := res.Cycle
	if cycle == "" {
		cycle = "-"
	}
	fmt.Printf("%s: cycle %s, %s\n", name, cycle, regdebug.ForceString(res.Forced))
	if len(res.Steps) == 0 {
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "REGISTER\tOUTCOME\tVALUE\tERROR")
	for _, s := range res.Steps {
		_, _ = fmt.Fprintf(w, "%s\t%s\t0x%02x\t%s\n", s.Name, s.Outcome, s.Value, s.Err)
	}
	w.Flush() //nolint:errcheck,gosec
}

func runProbe(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	return withDebugger(ctx, func(ctx context.Context, d *regdebug.Debugger) error {
		id, prof := boardSources(d.Transport())
		if err := d.Probe(ctx, id, prof); err != nil {
			log.WithFunc("cmd.probe").Warnf(ctx, "probe finished with errors: %v", err)
		}
		fmt.Printf("init: %s\n", d.Snapshots().Status(types.StateInit))
		fmt.Printf("board: external supply variant %v\n", d.BoardMatch())
		if p, read := d.Profile(); read {
			fmt.Printf("profile: 0x%02x\n", p)
		}
		fmt.Println(regdebug.ForceString(d.ForceEnabled()))
		return nil
	})
}

func runCycle(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	return withDebugger(commandContext(cmd), func(ctx context.Context, d *regdebug.Debugger) error {
		if err := cycleStep(ctx, "suspend", d.Suspend, asJSON); err != nil {
			if d.Cycle() == "" {
				return err
			}
			log.WithFunc("cmd.cycle").Warnf(ctx, "%v", err)
		}
		return cycleStep(ctx, "resume", d.Resume, asJSON)
	})
}

func runCapture(cmd *cobra.Command, args []string) error {
	st, err := types.ParseState(args[0])
	if err != nil {
		return err
	}
	return withDebugger(commandContext(cmd), func(ctx context.Context, d *regdebug.Debugger) error {
		if !d.Snapshots().Enabled() {
			fmt.Printf("%s: snapshots disabled\n", st)
			return nil
		}
		if err := d.Capture(ctx, st); err != nil {
			return fmt.Errorf("capture: %w", err)
		}
		e, err := d.Snapshots().Entry(st)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s %s\n", st, e.Status, e.Digest)
		return nil
	})
}
