package cmd

import (
	"fmt"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/projecteru2/core/log"
	"github.com/spf13/cobra"

	"github.com/cocoonstack/pmicdbg/transport"
	"github.com/cocoonstack/pmicdbg/transport/sim"
)

var simCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Control the simulated PMIC",
	}
	seed := &cobra.Command{
		Use:   "seed FILE",
		Short: "Load register values and faults from a YAML seed",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimSeed,
	}
	seed.Flags().Bool("reset", false, "start from power-on defaults and drop existing faults")

	fault := &cobra.Command{
		Use:   "fault [read|update REG]",
		Short: "Inject a transport fault on REG, or clear all faults",
		Args:  cobra.RangeArgs(0, 2), //nolint:mnd
		RunE:  runSimFault,
	}
	fault.Flags().Int("count", 1, "accesses to fail; 0 fails forever")
	fault.Flags().Bool("clear", false, "drop every pending fault")

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the simulator register file and pending faults",
		Args:  cobra.NoArgs,
		RunE:  runSimShow,
	}

	cmd.AddCommand(seed, fault, show)
	return cmd
}()

func runSimSeed(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	reset, _ := cmd.Flags().GetBool("reset")
	im, err := initSimImage()
	if err != nil {
		return err
	}
	s, err := sim.LoadSeed(args[0])
	if err != nil {
		return err
	}
	if err := im.Seed(ctx, s, reset); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	log.WithFunc("cmd.sim.seed").Infof(ctx, "seeded %s from %s: %d registers, %d faults", im.Path(), args[0], len(s.Registers), len(s.Faults))
	return nil
}

func runSimFault(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	clearAll, _ := cmd.Flags().GetBool("clear")
	count, _ := cmd.Flags().GetInt("count")
	im, err := initSimImage()
	if err != nil {
		return err
	}
	if clearAll {
		return im.ClearFaults(ctx)
	}
	if len(args) != 2 { //nolint:mnd
		return fmt.Errorf("fault needs OP and REG, or --clear")
	}
	op := transport.Op(args[0])
	if err := im.Inject(ctx, op, args[1], count); err != nil {
		return fmt.Errorf("inject: %w", err)
	}
	log.WithFunc("cmd.sim.fault").Infof(ctx, "%s fault on %s, count %d", op, args[1], count)
	return nil
}

func runSimShow(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	im, err := initSimImage()
	if err != nil {
		return err
	}
	regs, err := im.Registers(ctx)
	if err != nil {
		return err
	}
	faults, err := im.Faults(ctx)
	if err != nil {
		return err
	}

	locs := make([]string, 0, len(regs))
	for loc := range regs {
		locs = append(locs, loc)
	}
	slices.Sort(locs)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ADDR\tREGISTER\tVALUE")
	for _, loc := range locs {
		name, _, err := resolveRegister(loc)
		if err != nil {
			name = "?"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t0x%02x\n", loc, name, regs[loc])
	}
	w.Flush() //nolint:errcheck,gosec

	if len(faults) == 0 {
		return nil
	}
	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "OP\tADDR\tREMAINING")
	for _, f := range faults {
		remaining := fmt.Sprintf("%d", f.Count)
		if f.Count <= 0 {
			remaining = "forever"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", f.Op, f.Register, remaining)
	}
	w.Flush() //nolint:errcheck,gosec
	return nil
}
