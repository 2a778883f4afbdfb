package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cocoonstack/pmicdbg/regdebug"
	"github.com/cocoonstack/pmicdbg/report"
	"github.com/cocoonstack/pmicdbg/types"
)

var stateCmd = &cobra.Command{
	Use:   "state [N]",
	Short: "Show or select the state the status report decodes (0..6)",
	Long: `Show or select the state the status report decodes.

  0 init  1 suspend  2 suspend-core  3 resume-core  4 resume  5 current
  6 is accepted and always reports "not recorded".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runState,
}

var forceCmd = &cobra.Command{
	Use:   "force [0|1]",
	Short: "Show or set whether suspend forces the override registers",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runForce,
}

func runState(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	return withDebugger(ctx, func(_ context.Context, d *regdebug.Debugger) error {
		if len(args) == 1 {
			idx, err := report.ParseStateIndex(args[0])
			if err != nil {
				return err
			}
			if err := d.SetReportState(idx); err != nil {
				return err
			}
		}
		idx := d.ReportState()
		name := "not recorded"
		if st := types.State(idx); st.Valid() {
			name = st.String()
		}
		fmt.Printf("%d (%s)\n", idx, name)
		return nil
	})
}

func runForce(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	return withDebugger(ctx, func(_ context.Context, d *regdebug.Debugger) error {
		if len(args) == 1 {
			v, err := regdebug.ParseForce(args[0])
			if err != nil {
				return err
			}
			d.SetForceEnabled(v)
		}
		fmt.Println(regdebug.ForceString(d.ForceEnabled()))
		return nil
	})
}
