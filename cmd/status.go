package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cocoonstack/pmicdbg/regdebug"
	"github.com/cocoonstack/pmicdbg/report"
)

var statusCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Capture current state and show decoded regulator status",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}
	cmd.Flags().String("state", "", "report state 0..6 for this call only (default: session selection)")
	cmd.Flags().Bool("json", false, "output JSON")
	return cmd
}()

var dumpCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Capture current state and dump every register of every state",
		Args:  cobra.NoArgs,
		RunE:  runDump,
	}
	cmd.Flags().Bool("json", false, "output JSON")
	return cmd
}()

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	stateStr, _ := cmd.Flags().GetString("state")
	asJSON, _ := cmd.Flags().GetBool("json")

	return withDebugger(ctx, func(ctx context.Context, d *regdebug.Debugger) error {
		if stateStr != "" {
			idx, err := report.ParseStateIndex(stateStr)
			if err != nil {
				return err
			}
			prev := d.ReportState()
			defer d.SetReportState(prev) //nolint:errcheck
			if err := d.SetReportState(idx); err != nil {
				return err
			}
		}
		s, err := d.Status(ctx)
		if err != nil {
			return fmt.Errorf("status: %w", err)
		}
		if asJSON {
			return printJSON(s)
		}
		return report.WriteStatus(os.Stdout, s)
	})
}

func runDump(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	asJSON, _ := cmd.Flags().GetBool("json")

	return withDebugger(ctx, func(ctx context.Context, d *regdebug.Debugger) error {
		dump, err := d.Dump(ctx)
		if err != nil {
			return fmt.Errorf("dump: %w", err)
		}
		if asJSON {
			return printJSON(dump)
		}
		return report.WriteDump(os.Stdout, dump, time.Now())
	})
}
