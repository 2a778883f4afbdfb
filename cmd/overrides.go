package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cocoonstack/pmicdbg/catalog"
	"github.com/cocoonstack/pmicdbg/force"
	"github.com/cocoonstack/pmicdbg/regdebug"
)

var overridesCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overrides",
		Short: "Show the suspend override table and the open cycle",
		Args:  cobra.NoArgs,
		RunE:  runOverrides,
	}
	cmd.Flags().Bool("json", false, "output JSON")
	return cmd
}()

func runOverrides(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	return withDebugger(commandContext(cmd), func(_ context.Context, d *regdebug.Debugger) error {
		if asJSON {
			return printJSON(struct {
				Cycle   string        `json:"cycle,omitempty"`
				Entries []force.Entry `json:"entries"`
				Last    *force.Result `json:"last,omitempty"`
			}{d.Cycle(), d.Overrides(), d.LastCycle()})
		}

		if c := d.Cycle(); c != "" {
			fmt.Printf("open cycle %s\n", c)
		} else {
			fmt.Println("no open cycle")
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "REGISTER\tADDR\tMASK\tVALUE\tELIGIBLE\tSAVED")
		for _, e := range d.Overrides() {
			saved := "-"
			if e.Eligible {
				saved = fmt.Sprintf("0x%02x", e.Saved)
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t0x%02x\t0x%02x\t%v\t%s\n",
				e.Name, catalog.Locate(e.Reg), e.Mask, e.Value, e.Eligible, saved)
		}
		w.Flush() //nolint:errcheck,gosec
		return nil
	})
}
