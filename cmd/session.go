package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	units "github.com/docker/go-units"
	"github.com/projecteru2/core/log"
	"github.com/spf13/cobra"
)

var sessionCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or reset the persisted debugger session",
	}
	show := &cobra.Command{
		Use:   "show",
		Short: "Show the session summary",
		Args:  cobra.NoArgs,
		RunE:  runSessionShow,
	}
	show.Flags().Bool("json", false, "output the raw session JSON")
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Forget all snapshots, settings and the open cycle",
		Args:  cobra.NoArgs,
		RunE:  runSessionReset,
	}
	cmd.AddCommand(show, reset)
	return cmd
}()

func runSessionShow(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	asJSON, _ := cmd.Flags().GetBool("json")
	if err := conf.EnsureDirs(); err != nil {
		return fmt.Errorf("ensure dirs: %w", err)
	}
	st, err := initSession().Load(ctx)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(st)
	}

	now := time.Now()
	fmt.Printf("file:    %s\n", conf.SessionFile())
	if !st.UpdatedAt.IsZero() {
		fmt.Printf("updated: %s ago\n", units.HumanDuration(now.Sub(st.UpdatedAt)))
	}
	fmt.Printf("force:   %v\nreport:  %d\n", st.ForceEnabled, st.ReportState)
	if st.Force.Cycle != "" {
		fmt.Printf("cycle:   %s (open)\n", st.Force.Cycle)
	}
	if len(st.Snapshots) == 0 {
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "STATE\tSTATUS\tCAPTURED\tDIGEST")
	for _, rec := range st.Snapshots {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s ago\t%s\n",
			rec.State, rec.Status, units.HumanDuration(now.Sub(rec.CapturedAt)), rec.Digest)
	}
	w.Flush() //nolint:errcheck,gosec
	return nil
}

func runSessionReset(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	if err := conf.EnsureDirs(); err != nil {
		return fmt.Errorf("ensure dirs: %w", err)
	}
	if err := initSession().Reset(ctx); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	log.WithFunc("cmd.session.reset").Infof(ctx, "session %s reset", conf.SessionFile())
	return nil
}
