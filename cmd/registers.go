package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/projecteru2/core/log"
	"github.com/spf13/cobra"

	"github.com/cocoonstack/pmicdbg/catalog"
	"github.com/cocoonstack/pmicdbg/types"
)

var regsCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regs",
		Short: "List the register catalog",
		Args:  cobra.NoArgs,
		RunE:  runRegs,
	}
	cmd.Flags().Bool("regulators", false, "list regulator descriptors instead")
	cmd.Flags().Bool("json", false, "output JSON")
	return cmd
}()

var peekCmd = &cobra.Command{
	Use:   "peek REG",
	Short: "Read one register (name or 0xBBAA) through the transport",
	Args:  cobra.ExactArgs(1),
	RunE:  runPeek,
}

var pokeCmd = &cobra.Command{
	Use:   "poke REG MASK VALUE",
	Short: "Masked write of one register through the transport",
	Args:  cobra.ExactArgs(3), //nolint:mnd
	RunE:  runPoke,
}

type regulatorInfo struct {
	Name      string   `json:"name"`
	HWMode    bool     `json:"hw_mode"`
	Valid     []string `json:"valid,omitempty"`
	Slots     int      `json:"slots"`
	Registers []string `json:"registers"`
}

func runRegs(cmd *cobra.Command, _ []string) error {
	asRegulators, _ := cmd.Flags().GetBool("regulators")
	asJSON, _ := cmd.Flags().GetBool("json")

	if asRegulators {
		var infos []regulatorInfo
		for _, r := range catalog.Regulators() {
			info := regulatorInfo{Name: r.Name, HWMode: r.HWMode != nil}
			for i := range types.NumRequesters {
				if _, ok := r.Valid(types.Requester(i)); ok {
					info.Valid = append(info.Valid, types.Requester(i).String())
				}
			}
			for n := 1; n <= types.NumSlots; n++ {
				if _, err := r.Slot(n); err == nil {
					info.Slots++
				}
			}
			for _, id := range r.Registers() {
				info.Registers = append(info.Registers, catalog.Name(id))
			}
			infos = append(infos, info)
		}
		if asJSON {
			return printJSON(infos)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "NAME\tHW MODE\tVALID\tSLOTS\tREGISTERS")
		for _, info := range infos {
			_, _ = fmt.Fprintf(w, "%s\t%v\t%s\t%d\t%s\n",
				info.Name, info.HWMode, strings.Join(info.Valid, ","), info.Slots, strings.Join(info.Registers, ","))
		}
		w.Flush() //nolint:errcheck,gosec
		return nil
	}

	regs := catalog.Registers()
	if asJSON {
		return printJSON(regs)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tADDR")
	for _, r := range regs {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\n", r.ID, r.Name, r.Location)
	}
	w.Flush() //nolint:errcheck,gosec
	return nil
}

func runPeek(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	name, loc, err := resolveRegister(args[0])
	if err != nil {
		return err
	}
	tr, release, err := initTransport()
	if err != nil {
		return err
	}
	defer release()

	v, err := tr.Read(ctx, loc.Bank, loc.Addr)
	if err != nil {
		return fmt.Errorf("peek: %w", err)
	}
	fmt.Printf("%s %s: 0x%02x\n", name, loc, v)
	return nil
}

func runPoke(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	name, loc, err := resolveRegister(args[0])
	if err != nil {
		return err
	}
	mask, err := parseByte("mask", args[1])
	if err != nil {
		return err
	}
	val, err := parseByte("value", args[2])
	if err != nil {
		return err
	}
	tr, release, err := initTransport()
	if err != nil {
		return err
	}
	defer release()

	if err := tr.Update(ctx, loc.Bank, loc.Addr, mask, val); err != nil {
		return fmt.Errorf("poke: %w", err)
	}
	log.WithFunc("cmd.poke").Infof(ctx, "%s %s: mask 0x%02x val 0x%02x", name, loc, mask, val)
	v, err := tr.Read(ctx, loc.Bank, loc.Addr)
	if err != nil {
		return fmt.Errorf("read back: %w", err)
	}
	fmt.Printf("%s %s: 0x%02x\n", name, loc, v)
	return nil
}
