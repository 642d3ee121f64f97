package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/printease/backend/internal/application/ordering"
	"github.com/printease/backend/internal/domain/printing"
	"github.com/spf13/cobra"
)

func newQuoteCommand() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price an order and show where each job would print",
		Long: `quote composes the order into jobs, prices them and picks a printer for
each job from a fresh rotation. Nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSession(o)
			if err != nil {
				return err
			}
			alloc := s.assembler.Assemble(s.input, s.pool, s.schedule, printing.NewRotationState())
			return writeAllocation(cmd.OutOrStdout(), alloc, o.jsonOutput)
		},
	}
	addOrderFlags(cmd, o)
	return cmd
}

func writeAllocation(w io.Writer, alloc printing.OrderAllocation, asJSON bool) error {
	resp := ordering.ToQuoteResponse(alloc)
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "JOB\tCLUSTER\tPRINTER\tFILES\tBINDING\tCOST")
	for i, job := range resp.Jobs {
		cluster := job.Cluster
		if job.Category != "" {
			cluster += " " + job.Category
		}
		ids := make([]string, len(job.Files))
		for j, f := range job.Files {
			ids[j] = f.ID
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%v\t%s\t%s\n",
			i+1, cluster, job.PrinterID, ids, job.Binding, job.Cost.StringFixed(2))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, f := range resp.Failures {
		fmt.Fprintf(w, "unplaceable: %s (%s): %s\n", f.FileID, f.Cluster, f.Reason)
	}
	fmt.Fprintf(w, "total: %s\n", resp.Total.StringFixed(2))
	return nil
}
