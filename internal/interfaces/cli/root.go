// Package cli implements printctl, the operator tool for checking orders
// against a printer pool without a running server.
package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// options are the flags shared by quote and allocate
type options struct {
	filesPath    string
	printersPath string
	pricingPath  string
	sizesPath    string
	jsonOutput   bool

	boundStrategy    string
	categoryStrategy string
}

// NewRootCommand builds the printctl command tree writing to out
func NewRootCommand(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "printctl",
		Short: "Offline tools for the print service",
		Long: `printctl quotes and allocates orders against JSON fixtures, so pricing
and printer rotation can be checked without a running server.

Fixtures:
  --files     an order as posted to /orders/quote ({"files": [...], "binding": ...})
  --printers  a list of printers ({"id", "name", "status", "capabilities", "queue_length"})
  --pricing   a pricing schedule as returned by GET /pricing (optional)
  --rotation  rotation counters keyed by category, e.g. {"bw-A4": 1} (allocate only)`,
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.SetErr(out)

	root.AddCommand(
		newQuoteCommand(),
		newAllocateCommand(),
		newSignCommand(),
		newHashPasswordCommand(),
		newMigrateCommand(),
	)
	return root
}

// Execute runs printctl with os.Args
func Execute(out io.Writer) error {
	return NewRootCommand(out).Execute()
}

func addOrderFlags(cmd *cobra.Command, o *options) {
	cmd.Flags().StringVar(&o.filesPath, "files", "", "Order JSON file")
	cmd.Flags().StringVar(&o.printersPath, "printers", "", "Printer pool JSON file")
	cmd.Flags().StringVar(&o.pricingPath, "pricing", "", "Pricing schedule JSON file (default rates when omitted)")
	cmd.Flags().StringVar(&o.sizesPath, "paper-sizes", "", "Paper size availability JSON file, e.g. {\"A2\": true} (all sizes when omitted)")
	cmd.Flags().BoolVar(&o.jsonOutput, "json", false, "Output JSON instead of a table")
	cmd.Flags().StringVar(&o.boundStrategy, "bound-strategy", "lowest_queue", "Printer selection for the bound cluster")
	cmd.Flags().StringVar(&o.categoryStrategy, "category-strategy", "round_robin", "Printer selection for category clusters")
	_ = cmd.MarkFlagRequired("files")
	_ = cmd.MarkFlagRequired("printers")
}
