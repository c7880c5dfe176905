package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/veridex/veridex/internal/analyze"
)

var (
	networkFocus     string
	networkMaxEvents int
	networkMaxAssets int
)

// networkCmd represents the network command
var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Summarize exposure structure around derived events",
	Long: `Network summarizes the structure around derived events: one statement
per event citing its source page, plus pattern statements for assets that
recur across multiple events. With --focus it restricts to events linked
to one entity.

Example:
  veridex network
  veridex network --focus "Jane Doe" --max-events 20`,
	RunE: runNetwork,
}

func init() {
	rootCmd.AddCommand(networkCmd)

	networkCmd.Flags().StringVar(&networkFocus, "focus", "", "focus entity display text")
	networkCmd.Flags().IntVar(&networkMaxEvents, "max-events", 50, "maximum events to summarize")
	networkCmd.Flags().IntVar(&networkMaxAssets, "max-assets", 10, "maximum recurring assets to report")
}

func runNetwork(cmd *cobra.Command, args []string) error {
	st, enf, err := analyzeDeps()
	if err != nil {
		return err
	}
	defer st.Close()

	n := analyze.NewNetwork(st, enf)
	stmts, err := n.Summarize(context.Background(), networkFocus, networkMaxEvents, networkMaxAssets)
	if err != nil {
		return err
	}

	printStatements(stmts)
	return nil
}
