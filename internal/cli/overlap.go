package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/veridex/veridex/internal/analyze"
	"github.com/veridex/veridex/internal/worker"
)

var (
	overlapScope   string
	overlapWorkers int
)

// overlapCmd represents the overlap command
var overlapCmd = &cobra.Command{
	Use:   "overlap <entity-a> <entity-b>",
	Short: "Analyze co-occurrence randomness for two entities",
	Long: `Overlap counts how often two entities co-occur across documents or
derived events and frames how consistent that overlap is with random
coincidence. It reports counts and a conservative pseudo p-value; it
never asserts intent or wrongdoing.

Example:
  veridex overlap "Jane Doe" "Acme Corp"
  veridex overlap "Jane Doe" "Acme Corp" --scope DOCS`,
	Args: cobra.ExactArgs(2),
	RunE: runOverlap,
}

// overlapBatchCmd analyzes many pairs from a file
var overlapBatchCmd = &cobra.Command{
	Use:   "batch <pairs-file>",
	Short: "Analyze many entity pairs concurrently",
	Long: `Batch reads "Entity A | Entity B" lines from a file and runs the
overlap analysis for each pair through a worker pool. Analysis is
read-only, so pairs run concurrently.

Blank lines and lines starting with # are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runOverlapBatch,
}

func init() {
	rootCmd.AddCommand(overlapCmd)
	overlapCmd.AddCommand(overlapBatchCmd)

	overlapCmd.PersistentFlags().StringVar(&overlapScope, "scope", analyze.ScopeEvents, "counting scope: EVENTS or DOCS")
	overlapBatchCmd.Flags().IntVar(&overlapWorkers, "workers", 4, "concurrent analyses")
}

func runOverlap(cmd *cobra.Command, args []string) error {
	st, enf, err := analyzeDeps()
	if err != nil {
		return err
	}
	defer st.Close()

	o := analyze.NewOverlap(st, enf)
	stmts, err := o.AnalyzeOverlap(context.Background(), args[0], args[1], overlapScope)
	if err != nil {
		return err
	}

	printStatements(stmts)
	return nil
}

func runOverlapBatch(cmd *cobra.Command, args []string) error {
	st, enf, err := analyzeDeps()
	if err != nil {
		return err
	}
	defer st.Close()

	processor := worker.NewBatchProcessor(analyze.NewOverlap(st, enf), overlapWorkers)
	results, err := processor.ProcessFile(context.Background(), args[0], strings.ToUpper(overlapScope))
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		fmt.Printf("=== %s | %s ===\n", r.Pair.EntityA, r.Pair.EntityB)
		if r.Error != nil {
			failed++
			fmt.Printf("   error: %v\n", r.Error)
			continue
		}
		printStatements(r.Statements)
	}

	fmt.Printf("\n%d pairs analyzed, %d failed\n", len(results), failed)
	return nil
}
