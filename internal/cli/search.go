package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchLimit int

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Keyword search over ingested documents",
	Long: `Search runs a full-text query over ingested document content.
Bare terms are ANDed together; quote a phrase to match it verbatim.

Example:
  veridex search "flight manifest"
  veridex search helicopter island`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVar(&searchLimit, "limit", 25, "maximum hits to return")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	hits, err := st.SearchDocuments(strings.Join(args, " "), searchLimit)
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		fmt.Println("No matches.")
		return nil
	}

	for _, h := range hits {
		fmt.Printf("%s p.%d: %s\n", h.Filename, h.Page, h.Snippet)
	}
	return nil
}
