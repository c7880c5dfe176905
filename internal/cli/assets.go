package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	assetType  string
	assetLimit int
)

// assetsCmd represents the assets command
var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "List top assets by occurrence count",
	Long: `Assets lists the most frequent assets of one type across the index.

Types: AIRCRAFT_REG, IMO.

Example:
  veridex assets --type AIRCRAFT_REG`,
	RunE: runAssets,
}

// assetMentionsCmd lists pages mentioning one asset
var assetMentionsCmd = &cobra.Command{
	Use:   "mentions <value>",
	Short: "List pages mentioning an asset",
	Args:  cobra.ExactArgs(1),
	RunE:  runAssetMentions,
}

func init() {
	rootCmd.AddCommand(assetsCmd)
	assetsCmd.AddCommand(assetMentionsCmd)

	assetsCmd.PersistentFlags().StringVar(&assetType, "type", "AIRCRAFT_REG", "asset type")
	assetsCmd.PersistentFlags().IntVar(&assetLimit, "limit", 25, "maximum rows to return")
}

func runAssets(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	rows, err := st.TopAssets(assetType, assetLimit)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Printf("No %s assets in the index.\n", assetType)
		return nil
	}

	for _, r := range rows {
		fmt.Printf("%6d  %s\n", r.Count, r.Value)
	}
	return nil
}

func runAssetMentions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	mentions, err := st.AssetMentions(args[0], assetType, assetLimit)
	if err != nil {
		return err
	}
	if len(mentions) == 0 {
		fmt.Println("No mentions found.")
		return nil
	}

	for _, m := range mentions {
		fmt.Printf("%s p.%d: %s\n", m.Filename, m.Page, preview(m.Content, 200))
	}
	return nil
}
