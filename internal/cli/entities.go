package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	entityLabel    string
	entityLimit    int
	mentionPreview int
)

// entitiesCmd represents the entities command
var entitiesCmd = &cobra.Command{
	Use:   "entities",
	Short: "List top entities by occurrence count",
	Long: `Entities lists the most frequent entities of one label across the index.

Labels: PERSON, ORG, GPE, LOC, DATE, EMAIL, PHONE, URL.

Example:
  veridex entities --label PERSON
  veridex entities --label EMAIL --limit 50`,
	RunE: runEntities,
}

// entityMentionsCmd lists pages mentioning one entity
var entityMentionsCmd = &cobra.Command{
	Use:   "mentions <text>",
	Short: "List pages mentioning an entity",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntityMentions,
}

func init() {
	rootCmd.AddCommand(entitiesCmd)
	entitiesCmd.AddCommand(entityMentionsCmd)

	entitiesCmd.PersistentFlags().StringVar(&entityLabel, "label", "PERSON", "entity label")
	entitiesCmd.PersistentFlags().IntVar(&entityLimit, "limit", 25, "maximum rows to return")
	entityMentionsCmd.Flags().IntVar(&mentionPreview, "preview", 200, "content preview length")
}

func runEntities(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	rows, err := st.TopEntities(entityLabel, entityLimit)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Printf("No %s entities in the index.\n", entityLabel)
		return nil
	}

	for _, r := range rows {
		fmt.Printf("%6d  %s\n", r.Count, r.Text)
	}
	return nil
}

func runEntityMentions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	mentions, err := st.EntityMentions(args[0], entityLabel, entityLimit)
	if err != nil {
		return err
	}
	if len(mentions) == 0 {
		fmt.Println("No mentions found.")
		return nil
	}

	for _, m := range mentions {
		fmt.Printf("%s p.%d: %s\n", m.Filename, m.Page, preview(m.Content, mentionPreview))
	}
	return nil
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
