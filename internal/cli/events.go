package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var eventLimit int

// eventsCmd represents the events command
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List derived events",
	Long: `Events lists derived co-occurrence events, newest first. An event is a
date+location signal pair found on one page, with the page's entities and
assets linked to it.

Example:
  veridex events
  veridex events show 12`,
	RunE: runEvents,
}

// eventShowCmd shows one event with its participants
var eventShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one event with linked entities and assets",
	Args:  cobra.ExactArgs(1),
	RunE:  runEventShow,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventShowCmd)

	eventsCmd.PersistentFlags().IntVar(&eventLimit, "limit", 25, "maximum events to list")
}

func runEvents(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	events, err := st.ListEvents(eventLimit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Println("No events derived yet.")
		return nil
	}

	for _, ev := range events {
		fmt.Printf("#%d  date='%s' location='%s'  (%s p.%d)\n",
			ev.ID, ev.DateText, ev.LocationText, ev.Filename, ev.Page)
	}
	return nil
}

func runEventShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid event id %q", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	detail, err := st.EventDetail(id)
	if err != nil {
		return err
	}
	if detail == nil {
		fmt.Printf("Event %d not found.\n", id)
		return nil
	}

	fmt.Printf("Event #%d\n", detail.ID)
	fmt.Printf("  date:     %s\n", detail.DateText)
	fmt.Printf("  location: %s\n", detail.LocationText)
	fmt.Printf("  source:   %s p.%d\n", detail.Filename, detail.Page)

	if len(detail.Entities) > 0 {
		fmt.Println("  entities:")
		for _, e := range detail.Entities {
			fmt.Printf("    [%s] %s\n", e.Label, e.Text)
		}
	}
	if len(detail.Assets) > 0 {
		fmt.Println("  assets:")
		for _, a := range detail.Assets {
			fmt.Printf("    [%s] %s\n", a.Type, a.Value)
		}
	}
	return nil
}
