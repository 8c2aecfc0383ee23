package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/josephgoksu/TaskTree/internal/config"
	"github.com/josephgoksu/TaskTree/internal/events"
	"github.com/josephgoksu/TaskTree/internal/utils"
	"github.com/josephgoksu/TaskTree/store"
)

// eventsCmd represents the events command
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show the domain event log",
	Long: `Show the most recent create, update and delete events written by task
changes, oldest first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		snaps, evlog, err := store.Open(config.StoreOptions(appConfig))
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer func() {
			_ = snaps.Close()
			if any(evlog) != any(snaps) {
				_ = evlog.Close()
			}
		}()

		evs, err := evlog.Events(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("read event log: %w", err)
		}
		if asJSON {
			if evs == nil {
				evs = []events.DomainEvent{}
			}
			return printJSON(cmd, evs)
		}
		if len(evs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No events recorded yet.")
			return nil
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"When", "Type", "Task", "Change"})
		for _, ev := range evs {
			t.AppendRow(table.Row{ev.At.Local().Format("2006-01-02 15:04:05"), string(ev.Type), ev.ID, eventChange(ev)})
		}
		t.Render()
		return nil
	},
}

// eventChange summarises an event's payload in one line.
func eventChange(ev events.DomainEvent) string {
	var v any
	switch {
	case ev.TaskUpdate != nil:
		v = ev.TaskUpdate
	case ev.Task != nil:
		v = ev.Task
	default:
		return "-"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "?"
	}
	return utils.Truncate(string(b), 80)
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().IntP("limit", "n", 20, "number of events to show (0 for all)")
	eventsCmd.Flags().Bool("json", false, "print events as JSON")
}
