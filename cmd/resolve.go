package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/TaskTree/internal/config"
	"github.com/josephgoksu/TaskTree/internal/server"
	"github.com/josephgoksu/TaskTree/internal/task"
	"github.com/josephgoksu/TaskTree/store"
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Check the stored graph and print tasks in dependency order",
	Long: `Load the stored snapshot, verify it has no dependency cycle and print every
task after the tasks it depends on, with its derived status.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
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

		g, err := snaps.Load(cmd.Context())
		if err != nil && !errors.Is(err, store.ErrNoSnapshot) {
			return err
		}
		view, err := task.Resolve(g)
		if err != nil {
			return err
		}
		sorted, err := task.TopologicalSort(view)
		if err != nil {
			return err
		}

		if asJSON {
			views := make([]server.TaskView, 0, len(sorted))
			for _, t := range sorted {
				views = append(views, server.NewTaskView(t))
			}
			return printJSON(cmd, views)
		}

		var complete, blocked int
		for i, t := range sorted {
			fmt.Fprintf(cmd.OutOrStdout(), "%3d. %-10s %-12s %s\n", i+1, t.ID, statusLabel(t), t.Title)
			if t.IsComplete() {
				complete++
			}
			if t.IsBlocked {
				blocked++
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "No cycles. %d tasks, %d complete, %d blocked.\n", len(sorted), complete, blocked)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().Bool("json", false, "print the resolved tasks as JSON")
}
