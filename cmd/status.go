package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/TaskTree/internal/app"
	"github.com/josephgoksu/TaskTree/internal/task"
)

// completeCmd represents the complete command
var completeCmd = &cobra.Command{
	Use:     "complete [task_id]",
	Aliases: []string{"done"},
	Short:   "Mark a task as complete",
	Long:    `Mark a task as complete. Blocked tasks cannot be completed until every task they depend on is done.`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(s *app.Session) error {
			id, err := resolveTaskID(s, args, func(t task.Task) bool {
				return !t.IsComplete() && !t.IsBlocked
			}, "Select task to complete")
			if err != nil {
				return err
			}
			t, err := s.Task(id)
			if err != nil {
				return err
			}
			if t.IsBlocked {
				fmt.Fprintf(cmd.OutOrStdout(), "Task %s is blocked by %s and was not completed.\n", id, dependsOnLabel(s.View(), t))
				return nil
			}
			if t.IsComplete() {
				fmt.Fprintf(cmd.OutOrStdout(), "Task %s is already complete.\n", id)
				return nil
			}
			if _, err := applyAndCommit(cmd.Context(), s, task.Complete(id)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Completed %s: %s\n", id, t.Title)
			reportUnblocked(cmd, s, id)
			return nil
		})
	},
}

// uncompleteCmd represents the uncomplete command
var uncompleteCmd = &cobra.Command{
	Use:     "uncomplete [task_id]",
	Aliases: []string{"reopen"},
	Short:   "Mark a task as not started",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(s *app.Session) error {
			id, err := resolveTaskID(s, args, func(t task.Task) bool {
				return t.Status == task.StatusComplete
			}, "Select task to reopen")
			if err != nil {
				return err
			}
			if _, err := applyAndCommit(cmd.Context(), s, task.Uncomplete(id)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reopened %s\n", id)
			return nil
		})
	},
}

// reportUnblocked lists dependents of id that are now free to start.
func reportUnblocked(cmd *cobra.Command, s *app.Session, id string) {
	view := s.View()
	for _, dep := range view.Dependents(id) {
		if t := view[dep]; !t.IsBlocked && !t.IsComplete() {
			fmt.Fprintf(cmd.OutOrStdout(), "  unblocked %s: %s\n", t.ID, t.Title)
		}
	}
}

func init() {
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(uncompleteCmd)
}
