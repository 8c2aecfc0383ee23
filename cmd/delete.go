package cmd

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/josephgoksu/TaskTree/internal/app"
	"github.com/josephgoksu/TaskTree/internal/task"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete [task_id]",
	Short: "Delete a task",
	Long: `Delete a task by its ID and remove it from every task that depends on it.
If no ID is provided, an interactive list is shown. A confirmation prompt is
displayed unless --yes is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		return withSession(cmd.Context(), func(s *app.Session) error {
			id, err := resolveTaskID(s, args, nil, "Select task to delete")
			if err != nil {
				if errors.Is(err, ErrNoTasksFound) {
					fmt.Fprintln(cmd.OutOrStdout(), "No tasks available to delete.")
					return nil
				}
				return err
			}
			t, err := s.Task(id)
			if err != nil {
				return err
			}
			dependents := s.View().Dependents(id)

			if !yes {
				if !isInteractive() {
					return fmt.Errorf("%w: pass --yes to delete without confirmation", errNotInteractive)
				}
				label := fmt.Sprintf("Delete task '%s' (ID: %s)", t.Title, id)
				if len(dependents) > 0 {
					label += fmt.Sprintf(" and unlink it from %d dependent task(s)", len(dependents))
				}
				confirm := promptui.Prompt{Label: label, IsConfirm: true}
				if _, err := confirm.Run(); err != nil {
					if errors.Is(err, promptui.ErrAbort) {
						fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled.")
						return nil
					}
					return err
				}
			}

			if _, err := applyAndCommit(cmd.Context(), s, task.Delete(id)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %s deleted.\n", id)
			for _, dep := range dependents {
				fmt.Fprintf(cmd.OutOrStdout(), "  unlinked from %s\n", dep)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
}
