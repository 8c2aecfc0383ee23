package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/TaskTree/internal/app"
	"github.com/josephgoksu/TaskTree/internal/task"
)

// blockCmd represents the block command
var blockCmd = &cobra.Command{
	Use:   "block <task_id> <blocker_id>",
	Short: "Make a task depend on another",
	Long: `Make <task_id> depend on <blocker_id>. The task stays blocked until the
blocker and everything it depends on is complete. Dependencies that would
close a cycle are rejected.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, blocker := args[0], args[1]
		if id == blocker {
			return fmt.Errorf("a task cannot depend on itself")
		}
		return withSession(cmd.Context(), func(s *app.Session) error {
			for _, tid := range args {
				if _, err := s.Task(tid); err != nil {
					return err
				}
			}
			if _, err := applyAndCommit(cmd.Context(), s, task.Block(id, blocker)); err != nil {
				return err
			}
			t, _ := s.Task(id)
			fmt.Fprintf(cmd.OutOrStdout(), "%s now depends on %s (%s)\n", id, blocker, statusLabel(t))
			return nil
		})
	},
}

// unblockCmd represents the unblock command
var unblockCmd = &cobra.Command{
	Use:   "unblock <task_id> <blocker_id>",
	Short: "Remove a dependency",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, blocker := args[0], args[1]
		return withSession(cmd.Context(), func(s *app.Session) error {
			t, err := s.Task(id)
			if err != nil {
				return err
			}
			if !t.DependsOnID(blocker) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s does not depend on %s\n", id, blocker)
				return nil
			}
			if _, err := applyAndCommit(cmd.Context(), s, task.Unblock(id, blocker)); err != nil {
				return err
			}
			t, _ = s.Task(id)
			fmt.Fprintf(cmd.OutOrStdout(), "%s no longer depends on %s (%s)\n", id, blocker, statusLabel(t))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(blockCmd)
	rootCmd.AddCommand(unblockCmd)
}
