package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/TaskTree/internal/app"
	"github.com/josephgoksu/TaskTree/internal/task"
)

// setCmd represents the set command
var setCmd = &cobra.Command{
	Use:   "set <task_id>",
	Short: "Change a task's title, description, priority or external flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		flags := cmd.Flags()

		var intents []task.Intent
		if flags.Changed("title") {
			title, _ := flags.GetString("title")
			if err := (&task.Task{ID: id, Title: title}).Validate(); err != nil {
				return err
			}
			intents = append(intents, task.SetTitle(id, title))
		}
		if flags.Changed("description") {
			desc, _ := flags.GetString("description")
			intents = append(intents, task.SetDescription(id, desc))
		}
		if flags.Changed("priority") {
			prio, _ := flags.GetInt("priority")
			if prio < 0 {
				return fmt.Errorf("%w: priority must be 0 (none) or positive", task.ErrInvalidTask)
			}
			intents = append(intents, task.SetPriority(id, prio))
		}
		if flags.Changed("external") {
			ext, _ := flags.GetBool("external")
			intents = append(intents, task.SetIsExternal(id, ext))
		}
		if len(intents) == 0 {
			return errors.New("nothing to set: pass --title, --description, --priority or --external")
		}

		return withSession(cmd.Context(), func(s *app.Session) error {
			if _, err := s.Task(id); err != nil {
				return err
			}
			applied, err := applyAndCommit(cmd.Context(), s, intents...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%d change(s))\n", id, len(applied))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(setCmd)
	setCmd.Flags().String("title", "", "new title")
	setCmd.Flags().StringP("description", "d", "", "new description")
	setCmd.Flags().IntP("priority", "p", 0, "new priority, 1 is highest (0 for none)")
	setCmd.Flags().Bool("external", false, "mark as external (use --external=false to clear)")
}
