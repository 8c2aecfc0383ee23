package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/josephgoksu/TaskTree/internal/app"
	"github.com/josephgoksu/TaskTree/internal/task"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Long: `Add a new task. Words after the command form the title; without them an
interactive prompt asks for one.`,
	Example: `  tasktree add "Write the release notes" --priority 2 --depends-on 3f9c2a1b`,
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.TrimSpace(strings.Join(args, " "))
		if title == "" && isInteractive() {
			prompt := promptui.Prompt{
				Label: "Title",
				Validate: func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("title cannot be empty")
					}
					return nil
				},
			}
			var err error
			if title, err = prompt.Run(); err != nil {
				return err
			}
		}

		partial, err := partialFromFlags(cmd, title)
		if err != nil {
			return err
		}
		id, _ := cmd.Flags().GetString("id")

		return withSession(cmd.Context(), func(s *app.Session) error {
			for _, dep := range partial.DependsOn {
				if _, err := s.Task(dep); err != nil {
					return fmt.Errorf("dependency %s: %w", dep, err)
				}
			}
			if id != "" {
				if _, err := s.Task(id); err == nil {
					return fmt.Errorf("task %s already exists", id)
				}
			}

			applied, err := applyAndCommit(cmd.Context(), s, task.Add(id, partial))
			if err != nil {
				return err
			}
			t, err := s.Task(applied[0].ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task %s: %s (%s)\n", t.ID, t.Title, statusLabel(t))
			return nil
		})
	},
}

// partialFromFlags collects the fields set on the command line.
func partialFromFlags(cmd *cobra.Command, title string) (*task.Partial, error) {
	p := &task.Partial{}
	if title != "" {
		if len(title) > 200 {
			return nil, fmt.Errorf("%w: title too long (max 200 chars)", task.ErrInvalidTask)
		}
		p.Title = &title
	}
	flags := cmd.Flags()
	if flags.Changed("description") {
		d, _ := flags.GetString("description")
		p.Description = &d
	}
	if flags.Changed("priority") {
		prio, _ := flags.GetInt("priority")
		if prio < 0 {
			return nil, fmt.Errorf("%w: priority must be 0 (none) or positive", task.ErrInvalidTask)
		}
		p.Priority = &prio
	}
	if flags.Changed("external") {
		ext, _ := flags.GetBool("external")
		p.IsExternal = &ext
	}
	if flags.Changed("depends-on") {
		deps, _ := flags.GetStringSlice("depends-on")
		p.DependsOn = deps
	}
	return p, nil
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().String("id", "", "task id (generated when empty)")
	addCmd.Flags().StringP("description", "d", "", "task description")
	addCmd.Flags().IntP("priority", "p", task.DefaultPriority, "priority, 1 is highest (0 for none)")
	addCmd.Flags().Bool("external", false, "mark as an external task")
	addCmd.Flags().StringSlice("depends-on", nil, "ids of tasks this one depends on")
}
