package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/TaskTree/internal/app"
	"github.com/josephgoksu/TaskTree/internal/server"
	"github.com/josephgoksu/TaskTree/internal/task"
	"github.com/josephgoksu/TaskTree/internal/ui"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show [task_id]",
	Short: "Show a task with its dependencies and dependents",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		return withSession(cmd.Context(), func(s *app.Session) error {
			id, err := resolveTaskID(s, args, nil, "Select task to show")
			if err != nil {
				return err
			}
			t, err := s.Task(id)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, server.NewTaskView(t))
			}
			renderTask(cmd.OutOrStdout(), s.View(), t)
			return nil
		})
	},
}

func renderTask(w io.Writer, view task.Graph, t task.Task) {
	field := func(label, value string) {
		fmt.Fprintf(w, "%s %s\n", ui.StyleSubtle.Render(fmt.Sprintf("%-13s", label+":")), value)
	}

	fmt.Fprintln(w, ui.StyleTitle.Render(t.Title))
	field("ID", t.ID)
	field("Status", ui.StatusStyle(t.IsComplete(), t.IsBlocked).Render(statusLabel(t)))
	if t.IsBlocked && t.Status == task.StatusComplete {
		field("Authored", "complete (shown as not started until its dependencies are done)")
	}
	if t.HasPriority() {
		field("Priority", fmt.Sprint(t.Priority))
	}
	if t.IsExternal {
		field("External", "yes")
	}
	if t.Description != "" {
		field("Description", t.Description)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.StyleHeader.Render("Depends on"))
	if len(t.DependsOn) == 0 {
		fmt.Fprintln(w, "  nothing")
	}
	for _, dep := range t.DependsOn {
		d, ok := view[dep]
		if !ok {
			fmt.Fprintf(w, "  • %s %s\n", dep, ui.StyleWarning.Render("(missing, ignored)"))
			continue
		}
		fmt.Fprintf(w, "  • %s %s %s\n", d.Title, ui.StyleSubtle.Render("["+d.ID+"]"), statusLabel(d))
	}

	dependents := view.Dependents(t.ID)
	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.StyleHeader.Render("Needed by"))
	if len(dependents) == 0 {
		fmt.Fprintln(w, "  nothing")
	}
	names := make([]string, 0, len(dependents))
	for _, id := range dependents {
		names = append(names, fmt.Sprintf("  • %s %s", view[id].Title, ui.StyleSubtle.Render("["+id+"]")))
	}
	if len(names) > 0 {
		fmt.Fprintln(w, strings.Join(names, "\n"))
	}
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().Bool("json", false, "print the task as JSON")
}
