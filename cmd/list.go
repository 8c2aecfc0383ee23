package cmd

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/josephgoksu/TaskTree/internal/app"
	"github.com/josephgoksu/TaskTree/internal/server"
	"github.com/josephgoksu/TaskTree/internal/task"
	"github.com/josephgoksu/TaskTree/internal/utils"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks with their resolved status",
	Long: `List every task with its resolved status. A task is blocked while any of
its dependencies, directly or transitively, is not complete.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		statusFilter, _ := cmd.Flags().GetString("status")
		asJSON, _ := cmd.Flags().GetBool("json")

		filter, err := statusFilterFn(statusFilter)
		if err != nil {
			return err
		}

		return withSession(cmd.Context(), func(s *app.Session) error {
			view := s.View()
			var tasks []task.Task
			for _, t := range view.Sorted() {
				if filter(t) {
					tasks = append(tasks, t)
				}
			}

			if asJSON {
				views := make([]server.TaskView, 0, len(tasks))
				for _, t := range tasks {
					views = append(views, server.NewTaskView(t))
				}
				return printJSON(cmd, views)
			}

			if len(tasks) == 0 {
				if len(view) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No tasks yet. Add one with: tasktree add \"Title\"")
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "No %s tasks.\n", statusFilter)
				}
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "Title", "Status", "Priority", "Depends On"})
			for _, tk := range tasks {
				prio := "-"
				if tk.HasPriority() {
					prio = fmt.Sprint(tk.Priority)
				}
				title := utils.Truncate(tk.Title, 50)
				if tk.IsExternal {
					title += " (external)"
				}
				t.AppendRow(table.Row{tk.ID, title, statusLabel(tk), prio, dependsOnLabel(view, tk)})
			}
			t.AppendFooter(table.Row{"", fmt.Sprintf("%d tasks", len(tasks))})
			t.Render()
			return nil
		})
	},
}

// statusFilterFn maps the --status flag onto a task predicate.
func statusFilterFn(status string) (func(task.Task) bool, error) {
	switch strings.ToLower(status) {
	case "", "all":
		return func(task.Task) bool { return true }, nil
	case "complete", "done":
		return func(t task.Task) bool { return t.IsComplete() }, nil
	case "available", "open":
		return func(t task.Task) bool { return !t.IsComplete() && !t.IsBlocked }, nil
	case "blocked":
		return func(t task.Task) bool { return t.IsBlocked }, nil
	}
	return nil, fmt.Errorf("unknown status filter %q (want all, complete, available or blocked)", status)
}

// dependsOnLabel lists dependencies by title, marking those still open.
func dependsOnLabel(view task.Graph, t task.Task) string {
	if len(t.DependsOn) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(t.DependsOn))
	for _, dep := range t.DependsOn {
		d, ok := view[dep]
		switch {
		case !ok:
			parts = append(parts, dep+" (missing)")
		case d.IsComplete():
			parts = append(parts, "✓ "+d.Title)
		default:
			parts = append(parts, d.Title)
		}
	}
	return utils.Truncate(strings.Join(parts, ", "), 60)
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringP("status", "s", "all", "filter by status: all, complete, available or blocked")
	listCmd.Flags().Bool("json", false, "print tasks as JSON")
}
