package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/josephgoksu/TaskTree/internal/app"
)

// simulateCmd represents the simulate command
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the board layout headless and print the resulting frame",
	Long: `Run the layout simulation for a number of ticks without a display and print
node positions. With --json the full render frame is printed, which is what
GET /api/frame returns.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ticks, _ := cmd.Flags().GetInt("ticks")
		asJSON, _ := cmd.Flags().GetBool("json")
		if ticks < 0 {
			return fmt.Errorf("--ticks must not be negative")
		}

		return withSession(cmd.Context(), func(s *app.Session) error {
			s.Step(ticks)
			frame := s.Frame()
			if asJSON {
				return printJSON(cmd, frame)
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "Title", "X", "Y", "Zone", "Status"})
			for _, n := range frame.Nodes {
				t.AppendRow(table.Row{
					n.ID,
					n.Title,
					fmt.Sprintf("%.1f", n.X),
					fmt.Sprintf("%.1f", n.Y),
					frame.Layout.ZoneOf(n.Y).String(),
					string(n.Status),
				})
			}
			t.AppendFooter(table.Row{"", fmt.Sprintf("%d ticks", ticks), "", "", "alpha", fmt.Sprintf("%.4f", frame.Alpha)})
			t.Render()
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().IntP("ticks", "n", 300, "number of simulation ticks")
	simulateCmd.Flags().Bool("json", false, "print the full frame as JSON")
}
