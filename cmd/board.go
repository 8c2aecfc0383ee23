package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/TaskTree/internal/app"
	"github.com/josephgoksu/TaskTree/internal/telemetry"
	"github.com/josephgoksu/TaskTree/internal/ui"
	"github.com/josephgoksu/TaskTree/internal/watch"
	"github.com/josephgoksu/TaskTree/store"
)

// boardCmd represents the board command
var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open the interactive task board",
	Long: `Open the task board in the terminal. Completed tasks float to the top,
blocked tasks sink to the bottom.

Drag a task above the top line to complete it, below it to reopen it, and
into the bottom band to give it a blocker: then click an existing task, or
the ◌ target to create a new one. Press ? for keys.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		labels, _ := cmd.Flags().GetBool("labels")
		noWatch, _ := cmd.Flags().GetBool("no-watch")
		noSave, _ := cmd.Flags().GetBool("no-save")

		if !isInteractive() {
			return fmt.Errorf("%w: the board needs a terminal", errNotInteractive)
		}

		return withSession(cmd.Context(), func(s *app.Session) error {
			opts := ui.BoardOptions{FPS: appConfig.Sim.FPS, ShowLabels: labels}

			var (
				mu      sync.Mutex
				trigger func()
			)
			if !noWatch && appConfig.Data.Backend != store.BackendSQLite {
				w, err := watch.New(appConfig.Data.File, 0, func(context.Context) error {
					mu.Lock()
					send := trigger
					mu.Unlock()
					if send != nil {
						send()
					}
					return nil
				})
				if err != nil {
					return err
				}
				if err := w.Start(); err != nil {
					return err
				}
				defer w.Stop()
				opts.OnSaved = w.MarkWritten
			}

			tracker.Track(telemetry.EventSessionStart, telemetry.Properties{"surface": "board"})
			err := ui.RunBoard(s, opts, func(send func()) {
				mu.Lock()
				trigger = send
				mu.Unlock()
			})
			if err != nil {
				return err
			}

			if noSave {
				return nil
			}
			if err := commit(cmd.Context(), s); err != nil {
				return err
			}
			if opts.OnSaved != nil {
				opts.OnSaved()
			}
			slog.Info("board closed", "tasks", len(s.Graph()))
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d tasks.\n", len(s.Graph()))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(boardCmd)
	boardCmd.Flags().BoolP("labels", "l", false, "show task titles next to nodes")
	boardCmd.Flags().Bool("no-watch", false, "do not reload when the snapshot file changes on disk")
	boardCmd.Flags().Bool("no-save", false, "discard changes on exit instead of saving them")
}
