package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/TaskTree/internal/app"
	"github.com/josephgoksu/TaskTree/internal/server"
	"github.com/josephgoksu/TaskTree/internal/telemetry"
	"github.com/josephgoksu/TaskTree/internal/watch"
	"github.com/josephgoksu/TaskTree/store"
)

const shutdownTimeout = 5 * time.Second

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the task graph over HTTP",
	Long: `Start the HTTP API used by browser front ends. The layout simulation runs
on the server and clients poll /api/frame.

Endpoints:
  GET  /api/tasks            resolved tasks
  GET  /api/tasks/{id}       one resolved task
  GET  /api/snapshot         authored snapshot
  POST /api/snapshot         replace and save the snapshot
  POST /api/save             save the current graph
  POST /api/intents          apply a batch of intents
  GET  /api/frame            simulation frame and gesture state
  POST /api/gestures         dispatch a pointer gesture
  GET  /api/events           pending domain events
  POST /api/events/flush     write pending events to the log
  GET  /load, POST /save     snapshot load and save`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		port := appConfig.Server.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}
		noWatch, _ := cmd.Flags().GetBool("no-watch")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return withSession(ctx, func(s *app.Session) error {
			opts := server.Options{
				Port:           port,
				AllowedOrigins: appConfig.Server.AllowedOrigins,
				FPS:            appConfig.Sim.FPS,
			}

			var srv *server.Server
			if !noWatch && appConfig.Data.Backend != store.BackendSQLite {
				w, err := watch.New(appConfig.Data.File, 0, func(ctx context.Context) error {
					return srv.Reload(ctx)
				})
				if err != nil {
					return err
				}
				opts.OnSaved = w.MarkWritten
				defer w.Stop()
				srv = server.New(s, opts)
				if err := w.Start(); err != nil {
					return err
				}
			} else {
				srv = server.New(s, opts)
			}

			var wg sync.WaitGroup
			errChan := make(chan error, 1)
			srv.Start(&wg, errChan)
			tracker.Track(telemetry.EventSessionStart, telemetry.Properties{"surface": "server"})
			fmt.Fprintf(cmd.OutOrStdout(), "Serving %d tasks on http://localhost:%d (Ctrl+C to stop)\n", len(s.Graph()), port)

			var runErr error
			select {
			case <-ctx.Done():
			case runErr = <-errChan:
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Warn("server shutdown", "error", err)
			}
			wg.Wait()

			if n, err := s.FlushEvents(shutdownCtx); err != nil {
				slog.Warn("flush events on shutdown", "error", err)
			} else if n > 0 {
				slog.Info("flushed events on shutdown", "count", n)
			}
			if runErr != nil && !errors.Is(runErr, context.Canceled) {
				return runErr
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Server stopped.")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0, "port to listen on (default from config)")
	serveCmd.Flags().Bool("no-watch", false, "do not reload when the snapshot file changes on disk")
}
