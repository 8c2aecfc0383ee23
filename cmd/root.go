/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/TaskTree/internal/config"
	"github.com/josephgoksu/TaskTree/internal/logger"
	"github.com/josephgoksu/TaskTree/internal/telemetry"
	"github.com/josephgoksu/TaskTree/types"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// ErrNoTasksFound is returned when an interactive selection is attempted but no tasks are available.
	ErrNoTasksFound = errors.New("no tasks found matching your criteria")
	// version is the application version.
	version = "0.1.0"

	// appConfig is loaded before every command runs.
	appConfig *types.AppConfig
	logCloser io.Closer
	tracker   telemetry.Client = telemetry.NewNoopClient()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tasktree",
	Short: "TaskTree lays out your tasks as a living dependency tree.",
	Long: `TaskTree keeps a graph of tasks and the tasks they depend on.

Completed work floats to the top of the board, blocked work sinks to the
bottom, and everything else settles in between. Drag a task up to complete
it, or down to give it a new blocker.`,
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	defer logger.HandlePanic()

	cmd, err := rootCmd.ExecuteC()
	trackCommand(cmd, err)
	closeApp()
	if err != nil {
		HandleFatalError(userMessage(err), err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.tasktree/.tasktree.yaml or $HOME/.tasktree.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().String("data-file", "", "snapshot file, relative to the project dir")
	rootCmd.PersistentFlags().String("backend", "", "storage backend: file or sqlite")

	bindFlags(viper.GetViper())
}

// bindFlags binds persistent flags to their config keys.
func bindFlags(v *viper.Viper) {
	flags := rootCmd.PersistentFlags()
	_ = v.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = v.BindPFlag("data.file", flags.Lookup("data-file"))
	_ = v.BindPFlag("data.backend", flags.Lookup("backend"))
}

// initApp loads configuration and sets up logging, crash reports and
// telemetry for the command about to run.
func initApp(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(viper.GetViper(), cfgFile)
	if err != nil {
		return err
	}
	appConfig = cfg

	closer, err := logger.Setup(logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Path:    cfg.Project.LogPath,
		Verbose: cfg.Verbose,
	})
	if err != nil {
		return err
	}
	logCloser = closer

	logger.SetBasePath(cfg.Project.RootDir)
	logger.SetVersion(version)
	logger.SetCommand(cmd.CommandPath())

	tracker = telemetry.New(cfg.Telemetry.Enabled, cfg.Telemetry.APIKey, cfg.Telemetry.Endpoint, version)
	slog.Debug("command start", "command", cmd.CommandPath(), "config", cfg.Config)
	return nil
}

func trackCommand(cmd *cobra.Command, err error) {
	if cmd == nil {
		return
	}
	props := telemetry.Properties{"command": cmd.CommandPath()}
	if err != nil {
		props["error"] = errorKind(err)
		tracker.Track(telemetry.EventCommandError, props)
		return
	}
	tracker.Track(telemetry.EventCommandExecuted, props)
}

func closeApp() {
	if err := tracker.Close(); err != nil {
		slog.Debug("close telemetry", "error", err)
	}
	tracker = telemetry.NewNoopClient()
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}
