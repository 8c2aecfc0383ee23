package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/TaskTree/internal/config"
	"github.com/josephgoksu/TaskTree/internal/task"
	"github.com/josephgoksu/TaskTree/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a TaskTree project in the current directory",
	Long: `Create the project directory with a config file and an empty task snapshot.

An existing config is kept unless --force is given; an existing snapshot is never replaced.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		format, _ := cmd.Flags().GetString("format")

		root := appConfig.Project.RootDir
		if err := os.MkdirAll(root, 0755); err != nil {
			return fmt.Errorf("create project dir: %w", err)
		}

		cfg := config.DefaultAppConfig()
		cfg.Data.Backend = appConfig.Data.Backend
		if format != "" {
			cfg.Data.Format = format
			cfg.Data.File = "tasks." + format
		}
		if cfg.Data.Backend == store.BackendSQLite {
			cfg.Data.File = store.DefaultDBName
		}

		cfgPath := config.ProjectConfigPath(appConfig)
		if err := config.WriteConfigFile(cfgPath, cfg, force); err != nil {
			if !errors.Is(err, os.ErrExist) {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Keeping existing config %s\n", cfgPath)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote config %s\n", cfgPath)
		}

		opts := store.Options{
			Backend:  cfg.Data.Backend,
			DataFile: filepath.Join(root, cfg.Data.File),
			Format:   cfg.Data.Format,
			EventLog: filepath.Join(root, cfg.Data.EventLog),
		}
		snaps, evlog, err := store.Open(opts)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer func() {
			_ = snaps.Close()
			if any(evlog) != any(snaps) {
				_ = evlog.Close()
			}
		}()

		if _, err := snaps.Load(cmd.Context()); err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Keeping existing snapshot %s\n", opts.DataFile)
			return nil
		} else if !errors.Is(err, store.ErrNoSnapshot) {
			return err
		}
		if err := snaps.Save(cmd.Context(), task.Graph{}); err != nil {
			return fmt.Errorf("write empty snapshot: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created empty snapshot %s\n", opts.DataFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "overwrite an existing config file")
	initCmd.Flags().String("format", "", "snapshot format: json, yaml or toml")
}
