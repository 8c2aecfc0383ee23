package config

import (
	"os"
	"path/filepath"

	"github.com/josephgoksu/TaskTree/internal/sim"
	"github.com/josephgoksu/TaskTree/store"
	"github.com/josephgoksu/TaskTree/types"
)

// GetGlobalConfigDir returns ~/.tasktree.
// It's a variable to allow overriding in tests.
var GetGlobalConfigDir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tasktree"), nil
}

// ProjectConfigPath is where `tasktree init` writes the project config.
func ProjectConfigPath(cfg *types.AppConfig) string {
	return filepath.Join(cfg.Project.RootDir, ConfigName+".yaml")
}

// StoreOptions maps the data section onto store.Options.
func StoreOptions(cfg *types.AppConfig) store.Options {
	return store.Options{
		Backend:  cfg.Data.Backend,
		DataFile: cfg.Data.File,
		Format:   cfg.Data.Format,
		EventLog: cfg.Data.EventLog,
	}
}

// Layout builds the board geometry from the sim section. The complete and
// available zones share a setpoint at the complete line; blocked tasks
// sink to the bottom edge.
func Layout(c types.SimConfig) sim.Layout {
	l := sim.DefaultLayout()
	if c.Width > 0 {
		l.Width = c.Width
	}
	if c.Height > 0 {
		l.Height = c.Height
	}
	if c.CompleteLine > 0 {
		l.CompleteLine = c.CompleteLine
	}
	if c.BlockedLine > 0 {
		l.BlockedLine = c.BlockedLine
	}
	l.CompleteSetpoint = l.CompleteLine
	l.AvailableSetpoint = l.CompleteLine
	l.BlockedSetpoint = l.Height
	return l
}
