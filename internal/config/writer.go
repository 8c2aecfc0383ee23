package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/josephgoksu/TaskTree/types"
)

// DefaultAppConfig returns the defaults with project-relative paths, as
// they are written to a fresh config file.
func DefaultAppConfig() types.AppConfig {
	return types.AppConfig{
		Project: types.ProjectConfig{RootDir: DefaultRootDir, LogPath: DefaultLogPath},
		Data: types.DataConfig{
			File:     DefaultDataFile,
			Format:   DefaultFormat,
			Backend:  DefaultBackend,
			EventLog: DefaultEventLog,
		},
		Sim: types.SimConfig{
			Width:        DefaultWidth,
			Height:       DefaultHeight,
			CompleteLine: DefaultCompleteLine,
			BlockedLine:  DefaultBlockedLine,
			FPS:          DefaultFPS,
			Seed:         DefaultSeed,
		},
		Server: types.ServerConfig{
			Port:           DefaultPort,
			AllowedOrigins: append([]string(nil), DefaultAllowedOrigins...),
		},
		Log: types.LogConfig{Level: "info", Format: "text"},
	}
}

// WriteConfigFile writes cfg as YAML. It refuses to overwrite an existing
// file unless force is set.
func WriteConfigFile(path string, cfg types.AppConfig, force bool) error {
	if err := Validate(&cfg); err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file %s: %w", path, os.ErrExist)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("# TaskTree configuration\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
