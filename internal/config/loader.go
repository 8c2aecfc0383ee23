package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/josephgoksu/TaskTree/internal/project"
	"github.com/josephgoksu/TaskTree/types"
)

// ErrConfigNotFound is returned when an explicit --config file does not exist.
var ErrConfigNotFound = errors.New("config file not found")

// validate is a single instance of Validate, it caches struct info
var validate = validator.New()

// Validate checks cfg against its struct tags.
func Validate(cfg *types.AppConfig) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Load reads .env, the environment and the config file into v and returns
// the validated application config. cfgFile overrides the search path.
//
// Search order: ./.tasktree/.tasktree.yaml, then $HOME/.tasktree.yaml and
// ./.tasktree.yaml.
func Load(v *viper.Viper, cfgFile string) (*types.AppConfig, error) {
	// A missing .env is fine.
	_ = godotenv.Load()

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	SetDefaults(v)
	if v.GetString("project.rootDir") == DefaultRootDir {
		detectProjectRoot(v)
	}

	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, cfgFile)
		}
		v.SetConfigFile(cfgFile)
	} else {
		projectDir := v.GetString("project.rootDir")
		if info, err := os.Stat(projectDir); err == nil && info.IsDir() {
			v.AddConfigPath(projectDir)
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(ConfigName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config %s: %w", v.ConfigFileUsed(), err)
		}
		slog.Debug("no config file found, using defaults and environment")
	} else {
		slog.Debug("using config file", "path", v.ConfigFileUsed())
	}

	var cfg types.AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Config = v.ConfigFileUsed()
	resolvePaths(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// detectProjectRoot points project.rootDir at the nearest enclosing project
// when the working directory has none of its own.
func detectProjectRoot(v *viper.Viper) {
	ctx, err := project.Detect(".")
	if err != nil || !ctx.HasProjectDir() {
		return
	}
	wd, err := os.Getwd()
	if err != nil || ctx.RootPath == wd {
		return
	}
	v.Set("project.rootDir", ctx.ProjectDir())
	slog.Debug("using enclosing project", "root", ctx.RootPath)
}

// resolvePaths anchors relative paths at the project dir.
func resolvePaths(cfg *types.AppConfig) {
	root := cfg.Project.RootDir
	if root == "" {
		return
	}
	anchor := func(p string) string {
		if p == "" || filepath.IsAbs(p) || p == ":memory:" {
			return p
		}
		return filepath.Join(root, p)
	}
	cfg.Project.LogPath = anchor(cfg.Project.LogPath)
	cfg.Data.File = anchor(cfg.Data.File)
	cfg.Data.EventLog = anchor(cfg.Data.EventLog)
}
