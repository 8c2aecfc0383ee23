// Package config provides centralized configuration constants for TaskTree.
// All default values should be defined here to ensure a single source of truth.
package config

import "github.com/spf13/viper"

const (
	// ConfigName is the config file name without extension (.tasktree.yaml).
	ConfigName = ".tasktree"

	// EnvPrefix prefixes environment overrides, e.g. TASKTREE_DATA_FILE.
	EnvPrefix = "TASKTREE"

	DefaultRootDir  = ".tasktree"
	DefaultLogPath  = "logs/tasktree.log"
	DefaultDataFile = "tasks.json"
	DefaultFormat   = "json"
	DefaultBackend  = "file"
	DefaultEventLog = "events.jsonl"
)

// Board geometry and pacing.
const (
	DefaultWidth        = 1400.0
	DefaultHeight       = 500.0
	DefaultCompleteLine = 150.0
	DefaultBlockedLine  = 400.0
	DefaultFPS          = 30
	DefaultSeed         = 1
)

// Server defaults.
const (
	DefaultPort = 8000
)

// DefaultAllowedOrigins are the browser origins the API accepts by default.
var DefaultAllowedOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("project.rootDir", DefaultRootDir)
	v.SetDefault("project.logPath", DefaultLogPath)

	v.SetDefault("data.file", DefaultDataFile)
	v.SetDefault("data.format", DefaultFormat)
	v.SetDefault("data.backend", DefaultBackend)
	v.SetDefault("data.eventLog", DefaultEventLog)

	v.SetDefault("sim.width", DefaultWidth)
	v.SetDefault("sim.height", DefaultHeight)
	v.SetDefault("sim.completeLine", DefaultCompleteLine)
	v.SetDefault("sim.blockedLine", DefaultBlockedLine)
	v.SetDefault("sim.fps", DefaultFPS)
	v.SetDefault("sim.seed", DefaultSeed)

	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.allowedOrigins", DefaultAllowedOrigins)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.apiKey", "")
	v.SetDefault("telemetry.endpoint", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}
