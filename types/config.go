/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose   bool            `mapstructure:"verbose" yaml:"-"`
	Config    string          `mapstructure:"config" yaml:"-"`
	Project   ProjectConfig   `mapstructure:"project" yaml:"project" validate:"required"`
	Data      DataConfig      `mapstructure:"data" yaml:"data" validate:"required"`
	Sim       SimConfig       `mapstructure:"sim" yaml:"sim"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
}

// ProjectConfig holds project-related settings
type ProjectConfig struct {
	RootDir string `mapstructure:"rootDir" yaml:"rootDir" validate:"required"`
	LogPath string `mapstructure:"logPath" yaml:"logPath" validate:"required"`
}

// DataConfig holds data storage configuration
type DataConfig struct {
	File     string `mapstructure:"file" yaml:"file" validate:"required"`
	Format   string `mapstructure:"format" yaml:"format" validate:"omitempty,oneof=json yaml toml"`
	Backend  string `mapstructure:"backend" yaml:"backend" validate:"required,oneof=file sqlite"`
	EventLog string `mapstructure:"eventLog" yaml:"eventLog"`
}

// SimConfig sizes the board and paces the layout simulation
type SimConfig struct {
	Width        float64 `mapstructure:"width" yaml:"width" validate:"gt=0"`
	Height       float64 `mapstructure:"height" yaml:"height" validate:"gt=0"`
	CompleteLine float64 `mapstructure:"completeLine" yaml:"completeLine" validate:"gte=0,ltfield=BlockedLine"`
	BlockedLine  float64 `mapstructure:"blockedLine" yaml:"blockedLine" validate:"gt=0,ltefield=Height"`
	FPS          int     `mapstructure:"fps" yaml:"fps" validate:"min=1,max=120"`
	Seed         int64   `mapstructure:"seed" yaml:"seed"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Port           int      `mapstructure:"port" yaml:"port" validate:"min=1,max=65535"`
	AllowedOrigins []string `mapstructure:"allowedOrigins" yaml:"allowedOrigins"`
}

// TelemetryConfig holds opt-in usage analytics settings
type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	APIKey   string `mapstructure:"apiKey" yaml:"apiKey,omitempty"`
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint,omitempty" validate:"omitempty,url"`
}

// LogConfig holds structured logging settings
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"omitempty,oneof=text json"`
}
