package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for feedsheet.
type Config struct {
	Browser   BrowserConfig   `mapstructure:"browser"   yaml:"browser"`
	Collector CollectorConfig `mapstructure:"collector" yaml:"collector"`
	Sheets    SheetsConfig    `mapstructure:"sheets"    yaml:"sheets"`
	Archive   ArchiveConfig   `mapstructure:"archive"   yaml:"archive"`
	Server    ServerConfig    `mapstructure:"server"    yaml:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

// BrowserConfig controls the headless browser session.
type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless"           yaml:"headless"`
	BaseURL           string        `mapstructure:"base_url"           yaml:"base_url"`
	UserDataDir       string        `mapstructure:"user_data_dir"      yaml:"user_data_dir"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
}

// CollectorConfig controls the collection loop.
type CollectorConfig struct {
	DefaultCount int           `mapstructure:"default_count" yaml:"default_count"`
	MaxCount     int           `mapstructure:"max_count"     yaml:"max_count"`
	ScrollDelay  time.Duration `mapstructure:"scroll_delay"  yaml:"scroll_delay"`
	ReadingTime  time.Duration `mapstructure:"reading_time"  yaml:"reading_time"`
}

// SheetsConfig controls the spreadsheet backend.
type SheetsConfig struct {
	// Backend is "rest" for the hosted API or "memory" for dry runs.
	Backend       string `mapstructure:"backend"        yaml:"backend"`
	SpreadsheetID string `mapstructure:"spreadsheet_id" yaml:"spreadsheet_id"`
	Token         string `mapstructure:"token"          yaml:"token"`
}

// ArchiveConfig controls local batch archiving.
type ArchiveConfig struct {
	Enabled       bool   `mapstructure:"enabled"        yaml:"enabled"`
	Type          string `mapstructure:"type"           yaml:"type"` // jsonl, mongodb, both
	OutputPath    string `mapstructure:"output_path"    yaml:"output_path"`
	MongoURI      string `mapstructure:"mongo_uri"      yaml:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database" yaml:"mongo_database"`
}

// ServerConfig controls the tool HTTP server.
type ServerConfig struct {
	Port int `mapstructure:"port" yaml:"port"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Browser: BrowserConfig{
			Headless:          true,
			BaseURL:           "https://x.com",
			NavigationTimeout: 30 * time.Second,
		},
		Collector: CollectorConfig{
			DefaultCount: 10,
			MaxCount:     200,
			ScrollDelay:  1500 * time.Millisecond,
			ReadingTime:  2 * time.Second,
		},
		Sheets: SheetsConfig{
			Backend: "rest",
		},
		Archive: ArchiveConfig{
			Enabled:       false,
			Type:          "jsonl",
			OutputPath:    "./archive/batches.jsonl",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "feedsheet",
		},
		Server: ServerConfig{
			Port: 8077,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}
