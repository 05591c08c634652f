package config

import (
	"fmt"
	"net/url"
)

// Validate checks a loaded config for values that would fail at runtime.
func Validate(cfg *Config) error {
	if cfg.Browser.NavigationTimeout <= 0 {
		return fmt.Errorf("browser.navigation_timeout must be positive")
	}
	if _, err := url.ParseRequestURI(cfg.Browser.BaseURL); err != nil {
		return fmt.Errorf("browser.base_url is not a valid URL: %w", err)
	}

	if cfg.Collector.DefaultCount <= 0 {
		return fmt.Errorf("collector.default_count must be positive")
	}
	if cfg.Collector.MaxCount < cfg.Collector.DefaultCount {
		return fmt.Errorf("collector.max_count must be >= collector.default_count")
	}

	switch cfg.Sheets.Backend {
	case "rest", "memory":
	default:
		return fmt.Errorf("sheets.backend must be rest or memory, got %q", cfg.Sheets.Backend)
	}
	if cfg.Archive.Enabled {
		switch cfg.Archive.Type {
		case "jsonl", "mongodb", "both":
		default:
			return fmt.Errorf("archive.type must be jsonl, mongodb or both, got %q", cfg.Archive.Type)
		}
		if cfg.Archive.Type != "mongodb" && cfg.Archive.OutputPath == "" {
			return fmt.Errorf("archive.output_path is required for jsonl archiving")
		}
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535")
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", cfg.Logging.Level)
	}

	return nil
}
