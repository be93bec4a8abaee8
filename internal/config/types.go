package config

import "fmt"

// Config is the full application configuration.
//
// All durations are Go duration strings (e.g. "500ms", "10s", "1m").
type Config struct {
	Telegram TelegramConfig `json:"telegram"`
	Catalog  CatalogConfig  `json:"catalog"`
	Monitor  MonitorConfig  `json:"monitor"`
	Storage  StorageConfig  `json:"storage"`
	Logging  LoggingConfig  `json:"logging"`
}

type TelegramConfig struct {
	Token string `json:"token"`
	// PollTimeout is the long-poll timeout, a Go duration string.
	PollTimeout string `json:"poll_timeout,omitempty"`
}

type CatalogConfig struct {
	URL string `json:"url"`
	// FetchTimeout bounds one HTTP request. Default 15s.
	FetchTimeout string `json:"fetch_timeout,omitempty"`
	// RatePerSec paces catalog fetches (API politeness). Default 2.
	RatePerSec int `json:"rate_per_sec,omitempty"`
}

type MonitorConfig struct {
	// Schedule is either a Go duration ("10s") or a cron spec
	// ("cron:*/5 * * * *" / bare 5-field expression).
	Schedule string `json:"schedule"`
}

// StorageConfig controls the subscriber registry backend.
//
// Example:
//
//	"storage": { "driver": "file", "path": "./subscribers.json" }
type StorageConfig struct {
	Driver      string `json:"driver,omitempty"` // "file" (default) or "sqlite"
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // sqlite only
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// Validate checks required fields and duration syntax. It is called on load
// and before committing a hot reload, so a broken edit never reaches the
// running services.
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram.token is required")
	}
	if c.Catalog.URL == "" {
		return fmt.Errorf("catalog.url is required")
	}
	if c.Monitor.Schedule == "" {
		return fmt.Errorf("monitor.schedule is required")
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}
	for _, d := range []struct{ path, raw string }{
		{"telegram.poll_timeout", c.Telegram.PollTimeout},
		{"catalog.fetch_timeout", c.Catalog.FetchTimeout},
		{"storage.busy_timeout", c.Storage.BusyTimeout},
	} {
		if _, err := ParseDurationField(d.path, d.raw); err != nil {
			return err
		}
	}
	if c.Catalog.RatePerSec < 0 {
		return fmt.Errorf("catalog.rate_per_sec must be >= 0")
	}
	return nil
}
