package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	defaults := defaultConfig()
	return &Config{
		Database: DatabaseConfig{
			Path:    ":memory:", // callers swap in a temp file when they need bbolt
			Timeout: 1 * time.Second,
		},
		API: APIConfig{
			Provider:  "newsapi",
			BaseURL:   "http://127.0.0.1",
			APIKey:    "test-key",
			Language:  "en",
			PageSize:  30,
			Timeout:   5 * time.Second,
			UserAgent: "newshub-test/1.0",
		},
		UI:    defaults.UI,
		Share: ShareConfig{},
		Open:  defaults.Open,
		Log:   LogConfig{Level: "off"},
		Keys:  defaults.Keys,
	}
}
