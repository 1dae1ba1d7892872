package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database" toml:"database"`
	API      APIConfig      `mapstructure:"api" toml:"api"`
	UI       UIConfig       `mapstructure:"ui" toml:"ui"`
	Share    ShareConfig    `mapstructure:"share" toml:"share"`
	Open     OpenConfig     `mapstructure:"open" toml:"open"`
	Log      LogConfig      `mapstructure:"log" toml:"log"`
	Keys     KeyConfig      `mapstructure:"keys" toml:"keys"`
}

type DatabaseConfig struct {
	Path        string        `mapstructure:"path" toml:"path"`
	Timeout     time.Duration `mapstructure:"timeout" toml:"timeout"`
	SearchIndex string        `mapstructure:"search_index" toml:"search_index"`
}

// APIConfig describes the upstream news source. Provider is either
// "newsapi" or "rss".
type APIConfig struct {
	Provider  string        `mapstructure:"provider" toml:"provider"`
	BaseURL   string        `mapstructure:"base_url" toml:"base_url"`
	APIKey    string        `mapstructure:"api_key" toml:"api_key"`
	Language  string        `mapstructure:"language" toml:"language"`
	PageSize  int           `mapstructure:"page_size" toml:"page_size"`
	Timeout   time.Duration `mapstructure:"timeout" toml:"timeout"`
	RateLimit time.Duration `mapstructure:"rate_limit" toml:"rate_limit"`
	UserAgent string        `mapstructure:"user_agent" toml:"user_agent"`
	RSSURL    string        `mapstructure:"rss_url" toml:"rss_url"`
}

type UIConfig struct {
	Colors           UIColors      `mapstructure:"colors" toml:"colors"`
	PageSize         int           `mapstructure:"page_size" toml:"page_size"`
	Pagination       string        `mapstructure:"pagination" toml:"pagination"`
	ViewMode         string        `mapstructure:"view_mode" toml:"view_mode"`
	SearchDebounce   time.Duration `mapstructure:"search_debounce" toml:"search_debounce"`
	DescriptionWords int           `mapstructure:"description_words" toml:"description_words"`
	WordWrapMaxWidth int           `mapstructure:"word_wrap_max_width" toml:"word_wrap_max_width"`
	WordWrapMinWidth int           `mapstructure:"word_wrap_min_width" toml:"word_wrap_min_width"`
}

type UIColors struct {
	Primary    string `mapstructure:"primary" toml:"primary"`
	Secondary  string `mapstructure:"secondary" toml:"secondary"`
	Accent     string `mapstructure:"accent" toml:"accent"`
	Background string `mapstructure:"background" toml:"background"`
	Surface    string `mapstructure:"surface" toml:"surface"`
	Text       string `mapstructure:"text" toml:"text"`
	Muted      string `mapstructure:"muted" toml:"muted"`
	Error      string `mapstructure:"error" toml:"error"`
	Success    string `mapstructure:"success" toml:"success"`
}

// ShareConfig configures the share action. Command, when set, receives the
// article URL as its last argument and takes precedence over the clipboard.
type ShareConfig struct {
	Command []string `mapstructure:"command" toml:"command"`
	OSC52   bool     `mapstructure:"osc52" toml:"osc52"`
}

type OpenConfig struct {
	DefaultOpener string   `mapstructure:"default_opener" toml:"default_opener"`
	ImageViewers  []string `mapstructure:"image_viewers" toml:"image_viewers"`
}

type LogConfig struct {
	Level string `mapstructure:"level" toml:"level"`
	File  string `mapstructure:"file" toml:"file"`
}

type KeyConfig struct {
	Bindings KeyBindings `mapstructure:"bindings" toml:"bindings"`
}

type KeyBindings struct {
	Quit          string `mapstructure:"quit" toml:"quit"`
	Search        string `mapstructure:"search" toml:"search"`
	Bookmark      string `mapstructure:"bookmark" toml:"bookmark"`
	BookmarksOnly string `mapstructure:"bookmarks_only" toml:"bookmarks_only"`
	ClearMarks    string `mapstructure:"clear_bookmarks" toml:"clear_bookmarks"`
	Sort          string `mapstructure:"sort" toml:"sort"`
	ViewMode      string `mapstructure:"view_mode" toml:"view_mode"`
	DarkMode      string `mapstructure:"dark_mode" toml:"dark_mode"`
	Refresh       string `mapstructure:"refresh" toml:"refresh"`
	Open          string `mapstructure:"open" toml:"open"`
	OpenImage     string `mapstructure:"open_image" toml:"open_image"`
	Share         string `mapstructure:"share" toml:"share"`
	Back          string `mapstructure:"back" toml:"back"`
	// FindBookmark opens full-text search over saved bookmarks.
	FindBookmark  string `mapstructure:"find_bookmark" toml:"find_bookmark"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".newshub", "newshub.db")
	searchIndexPath := filepath.Join(homeDir, ".newshub", "bookmarks.bleve")

	return &Config{
		Database: DatabaseConfig{
			Path:        dbPath,
			Timeout:     1 * time.Second,
			SearchIndex: searchIndexPath,
		},
		API: APIConfig{
			Provider:  "newsapi",
			BaseURL:   "https://newsapi.org",
			Language:  "en",
			PageSize:  30,
			Timeout:   15 * time.Second,
			RateLimit: 1 * time.Second,
			UserAgent: "newshub/1.0 (https://github.com/pders01/newshub)",
			RSSURL:    "https://news.google.com/rss/search?q={query}&hl={language}",
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:    "#3B82F6",
				Secondary:  "#4ECDC4",
				Accent:     "#95E1D3",
				Background: "#1A1A2E",
				Surface:    "#16213E",
				Text:       "#EAEAEA",
				Muted:      "#94A3B8",
				Error:      "#F87171",
				Success:    "#4ADE80",
			},
			PageSize:         12,
			Pagination:       "pages",
			ViewMode:         "grid",
			SearchDebounce:   500 * time.Millisecond,
			DescriptionWords: 25,
			WordWrapMaxWidth: 120,
			WordWrapMinWidth: 40,
		},
		Share: ShareConfig{
			OSC52: true,
		},
		Open: OpenConfig{
			DefaultOpener: getDefaultOpener(),
			ImageViewers:  defaultImageViewers(),
		},
		Log: LogConfig{
			Level: "off",
		},
		Keys: KeyConfig{
			Bindings: KeyBindings{
				Quit:          "q",
				Search:        "/",
				Bookmark:      "b",
				BookmarksOnly: "B",
				ClearMarks:    "X",
				Sort:          "s",
				ViewMode:      "v",
				DarkMode:      "d",
				Refresh:       "r",
				Open:          "o",
				OpenImage:     "i",
				Share:         "S",
				Back:          "esc",
				FindBookmark:  "ctrl+s",
			},
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

func defaultImageViewers() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"preview", "open"}
	case "linux":
		return []string{"sxiv", "feh", "eog", "xdg-open"}
	default:
		return nil
	}
}

func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")

	if err := setDefaults(v); err != nil {
		return nil, err
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(DefaultConfigDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("NEWSHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// NEWSHUB_API_KEY is the documented name for the credential.
	if key := v.GetString("api_key"); key != "" {
		config.API.APIKey = key
	}

	expandPaths(&config)
	normalize(&config)

	return &config, nil
}

// setDefaults seeds v with the default config as a TOML document so a
// partial user file only overrides the keys it names.
func setDefaults(v *viper.Viper) error {
	data, err := toml.Marshal(defaultConfig())
	if err != nil {
		return fmt.Errorf("encoding defaults: %w", err)
	}
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("loading defaults: %w", err)
	}
	return nil
}

// DefaultConfigDir is ~/.config/newshub.
func DefaultConfigDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "newshub")
}

// DefaultConfigPath is the file GenerateDefaultConfig writes when no path is given.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.toml")
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Database.SearchIndex = expandPath(cfg.Database.SearchIndex)
	cfg.Log.File = expandPath(cfg.Log.File)
}

// normalize clamps values the rest of the program assumes are sane.
func normalize(cfg *Config) {
	if cfg.UI.PageSize < 1 {
		cfg.UI.PageSize = 1
	}
	if cfg.API.PageSize < 1 {
		cfg.API.PageSize = defaultConfig().API.PageSize
	}
	if cfg.API.PageSize > 100 {
		cfg.API.PageSize = 100
	}
	if cfg.UI.SearchDebounce < 0 {
		cfg.UI.SearchDebounce = 0
	}
	switch cfg.UI.Pagination {
	case "pages", "more":
	default:
		cfg.UI.Pagination = "pages"
	}
	switch cfg.UI.ViewMode {
	case "grid", "list":
	default:
		cfg.UI.ViewMode = "grid"
	}
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Durations are written as strings for TOML readability
	dbCfg := map[string]interface{}{
		"path":         config.Database.Path,
		"timeout":      config.Database.Timeout.String(),
		"search_index": config.Database.SearchIndex,
	}

	apiCfg := map[string]interface{}{
		"provider":   config.API.Provider,
		"base_url":   config.API.BaseURL,
		"api_key":    config.API.APIKey,
		"language":   config.API.Language,
		"page_size":  config.API.PageSize,
		"timeout":    config.API.Timeout.String(),
		"rate_limit": config.API.RateLimit.String(),
		"user_agent": config.API.UserAgent,
		"rss_url":    config.API.RSSURL,
	}

	uiCfg := map[string]interface{}{
		"colors":              config.UI.Colors,
		"page_size":           config.UI.PageSize,
		"pagination":          config.UI.Pagination,
		"view_mode":           config.UI.ViewMode,
		"search_debounce":     config.UI.SearchDebounce.String(),
		"description_words":   config.UI.DescriptionWords,
		"word_wrap_max_width": config.UI.WordWrapMaxWidth,
		"word_wrap_min_width": config.UI.WordWrapMinWidth,
	}

	v.Set("database", dbCfg)
	v.Set("api", apiCfg)
	v.Set("ui", uiCfg)
	v.Set("share", config.Share)
	v.Set("open", config.Open)
	v.Set("log", config.Log)
	v.Set("keys", config.Keys)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
