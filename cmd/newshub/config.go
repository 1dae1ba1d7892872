package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pders01/newshub/internal/config"
	"github.com/pders01/newshub/internal/debuglog"
	"github.com/pders01/newshub/internal/storage"
	"github.com/spf13/cobra"
)

var flagForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the configuration file",
}

var configGenerateCmd = &cobra.Command{
	Use:   "generate [path]",
	Short: "Write the default configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultConfigPath()
		if len(args) == 1 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil && !flagForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking %s: %w", path, err)
		}

		if err := config.GenerateDefaultConfig(path); err != nil {
			return fmt.Errorf("generating config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Generated default configuration at: %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show resolved paths and storage statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer debuglog.Close()

		out := cmd.OutOrStdout()
		printConfig(out, cfg)

		store, err := storage.NewStore(cfg.Database.Path, cfg.Database.Timeout)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer store.Close()

		stats, err := store.Stats()
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}
		printStats(out, stats)
		return nil
	},
}

func init() {
	configGenerateCmd.Flags().BoolVarP(&flagForce, "force", "f", false, "overwrite an existing file")

	configCmd.AddCommand(configGenerateCmd)
	configCmd.AddCommand(configShowCmd)
}

func printConfig(w io.Writer, cfg *config.Config) {
	configPath := flagConfig
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}
	key := "not set"
	if cfg.API.APIKey != "" {
		key = "set"
	}
	logFile := cfg.Log.File
	if logFile == "" {
		logFile, _ = debuglog.DefaultPath()
	}

	fmt.Fprintf(w, "Config:       %s\n", configPath)
	fmt.Fprintf(w, "Database:     %s\n", cfg.Database.Path)
	fmt.Fprintf(w, "Search index: %s\n", cfg.Database.SearchIndex)
	fmt.Fprintf(w, "Log:          %s (%s)\n", logFile, cfg.Log.Level)
	fmt.Fprintf(w, "Provider:     %s (api key %s)\n", cfg.API.Provider, key)
	fmt.Fprintf(w, "Language:     %s, %d per request\n", cfg.API.Language, cfg.API.PageSize)
	fmt.Fprintf(w, "Layout:       %s, %s, %d per page\n", cfg.UI.ViewMode, cfg.UI.Pagination, cfg.UI.PageSize)
}

func printStats(w io.Writer, stats map[string]int) {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "Bucket %-8s %d key(s)\n", name+":", stats[name])
	}
}
