package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pders01/newshub/internal/news"
	"github.com/pders01/newshub/internal/opener"
	"github.com/pders01/newshub/internal/share"
	"github.com/pders01/newshub/internal/tui"
	"github.com/spf13/cobra"
)

var (
	flagConfig   string
	flagDB       string
	flagLogLevel string
	flagDebug    bool
)

var rootCmd = &cobra.Command{
	Use:          "newshub",
	Short:        "Terminal news reader",
	Long:         "newshub searches a news API, browses headlines by category and keeps a local list of saved articles.",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "path to configuration file")
	pf.StringVar(&flagDB, "db", "", "path to database file (overrides config)")
	pf.StringVar(&flagLogLevel, "log-level", "", "log level: off, error, warn, info, debug")
	pf.BoolVar(&flagDebug, "debug", false, "shorthand for --log-level debug")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(headlinesCmd)
	rootCmd.AddCommand(bookmarksCmd)
	rootCmd.AddCommand(configCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	provider, err := news.NewProvider(svc.cfg.API)
	if err != nil {
		return fmt.Errorf("creating provider: %w", err)
	}

	deps := tui.Deps{
		Config:    svc.cfg,
		Provider:  provider,
		Bookmarks: svc.bookmarks,
		Theme:     svc.theme,
		Searcher:  svc.searcher,
		Opener:    opener.New(svc.cfg.Open),
		Sharer:    share.Default(svc.cfg.Share.Command, svc.cfg.Share.OSC52, os.Stdout),
	}
	if svc.store != nil {
		deps.Snapshots = svc.store
	}

	app := tui.NewApp(deps)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running terminal UI: %w", err)
	}
	return nil
}
