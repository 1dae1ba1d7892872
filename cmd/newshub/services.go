package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/pders01/newshub/internal/bookmarks"
	"github.com/pders01/newshub/internal/config"
	"github.com/pders01/newshub/internal/debuglog"
	"github.com/pders01/newshub/internal/prefs"
	"github.com/pders01/newshub/internal/search"
	"github.com/pders01/newshub/internal/storage"
	"github.com/pders01/newshub/internal/validation"
)

// services are the long-lived collaborators shared by the TUI and the
// subcommands.
type services struct {
	cfg       *config.Config
	store     *storage.Store // nil when running on the in-memory fallback
	kv        bookmarks.KV
	bookmarks *bookmarks.Store
	searcher  search.Searcher
	theme     *prefs.Theme
}

// loadConfig reads .env, the config file and the persistent flags, then
// starts logging.
func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagDB != "" {
		cfg.Database.Path = flagDB
	}
	if level := logLevelOverride(flagLogLevel, flagDebug); level != "" {
		cfg.Log.Level = level
	}

	if err := resolvePaths(cfg); err != nil {
		return nil, err
	}

	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), cfg.Log.File); err != nil {
		return nil, fmt.Errorf("starting log: %w", err)
	}
	return cfg, nil
}

func logLevelOverride(level string, debug bool) string {
	if debug {
		return "debug"
	}
	return level
}

// resolvePaths cleans the database, index and log paths and creates their
// parent directories.
func resolvePaths(cfg *config.Config) error {
	pv := validation.NewPathValidator()

	db, err := pv.File(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("invalid database path: %w", err)
	}
	cfg.Database.Path = db

	if cfg.Database.SearchIndex != "" {
		idx, err := pv.Dir(cfg.Database.SearchIndex)
		if err != nil {
			return fmt.Errorf("invalid search index path: %w", err)
		}
		cfg.Database.SearchIndex = idx
	}

	if cfg.Log.File != "" {
		logFile, err := pv.File(cfg.Log.File)
		if err != nil {
			return fmt.Errorf("invalid log path: %w", err)
		}
		cfg.Log.File = logFile
	}
	return nil
}

func openServices() (*services, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	svc := &services{cfg: cfg}
	store, err := storage.NewStore(cfg.Database.Path, cfg.Database.Timeout)
	if err != nil {
		debuglog.Errorf("storage: %v; bookmarks and preferences will not be saved", err)
		svc.kv = storage.NewMemory()
	} else {
		svc.store = store
		svc.kv = store
	}

	svc.bookmarks = bookmarks.Open(svc.kv)
	svc.theme = prefs.LoadTheme(svc.kv)

	svc.searcher = search.NewSearcher(svc.bookmarks, cfg.Database.SearchIndex)
	if l, ok := svc.searcher.(bookmarks.Listener); ok {
		svc.bookmarks.AddListener(l)
	}

	debuglog.WithFields(map[string]interface{}{
		"db":       cfg.Database.Path,
		"provider": cfg.API.Provider,
		"memory":   svc.store == nil,
	}).Infof("services ready")
	return svc, nil
}

func (s *services) Close() {
	if c, ok := s.searcher.(search.Closer); ok {
		if err := c.Close(); err != nil {
			debuglog.Warnf("search: closing index: %v", err)
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			debuglog.Warnf("storage: closing: %v", err)
		}
	}
	_ = debuglog.Close()
}
