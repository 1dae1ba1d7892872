package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pders01/newshub/internal/bookmarks"
	"github.com/pders01/newshub/internal/config"
	"github.com/pders01/newshub/internal/news"
	"github.com/pders01/newshub/internal/query"
	"github.com/pders01/newshub/internal/view"
)

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	defer versionCmd.SetOut(nil)

	versionCmd.Run(versionCmd, nil)

	out := buf.String()
	if !strings.Contains(out, "newshub dev") {
		t.Errorf("Expected version output to contain 'newshub dev', got: %s", out)
	}
	if !strings.Contains(out, "github.com/pders01/newshub") {
		t.Errorf("Expected version output to contain the module path, got: %s", out)
	}
}

func TestGenerateConfigCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "newshub", "config.toml")

	var buf bytes.Buffer
	configGenerateCmd.SetOut(&buf)
	defer configGenerateCmd.SetOut(nil)

	if err := configGenerateCmd.RunE(configGenerateCmd, []string{path}); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Config file was not created at %s", path)
	}
	if !strings.Contains(buf.String(), path) {
		t.Errorf("Expected output to name %s, got: %s", path, buf.String())
	}

	if err := configGenerateCmd.RunE(configGenerateCmd, []string{path}); err == nil {
		t.Error("Expected an error when the file already exists")
	}

	flagForce = true
	defer func() { flagForce = false }()
	if err := configGenerateCmd.RunE(configGenerateCmd, []string{path}); err != nil {
		t.Errorf("--force should overwrite: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if cfg.API.Provider != "newsapi" {
		t.Errorf("Expected provider newsapi, got %q", cfg.API.Provider)
	}
}

func TestNewController(t *testing.T) {
	cfg := config.TestConfig()

	tests := []struct {
		name     string
		category string
		text     string
		sort     string
		wantErr  bool
		wantMode news.Mode
		wantCat  news.Category
	}{
		{name: "category", category: "Sports", sort: "latest", wantMode: news.ModeCategory, wantCat: news.CategorySports},
		{name: "search wins", category: "sports", text: " go ", sort: "relevancy", wantMode: news.ModeSearch, wantCat: news.CategorySports},
		{name: "unknown category", category: "weather", sort: "latest", wantErr: true},
		{name: "unknown sort", category: "general", sort: "oldest", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl, err := newController(cfg, tt.category, tt.text, tt.sort)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			fetch, ok := ctrl.Submit().(query.Fetch)
			if !ok {
				t.Fatal("Submit did not produce a fetch")
			}
			q := fetch.Request.Query
			if q.Mode != tt.wantMode {
				t.Errorf("mode = %v, want %v", q.Mode, tt.wantMode)
			}
			if q.Category != tt.wantCat {
				t.Errorf("category = %q, want %q", q.Category, tt.wantCat)
			}
			if tt.wantMode == news.ModeSearch && q.Text != "go" {
				t.Errorf("text = %q, want trimmed %q", q.Text, "go")
			}
			if fetch.Request.Seq != ctrl.LastIssued() {
				t.Errorf("seq = %d, want latest %d", fetch.Request.Seq, ctrl.LastIssued())
			}
		})
	}
}

func TestPromptConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"yes", true},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		confirm := promptConfirm(strings.NewReader(tt.input), &out)
		if got := confirm(3); got != tt.want {
			t.Errorf("input %q: got %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "Remove all 3 saved articles?") {
			t.Errorf("prompt missing count: %q", out.String())
		}
	}
}

func TestLogLevelOverride(t *testing.T) {
	if got := logLevelOverride("warn", true); got != "debug" {
		t.Errorf("--debug should win, got %q", got)
	}
	if got := logLevelOverride("warn", false); got != "warn" {
		t.Errorf("got %q, want warn", got)
	}
	if got := logLevelOverride("", false); got != "" {
		t.Errorf("got %q, want no override", got)
	}
}

func TestResolvePaths(t *testing.T) {
	dir := t.TempDir()
	cfg := config.TestConfig()
	cfg.Database.Path = filepath.Join(dir, "data", "newshub.db")
	cfg.Database.SearchIndex = filepath.Join(dir, "data", "index.bleve")
	cfg.Log.File = filepath.Join(dir, "logs", "newshub.log")

	if err := resolvePaths(cfg); err != nil {
		t.Fatalf("resolvePaths: %v", err)
	}
	for _, d := range []string{filepath.Join(dir, "data"), filepath.Join(dir, "logs")} {
		if info, err := os.Stat(d); err != nil || !info.IsDir() {
			t.Errorf("expected directory %s to exist", d)
		}
	}

	cfg.Database.Path = dir
	if err := resolvePaths(cfg); err == nil {
		t.Error("expected an error when the database path is a directory")
	}
}

func TestArticleTable(t *testing.T) {
	articles := []news.Article{
		{Title: "Saved story", Source: "Wire", PublishedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)},
		{Title: "Other story", Source: "Daily"},
	}
	out := articleTable(articles, map[string]bool{"Saved story": true})

	for _, want := range []string{"Saved story", "Other story", "★", view.DateUnknown, "Wire"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestPrintHeadlines(t *testing.T) {
	var buf bytes.Buffer
	printHeadlines(&buf, "General headlines", view.Page{Page: 1, TotalPages: 1}, nil)
	if !strings.Contains(buf.String(), "No articles found.") {
		t.Errorf("unexpected output: %q", buf.String())
	}

	buf.Reset()
	page := view.Compute([]news.Article{{Title: "A"}, {Title: "B"}, {Title: "C"}}, "", false, nil, 2, 2)
	printHeadlines(&buf, "General headlines", page, nil)
	if !strings.Contains(buf.String(), "page 2/2 • 3 articles") {
		t.Errorf("unexpected summary: %q", buf.String())
	}
}

func TestDescribeRequest(t *testing.T) {
	search := news.Query{Mode: news.ModeSearch, Text: "rust", Sort: news.SortPopularity}
	if got := describeRequest(search); got != `Search "rust" (popularity)` {
		t.Errorf("got %q", got)
	}
	cat := news.Query{Mode: news.ModeCategory, Category: news.CategoryScience}
	if got := describeRequest(cat); got != "Science headlines" {
		t.Errorf("got %q", got)
	}
}

func TestPrintBookmarks(t *testing.T) {
	var buf bytes.Buffer
	printBookmarks(&buf, nil)
	if !strings.Contains(buf.String(), "No saved articles") {
		t.Errorf("unexpected output: %q", buf.String())
	}

	buf.Reset()
	printBookmarks(&buf, []bookmarks.Bookmark{{Article: news.Article{Title: "Kept", Source: "Wire"}}})
	if !strings.Contains(buf.String(), "Saved articles (1)") || !strings.Contains(buf.String(), "Kept") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestPrintStatsSorted(t *testing.T) {
	var buf bytes.Buffer
	printStats(&buf, map[string]int{"snapshot": 1, "prefs": 2})
	out := buf.String()
	if strings.Index(out, "prefs") > strings.Index(out, "snapshot") {
		t.Errorf("buckets not sorted: %q", out)
	}
}
