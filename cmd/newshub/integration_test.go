package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pders01/newshub/internal/bookmarks"
	"github.com/pders01/newshub/internal/config"
	"github.com/pders01/newshub/internal/news"
	"github.com/pders01/newshub/internal/query"
	"github.com/pders01/newshub/internal/search"
	"github.com/pders01/newshub/internal/storage"
	"github.com/pders01/newshub/internal/view"
)

const headlinesBody = `{
  "status": "ok",
  "totalResults": 3,
  "articles": [
    {"source": {"name": "Wire"}, "author": "Kim", "title": "Chip plant opens",
     "description": "A new fab", "url": "https://example.com/chips", "urlToImage": "https://example.com/chips.jpg",
     "publishedAt": "2025-03-01T10:00:00Z", "content": "Production starts [+900 chars]"},
    {"source": {"name": "Wire"}, "author": null, "title": "[Removed]",
     "description": null, "url": "https://removed.com", "urlToImage": null,
     "publishedAt": "2025-03-01T09:00:00Z", "content": null},
    {"source": {"name": "Daily"}, "author": null, "title": "Robots learn to fold laundry",
     "description": "Slowly", "url": "https://example.com/robots", "urlToImage": null,
     "publishedAt": "2025-03-01T08:00:00Z", "content": "More"}
  ]
}`

const feedBody = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Search results</title>
    <item>
      <title>Older item</title>
      <link>https://example.com/old</link>
      <description>first</description>
      <pubDate>Mon, 03 Mar 2025 08:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Newer item</title>
      <link>https://example.com/new</link>
      <description>second</description>
      <pubDate>Tue, 04 Mar 2025 08:00:00 GMT</pubDate>
      <enclosure url="https://example.com/image1.jpg" type="image/jpeg" length="100"/>
    </item>
  </channel>
</rss>`

type testEnv struct {
	cfg       *config.Config
	store     *storage.Store
	bookmarks *bookmarks.Store
	searcher  search.Searcher
	dir       string
}

func setupTestEnvironment(t *testing.T, handler http.HandlerFunc) *testEnv {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfg := config.TestConfig()
	cfg.API.BaseURL = srv.URL
	cfg.API.RSSURL = srv.URL + "/rss?q={query}&hl={language}"
	cfg.Database.Path = filepath.Join(dir, "newshub.db")
	cfg.Database.SearchIndex = filepath.Join(dir, "index.bleve")

	env := &testEnv{cfg: cfg, dir: dir}
	env.open(t)
	return env
}

func (e *testEnv) open(t *testing.T) {
	t.Helper()
	store, err := storage.NewStore(e.cfg.Database.Path)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	e.store = store
	e.bookmarks = bookmarks.Open(store)
	e.searcher = search.NewSearcher(e.bookmarks, e.cfg.Database.SearchIndex)
	if l, ok := e.searcher.(bookmarks.Listener); ok {
		e.bookmarks.AddListener(l)
	}
	t.Cleanup(e.close)
}

func (e *testEnv) close() {
	if c, ok := e.searcher.(search.Closer); ok {
		c.Close()
	}
	e.searcher = nil
	if e.store != nil {
		e.store.Close()
		e.store = nil
	}
}

func (e *testEnv) fetch(t *testing.T, category, text string) (*query.Controller, error) {
	t.Helper()
	provider, err := news.NewProvider(e.cfg.API)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	ctrl, err := newController(e.cfg, category, text, "latest")
	if err != nil {
		t.Fatalf("Failed to build controller: %v", err)
	}
	fetch, ok := ctrl.Submit().(query.Fetch)
	if !ok {
		t.Fatal("Submit did not produce a fetch")
	}
	return ctrl, fetchOnce(context.Background(), provider, ctrl, fetch)
}

func TestIntegration_HeadlinesAndBookmarks(t *testing.T) {
	var gotPath, gotCategory, gotKey string
	env := setupTestEnvironment(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCategory = r.URL.Query().Get("category")
		gotKey = r.Header.Get("X-Api-Key")
		fmt.Fprint(w, headlinesBody)
	})

	ctrl, err := env.fetch(t, "technology", "")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if gotPath != "/v2/top-headlines" || gotCategory != "technology" {
		t.Errorf("Unexpected request %s category=%s", gotPath, gotCategory)
	}
	if gotKey != "test-key" {
		t.Errorf("Expected API key header, got %q", gotKey)
	}

	page := view.Compute(ctrl.Articles(), "", false, env.bookmarks.Titles(), 1, 10)
	if page.Total != 2 {
		t.Fatalf("Expected 2 usable articles, got %d", page.Total)
	}

	if !env.bookmarks.Toggle(page.Items[0]) {
		t.Fatal("Toggle should add the bookmark")
	}
	env.close()
	env.open(t)

	if env.bookmarks.Len() != 1 {
		t.Fatalf("Expected bookmark to survive reopening, got %d", env.bookmarks.Len())
	}
	onlyMarked := view.Compute(ctrl.Articles(), "", true, env.bookmarks.Titles(), 1, 10)
	if onlyMarked.Total != 1 || onlyMarked.Items[0].Title != "Chip plant opens" {
		t.Errorf("Bookmarks-only view wrong: %+v", onlyMarked.Items)
	}

	results, err := env.searcher.Search("fab", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].Bookmark.Title != "Chip plant opens" {
		t.Errorf("Expected the saved article in search results, got %d", len(results))
	}
}

func TestIntegration_SearchRequest(t *testing.T) {
	var gotQuery, gotSort string
	env := setupTestEnvironment(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/everything" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.Query().Get("q")
		gotSort = r.URL.Query().Get("sortBy")
		fmt.Fprint(w, headlinesBody)
	})

	ctrl, err := env.fetch(t, "sports", "robots")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if gotQuery != "robots" || gotSort != "publishedAt" {
		t.Errorf("Unexpected search params q=%q sortBy=%q", gotQuery, gotSort)
	}
	committed, ok := ctrl.Committed()
	if !ok || committed.Mode != news.ModeSearch {
		t.Errorf("Expected a committed search request, got %+v", committed)
	}

	page := headlinePage(committed.Query, ctrl.Articles(), false, nil, 1, 10)
	if page.Total != 1 || page.Items[0].Title != "Robots learn to fold laundry" {
		t.Errorf("Expected only the article matching %q, got %+v", "robots", page.Items)
	}
}

func TestIntegration_StaleResponseIgnored(t *testing.T) {
	env := setupTestEnvironment(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, headlinesBody)
	})
	provider, err := news.NewProvider(env.cfg.API)
	if err != nil {
		t.Fatal(err)
	}

	ctrl, err := newController(env.cfg, "general", "", "latest")
	if err != nil {
		t.Fatal(err)
	}
	first := ctrl.Submit().(query.Fetch)
	second := ctrl.SetCategory(news.CategoryHealth).(query.Fetch)

	res, err := provider.Fetch(context.Background(), first.Request.Query)
	if err != nil {
		t.Fatal(err)
	}
	if ctrl.Complete(query.Response{Seq: first.Request.Seq, Result: res}) {
		t.Error("Response to a superseded request was accepted")
	}
	if len(ctrl.Articles()) != 0 {
		t.Error("Stale response changed the article list")
	}

	if err := fetchOnce(context.Background(), provider, ctrl, second); err != nil {
		t.Fatalf("Latest fetch failed: %v", err)
	}
	if len(ctrl.Articles()) != 3 {
		t.Errorf("Expected 3 articles, got %d", len(ctrl.Articles()))
	}
}

func TestIntegration_RateLimiting(t *testing.T) {
	env := setupTestEnvironment(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"status":"error","code":"rateLimited","message":"You have made too many requests"}`)
	})

	ctrl, err := env.fetch(t, "general", "")
	if err == nil {
		t.Fatal("Expected error for rate limited request, got nil")
	}
	if !strings.Contains(err.Error(), "retry in 1m0s") {
		t.Errorf("Expected retry hint, got %v", err)
	}
	if ctrl.Status() != query.StatusFailed {
		t.Errorf("Expected failed status, got %s", ctrl.Status())
	}
}

func TestIntegration_RSSProvider(t *testing.T) {
	var gotQuery string
	env := setupTestEnvironment(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, feedBody)
	})
	env.cfg.API.Provider = "rss"

	ctrl, err := env.fetch(t, "science", "")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if gotQuery != "science" {
		t.Errorf("Expected category as query, got %q", gotQuery)
	}

	articles := ctrl.Articles()
	if len(articles) != 2 {
		t.Fatalf("Expected 2 articles, got %d", len(articles))
	}
	if articles[0].Title != "Newer item" {
		t.Errorf("Expected newest first, got %q", articles[0].Title)
	}
	if !strings.HasSuffix(articles[0].ImageURL, "/image1.jpg") {
		t.Errorf("Expected enclosure image, got %q", articles[0].ImageURL)
	}
	if articles[0].Source != "Search results" {
		t.Errorf("Expected feed title as source, got %q", articles[0].Source)
	}
}
