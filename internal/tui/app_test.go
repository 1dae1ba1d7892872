package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/newshub/internal/bookmarks"
	"github.com/pders01/newshub/internal/config"
	"github.com/pders01/newshub/internal/news"
	"github.com/pders01/newshub/internal/prefs"
	"github.com/pders01/newshub/internal/query"
	"github.com/pders01/newshub/internal/storage"
)

type fakeProvider struct{}

func (fakeProvider) Name() string { return "fake" }

func (fakeProvider) Fetch(context.Context, news.Query) (*news.Result, error) {
	return &news.Result{}, nil
}

type fakeSnapshots struct {
	snap  *storage.Snapshot
	saved []*storage.Snapshot
}

func (f *fakeSnapshots) SaveSnapshot(s *storage.Snapshot) error {
	f.saved = append(f.saved, s)
	return nil
}

func (f *fakeSnapshots) LoadSnapshot() (*storage.Snapshot, error) {
	if f.snap == nil {
		return nil, storage.ErrNoSnapshot
	}
	return f.snap, nil
}

type testEnv struct {
	app   *App
	kv    *storage.Memory
	snaps *fakeSnapshots
}

func newTestEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()
	prev := prefs.SystemDark
	prefs.SystemDark = func() bool { return true }
	t.Cleanup(func() { prefs.SystemDark = prev })

	cfg := config.TestConfig()
	for _, m := range mutate {
		m(cfg)
	}

	kv := storage.NewMemory()
	snaps := &fakeSnapshots{}
	app := NewApp(Deps{
		Config:    cfg,
		Provider:  fakeProvider{},
		Bookmarks: bookmarks.Open(kv),
		Theme:     prefs.LoadTheme(kv),
		Snapshots: snaps,
	})
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return &testEnv{app: app, kv: kv, snaps: snaps}
}

func articles(n int) []news.Article {
	out := make([]news.Article, n)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := range out {
		out[i] = news.Article{
			Title:       fmt.Sprintf("Story %02d", i+1),
			Description: "Something happened somewhere",
			URL:         fmt.Sprintf("https://news.example.com/%d", i+1),
			Source:      "Example Times",
			PublishedAt: base.Add(-time.Duration(i) * time.Hour),
		}
	}
	return out
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func (e *testEnv) press(msgs ...tea.Msg) {
	for _, m := range msgs {
		e.app.Update(m)
	}
}

func (e *testEnv) typeText(s string) {
	for _, r := range s {
		e.press(keyRunes(string(r)))
	}
}

// deliver completes the latest request with arts.
func (e *testEnv) deliver(arts []news.Article) {
	e.press(fetchResultMsg{resp: query.Response{
		Seq:    e.app.ctrl.LastIssued(),
		Result: &news.Result{Articles: arts, Total: len(arts)},
	}})
}

func (e *testEnv) deliverAfterRefresh(arts []news.Article) {
	e.press(keyRunes("r"))
	e.deliver(arts)
}

func (e *testEnv) start(arts []news.Article) {
	e.app.Init()
	e.deliver(arts)
}

func TestInitFetchesDefaultCategory(t *testing.T) {
	env := newTestEnv(t)
	env.app.Init()

	assert.Equal(t, uint64(1), env.app.ctrl.LastIssued())
	assert.Equal(t, query.StatusFetching, env.app.ctrl.Status())
	assert.Equal(t, news.CategoryGeneral, env.app.ctrl.State().Category)
}

func TestFetchResultFillsView(t *testing.T) {
	env := newTestEnv(t)
	env.start(articles(3))

	assert.Len(t, env.app.visible.Items, 3)
	assert.Equal(t, "3 articles", env.app.status)
	assert.Equal(t, StatusSuccess, env.app.statusKind)
}

func TestStaleResultIsIgnored(t *testing.T) {
	env := newTestEnv(t)
	env.app.Init()
	env.press(keyRunes("2"))
	require.Equal(t, uint64(2), env.app.ctrl.LastIssued())
	assert.Equal(t, news.CategoryBusiness, env.app.ctrl.State().Category)

	env.press(fetchResultMsg{resp: query.Response{Seq: 1, Result: &news.Result{Articles: articles(5)}}})
	assert.Empty(t, env.app.visible.Items)

	env.deliver(articles(2))
	assert.Len(t, env.app.visible.Items, 2)
}

func TestSearchTypingIsDebouncedAndEnterSubmits(t *testing.T) {
	env := newTestEnv(t)
	env.start(articles(3))

	env.press(keyRunes("/"))
	require.True(t, env.app.searchInput.Focused())
	env.typeText("eq")

	assert.Equal(t, "eq", env.app.ctrl.State().Text)
	assert.True(t, env.app.ctrl.Pending())
	assert.Equal(t, uint64(1), env.app.ctrl.LastIssued())

	env.press(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, env.app.searchInput.Focused())
	assert.False(t, env.app.ctrl.Pending())
	assert.Equal(t, uint64(2), env.app.ctrl.LastIssued())
	assert.Equal(t, news.ModeSearch, env.app.ctrl.CurrentRequest().Mode)
}

func TestLettersGoToSearchInputNotShortcuts(t *testing.T) {
	env := newTestEnv(t)
	env.start(articles(3))

	env.press(tea.KeyMsg{Type: tea.KeyCtrlF})
	env.typeText("bqd")

	assert.Equal(t, "bqd", env.app.searchInput.Value())
	assert.Equal(t, 0, env.app.marks.Len())
	assert.False(t, env.app.ctrl.Closed())
}

func TestCategoryWhileSearchingOnlyRemembers(t *testing.T) {
	env := newTestEnv(t)
	env.start(articles(3))

	env.press(keyRunes("/"))
	env.typeText("quake")
	env.press(tea.KeyMsg{Type: tea.KeyEnter})
	issued := env.app.ctrl.LastIssued()

	env.press(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, issued, env.app.ctrl.LastIssued())
	assert.Equal(t, news.CategoryBusiness, env.app.ctrl.State().Category)
}

func TestClearingSearchFetchesCategory(t *testing.T) {
	env := newTestEnv(t)
	env.start(articles(3))

	env.press(keyRunes("/"))
	env.typeText("ai")
	env.press(tea.KeyMsg{Type: tea.KeyEnter})
	issued := env.app.ctrl.LastIssued()

	env.press(keyRunes("/"))
	env.press(tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, issued+1, env.app.ctrl.LastIssued())
	assert.Equal(t, news.ModeCategory, env.app.ctrl.CurrentRequest().Mode)
}

func TestCategoryCycling(t *testing.T) {
	env := newTestEnv(t)
	env.start(articles(1))

	env.press(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, news.CategoryEntertainment, env.app.ctrl.State().Category)
	env.press(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, news.CategoryGeneral, env.app.ctrl.State().Category)
	env.press(keyRunes("7"))
	assert.Equal(t, news.CategoryEntertainment, env.app.ctrl.State().Category)
}

func TestSortKeyRefetches(t *testing.T) {
	env := newTestEnv(t)
	env.start(articles(1))

	env.press(keyRunes("s"))
	assert.Equal(t, news.SortRelevancy, env.app.ctrl.State().Sort)
	assert.Equal(t, uint64(2), env.app.ctrl.LastIssued())
}

func TestBookmarkAndBookmarksOnly(t *testing.T) {
	env := newTestEnv(t)
	env.start(articles(5))

	env.press(tea.KeyMsg{Type: tea.KeyDown})
	env.press(keyRunes("b"))
	require.Equal(t, 1, env.app.marks.Len())
	raw, ok, _ := env.kv.Get(bookmarks.StorageKey)
	require.True(t, ok)
	assert.Contains(t, raw, "Story")

	env.press(keyRunes("B"))
	require.Len(t, env.app.visible.Items, 1)
	bookmarked := env.app.visible.Items[0].Title

	env.press(keyRunes("b"))
	assert.Empty(t, env.app.visible.Items, "unbookmarking in saved-only mode hides the card")
	assert.NotEmpty(t, bookmarked)

	env.press(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, env.app.state.BookmarksOnly)
	assert.Len(t, env.app.visible.Items, 5)
}

func TestClearBookmarksNeedsConfirmation(t *testing.T) {
	env := newTestEnv(t)
	env.start(articles(3))

	env.press(keyRunes("X"))
	assert.Equal(t, ViewHeadlines, env.app.view, "nothing to clear")

	env.press(keyRunes("b"), keyRunes("X"))
	require.Equal(t, ViewClearConfirm, env.app.view)
	env.press(keyRunes("n"))
	assert.Equal(t, ViewHeadlines, env.app.view)
	assert.Equal(t, 1, env.app.marks.Len())

	env.press(keyRunes("X"), keyRunes("q"))
	assert.Equal(t, 1, env.app.marks.Len(), "q cancels the dialog instead of quitting")
	assert.False(t, env.app.ctrl.Closed())

	env.press(keyRunes("X"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewHeadlines, env.app.view)
	assert.Equal(t, 1, env.app.marks.Len(), "esc leaves the bookmarks alone")
	assert.Equal(t, MsgClearCanceled, env.app.status)

	env.press(keyRunes("X"), keyRunes("y"))
	assert.Equal(t, ViewHeadlines, env.app.view)
	assert.Equal(t, 0, env.app.marks.Len())
}

func TestPagination(t *testing.T) {
	env := newTestEnv(t)
	env.start(articles(30))

	assert.Equal(t, 1, env.app.visible.Page)
	assert.Equal(t, 3, env.app.visible.TotalPages)
	assert.Len(t, env.app.visible.Items, 12)

	env.press(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 2, env.app.visible.Page)
	env.press(tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 3, env.app.visible.Page)
	assert.Len(t, env.app.visible.Items, 6)
	env.press(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 2, env.app.visible.Page)

	env.deliverAfterRefresh(articles(30))
	assert.Equal(t, 1, env.app.visible.Page, "new results reset to the first page")
}

func TestShowMoreMode(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.UI.Pagination = "more" })
	env.start(articles(20))

	assert.Len(t, env.app.visible.Items, 10)
	assert.True(t, env.app.visible.HasMore)

	env.press(keyRunes("+"))
	assert.Len(t, env.app.visible.Items, 16)
	env.press(keyRunes("+"))
	assert.Len(t, env.app.visible.Items, 20)
	assert.False(t, env.app.visible.HasMore)

	env.press(keyRunes("-"), keyRunes("-"), keyRunes("-"))
	assert.Len(t, env.app.visible.Items, 10)
}

func TestShowMoreKeysInPagesMode(t *testing.T) {
	env := newTestEnv(t)
	env.start(articles(20))

	env.press(keyRunes("+"))
	assert.Equal(t, MsgOnlyInMoreMode, env.app.status)
	assert.Len(t, env.app.visible.Items, 12)
}

func TestViewModeAndCursor(t *testing.T) {
	env := newTestEnv(t)
	env.start(articles(8))

	cols := env.app.gridColumns()
	require.Greater(t, cols, 1)
	env.press(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, cols, env.app.cursor)

	env.press(keyRunes("v"))
	assert.Equal(t, "list", env.app.state.Mode.String())
	env.press(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, cols+1, env.app.cursor)
	env.press(keyRunes("k"))
	assert.Equal(t, cols, env.app.cursor)
}

func TestDarkModeTogglePersists(t *testing.T) {
	env := newTestEnv(t)
	require.True(t, env.app.theme.Dark())

	env.press(keyRunes("d"))
	assert.False(t, env.app.theme.Dark())
	raw, ok, _ := env.kv.Get(prefs.DarkModeKey)
	require.True(t, ok)
	assert.Equal(t, "false", raw)
	assert.Equal(t, LightPalette().Background, env.app.styles.Palette.Background)
}

func TestReaderOpensAndReturns(t *testing.T) {
	env := newTestEnv(t)
	env.start(articles(3))

	env.press(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ViewReader, env.app.view)
	require.NotNil(t, env.app.current)
	assert.Equal(t, "Story 01", env.app.current.Title)
	assert.True(t, env.app.loadingArticle)

	env.press(articleRenderedMsg{title: "Story 01", content: "rendered body"})
	assert.False(t, env.app.loadingArticle)
	assert.Contains(t, env.app.viewport.View(), "rendered body")

	env.press(keyRunes("b"))
	assert.Equal(t, 1, env.app.marks.Len())

	env.press(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewHeadlines, env.app.view)
	assert.Nil(t, env.app.current)
}

func TestFailureKeepsArticlesAndRetries(t *testing.T) {
	env := newTestEnv(t)
	env.start(articles(4))

	env.press(keyRunes("r"))
	env.press(fetchResultMsg{resp: query.Response{
		Seq: env.app.ctrl.LastIssued(),
		Err: &news.NetworkError{Err: errors.New("connection refused")},
	}})

	assert.Equal(t, query.StatusFailed, env.app.ctrl.Status())
	assert.Equal(t, StatusError, env.app.statusKind)
	assert.True(t, strings.HasPrefix(env.app.status, "Network error"))
	assert.Len(t, env.app.visible.Items, 4)

	env.press(keyRunes("r"))
	assert.Equal(t, query.StatusFetching, env.app.ctrl.Status())
}

func TestFindModeEntersAndLeaves(t *testing.T) {
	env := newTestEnv(t)
	env.start(articles(3))
	env.press(keyRunes("b"))

	env.press(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.Equal(t, ViewFind, env.app.view)
	assert.True(t, env.app.findInput.Focused())

	env.press(findResultsMsg{query: "story", results: nil})
	env.typeText("story")
	assert.Equal(t, "story", env.app.findInput.Value())

	env.press(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewHeadlines, env.app.view)
	assert.Empty(t, env.app.findInput.Value())
}

func TestSnapshotSeedsMatchingStartupQuery(t *testing.T) {
	prev := prefs.SystemDark
	prefs.SystemDark = func() bool { return true }
	t.Cleanup(func() { prefs.SystemDark = prev })

	cfg := config.TestConfig()
	kv := storage.NewMemory()
	probe := query.New(query.Options{PageSize: cfg.API.PageSize, Language: cfg.API.Language})
	snaps := &fakeSnapshots{snap: &storage.Snapshot{
		Key:     probe.CurrentRequest().Key(),
		Result:  news.Result{Articles: articles(2), Total: 2},
		SavedAt: time.Now(),
	}}

	app := NewApp(Deps{
		Config:    cfg,
		Provider:  fakeProvider{},
		Bookmarks: bookmarks.Open(kv),
		Theme:     prefs.LoadTheme(kv),
		Snapshots: snaps,
	})
	assert.True(t, app.seeded)
	assert.Len(t, app.visible.Items, 2)

	snaps.snap.Key = "search:other:latest"
	app = NewApp(Deps{
		Config:    cfg,
		Provider:  fakeProvider{},
		Bookmarks: bookmarks.Open(kv),
		Theme:     prefs.LoadTheme(kv),
		Snapshots: snaps,
	})
	assert.False(t, app.seeded)
	assert.Empty(t, app.visible.Items)
}

func TestSaveSnapshotCommand(t *testing.T) {
	env := newTestEnv(t)
	env.start(articles(2))

	req, ok := env.app.ctrl.Committed()
	require.True(t, ok)
	cmd := env.app.saveSnapshot(req, &news.Result{Articles: articles(2), Total: 2})
	require.NotNil(t, cmd)
	cmd()
	require.Len(t, env.snaps.saved, 1)
	assert.Equal(t, "category:general:latest", env.snaps.saved[0].Key)
}

func TestQuitClosesController(t *testing.T) {
	env := newTestEnv(t)
	env.app.Init()

	_, cmd := env.app.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.True(t, env.app.ctrl.Closed())
	assert.Error(t, env.app.ctx.Err())
}

func TestArticleMarkdown(t *testing.T) {
	now := time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)
	art := news.Article{
		Title:       "Quake hits coast",
		Content:     "<p>Buildings <b>shook</b> for a minute.</p> [+1200 chars]",
		URL:         "https://news.example.com/quake",
		ImageURL:    "https://cdn.example.com/quake.jpg",
		Source:      "Example Times",
		Author:      "A. Writer",
		PublishedAt: now.Add(-3 * time.Hour),
	}

	md := articleMarkdown(art, now)
	assert.Contains(t, md, "# Quake hits coast")
	assert.Contains(t, md, "Example Times • by A. Writer")
	assert.Contains(t, md, "(3h ago)")
	assert.Contains(t, md, "**shook**")
	assert.NotContains(t, md, "[+1200 chars]")
	assert.Contains(t, md, "[Read the full article](https://news.example.com/quake)")

	bare := articleMarkdown(news.Article{Title: "Only a title"}, now)
	assert.Contains(t, bare, "Date Unknown")
	assert.Contains(t, bare, "_No preview available._")
}

func TestViewRendersEveryScreen(t *testing.T) {
	env := newTestEnv(t)
	env.start(articles(5))

	env.press(clearStatusMsg{id: env.app.statusID})
	out := env.app.View()
	assert.Contains(t, out, "Story 01")
	assert.Contains(t, out, "Page 1/1")

	env.press(keyRunes("v"))
	assert.Contains(t, env.app.View(), "Example Times")

	env.press(keyRunes("b"), keyRunes("X"))
	assert.Contains(t, env.app.View(), "Remove all 1 saved articles?")
	env.press(tea.KeyMsg{Type: tea.KeyEsc})

	env.press(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Contains(t, env.app.View(), "saved articles (1)")
}
