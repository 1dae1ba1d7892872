package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/newshub/internal/news"
)

// Canonical short status messages used across the app.
const (
	MsgLoading        = "Loading headlines…"
	MsgSearching      = "Searching…"
	MsgRefreshing     = "Refreshing…"
	MsgLoadingArticle = "Loading article…"
	MsgNoResults      = "No articles found"
	MsgNoSelection    = "Nothing selected"
	MsgNoBookmarks    = "No bookmarks to clear"
	MsgBookmarksClear = "Bookmarks cleared"
	MsgClearCanceled  = "Bookmarks kept"
	MsgNoImage        = "This article has no image"
	MsgOnlyInMoreMode = "Show more/less is available with pagination = \"more\""
)

// statusTTL is how long transient messages stay on screen.
const statusTTL = 4 * time.Second

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 article"
	}
	return fmt.Sprintf("%d articles", n)
}

func MsgBookmarked(title string, on bool) string {
	if on {
		return "Bookmarked: " + truncateEnd(title, 60)
	}
	return "Removed bookmark: " + truncateEnd(title, 60)
}

func MsgSorted(s news.Sort) string {
	return "Sort: " + string(s)
}

func MsgSnapshot(saved time.Time) string {
	return "Showing saved results from " + saved.Local().Format("Jan 2, 15:04")
}

// setStatus replaces the status line. A positive ttl schedules its removal
// unless a newer message has replaced it by then.
func (a *App) setStatus(text string, kind StatusKind, ttl time.Duration) tea.Cmd {
	a.statusID++
	a.status = text
	a.statusKind = kind
	if ttl <= 0 {
		return nil
	}
	id := a.statusID
	return tea.Tick(ttl, func(time.Time) tea.Msg { return clearStatusMsg{id: id} })
}

func (a *App) clearStatus(id int) {
	if id == a.statusID {
		a.status = ""
		a.statusKind = StatusInfo
	}
}
