package search

import "github.com/pders01/newshub/internal/bookmarks"

// Searcher is the bookmark search API used by the TUI and CLI.
type Searcher interface {
	Search(query string, limit int) ([]*Result, error)
}

// Source is the bookmark collection a searcher reads from.
type Source interface {
	List() []bookmarks.Bookmark
	Get(title string) (bookmarks.Bookmark, bool)
}

// Closer is implemented by engines holding on-disk resources.
type Closer interface {
	Close() error
}

// DebugStatser provides lightweight stats for visibility/debugging.
type DebugStatser interface {
	DocCount() (int, error)
}

// Result is one bookmark hit.
type Result struct {
	Bookmark bookmarks.Bookmark
	Score    float64
	Matches  []Match
}

// Match represents where text was found
type Match struct {
	Field  string // "title", "description", "content", "source", "author"
	Text   string
	Weight float64
}
