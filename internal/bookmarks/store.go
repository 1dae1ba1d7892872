package bookmarks

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/pders01/newshub/internal/debuglog"
	"github.com/pders01/newshub/internal/news"
)

// StorageKey is the KV key holding the serialized bookmark list.
const StorageKey = "bookmarks"

// legacyKey is where older builds kept bookmarks.
const legacyKey = "geoNewsBookmarks"

// KV is the durable string store bookmarks persist into.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

type Bookmark struct {
	news.Article
	BookmarkedAt time.Time `json:"bookmarkedAt"`
}

// Confirmer approves a destructive action affecting count bookmarks.
type Confirmer func(count int) bool

// Listener is told about every mutation after it has been persisted.
type Listener interface {
	OnBookmarksChanged(added []Bookmark, removed []string)
}

// Store is an ordered set of bookmarked articles keyed by news.Identity.
// It is not safe for concurrent use; the TUI owns it from its update loop.
type Store struct {
	kv        KV
	items     []Bookmark
	index     map[string]int
	listeners []Listener
	now       func() time.Time
}

// Open rehydrates the store from kv. Missing or unreadable data yields an
// empty set; the problem is logged and never returned.
func Open(kv KV) *Store {
	s := &Store{kv: kv, index: make(map[string]int), now: time.Now}
	s.load()
	return s
}

func (s *Store) load() {
	raw, found, err := s.kv.Get(StorageKey)
	if err != nil {
		debuglog.Warnf("bookmarks: read failed, starting empty: %v", err)
		return
	}
	migrating := false
	if !found {
		raw, found, err = s.kv.Get(legacyKey)
		if err != nil || !found {
			return
		}
		debuglog.Infof("bookmarks: migrating from %s", legacyKey)
		migrating = true
	}

	var items []Bookmark
	if migrating {
		items, err = decodeLegacy(raw)
	} else {
		err = json.Unmarshal([]byte(raw), &items)
	}
	if err != nil {
		debuglog.Warnf("bookmarks: stored data is corrupt, starting empty: %v", err)
		return
	}

	for _, b := range items {
		id := news.Identity(b.Article)
		if strings.TrimSpace(id) == "" {
			continue
		}
		if _, dup := s.index[id]; dup {
			continue
		}
		s.index[id] = len(s.items)
		s.items = append(s.items, b)
	}
	if migrating && len(s.items) > 0 {
		s.persist()
	}
}

// legacyBookmark is an entry under legacyKey: the raw API article with
// bookmarkedAt added.
type legacyBookmark struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Author       *string   `json:"author"`
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	URL          string    `json:"url"`
	URLToImage   *string   `json:"urlToImage"`
	PublishedAt  string    `json:"publishedAt"`
	Content      *string   `json:"content"`
	BookmarkedAt time.Time `json:"bookmarkedAt"`
}

func decodeLegacy(raw string) ([]Bookmark, error) {
	var entries []legacyBookmark
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, err
	}
	out := make([]Bookmark, 0, len(entries))
	for _, e := range entries {
		published, _ := time.Parse(time.RFC3339, e.PublishedAt)
		out = append(out, Bookmark{
			Article: news.Article{
				Title:       strings.TrimSpace(deref(e.Title)),
				Description: deref(e.Description),
				Content:     deref(e.Content),
				URL:         e.URL,
				ImageURL:    deref(e.URLToImage),
				PublishedAt: published,
				Source:      e.Source.Name,
				Author:      deref(e.Author),
			},
			BookmarkedAt: e.BookmarkedAt,
		})
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (s *Store) persist() {
	data, err := json.Marshal(s.list())
	if err != nil {
		debuglog.Errorf("bookmarks: encode failed: %v", err)
		return
	}
	if err := s.kv.Set(StorageKey, string(data)); err != nil {
		debuglog.Errorf("bookmarks: persist failed, keeping in memory: %v", err)
	}
}

func (s *Store) reindex() {
	s.index = make(map[string]int, len(s.items))
	for i, b := range s.items {
		s.index[news.Identity(b.Article)] = i
	}
}

// AddListener registers l for change notifications.
func (s *Store) AddListener(l Listener) {
	s.listeners = append(s.listeners, l)
}

func (s *Store) notify(added []Bookmark, removed []string) {
	for _, l := range s.listeners {
		l.OnBookmarksChanged(added, removed)
	}
}

// Toggle adds a when its title is not bookmarked and removes the matching
// entry otherwise. It returns whether a is bookmarked afterwards.
func (s *Store) Toggle(a news.Article) bool {
	id := news.Identity(a)
	if _, ok := s.index[id]; ok {
		s.removeID(id)
		return false
	}
	if strings.TrimSpace(id) == "" {
		return false
	}

	b := Bookmark{Article: a, BookmarkedAt: s.now()}
	s.index[id] = len(s.items)
	s.items = append(s.items, b)
	s.persist()
	s.notify([]Bookmark{b}, nil)
	return true
}

// Remove deletes the bookmark with the given title.
func (s *Store) Remove(title string) bool {
	if _, ok := s.index[title]; !ok {
		return false
	}
	s.removeID(title)
	return true
}

func (s *Store) removeID(id string) {
	i := s.index[id]
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.reindex()
	s.persist()
	s.notify(nil, []string{id})
}

// ClearAll empties the set when confirm approves. A nil confirm or a
// declined confirmation leaves everything unchanged.
func (s *Store) ClearAll(confirm Confirmer) bool {
	if confirm == nil || !confirm(len(s.items)) {
		return false
	}
	removed := make([]string, 0, len(s.items))
	for _, b := range s.items {
		removed = append(removed, news.Identity(b.Article))
	}
	s.items = nil
	s.index = make(map[string]int)
	s.persist()
	s.notify(nil, removed)
	return true
}

func (s *Store) IsBookmarked(a news.Article) bool {
	return s.Has(news.Identity(a))
}

// Has reports whether a bookmark with the given title exists.
func (s *Store) Has(title string) bool {
	_, ok := s.index[title]
	return ok
}

// Get returns the bookmark with the given title.
func (s *Store) Get(title string) (Bookmark, bool) {
	i, ok := s.index[title]
	if !ok {
		return Bookmark{}, false
	}
	return s.items[i], true
}

// List returns bookmarks in insertion order. The slice is a copy.
func (s *Store) List() []Bookmark {
	return s.list()
}

func (s *Store) list() []Bookmark {
	out := make([]Bookmark, len(s.items))
	copy(out, s.items)
	return out
}

// Articles returns the bookmarked articles in insertion order.
func (s *Store) Articles() []news.Article {
	out := make([]news.Article, len(s.items))
	for i, b := range s.items {
		out[i] = b.Article
	}
	return out
}

// Titles is the membership set used by view filtering.
func (s *Store) Titles() map[string]bool {
	out := make(map[string]bool, len(s.index))
	for id := range s.index {
		out[id] = true
	}
	return out
}

func (s *Store) Len() int {
	return len(s.items)
}
