package news

import (
	"strings"
	"time"
)

// RemovedTitle is the placeholder NewsAPI puts in place of withdrawn articles.
const RemovedTitle = "[Removed]"

type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Content     string    `json:"content,omitempty"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"urlToImage,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	Source      string    `json:"source"`
	Author      string    `json:"author,omitempty"`
}

// Identity is the key articles are deduplicated and bookmarked by. The API
// gives no stable id, so two different stories with the same headline
// collide.
func Identity(a Article) string {
	return a.Title
}

// Removed reports whether the source withdrew the article.
func (a Article) Removed() bool {
	return strings.TrimSpace(a.Title) == RemovedTitle
}

// Usable reports whether the article has a title worth showing.
func (a Article) Usable() bool {
	return strings.TrimSpace(a.Title) != "" && !a.Removed()
}

// Result is one successful answer from a provider.
type Result struct {
	Articles  []Article `json:"articles"`
	Total     int       `json:"totalResults"`
	FetchedAt time.Time `json:"fetchedAt"`
}
