// Package view turns a fetched article list into the slice the user sees.
package view

import (
	"strings"

	"github.com/pders01/newshub/internal/news"
)

// Page is one computed page of filtered articles.
type Page struct {
	Items      []news.Article
	Page       int
	TotalPages int
	// Total is the number of articles that survived filtering.
	Total int
}

// Filter drops unusable articles, then applies the text and bookmark
// filters. Order is preserved. marks may be nil when bookmarksOnly is false.
func Filter(articles []news.Article, text string, bookmarksOnly bool, marks map[string]bool) []news.Article {
	needle := strings.ToLower(strings.TrimSpace(text))
	out := make([]news.Article, 0, len(articles))
	for _, a := range articles {
		if !a.Usable() {
			continue
		}
		if needle != "" && !Matches(a, needle) {
			continue
		}
		if bookmarksOnly && !marks[news.Identity(a)] {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Matches reports whether the lowercase needle occurs in any searchable
// field of a.
func Matches(a news.Article, needle string) bool {
	for _, field := range []string{a.Title, a.Description, a.Content, a.Source, a.Author} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// TotalPages is ceil(count/pageSize), at least 1.
func TotalPages(count, pageSize int) int {
	if pageSize < 1 {
		pageSize = 1
	}
	if count <= 0 {
		return 1
	}
	return (count + pageSize - 1) / pageSize
}

// ClampPage forces page into [1, totalPages].
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Compute filters articles and returns the requested page, clamped.
func Compute(articles []news.Article, text string, bookmarksOnly bool, marks map[string]bool, page, pageSize int) Page {
	if pageSize < 1 {
		pageSize = 1
	}
	filtered := Filter(articles, text, bookmarksOnly, marks)
	total := TotalPages(len(filtered), pageSize)
	page = ClampPage(page, total)

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}

	return Page{
		Items:      filtered[start:end],
		Page:       page,
		TotalPages: total,
		Total:      len(filtered),
	}
}
