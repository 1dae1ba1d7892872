package view

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/microcosm-cc/bluemonday"
)

// DateUnknown is shown for articles without a publish time.
const DateUnknown = "Date Unknown"

var (
	charsMarker = regexp.MustCompile(`\s*\[\+\d+ chars\]`)
	tagPattern  = regexp.MustCompile(`<[^>]*>`)
	spaceRun    = regexp.MustCompile(`\s+`)

	stripPolicy = bluemonday.StrictPolicy()
	ugcPolicy   = bluemonday.UGCPolicy()
)

// CleanContent removes the API's "[+N chars]" truncation marker.
func CleanContent(s string) string {
	return strings.TrimSpace(charsMarker.ReplaceAllString(s, ""))
}

// PlainText strips markup and collapses whitespace, for card snippets.
func PlainText(s string) string {
	s = stripPolicy.Sanitize(s)
	s = tagPattern.ReplaceAllString(s, " ")
	s = strings.NewReplacer("&amp;", "&", "&#39;", "'", "&quot;", `"`, "&lt;", "<", "&gt;", ">", "&nbsp;", " ").Replace(s)
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// Truncate shortens s to at most limit runes, ending in an ellipsis when
// anything was cut.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	return strings.TrimRight(string(r[:limit-1]), " ") + "…"
}

// TruncateWords keeps the first n words, appending "..." when cut.
func TruncateWords(s string, n int) string {
	if n <= 0 {
		return ""
	}
	words := strings.Fields(s)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + "..."
}

// FormatDate renders t like "Jan 2, 2006", or DateUnknown for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return DateUnknown
	}
	return t.Local().Format("Jan 2, 2006")
}

// FormatDateTime is the long form used in the detail view.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return DateUnknown
	}
	return t.Local().Format("Monday, January 2, 2006 15:04")
}

// TimeAgo renders t relative to now. Anything a week or older falls back to
// FormatDate.
func TimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return DateUnknown
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return FormatDate(t)
	}
}

// ContentMarkdown converts article HTML into markdown suitable for glamour.
// Unsafe markup is removed first. On conversion failure the plain text is
// returned.
func ContentMarkdown(s string) string {
	s = CleanContent(s)
	if s == "" {
		return ""
	}
	safe := ugcPolicy.Sanitize(s)
	md, err := htmltomarkdown.ConvertString(safe)
	if err != nil {
		return PlainText(s)
	}
	return strings.TrimSpace(md)
}
