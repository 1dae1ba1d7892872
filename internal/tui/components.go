package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/newshub/internal/news"
	"github.com/pders01/newshub/internal/query"
	"github.com/pders01/newshub/internal/view"
)

const (
	minCardWidth = 34
	cardHeight   = 8
	markGlyph    = "★"
)

// renderCentered centers content within the given box.
func renderCentered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func (a *App) gridColumns() int {
	return max(a.width/minCardWidth, 1)
}

// renderTopBar shows the logo, the category tabs, the sort order and the
// search box.
func (a *App) renderTopBar() string {
	s := a.styles
	st := a.ctrl.State()

	var tabs []string
	for i, c := range news.Categories {
		label := fmt.Sprintf("%d %s", i+1, c.Title())
		if c == st.Category {
			tabs = append(tabs, s.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, s.Tab.Render(label))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Center,
		s.Logo.Render(CompactLogo), " ",
		strings.Join(tabs, ""),
	)

	flags := []string{"sort: " + string(st.Sort), a.state.Mode.String()}
	if a.state.BookmarksOnly {
		flags = append(flags, s.Mark.Render(markGlyph+" saved only"))
	}
	if a.ctrl.Status() == query.StatusFetching {
		flags = append(flags, a.spinner.View())
	}

	input := a.searchInput.View()
	if !a.searchInput.Focused() && a.searchInput.Value() == "" {
		input = s.Muted.Render("/ search news")
	}
	second := lipgloss.JoinHorizontal(lipgloss.Top,
		truncateEnd(input, max(a.width/2, 10)),
		"  ",
		s.Muted.Render(strings.Join(flags, " • ")),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		truncateEnd(row, a.width),
		truncateEnd(second, a.width),
	)
}

func (a *App) renderHeadlines(height int) string {
	s := a.styles
	items := a.visible.Items

	if len(items) == 0 {
		switch {
		case a.ctrl.Status() == query.StatusFetching:
			return renderCentered(a.width, height, a.spinner.View()+" "+s.Muted.Render(MsgLoading))
		case a.ctrl.Status() == query.StatusFailed:
			return renderCentered(a.width, height, s.StatusError.Render("✗ "+errorLine(a.ctrl.Err()))+"\n\n"+s.Help.Render("Press r to retry"))
		case a.state.BookmarksOnly:
			return renderCentered(a.width, height, s.Muted.Render("No bookmarked articles in these results"))
		case a.ctrl.Status() == query.StatusIdle:
			return renderCentered(a.width, height, s.GetCompactBanner("Fetching the latest headlines"))
		default:
			return renderCentered(a.width, height, s.Muted.Render(MsgNoResults))
		}
	}

	if a.state.Mode == view.ModeList {
		return a.renderList(items, height)
	}
	return a.renderGrid(items, height)
}

func (a *App) renderGrid(items []news.Article, height int) string {
	cols := a.gridColumns()
	width := a.width/cols - 1

	var rows []string
	for start := 0; start < len(items); start += cols {
		end := min(start+cols, len(items))
		var cards []string
		for i := start; i < end; i++ {
			cards = append(cards, a.renderCard(items[i], width, i == a.cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	fit := max(height/cardHeight, 1)
	first := 0
	if row := a.cursor / cols; row >= fit {
		first = row - fit + 1
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows[first:]...)
}

func (a *App) renderCard(art news.Article, width int, selected bool) string {
	s := a.styles
	inner := max(width-4, 10)

	title := singleLine(art.Title)
	if a.marks.IsBookmarked(art) {
		title = s.Mark.Render(markGlyph) + " " + title
	}
	desc := view.TruncateWords(view.PlainText(art.Description), a.config.UI.DescriptionWords)

	body := lipgloss.JoinVertical(lipgloss.Left,
		s.CardTitle.Width(inner).MaxHeight(2).Render(title),
		s.Meta.Render(truncateEnd(a.metaLine(art), inner)),
		s.Description.Width(inner).MaxHeight(3).Render(desc),
	)

	style := s.Card
	if selected {
		style = s.SelectedCard
	}
	return style.Width(width - 2).Height(cardHeight - 2).Render(body)
}

func (a *App) renderList(items []news.Article, height int) string {
	s := a.styles
	first := 0
	if a.cursor >= height {
		first = a.cursor - height + 1
	}

	var lines []string
	for i := first; i < len(items) && len(lines) < height; i++ {
		art := items[i]
		mark := "  "
		if a.marks.IsBookmarked(art) {
			mark = s.Mark.Render(markGlyph) + " "
		}
		meta := " — " + a.metaLine(art)
		title := truncateEnd(singleLine(art.Title), max(a.width-lipgloss.Width(meta)-4, 10))
		line := title + s.Meta.Render(meta)
		if i == a.cursor {
			line = s.Selected.Render(title) + s.Meta.Render(meta)
		}
		lines = append(lines, mark+line)
	}
	return strings.Join(lines, "\n")
}

func (a *App) metaLine(art news.Article) string {
	parts := []string{}
	if art.Source != "" {
		parts = append(parts, art.Source)
	}
	parts = append(parts, view.TimeAgo(art.PublishedAt, a.now()))
	return strings.Join(parts, " • ")
}

func (a *App) renderClearConfirm(height int) string {
	s := a.styles
	modalWidth := max(min(a.width*4/5, 60), 20)

	return renderCentered(a.width, height, lipgloss.JoinVertical(lipgloss.Center,
		s.StatusError.Render("⚠ Clear Bookmarks"),
		"",
		lipgloss.NewStyle().
			Foreground(s.Palette.Text).
			Width(modalWidth).
			Align(lipgloss.Center).
			Render(fmt.Sprintf("Remove all %d saved articles?", a.marks.Len())),
		"",
		s.Muted.Width(modalWidth).Align(lipgloss.Center).Render("This cannot be undone."),
		"",
		s.Help.Render("y/enter: confirm • n/esc: cancel"),
	))
}

func (a *App) renderFind(height int) string {
	s := a.styles
	header := s.Header.Render(fmt.Sprintf("› saved articles (%d)", a.marks.Len()))

	borderColor := s.Palette.Muted
	if a.findInput.Focused() {
		borderColor = s.Palette.Accent
	}
	input := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(max(a.width-4, 10)).
		Render(a.findInput.View())

	var rows []string
	switch {
	case sanitizeSearchInput(a.findInput.Value()) == "":
		rows = append(rows, s.Muted.Render("Type to search titles, descriptions and sources of your bookmarks"))
	case len(a.findResults) == 0:
		rows = append(rows, s.Muted.Render("No matching bookmarks"))
	}
	listHeight := max(height-6, 1)
	for i, r := range a.findResults {
		if len(rows) >= listHeight {
			break
		}
		title := truncateEnd(singleLine(r.Bookmark.Title), max(a.width-20, 10))
		if i == a.findCursor && !a.findInput.Focused() {
			title = s.Selected.Render(title)
		}
		snippet := ""
		if len(r.Matches) > 0 {
			snippet = " — " + truncateEnd(singleLine(r.Matches[0].Text), max(a.width/3, 10))
		}
		rows = append(rows, title+s.Meta.Render(snippet))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, input, strings.Join(rows, "\n"))
}

// renderStatusBar shows the status message or the pagination summary,
// followed by the key help.
func (a *App) renderStatusBar() string {
	s := a.styles

	left := ""
	if a.status != "" {
		prefix := ""
		if a.statusKind == StatusError {
			prefix = "✗ "
		}
		left = s.status(a.statusKind).Render(prefix + a.status)
	} else if a.view == ViewHeadlines {
		left = s.Muted.Render(a.pagerSummary())
	}

	helpLine := a.help.ShortHelpView(a.keyHandler.GetHelpForCurrentView())
	line := left
	if left != "" {
		line += s.Muted.Render("  │  ")
	}
	line += helpLine
	return lipgloss.NewStyle().Padding(0, 1).Render(truncateEnd(line, max(a.width-2, 0)))
}

func (a *App) pagerSummary() string {
	v := a.visible
	if v.Total == 0 {
		return ""
	}
	if a.showMoreMode() {
		summary := fmt.Sprintf("Showing %d of %d", len(v.Items), v.Total)
		if v.HasMore {
			summary += " (+ more)"
		}
		return summary
	}
	return fmt.Sprintf("Page %d/%d • %d articles", v.Page, v.TotalPages, v.Total)
}
