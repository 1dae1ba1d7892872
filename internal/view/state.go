package view

import "github.com/pders01/newshub/internal/news"

type Mode int

const (
	ModeGrid Mode = iota
	ModeList
)

func (m Mode) String() string {
	if m == ModeList {
		return "list"
	}
	return "grid"
}

func ParseMode(s string) Mode {
	if s == "list" {
		return ModeList
	}
	return ModeGrid
}

// Pagination selects between numbered pages and a growing window.
type Pagination int

const (
	PaginationPages Pagination = iota
	PaginationMore
)

func ParsePagination(s string) Pagination {
	if s == "more" {
		return PaginationMore
	}
	return PaginationPages
}

const (
	// InitialVisible is how many articles the show-more window starts with.
	InitialVisible = 10
	// MoreStep is how many articles each show-more adds or show-less removes.
	MoreStep = 6
)

// State is the session-scoped presentation state. Any filter change resets
// the position to the first page.
type State struct {
	Page          int
	Visible       int
	BookmarksOnly bool
	Mode          Mode
	Pagination    Pagination
	PageSize      int
	Text          string
}

func NewState(pageSize int, mode Mode, pagination Pagination) State {
	if pageSize < 1 {
		pageSize = 1
	}
	return State{
		Page:       1,
		Visible:    InitialVisible,
		Mode:       mode,
		Pagination: pagination,
		PageSize:   pageSize,
	}
}

func (s *State) reset() {
	s.Page = 1
	s.Visible = InitialVisible
}

// SetText changes the local filter text.
func (s *State) SetText(text string) {
	if text == s.Text {
		return
	}
	s.Text = text
	s.reset()
}

func (s *State) SetBookmarksOnly(on bool) {
	if on == s.BookmarksOnly {
		return
	}
	s.BookmarksOnly = on
	s.reset()
}

func (s *State) ToggleBookmarksOnly() {
	s.SetBookmarksOnly(!s.BookmarksOnly)
}

// ResultsChanged is called when a new article list arrives.
func (s *State) ResultsChanged() {
	s.reset()
}

func (s *State) ToggleMode() {
	if s.Mode == ModeGrid {
		s.Mode = ModeList
	} else {
		s.Mode = ModeGrid
	}
}

func (s *State) NextPage() { s.Page++ }

func (s *State) PrevPage() {
	if s.Page > 1 {
		s.Page--
	}
}

func (s *State) ShowMore() { s.Visible += MoreStep }

func (s *State) ShowLess() {
	s.Visible -= MoreStep
	if s.Visible < InitialVisible {
		s.Visible = InitialVisible
	}
}

// Visible is what the presentation layer renders for the current state.
type Visible struct {
	Items []news.Article
	// Page and TotalPages are meaningful in page mode; in show-more mode
	// they are 1 and 1.
	Page       int
	TotalPages int
	Total      int
	HasMore    bool
	CanLess    bool
}

// Apply computes the visible slice and writes the clamped position back.
func (s *State) Apply(articles []news.Article, marks map[string]bool) Visible {
	if s.Pagination == PaginationMore {
		filtered := Filter(articles, s.Text, s.BookmarksOnly, marks)
		items, more := Window(filtered, s.Visible)
		if s.Visible > len(filtered) && len(filtered) >= InitialVisible {
			s.Visible = len(filtered)
		}
		return Visible{
			Items:      items,
			Page:       1,
			TotalPages: 1,
			Total:      len(filtered),
			HasMore:    more,
			CanLess:    s.Visible > InitialVisible,
		}
	}

	p := Compute(articles, s.Text, s.BookmarksOnly, marks, s.Page, s.PageSize)
	s.Page = p.Page
	return Visible{
		Items:      p.Items,
		Page:       p.Page,
		TotalPages: p.TotalPages,
		Total:      p.Total,
		HasMore:    p.Page < p.TotalPages,
	}
}

// Window returns the first visible items and whether more remain.
func Window(items []news.Article, visible int) ([]news.Article, bool) {
	if visible < 0 {
		visible = 0
	}
	if visible >= len(items) {
		return items, false
	}
	return items[:visible], true
}
