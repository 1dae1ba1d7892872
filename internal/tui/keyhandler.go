package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/newshub/internal/news"
	"github.com/pders01/newshub/internal/search"
)

// maxQueryLength bounds what is sent upstream as a search query.
const maxQueryLength = 256

type KeyHandler struct {
	app  *App
	keys KeyMap
}

func NewKeyHandler(app *App, keys KeyMap) *KeyHandler {
	return &KeyHandler{app: app, keys: keys}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return kh.app, kh.app.quit()
	}

	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(msg); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	switch kh.app.view {
	case ViewHeadlines:
		return kh.app.searchInput.Focused()
	case ViewFind:
		return kh.app.findInput.Focused()
	default:
		return false
	}
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if kh.app.view == ViewFind {
			return kh.navigateBack()
		}
		kh.app.searchInput.Blur()
		return kh.app, nil
	case "enter":
		return kh.handleTextInputEnter()
	case "tab", "down":
		if kh.app.view == ViewFind && len(kh.app.findResults) > 0 {
			kh.app.findInput.Blur()
			kh.app.findCursor = 0
			return kh.app, nil
		}
		if kh.app.view == ViewHeadlines {
			kh.app.searchInput.Blur()
			return kh.app, nil
		}
	}
	return kh.delegateToTextInput(msg)
}

func (kh *KeyHandler) handleTextInputEnter() (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewHeadlines:
		kh.app.searchInput.Blur()
		return kh.app, kh.app.run(kh.app.ctrl.Submit())
	case ViewFind:
		if len(kh.app.findResults) > 0 {
			return kh.app, kh.app.openReader(kh.app.findResults[0].Bookmark.Article, ViewFind)
		}
		return kh.app, nil
	default:
		return kh.app, nil
	}
}

// delegateToTextInput passes the key to the focused input and reacts to the
// value changing.
func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewHeadlines:
		newSearchInput, cmd := kh.app.searchInput.Update(msg)
		kh.app.searchInput = newSearchInput

		text := sanitizeSearchInput(kh.app.searchInput.Value())
		kh.app.state.SetText(text)
		return kh.app, tea.Batch(cmd, kh.app.run(kh.app.ctrl.SetQuery(text)))

	case ViewFind:
		prev := kh.app.findInput.Value()
		newFindInput, cmd := kh.app.findInput.Update(msg)
		kh.app.findInput = newFindInput

		q := sanitizeSearchInput(kh.app.findInput.Value())
		if q != sanitizeSearchInput(prev) {
			return kh.app, tea.Batch(cmd, kh.app.findBookmarks(q))
		}
		return kh.app, cmd

	default:
		return kh.app, nil
	}
}

// handleCustomKeys handles action keys outside text input.
func (kh *KeyHandler) handleCustomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, kh.keys.Quit) && kh.app.view != ViewClearConfirm:
		return kh.app, kh.app.quit(), true
	case key.Matches(msg, kh.keys.Back):
		model, cmd := kh.navigateBack()
		return model, cmd, true
	case key.Matches(msg, kh.keys.FindBookmark) && kh.app.view != ViewFind:
		model, cmd := kh.enterFindMode()
		return model, cmd, true
	case key.Matches(msg, kh.keys.DarkMode):
		return kh.app, kh.app.toggleTheme(), true
	}

	switch kh.app.view {
	case ViewHeadlines:
		return kh.handleHeadlinesKeys(msg)
	case ViewReader:
		return kh.handleReaderKeys(msg)
	case ViewClearConfirm:
		return kh.handleClearConfirmKeys(msg)
	case ViewFind:
		return kh.handleFindKeys(msg)
	default:
		return kh.app, nil, false
	}
}

func (kh *KeyHandler) handleHeadlinesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	a := kh.app

	if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(news.Categories) {
		return a, a.run(a.ctrl.SetCategory(news.Categories[n-1])), true
	}

	switch {
	case key.Matches(msg, kh.keys.Search):
		a.searchInput.Focus()
		a.searchInput.CursorEnd()
		return a, nil, true
	case key.Matches(msg, kh.keys.NextCategory):
		return a, a.run(a.ctrl.SetCategory(a.shiftCategory(1))), true
	case key.Matches(msg, kh.keys.PrevCategory):
		return a, a.run(a.ctrl.SetCategory(a.shiftCategory(-1))), true
	case key.Matches(msg, kh.keys.Sort):
		next := a.ctrl.State().Sort.Next()
		return a, tea.Batch(a.run(a.ctrl.SetSort(next)), a.setStatus(MsgSorted(next), StatusInfo, statusTTL)), true
	case key.Matches(msg, kh.keys.Refresh):
		return a, tea.Batch(a.run(a.ctrl.Refresh()), a.setStatus(MsgRefreshing, StatusInfo, 0)), true
	case key.Matches(msg, kh.keys.Bookmark):
		if art, ok := a.selected(); ok {
			return a, a.toggleBookmark(art), true
		}
		return a, a.setStatus(MsgNoSelection, StatusWarn, statusTTL), true
	case key.Matches(msg, kh.keys.BookmarksOnly):
		a.state.ToggleBookmarksOnly()
		a.cursor = 0
		return a, nil, true
	case key.Matches(msg, kh.keys.ClearMarks):
		if a.marks.Len() == 0 {
			return a, a.setStatus(MsgNoBookmarks, StatusInfo, statusTTL), true
		}
		a.view = ViewClearConfirm
		return a, nil, true
	case key.Matches(msg, kh.keys.NextPage):
		a.state.NextPage()
		a.cursor = 0
		return a, nil, true
	case key.Matches(msg, kh.keys.PrevPage):
		a.state.PrevPage()
		a.cursor = 0
		return a, nil, true
	case key.Matches(msg, kh.keys.More):
		if !a.showMoreMode() {
			return a, a.setStatus(MsgOnlyInMoreMode, StatusInfo, statusTTL), true
		}
		a.state.ShowMore()
		return a, nil, true
	case key.Matches(msg, kh.keys.Less):
		if !a.showMoreMode() {
			return a, a.setStatus(MsgOnlyInMoreMode, StatusInfo, statusTTL), true
		}
		a.state.ShowLess()
		return a, nil, true
	case key.Matches(msg, kh.keys.ViewMode):
		a.state.ToggleMode()
		return a, nil, true
	case key.Matches(msg, kh.keys.Up):
		a.moveCursor(-1)
		return a, nil, true
	case key.Matches(msg, kh.keys.Down):
		a.moveCursor(1)
		return a, nil, true
	case key.Matches(msg, kh.keys.Submit):
		if art, ok := a.selected(); ok {
			return a, a.openReader(art, ViewHeadlines), true
		}
		return a, nil, true
	case key.Matches(msg, kh.keys.Open):
		if art, ok := a.selected(); ok {
			return a, a.openLink(art.URL), true
		}
		return a, nil, true
	case key.Matches(msg, kh.keys.OpenImage):
		if art, ok := a.selected(); ok {
			return a, a.openImage(art.ImageURL), true
		}
		return a, nil, true
	case key.Matches(msg, kh.keys.Share):
		if art, ok := a.selected(); ok {
			return a, a.shareArticle(art), true
		}
		return a, nil, true
	}
	return a, nil, false
}

func (kh *KeyHandler) handleReaderKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	if a.current == nil {
		return a, nil, false
	}
	art := *a.current

	switch {
	case key.Matches(msg, kh.keys.Open):
		return a, a.openLink(art.URL), true
	case key.Matches(msg, kh.keys.OpenImage):
		return a, a.openImage(art.ImageURL), true
	case key.Matches(msg, kh.keys.Share):
		return a, a.shareArticle(art), true
	case key.Matches(msg, kh.keys.Bookmark):
		return a, a.toggleBookmark(art), true
	}
	return a, nil, false
}

func (kh *KeyHandler) handleClearConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	switch {
	case key.Matches(msg, kh.keys.Confirm):
		a.view = ViewHeadlines
		if a.marks.ClearAll(func(int) bool { return true }) {
			a.cursor = 0
			return a, a.setStatus(MsgBookmarksClear, StatusSuccess, statusTTL), true
		}
		return a, nil, true
	case msg.String() == "n" || msg.String() == "q":
		a.view = ViewHeadlines
		return a, a.setStatus(MsgClearCanceled, StatusInfo, statusTTL), true
	}
	// Swallow everything else so nothing leaks through the dialog.
	return a, nil, true
}

func (kh *KeyHandler) handleFindKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	switch {
	case key.Matches(msg, kh.keys.Search), msg.String() == "tab", msg.String() == "shift+tab":
		a.findInput.Focus()
		return a, nil, true
	case key.Matches(msg, kh.keys.Up):
		if a.findCursor == 0 {
			a.findInput.Focus()
			return a, nil, true
		}
		a.findCursor--
		return a, nil, true
	case key.Matches(msg, kh.keys.Down):
		if a.findCursor < len(a.findResults)-1 {
			a.findCursor++
		}
		return a, nil, true
	case key.Matches(msg, kh.keys.Submit):
		if r, ok := a.selectedFind(); ok {
			return a, a.openReader(r.Bookmark.Article, ViewFind), true
		}
		return a, nil, true
	case key.Matches(msg, kh.keys.Bookmark):
		if r, ok := a.selectedFind(); ok {
			cmd := a.toggleBookmark(r.Bookmark.Article)
			return a, tea.Batch(cmd, a.findBookmarks(sanitizeSearchInput(a.findInput.Value()))), true
		}
		return a, nil, true
	case key.Matches(msg, kh.keys.Open):
		if r, ok := a.selectedFind(); ok {
			return a, a.openLink(r.Bookmark.URL), true
		}
		return a, nil, true
	}
	return a, nil, false
}

// delegateToCharm lets the bubbles components handle keys we don't
// intercept.
func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewReader:
		var cmd tea.Cmd
		kh.app.viewport, cmd = kh.app.viewport.Update(msg)
		return kh.app, cmd
	default:
		return kh.app, nil
	}
}

// navigateBack implements back navigation for every view.
func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	a := kh.app
	switch a.view {
	case ViewReader:
		a.view = a.previousView
		a.current = nil
		a.loadingArticle = false
		if a.view == ViewFind {
			a.findInput.Blur()
		}
		return a, nil

	case ViewClearConfirm:
		a.view = ViewHeadlines
		return a, a.setStatus(MsgClearCanceled, StatusInfo, statusTTL)

	case ViewFind:
		a.view = ViewHeadlines
		a.findInput.Reset()
		a.findInput.Blur()
		a.findResults = nil
		a.findCursor = 0
		return a, nil

	default:
		if a.state.BookmarksOnly {
			a.state.SetBookmarksOnly(false)
			a.cursor = 0
		}
		return a, nil
	}
}

// enterFindMode opens full-text search over saved bookmarks.
func (kh *KeyHandler) enterFindMode() (tea.Model, tea.Cmd) {
	a := kh.app
	a.previousView = a.view
	a.view = ViewFind
	a.findInput.Reset()
	a.findInput.Focus()
	a.findResults = nil
	a.findCursor = 0

	engineName := fmt.Sprintf("%T", a.searcher)
	if ds, ok := a.searcher.(search.DebugStatser); ok {
		if n, err := ds.DocCount(); err == nil {
			return a, a.setStatus(fmt.Sprintf("Find: %s • idx: %d", engineName, n), StatusInfo, statusTTL)
		}
	}
	return a, a.setStatus(fmt.Sprintf("Find: %s", engineName), StatusInfo, statusTTL)
}

// sanitizeSearchInput limits length and flattens whitespace.
func sanitizeSearchInput(input string) string {
	input = singleLine(input)
	if len(input) > maxQueryLength {
		input = strings.ToValidUTF8(input[:maxQueryLength], "")
	}
	return strings.TrimSpace(input)
}

// GetHelpForCurrentView returns the bindings shown in the help line.
func (kh *KeyHandler) GetHelpForCurrentView() []key.Binding {
	k := kh.keys
	switch kh.app.view {
	case ViewHeadlines:
		if kh.app.searchInput.Focused() {
			return []key.Binding{
				key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search now")),
				key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc/tab", "results")),
			}
		}
		pager := k.NextPage
		if kh.app.showMoreMode() {
			pager = k.More
		}
		return []key.Binding{k.Search, k.NextCategory, k.Sort, pager, k.Submit, k.Bookmark, k.BookmarksOnly, k.ViewMode, k.Refresh, k.FindBookmark, k.Quit}

	case ViewReader:
		return []key.Binding{k.Open, k.OpenImage, k.Share, k.Bookmark, k.Back}

	case ViewClearConfirm:
		return []key.Binding{k.Confirm, key.NewBinding(key.WithKeys("n"), key.WithHelp("n/esc", "cancel"))}

	case ViewFind:
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "read")),
			k.Bookmark, k.Open, k.Back,
		}

	default:
		return nil
	}
}
