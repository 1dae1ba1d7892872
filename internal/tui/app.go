package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/newshub/internal/bookmarks"
	"github.com/pders01/newshub/internal/config"
	"github.com/pders01/newshub/internal/news"
	"github.com/pders01/newshub/internal/prefs"
	"github.com/pders01/newshub/internal/query"
	"github.com/pders01/newshub/internal/search"
	"github.com/pders01/newshub/internal/share"
	"github.com/pders01/newshub/internal/storage"
	"github.com/pders01/newshub/internal/view"
)

// Opener hands links to external applications.
type Opener interface {
	OpenLink(raw string) error
	OpenImage(raw string) error
}

// SnapshotStore keeps the last successful result between runs.
type SnapshotStore interface {
	SaveSnapshot(snap *storage.Snapshot) error
	LoadSnapshot() (*storage.Snapshot, error)
}

// Deps are the collaborators the app is built from. Snapshots, Opener and
// Sharer may be nil.
type Deps struct {
	Config    *config.Config
	Provider  news.Provider
	Bookmarks *bookmarks.Store
	Theme     *prefs.Theme
	Searcher  search.Searcher
	Snapshots SnapshotStore
	Opener    Opener
	Sharer    *share.Registry
}

type App struct {
	config     *config.Config
	provider   news.Provider
	ctrl       *query.Controller
	state      view.State
	marks      *bookmarks.Store
	theme      *prefs.Theme
	searcher   search.Searcher
	snapshots  SnapshotStore
	opener     Opener
	sharer     *share.Registry
	keys       KeyMap
	keyHandler *KeyHandler
	styles     Styles

	searchInput textinput.Model
	findInput   textinput.Model
	viewport    viewport.Model
	spinner     spinner.Model
	help        help.Model

	view         View
	previousView View
	visible      view.Visible
	cursor       int
	current      *news.Article
	findResults  []*search.Result
	findCursor   int
	width        int
	height       int

	status     string
	statusKind StatusKind
	statusID   int

	seeded   bool
	seededAt time.Time

	ctx         context.Context
	cancel      context.CancelFunc
	cancelFetch context.CancelFunc

	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
	rendererDark    bool
	loadingArticle  bool

	now func() time.Time
}

func NewApp(deps Deps) *App {
	cfg := deps.Config

	si := textinput.New()
	si.Placeholder = "Search news…"
	si.Prompt = "⌕ "
	si.CharLimit = maxQueryLength

	fi := textinput.New()
	fi.Placeholder = "Search saved articles…"
	fi.Prompt = "★ "
	fi.CharLimit = maxQueryLength

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	ctx, cancel := context.WithCancel(context.Background())

	searcher := deps.Searcher
	if searcher == nil {
		searcher = search.NewEngine(deps.Bookmarks)
	}

	app := &App{
		config:    cfg,
		provider:  deps.Provider,
		marks:     deps.Bookmarks,
		theme:     deps.Theme,
		searcher:  searcher,
		snapshots: deps.Snapshots,
		opener:    deps.Opener,
		sharer:    deps.Sharer,
		ctrl: query.New(query.Options{
			Debounce: cfg.UI.SearchDebounce,
			PageSize: cfg.API.PageSize,
			Language: cfg.API.Language,
		}),
		state: view.NewState(
			cfg.UI.PageSize,
			view.ParseMode(cfg.UI.ViewMode),
			view.ParsePagination(cfg.UI.Pagination),
		),
		keys:        NewKeyMap(cfg.Keys.Bindings),
		searchInput: si,
		findInput:   fi,
		viewport:    viewport.New(0, 0),
		spinner:     sp,
		help:        help.New(),
		view:        ViewHeadlines,
		ctx:         ctx,
		cancel:      cancel,
		now:         time.Now,
	}
	app.keyHandler = NewKeyHandler(app, app.keys)
	app.applyTheme(deps.Theme.Dark())
	app.seedFromSnapshot()
	app.refresh()

	return app
}

func (a *App) applyTheme(dark bool) {
	if dark {
		a.styles = NewStyles(DarkPalette(a.config.UI.Colors))
	} else {
		a.styles = NewStyles(LightPalette())
	}
	a.spinner.Style = lipgloss.NewStyle().Foreground(a.styles.Palette.Accent)
	a.help.Styles.ShortKey = lipgloss.NewStyle().Foreground(a.styles.Palette.Secondary)
	a.help.Styles.ShortDesc = a.styles.Muted
	a.help.Styles.ShortSeparator = a.styles.Muted
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	maxWidth := a.config.UI.WordWrapMaxWidth
	minWidth := a.config.UI.WordWrapMinWidth
	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > maxWidth {
		wordWrapWidth = maxWidth
	}
	if wordWrapWidth < minWidth {
		wordWrapWidth = minWidth
	}
	if a.width > 0 && a.width < 50 {
		wordWrapWidth = max(a.width-4, 20)
	}

	dark := a.theme.Dark()
	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 || a.rendererDark != dark {
		style := "light"
		if dark {
			style = "dark"
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
		a.rendererDark = dark
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnterAltScreen, a.run(a.ctrl.Start())}
	if a.seeded {
		cmds = append(cmds, a.setStatus(MsgSnapshot(a.seededAt), StatusInfo, statusTTL))
	}
	return tea.Batch(cmds...)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.viewport.Width = msg.Width
		a.viewport.Height = max(msg.Height-4, 1)
		a.searchInput.Width = max(msg.Width-8, 10)
		a.findInput.Width = max(msg.Width-8, 10)
		a.help.Width = msg.Width
		if a.view == ViewReader && a.current != nil {
			cmds = append(cmds, a.renderArticle(*a.current))
		}

	case tea.KeyMsg:
		model, cmd := a.keyHandler.HandleKey(msg)
		a.refresh()
		return model, cmd

	case debounceFiredMsg:
		cmds = append(cmds, a.run(a.ctrl.Fire(msg.task)))

	case fetchResultMsg:
		cmds = append(cmds, a.handleFetchResult(msg.resp))

	case articleRenderedMsg:
		if a.view == ViewReader && a.current != nil && a.current.Title == msg.title {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
			a.loadingArticle = false
		}

	case findResultsMsg:
		if a.view == ViewFind && msg.query == sanitizeSearchInput(a.findInput.Value()) {
			a.findResults = msg.results
			if a.findCursor >= len(a.findResults) {
				a.findCursor = max(len(a.findResults)-1, 0)
			}
		}

	case statusMsg:
		cmds = append(cmds, a.setStatus(msg.text, msg.kind, statusTTL))

	case clearStatusMsg:
		a.clearStatus(msg.id)

	case errorMsg:
		cmds = append(cmds, a.setStatus(errorLine(msg.err), StatusError, statusTTL))

	case spinner.TickMsg:
		if a.ctrl.Status() == query.StatusFetching || a.loadingArticle {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.MouseMsg:
		if a.view == ViewReader {
			var cmd tea.Cmd
			a.viewport, cmd = a.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	a.refresh()
	return a, tea.Batch(cmds...)
}

// refresh recomputes the visible slice from the controller's articles, the
// bookmark set and the view state.
func (a *App) refresh() {
	a.visible = a.state.Apply(a.ctrl.Articles(), a.marks.Titles())
	if a.cursor >= len(a.visible.Items) {
		a.cursor = max(len(a.visible.Items)-1, 0)
	}
}

func (a *App) showMoreMode() bool {
	return a.state.Pagination == view.PaginationMore
}

func (a *App) selected() (news.Article, bool) {
	if a.cursor < 0 || a.cursor >= len(a.visible.Items) {
		return news.Article{}, false
	}
	return a.visible.Items[a.cursor], true
}

func (a *App) selectedFind() (*search.Result, bool) {
	if a.findCursor < 0 || a.findCursor >= len(a.findResults) {
		return nil, false
	}
	return a.findResults[a.findCursor], true
}

func (a *App) moveCursor(delta int) {
	n := len(a.visible.Items)
	if n == 0 {
		a.cursor = 0
		return
	}
	if a.state.Mode == view.ModeGrid && (delta == 1 || delta == -1) {
		delta *= a.gridColumns()
		if a.cursor+delta < 0 || a.cursor+delta >= n {
			delta /= a.gridColumns()
		}
	}
	a.cursor = min(max(a.cursor+delta, 0), n-1)
}

// shiftCategory returns the category delta steps away from the current one.
func (a *App) shiftCategory(delta int) news.Category {
	cur := a.ctrl.State().Category
	idx := 0
	for i, c := range news.Categories {
		if c == cur {
			idx = i
			break
		}
	}
	n := len(news.Categories)
	return news.Categories[((idx+delta)%n+n)%n]
}

func (a *App) openReader(art news.Article, from View) tea.Cmd {
	a.previousView = from
	a.view = ViewReader
	a.current = &art
	a.loadingArticle = true
	a.viewport.SetContent("")
	return tea.Batch(a.spinner.Tick, a.renderArticle(art))
}

func (a *App) View() string {
	if a.width == 0 {
		return ""
	}

	var content string
	bodyHeight := max(a.height-4, 1)

	switch a.view {
	case ViewHeadlines:
		content = a.renderHeadlines(bodyHeight)
	case ViewReader:
		if a.loadingArticle {
			content = renderCentered(a.width, bodyHeight, a.spinner.View()+" "+a.styles.Muted.Render(MsgLoadingArticle))
		} else {
			content = a.viewport.View()
		}
	case ViewClearConfirm:
		content = a.renderClearConfirm(bodyHeight)
	case ViewFind:
		content = a.renderFind(bodyHeight)
	}

	separator := a.styles.Separator.Render(strings.Repeat("─", max(a.width, 0)))
	return lipgloss.JoinVertical(lipgloss.Top,
		a.renderTopBar(),
		lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(content),
		separator,
		a.renderStatusBar(),
	)
}
