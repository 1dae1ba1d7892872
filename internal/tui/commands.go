package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/newshub/internal/debuglog"
	"github.com/pders01/newshub/internal/news"
	"github.com/pders01/newshub/internal/query"
	"github.com/pders01/newshub/internal/share"
	"github.com/pders01/newshub/internal/storage"
	"github.com/pders01/newshub/internal/view"
)

// findLimit caps bookmark search results.
const findLimit = 20

// run turns a controller effect into a command for the event loop.
func (a *App) run(e query.Effect) tea.Cmd {
	switch e := e.(type) {
	case query.Fetch:
		return a.fetch(e.Request)
	case query.Wait:
		task := e.Task
		return tea.Tick(e.Delay, func(time.Time) tea.Msg {
			return debounceFiredMsg{task: task}
		})
	default:
		return nil
	}
}

// fetch runs one provider request. Starting a fetch cancels the previous
// one; its late response would be discarded as stale anyway.
func (a *App) fetch(req query.Request) tea.Cmd {
	if a.cancelFetch != nil {
		a.cancelFetch()
	}
	ctx, cancel := context.WithCancel(a.ctx)
	a.cancelFetch = cancel

	label := MsgLoading
	if req.Mode == news.ModeSearch {
		label = MsgSearching
	}
	statusCmd := a.setStatus(label, StatusInfo, 0)

	provider := a.provider
	debuglog.Debugf("tui: fetch #%d %s", req.Seq, req.Key())
	return tea.Batch(statusCmd, a.spinner.Tick, func() tea.Msg {
		defer cancel()
		res, err := provider.Fetch(ctx, req.Query)
		return fetchResultMsg{resp: query.Response{Seq: req.Seq, Result: res, Err: err}}
	})
}

// handleFetchResult hands a response to the controller and reacts only when
// it was accepted.
func (a *App) handleFetchResult(resp query.Response) tea.Cmd {
	if !a.ctrl.Complete(resp) {
		debuglog.Debugf("tui: dropped stale response #%d (latest #%d)", resp.Seq, a.ctrl.LastIssued())
		return nil
	}

	if resp.Err != nil {
		debuglog.Warnf("tui: fetch #%d failed: %v", resp.Seq, resp.Err)
		return a.setStatus(errorLine(resp.Err), StatusError, 0)
	}

	a.state.ResultsChanged()
	a.cursor = 0
	a.seeded = false

	var cmds []tea.Cmd
	if len(a.ctrl.Articles()) == 0 {
		cmds = append(cmds, a.setStatus(MsgNoResults, StatusWarn, statusTTL))
	} else {
		cmds = append(cmds, a.setStatus(MsgResultsCount(a.ctrl.Total()), StatusSuccess, statusTTL))
	}
	if req, ok := a.ctrl.Committed(); ok {
		cmds = append(cmds, a.saveSnapshot(req, resp.Result))
	}
	return tea.Batch(cmds...)
}

func (a *App) saveSnapshot(req query.Request, res *news.Result) tea.Cmd {
	if a.snapshots == nil || res == nil {
		return nil
	}
	snap := &storage.Snapshot{
		Key:     req.Key(),
		Query:   req.Query,
		Result:  *res,
		SavedAt: a.now(),
	}
	store := a.snapshots
	return func() tea.Msg {
		if err := store.SaveSnapshot(snap); err != nil {
			debuglog.Warnf("tui: saving snapshot: %v", err)
		}
		return nil
	}
}

// seedFromSnapshot shows the stored result when it answers the startup
// query, so the first screen is not empty while the fetch runs.
func (a *App) seedFromSnapshot() {
	if a.snapshots == nil {
		return
	}
	snap, err := a.snapshots.LoadSnapshot()
	if err != nil {
		debuglog.Debugf("tui: no snapshot: %v", err)
		return
	}
	if snap.Key != a.ctrl.CurrentRequest().Key() {
		debuglog.Debugf("tui: snapshot %q does not match startup query", snap.Key)
		return
	}
	a.ctrl.Seed(snap.Result.Articles, snap.Result.Total)
	a.seeded = true
	a.seededAt = snap.SavedAt
}

// renderArticle builds the detail view markdown and renders it off the
// event loop.
func (a *App) renderArticle(art news.Article) tea.Cmd {
	r, err := a.getRenderer()
	if err != nil {
		return func() tea.Msg {
			return articleRenderedMsg{title: art.Title, content: "Error initializing renderer: " + err.Error()}
		}
	}
	md := articleMarkdown(art, a.now())
	return func() tea.Msg {
		rendered, err := r.Render(md)
		if err != nil {
			return articleRenderedMsg{
				title:   art.Title,
				content: fmt.Sprintf("# Error\n\nFailed to render article: %s\n\nPress Escape to go back.", err.Error()),
			}
		}
		return articleRenderedMsg{title: art.Title, content: rendered}
	}
}

// articleMarkdown is the detail view document for art.
func articleMarkdown(art news.Article, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", singleLine(art.Title))

	meta := []string{}
	if art.Source != "" {
		meta = append(meta, art.Source)
	}
	if art.Author != "" {
		meta = append(meta, "by "+singleLine(art.Author))
	}
	if art.PublishedAt.IsZero() {
		meta = append(meta, view.DateUnknown)
	} else {
		meta = append(meta, view.FormatDateTime(art.PublishedAt)+" ("+view.TimeAgo(art.PublishedAt, now)+")")
	}
	fmt.Fprintf(&b, "*%s*\n\n", strings.Join(meta, " • "))

	if art.ImageURL != "" {
		fmt.Fprintf(&b, "[Image](%s)\n\n", art.ImageURL)
	}
	b.WriteString("---\n\n")

	body := view.ContentMarkdown(art.Content)
	if strings.TrimSpace(body) == "" {
		body = view.ContentMarkdown(art.Description)
	}
	if strings.TrimSpace(body) == "" {
		body = "_No preview available._"
	}
	b.WriteString(body)
	b.WriteString("\n\n")

	if art.URL != "" {
		fmt.Fprintf(&b, "[Read the full article](%s)\n", art.URL)
	}
	return b.String()
}

func (a *App) findBookmarks(q string) tea.Cmd {
	if q == "" {
		a.findResults = nil
		a.findCursor = 0
		return nil
	}
	searcher := a.searcher
	return func() tea.Msg {
		results, err := searcher.Search(q, findLimit)
		if err != nil {
			return errorMsg{err: wrapErr("bookmark search", err)}
		}
		return findResultsMsg{query: q, results: results}
	}
}

func (a *App) openLink(raw string) tea.Cmd {
	if a.opener == nil {
		return nil
	}
	opener := a.opener
	return func() tea.Msg {
		if err := opener.OpenLink(raw); err != nil {
			return errorMsg{err: err}
		}
		return statusMsg{text: "Opened " + truncateMiddle(raw, 60), kind: StatusSuccess}
	}
}

func (a *App) openImage(raw string) tea.Cmd {
	if strings.TrimSpace(raw) == "" {
		return a.setStatus(MsgNoImage, StatusWarn, statusTTL)
	}
	if a.opener == nil {
		return nil
	}
	opener := a.opener
	return func() tea.Msg {
		if err := opener.OpenImage(raw); err != nil {
			return errorMsg{err: err}
		}
		return statusMsg{text: "Opened image", kind: StatusSuccess}
	}
}

func (a *App) shareArticle(art news.Article) tea.Cmd {
	if a.sharer == nil {
		return nil
	}
	sharer := a.sharer
	ctx := a.ctx
	item := share.Item{Title: art.Title, URL: art.URL}
	return func() tea.Msg {
		target, err := sharer.Share(ctx, item)
		if err != nil {
			return errorMsg{err: err}
		}
		return statusMsg{text: target.Message(), kind: StatusSuccess}
	}
}

func (a *App) toggleBookmark(art news.Article) tea.Cmd {
	on := a.marks.Toggle(art)
	return a.setStatus(MsgBookmarked(art.Title, on), StatusSuccess, statusTTL)
}

func (a *App) toggleTheme() tea.Cmd {
	dark := a.theme.Toggle()
	a.applyTheme(dark)
	cmds := []tea.Cmd{}
	if a.view == ViewReader && a.current != nil {
		cmds = append(cmds, a.renderArticle(*a.current))
	}
	label := "Light mode"
	if dark {
		label = "Dark mode"
	}
	cmds = append(cmds, a.setStatus(label, StatusInfo, statusTTL))
	return tea.Batch(cmds...)
}

func (a *App) quit() tea.Cmd {
	a.ctrl.Close()
	if a.cancelFetch != nil {
		a.cancelFetch()
	}
	a.cancel()
	return tea.Quit
}
