// Package query owns the category, search text and sort order, and decides
// when a fetch is due. It performs no I/O: every operation returns at most
// one Effect for the caller's event loop to carry out.
package query

import (
	"strings"
	"time"

	"github.com/pders01/newshub/internal/debuglog"
	"github.com/pders01/newshub/internal/news"
)

// DefaultDebounce is the quiet period after the last keystroke.
const DefaultDebounce = 500 * time.Millisecond

type Status int

const (
	StatusIdle Status = iota
	StatusFetching
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusFetching:
		return "fetching"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// State is the user's current query. A non-blank Text wins over Category.
type State struct {
	Category news.Category
	Text     string
	Sort     news.Sort
}

func (s State) searching() bool {
	return strings.TrimSpace(s.Text) != ""
}

// Request is a fetch tagged with the token that identifies it.
type Request struct {
	Seq uint64
	news.Query
}

// Response carries a fetch outcome back to the controller.
type Response struct {
	Seq    uint64
	Result *news.Result
	Err    error
}

type Options struct {
	Debounce time.Duration
	PageSize int
	Language string
	Category news.Category
	Sort     news.Sort
}

type Controller struct {
	state    State
	debounce time.Duration
	pageSize int
	language string

	pending    *Task
	nextTaskID uint64
	lastIssued uint64
	inFlight   *Request
	committed  *Request

	status   Status
	err      error
	articles []news.Article
	total    int
	closed   bool
}

func New(opts Options) *Controller {
	if opts.Category == "" {
		opts.Category = news.CategoryGeneral
	}
	if opts.Sort == "" {
		opts.Sort = news.SortLatest
	}
	if opts.Debounce < 0 {
		opts.Debounce = 0
	}
	return &Controller{
		state:    State{Category: opts.Category, Sort: opts.Sort},
		debounce: opts.Debounce,
		pageSize: opts.PageSize,
		language: opts.Language,
	}
}

// Start issues the initial category fetch.
func (c *Controller) Start() Effect {
	return c.fetch()
}

// CurrentRequest derives the query the current state calls for.
func (c *Controller) CurrentRequest() news.Query {
	q := news.Query{
		Category: c.state.Category,
		Sort:     c.state.Sort,
		PageSize: c.pageSize,
		Language: c.language,
	}
	if c.state.searching() {
		q.Mode = news.ModeSearch
		q.Text = strings.TrimSpace(c.state.Text)
	} else {
		q.Mode = news.ModeCategory
	}
	return q
}

func (c *Controller) fetch() Effect {
	if c.closed {
		return nil
	}
	c.cancelPending()
	c.lastIssued++
	req := Request{Seq: c.lastIssued, Query: c.CurrentRequest()}
	c.inFlight = &req
	c.status = StatusFetching
	debuglog.WithFields(map[string]interface{}{
		"seq":  req.Seq,
		"mode": req.Mode.String(),
	}).Debugf("query: issuing %s", req.Key())
	return Fetch{Request: req}
}

func (c *Controller) cancelPending() {
	if c.pending != nil {
		c.pending.Cancel()
		c.pending = nil
	}
}

// SetCategory switches category. While a search is active only the
// remembered category changes.
func (c *Controller) SetCategory(cat news.Category) Effect {
	if c.closed {
		return nil
	}
	if cat == "" {
		cat = news.CategoryGeneral
	}
	changed := cat != c.state.Category
	c.state.Category = cat
	if c.state.searching() || !changed {
		return nil
	}
	return c.fetch()
}

// SetQuery records new search text. Non-blank text schedules a debounced
// fetch that supersedes any earlier one; clearing the text fetches the
// remembered category at once.
func (c *Controller) SetQuery(text string) Effect {
	if c.closed || text == c.state.Text {
		return nil
	}
	wasSearching := c.state.searching()
	c.state.Text = text
	c.cancelPending()

	if !c.state.searching() {
		if wasSearching {
			return c.fetch()
		}
		return nil
	}
	if c.debounce == 0 {
		return c.fetch()
	}

	c.nextTaskID++
	c.pending = &Task{id: c.nextTaskID, text: text}
	return Wait{Task: c.pending, Delay: c.debounce}
}

// SetSort changes the order and refetches the current text or category.
func (c *Controller) SetSort(s news.Sort) Effect {
	if c.closed || s == c.state.Sort {
		return nil
	}
	c.state.Sort = s
	return c.fetch()
}

// Submit fetches immediately, skipping any pending debounce.
func (c *Controller) Submit() Effect {
	return c.fetch()
}

// Refresh re-runs the current request; it is the retry action.
func (c *Controller) Refresh() Effect {
	return c.fetch()
}

// Fire is called when a debounce task's delay has elapsed.
func (c *Controller) Fire(t *Task) Effect {
	if c.closed || t == nil || t.Canceled() || t != c.pending {
		return nil
	}
	c.pending = nil
	return c.fetch()
}

// Complete applies resp if it answers the newest issued request and reports
// whether it did. Stale responses are dropped without touching state.
func (c *Controller) Complete(resp Response) bool {
	if c.closed || c.inFlight == nil || resp.Seq != c.lastIssued {
		debuglog.Debugf("query: dropping stale response seq=%d latest=%d", resp.Seq, c.lastIssued)
		return false
	}
	committed := *c.inFlight
	c.committed = &committed
	c.inFlight = nil

	if resp.Err != nil {
		c.status = StatusFailed
		c.err = resp.Err
		debuglog.Warnf("query: fetch %d failed: %v", resp.Seq, resp.Err)
		return true
	}

	c.status = StatusSucceeded
	c.err = nil
	c.articles = nil
	c.total = 0
	if resp.Result != nil {
		c.articles = resp.Result.Articles
		c.total = resp.Result.Total
	}
	return true
}

// Seed shows articles from an earlier session until the first fetch lands.
// It is ignored once any response has been accepted.
func (c *Controller) Seed(articles []news.Article, total int) {
	if c.committed != nil {
		return
	}
	c.articles = articles
	c.total = total
}

// Close cancels the pending debounce and ignores all further input.
func (c *Controller) Close() {
	c.cancelPending()
	c.closed = true
}

func (c *Controller) State() State { return c.state }

func (c *Controller) Status() Status { return c.status }

func (c *Controller) Err() error { return c.err }

// Articles is the newest accepted article list. Failed fetches keep the
// previous list.
func (c *Controller) Articles() []news.Article { return c.articles }

func (c *Controller) Total() int { return c.total }

// Committed is the request whose response is on screen.
func (c *Controller) Committed() (Request, bool) {
	if c.committed == nil {
		return Request{}, false
	}
	return *c.committed, true
}

func (c *Controller) LastIssued() uint64 { return c.lastIssued }

// Pending reports whether a debounce is scheduled.
func (c *Controller) Pending() bool { return c.pending != nil }

func (c *Controller) Closed() bool { return c.closed }
