package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/pders01/newshub/internal/config"
	"github.com/pders01/newshub/internal/news"
	"github.com/pders01/newshub/internal/query"
	"github.com/pders01/newshub/internal/view"
	"github.com/spf13/cobra"
)

const defaultFetchTimeout = 15 * time.Second

var (
	flagCategory      string
	flagQuery         string
	flagSort          string
	flagPage          int
	flagBookmarksOnly bool
	flagDryRun        bool
)

var headlinesCmd = &cobra.Command{
	Use:   "headlines",
	Short: "Print one page of headlines",
	Long: `Fetch headlines for a category or a search and print one page as a table.

A non-empty --query searches all articles and ignores --category.`,
	Args: cobra.NoArgs,
	RunE: runHeadlines,
}

func init() {
	f := headlinesCmd.Flags()
	f.StringVarP(&flagCategory, "category", "c", string(news.CategoryGeneral), "category: "+joinCategories())
	f.StringVarP(&flagQuery, "query", "q", "", "search text")
	f.StringVarP(&flagSort, "sort", "s", string(news.SortLatest), "sort order: latest, relevancy, popularity")
	f.IntVarP(&flagPage, "page", "p", 1, "page to print")
	f.BoolVarP(&flagBookmarksOnly, "bookmarks-only", "b", false, "only show saved articles")
	f.BoolVar(&flagDryRun, "dry-run", false, "print the request URL without fetching")
}

func joinCategories() string {
	names := make([]string, len(news.Categories))
	for i, c := range news.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// endpointer is implemented by providers that can show the URL they would
// request.
type endpointer interface {
	Endpoint(q news.Query) string
}

// newController builds a controller for a one-shot request.
func newController(cfg *config.Config, category, text, sortKey string) (*query.Controller, error) {
	cat, ok := news.ParseCategory(category)
	if !ok {
		return nil, fmt.Errorf("unknown category %q (want one of %s)", category, joinCategories())
	}
	sort, ok := news.ParseSort(sortKey)
	if !ok {
		return nil, fmt.Errorf("unknown sort %q", sortKey)
	}

	ctrl := query.New(query.Options{
		Debounce: cfg.UI.SearchDebounce,
		PageSize: cfg.API.PageSize,
		Language: cfg.API.Language,
		Category: cat,
		Sort:     sort,
	})
	ctrl.SetQuery(strings.TrimSpace(text))
	return ctrl, nil
}

func runHeadlines(cmd *cobra.Command, args []string) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	provider, err := news.NewProvider(svc.cfg.API)
	if err != nil {
		return fmt.Errorf("creating provider: %w", err)
	}

	ctrl, err := newController(svc.cfg, flagCategory, flagQuery, flagSort)
	if err != nil {
		return err
	}
	fetch, ok := ctrl.Submit().(query.Fetch)
	if !ok {
		return fmt.Errorf("no request to send")
	}

	out := cmd.OutOrStdout()
	if flagDryRun {
		if e, ok := provider.(endpointer); ok {
			fmt.Fprintln(out, e.Endpoint(fetch.Request.Query))
			return nil
		}
		return fmt.Errorf("provider %s cannot describe its requests", provider.Name())
	}

	timeout := svc.cfg.API.Timeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout+svc.cfg.API.RateLimit)
	defer cancel()
	if err := fetchOnce(ctx, provider, ctrl, fetch); err != nil {
		return err
	}

	marks := svc.bookmarks.Titles()
	page := headlinePage(fetch.Request.Query, ctrl.Articles(), flagBookmarksOnly, marks, flagPage, svc.cfg.UI.PageSize)
	printHeadlines(out, describeRequest(fetch.Request.Query), page, marks)
	return nil
}

// fetchOnce runs fetch against provider and hands the outcome back to ctrl.
func fetchOnce(ctx context.Context, provider news.Provider, ctrl *query.Controller, fetch query.Fetch) error {
	res, err := provider.Fetch(ctx, fetch.Request.Query)
	ctrl.Complete(query.Response{Seq: fetch.Request.Seq, Result: res, Err: err})
	if ctrl.Status() == query.StatusFailed {
		return fmt.Errorf("fetching headlines: %s", news.UserMessage(ctrl.Err()))
	}
	return nil
}

// headlinePage applies the same local text filter the TUI does before
// paging.
func headlinePage(q news.Query, articles []news.Article, bookmarksOnly bool, marks map[string]bool, page, pageSize int) view.Page {
	return view.Compute(articles, q.Text, bookmarksOnly, marks, page, pageSize)
}

func describeRequest(q news.Query) string {
	if q.Mode == news.ModeSearch {
		return fmt.Sprintf("Search %q (%s)", q.Text, q.Sort)
	}
	return fmt.Sprintf("%s headlines", q.Category.Title())
}

func printHeadlines(w io.Writer, heading string, page view.Page, marks map[string]bool) {
	if page.Total == 0 {
		fmt.Fprintln(w, "No articles found.")
		return
	}
	fmt.Fprintf(w, "\n%s • page %d/%d • %d articles\n\n", heading, page.Page, page.TotalPages, page.Total)
	fmt.Fprintln(w, articleTable(page.Items, marks))
}

func articleTable(articles []news.Article, marks map[string]bool) string {
	columns := []table.Column{
		{Title: "★", Width: 2},
		{Title: "Title", Width: 56},
		{Title: "Source", Width: 18},
		{Title: "Published", Width: 12},
	}

	rows := make([]table.Row, 0, len(articles))
	for _, a := range articles {
		mark := ""
		if marks[news.Identity(a)] {
			mark = "★"
		}
		rows = append(rows, table.Row{
			mark,
			view.Truncate(a.Title, 54),
			view.Truncate(a.Source, 16),
			view.FormatDate(a.PublishedAt),
		})
	}
	return renderTable(columns, rows)
}

func renderTable(columns []table.Column, rows []table.Row) string {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)
	return t.View()
}
