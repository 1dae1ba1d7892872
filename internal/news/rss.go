package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"

	"github.com/pders01/newshub/internal/debuglog"
)

var imgRegex = regexp.MustCompile(`<img[^>]+src=["']([^"']+)["']`)

type RSSOptions struct {
	// URLTemplate may contain {query} and {language}. Category requests
	// substitute the category name for {query}.
	URLTemplate string
	Language    string
	UserAgent   string
	Timeout     time.Duration
	RateLimit   time.Duration
	HTTPClient  *http.Client
}

// RSS answers queries from a search-capable RSS endpoint. It needs no
// credential.
type RSS struct {
	template   string
	language   string
	userAgent  string
	httpClient *http.Client
	parser     *gofeed.Parser
	limiter    *rate.Limiter
}

func NewRSS(opts RSSOptions) *RSS {
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.RateLimit), 1)
	}
	return &RSS{
		template:   opts.URLTemplate,
		language:   opts.Language,
		userAgent:  opts.UserAgent,
		httpClient: client,
		parser:     gofeed.NewParser(),
		limiter:    limiter,
	}
}

func (r *RSS) Name() string { return "rss" }

func (r *RSS) Endpoint(q Query) string {
	term := q.Text
	if q.Mode == ModeCategory {
		term = string(q.Category)
		if term == "" {
			term = string(CategoryGeneral)
		}
	}
	lang := q.Language
	if lang == "" {
		lang = r.language
	}
	out := strings.ReplaceAll(r.template, "{query}", url.QueryEscape(term))
	return strings.ReplaceAll(out, "{language}", url.QueryEscape(lang))
}

func (r *RSS) Fetch(ctx context.Context, q Query) (*Result, error) {
	if r.template == "" {
		return nil, fmt.Errorf("rss provider: no url template configured")
	}
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, &NetworkError{Err: err}
	}

	endpoint := r.Endpoint(q)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	debuglog.Debugf("rss request %s", endpoint)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			Status:     resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			RetryAfter: retryAfter(resp),
		}
	}

	feed, err := r.parser.Parse(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("parsing feed: %w", err)}
	}

	articles := make([]Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		articles = append(articles, itemToArticle(feed, item))
	}

	if q.Sort == SortLatest || q.Sort == "" {
		sort.SliceStable(articles, func(i, j int) bool {
			return articles[i].PublishedAt.After(articles[j].PublishedAt)
		})
	}
	if q.PageSize > 0 && len(articles) > q.PageSize {
		articles = articles[:q.PageSize]
	}

	return &Result{
		Articles:  articles,
		Total:     len(feed.Items),
		FetchedAt: time.Now(),
	}, nil
}

func itemToArticle(feed *gofeed.Feed, item *gofeed.Item) Article {
	a := Article{
		Title:       strings.TrimSpace(item.Title),
		Description: item.Description,
		Content:     item.Content,
		URL:         item.Link,
		ImageURL:    itemImage(item),
		Source:      feed.Title,
	}
	if a.Content == "" {
		a.Content = item.Description
	}
	if item.PublishedParsed != nil {
		a.PublishedAt = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		a.PublishedAt = *item.UpdatedParsed
	}
	if item.Author != nil {
		a.Author = item.Author.Name
	} else if len(item.Authors) > 0 && item.Authors[0] != nil {
		a.Author = item.Authors[0].Name
	}
	return a
}

func itemImage(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	for _, enc := range item.Enclosures {
		if enc != nil && enc.URL != "" && strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	if m := imgRegex.FindStringSubmatch(item.Content + " " + item.Description); len(m) > 1 {
		return m[1]
	}
	return ""
}
