package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pders01/newshub/internal/debuglog"
)

const (
	defaultBaseURL   = "https://newsapi.org"
	defaultUserAgent = "newshub/1.0 (https://github.com/pders01/newshub)"
	defaultTimeout   = 15 * time.Second
	maxErrorBody     = 64 << 10
)

type NewsAPIOptions struct {
	BaseURL   string
	APIKey    string
	UserAgent string
	Timeout   time.Duration
	// RateLimit is the minimum spacing between outbound requests. Zero
	// disables limiting.
	RateLimit  time.Duration
	HTTPClient *http.Client
}

// NewsAPI talks to the newsapi.org v2 endpoints.
type NewsAPI struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewNewsAPI(opts NewsAPIOptions) *NewsAPI {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
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
	return &NewsAPI{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		userAgent:  opts.UserAgent,
		httpClient: client,
		limiter:    limiter,
	}
}

func (c *NewsAPI) Name() string { return "newsapi" }

type apiSource struct {
	ID   *string `json:"id"`
	Name string  `json:"name"`
}

type apiArticle struct {
	Source      apiSource `json:"source"`
	Author      *string   `json:"author"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	URL         string    `json:"url"`
	URLToImage  *string   `json:"urlToImage"`
	PublishedAt string    `json:"publishedAt"`
	Content     *string   `json:"content"`
}

type apiResponse struct {
	Status       string       `json:"status"`
	TotalResults int          `json:"totalResults"`
	Articles     []apiArticle `json:"articles"`
	Code         string       `json:"code"`
	Message      string       `json:"message"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (a apiArticle) toArticle() Article {
	published, _ := time.Parse(time.RFC3339, a.PublishedAt)
	return Article{
		Title:       strings.TrimSpace(deref(a.Title)),
		Description: deref(a.Description),
		Content:     deref(a.Content),
		URL:         a.URL,
		ImageURL:    deref(a.URLToImage),
		PublishedAt: published,
		Source:      a.Source.Name,
		Author:      deref(a.Author),
	}
}

// Endpoint builds the request URL for q. Exposed for the CLI's --dry-run.
func (c *NewsAPI) Endpoint(q Query) string {
	params := url.Values{}
	var path string
	if q.Mode == ModeSearch {
		path = "/v2/everything"
		params.Set("q", q.Text)
		params.Set("sortBy", q.Sort.APIValue())
	} else {
		path = "/v2/top-headlines"
		category := q.Category
		if category == "" {
			category = CategoryGeneral
		}
		params.Set("category", string(category))
	}
	if q.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.Language != "" {
		params.Set("language", q.Language)
	}
	return c.baseURL + path + "?" + params.Encode()
}

func (c *NewsAPI) Fetch(ctx context.Context, q Query) (*Result, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &NetworkError{Err: err}
	}

	endpoint := c.Endpoint(q)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	debuglog.WithFields(map[string]interface{}{
		"mode": q.Mode.String(),
		"sort": string(q.Sort),
	}).Debugf("newsapi request %s", req.URL.Path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("reading response: %w", err)}
	}

	var payload apiResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		if resp.StatusCode >= 400 {
			return nil, &APIError{Status: resp.StatusCode, Message: snippet(body), RetryAfter: retryAfter(resp)}
		}
		return nil, &NetworkError{Err: fmt.Errorf("decoding response: %w", err)}
	}

	if resp.StatusCode >= 400 || payload.Status != "ok" {
		return nil, &APIError{
			Status:     resp.StatusCode,
			Code:       payload.Code,
			Message:    payload.Message,
			RetryAfter: retryAfter(resp),
		}
	}

	articles := make([]Article, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		articles = append(articles, a.toArticle())
	}

	return &Result{
		Articles:  articles,
		Total:     payload.TotalResults,
		FetchedAt: time.Now(),
	}, nil
}

// retryAfter reads the Retry-After seconds of a rate-limited response.
func retryAfter(resp *http.Response) time.Duration {
	if resp.StatusCode != http.StatusTooManyRequests {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(resp.Header.Get("Retry-After")))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func snippet(body []byte) string {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	s := strings.TrimSpace(string(body))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
