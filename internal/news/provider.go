package news

import (
	"context"
	"fmt"
	"strings"

	"github.com/pders01/newshub/internal/config"
	"github.com/pders01/newshub/internal/validation"
)

type Mode int

const (
	ModeCategory Mode = iota
	ModeSearch
)

func (m Mode) String() string {
	if m == ModeSearch {
		return "search"
	}
	return "category"
}

// Query is what a provider needs to answer one request.
type Query struct {
	Mode     Mode
	Text     string
	Category Category
	Sort     Sort
	PageSize int
	Language string
}

// Key identifies the query for snapshot storage.
func (q Query) Key() string {
	if q.Mode == ModeSearch {
		return "search:" + strings.ToLower(strings.TrimSpace(q.Text)) + ":" + string(q.Sort)
	}
	return "category:" + string(q.Category) + ":" + string(q.Sort)
}

// Provider fetches articles for a query. Implementations must honour ctx.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, q Query) (*Result, error)
}

// NewProvider builds the provider named by cfg.Provider.
func NewProvider(cfg config.APIConfig) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "newsapi":
		base, err := validation.NewBaseURLValidator().Validate(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid api.base_url: %w", err)
		}
		return NewNewsAPI(NewsAPIOptions{
			BaseURL:   strings.TrimRight(base, "/"),
			APIKey:    cfg.APIKey,
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.Timeout,
			RateLimit: cfg.RateLimit,
		}), nil
	case "rss":
		return NewRSS(RSSOptions{
			URLTemplate: cfg.RSSURL,
			Language:    cfg.Language,
			UserAgent:   cfg.UserAgent,
			Timeout:     cfg.Timeout,
			RateLimit:   cfg.RateLimit,
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
