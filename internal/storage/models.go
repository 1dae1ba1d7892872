package storage

import (
	"time"

	"github.com/pders01/newshub/internal/news"
)

// Snapshot is the last successful result, kept so the next start has
// something to show before the first fetch returns.
type Snapshot struct {
	Key     string      `json:"key"`
	Query   news.Query  `json:"query"`
	Result  news.Result `json:"result"`
	SavedAt time.Time   `json:"saved_at"`
}
