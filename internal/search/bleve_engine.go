package search

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/newshub/internal/bookmarks"
	"github.com/pders01/newshub/internal/debuglog"
)

type fieldBoost struct {
	name   string
	match  float64
	prefix float64
}

var boostedFields = []fieldBoost{
	{"title", 4.0, 3.5},
	{"description", 2.0, 1.8},
	{"source", 1.5, 1.2},
	{"content", 1.0, 0.8},
	{"author", 1.0, 0.8},
	{"url", 0.5, 0.3},
}

// BleveEngine keeps a full-text index of bookmarks in sync through
// bookmarks.Listener.
type BleveEngine struct {
	source Source
	idx    bleve.Index
}

// NewBleveEngine opens or creates the index at indexPath and reconciles it
// with source. An empty indexPath keeps the index in memory.
func NewBleveEngine(source Source, indexPath string) (*BleveEngine, error) {
	var (
		idx bleve.Index
		err error
	)

	if indexPath == "" {
		idx, err = bleve.NewMemOnly(buildIndexMapping())
	} else {
		if mkErr := os.MkdirAll(filepath.Dir(indexPath), 0o755); mkErr != nil {
			return nil, fmt.Errorf("creating index directory: %w", mkErr)
		}
		idx, err = bleve.Open(indexPath)
		if err != nil {
			idx, err = bleve.New(indexPath, buildIndexMapping())
		}
	}
	if err != nil {
		return nil, fmt.Errorf("opening bookmark index: %w", err)
	}

	be := &BleveEngine{source: source, idx: idx}
	if err := be.reindexAll(); err != nil {
		_ = idx.Close()
		return nil, err
	}
	return be, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()
	for _, f := range boostedFields {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = standard.Name
		fm.Store = f.name == "title" || f.name == "url"
		fm.IncludeTermVectors = f.name == "title"
		dm.AddFieldMappingsAt(f.name, fm)
	}

	im.DefaultMapping = dm
	return im
}

func docFor(b bookmarks.Bookmark) map[string]any {
	return map[string]any{
		"title":       b.Title,
		"description": b.Description,
		"content":     b.Content,
		"source":      b.Source,
		"author":      b.Author,
		"url":         b.URL,
	}
}

func (b *BleveEngine) reindexAll() error {
	want := make(map[string]bool)
	batch := b.idx.NewBatch()
	for _, bm := range b.source.List() {
		want[bm.Title] = true
		if err := batch.Index(bm.Title, docFor(bm)); err != nil {
			return fmt.Errorf("indexing %q: %w", bm.Title, err)
		}
	}

	// drop documents for bookmarks removed while the index was closed
	req := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), 10000, 0, false)
	res, err := b.idx.Search(req)
	if err != nil {
		return fmt.Errorf("listing index: %w", err)
	}
	for _, h := range res.Hits {
		if !want[h.ID] {
			batch.Delete(h.ID)
		}
	}
	return b.idx.Batch(batch)
}

func (b *BleveEngine) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Result{}, nil
	}
	if limit <= 0 {
		limit = 50
	}

	var qs []bleveQuery.Query
	for _, tok := range tokenize(query) {
		for _, f := range boostedFields {
			mq := bleve.NewMatchQuery(tok)
			mq.SetField(f.name)
			mq.SetBoost(f.match)
			pq := bleve.NewPrefixQuery(tok)
			pq.SetField(f.name)
			pq.SetBoost(f.prefix)
			qs = append(qs, mq, pq)
		}
	}
	if len(qs) == 0 {
		return []*Result{}, nil
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(qs...), limit, 0, false)
	req.Fields = []string{"title"}
	res, err := b.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("searching bookmarks: %w", err)
	}

	out := make([]*Result, 0, len(res.Hits))
	for _, h := range res.Hits {
		bm, ok := b.source.Get(h.ID)
		if !ok {
			debuglog.Debugf("search: index hit %q has no bookmark", h.ID)
			continue
		}
		out = append(out, &Result{
			Bookmark: bm,
			Score:    h.Score,
			Matches:  []Match{{Field: "title", Text: bm.Title, Weight: h.Score}},
		})
	}
	return out, nil
}

// OnBookmarksChanged implements bookmarks.Listener.
func (b *BleveEngine) OnBookmarksChanged(added []bookmarks.Bookmark, removed []string) {
	batch := b.idx.NewBatch()
	for _, id := range removed {
		batch.Delete(id)
	}
	for _, bm := range added {
		_ = batch.Index(bm.Title, docFor(bm))
	}
	if err := b.idx.Batch(batch); err != nil {
		debuglog.Warnf("search: index update failed: %v", err)
	}
}

// DocCount reports total documents in the index.
func (b *BleveEngine) DocCount() (int, error) {
	n, err := b.idx.DocCount()
	return int(n), err
}

func (b *BleveEngine) Close() error {
	return b.idx.Close()
}

// NewSearcher prefers the bleve index and falls back to the in-memory
// engine when the index cannot be opened.
func NewSearcher(source Source, indexPath string) Searcher {
	be, err := NewBleveEngine(source, indexPath)
	if err != nil {
		debuglog.Warnf("search: %v; using in-memory search", err)
		return NewEngine(source)
	}
	return be
}
