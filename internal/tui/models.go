package tui

import (
	"github.com/pders01/newshub/internal/query"
	"github.com/pders01/newshub/internal/search"
)

type View int

const (
	ViewHeadlines View = iota
	ViewReader
	ViewClearConfirm
	ViewFind
)

func (v View) String() string {
	switch v {
	case ViewReader:
		return "reader"
	case ViewClearConfirm:
		return "clear-confirm"
	case ViewFind:
		return "find"
	default:
		return "headlines"
	}
}

// debounceFiredMsg arrives when a search debounce delay has elapsed.
type debounceFiredMsg struct {
	task *query.Task
}

type fetchResultMsg struct {
	resp query.Response
}

type articleRenderedMsg struct {
	title   string
	content string
}

type findResultsMsg struct {
	query   string
	results []*search.Result
}

type statusMsg struct {
	text string
	kind StatusKind
}

type clearStatusMsg struct {
	id int
}

type errorMsg struct {
	err error
}
