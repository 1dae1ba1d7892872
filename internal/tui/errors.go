package tui

import (
	"fmt"

	"github.com/pders01/newshub/internal/news"
)

// wrapErr formats an error with a contextual prefix.
func wrapErr(context string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// errorLine is the one-line form of err for the status bar. Fetch failures
// use the provider's user-facing wording.
func errorLine(err error) string {
	if err == nil {
		return ""
	}
	return news.UserMessage(err)
}
