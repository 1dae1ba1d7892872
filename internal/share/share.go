// Package share hands an article link to whatever the host offers: a
// configured share command first, then the clipboard.
package share

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/pders01/newshub/internal/debuglog"
)

// ErrNoTarget is returned when no registered target is available.
var ErrNoTarget = errors.New("no share target available")

// Item is what gets shared.
type Item struct {
	Title string
	URL   string
}

// Text is the payload copied by clipboard targets.
func (i Item) Text() string {
	return i.URL
}

// Target is one way of sharing.
type Target interface {
	Name() string
	// Available reports whether the target can be used on this host.
	Available() bool
	Share(ctx context.Context, item Item) error
	// Priority orders targets; higher is tried first.
	Priority() int
	// Message is the status line shown after a successful share.
	Message() string
}

// Registry tries targets from highest priority down until one succeeds.
type Registry struct {
	targets []Target
}

func NewRegistry(targets ...Target) *Registry {
	r := &Registry{}
	for _, t := range targets {
		r.Register(t)
	}
	return r
}

func (r *Registry) Register(t Target) {
	r.targets = append(r.targets, t)
	sort.SliceStable(r.targets, func(i, j int) bool {
		return r.targets[i].Priority() > r.targets[j].Priority()
	})
}

// Targets returns registered targets in the order they are tried.
func (r *Registry) Targets() []Target {
	return append([]Target(nil), r.targets...)
}

// Share validates item and hands it to the first target that accepts it.
// It returns the target that succeeded.
func (r *Registry) Share(ctx context.Context, item Item) (Target, error) {
	if err := validateLink(item.URL); err != nil {
		return nil, err
	}

	var errs []error
	for _, t := range r.targets {
		if !t.Available() {
			continue
		}
		if err := t.Share(ctx, item); err != nil {
			debuglog.Warnf("share: %s failed: %v", t.Name(), err)
			errs = append(errs, fmt.Errorf("%s: %w", t.Name(), err))
			continue
		}
		debuglog.Infof("share: sent %q via %s", item.Title, t.Name())
		return t, nil
	}
	if len(errs) == 0 {
		return nil, ErrNoTarget
	}
	return nil, errors.Join(errs...)
}
