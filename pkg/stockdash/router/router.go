// Package router maps the dashboard tabs to their URL paths.
package router

import (
	"fmt"
	"strings"
)

type Tab int

const (
	Stats Tab = iota
	Chart
	Strategy
)

var tabs = []struct {
	name string
	path string
}{
	{"Stats", "/stats"},
	{"Chart", "/chart"},
	{"Strategy", "/strategy"},
}

// Tabs lists every tab in display order.
func Tabs() []Tab { return []Tab{Stats, Chart, Strategy} }

func (t Tab) valid() bool { return t >= 0 && int(t) < len(tabs) }

func (t Tab) String() string {
	if !t.valid() {
		return fmt.Sprintf("Tab(%d)", int(t))
	}
	return tabs[t].name
}

// Path returns the URL path of t.
func (t Tab) Path() string {
	if !t.valid() {
		return ""
	}
	return tabs[t].path
}

// FromPath returns the tab for path. Unknown paths and "/" select Stats.
func FromPath(path string) Tab {
	p := strings.ToLower(strings.TrimSpace(path))
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = "/" + strings.Trim(p, "/")
	for i, t := range tabs {
		if t.path == p {
			return Tab(i)
		}
	}
	return Stats
}

// Router holds the single selected tab.
type Router struct {
	current Tab
}

func New(path string) *Router { return &Router{current: FromPath(path)} }

func (r *Router) Current() Tab { return r.current }

// Select switches to tab and returns its path.
func (r *Router) Select(t Tab) (string, error) {
	if !t.valid() {
		return "", fmt.Errorf("select tab: index %d out of range [0,%d)", int(t), len(tabs))
	}
	r.current = t
	return t.Path(), nil
}

// Next moves to the following tab, wrapping around.
func (r *Router) Next() Tab {
	r.current = Tab((int(r.current) + 1) % len(tabs))
	return r.current
}

// Prev moves to the preceding tab, wrapping around.
func (r *Router) Prev() Tab {
	r.current = Tab((int(r.current) + len(tabs) - 1) % len(tabs))
	return r.current
}
