// Package visibility tracks which metrics are shown in the stats table.
package visibility

import (
	"github.com/komsit37/stockdash/pkg/stockdash/metrics"
)

// State maps every known metric key to whether it is shown.
type State map[string]bool

// Lookup returns the visibility of key and whether key has an entry.
func (s State) Lookup(key string) (visible, ok bool) {
	visible, ok = s[key]
	return visible, ok
}

// Controller owns a State seeded with one entry per registered metric.
type Controller struct {
	state State
}

// New returns a controller with the given keys visible and every other
// registered metric hidden.
func New(visible []string) (*Controller, error) {
	c := &Controller{state: make(State)}
	for _, k := range metrics.Order() {
		c.state[k] = false
	}
	for _, k := range visible {
		if err := c.set("new", k, true); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// NewDefault returns a controller showing metrics.DefaultVisible.
func NewDefault() *Controller {
	c, err := New(metrics.DefaultVisible)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Controller) set(op, key string, v bool) error {
	if _, ok := c.state[key]; !ok {
		return &metrics.ConfigurationError{Op: op, Kind: "metric", Key: key}
	}
	c.state[key] = v
	return nil
}

// ToggleMetric flips the visibility of key.
func (c *Controller) ToggleMetric(key string) error {
	cur, ok := c.state[key]
	if !ok {
		return &metrics.ConfigurationError{Op: "toggle metric", Kind: "metric", Key: key}
	}
	c.state[key] = !cur
	return nil
}

// ToggleCategory hides every member of category when all of them are visible,
// otherwise shows all of them. A partially visible category becomes fully
// visible.
func (c *Controller) ToggleCategory(category string) error {
	keys, ok := metrics.Members(category)
	if !ok {
		return &metrics.ConfigurationError{Op: "toggle category", Kind: "category", Key: category}
	}
	show := !c.allVisible(keys)
	for _, k := range keys {
		c.state[k] = show
	}
	return nil
}

// IsCategoryFullyVisible reports whether every member of category is visible.
func (c *Controller) IsCategoryFullyVisible(category string) (bool, error) {
	keys, ok := metrics.Members(category)
	if !ok {
		return false, &metrics.ConfigurationError{Op: "category visibility", Kind: "category", Key: category}
	}
	return c.allVisible(keys), nil
}

func (c *Controller) allVisible(keys []string) bool {
	for _, k := range keys {
		if !c.state[k] {
			return false
		}
	}
	return true
}

// Show makes every key visible. It stops at the first unknown key.
func (c *Controller) Show(keys ...string) error {
	for _, k := range keys {
		if err := c.set("show", k, true); err != nil {
			return err
		}
	}
	return nil
}

// Hide makes every key hidden. It stops at the first unknown key.
func (c *Controller) Hide(keys ...string) error {
	for _, k := range keys {
		if err := c.set("hide", k, false); err != nil {
			return err
		}
	}
	return nil
}

// Apply replaces the visible set with exactly keys.
func (c *Controller) Apply(keys []string) error {
	for _, k := range keys {
		if _, ok := c.state[k]; !ok {
			return &metrics.ConfigurationError{Op: "apply", Kind: "metric", Key: k}
		}
	}
	for k := range c.state {
		c.state[k] = false
	}
	for _, k := range keys {
		c.state[k] = true
	}
	return nil
}

// Visible reports whether key is shown.
func (c *Controller) Visible(key string) (bool, error) {
	v, ok := c.state[key]
	if !ok {
		return false, &metrics.ConfigurationError{Op: "visible", Kind: "metric", Key: key}
	}
	return v, nil
}

// VisibleKeys filters order down to the visible keys, keeping its order.
func (c *Controller) VisibleKeys(order []string) []string {
	out := make([]string, 0, len(order))
	for _, k := range order {
		if c.state[k] {
			out = append(out, k)
		}
	}
	return out
}

// State returns a copy of the current visibility map.
func (c *Controller) State() State {
	out := make(State, len(c.state))
	for k, v := range c.state {
		out[k] = v
	}
	return out
}
