package visibility

import (
	"errors"
	"testing"

	"github.com/komsit37/stockdash/pkg/stockdash/metrics"
)

func fullyVisible(t *testing.T, c *Controller, category string) bool {
	t.Helper()
	ok, err := c.IsCategoryFullyVisible(category)
	if err != nil {
		t.Fatal(err)
	}
	return ok
}

func TestDefaultsHaveEntryPerMetric(t *testing.T) {
	c := NewDefault()
	st := c.State()
	if len(st) != len(metrics.Registry()) {
		t.Fatalf("state has %d entries, registry %d", len(st), len(metrics.Registry()))
	}
	for _, k := range metrics.DefaultVisible {
		if !st[k] {
			t.Fatalf("default %q should be visible", k)
		}
	}
	if st["marketCap"] {
		t.Fatal("marketCap should start hidden")
	}
}

func TestToggleCategoryRoundTrip(t *testing.T) {
	c := NewDefault()
	cat := metrics.CategoryDividend
	if err := c.ToggleCategory(cat); err != nil {
		t.Fatal(err)
	}
	if !fullyVisible(t, c, cat) {
		t.Fatal("hidden category should become fully visible")
	}
	if err := c.ToggleCategory(cat); err != nil {
		t.Fatal(err)
	}
	keys, _ := metrics.Members(cat)
	for _, k := range keys {
		if v, _ := c.Visible(k); v {
			t.Fatalf("%q should be hidden after second toggle", k)
		}
	}
	if err := c.ToggleCategory(cat); err != nil {
		t.Fatal(err)
	}
	if !fullyVisible(t, c, cat) {
		t.Fatal("third toggle should show the category again")
	}
}

func TestToggleCategoryPartialBecomesFull(t *testing.T) {
	c := NewDefault()
	cat := metrics.CategoryPrice
	// Default shows "price" only: a partially visible category.
	if fullyVisible(t, c, cat) {
		t.Fatal("price category should start partial")
	}
	if err := c.ToggleCategory(cat); err != nil {
		t.Fatal(err)
	}
	if !fullyVisible(t, c, cat) {
		t.Fatal("partial category should become fully visible, not hidden")
	}

	// Hide one member of a full category, toggle, expect full again.
	if err := c.ToggleMetric("marketCap"); err != nil {
		t.Fatal(err)
	}
	if err := c.ToggleCategory(cat); err != nil {
		t.Fatal(err)
	}
	if !fullyVisible(t, c, cat) {
		t.Fatal("category with one hidden metric should become fully visible")
	}
}

func TestToggleCategoryLeavesOtherCategories(t *testing.T) {
	c := NewDefault()
	before := c.State()
	if err := c.ToggleCategory(metrics.CategoryCashFlow); err != nil {
		t.Fatal(err)
	}
	after := c.State()
	members, _ := metrics.Members(metrics.CategoryCashFlow)
	in := map[string]bool{}
	for _, k := range members {
		in[k] = true
	}
	for k, v := range before {
		if !in[k] && after[k] != v {
			t.Fatalf("%q changed outside toggled category", k)
		}
	}
}

func TestUnknownKeysAreConfigurationErrors(t *testing.T) {
	c := NewDefault()
	var ce *metrics.ConfigurationError
	if err := c.ToggleMetric("nope"); !errors.As(err, &ce) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if err := c.ToggleCategory("Valuation Ratios"); !errors.As(err, &ce) || ce.Kind != "category" {
		t.Fatalf("expected category ConfigurationError, got %v", err)
	}
	if _, err := c.IsCategoryFullyVisible("nope"); err == nil {
		t.Fatal("expected error")
	}
	if _, err := New([]string{"code", "nope"}); err == nil {
		t.Fatal("expected error for unknown default")
	}
	before := c.State()
	_ = c.ToggleMetric("nope")
	if len(c.State()) != len(before) {
		t.Fatal("unknown toggle must not add entries")
	}
}

func TestApplyAndVisibleKeys(t *testing.T) {
	c := NewDefault()
	if err := c.Apply([]string{"price", "eps"}); err != nil {
		t.Fatal(err)
	}
	got := c.VisibleKeys(metrics.Order())
	if len(got) != 2 || got[0] != "price" || got[1] != "eps" {
		t.Fatalf("visible keys %v", got)
	}
	if err := c.Apply([]string{"bogus"}); err == nil {
		t.Fatal("expected error")
	}
	if got := c.VisibleKeys(metrics.Order()); len(got) != 2 {
		t.Fatalf("failed Apply must not change state, got %v", got)
	}
}
