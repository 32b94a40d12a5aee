package metrics

import (
	"errors"
	"sort"
	"testing"
)

func TestRegistryKeysUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, d := range Registry() {
		if seen[d.Key] {
			t.Fatalf("duplicate metric key %q", d.Key)
		}
		seen[d.Key] = true
		if d.DisplayName == "" || d.Category == "" {
			t.Fatalf("metric %q missing name or category", d.Key)
		}
	}
}

func TestCategoriesAreContiguous(t *testing.T) {
	// Each category's members must appear as one block in display order.
	order := Order()
	pos := map[string]int{}
	for i, k := range order {
		pos[k] = i
	}
	for _, c := range Categories() {
		keys, ok := Members(c)
		if !ok || len(keys) == 0 {
			t.Fatalf("category %q has no members", c)
		}
		for i := 1; i < len(keys); i++ {
			if pos[keys[i]] != pos[keys[i-1]]+1 {
				t.Fatalf("category %q is not contiguous at %q", c, keys[i])
			}
		}
	}
}

func TestExpandCategories(t *testing.T) {
	got, err := ExpandCategories([]string{CategoryDividend, " ", CategoryDividend, CategoryIdentifier})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"dividendYield", "dividendRate", "exDivDate", "payoutRatio", "code", "country"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestExpandCategoriesUnknown(t *testing.T) {
	_, err := ExpandCategories([]string{"Valuation Ratios"})
	var uce *UnknownCategoryError
	if !errors.As(err, &uce) {
		t.Fatalf("expected UnknownCategoryError, got %v", err)
	}
	var ce *ConfigurationError
	if !errors.As(err, &ce) || ce.Kind != "category" {
		t.Fatalf("expected wrapped ConfigurationError, got %v", err)
	}
	avail := append([]string(nil), uce.Available...)
	sort.Strings(avail)
	if len(avail) != len(Categories()) {
		t.Fatalf("available list incomplete: %v", avail)
	}
}

func TestCompute(t *testing.T) {
	got, err := Compute([]string{"price", "code", "price"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "price" || got[1] != "code" {
		t.Fatalf("unexpected order %v", got)
	}
	all, err := Compute(nil)
	if err != nil || len(all) != len(Registry()) {
		t.Fatalf("expected full registry order, got %d err=%v", len(all), err)
	}
	if _, err := Compute([]string{"bogus"}); err == nil {
		t.Fatal("expected error for unknown column")
	}
}
