package metrics

import "strings"

// categories maps each category to its member keys in registry order.
var categories, categoryOrder = func() (map[string][]string, []string) {
	sets := map[string][]string{}
	var order []string
	for _, mt := range registry {
		c := mt.def.Category
		if _, ok := sets[c]; !ok {
			order = append(order, c)
		}
		sets[c] = append(sets[c], mt.def.Key)
	}
	return sets, order
}()

// Categories returns category names in display order.
func Categories() []string {
	return append([]string(nil), categoryOrder...)
}

// Members returns the metric keys of category and whether it exists.
func Members(category string) ([]string, bool) {
	keys, ok := categories[category]
	if !ok {
		return nil, false
	}
	return append([]string(nil), keys...), true
}

// ExpandCategories returns the union of metric keys for the given categories.
// It preserves category order and member order, keeping the first occurrence
// of each key.
func ExpandCategories(names []string) ([]string, error) {
	out := make([]string, 0, 16)
	seen := map[string]struct{}{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		keys, ok := categories[name]
		if !ok {
			return nil, &UnknownCategoryError{Name: name, Available: Categories()}
		}
		for _, k := range keys {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	return out, nil
}

// Compute returns the final column order for an explicit key list: registry
// order when explicit is empty, otherwise explicit order with duplicates removed.
// Unknown keys are reported as a ConfigurationError.
func Compute(explicit []string) ([]string, error) {
	if len(explicit) == 0 {
		return Order(), nil
	}
	seen := map[string]struct{}{}
	out := make([]string, 0, len(explicit))
	for _, k := range explicit {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if !Known(k) {
			return nil, &ConfigurationError{Op: "columns", Kind: "metric", Key: k}
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out, nil
}
