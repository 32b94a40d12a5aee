package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/komsit37/stockdash/pkg/stockdash/types"
)

// DefaultCountry is used for stocks that name no country.
const DefaultCountry = "US"

// YAMLSource loads watchlists from a YAML file or a directory of them.
type YAMLSource struct{}

// Load expects spec to be a path. Lists without a name are named after their
// file; lists loaded from a directory are prefixed with the file's path
// relative to it.
func (YAMLSource) Load(ctx context.Context, spec any) ([]types.Watchlist, error) { //nolint:revive // ctx reserved for future use
	root, ok := spec.(string)
	if !ok {
		return nil, fmt.Errorf("yaml source: want a path, got %T", spec)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		lists, err := loadFile(root)
		if err != nil {
			return nil, err
		}
		return nameLists(lists, stem(filepath.Base(root)), false), nil
	}

	files, err := yamlFiles(root)
	if err != nil {
		return nil, err
	}
	var all []types.Watchlist
	for _, file := range files {
		lists, err := loadFile(file)
		if err != nil {
			return nil, err
		}
		rel, err := filepath.Rel(root, file)
		if err != nil {
			rel = filepath.Base(file)
		}
		all = append(all, nameLists(lists, filepath.ToSlash(stem(rel)), true)...)
	}
	return all, nil
}

func stem(name string) string { return strings.TrimSuffix(name, filepath.Ext(name)) }

// nameLists fills empty names with base, and with prefix also nests the
// named lists under base.
func nameLists(lists []types.Watchlist, base string, prefix bool) []types.Watchlist {
	for i := range lists {
		switch name := strings.TrimSpace(lists[i].Name); {
		case name == "":
			lists[i].Name = base
		case prefix && base != "":
			lists[i].Name = base + "/" + name
		}
	}
	return lists
}

// yamlFiles returns the .yaml and .yml files under root in lexical order.
func yamlFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		switch strings.ToLower(filepath.Ext(p)) {
		case ".yaml", ".yml":
			files = append(files, p)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

func loadFile(path string) ([]types.Watchlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lists, err := parseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lists, nil
}

type watchFile struct {
	Columns    []string `yaml:"columns"`
	Categories []string `yaml:"categories"`
	Country    string   `yaml:"country"`
	Stocks     []entry  `yaml:"stocks"`
}

// entry is either a stock or a named group of entries. A bare scalar is a
// stock code.
type entry struct {
	Name    string  `yaml:"name"`
	Code    string  `yaml:"code"`
	Country string  `yaml:"country"`
	Stocks  []entry `yaml:"stocks"`
}

func (e *entry) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		e.Code = n.Value
		return nil
	}
	type plain entry
	var p plain
	if err := n.Decode(&p); err != nil {
		return err
	}
	*e = entry(p)
	return nil
}

// parseYAML parses one watch file. Stocks at the top level form an unnamed
// list; every group forms a list named by its path of group names. Groups
// pass their country down to stocks that name none.
func parseYAML(data []byte) ([]types.Watchlist, error) {
	var wf watchFile
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, err
	}
	if wf.Stocks == nil {
		if len(wf.Columns) == 0 && len(wf.Categories) == 0 {
			return nil, fmt.Errorf("invalid yaml: expected 'stocks', 'columns' or 'categories'")
		}
		// Preset only.
		return []types.Watchlist{{Columns: wf.Columns, Categories: wf.Categories}}, nil
	}
	country := wf.Country
	if country == "" {
		country = DefaultCountry
	}

	var lists []types.Watchlist
	var walk func(entries []entry, path []string, country string) error
	walk = func(entries []entry, path []string, country string) error {
		var stocks []types.StockRequest
		for _, e := range entries {
			if e.Stocks != nil {
				continue
			}
			code := strings.ToUpper(strings.TrimSpace(e.Code))
			if code == "" {
				return fmt.Errorf("invalid yaml: entry in %q has neither code nor stocks", strings.Join(path, "/"))
			}
			c := strings.ToUpper(strings.TrimSpace(e.Country))
			if c == "" {
				c = country
			}
			stocks = append(stocks, types.StockRequest{Code: code, Country: c})
		}
		if len(stocks) > 0 {
			lists = append(lists, types.Watchlist{
				Name:       strings.Join(path, "/"),
				Columns:    append([]string(nil), wf.Columns...),
				Categories: append([]string(nil), wf.Categories...),
				Stocks:     stocks,
			})
		}
		for _, e := range entries {
			if e.Stocks == nil {
				continue
			}
			next := path
			if name := strings.TrimSpace(e.Name); name != "" {
				next = append(append([]string(nil), path...), name)
			}
			c := country
			if e.Country != "" {
				c = strings.ToUpper(strings.TrimSpace(e.Country))
			}
			if err := walk(e.Stocks, next, c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(wf.Stocks, nil, strings.ToUpper(country)); err != nil {
		return nil, err
	}
	return lists, nil
}
