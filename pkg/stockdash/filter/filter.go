// Package filter selects stock records by code.
package filter

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/komsit37/stockdash/pkg/stockdash/types"
)

// Filter matches a stock code.
type Filter interface {
	Match(code string) bool
}

// Parse builds a filter from an expression:
// - Comma-separated exact codes: "AAPL,MSFT" (case-insensitive)
// - Glob: "CB*"
// - Regex: "/^A/"
// - Anything else: case-insensitive substring
func Parse(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Always(true), nil
	}
	if strings.HasPrefix(expr, "/") && strings.HasSuffix(expr, "/") && len(expr) > 2 {
		re, err := regexp.Compile(expr[1 : len(expr)-1])
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", expr, err)
		}
		return Regex{re: re}, nil
	}
	if strings.Contains(expr, ",") {
		set := map[string]struct{}{}
		for _, p := range strings.Split(expr, ",") {
			p = strings.ToUpper(strings.TrimSpace(p))
			if p == "" {
				continue
			}
			set[p] = struct{}{}
		}
		return ExactSet{set: set}, nil
	}
	if strings.ContainsAny(expr, "*?[") {
		if _, err := filepath.Match(expr, ""); err != nil {
			return nil, fmt.Errorf("filter %q: %w", expr, err)
		}
		return Glob{pattern: strings.ToUpper(expr)}, nil
	}
	return SubstrCI{needle: expr}, nil
}

// Apply returns the records whose code f matches, in input order.
func Apply(f Filter, records []types.Record) []types.Record {
	if f == nil {
		return records
	}
	out := make([]types.Record, 0, len(records))
	for _, r := range records {
		if f.Match(r.Code()) {
			out = append(out, r)
		}
	}
	return out
}

type Always bool

func (a Always) Match(string) bool { return bool(a) }

type ExactSet struct{ set map[string]struct{} }

func (e ExactSet) Match(code string) bool {
	_, ok := e.set[strings.ToUpper(code)]
	return ok
}

type Glob struct{ pattern string }

func (g Glob) Match(code string) bool {
	ok, _ := filepath.Match(g.pattern, strings.ToUpper(code))
	return ok
}

type Regex struct{ re *regexp.Regexp }

func (r Regex) Match(code string) bool { return r.re.MatchString(code) }

func (g Glob) String() string  { return fmt.Sprintf("glob:%s", g.pattern) }
func (r Regex) String() string { return fmt.Sprintf("regex:%s", r.re) }

// SubstrCI matches if code contains needle, case-insensitively.
type SubstrCI struct{ needle string }

func (s SubstrCI) Match(code string) bool {
	return strings.Contains(strings.ToLower(code), strings.ToLower(s.needle))
}

func (s SubstrCI) String() string { return fmt.Sprintf("substr-ci:%s", s.needle) }
