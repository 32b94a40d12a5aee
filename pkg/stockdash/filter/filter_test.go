package filter

import (
	"testing"

	"github.com/komsit37/stockdash/pkg/stockdash/types"
)

func TestParse(t *testing.T) {
	cases := []struct {
		expr  string
		code  string
		match bool
	}{
		{"", "ANY", true},
		{"aapl,msft", "MSFT", true},
		{"aapl,msft", "MS", false},
		{"cb*", "CBA", true},
		{"CB?", "CBAX", false},
		{"/^A/", "AAPL", true},
		{"/^A/", "MSFT", false},
		{"sf", "MSFT", true},
		{"zz", "MSFT", false},
	}
	for _, c := range cases {
		f, err := Parse(c.expr)
		if err != nil {
			t.Fatalf("Parse(%q): %v", c.expr, err)
		}
		if got := f.Match(c.code); got != c.match {
			t.Errorf("Parse(%q).Match(%q) = %v want %v", c.expr, c.code, got, c.match)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, expr := range []string{"/(/", "[a"} {
		if _, err := Parse(expr); err == nil {
			t.Errorf("Parse(%q) should fail", expr)
		}
	}
}

func TestApply(t *testing.T) {
	recs := []types.Record{
		{ID: 1, Fields: map[string]types.Value{"code": types.String("AAPL")}},
		{ID: 2, Fields: map[string]types.Value{"code": types.String("MSFT")}},
		{ID: 3, Fields: map[string]types.Value{"code": types.String("AMZN")}},
	}
	f, _ := Parse("a*")
	got := Apply(f, recs)
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("got %+v", got)
	}
	if len(Apply(nil, recs)) != 3 {
		t.Fatal("nil filter keeps everything")
	}
}
