package metrics

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/komsit37/stockdash/pkg/stockdash/types"
)

// NotAvailable is shown for null values.
const NotAvailable = "N/A"

var (
	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
	hundred  = decimal.NewFromInt(100)
)

// Format renders v according to the rule registered for key.
// Unknown keys fall back to the decimal rule. Strings under a numeric rule
// pass through unchanged.
func Format(key string, v types.Value) string {
	if v.IsNull() {
		return NotAvailable
	}
	rule, _ := RuleFor(key)
	if s, ok := v.Text(); ok {
		return s
	}
	f, _ := v.Float()
	switch rule {
	case RuleLiteral:
		return v.String()
	case RuleCurrency:
		return "$" + FormatDecimal(f)
	case RuleScaledCurrency:
		return FormatScaled(f)
	case RulePercent:
		return FormatPercent(f)
	default:
		return FormatDecimal(f)
	}
}

// FormatScaled renders a value denominated in millions with a suffix chosen
// by the number of integer digits of |f|: more than six divides by 1e6 and
// appends "T", more than three divides by 1e3 and appends "B", otherwise the
// value is shown unscaled with "M".
//
// TODO: confirm with the API owners that every scaled metric is reported in
// millions; the suffixes are wrong for any total sent in plain units.
func FormatScaled(f float64) string {
	d := decimal.NewFromFloat(f)
	switch n := integerDigits(f); {
	case n > 6:
		return "$" + d.Div(million).StringFixed(2) + "T"
	case n > 3:
		return "$" + d.Div(thousand).StringFixed(2) + "B"
	default:
		return "$" + d.StringFixed(2) + "M"
	}
}

// FormatPercent renders a ratio as a percentage with two decimals.
func FormatPercent(f float64) string {
	return decimal.NewFromFloat(f).Mul(hundred).StringFixed(2) + "%"
}

// FormatDecimal renders f with comma thousand separators and at most two
// fraction digits, dropping trailing zeros.
func FormatDecimal(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return NotAvailable
	}
	s := decimal.NewFromFloat(f).Round(2).String()
	return commaInt(s)
}

func integerDigits(f float64) int {
	return len(strconv.FormatFloat(math.Trunc(math.Abs(f)), 'f', 0, 64))
}

// commaInt inserts thousand separators into the integer part of a plain
// decimal string.
func commaInt(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, frac = s[:dot], s[dot:]
	}
	n := len(intPart)
	if n <= 3 {
		return sign + intPart + frac
	}
	out := make([]byte, 0, n+n/3)
	rem := n % 3
	if rem == 0 {
		rem = 3
	}
	out = append(out, intPart[:rem]...)
	for i := rem; i < n; i += 3 {
		out = append(out, ',')
		out = append(out, intPart[i:i+3]...)
	}
	return sign + string(out) + frac
}
