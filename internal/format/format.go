// Package format renders prices, amounts and times for display.
//
// Non-finite inputs (NaN, ±Inf) never leak into output: every function
// renders them as its zero string.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// currency returns the go-money currency for code. Codes go-money does not
// know (btc, eth) get a plain "CODE " prefix with two decimals.
func currency(code string) money.Currency {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = money.USD
	}
	if c := money.GetCurrency(code); c != nil {
		return *c
	}
	return money.Currency{Code: code, Fraction: 2, Grapheme: code + " ", Template: "$1", Decimal: ".", Thousand: ","}
}

// symbol is the prefix used for abbreviated amounts.
func symbol(code string) string {
	return currency(code).Grapheme
}

// fixed rounds half away from zero to the given number of decimals.
func fixed(v float64, decimals int) string {
	return decimal.NewFromFloat(v).StringFixed(int32(decimals))
}

func amount(v float64, code string, decimals int) string {
	c := currency(code)
	f := money.NewFormatter(decimals, c.Decimal, c.Thousand, c.Grapheme, c.Template)
	minor := decimal.NewFromFloat(v).Shift(int32(decimals)).Round(0).IntPart()
	return f.Format(minor)
}

// abbreviate renders v with a K/M/B (and T when withTrillions) suffix when
// it is at least 1e3. It reports false for smaller values.
func abbreviate(v float64, prefix string, withTrillions bool) (string, bool) {
	sign := ""
	if v < 0 {
		sign = "-"
	}
	abs := math.Abs(v)
	switch {
	case withTrillions && abs >= 1e12:
		return sign + prefix + fixed(abs/1e12, 2) + "T", true
	case abs >= 1e9:
		return sign + prefix + fixed(abs/1e9, 2) + "B", true
	case abs >= 1e6:
		return sign + prefix + fixed(abs/1e6, 2) + "M", true
	case abs >= 1e3:
		return sign + prefix + fixed(abs/1e3, 2) + "K", true
	}
	return "", false
}

// Currency formats a price. Values below one cent show six decimals and
// values of a thousand or more are abbreviated.
func Currency(v float64, code string) string {
	return CurrencyDecimals(v, code, 2)
}

// CurrencyDecimals is Currency with an explicit number of decimals for
// values that are neither tiny nor abbreviated.
func CurrencyDecimals(v float64, code string, decimals int) string {
	if !finite(v) {
		return amount(0, code, 2)
	}
	if v != 0 && math.Abs(v) < 0.01 {
		return amount(v, code, 6)
	}
	if s, ok := abbreviate(v, symbol(code), false); ok {
		return s
	}
	return amount(v, code, decimals)
}

// MarketCap formats a large currency amount with K/M/B/T suffixes.
func MarketCap(v float64, code string) string {
	if !finite(v) {
		return "N/A"
	}
	if s, ok := abbreviate(v, symbol(code), true); ok {
		return s
	}
	return Currency(v, code)
}

// Volume formats a traded volume; small volumes have no decimals.
func Volume(v float64, code string) string {
	if !finite(v) {
		return symbol(code) + "0"
	}
	if s, ok := abbreviate(v, symbol(code), false); ok {
		return s
	}
	return CurrencyDecimals(v, code, 0)
}

// Percent formats a percentage with an explicit + for gains.
func Percent(v float64, decimals int) string {
	if !finite(v) {
		return fixed(0, decimals) + "%"
	}
	sign := ""
	if v > 0 {
		sign = "+"
	}
	return sign + fixed(v, decimals) + "%"
}

// Number formats v with thousands separators and fixed decimals.
func Number(v float64, decimals int) string {
	if !finite(v) {
		v = 0
	}
	s := fixed(v, decimals)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, hasFrac := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if hasFrac {
		out += "." + frac
	}
	if neg && strings.Trim(out, "0.,") != "" {
		out = "-" + out
	}
	return out
}

// CryptoAmount formats a coin quantity with precision suited to its size.
func CryptoAmount(v float64, maxDecimals int) string {
	if !finite(v) {
		return "0"
	}
	abs := math.Abs(v)
	switch {
	case v != 0 && abs < 0.000001:
		return fixed(v, maxDecimals)
	case abs < 1:
		return fixed(v, 6)
	case abs >= 1000:
		return Number(v, 2)
	}
	return Number(v, 4)
}

// Supply formats a coin supply without a currency symbol.
func Supply(v float64) string {
	if !finite(v) {
		return "N/A"
	}
	if s, ok := abbreviate(v, "", false); ok && v > 0 {
		return s
	}
	return Number(v, 0)
}

var timeUnits = []struct {
	name    string
	seconds int64
}{
	{"year", 31536000},
	{"month", 2592000},
	{"week", 604800},
	{"day", 86400},
	{"hour", 3600},
	{"minute", 60},
}

// TimeAgo renders t relative to now, e.g. "2 hours ago".
func TimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	seconds := int64(now.Sub(t) / time.Second)
	for _, u := range timeUnits {
		if n := seconds / u.seconds; n >= 1 {
			if n > 1 {
				return fmt.Sprintf("%d %ss ago", n, u.name)
			}
			return fmt.Sprintf("%d %s ago", n, u.name)
		}
	}
	return "Just now"
}

// Date renders t as "Jan 2, 2006".
func Date(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("Jan 2, 2006")
}

// ShortenAddress keeps the first start and last end characters of address.
func ShortenAddress(address string, start, end int) string {
	if len(address) <= start+end {
		return address
	}
	return address[:start] + "..." + address[len(address)-end:]
}
