// Package validate checks user input before it reaches a store.
package validate

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/cryptodash/internal/models"
)

// MaxAmount is the largest accepted holding amount.
const MaxAmount = 1e15

// Default percentage bounds.
const (
	MinPercentage = -100.0
	MaxPercentage = 1000.0
)

// DefaultMaxDecimals is the decimal limit for numeric input fields.
const DefaultMaxDecimals = 8

var coinIDPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidationError reports field-level input problems.
type ValidationError struct {
	Fields map[string]string
}

// Error lists the field messages in field-name order.
func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field returns the message for a field, or "".
func (e *ValidationError) Field(name string) string {
	return e.Fields[name]
}

// collector accumulates field errors.
type collector map[string]string

func (c collector) check(field string, err error) {
	if err != nil {
		c[field] = err.Error()
	}
}

func (c collector) err() error {
	if len(c) == 0 {
		return nil
	}
	return &ValidationError{Fields: c}
}

// NewValidationError builds a single-field ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func positive(label string, v float64) error {
	switch {
	case math.IsNaN(v):
		return fmt.Errorf("%s must be a valid number", label)
	case v == 0:
		return fmt.Errorf("%s is required", label)
	case v < 0:
		return fmt.Errorf("%s must be greater than 0", label)
	case math.IsInf(v, 0):
		return fmt.Errorf("%s must be a finite number", label)
	}
	return nil
}

// Amount checks a holding quantity.
func Amount(v float64) error {
	if err := positive("Amount", v); err != nil {
		return err
	}
	if v > MaxAmount {
		return errors.New("Amount is too large")
	}
	return nil
}

// Price checks a unit price.
func Price(v float64) error {
	return positive("Price", v)
}

// ParseAmount parses and checks a typed amount.
func ParseAmount(raw string) (float64, error) {
	return parsePositive("Amount", raw, Amount)
}

// ParsePrice parses and checks a typed price.
func ParsePrice(raw string) (float64, error) {
	return parsePositive("Price", raw, Price)
}

func parsePositive(label, raw string, check func(float64) error) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", label)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil && !isRangeErr(err) {
		return 0, fmt.Errorf("%s must be a valid number", label)
	}
	if err := check(v); err != nil {
		return 0, err
	}
	return v, nil
}

func isRangeErr(err error) bool {
	var ne *strconv.NumError
	return errors.As(err, &ne) && errors.Is(ne.Err, strconv.ErrRange)
}

// CoinID checks a market-data coin identifier.
func CoinID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("Coin is required")
	}
	if !coinIDPattern.MatchString(id) {
		return errors.New("Invalid coin ID format")
	}
	return nil
}

// Date checks that d is set and not after now.
func Date(d, now time.Time) error {
	if d.IsZero() {
		return errors.New("Date is required")
	}
	if d.After(now) {
		return errors.New("Date cannot be in the future")
	}
	return nil
}

// Percentage checks v lies within [min, max].
func Percentage(v, min, max float64) error {
	if math.IsNaN(v) {
		return errors.New("Percentage must be a valid number")
	}
	if v < min || v > max {
		return fmt.Errorf("Percentage must be between %g%% and %g%%", min, max)
	}
	return nil
}

// SearchQuery checks a free-text coin search.
func SearchQuery(q string) error {
	if strings.TrimSpace(q) == "" {
		return errors.New("Search query cannot be empty")
	}
	if len(q) < 2 {
		return errors.New("Search query must be at least 2 characters")
	}
	if len(q) > 100 {
		return errors.New("Search query is too long")
	}
	return nil
}

// AlertPrice checks an alert target. A target within 0.1% of the current
// price is accepted with a warning.
func AlertPrice(target, current float64) (warning string, err error) {
	if err := Price(target); err != nil {
		return "", err
	}
	if current > 0 && math.Abs(target-current) < current*0.001 {
		return "Target price is very close to current price", nil
	}
	return "", nil
}

// PortfolioAsset checks a new holding. Field keys are coinId, amount, buyPrice and date.
func PortfolioAsset(in models.HoldingInput, now time.Time) error {
	c := collector{}
	c.check("coinId", CoinID(in.CoinID))
	c.check("amount", Amount(in.Amount))
	c.check("buyPrice", Price(in.BuyPrice))
	if in.PurchaseDate != nil {
		c.check("date", Date(in.PurchaseDate.Time, now))
	}
	return c.err()
}

// Alert checks a new alert. Field keys are coinId, type and targetPrice.
func Alert(in models.AlertInput) error {
	c := collector{}
	c.check("coinId", CoinID(in.CoinID))
	if !in.Type.Valid() {
		c["type"] = "Alert type must be price_above or price_below"
	}
	c.check("targetPrice", Price(in.TargetPrice))
	return c.err()
}

// NumericOptions controls NumericInput.
type NumericOptions struct {
	AllowDecimal  bool
	AllowNegative bool
	MaxDecimals   int
}

// DefaultNumericOptions allows up to 8 decimals and no sign.
func DefaultNumericOptions() NumericOptions {
	return NumericOptions{AllowDecimal: true, MaxDecimals: DefaultMaxDecimals}
}

// NumericInput reports whether value is an acceptable partial numeric entry.
// The empty string is accepted.
func NumericInput(value string, opts NumericOptions) bool {
	if value == "" {
		return true
	}
	pattern := "^"
	if opts.AllowNegative {
		pattern += "-?"
	}
	pattern += `\d*`
	if opts.AllowDecimal {
		pattern += fmt.Sprintf(`(\.\d{0,%d})?`, opts.MaxDecimals)
	}
	pattern += "$"
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(value)
}

// SanitizeNumericInput strips everything but digits, one decimal point and a
// leading minus, and truncates to maxDecimals.
func SanitizeNumericInput(value string, maxDecimals int) string {
	if value == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range value {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	s := b.String()

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		s = parts[0] + "." + strings.Join(parts[1:], "")
	} else if len(parts) == 2 && len(parts[1]) > maxDecimals {
		s = parts[0] + "." + parts[1][:maxDecimals]
	}

	switch n := strings.Count(s, "-"); {
	case n > 1:
		s = "-" + strings.ReplaceAll(s, "-", "")
	case n == 1 && !strings.HasPrefix(s, "-"):
		s = strings.Replace(s, "-", "", 1)
	}
	return s
}
