package validate

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/cryptodash/internal/models"
)

func TestAmount(t *testing.T) {
	assert.NoError(t, Amount(0.5))
	assert.EqualError(t, Amount(0), "Amount is required")
	assert.EqualError(t, Amount(-1), "Amount must be greater than 0")
	assert.EqualError(t, Amount(math.NaN()), "Amount must be a valid number")
	assert.EqualError(t, Amount(math.Inf(1)), "Amount must be a finite number")
	assert.EqualError(t, Amount(2e15), "Amount is too large")
}

func TestPrice_HasNoUpperBound(t *testing.T) {
	assert.NoError(t, Price(2e15))
	assert.EqualError(t, Price(0), "Price is required")
}

func TestParseAmount(t *testing.T) {
	v, err := ParseAmount(" 1.25 ")
	require.NoError(t, err)
	assert.Equal(t, 1.25, v)

	_, err = ParseAmount("")
	assert.EqualError(t, err, "Amount is required")
	_, err = ParseAmount("abc")
	assert.EqualError(t, err, "Amount must be a valid number")
	_, err = ParseAmount("1e400")
	assert.EqualError(t, err, "Amount must be a finite number")

	_, err = ParsePrice("-3")
	assert.EqualError(t, err, "Price must be greater than 0")
}

func TestCoinID(t *testing.T) {
	assert.NoError(t, CoinID("bitcoin"))
	assert.NoError(t, CoinID("usd-coin"))
	assert.EqualError(t, CoinID("  "), "Coin is required")
	assert.EqualError(t, CoinID("Bitcoin"), "Invalid coin ID format")
	assert.EqualError(t, CoinID("bit coin"), "Invalid coin ID format")
}

func TestDate(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, Date(now.Add(-time.Hour), now))
	assert.EqualError(t, Date(time.Time{}, now), "Date is required")
	assert.EqualError(t, Date(now.Add(time.Hour), now), "Date cannot be in the future")
}

func TestPercentageAndSearch(t *testing.T) {
	assert.NoError(t, Percentage(50, MinPercentage, MaxPercentage))
	assert.EqualError(t, Percentage(-101, MinPercentage, MaxPercentage), "Percentage must be between -100% and 1000%")

	assert.NoError(t, SearchQuery("btc"))
	assert.Error(t, SearchQuery("b"))
	assert.Error(t, SearchQuery(""))
	assert.Error(t, SearchQuery(string(make([]byte, 101))))
}

func TestAlertPrice_WarnsNearCurrent(t *testing.T) {
	warning, err := AlertPrice(50010, 50000)
	require.NoError(t, err)
	assert.NotEmpty(t, warning)

	warning, err = AlertPrice(60000, 50000)
	require.NoError(t, err)
	assert.Empty(t, warning)

	_, err = AlertPrice(0, 50000)
	assert.Error(t, err)
}

func TestPortfolioAsset_CollectsFields(t *testing.T) {
	now := time.Now()
	future := models.NewDate(now.Add(48 * time.Hour))
	err := PortfolioAsset(models.HoldingInput{CoinID: "BTC", Amount: 0, BuyPrice: -1, PurchaseDate: &future}, now)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Invalid coin ID format", verr.Field("coinId"))
	assert.Equal(t, "Amount is required", verr.Field("amount"))
	assert.Equal(t, "Price must be greater than 0", verr.Field("buyPrice"))
	assert.Equal(t, "Date cannot be in the future", verr.Field("date"))
	assert.Equal(t,
		"validation failed: amount: Amount is required; buyPrice: Price must be greater than 0; coinId: Invalid coin ID format; date: Date cannot be in the future",
		verr.Error())

	assert.NoError(t, PortfolioAsset(models.HoldingInput{CoinID: "bitcoin", Amount: 1, BuyPrice: 100}, now))
}

func TestAlert(t *testing.T) {
	assert.NoError(t, Alert(models.AlertInput{CoinID: "bitcoin", Type: models.AlertPriceAbove, TargetPrice: 1}))

	var verr *ValidationError
	require.ErrorAs(t, Alert(models.AlertInput{CoinID: "bitcoin", Type: "sideways", TargetPrice: 1}), &verr)
	assert.Contains(t, verr.Fields, "type")
}

func TestNumericInput(t *testing.T) {
	opts := DefaultNumericOptions()
	assert.True(t, NumericInput("", opts))
	assert.True(t, NumericInput("12.12345678", opts))
	assert.False(t, NumericInput("12.123456789", opts))
	assert.False(t, NumericInput("-1", opts))
	assert.False(t, NumericInput("1a", opts))

	opts.AllowNegative = true
	assert.True(t, NumericInput("-1.5", opts))
}

func TestSanitizeNumericInput(t *testing.T) {
	assert.Equal(t, "", SanitizeNumericInput("", 8))
	assert.Equal(t, "1234.5", SanitizeNumericInput("$1,234.5", 8))
	assert.Equal(t, "1.234", SanitizeNumericInput("1.2.3.4", 8))
	assert.Equal(t, "0.12", SanitizeNumericInput("0.123456", 2))
	assert.Equal(t, "-12", SanitizeNumericInput("-1-2", 8))
	assert.Equal(t, "12", SanitizeNumericInput("1-2", 8))
}
