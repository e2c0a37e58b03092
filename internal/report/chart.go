package report

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/cryptodash/internal/models"
)

var (
	gainColor = drawing.ColorFromHex("16a34a") // green-600
	lossColor = drawing.ColorFromHex("dc2626") // red-600
)

func trendColor(values []float64) drawing.Color {
	if values[len(values)-1] < values[0] {
		return lossColor
	}
	return gainColor
}

// flatRange pads a constant series so the axis range is never zero.
func flatRange(values []float64) *chart.ContinuousRange {
	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo != hi {
		return nil
	}
	return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
}

// SparklinePNG renders the 7-day sparkline of coin as a small PNG.
func SparklinePNG(coin models.CoinMarket) ([]byte, error) {
	if coin.SparklineIn7d == nil || len(coin.SparklineIn7d.Price) < 2 {
		return nil, fmt.Errorf("no sparkline data for %s", coin.ID)
	}
	prices := coin.SparklineIn7d.Price

	xs := make([]float64, len(prices))
	for i := range prices {
		xs[i] = float64(i)
	}

	graph := chart.Chart{
		Width:  320,
		Height: 96,
		Background: chart.Style{
			Padding: chart.Box{Top: 8, Left: 8, Right: 8, Bottom: 8},
		},
		XAxis: chart.XAxis{
			ValueFormatter: func(v interface{}) string { return "" },
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string { return "" },
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name: coin.Name,
				Style: chart.Style{
					StrokeColor: trendColor(prices),
					StrokeWidth: 2,
				},
				XValues: xs,
				YValues: prices,
			},
		},
	}
	if r := flatRange(prices); r != nil {
		graph.YAxis.Range = r
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("sparkline render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// PriceChartPNG renders a market chart price series with a dated x axis.
func PriceChartPNG(title string, mc *models.MarketChart) ([]byte, error) {
	if mc == nil || len(mc.Prices) < 2 {
		n := 0
		if mc != nil {
			n = len(mc.Prices)
		}
		return nil, fmt.Errorf("need at least 2 data points, got %d", n)
	}
	times, prices := mc.PriceSeries()

	graph := chart.Chart{
		Title:  title,
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 02")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.2f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: "Price",
				Style: chart.Style{
					StrokeColor: trendColor(prices),
					StrokeWidth: 2.5,
				},
				XValues: times,
				YValues: prices,
			},
		},
	}
	if r := flatRange(prices); r != nil {
		graph.YAxis.Range = r
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// ChartDays clamps a day count to the windows the market chart endpoint serves.
func ChartDays(d int) int {
	switch {
	case d <= 1:
		return 1
	case d <= 7:
		return 7
	case d <= 30:
		return 30
	case d <= 90:
		return 90
	}
	return 365
}
