package signals

// Default windows for an hourly 7-day sparkline.
const (
	ShortWindow = 24
	LongWindow  = 72
	RSIPeriod   = 14
)

// Indicators is the technical summary of one price series.
type Indicators struct {
	Price       float64
	SMAShort    float64
	SMALong     float64
	EMAShort    float64
	RSI         float64
	RSILabel    string
	Support     float64
	Resistance  float64
	Crossover   Crossover
	Trend       Trend
	Description string
}

// Compute derives Indicators from prices. It returns nil for fewer than two points.
func Compute(prices []float64) *Indicators {
	if len(prices) < 2 {
		return nil
	}

	ind := &Indicators{
		Price:    prices[len(prices)-1],
		SMAShort: SMA(prices, ShortWindow),
		SMALong:  SMA(prices, LongWindow),
		EMAShort: EMA(prices, ShortWindow),
		RSI:      RSI(prices, RSIPeriod),
	}
	ind.RSILabel = ClassifyRSI(ind.RSI)
	ind.Support, ind.Resistance = SupportResistance(prices, 0)
	ind.Crossover = DetectCrossover(prices, ShortWindow, LongWindow)
	ind.Trend = DetermineTrend(ind.Price, ind.SMAShort, ind.SMALong)
	ind.Description = TrendDescription(ind.Trend, ind.Crossover)
	return ind
}
