package app

import (
	"context"

	"github.com/bobmcallan/cryptodash/internal/scheduler"
)

// Job names, one per store.
const (
	JobPortfolio = "portfolio"
	JobWatchlist = "watchlist"
	JobAlerts    = "alerts"
)

// refreshJobs builds the periodic refresh of each store. Price sets fetched
// by the portfolio and watchlist jobs also reach the alert evaluator through
// their observer hook.
func refreshJobs(a *App) []scheduler.Job {
	return []scheduler.Job{
		{Name: JobPortfolio, Run: a.Portfolio.RefreshPrices},
		{Name: JobWatchlist, Run: a.Watchlist.RefreshMarketData},
		{Name: JobAlerts, Run: a.Alerts.RefreshAndEvaluate},
	}
}

// RefreshAll runs every refresh once, in order, and returns the first error.
// Later jobs still run after a failure.
func (a *App) RefreshAll(ctx context.Context) error {
	var first error
	for _, job := range refreshJobs(a) {
		if err := job.Run(ctx); err != nil {
			a.Logger.Warn().Err(err).Str("job", job.Name).Msg("Refresh failed")
			if first == nil {
				first = err
			}
		}
	}
	return first
}
