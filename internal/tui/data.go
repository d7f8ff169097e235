package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/theirongolddev/welth/internal/engine"
	"github.com/theirongolddev/welth/internal/model"
	"github.com/theirongolddev/welth/internal/pipeline"
	"github.com/theirongolddev/welth/internal/service"
)

// monthsShown is how many calendar months the spending tab covers.
const monthsShown = 6

// dashboard is everything the tabs render, loaded in one pass.
type dashboard struct {
	summary  *service.SummaryReport
	history  *service.HistoryReport
	forecast *service.ForecastReport
	profile  *service.ProfileReport
	daily    []model.DailyStats // most recent first
	months   []model.MonthlyStats
}

func loadDashboard(ctx context.Context, svc *service.Service, user string, days int) (*dashboard, error) {
	all, err := svc.Dashboard(ctx, user, days)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	d := dashboard{
		summary:  all.Summary,
		history:  all.History,
		forecast: all.Forecast,
		profile:  all.Profile,
	}

	snap := all.Snapshot
	d.daily = pipeline.AggregateDays(snap.Transactions, d.summary.Since, d.summary.Until)
	now := snap.Now
	monthStart := time.Date(now.Year(), now.Month()-monthsShown+1, 1, 0, 0, 0, 0, now.Location())
	d.months = pipeline.AggregateMonths(snap.Transactions, monthStart, now)
	return &d, nil
}

// scenarioOption is one selectable row in the time machine tab.
type scenarioOption struct {
	Label   string
	Request service.TimelineRequest
}

// scenarioOptions lists the presets followed by "skip" scenarios for the
// biggest spending categories.
func scenarioOptions(cats []model.CategoryStats) []scenarioOption {
	var opts []scenarioOption
	for _, q := range engine.QuickScenarios() {
		opts = append(opts, scenarioOption{
			Label:   q.Label,
			Request: service.TimelineRequest{Kind: q.Kind, Amount: q.Amount},
		})
	}
	for i, c := range cats {
		if i == 3 {
			break
		}
		if c.Category == pipeline.Uncategorized {
			continue
		}
		opts = append(opts, scenarioOption{
			Label:   "Skip " + c.Category,
			Request: service.TimelineRequest{Kind: model.AvoidCategory, Category: c.Category},
		})
	}
	return opts
}
