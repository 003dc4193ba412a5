package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"caixa/internal/core"
	"caixa/internal/storage"
)

// Expense category selectors as they appear in report queries.
const (
	FilterFixed  = "fixa"
	FilterWeekly = "semanal"
	FilterDaily  = "diaria"
)

// ReportQuery carries the raw report request parameters.
type ReportQuery struct {
	Name         string
	Description  string
	Category     string // "", fixa, semanal or diaria
	StartDate    string
	EndDate      string
	Month        string
	Week         string
	GroupSimilar bool
}

// ReportStore is the slice of storage the report needs.
type ReportStore interface {
	ListIncome(ctx context.Context, f storage.IncomeFilter) ([]core.IncomeEntry, error)
	ListFixedBills(ctx context.Context, f storage.FixedFilter) ([]core.FixedBill, error)
	ListWeeklyBills(ctx context.Context, f storage.WeeklyFilter) ([]core.WeeklyBill, error)
	ListDailyBills(ctx context.Context, f storage.DailyFilter) ([]core.DailyBill, error)
}

// ReportService fetches the four record streams and assembles the report.
type ReportService struct {
	store ReportStore
}

func NewReportService(store ReportStore) *ReportService {
	return &ReportService{store: store}
}

// Build resolves the period, fetches the streams concurrently and hands
// them to the core. Stream rules: income and daily bills are bounded by
// the resolved date range; fixed bills match only an explicit month
// selector and weekly bills only an explicit week selector. A category
// selector empties the other expense streams but never the income one.
func (s *ReportService) Build(ctx context.Context, q ReportQuery, now time.Time) (core.Report, error) {
	period := core.ResolvePeriod(core.PeriodQuery{
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Month:     q.Month,
		Week:      q.Week,
	}, now)

	var (
		income []core.IncomeEntry
		fixed  []core.FixedBill
		weekly []core.WeeklyBill
		daily  []core.DailyBill
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		income, err = s.store.ListIncome(gctx, storage.IncomeFilter{
			StartDate:     period.Start,
			EndDate:       period.End,
			CreationOrder: true,
		})
		if err != nil {
			return fmt.Errorf("fetch income: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if q.Category != "" && q.Category != FilterFixed {
			fixed = []core.FixedBill{}
			return nil
		}
		var err error
		fixed, err = s.store.ListFixedBills(gctx, storage.FixedFilter{
			Month:         q.Month,
			Name:          q.Name,
			CreationOrder: true,
		})
		if err != nil {
			return fmt.Errorf("fetch fixed bills: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if q.Category != "" && q.Category != FilterWeekly {
			weekly = []core.WeeklyBill{}
			return nil
		}
		var err error
		weekly, err = s.store.ListWeeklyBills(gctx, storage.WeeklyFilter{
			Week:          q.Week,
			Name:          q.Name,
			Description:   q.Description,
			CreationOrder: true,
		})
		if err != nil {
			return fmt.Errorf("fetch weekly bills: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if q.Category != "" && q.Category != FilterDaily {
			daily = []core.DailyBill{}
			return nil
		}
		var err error
		daily, err = s.store.ListDailyBills(gctx, storage.DailyFilter{
			StartDate:     period.Start,
			EndDate:       period.End,
			Name:          q.Name,
			Description:   q.Description,
			CreationOrder: true,
		})
		if err != nil {
			return fmt.Errorf("fetch daily bills: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return core.Report{}, err
	}

	return core.BuildReport(period, income, fixed, weekly, daily, core.ReportOptions{
		GroupSimilar: q.GroupSimilar,
	}), nil
}
