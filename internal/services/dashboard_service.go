package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"caixa/internal/core"
	"caixa/internal/storage"
)

// Dashboard is the month overview payload. Key casing follows the wire
// format the front end already consumes.
type Dashboard struct {
	TotalIncome   float64          `json:"totalArrecadado"`
	TotalSpent    float64          `json:"totalGasto"`
	NetProfit     float64          `json:"lucroLiquido"`
	Ranking       []RankedExpense  `json:"rankingGastos"`
	IncomeSeries  []MonthPoint     `json:"graficoArrecadacao"`
	ExpenseSeries []MonthPoint     `json:"graficoGastos"`
	UpcomingBills []core.FixedBill `json:"contasVencendo"`
}

// RankedExpense is one row of the dashboard's top-10 expense ranking.
type RankedExpense struct {
	Name   string  `json:"nome"`
	Amount float64 `json:"valor"`
	Kind   string  `json:"tipo"`
}

// MonthPoint is one month of a chart series.
type MonthPoint struct {
	Month string  `json:"mes"`
	Total float64 `json:"total"`
}

// MonthComparison puts two months side by side.
type MonthComparison struct {
	Month1     MonthFigures    `json:"mes1"`
	Month2     MonthFigures    `json:"mes2"`
	Difference ComparisonDelta `json:"diferenca"`
}

// MonthFigures are one month's totals. Weekly bills are excluded here:
// they carry a week tag, not a month, and the comparison never resolves
// weeks to months.
type MonthFigures struct {
	Income float64 `json:"arrecadacao"`
	Fixed  float64 `json:"contasFixas"`
	Daily  float64 `json:"contasDiarias"`
	Spent  float64 `json:"totalGastos"`
	Net    float64 `json:"lucro"`
}

type ComparisonDelta struct {
	Income float64 `json:"arrecadacao"`
	Spent  float64 `json:"gastos"`
	Net    float64 `json:"lucro"`
}

// DashboardStore is the slice of storage the dashboard needs.
type DashboardStore interface {
	ListFixedBills(ctx context.Context, f storage.FixedFilter) ([]core.FixedBill, error)
	ListWeeklyBills(ctx context.Context, f storage.WeeklyFilter) ([]core.WeeklyBill, error)
	ListDailyBills(ctx context.Context, f storage.DailyFilter) ([]core.DailyBill, error)
	IncomeTotalsByMonth(ctx context.Context, fromMonth, toMonth string) ([]storage.MonthTotal, error)
	DailyBillTotalsByMonth(ctx context.Context, fromMonth, toMonth string) ([]storage.MonthTotal, error)
	FixedBillTotalsByMonth(ctx context.Context, fromMonth, toMonth string) ([]storage.MonthTotal, error)
}

// DashboardService assembles the dashboard and the month comparison.
type DashboardService struct {
	store DashboardStore
}

func NewDashboardService(store DashboardStore) *DashboardService {
	return &DashboardService{store: store}
}

const dashboardRankingLimit = 10

// Build assembles the dashboard for the given YYYY-MM month (current month
// when empty). Weekly bills are matched by year prefix only: a week tag
// does not name a month, and narrowing it further is not worth the guess.
func (s *DashboardService) Build(ctx context.Context, month string, now time.Time) (Dashboard, error) {
	if month == "" {
		month = core.MonthTag(now)
	}
	year, _, _ := strings.Cut(month, "-")

	totalIncome, err := s.monthTotal(ctx, s.store.IncomeTotalsByMonth, month)
	if err != nil {
		return Dashboard{}, fmt.Errorf("dashboard income total: %w", err)
	}
	totalFixed, err := s.monthTotal(ctx, s.store.FixedBillTotalsByMonth, month)
	if err != nil {
		return Dashboard{}, fmt.Errorf("dashboard fixed total: %w", err)
	}
	totalDaily, err := s.monthTotal(ctx, s.store.DailyBillTotalsByMonth, month)
	if err != nil {
		return Dashboard{}, fmt.Errorf("dashboard daily total: %w", err)
	}

	weekly, err := s.store.ListWeeklyBills(ctx, storage.WeeklyFilter{YearPrefix: year})
	if err != nil {
		return Dashboard{}, fmt.Errorf("dashboard weekly bills: %w", err)
	}
	var totalWeekly float64
	for _, b := range weekly {
		totalWeekly += b.Amount
	}

	ranking, err := s.ranking(ctx, month, weekly)
	if err != nil {
		return Dashboard{}, err
	}

	incomeSeries, expenseSeries, err := s.chartSeries(ctx, now)
	if err != nil {
		return Dashboard{}, err
	}

	nextMonth := core.MonthTag(now.AddDate(0, 1, 0))
	upcoming, err := s.store.ListFixedBills(ctx, storage.FixedFilter{Month: nextMonth})
	if err != nil {
		return Dashboard{}, fmt.Errorf("dashboard upcoming bills: %w", err)
	}
	active := make([]core.FixedBill, 0, len(upcoming))
	for _, b := range upcoming {
		if b.Active == 1 {
			active = append(active, b)
		}
	}

	totalSpent := totalFixed + totalWeekly + totalDaily
	return Dashboard{
		TotalIncome:   totalIncome,
		TotalSpent:    totalSpent,
		NetProfit:     totalIncome - totalSpent,
		Ranking:       ranking,
		IncomeSeries:  incomeSeries,
		ExpenseSeries: expenseSeries,
		UpcomingBills: active,
	}, nil
}

// CompareMonths builds per-month totals and their differences for two
// YYYY-MM months.
func (s *DashboardService) CompareMonths(ctx context.Context, month1, month2 string) (MonthComparison, error) {
	fig1, err := s.monthFigures(ctx, month1)
	if err != nil {
		return MonthComparison{}, fmt.Errorf("compare month %s: %w", month1, err)
	}
	fig2, err := s.monthFigures(ctx, month2)
	if err != nil {
		return MonthComparison{}, fmt.Errorf("compare month %s: %w", month2, err)
	}

	return MonthComparison{
		Month1: fig1,
		Month2: fig2,
		Difference: ComparisonDelta{
			Income: fig2.Income - fig1.Income,
			Spent:  fig2.Spent - fig1.Spent,
			Net:    fig2.Net - fig1.Net,
		},
	}, nil
}

func (s *DashboardService) monthFigures(ctx context.Context, month string) (MonthFigures, error) {
	income, err := s.monthTotal(ctx, s.store.IncomeTotalsByMonth, month)
	if err != nil {
		return MonthFigures{}, fmt.Errorf("income total: %w", err)
	}
	fixed, err := s.monthTotal(ctx, s.store.FixedBillTotalsByMonth, month)
	if err != nil {
		return MonthFigures{}, fmt.Errorf("fixed total: %w", err)
	}
	daily, err := s.monthTotal(ctx, s.store.DailyBillTotalsByMonth, month)
	if err != nil {
		return MonthFigures{}, fmt.Errorf("daily total: %w", err)
	}

	spent := fixed + daily
	return MonthFigures{
		Income: income,
		Fixed:  fixed,
		Daily:  daily,
		Spent:  spent,
		Net:    income - spent,
	}, nil
}

func (s *DashboardService) ranking(ctx context.Context, month string, weekly []core.WeeklyBill) ([]RankedExpense, error) {
	fixed, err := s.store.ListFixedBills(ctx, storage.FixedFilter{Month: month})
	if err != nil {
		return nil, fmt.Errorf("dashboard ranking fixed bills: %w", err)
	}
	daily, err := s.store.ListDailyBills(ctx, storage.DailyFilter{Month: month})
	if err != nil {
		return nil, fmt.Errorf("dashboard ranking daily bills: %w", err)
	}

	ranking := make([]RankedExpense, 0, len(fixed)+len(daily)+len(weekly))
	for _, b := range fixed {
		if b.Active != 1 {
			continue
		}
		ranking = append(ranking, RankedExpense{Name: b.Name, Amount: b.Amount, Kind: FilterFixed})
	}
	for _, b := range daily {
		ranking = append(ranking, RankedExpense{Name: b.Name, Amount: b.Amount, Kind: FilterDaily})
	}
	for _, b := range weekly {
		ranking = append(ranking, RankedExpense{Name: b.Name, Amount: b.Amount, Kind: FilterWeekly})
	}

	sort.SliceStable(ranking, func(i, j int) bool { return ranking[i].Amount > ranking[j].Amount })
	if len(ranking) > dashboardRankingLimit {
		ranking = ranking[:dashboardRankingLimit]
	}
	return ranking, nil
}

// chartSeries builds the six-month income and expense series. Months with
// no income rows are absent from both series; the expense series covers
// the months the income series names.
func (s *DashboardService) chartSeries(ctx context.Context, now time.Time) ([]MonthPoint, []MonthPoint, error) {
	from := core.MonthTag(now.AddDate(0, -6, 0))
	to := core.MonthTag(now)

	incomeTotals, err := s.store.IncomeTotalsByMonth(ctx, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("dashboard income series: %w", err)
	}
	fixedTotals, err := s.store.FixedBillTotalsByMonth(ctx, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("dashboard fixed series: %w", err)
	}
	dailyTotals, err := s.store.DailyBillTotalsByMonth(ctx, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("dashboard daily series: %w", err)
	}

	fixedByMonth := map[string]float64{}
	for _, t := range fixedTotals {
		fixedByMonth[t.Month] = t.Total
	}
	dailyByMonth := map[string]float64{}
	for _, t := range dailyTotals {
		dailyByMonth[t.Month] = t.Total
	}

	incomeSeries := make([]MonthPoint, 0, len(incomeTotals))
	expenseSeries := make([]MonthPoint, 0, len(incomeTotals))
	for _, t := range incomeTotals {
		incomeSeries = append(incomeSeries, MonthPoint{Month: t.Month, Total: t.Total})
		expenseSeries = append(expenseSeries, MonthPoint{
			Month: t.Month,
			Total: fixedByMonth[t.Month] + dailyByMonth[t.Month],
		})
	}
	return incomeSeries, expenseSeries, nil
}

func (s *DashboardService) monthTotal(ctx context.Context, fetch func(context.Context, string, string) ([]storage.MonthTotal, error), month string) (float64, error) {
	totals, err := fetch(ctx, month, month)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, t := range totals {
		if t.Month == month {
			sum += t.Total
		}
	}
	return sum, nil
}
