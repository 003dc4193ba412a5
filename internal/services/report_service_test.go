package services

import (
	"context"
	"testing"
	"time"

	"caixa/internal/core"
	"caixa/internal/storage"
)

type fakeReportStore struct {
	income []core.IncomeEntry
	fixed  []core.FixedBill
	weekly []core.WeeklyBill
	daily  []core.DailyBill

	incomeFilter *storage.IncomeFilter
	fixedFilter  *storage.FixedFilter
	weeklyFilter *storage.WeeklyFilter
	dailyFilter  *storage.DailyFilter
}

func (f *fakeReportStore) ListIncome(_ context.Context, filter storage.IncomeFilter) ([]core.IncomeEntry, error) {
	f.incomeFilter = &filter
	return f.income, nil
}

func (f *fakeReportStore) ListFixedBills(_ context.Context, filter storage.FixedFilter) ([]core.FixedBill, error) {
	f.fixedFilter = &filter
	return f.fixed, nil
}

func (f *fakeReportStore) ListWeeklyBills(_ context.Context, filter storage.WeeklyFilter) ([]core.WeeklyBill, error) {
	f.weeklyFilter = &filter
	return f.weekly, nil
}

func (f *fakeReportStore) ListDailyBills(_ context.Context, filter storage.DailyFilter) ([]core.DailyBill, error) {
	f.dailyFilter = &filter
	return f.daily, nil
}

func TestReportBuildFetchesAllStreams(t *testing.T) {
	store := &fakeReportStore{
		income: []core.IncomeEntry{{ID: 1, Date: "2024-04-02", Amount: 500}},
		daily:  []core.DailyBill{{ID: 1, Name: "Feira", Amount: 120, Date: "2024-04-03"}},
	}
	svc := NewReportService(store)
	now := time.Date(2024, 4, 15, 12, 0, 0, 0, time.UTC)

	report, err := svc.Build(context.Background(), ReportQuery{}, now)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if store.incomeFilter == nil {
		t.Fatal("income was not fetched")
	}
	if store.incomeFilter.StartDate != "2024-04-01" || store.incomeFilter.EndDate != "2024-04-30" {
		t.Errorf("income range = %s..%s, want 2024-04-01..2024-04-30",
			store.incomeFilter.StartDate, store.incomeFilter.EndDate)
	}
	if !store.incomeFilter.CreationOrder {
		t.Error("income fetch should preserve creation order")
	}
	if store.fixedFilter == nil || store.weeklyFilter == nil || store.dailyFilter == nil {
		t.Fatal("all expense streams should be fetched without a category selector")
	}
	if store.dailyFilter.StartDate != "2024-04-01" || store.dailyFilter.EndDate != "2024-04-30" {
		t.Errorf("daily range = %s..%s, want resolved period",
			store.dailyFilter.StartDate, store.dailyFilter.EndDate)
	}

	if report.Summary.Income != 500 {
		t.Errorf("total income = %v, want 500", report.Summary.Income)
	}
	if report.Summary.Spent != 120 {
		t.Errorf("total spent = %v, want 120", report.Summary.Spent)
	}
}

func TestReportBuildCategorySkipsOtherStreams(t *testing.T) {
	tests := []struct {
		category   string
		wantFixed  bool
		wantWeekly bool
		wantDaily  bool
	}{
		{category: FilterFixed, wantFixed: true},
		{category: FilterWeekly, wantWeekly: true},
		{category: FilterDaily, wantDaily: true},
		{category: "", wantFixed: true, wantWeekly: true, wantDaily: true},
	}

	now := time.Date(2024, 4, 15, 12, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run("categoria="+tt.category, func(t *testing.T) {
			store := &fakeReportStore{}
			svc := NewReportService(store)
			if _, err := svc.Build(context.Background(), ReportQuery{Category: tt.category}, now); err != nil {
				t.Fatalf("Build: %v", err)
			}

			if store.incomeFilter == nil {
				t.Error("income must always be fetched")
			}
			if got := store.fixedFilter != nil; got != tt.wantFixed {
				t.Errorf("fixed fetched = %v, want %v", got, tt.wantFixed)
			}
			if got := store.weeklyFilter != nil; got != tt.wantWeekly {
				t.Errorf("weekly fetched = %v, want %v", got, tt.wantWeekly)
			}
			if got := store.dailyFilter != nil; got != tt.wantDaily {
				t.Errorf("daily fetched = %v, want %v", got, tt.wantDaily)
			}
		})
	}
}

func TestReportBuildPassesRawSelectors(t *testing.T) {
	store := &fakeReportStore{}
	svc := NewReportService(store)
	now := time.Date(2024, 4, 15, 12, 0, 0, 0, time.UTC)

	q := ReportQuery{
		Name:        "mercado",
		Description: "compra",
		Month:       "2024-03",
		Week:        "2024-W10",
	}
	report, err := svc.Build(context.Background(), q, now)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Month wins the period resolution, but the fixed and weekly streams
	// still see the raw selectors unchanged.
	if report.Period.Type != core.PeriodMonthly {
		t.Errorf("period type = %s, want %s", report.Period.Type, core.PeriodMonthly)
	}
	if store.fixedFilter.Month != "2024-03" || store.fixedFilter.Name != "mercado" {
		t.Errorf("fixed filter = %+v, want raw month and name", *store.fixedFilter)
	}
	if store.weeklyFilter.Week != "2024-W10" || store.weeklyFilter.Description != "compra" {
		t.Errorf("weekly filter = %+v, want raw week and description", *store.weeklyFilter)
	}
	if store.dailyFilter.Name != "mercado" || store.dailyFilter.Description != "compra" {
		t.Errorf("daily filter = %+v, want name and description", *store.dailyFilter)
	}
}

func TestReportBuildGroupSimilar(t *testing.T) {
	store := &fakeReportStore{
		daily: []core.DailyBill{
			{ID: 1, Name: "Mercado Central", Amount: 100, Date: "2024-04-02"},
			{ID: 2, Name: "mercado central", Amount: 50, Date: "2024-04-03"},
		},
	}
	svc := NewReportService(store)
	now := time.Date(2024, 4, 15, 12, 0, 0, 0, time.UTC)

	report, err := svc.Build(context.Background(), ReportQuery{GroupSimilar: true}, now)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(report.Groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(report.Groups))
	}
	if report.Groups[0].Total != 150 {
		t.Errorf("group total = %v, want 150", report.Groups[0].Total)
	}

	report, err = svc.Build(context.Background(), ReportQuery{}, now)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(report.Groups) != 0 {
		t.Errorf("groups = %d, want none without agrupar_similares", len(report.Groups))
	}
}
