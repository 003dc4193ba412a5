package core

import (
	"math"
	"testing"
	"time"
)

func marchPeriod() Period {
	return Period{Start: "2024-03-01", End: "2024-03-31", Type: PeriodMonthly}
}

func TestBuildReportEmptyInputs(t *testing.T) {
	r := BuildReport(marchPeriod(), nil, nil, nil, nil, ReportOptions{})

	if r.Summary.Income != 0 || r.Summary.Spent != 0 || r.Summary.Net != 0 {
		t.Fatalf("expected zero totals, got %+v", r.Summary)
	}
	if r.Summary.Margin != 0 {
		t.Fatalf("margin = %v, want 0 (no division by zero)", r.Summary.Margin)
	}
	if r.Summary.Status != StatusProfit {
		t.Fatalf("status = %q, want %q", r.Summary.Status, StatusProfit)
	}
	if len(r.Details) != 0 || len(r.Top) != 0 || len(r.Groups) != 0 {
		t.Fatalf("expected empty sequences, got %d details, %d top, %d groups",
			len(r.Details), len(r.Top), len(r.Groups))
	}
	if r.Stats.AvgDailyIncome != 0 || r.Stats.AvgDailyExpenses != 0 {
		t.Fatalf("expected zero averages, got %+v", r.Stats)
	}
	// An explicitly requested month still yields a full, zero-valued series.
	if len(r.DailySeries) != 31 {
		t.Fatalf("expected 31 series points, got %d", len(r.DailySeries))
	}
}

func TestBuildReportDefaultPeriodOmitsDailySeries(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	p := ResolvePeriod(PeriodQuery{}, now)

	income := []IncomeEntry{{ID: 1, Date: "2024-03-10", Amount: 200}}
	daily := []DailyBill{{ID: 1, Name: "Mercado", Amount: 50, Date: "2024-03-10"}}
	r := BuildReport(p, income, nil, nil, daily, ReportOptions{})

	if len(r.DailySeries) != 0 {
		t.Fatalf("expected no series for a defaulted period, got %d points", len(r.DailySeries))
	}
	if r.Summary.Income != 200 || r.Summary.Spent != 50 {
		t.Fatalf("totals should not depend on the series, got %+v", r.Summary)
	}
}

func TestBuildReportWorkedExample(t *testing.T) {
	income := []IncomeEntry{{ID: 1, Date: "2024-03-01", Amount: 100}}
	daily := []DailyBill{
		{ID: 1, Name: "Mercado", Amount: 30, Date: "2024-03-01"},
		{ID: 2, Name: "MERCADO", Amount: 20, Date: "2024-03-02"},
	}

	r := BuildReport(marchPeriod(), income, nil, nil, daily, ReportOptions{GroupSimilar: true})

	if r.Summary.Income != 100 || r.Summary.Spent != 50 || r.Summary.Net != 50 {
		t.Fatalf("summary totals wrong: %+v", r.Summary)
	}
	if r.Summary.Margin != 50.00 {
		t.Fatalf("margin = %v, want 50.00", r.Summary.Margin)
	}
	if r.Summary.Status != StatusProfit {
		t.Fatalf("status = %q, want %q", r.Summary.Status, StatusProfit)
	}

	if len(r.Groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(r.Groups))
	}
	g := r.Groups[0]
	if g.Name != "Mercado" || g.Total != 50 || g.Count != 2 || g.Average != 25 {
		t.Fatalf("group = %+v, want Mercado/50/2/25", g)
	}

	if len(r.DailySeries) != 31 {
		t.Fatalf("expected 31 series points, got %d", len(r.DailySeries))
	}
	day1, day2 := r.DailySeries[0], r.DailySeries[1]
	if day1.Income != 100 || day1.Expenses != 30 || day1.Net != 70 {
		t.Fatalf("day 1 = %+v", day1)
	}
	if day2.Income != 0 || day2.Expenses != 20 || day2.Net != -20 {
		t.Fatalf("day 2 = %+v", day2)
	}
	for i, pt := range r.DailySeries[2:] {
		if pt.Income != 0 || pt.Expenses != 0 || pt.Net != 0 {
			t.Fatalf("day %d should be all-zero, got %+v", i+3, pt)
		}
	}

	if r.Stats.Transactions != 3 || r.Stats.IncomeCount != 1 || r.Stats.ExpenseCount != 2 {
		t.Fatalf("stats counts wrong: %+v", r.Stats)
	}
	// Mar 1 .. Mar 31 spans ceil(30) days.
	if want := 100.0 / 30.0; r.Stats.AvgDailyIncome != want {
		t.Fatalf("avg daily income = %v, want %v", r.Stats.AvgDailyIncome, want)
	}
}

func TestBuildReportDetailOrder(t *testing.T) {
	income := []IncomeEntry{{ID: 10, Date: "2024-03-01", Amount: 1}}
	fixed := []FixedBill{{ID: 20, Name: "Aluguel", Amount: 2, MonthRef: "2024-03"}}
	weekly := []WeeklyBill{{ID: 30, Name: "Feira", Amount: 3, WeekRef: "2024-W10"}}
	daily := []DailyBill{{ID: 40, Name: "Gelo", Amount: 4, Date: "2024-03-02"}}

	r := BuildReport(marchPeriod(), income, fixed, weekly, daily, ReportOptions{})

	wantCats := []string{CategoryIncome, CategoryFixed, CategoryWeekly, CategoryDaily}
	if len(r.Details) != len(wantCats) {
		t.Fatalf("expected %d details, got %d", len(wantCats), len(r.Details))
	}
	for i, d := range r.Details {
		if d.Category != wantCats[i] {
			t.Fatalf("detail %d category = %q, want %q", i, d.Category, wantCats[i])
		}
	}

	in := r.Details[0]
	if in.Type != EntryIncome || in.Name != "Arrecadação" {
		t.Fatalf("income detail = %+v", in)
	}
	if in.Description == nil || *in.Description != "Arrecadação diária" {
		t.Fatalf("expected default income description, got %v", in.Description)
	}
	if r.ByCategory != (CategoryTotals{Fixed: 2, Weekly: 3, Daily: 4}) {
		t.Fatalf("category totals = %+v", r.ByCategory)
	}
}

func TestBuildReportZeroNetIsProfit(t *testing.T) {
	income := []IncomeEntry{{ID: 1, Date: "2024-03-01", Amount: 50}}
	daily := []DailyBill{{ID: 1, Name: "Gelo", Amount: 50, Date: "2024-03-01"}}

	r := BuildReport(marchPeriod(), income, nil, nil, daily, ReportOptions{})
	if r.Summary.Net != 0 {
		t.Fatalf("net = %v, want 0", r.Summary.Net)
	}
	if r.Summary.Status != StatusProfit {
		t.Fatalf("zero net classified as %q, want %q", r.Summary.Status, StatusProfit)
	}
}

func TestBuildReportMarginRounding(t *testing.T) {
	income := []IncomeEntry{{ID: 1, Date: "2024-03-01", Amount: 300}}
	daily := []DailyBill{{ID: 1, Name: "Gelo", Amount: 100, Date: "2024-03-01"}}

	r := BuildReport(marchPeriod(), income, nil, nil, daily, ReportOptions{})
	if r.Summary.Margin != 66.67 {
		t.Fatalf("margin = %v, want 66.67", r.Summary.Margin)
	}
}

func TestBuildReportTopExpenses(t *testing.T) {
	var fixed []FixedBill
	for i := 1; i <= 15; i++ {
		fixed = append(fixed, FixedBill{
			ID:       int64(i),
			Name:     "Conta",
			Amount:   float64(i * 10),
			MonthRef: "2024-03",
		})
	}

	r := BuildReport(marchPeriod(), nil, fixed, nil, nil, ReportOptions{})
	if len(r.Top) != 10 {
		t.Fatalf("expected top list truncated to 10, got %d", len(r.Top))
	}
	for i := 0; i < len(r.Top)-1; i++ {
		if r.Top[i].Amount < r.Top[i+1].Amount {
			t.Fatalf("top list not descending at %d: %v < %v", i, r.Top[i].Amount, r.Top[i+1].Amount)
		}
	}
	if r.Top[0].Amount != 150 || r.Top[0].Category != CategoryFixed {
		t.Fatalf("top entry = %+v", r.Top[0])
	}

	short := BuildReport(marchPeriod(), nil, fixed[:3], nil, nil, ReportOptions{})
	if len(short.Top) != 3 {
		t.Fatalf("expected all 3 entries, got %d", len(short.Top))
	}
}

func TestBuildReportPartialMonthRangeKeepsFullSeries(t *testing.T) {
	p := ResolvePeriod(PeriodQuery{StartDate: "2024-04-05", EndDate: "2024-04-10"}, time.Now())
	r := BuildReport(p, nil, nil, nil, nil, ReportOptions{})
	// The series covers all of April, not just the requested window.
	if len(r.DailySeries) != 30 {
		t.Fatalf("expected 30 series points, got %d", len(r.DailySeries))
	}
}

func TestBuildReportCrossMonthRangeHasNoSeries(t *testing.T) {
	p := Period{Start: "2024-03-15", End: "2024-04-15", Type: PeriodCustom}
	r := BuildReport(p, nil, nil, nil, nil, ReportOptions{})
	if len(r.DailySeries) != 0 {
		t.Fatalf("expected no series, got %d points", len(r.DailySeries))
	}
}

func TestBuildReportDegenerateSpan(t *testing.T) {
	p := Period{Start: "2024-03-01", End: "2024-03-01", Type: PeriodCustom}
	income := []IncomeEntry{{ID: 1, Date: "2024-03-01", Amount: 100}}

	r := BuildReport(p, income, nil, nil, nil, ReportOptions{})
	if r.Stats.AvgDailyIncome != 0 || r.Stats.AvgDailyExpenses != 0 {
		t.Fatalf("zero-day span must yield zero averages, got %+v", r.Stats)
	}
	if math.IsNaN(r.Summary.Margin) || math.IsInf(r.Summary.Margin, 0) {
		t.Fatalf("margin not finite: %v", r.Summary.Margin)
	}
}

func TestBuildReportGroupingOffByDefault(t *testing.T) {
	daily := []DailyBill{{ID: 1, Name: "Mercado", Amount: 30, Date: "2024-03-01"}}
	r := BuildReport(marchPeriod(), nil, nil, nil, daily, ReportOptions{})
	if len(r.Groups) != 0 {
		t.Fatalf("grouping not requested but got %d groups", len(r.Groups))
	}
}
