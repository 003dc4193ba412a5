package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"caixa/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func strPtr(s string) *string { return &s }

func TestIncomeCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateIncome(ctx, core.IncomeEntry{Date: "2024-04-01", Amount: 150.5, Notes: strPtr("feira")})
	if err != nil {
		t.Fatalf("CreateIncome() error = %v", err)
	}
	if created.ID == 0 {
		t.Fatal("CreateIncome() returned zero ID")
	}
	if created.CreatedAt == "" || created.UpdatedAt == "" {
		t.Errorf("CreateIncome() missing timestamps: %+v", created)
	}

	got, err := repo.GetIncome(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetIncome() error = %v", err)
	}
	if got.Date != "2024-04-01" || got.Amount != 150.5 || got.Notes == nil || *got.Notes != "feira" {
		t.Errorf("GetIncome() = %+v", got)
	}

	updated, err := repo.UpdateIncome(ctx, created.ID, core.IncomeEntry{Date: "2024-04-02", Amount: 200, Notes: nil})
	if err != nil {
		t.Fatalf("UpdateIncome() error = %v", err)
	}
	if updated.Date != "2024-04-02" || updated.Amount != 200 || updated.Notes != nil {
		t.Errorf("UpdateIncome() = %+v", updated)
	}

	if err := repo.DeleteIncome(ctx, created.ID); err != nil {
		t.Fatalf("DeleteIncome() error = %v", err)
	}
	if err := repo.DeleteIncome(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteIncome() on missing row error = %v, want ErrNotFound", err)
	}
	if _, err := repo.GetIncome(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetIncome() on missing row error = %v, want ErrNotFound", err)
	}
}

func TestListIncomeFilters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	dates := []string{"2024-03-31", "2024-04-01", "2024-04-15", "2024-05-01"}
	for _, d := range dates {
		if _, err := repo.CreateIncome(ctx, core.IncomeEntry{Date: d, Amount: 10}); err != nil {
			t.Fatalf("CreateIncome(%s) error = %v", d, err)
		}
	}

	tests := []struct {
		name      string
		filter    IncomeFilter
		wantDates []string
	}{
		{"no filter returns all desc", IncomeFilter{}, []string{"2024-05-01", "2024-04-15", "2024-04-01", "2024-03-31"}},
		{"month", IncomeFilter{Month: "2024-04"}, []string{"2024-04-15", "2024-04-01"}},
		{"range", IncomeFilter{StartDate: "2024-04-01", EndDate: "2024-04-30"}, []string{"2024-04-15", "2024-04-01"}},
		{"range wins over month", IncomeFilter{StartDate: "2024-05-01", EndDate: "2024-05-31", Month: "2024-04"}, []string{"2024-05-01"}},
		{"empty month", IncomeFilter{Month: "2023-01"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := repo.ListIncome(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListIncome() error = %v", err)
			}
			if len(entries) != len(tt.wantDates) {
				t.Fatalf("ListIncome() returned %d entries, want %d", len(entries), len(tt.wantDates))
			}
			for i, e := range entries {
				if e.Date != tt.wantDates[i] {
					t.Errorf("entry %d date = %s, want %s", i, e.Date, tt.wantDates[i])
				}
			}
		})
	}
}

func TestListDailyBillFilters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	bills := []core.DailyBill{
		{Name: "Mercado", Amount: 30, Date: "2024-04-01", Description: strPtr("verduras")},
		{Name: "Padaria", Amount: 12, Date: "2024-04-01"},
		{Name: "Mercado Central", Amount: 45, Date: "2024-04-15"},
		{Name: "Gás", Amount: 110, Date: "2024-05-02"},
	}
	for _, b := range bills {
		if _, err := repo.CreateDailyBill(ctx, b); err != nil {
			t.Fatalf("CreateDailyBill(%s) error = %v", b.Name, err)
		}
	}

	tests := []struct {
		name      string
		filter    DailyFilter
		wantNames []string
	}{
		{"day", DailyFilter{Day: "2024-04-01"}, []string{"Padaria", "Mercado"}},
		{"month", DailyFilter{Month: "2024-04"}, []string{"Mercado Central", "Padaria", "Mercado"}},
		{"range", DailyFilter{StartDate: "2024-04-10", EndDate: "2024-05-31"}, []string{"Gás", "Mercado Central"}},
		{"name substring", DailyFilter{Name: "Mercado"}, []string{"Mercado Central", "Mercado"}},
		{"description substring", DailyFilter{Description: "verdura"}, []string{"Mercado"}},
		{"month and name", DailyFilter{Month: "2024-04", Name: "Padaria"}, []string{"Padaria"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ListDailyBills(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListDailyBills() error = %v", err)
			}
			if len(got) != len(tt.wantNames) {
				t.Fatalf("ListDailyBills() returned %d bills, want %d", len(got), len(tt.wantNames))
			}
			for i, b := range got {
				if b.Name != tt.wantNames[i] {
					t.Errorf("bill %d name = %s, want %s", i, b.Name, tt.wantNames[i])
				}
			}
		})
	}
}

func TestListWeeklyBillFilters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	bills := []core.WeeklyBill{
		{Name: "Feira", Amount: 80, WeekRef: "2024-W14"},
		{Name: "Feira livre", Amount: 95, WeekRef: "2024-W15"},
		{Name: "Lavanderia", Amount: 40, WeekRef: "2023-W50"},
	}
	for _, b := range bills {
		if _, err := repo.CreateWeeklyBill(ctx, b); err != nil {
			t.Fatalf("CreateWeeklyBill(%s) error = %v", b.Name, err)
		}
	}

	got, err := repo.ListWeeklyBills(ctx, WeeklyFilter{Week: "2024-W14"})
	if err != nil {
		t.Fatalf("ListWeeklyBills(week) error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "Feira" {
		t.Errorf("week filter = %+v, want single Feira", got)
	}

	got, err = repo.ListWeeklyBills(ctx, WeeklyFilter{YearPrefix: "2024"})
	if err != nil {
		t.Fatalf("ListWeeklyBills(year prefix) error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("year prefix filter returned %d bills, want 2", len(got))
	}

	got, err = repo.ListWeeklyBills(ctx, WeeklyFilter{Name: "Feira"})
	if err != nil {
		t.Fatalf("ListWeeklyBills(name) error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("name filter returned %d bills, want 2", len(got))
	}
}

func TestListRecurringFixedBills(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seed := []core.FixedBill{
		{Name: "Aluguel", Amount: 2000, MonthRef: "2024-03", Recurring: 1, Active: 1},
		{Name: "Aluguel", Amount: 2000, MonthRef: "2024-02", Recurring: 1, Active: 1},
		{Name: "Energia", Amount: 300, MonthRef: "2024-03", Recurring: 1, Active: 0},
		{Name: "Seguro", Amount: 150, MonthRef: "2024-03", Recurring: 0, Active: 1},
	}
	for _, b := range seed {
		if _, err := repo.CreateFixedBill(ctx, b); err != nil {
			t.Fatalf("CreateFixedBill(%s) error = %v", b.Name, err)
		}
	}

	due, err := repo.ListRecurringFixedBills(ctx, "2024-04")
	if err != nil {
		t.Fatalf("ListRecurringFixedBills() error = %v", err)
	}
	if len(due) != 1 || due[0].Name != "Aluguel" {
		t.Fatalf("ListRecurringFixedBills() = %+v, want single Aluguel", due)
	}

	// Materialize the copy; the bill must stop showing up as due.
	if _, err := repo.CreateFixedBill(ctx, core.FixedBill{Name: "Aluguel", Amount: 2000, MonthRef: "2024-04", Recurring: 1, Active: 1}); err != nil {
		t.Fatalf("CreateFixedBill(copy) error = %v", err)
	}
	due, err = repo.ListRecurringFixedBills(ctx, "2024-04")
	if err != nil {
		t.Fatalf("ListRecurringFixedBills() error = %v", err)
	}
	if len(due) != 0 {
		t.Errorf("ListRecurringFixedBills() after copy = %+v, want empty", due)
	}
}

func TestListRecurringWeeklyBills(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seed := []core.WeeklyBill{
		{Name: "Feira", Amount: 80, WeekRef: "2024-W14", Recurring: 1},
		{Name: "Lavanderia", Amount: 40, WeekRef: "2024-W14", Recurring: 0},
	}
	for _, b := range seed {
		if _, err := repo.CreateWeeklyBill(ctx, b); err != nil {
			t.Fatalf("CreateWeeklyBill(%s) error = %v", b.Name, err)
		}
	}

	due, err := repo.ListRecurringWeeklyBills(ctx, "2024-W15")
	if err != nil {
		t.Fatalf("ListRecurringWeeklyBills() error = %v", err)
	}
	if len(due) != 1 || due[0].Name != "Feira" {
		t.Fatalf("ListRecurringWeeklyBills() = %+v, want single Feira", due)
	}

	if _, err := repo.CreateWeeklyBill(ctx, core.WeeklyBill{Name: "Feira", Amount: 80, WeekRef: "2024-W15", Recurring: 1}); err != nil {
		t.Fatalf("CreateWeeklyBill(copy) error = %v", err)
	}
	due, err = repo.ListRecurringWeeklyBills(ctx, "2024-W15")
	if err != nil {
		t.Fatalf("ListRecurringWeeklyBills() error = %v", err)
	}
	if len(due) != 0 {
		t.Errorf("ListRecurringWeeklyBills() after copy = %+v, want empty", due)
	}
}

func TestAuditLogs(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id := int64(7)
	if err := repo.AppendLog(ctx, "CREATE", TableIncome, &id, strPtr(`{"valor":100}`)); err != nil {
		t.Fatalf("AppendLog() error = %v", err)
	}
	if err := repo.AppendLog(ctx, "DELETE", TableDaily, nil, nil); err != nil {
		t.Fatalf("AppendLog() error = %v", err)
	}

	logs, err := repo.ListLogs(ctx, 10)
	if err != nil {
		t.Fatalf("ListLogs() error = %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("ListLogs() returned %d rows, want 2", len(logs))
	}
	// Newest first; same-second timestamps fall back to id ordering.
	if logs[0].Action != "DELETE" || logs[0].Table != TableDaily {
		t.Errorf("logs[0] = %+v, want DELETE on contas_diarias", logs[0])
	}
	if logs[1].RecordID == nil || *logs[1].RecordID != 7 {
		t.Errorf("logs[1].RecordID = %v, want 7", logs[1].RecordID)
	}

	logs, err = repo.ListLogs(ctx, 1)
	if err != nil {
		t.Fatalf("ListLogs(limit 1) error = %v", err)
	}
	if len(logs) != 1 {
		t.Errorf("ListLogs(limit 1) returned %d rows, want 1", len(logs))
	}
}

func TestMonthTotals(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	income := []core.IncomeEntry{
		{Date: "2024-03-10", Amount: 100},
		{Date: "2024-04-01", Amount: 50},
		{Date: "2024-04-20", Amount: 25},
		{Date: "2024-06-01", Amount: 999},
	}
	for _, e := range income {
		if _, err := repo.CreateIncome(ctx, e); err != nil {
			t.Fatalf("CreateIncome() error = %v", err)
		}
	}
	if _, err := repo.CreateDailyBill(ctx, core.DailyBill{Name: "Mercado", Amount: 40, Date: "2024-04-05"}); err != nil {
		t.Fatalf("CreateDailyBill() error = %v", err)
	}
	if _, err := repo.CreateFixedBill(ctx, core.FixedBill{Name: "Aluguel", Amount: 2000, MonthRef: "2024-04", Recurring: 1, Active: 1}); err != nil {
		t.Fatalf("CreateFixedBill() error = %v", err)
	}
	// Inactive bills must not count toward monthly fixed totals.
	if _, err := repo.CreateFixedBill(ctx, core.FixedBill{Name: "Seguro antigo", Amount: 500, MonthRef: "2024-04", Recurring: 0, Active: 0}); err != nil {
		t.Fatalf("CreateFixedBill() error = %v", err)
	}

	totals, err := repo.IncomeTotalsByMonth(ctx, "2024-03", "2024-05")
	if err != nil {
		t.Fatalf("IncomeTotalsByMonth() error = %v", err)
	}
	want := []MonthTotal{{"2024-03", 100}, {"2024-04", 75}}
	if len(totals) != len(want) {
		t.Fatalf("IncomeTotalsByMonth() = %+v, want %+v", totals, want)
	}
	for i := range want {
		if totals[i] != want[i] {
			t.Errorf("totals[%d] = %+v, want %+v", i, totals[i], want[i])
		}
	}

	daily, err := repo.DailyBillTotalsByMonth(ctx, "2024-03", "2024-05")
	if err != nil {
		t.Fatalf("DailyBillTotalsByMonth() error = %v", err)
	}
	if len(daily) != 1 || daily[0] != (MonthTotal{"2024-04", 40}) {
		t.Errorf("DailyBillTotalsByMonth() = %+v", daily)
	}

	fixed, err := repo.FixedBillTotalsByMonth(ctx, "2024-03", "2024-05")
	if err != nil {
		t.Fatalf("FixedBillTotalsByMonth() error = %v", err)
	}
	if len(fixed) != 1 || fixed[0] != (MonthTotal{"2024-04", 2000}) {
		t.Errorf("FixedBillTotalsByMonth() = %+v", fixed)
	}
}
