package core

import (
	"math"
	"sort"
	"time"
)

// DetailEntry is one line of the report's flattened transaction view: income
// entries and all three expense kinds reduced to a common shape.
type DetailEntry struct {
	Type        string  `json:"tipo"`
	Category    string  `json:"categoria"`
	ID          int64   `json:"id"`
	Name        string  `json:"nome"`
	Amount      float64 `json:"valor"`
	Period      string  `json:"periodo"`
	Description *string `json:"descricao"`
	CreatedAt   string  `json:"created_at"`
	Date        *string `json:"data"`
}

// Summary holds the report's headline figures.
type Summary struct {
	Income float64 `json:"arrecadado"`
	Spent  float64 `json:"gastos"`
	Net    float64 `json:"lucro_prejuizo"`
	Margin float64 `json:"margem"`
	Status string  `json:"status"`
}

// CategoryTotals breaks total expenses down by source kind.
type CategoryTotals struct {
	Fixed  float64 `json:"fixa"`
	Weekly float64 `json:"semanal"`
	Daily  float64 `json:"diaria"`
}

// TopExpense is one row of the top-10 expense ranking.
type TopExpense struct {
	Name     string  `json:"nome"`
	Amount   float64 `json:"valor"`
	Category string  `json:"categoria"`
}

// DailyPoint is one day of the per-day series. Fixed and weekly bills are
// deliberately excluded: they are not attributable to a specific day.
type DailyPoint struct {
	Date     string  `json:"data"`
	Income   float64 `json:"arrecadado"`
	Expenses float64 `json:"gastos"`
	Net      float64 `json:"lucro"`
}

// Statistics summarizes counts and daily averages over the period.
type Statistics struct {
	Transactions     int     `json:"total_transacoes"`
	IncomeCount      int     `json:"total_arrecadacoes"`
	ExpenseCount     int     `json:"total_gastos"`
	AvgDailyIncome   float64 `json:"media_diaria_arrecadacao"`
	AvgDailyExpenses float64 `json:"media_diaria_gastos"`
}

// Report is the full assembled report; the API layer serializes it as-is.
type Report struct {
	Period      Period         `json:"periodo"`
	Summary     Summary        `json:"resumo"`
	Details     []DetailEntry  `json:"detalhes"`
	Groups      []ExpenseGroup `json:"gastos_agrupados"`
	ByCategory  CategoryTotals `json:"gastos_por_categoria"`
	Top         []TopExpense   `json:"top_gastos"`
	DailySeries []DailyPoint   `json:"analise_diaria"`
	Stats       Statistics     `json:"estatisticas"`
}

// ReportOptions selects optional report features.
type ReportOptions struct {
	// GroupSimilar clusters near-duplicate expense names into aggregate
	// groups. When false the groups sequence is empty and never computed.
	GroupSimilar bool
}

// Report summary status labels. A net result of exactly zero counts as lucro.
const (
	StatusProfit = "lucro"
	StatusLoss   = "prejuizo"
)

const topExpenseLimit = 10

// BuildReport assembles the unified report for a resolved period. All four
// record streams must already be filtered to the period and any name,
// description, or category filters by the caller. Pure function: empty
// inputs produce a zeroed report, never an error.
func BuildReport(p Period, income []IncomeEntry, fixed []FixedBill, weekly []WeeklyBill, daily []DailyBill, opts ReportOptions) Report {
	var totIncome, totFixed, totWeekly, totDaily float64
	for _, e := range income {
		totIncome += amountOrZero(e.Amount)
	}
	for _, b := range fixed {
		totFixed += amountOrZero(b.Amount)
	}
	for _, b := range weekly {
		totWeekly += amountOrZero(b.Amount)
	}
	for _, b := range daily {
		totDaily += amountOrZero(b.Amount)
	}

	totSpent := totFixed + totWeekly + totDaily
	net := totIncome - totSpent

	margin := 0.0
	if totIncome > 0 {
		margin = math.Round(net/totIncome*100*100) / 100
	}

	status := StatusProfit
	if net < 0 {
		status = StatusLoss
	}

	details := buildDetails(income, fixed, weekly, daily)

	groups := make([]ExpenseGroup, 0)
	if opts.GroupSimilar {
		expenses := make([]DetailEntry, 0, len(details))
		for _, d := range details {
			if d.Type == EntryExpense {
				expenses = append(expenses, d)
			}
		}
		groups = GroupExpenses(expenses)
	}

	return Report{
		Period: p,
		Summary: Summary{
			Income: totIncome,
			Spent:  totSpent,
			Net:    net,
			Margin: margin,
			Status: status,
		},
		Details:     details,
		Groups:      groups,
		ByCategory:  CategoryTotals{Fixed: totFixed, Weekly: totWeekly, Daily: totDaily},
		Top:         topExpenses(fixed, weekly, daily),
		DailySeries: dailySeries(p, income, daily),
		Stats:       statistics(p, details, len(income), len(fixed)+len(weekly)+len(daily), totIncome, totSpent),
	}
}

// buildDetails flattens the four streams into one sequence: income first,
// then fixed, weekly, and daily bills, each in input order. No re-sort.
func buildDetails(income []IncomeEntry, fixed []FixedBill, weekly []WeeklyBill, daily []DailyBill) []DetailEntry {
	details := make([]DetailEntry, 0, len(income)+len(fixed)+len(weekly)+len(daily))

	for _, e := range income {
		date := e.Date
		details = append(details, DetailEntry{
			Type:        EntryIncome,
			Category:    CategoryIncome,
			ID:          e.ID,
			Name:        "Arrecadação",
			Amount:      e.Amount,
			Period:      e.Date,
			Description: incomeDescription(e.Notes),
			CreatedAt:   e.CreatedAt,
			Date:        &date,
		})
	}
	for _, b := range fixed {
		details = append(details, DetailEntry{
			Type:      EntryExpense,
			Category:  CategoryFixed,
			ID:        b.ID,
			Name:      b.Name,
			Amount:    b.Amount,
			Period:    b.MonthRef,
			CreatedAt: b.CreatedAt,
		})
	}
	for _, b := range weekly {
		details = append(details, DetailEntry{
			Type:        EntryExpense,
			Category:    CategoryWeekly,
			ID:          b.ID,
			Name:        b.Name,
			Amount:      b.Amount,
			Period:      b.WeekRef,
			Description: b.Description,
			CreatedAt:   b.CreatedAt,
		})
	}
	for _, b := range daily {
		date := b.Date
		details = append(details, DetailEntry{
			Type:        EntryExpense,
			Category:    CategoryDaily,
			ID:          b.ID,
			Name:        b.Name,
			Amount:      b.Amount,
			Period:      b.Date,
			Description: b.Description,
			CreatedAt:   b.CreatedAt,
			Date:        &date,
		})
	}
	return details
}

// topExpenses ranks all expenses by amount and keeps the ten largest.
func topExpenses(fixed []FixedBill, weekly []WeeklyBill, daily []DailyBill) []TopExpense {
	top := make([]TopExpense, 0, len(fixed)+len(weekly)+len(daily))
	for _, b := range fixed {
		top = append(top, TopExpense{Name: b.Name, Amount: b.Amount, Category: CategoryFixed})
	}
	for _, b := range weekly {
		top = append(top, TopExpense{Name: b.Name, Amount: b.Amount, Category: CategoryWeekly})
	}
	for _, b := range daily {
		top = append(top, TopExpense{Name: b.Name, Amount: b.Amount, Category: CategoryDaily})
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Amount > top[j].Amount })
	if len(top) > topExpenseLimit {
		top = top[:topExpenseLimit]
	}
	return top
}

// dailySeries reconstructs a gap-free per-day series over the period's month.
// Only produced when the period resolves to a single calendar month; always
// exactly as many points as that month has days, zero-valued days included.
func dailySeries(p Period, income []IncomeEntry, daily []DailyBill) []DailyPoint {
	series := make([]DailyPoint, 0)

	month := p.SeriesMonth()
	if month == "" {
		return series
	}

	for day := 1; day <= DaysInMonth(month); day++ {
		date := month + "-" + pad2(day)

		var in, out float64
		for _, e := range income {
			if e.Date == date {
				in += amountOrZero(e.Amount)
			}
		}
		for _, b := range daily {
			if b.Date == date {
				out += amountOrZero(b.Amount)
			}
		}

		series = append(series, DailyPoint{
			Date:     date,
			Income:   in,
			Expenses: out,
			Net:      in - out,
		})
	}
	return series
}

func statistics(p Period, details []DetailEntry, incomeCount, expenseCount int, totIncome, totSpent float64) Statistics {
	stats := Statistics{
		Transactions: len(details),
		IncomeCount:  incomeCount,
		ExpenseCount: expenseCount,
	}

	if days := daySpan(p); days > 0 {
		stats.AvgDailyIncome = totIncome / float64(days)
		stats.AvgDailyExpenses = totSpent / float64(days)
	}
	return stats
}

// daySpan is the ceiling of the period's length in days, 0 when the bounds
// are absent, malformed, or inverted. A zero span keeps the daily averages
// at 0 instead of propagating NaN or Inf.
func daySpan(p Period) int {
	start, err := time.Parse(dateLayout, p.Start)
	if err != nil {
		return 0
	}
	end, err := time.Parse(dateLayout, p.End)
	if err != nil {
		return 0
	}
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// amountOrZero coerces non-finite amounts to zero at the summation boundary.
// Records are validated strictly on write, so this only matters for data that
// predates the API or was edited out-of-band.
func amountOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func incomeDescription(notes *string) *string {
	if notes != nil && *notes != "" {
		return notes
	}
	def := "Arrecadação diária"
	return &def
}
