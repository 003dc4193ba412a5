package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Period type labels.
const (
	PeriodMonthly = "mensal"
	PeriodWeekly  = "semanal"
	PeriodCustom  = "customizado"
)

// Period is a resolved reporting window. Start and End are inclusive
// YYYY-MM-DD dates.
type Period struct {
	Start string `json:"inicio"`
	End   string `json:"fim"`
	Type  string `json:"tipo"`

	// Defaulted is set when the window was not requested but fell back to
	// the current calendar month. Not part of the wire shape.
	Defaulted bool `json:"-"`
}

// PeriodQuery carries the raw period selectors from a report request. The
// first selector present wins: explicit range, then month, then week; with
// none set the period defaults to the current calendar month.
type PeriodQuery struct {
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD
	Month     string // YYYY-MM
	Week      string // YYYY-Www
}

const dateLayout = "2006-01-02"

// ResolvePeriod turns a raw query into an inclusive date window.
func ResolvePeriod(q PeriodQuery, now time.Time) Period {
	switch {
	case q.StartDate != "" && q.EndDate != "":
		return Period{Start: q.StartDate, End: q.EndDate, Type: PeriodCustom}

	case q.Month != "":
		start := q.Month + "-01"
		end := q.Month + "-" + pad2(DaysInMonth(q.Month))
		return Period{Start: start, End: end, Type: PeriodMonthly}

	case q.Week != "":
		year, week, ok := splitWeekRef(q.Week)
		if ok {
			start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).
				AddDate(0, 0, (week-1)*7)
			end := start.AddDate(0, 0, 6)
			return Period{
				Start: start.Format(dateLayout),
				End:   end.Format(dateLayout),
				Type:  PeriodWeekly,
			}
		}
		fallthrough

	default:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		last := first.AddDate(0, 1, -1)
		return Period{
			Start:     first.Format(dateLayout),
			End:       last.Format(dateLayout),
			Type:      PeriodCustom,
			Defaulted: true,
		}
	}
}

// SeriesMonth returns the YYYY-MM tag of the month the daily series should
// cover, or "" when the period does not resolve to a single calendar month.
// A custom range whose bounds merely share a year-month yields that whole
// month, not the clipped range; downstream charts rely on a gap-free
// full-month series. A defaulted window produces no series: only an
// explicit month or range selector triggers the daily breakdown.
func (p Period) SeriesMonth() string {
	if len(p.Start) < 7 || len(p.End) < 7 {
		return ""
	}
	if p.Type == PeriodWeekly || p.Defaulted {
		return ""
	}
	if p.Start[:7] == p.End[:7] {
		return p.Start[:7]
	}
	return ""
}

// MonthTag returns the YYYY-MM tag for t.
func MonthTag(t time.Time) string {
	return t.Format("2006-01")
}

// WeekTag returns the YYYY-Www tag for t using the same week numbering
// as ResolvePeriod: week 1 starts on January 1st, weeks run 7 days.
func WeekTag(t time.Time) string {
	week := (t.YearDay()-1)/7 + 1
	return fmt.Sprintf("%d-W%02d", t.Year(), week)
}

// DaysInMonth returns the number of calendar days in a YYYY-MM month tag,
// or 0 when the tag is malformed.
func DaysInMonth(monthRef string) int {
	t, err := time.Parse("2006-01", monthRef)
	if err != nil {
		return 0
	}
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// splitWeekRef parses a YYYY-Www tag into year and week number.
func splitWeekRef(s string) (year, week int, ok bool) {
	parts := strings.SplitN(s, "-W", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	week, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return year, week, true
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
