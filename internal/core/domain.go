package core

import (
	"errors"
	"math"
	"strings"
	"time"
)

// Expense category labels as they appear on the wire. The front end and the
// stored data are Brazilian Portuguese, so the labels stay that way too.
const (
	CategoryIncome = "Receita"
	CategoryFixed  = "Fixa"
	CategoryWeekly = "Semanal"
	CategoryDaily  = "Diária"
)

// Detail entry kinds.
const (
	EntryIncome  = "arrecadacao"
	EntryExpense = "gasto"
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidMonthRef = errors.New("invalid month reference")
	ErrInvalidWeekRef  = errors.New("invalid week reference")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyName       = errors.New("empty name")
)

type (
	// IncomeEntry is one day's cash intake. Multiple entries per day are
	// legal and are summed by the report.
	IncomeEntry struct {
		ID        int64   `json:"id"`
		Date      string  `json:"data"`
		Amount    float64 `json:"valor"`
		Notes     *string `json:"observacoes"`
		CreatedAt string  `json:"created_at"`
		UpdatedAt string  `json:"updated_at"`
	}

	// FixedBill is a monthly recurring expense tied to a month tag (YYYY-MM).
	FixedBill struct {
		ID        int64   `json:"id"`
		Name      string  `json:"nome"`
		Amount    float64 `json:"valor"`
		MonthRef  string  `json:"mes_referencia"`
		Recurring int     `json:"recorrencia_mensal"`
		Active    int     `json:"ativo"`
		CreatedAt string  `json:"created_at"`
		UpdatedAt string  `json:"updated_at"`
	}

	// WeeklyBill is an expense tied to a week tag (YYYY-Www).
	WeeklyBill struct {
		ID          int64   `json:"id"`
		Name        string  `json:"nome"`
		Amount      float64 `json:"valor"`
		WeekRef     string  `json:"semana_referente"`
		Description *string `json:"descricao"`
		Recurring   int     `json:"recorrencia_semanal"`
		CreatedAt   string  `json:"created_at"`
		UpdatedAt   string  `json:"updated_at"`
	}

	// DailyBill is an ad-hoc expense tied to a calendar date (YYYY-MM-DD).
	DailyBill struct {
		ID          int64   `json:"id"`
		Name        string  `json:"nome"`
		Amount      float64 `json:"valor"`
		Date        string  `json:"data"`
		Description *string `json:"descricao"`
		CreatedAt   string  `json:"created_at"`
		UpdatedAt   string  `json:"updated_at"`
	}
)

// ValidDate reports whether s is a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// ValidMonthRef reports whether s is a YYYY-MM month tag.
func ValidMonthRef(s string) bool {
	_, err := time.Parse("2006-01", s)
	return err == nil
}

// ValidWeekRef reports whether s is a YYYY-Www week tag.
func ValidWeekRef(s string) bool {
	year, week, ok := splitWeekRef(s)
	return ok && year >= 1 && week >= 1 && week <= 53
}

// validAmount accepts any finite value. The source data is expected to be
// non-negative but the reference never enforces that, so neither do we.
func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (e IncomeEntry) Validate() error {
	if !ValidDate(e.Date) {
		return ErrInvalidDate
	}
	if !validAmount(e.Amount) {
		return ErrInvalidAmount
	}
	return nil
}

func (b FixedBill) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyName
	}
	if !validAmount(b.Amount) {
		return ErrInvalidAmount
	}
	if !ValidMonthRef(b.MonthRef) {
		return ErrInvalidMonthRef
	}
	return nil
}

func (b WeeklyBill) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyName
	}
	if !validAmount(b.Amount) {
		return ErrInvalidAmount
	}
	if !ValidWeekRef(b.WeekRef) {
		return ErrInvalidWeekRef
	}
	return nil
}

func (b DailyBill) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyName
	}
	if !validAmount(b.Amount) {
		return ErrInvalidAmount
	}
	if !ValidDate(b.Date) {
		return ErrInvalidDate
	}
	return nil
}
