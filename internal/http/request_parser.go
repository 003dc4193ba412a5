// Package http serves the ledger's JSON API.
//
// This file implements request payload parsing. Stored data and the wire
// vocabulary are Brazilian Portuguese, so the JSON field names stay that
// way; amounts are accepted as JSON numbers or numeric strings because
// existing clients send both.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"caixa/internal/core"
)

// amount decodes a JSON number or a numeric string.
type amount float64

func (a *amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*a = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("invalid amount %s", s)
		}
		s = strings.TrimSpace(strings.ReplaceAll(unquoted, ",", "."))
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", s)
	}
	*a = amount(v)
	return nil
}

// intFlag decodes a JSON number or boolean into 0/1. The recurrence and
// active columns are integers but older clients post booleans.
type intFlag int

func (f *intFlag) UnmarshalJSON(data []byte) error {
	switch s := strings.TrimSpace(string(data)); s {
	case "null":
		*f = 0
	case "true":
		*f = 1
	case "false":
		*f = 0
	default:
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid flag %q", s)
		}
		*f = intFlag(v)
	}
	return nil
}

type incomePayload struct {
	Date   string  `json:"data"`
	Amount amount  `json:"valor"`
	Notes  *string `json:"observacoes"`
}

func (p incomePayload) toEntry() (core.IncomeEntry, error) {
	e := core.IncomeEntry{
		Date:   strings.TrimSpace(p.Date),
		Amount: float64(p.Amount),
		Notes:  sanitizeOptional(p.Notes),
	}
	return e, e.Validate()
}

type fixedBillPayload struct {
	Name      string   `json:"nome"`
	Amount    amount   `json:"valor"`
	MonthRef  string   `json:"mes_referencia"`
	Recurring intFlag  `json:"recorrencia_mensal"`
	Active    *intFlag `json:"ativo"`
}

func (p fixedBillPayload) toBill() (core.FixedBill, error) {
	active := 1
	if p.Active != nil {
		active = int(*p.Active)
	}
	b := core.FixedBill{
		Name:      sanitizeInput(p.Name),
		Amount:    float64(p.Amount),
		MonthRef:  strings.TrimSpace(p.MonthRef),
		Recurring: int(p.Recurring),
		Active:    active,
	}
	return b, b.Validate()
}

type weeklyBillPayload struct {
	Name        string  `json:"nome"`
	Amount      amount  `json:"valor"`
	WeekRef     string  `json:"semana_referente"`
	Description *string `json:"descricao"`
	Recurring   intFlag `json:"recorrencia_semanal"`
}

func (p weeklyBillPayload) toBill() (core.WeeklyBill, error) {
	b := core.WeeklyBill{
		Name:        sanitizeInput(p.Name),
		Amount:      float64(p.Amount),
		WeekRef:     strings.TrimSpace(p.WeekRef),
		Description: sanitizeOptional(p.Description),
		Recurring:   int(p.Recurring),
	}
	return b, b.Validate()
}

type dailyBillPayload struct {
	Name        string  `json:"nome"`
	Amount      amount  `json:"valor"`
	Date        string  `json:"data"`
	Description *string `json:"descricao"`
}

func (p dailyBillPayload) toBill() (core.DailyBill, error) {
	b := core.DailyBill{
		Name:        sanitizeInput(p.Name),
		Amount:      float64(p.Amount),
		Date:        strings.TrimSpace(p.Date),
		Description: sanitizeOptional(p.Description),
	}
	return b, b.Validate()
}

const maxBodyBytes = 1 << 20

// decodeBody reads a JSON request body into dst, rejecting unknown junk
// and oversized payloads.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}

// validationMessage maps domain validation errors to the Portuguese
// messages the API reports.
func validationMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidDate):
		return "Data inválida, use o formato YYYY-MM-DD"
	case errors.Is(err, core.ErrInvalidMonthRef):
		return "Mês de referência inválido, use o formato YYYY-MM"
	case errors.Is(err, core.ErrInvalidWeekRef):
		return "Semana de referência inválida, use o formato YYYY-Www"
	case errors.Is(err, core.ErrInvalidAmount):
		return "Valor inválido"
	case errors.Is(err, core.ErrEmptyName):
		return "Nome é obrigatório"
	default:
		return "Dados inválidos"
	}
}
