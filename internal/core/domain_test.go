package core

import (
	"math"
	"testing"
)

func TestIncomeEntryValidate(t *testing.T) {
	good := IncomeEntry{Date: "2024-03-01", Amount: 150.5}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []IncomeEntry{
		{Date: "", Amount: 10},
		{Date: "01/03/2024", Amount: 10},
		{Date: "2024-03-01", Amount: math.NaN()},
		{Date: "2024-03-01", Amount: math.Inf(1)},
	}
	for i, e := range cases {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}

func TestFixedBillValidate(t *testing.T) {
	good := FixedBill{Name: "Aluguel", Amount: 1200, MonthRef: "2024-03"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []FixedBill{
		{Name: "  ", Amount: 1, MonthRef: "2024-03"},
		{Name: "Aluguel", Amount: 1, MonthRef: "março"},
		{Name: "Aluguel", Amount: math.NaN(), MonthRef: "2024-03"},
	}
	for i, b := range cases {
		if err := b.Validate(); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}

func TestWeeklyBillValidate(t *testing.T) {
	good := WeeklyBill{Name: "Feira", Amount: 80, WeekRef: "2024-W15"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bad := WeeklyBill{Name: "Feira", Amount: 80, WeekRef: "2024-15"}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for malformed week tag")
	}
}

func TestDailyBillValidate(t *testing.T) {
	good := DailyBill{Name: "Gelo", Amount: 12, Date: "2024-03-02"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	// Negative amounts are legal: the source data is not constrained here.
	refund := DailyBill{Name: "Estorno", Amount: -30, Date: "2024-03-02"}
	if err := refund.Validate(); err != nil {
		t.Fatalf("expected ok for negative amount, got %v", err)
	}
	bad := DailyBill{Name: "", Amount: 12, Date: "2024-03-02"}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for empty name")
	}
}
