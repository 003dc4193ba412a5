package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"caixa/internal/core"
	"caixa/internal/storage"
)

// RecurringSource lists the recurring bill templates that are due to be
// copied into a period.
type RecurringSource interface {
	ListRecurringFixedBills(ctx context.Context, month string) ([]core.FixedBill, error)
	ListRecurringWeeklyBills(ctx context.Context, week string) ([]core.WeeklyBill, error)
}

// RecurringLedger creates the materialized copies. *LedgerService satisfies
// it, so copies get the same audit trail and change events as manual writes.
type RecurringLedger interface {
	CreateFixedBill(ctx context.Context, bill core.FixedBill) (core.FixedBill, error)
	CreateWeeklyBill(ctx context.Context, bill core.WeeklyBill) (core.WeeklyBill, error)
}

// RecurringProcessor copies recurring bills into the current month and week.
type RecurringProcessor struct {
	source RecurringSource
	ledger RecurringLedger
}

func NewRecurringProcessor(source RecurringSource, ledger RecurringLedger) *RecurringProcessor {
	return &RecurringProcessor{source: source, ledger: ledger}
}

// ProcessDue materializes every due recurring bill into the period that
// contains now. A bill is due when no same-name copy exists in the target
// period yet. Individual failures are logged and skipped so one bad row
// does not block the rest of the run.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	if p.source == nil || p.ledger == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	month := core.MonthTag(now)
	week := core.WeekTag(now)

	dueFixed, err := p.source.ListRecurringFixedBills(ctx, month)
	if err != nil {
		return 0, fmt.Errorf("list due fixed bills: %w", err)
	}
	dueWeekly, err := p.source.ListRecurringWeeklyBills(ctx, week)
	if err != nil {
		return 0, fmt.Errorf("list due weekly bills: %w", err)
	}

	slog.InfoContext(ctx, "Processing recurring bills",
		"due_fixed", len(dueFixed),
		"due_weekly", len(dueWeekly),
		"month", month,
		"week", week)

	created := 0

	for _, tmpl := range dueFixed {
		copy := core.FixedBill{
			Name:      tmpl.Name,
			Amount:    tmpl.Amount,
			MonthRef:  month,
			Recurring: tmpl.Recurring,
			Active:    tmpl.Active,
		}
		if _, err := p.ledger.CreateFixedBill(ctx, copy); err != nil {
			slog.ErrorContext(ctx, "Failed to copy recurring fixed bill",
				"template_id", tmpl.ID,
				"name", tmpl.Name,
				"error", err)
			continue
		}
		created++
		slog.InfoContext(ctx, "Copied recurring fixed bill",
			"template_id", tmpl.ID,
			"name", tmpl.Name,
			"month", month)
	}

	for _, tmpl := range dueWeekly {
		copy := core.WeeklyBill{
			Name:        tmpl.Name,
			Amount:      tmpl.Amount,
			WeekRef:     week,
			Description: tmpl.Description,
			Recurring:   tmpl.Recurring,
		}
		if _, err := p.ledger.CreateWeeklyBill(ctx, copy); err != nil {
			slog.ErrorContext(ctx, "Failed to copy recurring weekly bill",
				"template_id", tmpl.ID,
				"name", tmpl.Name,
				"error", err)
			continue
		}
		created++
		slog.InfoContext(ctx, "Copied recurring weekly bill",
			"template_id", tmpl.ID,
			"name", tmpl.Name,
			"week", week)
	}

	slog.InfoContext(ctx, "Recurring bill processing complete",
		"created", created,
		"due_total", len(dueFixed)+len(dueWeekly))

	return created, nil
}

var _ RecurringSource = (*storage.SQLiteRepository)(nil)
var _ RecurringLedger = (*LedgerService)(nil)
