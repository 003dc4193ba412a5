package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"caixa/internal/amqp"
	"caixa/internal/core"
	"caixa/internal/sheets"
	"caixa/internal/storage"
)

// RowSource provides the current state of ledger rows by id.
type RowSource interface {
	GetIncome(ctx context.Context, id int64) (core.IncomeEntry, error)
	GetFixedBill(ctx context.Context, id int64) (core.FixedBill, error)
	GetWeeklyBill(ctx context.Context, id int64) (core.WeeklyBill, error)
	GetDailyBill(ctx context.Context, id int64) (core.DailyBill, error)
}

// MirrorWorker consumes entry change messages and mirrors the affected
// rows into the accountant's spreadsheet.
type MirrorWorker struct {
	source RowSource
	mirror sheets.EntryMirror
}

func NewMirrorWorker(source RowSource, mirror sheets.EntryMirror) *MirrorWorker {
	return &MirrorWorker{source: source, mirror: mirror}
}

// HandleEntryChange processes a single change notification. Returning an
// error makes the consumer nack and requeue the delivery.
func (w *MirrorWorker) HandleEntryChange(ctx context.Context, msg *amqp.EntryChangeMessage) error {
	slog.InfoContext(ctx, "Processing entry change",
		"table", msg.Table,
		"id", msg.ID,
		"action", msg.Action)

	ts := msg.Timestamp.UTC().Format(time.RFC3339)

	// Deletes have no row left to fetch; mirror a tombstone instead.
	if msg.Action == amqp.ActionDelete {
		row := []any{msg.ID, amqp.ActionDelete, ts}
		if err := w.mirror.Append(ctx, msg.Table, row); err != nil {
			return fmt.Errorf("mirror delete of %s/%d: %w", msg.Table, msg.ID, err)
		}
		return nil
	}

	row, err := w.buildRow(ctx, msg)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Row was deleted before we got to it; the delete message will
			// carry the tombstone. Ack and move on.
			slog.WarnContext(ctx, "Row vanished before mirroring, skipping",
				"table", msg.Table, "id", msg.ID)
			return nil
		}
		return err
	}
	if row == nil {
		slog.WarnContext(ctx, "Unknown table in entry change message, dropping",
			"table", msg.Table, "id", msg.ID)
		return nil
	}

	row = append(row, msg.Action, ts)
	if err := w.mirror.Append(ctx, msg.Table, row); err != nil {
		return fmt.Errorf("mirror %s of %s/%d: %w", msg.Action, msg.Table, msg.ID, err)
	}
	return nil
}

func (w *MirrorWorker) buildRow(ctx context.Context, msg *amqp.EntryChangeMessage) ([]any, error) {
	switch msg.Table {
	case storage.TableIncome:
		e, err := w.source.GetIncome(ctx, msg.ID)
		if err != nil {
			return nil, fmt.Errorf("get income entry %d: %w", msg.ID, err)
		}
		return []any{e.ID, e.Date, e.Amount, strOrEmpty(e.Notes)}, nil
	case storage.TableFixed:
		b, err := w.source.GetFixedBill(ctx, msg.ID)
		if err != nil {
			return nil, fmt.Errorf("get fixed bill %d: %w", msg.ID, err)
		}
		return []any{b.ID, b.Name, b.Amount, b.MonthRef, b.Recurring, b.Active}, nil
	case storage.TableWeekly:
		b, err := w.source.GetWeeklyBill(ctx, msg.ID)
		if err != nil {
			return nil, fmt.Errorf("get weekly bill %d: %w", msg.ID, err)
		}
		return []any{b.ID, b.Name, b.Amount, b.WeekRef, strOrEmpty(b.Description), b.Recurring}, nil
	case storage.TableDaily:
		b, err := w.source.GetDailyBill(ctx, msg.ID)
		if err != nil {
			return nil, fmt.Errorf("get daily bill %d: %w", msg.ID, err)
		}
		return []any{b.ID, b.Name, b.Amount, b.Date, strOrEmpty(b.Description)}, nil
	}
	return nil, nil
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
