package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"caixa/internal/amqp"
	"caixa/internal/core"
	"caixa/internal/storage"
)

// ChangePublisher announces ledger mutations to the mirror pipeline.
// *amqp.Client satisfies it; a nil publisher disables mirroring.
type ChangePublisher interface {
	PublishEntryChange(ctx context.Context, table string, id int64, action string) error
}

// LedgerService orchestrates ledger mutations: the SQLite write, the audit
// row, and the async mirror notification. Reads go straight to storage.
type LedgerService struct {
	store     *storage.SQLiteRepository
	publisher ChangePublisher
}

func NewLedgerService(store *storage.SQLiteRepository, publisher ChangePublisher) *LedgerService {
	return &LedgerService{store: store, publisher: publisher}
}

func (s *LedgerService) CreateIncome(ctx context.Context, e core.IncomeEntry) (core.IncomeEntry, error) {
	created, err := s.store.CreateIncome(ctx, e)
	if err != nil {
		return core.IncomeEntry{}, fmt.Errorf("create income entry: %w", err)
	}
	s.recordChange(ctx, amqp.ActionCreate, storage.TableIncome, created.ID, created)
	return created, nil
}

func (s *LedgerService) UpdateIncome(ctx context.Context, id int64, e core.IncomeEntry) (core.IncomeEntry, error) {
	updated, err := s.store.UpdateIncome(ctx, id, e)
	if err != nil {
		return core.IncomeEntry{}, fmt.Errorf("update income entry: %w", err)
	}
	s.recordChange(ctx, amqp.ActionUpdate, storage.TableIncome, id, updated)
	return updated, nil
}

func (s *LedgerService) DeleteIncome(ctx context.Context, id int64) error {
	old, err := s.store.GetIncome(ctx, id)
	if err != nil {
		return fmt.Errorf("delete income entry: %w", err)
	}
	if err := s.store.DeleteIncome(ctx, id); err != nil {
		return fmt.Errorf("delete income entry: %w", err)
	}
	s.recordChange(ctx, amqp.ActionDelete, storage.TableIncome, id, old)
	return nil
}

func (s *LedgerService) CreateFixedBill(ctx context.Context, b core.FixedBill) (core.FixedBill, error) {
	created, err := s.store.CreateFixedBill(ctx, b)
	if err != nil {
		return core.FixedBill{}, fmt.Errorf("create fixed bill: %w", err)
	}
	s.recordChange(ctx, amqp.ActionCreate, storage.TableFixed, created.ID, created)
	return created, nil
}

func (s *LedgerService) UpdateFixedBill(ctx context.Context, id int64, b core.FixedBill) (core.FixedBill, error) {
	updated, err := s.store.UpdateFixedBill(ctx, id, b)
	if err != nil {
		return core.FixedBill{}, fmt.Errorf("update fixed bill: %w", err)
	}
	s.recordChange(ctx, amqp.ActionUpdate, storage.TableFixed, id, updated)
	return updated, nil
}

func (s *LedgerService) DeleteFixedBill(ctx context.Context, id int64) error {
	old, err := s.store.GetFixedBill(ctx, id)
	if err != nil {
		return fmt.Errorf("delete fixed bill: %w", err)
	}
	if err := s.store.DeleteFixedBill(ctx, id); err != nil {
		return fmt.Errorf("delete fixed bill: %w", err)
	}
	s.recordChange(ctx, amqp.ActionDelete, storage.TableFixed, id, old)
	return nil
}

func (s *LedgerService) CreateWeeklyBill(ctx context.Context, b core.WeeklyBill) (core.WeeklyBill, error) {
	created, err := s.store.CreateWeeklyBill(ctx, b)
	if err != nil {
		return core.WeeklyBill{}, fmt.Errorf("create weekly bill: %w", err)
	}
	s.recordChange(ctx, amqp.ActionCreate, storage.TableWeekly, created.ID, created)
	return created, nil
}

func (s *LedgerService) UpdateWeeklyBill(ctx context.Context, id int64, b core.WeeklyBill) (core.WeeklyBill, error) {
	updated, err := s.store.UpdateWeeklyBill(ctx, id, b)
	if err != nil {
		return core.WeeklyBill{}, fmt.Errorf("update weekly bill: %w", err)
	}
	s.recordChange(ctx, amqp.ActionUpdate, storage.TableWeekly, id, updated)
	return updated, nil
}

func (s *LedgerService) DeleteWeeklyBill(ctx context.Context, id int64) error {
	old, err := s.store.GetWeeklyBill(ctx, id)
	if err != nil {
		return fmt.Errorf("delete weekly bill: %w", err)
	}
	if err := s.store.DeleteWeeklyBill(ctx, id); err != nil {
		return fmt.Errorf("delete weekly bill: %w", err)
	}
	s.recordChange(ctx, amqp.ActionDelete, storage.TableWeekly, id, old)
	return nil
}

func (s *LedgerService) CreateDailyBill(ctx context.Context, b core.DailyBill) (core.DailyBill, error) {
	created, err := s.store.CreateDailyBill(ctx, b)
	if err != nil {
		return core.DailyBill{}, fmt.Errorf("create daily bill: %w", err)
	}
	s.recordChange(ctx, amqp.ActionCreate, storage.TableDaily, created.ID, created)
	return created, nil
}

func (s *LedgerService) UpdateDailyBill(ctx context.Context, id int64, b core.DailyBill) (core.DailyBill, error) {
	updated, err := s.store.UpdateDailyBill(ctx, id, b)
	if err != nil {
		return core.DailyBill{}, fmt.Errorf("update daily bill: %w", err)
	}
	s.recordChange(ctx, amqp.ActionUpdate, storage.TableDaily, id, updated)
	return updated, nil
}

func (s *LedgerService) DeleteDailyBill(ctx context.Context, id int64) error {
	old, err := s.store.GetDailyBill(ctx, id)
	if err != nil {
		return fmt.Errorf("delete daily bill: %w", err)
	}
	if err := s.store.DeleteDailyBill(ctx, id); err != nil {
		return fmt.Errorf("delete daily bill: %w", err)
	}
	s.recordChange(ctx, amqp.ActionDelete, storage.TableDaily, id, old)
	return nil
}

// recordChange writes the audit row and notifies the mirror queue. Both are
// best-effort: the ledger write already succeeded and must not be failed
// retroactively.
func (s *LedgerService) recordChange(ctx context.Context, action, table string, id int64, snapshot any) {
	var details *string
	if snapshot != nil {
		if raw, err := json.Marshal(snapshot); err == nil {
			d := string(raw)
			details = &d
		}
	}
	if err := s.store.AppendLog(ctx, action, table, &id, details); err != nil {
		slog.ErrorContext(ctx, "Failed to write audit log",
			"action", action, "table", table, "id", id, "error", err)
	}

	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEntryChange(ctx, table, id, action); err != nil {
		slog.ErrorContext(ctx, "Failed to publish entry change",
			"action", action, "table", table, "id", id, "error", err)
	}
}
