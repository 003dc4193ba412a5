package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"caixa/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a row lookup or mutation matches no record.
var ErrNotFound = errors.New("record not found")

// Ledger table names as used on the wire and in audit rows.
const (
	TableIncome = "arrecadacao"
	TableFixed  = "contas_fixas"
	TableWeekly = "contas_semanais"
	TableDaily  = "contas_diarias"
)

// AuditLog is one row of the mutation trail.
type AuditLog struct {
	ID        int64   `json:"id"`
	Action    string  `json:"acao"`
	Table     string  `json:"tabela"`
	RecordID  *int64  `json:"registro_id"`
	Details   *string `json:"detalhes"`
	Timestamp string  `json:"timestamp"`
}

// IncomeFilter narrows income listings. Week filters are resolved to a
// date range by the caller before they reach storage. CreationOrder
// switches from newest-first to insertion order; the report depends on
// insertion order for stable grouping.
type IncomeFilter struct {
	StartDate     string
	EndDate       string
	Month         string
	CreationOrder bool
}

type FixedFilter struct {
	Month         string
	Name          string
	CreationOrder bool
}

type WeeklyFilter struct {
	Week          string
	Name          string
	Description   string
	YearPrefix    string
	CreationOrder bool
}

type DailyFilter struct {
	StartDate     string
	EndDate       string
	Month         string
	Day           string
	Name          string
	Description   string
	CreationOrder bool
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- arrecadacao ---

func (r *SQLiteRepository) CreateIncome(ctx context.Context, e core.IncomeEntry) (core.IncomeEntry, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO arrecadacao (data, valor, observacoes) VALUES (?, ?, ?)`,
		e.Date, e.Amount, e.Notes)
	if err != nil {
		return core.IncomeEntry{}, fmt.Errorf("insert income entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.IncomeEntry{}, fmt.Errorf("read income entry id: %w", err)
	}

	created, err := r.GetIncome(ctx, id)
	if err != nil {
		return core.IncomeEntry{}, err
	}
	slog.InfoContext(ctx, "Income entry saved", "id", id, "date", e.Date, "amount", e.Amount)
	return created, nil
}

func (r *SQLiteRepository) GetIncome(ctx context.Context, id int64) (core.IncomeEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, data, valor, observacoes, created_at, updated_at FROM arrecadacao WHERE id = ?`, id)
	var e core.IncomeEntry
	if err := row.Scan(&e.ID, &e.Date, &e.Amount, &e.Notes, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.IncomeEntry{}, ErrNotFound
		}
		return core.IncomeEntry{}, fmt.Errorf("get income entry: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) ListIncome(ctx context.Context, f IncomeFilter) ([]core.IncomeEntry, error) {
	query := `SELECT id, data, valor, observacoes, created_at, updated_at FROM arrecadacao WHERE 1=1`
	var args []any

	if f.StartDate != "" && f.EndDate != "" {
		query += ` AND data BETWEEN ? AND ?`
		args = append(args, f.StartDate, f.EndDate)
	} else if f.Month != "" {
		query += ` AND substr(data, 1, 7) = ?`
		args = append(args, f.Month)
	}
	if f.CreationOrder {
		query += ` ORDER BY id`
	} else {
		query += ` ORDER BY data DESC, id DESC`
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list income entries: %w", err)
	}
	defer rows.Close()

	entries := []core.IncomeEntry{}
	for rows.Next() {
		var e core.IncomeEntry
		if err := rows.Scan(&e.ID, &e.Date, &e.Amount, &e.Notes, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan income entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *SQLiteRepository) UpdateIncome(ctx context.Context, id int64, e core.IncomeEntry) (core.IncomeEntry, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE arrecadacao SET data = ?, valor = ?, observacoes = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		e.Date, e.Amount, e.Notes, id)
	if err != nil {
		return core.IncomeEntry{}, fmt.Errorf("update income entry: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return core.IncomeEntry{}, err
	}
	return r.GetIncome(ctx, id)
}

func (r *SQLiteRepository) DeleteIncome(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM arrecadacao WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete income entry: %w", err)
	}
	return requireAffected(res)
}

// --- contas_fixas ---

func (r *SQLiteRepository) CreateFixedBill(ctx context.Context, b core.FixedBill) (core.FixedBill, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO contas_fixas (nome, valor, mes_referencia, recorrencia_mensal, ativo) VALUES (?, ?, ?, ?, ?)`,
		b.Name, b.Amount, b.MonthRef, b.Recurring, b.Active)
	if err != nil {
		return core.FixedBill{}, fmt.Errorf("insert fixed bill: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.FixedBill{}, fmt.Errorf("read fixed bill id: %w", err)
	}

	created, err := r.GetFixedBill(ctx, id)
	if err != nil {
		return core.FixedBill{}, err
	}
	slog.InfoContext(ctx, "Fixed bill saved", "id", id, "name", b.Name, "month", b.MonthRef)
	return created, nil
}

func (r *SQLiteRepository) GetFixedBill(ctx context.Context, id int64) (core.FixedBill, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, nome, valor, mes_referencia, recorrencia_mensal, ativo, created_at, updated_at
		 FROM contas_fixas WHERE id = ?`, id)
	var b core.FixedBill
	if err := row.Scan(&b.ID, &b.Name, &b.Amount, &b.MonthRef, &b.Recurring, &b.Active, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.FixedBill{}, ErrNotFound
		}
		return core.FixedBill{}, fmt.Errorf("get fixed bill: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) ListFixedBills(ctx context.Context, f FixedFilter) ([]core.FixedBill, error) {
	query := `SELECT id, nome, valor, mes_referencia, recorrencia_mensal, ativo, created_at, updated_at
	          FROM contas_fixas WHERE 1=1`
	var args []any

	if f.Month != "" {
		query += ` AND mes_referencia = ?`
		args = append(args, f.Month)
	}
	if f.Name != "" {
		query += ` AND nome LIKE ?`
		args = append(args, "%"+f.Name+"%")
	}
	if f.CreationOrder {
		query += ` ORDER BY id`
	} else {
		query += ` ORDER BY mes_referencia DESC, id DESC`
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list fixed bills: %w", err)
	}
	defer rows.Close()

	bills := []core.FixedBill{}
	for rows.Next() {
		var b core.FixedBill
		if err := rows.Scan(&b.ID, &b.Name, &b.Amount, &b.MonthRef, &b.Recurring, &b.Active, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan fixed bill: %w", err)
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

// ListRecurringFixedBills returns active recurring fixed bills that have no
// copy in the given month yet, keyed by name.
func (r *SQLiteRepository) ListRecurringFixedBills(ctx context.Context, month string) ([]core.FixedBill, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, nome, valor, mes_referencia, recorrencia_mensal, ativo, created_at, updated_at
		 FROM contas_fixas cf
		 WHERE recorrencia_mensal = 1 AND ativo = 1 AND mes_referencia < ?
		   AND NOT EXISTS (
		     SELECT 1 FROM contas_fixas other
		     WHERE other.nome = cf.nome AND other.mes_referencia = ?
		   )
		 ORDER BY id`, month, month)
	if err != nil {
		return nil, fmt.Errorf("list recurring fixed bills: %w", err)
	}
	defer rows.Close()

	bills := []core.FixedBill{}
	seen := map[string]bool{}
	for rows.Next() {
		var b core.FixedBill
		if err := rows.Scan(&b.ID, &b.Name, &b.Amount, &b.MonthRef, &b.Recurring, &b.Active, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan recurring fixed bill: %w", err)
		}
		if seen[b.Name] {
			continue
		}
		seen[b.Name] = true
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

func (r *SQLiteRepository) UpdateFixedBill(ctx context.Context, id int64, b core.FixedBill) (core.FixedBill, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE contas_fixas SET nome = ?, valor = ?, mes_referencia = ?, recorrencia_mensal = ?, ativo = ?,
		 updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		b.Name, b.Amount, b.MonthRef, b.Recurring, b.Active, id)
	if err != nil {
		return core.FixedBill{}, fmt.Errorf("update fixed bill: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return core.FixedBill{}, err
	}
	return r.GetFixedBill(ctx, id)
}

func (r *SQLiteRepository) DeleteFixedBill(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contas_fixas WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete fixed bill: %w", err)
	}
	return requireAffected(res)
}

// --- contas_semanais ---

func (r *SQLiteRepository) CreateWeeklyBill(ctx context.Context, b core.WeeklyBill) (core.WeeklyBill, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO contas_semanais (nome, valor, semana_referente, descricao, recorrencia_semanal) VALUES (?, ?, ?, ?, ?)`,
		b.Name, b.Amount, b.WeekRef, b.Description, b.Recurring)
	if err != nil {
		return core.WeeklyBill{}, fmt.Errorf("insert weekly bill: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.WeeklyBill{}, fmt.Errorf("read weekly bill id: %w", err)
	}

	created, err := r.GetWeeklyBill(ctx, id)
	if err != nil {
		return core.WeeklyBill{}, err
	}
	slog.InfoContext(ctx, "Weekly bill saved", "id", id, "name", b.Name, "week", b.WeekRef)
	return created, nil
}

func (r *SQLiteRepository) GetWeeklyBill(ctx context.Context, id int64) (core.WeeklyBill, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, nome, valor, semana_referente, descricao, recorrencia_semanal, created_at, updated_at
		 FROM contas_semanais WHERE id = ?`, id)
	var b core.WeeklyBill
	if err := row.Scan(&b.ID, &b.Name, &b.Amount, &b.WeekRef, &b.Description, &b.Recurring, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.WeeklyBill{}, ErrNotFound
		}
		return core.WeeklyBill{}, fmt.Errorf("get weekly bill: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) ListWeeklyBills(ctx context.Context, f WeeklyFilter) ([]core.WeeklyBill, error) {
	query := `SELECT id, nome, valor, semana_referente, descricao, recorrencia_semanal, created_at, updated_at
	          FROM contas_semanais WHERE 1=1`
	var args []any

	if f.Week != "" {
		query += ` AND semana_referente = ?`
		args = append(args, f.Week)
	} else if f.YearPrefix != "" {
		query += ` AND semana_referente LIKE ?`
		args = append(args, f.YearPrefix+"%")
	}
	if f.Name != "" {
		query += ` AND nome LIKE ?`
		args = append(args, "%"+f.Name+"%")
	}
	if f.Description != "" {
		query += ` AND descricao LIKE ?`
		args = append(args, "%"+f.Description+"%")
	}
	if f.CreationOrder {
		query += ` ORDER BY id`
	} else {
		query += ` ORDER BY semana_referente DESC, id DESC`
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list weekly bills: %w", err)
	}
	defer rows.Close()

	bills := []core.WeeklyBill{}
	for rows.Next() {
		var b core.WeeklyBill
		if err := rows.Scan(&b.ID, &b.Name, &b.Amount, &b.WeekRef, &b.Description, &b.Recurring, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan weekly bill: %w", err)
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

// ListRecurringWeeklyBills returns recurring weekly bills with no copy in
// the given week yet, keyed by name.
func (r *SQLiteRepository) ListRecurringWeeklyBills(ctx context.Context, week string) ([]core.WeeklyBill, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, nome, valor, semana_referente, descricao, recorrencia_semanal, created_at, updated_at
		 FROM contas_semanais cs
		 WHERE recorrencia_semanal = 1 AND semana_referente < ?
		   AND NOT EXISTS (
		     SELECT 1 FROM contas_semanais other
		     WHERE other.nome = cs.nome AND other.semana_referente = ?
		   )
		 ORDER BY id`, week, week)
	if err != nil {
		return nil, fmt.Errorf("list recurring weekly bills: %w", err)
	}
	defer rows.Close()

	bills := []core.WeeklyBill{}
	seen := map[string]bool{}
	for rows.Next() {
		var b core.WeeklyBill
		if err := rows.Scan(&b.ID, &b.Name, &b.Amount, &b.WeekRef, &b.Description, &b.Recurring, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan recurring weekly bill: %w", err)
		}
		if seen[b.Name] {
			continue
		}
		seen[b.Name] = true
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

func (r *SQLiteRepository) UpdateWeeklyBill(ctx context.Context, id int64, b core.WeeklyBill) (core.WeeklyBill, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE contas_semanais SET nome = ?, valor = ?, semana_referente = ?, descricao = ?, recorrencia_semanal = ?,
		 updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		b.Name, b.Amount, b.WeekRef, b.Description, b.Recurring, id)
	if err != nil {
		return core.WeeklyBill{}, fmt.Errorf("update weekly bill: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return core.WeeklyBill{}, err
	}
	return r.GetWeeklyBill(ctx, id)
}

func (r *SQLiteRepository) DeleteWeeklyBill(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contas_semanais WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete weekly bill: %w", err)
	}
	return requireAffected(res)
}

// --- contas_diarias ---

func (r *SQLiteRepository) CreateDailyBill(ctx context.Context, b core.DailyBill) (core.DailyBill, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO contas_diarias (nome, valor, data, descricao) VALUES (?, ?, ?, ?)`,
		b.Name, b.Amount, b.Date, b.Description)
	if err != nil {
		return core.DailyBill{}, fmt.Errorf("insert daily bill: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.DailyBill{}, fmt.Errorf("read daily bill id: %w", err)
	}

	created, err := r.GetDailyBill(ctx, id)
	if err != nil {
		return core.DailyBill{}, err
	}
	slog.InfoContext(ctx, "Daily bill saved", "id", id, "name", b.Name, "date", b.Date)
	return created, nil
}

func (r *SQLiteRepository) GetDailyBill(ctx context.Context, id int64) (core.DailyBill, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, nome, valor, data, descricao, created_at, updated_at FROM contas_diarias WHERE id = ?`, id)
	var b core.DailyBill
	if err := row.Scan(&b.ID, &b.Name, &b.Amount, &b.Date, &b.Description, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.DailyBill{}, ErrNotFound
		}
		return core.DailyBill{}, fmt.Errorf("get daily bill: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) ListDailyBills(ctx context.Context, f DailyFilter) ([]core.DailyBill, error) {
	query := `SELECT id, nome, valor, data, descricao, created_at, updated_at FROM contas_diarias WHERE 1=1`
	var args []any

	switch {
	case f.StartDate != "" && f.EndDate != "":
		query += ` AND data BETWEEN ? AND ?`
		args = append(args, f.StartDate, f.EndDate)
	case f.Month != "":
		query += ` AND substr(data, 1, 7) = ?`
		args = append(args, f.Month)
	case f.Day != "":
		query += ` AND data = ?`
		args = append(args, f.Day)
	}
	if f.Name != "" {
		query += ` AND nome LIKE ?`
		args = append(args, "%"+f.Name+"%")
	}
	if f.Description != "" {
		query += ` AND descricao LIKE ?`
		args = append(args, "%"+f.Description+"%")
	}
	if f.CreationOrder {
		query += ` ORDER BY id`
	} else {
		query += ` ORDER BY data DESC, id DESC`
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list daily bills: %w", err)
	}
	defer rows.Close()

	bills := []core.DailyBill{}
	for rows.Next() {
		var b core.DailyBill
		if err := rows.Scan(&b.ID, &b.Name, &b.Amount, &b.Date, &b.Description, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan daily bill: %w", err)
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

func (r *SQLiteRepository) UpdateDailyBill(ctx context.Context, id int64, b core.DailyBill) (core.DailyBill, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE contas_diarias SET nome = ?, valor = ?, data = ?, descricao = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		b.Name, b.Amount, b.Date, b.Description, id)
	if err != nil {
		return core.DailyBill{}, fmt.Errorf("update daily bill: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return core.DailyBill{}, err
	}
	return r.GetDailyBill(ctx, id)
}

func (r *SQLiteRepository) DeleteDailyBill(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contas_diarias WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete daily bill: %w", err)
	}
	return requireAffected(res)
}

// --- logs ---

func (r *SQLiteRepository) AppendLog(ctx context.Context, action, table string, recordID *int64, details *string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO logs (acao, tabela, registro_id, detalhes) VALUES (?, ?, ?, ?)`,
		action, table, recordID, details)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListLogs(ctx context.Context, limit int) ([]AuditLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, acao, tabela, registro_id, detalhes, timestamp FROM logs ORDER BY timestamp DESC, id DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	logs := []AuditLog{}
	for rows.Next() {
		var l AuditLog
		if err := rows.Scan(&l.ID, &l.Action, &l.Table, &l.RecordID, &l.Details, &l.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// --- aggregates ---

// MonthTotal holds one month's summed amount for series queries.
type MonthTotal struct {
	Month string
	Total float64
}

// IncomeTotalsByMonth sums income per month over an inclusive YYYY-MM range.
func (r *SQLiteRepository) IncomeTotalsByMonth(ctx context.Context, fromMonth, toMonth string) ([]MonthTotal, error) {
	return r.monthTotals(ctx,
		`SELECT substr(data, 1, 7) AS mes, COALESCE(SUM(valor), 0)
		 FROM arrecadacao WHERE substr(data, 1, 7) BETWEEN ? AND ?
		 GROUP BY mes ORDER BY mes`, fromMonth, toMonth)
}

// DailyBillTotalsByMonth sums ad-hoc daily bills per month.
func (r *SQLiteRepository) DailyBillTotalsByMonth(ctx context.Context, fromMonth, toMonth string) ([]MonthTotal, error) {
	return r.monthTotals(ctx,
		`SELECT substr(data, 1, 7) AS mes, COALESCE(SUM(valor), 0)
		 FROM contas_diarias WHERE substr(data, 1, 7) BETWEEN ? AND ?
		 GROUP BY mes ORDER BY mes`, fromMonth, toMonth)
}

// FixedBillTotalsByMonth sums active fixed bills per referenced month.
// Inactive bills stay out of dashboard and comparison figures.
func (r *SQLiteRepository) FixedBillTotalsByMonth(ctx context.Context, fromMonth, toMonth string) ([]MonthTotal, error) {
	return r.monthTotals(ctx,
		`SELECT mes_referencia AS mes, COALESCE(SUM(valor), 0)
		 FROM contas_fixas WHERE mes_referencia BETWEEN ? AND ? AND ativo = 1
		 GROUP BY mes ORDER BY mes`, fromMonth, toMonth)
}

func (r *SQLiteRepository) monthTotals(ctx context.Context, query string, from, to string) ([]MonthTotal, error) {
	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("query month totals: %w", err)
	}
	defer rows.Close()

	totals := []MonthTotal{}
	for rows.Next() {
		var t MonthTotal
		if err := rows.Scan(&t.Month, &t.Total); err != nil {
			return nil, fmt.Errorf("scan month total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
