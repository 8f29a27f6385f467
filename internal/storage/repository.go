// Package storage persists expense records in SQLite and tracks their backup
// sync status.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gastozap/internal/core"
	"gastozap/internal/log"

	_ "modernc.org/sqlite"
)

// Sync status values for the sheet backup pipeline.
const (
	SyncPending = "pending"
	SyncDone    = "synced"
	SyncError   = "error"
)

var ErrNotFound = errors.New("expense not found")

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

// CreateExpense inserts a new record and returns it with ID and timestamps set.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("validate expense: %w", err)
	}

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (user_phone, amount_cents, category, description,
			confidence, original_message, sync_status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.UserPhone, e.Amount.Cents, e.Category, e.Description,
		e.Confidence, e.OriginalMessage, SyncPending, now, now)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("last insert id: %w", err)
	}

	e.ID = id
	e.CreatedAt = now

	slog.InfoContext(ctx, "Expense saved",
		log.FieldExpenseID, e.ID,
		log.FieldUserPhone, e.UserPhone,
		log.FieldAmountCents, e.Amount.Cents,
		log.FieldCategory, e.Category)

	return e, nil
}

// GetExpense retrieves a single record by ID.
func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_phone, amount_cents, category, description,
			confidence, original_message, created_at
		FROM expenses WHERE id = ?`, id)

	var e core.Expense
	err := row.Scan(&e.ID, &e.UserPhone, &e.Amount.Cents, &e.Category,
		&e.Description, &e.Confidence, &e.OriginalMessage, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %d: %w", id, err)
	}
	return e, nil
}

// TotalBetween sums a user's spending in [start, end]. An empty category (or
// the sentinel) means all categories.
func (r *SQLiteRepository) TotalBetween(ctx context.Context, userPhone string, start, end time.Time, category string) (core.Money, error) {
	query := `
		SELECT COALESCE(SUM(amount_cents), 0) FROM expenses
		WHERE user_phone = ? AND created_at >= ? AND created_at <= ?`
	args := []any{userPhone, start.UTC(), end.UTC()}

	if category != "" && category != core.SentinelCategory {
		query += ` AND category = ?`
		args = append(args, category)
	}

	var cents int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&cents); err != nil {
		return core.Money{}, fmt.Errorf("total between: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// CategorySummary aggregates a user's spending per category in [start, end],
// largest total first.
func (r *SQLiteRepository) CategorySummary(ctx context.Context, userPhone string, start, end time.Time) ([]core.CategoryAmount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category, SUM(amount_cents) AS total, COUNT(1) AS cnt
		FROM expenses
		WHERE user_phone = ? AND created_at >= ? AND created_at <= ?
		GROUP BY category
		ORDER BY total DESC`,
		userPhone, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("category summary: %w", err)
	}
	defer rows.Close()

	var summary []core.CategoryAmount
	for rows.Next() {
		var ca core.CategoryAmount
		if err := rows.Scan(&ca.Name, &ca.Total.Cents, &ca.Count); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		summary = append(summary, ca)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("summary rows: %w", err)
	}
	return summary, nil
}

// UserStatistics computes lifetime and per-period aggregates for one user.
func (r *SQLiteRepository) UserStatistics(ctx context.Context, userPhone string, now time.Time) (core.UserStatistics, error) {
	var stats core.UserStatistics

	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(1), COALESCE(SUM(amount_cents), 0)
		FROM expenses WHERE user_phone = ?`, userPhone).
		Scan(&stats.TotalExpenses, &stats.TotalAmount.Cents)
	if err != nil {
		return stats, fmt.Errorf("user totals: %w", err)
	}

	for _, pt := range []struct {
		period core.Period
		dst    *core.Money
	}{
		{core.PeriodToday, &stats.TodayTotal},
		{core.PeriodWeek, &stats.WeekTotal},
		{core.PeriodMonth, &stats.MonthTotal},
	} {
		start, end := core.PeriodRange(pt.period, now)
		total, err := r.TotalBetween(ctx, userPhone, start, end, "")
		if err != nil {
			return stats, err
		}
		*pt.dst = total
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT category FROM expenses
		WHERE user_phone = ?
		GROUP BY category
		ORDER BY COUNT(1) DESC
		LIMIT 1`, userPhone).Scan(&stats.MostUsedCategory)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return stats, fmt.Errorf("most used category: %w", err)
	}

	return stats, nil
}

// RecentExpenses lists a user's newest records.
func (r *SQLiteRepository) RecentExpenses(ctx context.Context, userPhone string, limit int) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_phone, amount_cents, category, description,
			confidence, original_message, created_at
		FROM expenses
		WHERE user_phone = ?
		ORDER BY created_at DESC
		LIMIT ?`, userPhone, limit)
	if err != nil {
		return nil, fmt.Errorf("recent expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var e core.Expense
		if err := rows.Scan(&e.ID, &e.UserPhone, &e.Amount.Cents, &e.Category,
			&e.Description, &e.Confidence, &e.OriginalMessage, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("expense rows: %w", err)
	}
	return out, nil
}

// PendingSyncIDs lists records still waiting for the sheet backup, oldest
// first, up to limit.
func (r *SQLiteRepository) PendingSyncIDs(ctx context.Context, limit int) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM expenses
		WHERE sync_status = ?
		ORDER BY created_at ASC
		LIMIT ?`, SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("pending sync ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan pending id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pending rows: %w", err)
	}
	return ids, nil
}

// MarkSynced records a successful sheet backup.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	return r.setSyncStatus(ctx, id, SyncDone)
}

// MarkSyncError records a failed sheet backup so the retry sweep picks it up
// for inspection.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	return r.setSyncStatus(ctx, id, SyncError)
}

func (r *SQLiteRepository) setSyncStatus(ctx context.Context, id int64, status string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE expenses SET sync_status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set sync status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	slog.InfoContext(ctx, "Expense sync status updated", log.FieldExpenseID, id, "status", status)
	return nil
}
