// Package worker backs up recorded expenses to Google Sheets. It consumes
// expense-recorded events and sweeps the pending queue as a safety net for
// lost messages.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"gastozap/internal/amqp"
	"gastozap/internal/core"
	"gastozap/internal/log"
	"gastozap/internal/sheets"
)

// Storage is the subset of the expense repository the worker needs.
type Storage interface {
	GetExpense(ctx context.Context, id int64) (core.Expense, error)
	PendingSyncIDs(ctx context.Context, limit int) ([]int64, error)
	MarkSynced(ctx context.Context, id int64) error
	MarkSyncError(ctx context.Context, id int64) error
}

// Consumer delivers expense-recorded events. The real implementation is the
// AMQP client.
type Consumer interface {
	ConsumeExpenseRecorded(ctx context.Context, handler func(context.Context, *amqp.ExpenseRecordedMessage) error) error
}

// SyncWorker copies expenses from SQLite to the backup spreadsheet.
type SyncWorker struct {
	storage   Storage
	sheets    sheets.ExpenseAppender
	batchSize int
}

func NewSyncWorker(storage Storage, sheets sheets.ExpenseAppender, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		sheets:    sheets,
		batchSize: batchSize,
	}
}

// HandleRecorded processes a single expense-recorded event. Returning an
// error requeues the message.
func (w *SyncWorker) HandleRecorded(ctx context.Context, msg *amqp.ExpenseRecordedMessage) error {
	slog.InfoContext(ctx, "Processing expense recorded event",
		log.FieldExpenseID, msg.ID,
		"recorded_at", msg.RecordedAt)

	return w.syncExpense(ctx, msg.ID)
}

func (w *SyncWorker) syncExpense(ctx context.Context, id int64) error {
	expense, err := w.storage.GetExpense(ctx, id)
	if err != nil {
		return fmt.Errorf("get expense %d: %w", id, err)
	}

	rowRef, err := w.sheets.Append(ctx, expense)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error",
				log.FieldExpenseID, id, log.FieldError, markErr)
		}
		return fmt.Errorf("append expense %d to sheet: %w", id, err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		return fmt.Errorf("mark expense %d synced: %w", id, err)
	}

	slog.InfoContext(ctx, "Expense backed up",
		log.FieldExpenseID, id,
		log.FieldSheetsRef, rowRef)
	return nil
}

// ProcessPending sweeps expenses that still await backup. It is the safety
// net for lost or nacked events: per-expense failures are logged and the
// sweep moves on.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	ids, err := w.storage.PendingSyncIDs(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending expenses: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending expenses", "count", len(ids))

	for _, id := range ids {
		if err := w.syncExpense(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to sync pending expense",
				log.FieldExpenseID, id, log.FieldError, err)
		}
	}
	return nil
}

// StartupSyncCheck drains the pending backlog once, with a larger batch, to
// recover from worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	ids, err := w.storage.PendingSyncIDs(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("list pending expenses on startup: %w", err)
	}
	if len(ids) == 0 {
		slog.InfoContext(ctx, "No pending expenses found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending expenses on startup", "count", len(ids))

	success, failed := 0, 0
	for _, id := range ids {
		if err := w.syncExpense(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Startup sync failed for expense",
				log.FieldExpenseID, id, log.FieldError, err)
			failed++
			continue
		}
		success++
	}

	slog.InfoContext(ctx, "Startup sync check complete",
		"synced", success,
		"failed", failed)
	return nil
}

// Run supervises the event consumer and the periodic pending sweep until the
// context is cancelled or one of them fails.
func (w *SyncWorker) Run(ctx context.Context, consumer Consumer, sweepInterval time.Duration) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return consumer.ConsumeExpenseRecorded(ctx, w.HandleRecorded)
	})

	g.Go(func() error {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := w.ProcessPending(ctx); err != nil {
					slog.ErrorContext(ctx, "Periodic sync failed", log.FieldError, err)
				}
			}
		}
	})

	return g.Wait()
}
