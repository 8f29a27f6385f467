// Package services orchestrates the NLP engine, storage, events and reply
// building for incoming messages.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gastozap/internal/core"
	"gastozap/internal/log"
)

// ErrNoAmount is returned when an expense message carries no usable monetary
// value; the handler turns it into a correction prompt.
var ErrNoAmount = errors.New("no amount identified in message")

// Repository is the storage port the services need.
type Repository interface {
	CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	TotalBetween(ctx context.Context, userPhone string, start, end time.Time, category string) (core.Money, error)
	CategorySummary(ctx context.Context, userPhone string, start, end time.Time) ([]core.CategoryAmount, error)
	UserStatistics(ctx context.Context, userPhone string, now time.Time) (core.UserStatistics, error)
	RecentExpenses(ctx context.Context, userPhone string, limit int) ([]core.Expense, error)
}

// recentLimit caps the recent-expenses listing.
const recentLimit = 5

// EventPublisher emits expense-recorded events for the backup worker. It is
// optional: a nil publisher disables the pipeline.
type EventPublisher interface {
	PublishExpenseRecorded(ctx context.Context, id int64) error
}

// ExpenseService stores processed expenses and fans out recorded events.
type ExpenseService struct {
	repo      Repository
	publisher EventPublisher
}

func NewExpenseService(repo Repository, publisher EventPublisher) *ExpenseService {
	return &ExpenseService{repo: repo, publisher: publisher}
}

// Record persists an expense built from an engine result. The event publish
// is best-effort: the expense is already saved locally when it runs.
func (s *ExpenseService) Record(ctx context.Context, userPhone string, pm core.ProcessedMessage) (core.Expense, error) {
	if !pm.HasAmount() || *pm.Amount <= 0 {
		return core.Expense{}, ErrNoAmount
	}

	expense := core.Expense{
		UserPhone:       userPhone,
		Amount:          core.MoneyFromReais(*pm.Amount),
		Category:        pm.Category,
		Description:     pm.Description,
		Confidence:      pm.Confidence,
		OriginalMessage: pm.OriginalText,
	}

	saved, err := s.repo.CreateExpense(ctx, expense)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	if s.publisher == nil {
		slog.DebugContext(ctx, "No event publisher configured, skipping backup event",
			log.FieldExpenseID, saved.ID)
		return saved, nil
	}
	if err := s.publisher.PublishExpenseRecorded(ctx, saved.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense recorded event",
			log.FieldExpenseID, saved.ID, log.FieldError, err)
	}

	return saved, nil
}

// TotalByPeriod sums a user's spending over a report period. An empty or
// sentinel category means all categories.
func (s *ExpenseService) TotalByPeriod(ctx context.Context, userPhone string, period core.Period, category string) (core.Money, error) {
	start, end := core.PeriodRange(period, time.Now())
	return s.repo.TotalBetween(ctx, userPhone, start, end, category)
}

// SummaryByPeriod aggregates a user's spending per category over a period.
func (s *ExpenseService) SummaryByPeriod(ctx context.Context, userPhone string, period core.Period) ([]core.CategoryAmount, error) {
	start, end := core.PeriodRange(period, time.Now())
	return s.repo.CategorySummary(ctx, userPhone, start, end)
}

// Statistics returns the lifetime aggregates for the stats command.
func (s *ExpenseService) Statistics(ctx context.Context, userPhone string) (core.UserStatistics, error) {
	return s.repo.UserStatistics(ctx, userPhone, time.Now())
}

// Recent lists the user's newest expenses, newest first.
func (s *ExpenseService) Recent(ctx context.Context, userPhone string) ([]core.Expense, error) {
	return s.repo.RecentExpenses(ctx, userPhone, recentLimit)
}
