package core

import (
	"errors"
	"strings"
	"time"
)

// Intent is the coarse classification of an incoming message.
type Intent string

const (
	IntentExpense Intent = "expense"
	IntentReport  Intent = "report"
	IntentUnknown Intent = "unknown"
)

// Period is the time window a report request refers to.
type Period string

const (
	PeriodToday     Period = "today"
	PeriodYesterday Period = "yesterday"
	PeriodWeek      Period = "week"
	PeriodMonth     Period = "month"
	PeriodYear      Period = "year"
	PeriodAll       Period = "all"
)

// SentinelCategory is assigned when no category keyword or fallback match succeeds.
const SentinelCategory = "outros"

// UnspecifiedDescription is returned when stripping leaves no description text.
const UnspecifiedDescription = "gasto não especificado"

// ProcessedMessage is the structured result of running the NLP engine over one
// message. It is an immutable value; the engine creates a fresh one per call.
type ProcessedMessage struct {
	Intent       Intent
	OriginalText string // normalized (lowercased, trimmed) input
	Timestamp    time.Time

	// Expense fields
	Amount      *float64 // nil when no monetary value was found
	Category    string
	Description string
	Confidence  float64

	// Report fields
	Period Period
}

// HasAmount reports whether a monetary value was extracted.
func (p ProcessedMessage) HasAmount() bool {
	return p.Amount != nil
}

// Expense is a stored spending record.
type Expense struct {
	ID              int64
	UserPhone       string
	Amount          Money
	Category        string
	Description     string
	Confidence      float64
	OriginalMessage string
	CreatedAt       time.Time
}

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyPhone    = errors.New("empty user phone")
	ErrEmptyCategory = errors.New("empty category")
)

func (e Expense) Validate() error {
	if strings.TrimSpace(e.UserPhone) == "" {
		return ErrEmptyPhone
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// CategoryAmount pairs a category with an aggregated total, used by report
// summaries.
type CategoryAmount struct {
	Name  string
	Total Money
	Count int64
}

// UserStatistics aggregates a user's spending history for the stats command.
type UserStatistics struct {
	TotalExpenses    int64
	TotalAmount      Money
	TodayTotal       Money
	WeekTotal        Money
	MonthTotal       Money
	MostUsedCategory string
}
