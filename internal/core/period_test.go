package core

import (
	"testing"
	"time"
)

func TestPeriodRange(t *testing.T) {
	// Thursday, 2025-03-13 15:04:05 UTC
	now := time.Date(2025, 3, 13, 15, 4, 5, 0, time.UTC)

	cases := []struct {
		period    Period
		wantStart time.Time
		wantEnd   time.Time
	}{
		{PeriodToday,
			time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 13, 23, 59, 59, 999999999, time.UTC)},
		{PeriodYesterday,
			time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 12, 23, 59, 59, 999999999, time.UTC)},
		{PeriodWeek,
			time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), // Monday
			now},
		{PeriodMonth,
			time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			now},
		{PeriodYear,
			time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			now},
		{PeriodAll,
			time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC),
			now},
	}
	for _, tc := range cases {
		start, end := PeriodRange(tc.period, now)
		if !start.Equal(tc.wantStart) || !end.Equal(tc.wantEnd) {
			t.Errorf("PeriodRange(%s) = [%v, %v], want [%v, %v]",
				tc.period, start, end, tc.wantStart, tc.wantEnd)
		}
	}
}

func TestPeriodRangeWeekOnMonday(t *testing.T) {
	monday := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	start, _ := PeriodRange(PeriodWeek, monday)
	if !start.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("week starting on a Monday should begin that same day, got %v", start)
	}
}

func TestPeriodRangeWeekOnSunday(t *testing.T) {
	sunday := time.Date(2025, 3, 16, 9, 0, 0, 0, time.UTC)
	start, _ := PeriodRange(PeriodWeek, sunday)
	if !start.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("sunday belongs to the week of the previous Monday, got %v", start)
	}
}

func TestPeriodLabel(t *testing.T) {
	if got := PeriodLabel(PeriodWeek); got != "esta semana" {
		t.Errorf("PeriodLabel(week) = %q", got)
	}
	if got := PeriodLabel(PeriodAll); got != "total geral" {
		t.Errorf("PeriodLabel(all) = %q", got)
	}
}

func TestCategoryEmojiFallback(t *testing.T) {
	if got := CategoryEmoji("transporte"); got != "🚗" {
		t.Errorf("CategoryEmoji(transporte) = %q", got)
	}
	if got := CategoryEmoji("inexistente"); got != CategoryEmoji(SentinelCategory) {
		t.Errorf("unknown category should use the sentinel emoji, got %q", got)
	}
}
