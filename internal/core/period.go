package core

import "time"

// PeriodRange returns the inclusive [start, end] bounds for a report period,
// relative to now. Weeks start on Monday; "all" reaches back to 1900.
func PeriodRange(p Period, now time.Time) (time.Time, time.Time) {
	switch p {
	case PeriodToday:
		return startOfDay(now), endOfDay(now)
	case PeriodYesterday:
		y := now.AddDate(0, 0, -1)
		return startOfDay(y), endOfDay(y)
	case PeriodWeek:
		daysSinceMonday := (int(now.Weekday()) + 6) % 7
		return startOfDay(now.AddDate(0, 0, -daysSinceMonday)), now
	case PeriodMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), now
	case PeriodYear:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), now
	default: // PeriodAll or anything unrecognized
		return time.Date(1900, 1, 1, 0, 0, 0, 0, now.Location()), now
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// PeriodLabel is the pt-BR display name used in reply text.
func PeriodLabel(p Period) string {
	switch p {
	case PeriodToday:
		return "hoje"
	case PeriodYesterday:
		return "ontem"
	case PeriodWeek:
		return "esta semana"
	case PeriodMonth:
		return "este mês"
	case PeriodYear:
		return "este ano"
	case PeriodAll:
		return "total geral"
	}
	return string(p)
}

// categoryEmojis must stay in sync with the category table in internal/nlp.
var categoryEmojis = map[string]string{
	"alimentação": "🍽️",
	"transporte":  "🚗",
	"combustível": "⛽",
	"saúde":       "🏥",
	"educação":    "📚",
	"lazer":       "🎬",
	"casa":        "🏠",
	"roupas":      "👕",
	"outros":      "📦",
}

// CategoryEmoji returns the emoji shown next to a category in replies.
// Unknown categories fall back to the sentinel's emoji.
func CategoryEmoji(category string) string {
	if e, ok := categoryEmojis[category]; ok {
		return e
	}
	return categoryEmojis[SentinelCategory]
}
