// Package nlp classifies short informal Portuguese messages into expense
// records and report requests, extracting amount, category, description,
// period and a confidence score.
//
// The engine is a pure function of its input plus immutable configuration:
// every call is independent and safe to run concurrently.
package nlp

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"gastozap/internal/core"
)

// MaxMessageLen is the longest message the engine accepts, in runes.
const MaxMessageLen = 500

var (
	ErrEmptyMessage   = errors.New("empty message")
	ErrMessageTooLong = errors.New("message too long (max 500 characters)")
)

// Engine holds the compiled keyword tables and the optional tagger. Construct
// once with New and reuse; it carries no per-call state.
type Engine struct {
	tagger Tagger

	moneyRes       []*regexp.Regexp
	expenseWordRes []*regexp.Regexp
	stopwordRes    []*regexp.Regexp
}

// New builds an engine. The tagger may be nil, in which case category
// extraction is keyword-only and falls through to the sentinel category.
func New(tagger Tagger) *Engine {
	e := &Engine{tagger: tagger}
	for _, p := range moneyPatterns {
		e.moneyRes = append(e.moneyRes, regexp.MustCompile(p))
	}
	for _, kw := range expenseKeywords {
		e.expenseWordRes = append(e.expenseWordRes, wordPattern(kw))
	}
	for _, w := range descriptionStopwords {
		e.stopwordRes = append(e.stopwordRes, wordPattern(w))
	}
	return e
}

func wordPattern(word string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`)
}

// Normalize lowercases and trims a message. It is idempotent.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Validate checks that a message can be processed. It is a precondition for
// Process, kept separate so callers can reply with a targeted error.
func (e *Engine) Validate(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > MaxMessageLen {
		return ErrMessageTooLong
	}
	return nil
}

// Process runs the full pipeline over one message and returns the structured
// result. Extraction never fails: missing fields come back absent or as their
// documented defaults.
func (e *Engine) Process(text string) core.ProcessedMessage {
	text = Normalize(text)

	result := core.ProcessedMessage{
		Intent:       e.Classify(text),
		OriginalText: text,
		Timestamp:    time.Now(),
	}

	switch result.Intent {
	case core.IntentExpense:
		result.Amount = e.extractAmount(text)
		result.Category = e.extractCategory(text)
		result.Description = e.extractDescription(text)
		result.Confidence = scoreConfidence(result.Amount, result.Category, result.Description)
	case core.IntentReport:
		result.Category = e.extractCategory(text)
		result.Period = extractPeriod(text)
	}

	return result
}

// Classify resolves the message intent with an ordered rule cascade: report
// keywords, then expense keywords, then an implicit expense when a bare amount
// is present. Input must already be normalized.
func (e *Engine) Classify(text string) core.Intent {
	for _, kw := range reportKeywords {
		if strings.Contains(text, kw) {
			return core.IntentReport
		}
	}
	for _, kw := range expenseKeywords {
		if strings.Contains(text, kw) {
			return core.IntentExpense
		}
	}
	if e.extractAmount(text) != nil {
		return core.IntentExpense
	}
	return core.IntentUnknown
}

// Categories returns the canonical category names in declaration order.
func (e *Engine) Categories() []string {
	names := make([]string, len(categoryTable))
	for i, c := range categoryTable {
		names[i] = c.Name
	}
	return names
}
