package nlp

import (
	"strings"

	"gastozap/internal/core"
)

// extractAmount finds the first monetary value in the text. Pattern families
// are tried in order; the first family with a match commits to its first match
// position. Multiple numbers in one message ("paguei 50 de 100") resolve to
// the first one — a known heuristic limitation, not a bug. A zero value
// counts as no amount.
func (e *Engine) extractAmount(text string) *float64 {
	for _, re := range e.moneyRes {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		cents, err := core.ParseDecimalToCents(m[1])
		if err != nil {
			continue
		}
		v := float64(cents) / 100
		return &v
	}
	return nil
}

// extractCategory resolves the spending category. Keyword matching
// short-circuits on the first trigger found, in table declaration order; if
// nothing matches, noun lemmas from the tagger are checked against the same
// trigger lists before defaulting to the sentinel.
func (e *Engine) extractCategory(text string) string {
	for _, cat := range categoryTable {
		for _, trigger := range cat.Triggers {
			if strings.Contains(text, trigger) {
				return cat.Name
			}
		}
	}

	if e.tagger != nil {
		for _, tok := range e.tagger.Tag(text) {
			if tok.Pos != PosNoun || tok.Stopword {
				continue
			}
			lemma := strings.ToLower(tok.Lemma)
			for _, cat := range categoryTable {
				for _, trigger := range cat.Triggers {
					if lemma == trigger {
						return cat.Name
					}
				}
			}
		}
	}

	return core.SentinelCategory
}

// extractDescription strips expense keywords, amount matches and common
// prepositions, then collapses whitespace. A recognized expense never gets an
// empty description: the placeholder stands in when nothing remains.
func (e *Engine) extractDescription(text string) string {
	desc := text

	for _, re := range e.expenseWordRes {
		desc = re.ReplaceAllString(desc, "")
	}
	for _, re := range e.moneyRes {
		desc = re.ReplaceAllString(desc, "")
	}
	for _, re := range e.stopwordRes {
		desc = re.ReplaceAllString(desc, "")
	}

	desc = strings.Join(strings.Fields(desc), " ")
	if desc == "" {
		return core.UnspecifiedDescription
	}
	return desc
}

// extractPeriod maps report wording to a period, first keyword wins,
// defaulting to the current month.
func extractPeriod(text string) core.Period {
	for _, pk := range periodKeywords {
		if strings.Contains(text, pk.Keyword) {
			return pk.Period
		}
	}
	return core.PeriodMonth
}

// scoreConfidence is the additive advisory score over the extracted fields,
// clamped to [0, 1]. It never gates whether a result is produced.
func scoreConfidence(amount *float64, category, description string) float64 {
	confidence := 0.0

	if amount != nil {
		confidence += 0.4
	}

	switch {
	case category != "" && category != core.SentinelCategory:
		confidence += 0.3
	case category == core.SentinelCategory:
		confidence += 0.1
	}

	if description != "" && description != core.UnspecifiedDescription {
		confidence += 0.3
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}
