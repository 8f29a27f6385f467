// Package core holds the domain types shared by the NLP engine, storage and
// reply building: intents, periods, money and period arithmetic.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Money is a BRL amount in cents. Records are stored in cents; the engine's
// float output is converted at the service boundary.
type Money struct {
	Cents int64
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Reais returns the value in reais as a float64 for display purposes.
func (m Money) Reais() float64 {
	return float64(m.Cents) / 100.0
}

// MoneyFromReais converts a positive decimal amount to cents with half-up
// rounding.
func MoneyFromReais(v float64) Money {
	return Money{Cents: int64(v*100 + 0.5)}
}

// FormatBRL renders cents in the Brazilian convention: "R$ 1.234,56".
func FormatBRL(m Money) string {
	whole := m.Cents / 100
	frac := m.Cents % 100
	if frac < 0 {
		frac = -frac
	}

	digits := strconv.FormatInt(whole, 10)
	neg := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("R$ %s%s,%02d", sign, b.String(), frac)
}

// ParseDecimalToCents converts a decimal string to cents with half-up rounding
// on the third decimal place. Accepts both dot (12.34) and comma (12,34)
// separators. Returns an error for invalid formats, negative values, or zero.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}
