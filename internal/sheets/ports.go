// Package sheets defines the outbound port for the expense backup sheet.
package sheets

import (
	"context"

	"gastozap/internal/core"
)

// ExpenseAppender appends one expense row to the backup sheet and returns a
// reference to the written range.
type ExpenseAppender interface {
	Append(ctx context.Context, e core.Expense) (rowRef string, err error)
}
