package finance

import (
	"fmt"
	"time"

	"github.com/celsoprodesp/Antigravity/internal/entities"
)

const isoDate = "2006-01-02"

// Criteria narrows the ledger. Empty fields do not filter.
type Criteria struct {
	Category string
	From     string // YYYY-MM-DD, inclusive
	To       string // YYYY-MM-DD, inclusive
}

// Empty reports whether no filter is applied
func (c Criteria) Empty() bool {
	return c.Category == "" && c.From == "" && c.To == ""
}

// Filter returns the transactions matching c, in their original order.
// A transaction whose date label cannot be parsed is never excluded by the date bounds.
func Filter(txs []entities.Transaction, c Criteria, now time.Time) ([]entities.Transaction, error) {
	var from, to time.Time
	var err error
	if c.From != "" {
		if from, err = time.ParseInLocation(isoDate, c.From, now.Location()); err != nil {
			return nil, fmt.Errorf("invalid start date %q: %w", c.From, err)
		}
	}
	if c.To != "" {
		if to, err = time.ParseInLocation(isoDate, c.To, now.Location()); err != nil {
			return nil, fmt.Errorf("invalid end date %q: %w", c.To, err)
		}
		// whole day
		to = to.AddDate(0, 0, 1)
	}

	out := make([]entities.Transaction, 0, len(txs))
	for _, tx := range txs {
		if c.Category != "" && tx.Category != c.Category {
			continue
		}
		if !from.IsZero() || !to.IsZero() {
			if day, ok := ParseTransactionDate(tx.Date, now); ok {
				if !from.IsZero() && day.Before(from) {
					continue
				}
				if !to.IsZero() && !day.Before(to) {
					continue
				}
			}
		}
		out = append(out, tx)
	}
	return out, nil
}

// Categories lists the distinct categories in order of first appearance
func Categories(txs []entities.Transaction) []string {
	seen := make(map[string]bool, len(txs))
	var out []string
	for _, tx := range txs {
		if !seen[tx.Category] {
			seen[tx.Category] = true
			out = append(out, tx.Category)
		}
	}
	return out
}

// Totals sums income, expenses and the resulting balance
type Totals struct {
	Income  float64
	Expense float64
	Balance float64
}

// Summarize computes the totals of txs
func Summarize(txs []entities.Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		if tx.Type == entities.TransactionExpense {
			t.Expense += tx.Amount
		} else {
			t.Income += tx.Amount
		}
		t.Balance += tx.Signed()
	}
	return t
}
