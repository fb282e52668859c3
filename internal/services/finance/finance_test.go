package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celsoprodesp/Antigravity/internal/entities"
)

var now = time.Date(2024, time.November, 5, 15, 20, 0, 0, time.UTC)

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseTransactionDate(t *testing.T) {
	tests := []struct {
		label  string
		want   time.Time
		wantOK bool
	}{
		{"Hoje, 14:30", day(time.November, 5), true},
		{"hoje", day(time.November, 5), true},
		{"Ontem, 09:15", day(time.November, 4), true},
		{"28 Out, 16:45", day(time.October, 28), true},
		{"3 Fev", day(time.February, 3), true},
		{"12 Dezembro", day(time.December, 12), true},
		{"05/11, 9:07", day(time.November, 5), true},
		{"31/01", day(time.January, 31), true},
		{"", time.Time{}, false},
		{"amanhã", time.Time{}, false},
		{"28 Xyz", time.Time{}, false},
		{"00/11", time.Time{}, false},
		{"10/13", time.Time{}, false},
		{"ab/11", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := ParseTransactionDate(tt.label, now)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseTransactionDate_YesterdayAcrossYear(t *testing.T) {
	newYear := time.Date(2025, time.January, 1, 8, 0, 0, 0, time.UTC)
	got, ok := ParseTransactionDate("Ontem, 23:10", newYear)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), got)
}

func TestFormatTransactionDate(t *testing.T) {
	label := FormatTransactionDate(time.Date(2024, time.March, 7, 9, 5, 0, 0, time.UTC))
	assert.Equal(t, "07/03, 9:05", label)

	got, ok := ParseTransactionDate(label, now)
	require.True(t, ok)
	assert.Equal(t, day(time.March, 7), got)
}

func ledger() []entities.Transaction {
	return []entities.Transaction{
		{ID: "1", Date: "Hoje, 14:30", Description: "Pagamento #PED-2023-89", Category: "Vendas", Status: entities.TransactionConfirmed, Amount: 1250, Type: entities.TransactionIncome},
		{ID: "2", Date: "Ontem, 09:15", Description: "AWS Cloud Services", Category: "Infraestrutura", Status: entities.TransactionPaid, Amount: 450.90, Type: entities.TransactionExpense},
		{ID: "3", Date: "28 Out, 16:45", Description: "Consultoria Técnica", Category: "Serviços", Status: entities.TransactionPending, Amount: 3800, Type: entities.TransactionIncome},
		{ID: "4", Date: "sem data", Description: "Ajuste", Category: "Vendas", Status: entities.TransactionPending, Amount: 10, Type: entities.TransactionExpense},
	}
}

func ids(txs []entities.Transaction) []string {
	out := make([]string, 0, len(txs))
	for _, tx := range txs {
		out = append(out, tx.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{name: "正常系: no criteria", criteria: Criteria{}, want: []string{"1", "2", "3", "4"}},
		{name: "正常系: category", criteria: Criteria{Category: "Vendas"}, want: []string{"1", "4"}},
		{name: "正常系: from is inclusive", criteria: Criteria{From: "2024-11-04"}, want: []string{"1", "2", "4"}},
		{name: "正常系: to is inclusive whole day", criteria: Criteria{To: "2024-11-04"}, want: []string{"2", "3", "4"}},
		{name: "正常系: range", criteria: Criteria{From: "2024-10-01", To: "2024-10-31"}, want: []string{"3", "4"}},
		{name: "正常系: category and range", criteria: Criteria{Category: "Vendas", From: "2024-11-05", To: "2024-11-05"}, want: []string{"1", "4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Filter(ledger(), tt.criteria, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}

	t.Run("異常系: malformed bound", func(t *testing.T) {
		_, err := Filter(ledger(), Criteria{From: "05/11/2024"}, now)
		assert.Error(t, err)
		_, err = Filter(ledger(), Criteria{To: "2024-13-01"}, now)
		assert.Error(t, err)
	})
}

func TestCategoriesAndSummary(t *testing.T) {
	txs := ledger()
	assert.Equal(t, []string{"Vendas", "Infraestrutura", "Serviços"}, Categories(txs))

	totals := Summarize(txs)
	assert.InDelta(t, 5050, totals.Income, 0.001)
	assert.InDelta(t, 460.90, totals.Expense, 0.001)
	assert.InDelta(t, 4589.10, totals.Balance, 0.001)
	assert.True(t, Criteria{}.Empty())
	assert.False(t, Criteria{Category: "Vendas"}.Empty())
}
