package entities

// TransactionType distinguishes income from expenses in the ledger
type TransactionType string

const (
	TransactionIncome  TransactionType = "RECEITA"
	TransactionExpense TransactionType = "DESPESA"
)

// TransactionStatus is the settlement state of a ledger entry
type TransactionStatus string

const (
	TransactionConfirmed TransactionStatus = "CONFIRMADO"
	TransactionPaid      TransactionStatus = "PAGO"
	TransactionPending   TransactionStatus = "PENDENTE"
)

// Transaction is a financial ledger entry.
// Date is a display label such as "Hoje, 14:30", "28 Out, 16:45" or "05/11, 09:00".
type Transaction struct {
	ID          string
	Date        string
	Description string
	Category    string
	Status      TransactionStatus
	Amount      float64
	Type        TransactionType
}

// Signed returns the amount with expenses negated
func (t *Transaction) Signed() float64 {
	if t.Type == TransactionExpense {
		return -t.Amount
	}
	return t.Amount
}
