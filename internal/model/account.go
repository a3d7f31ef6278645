package model

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// Valid reports whether t is one of the five account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// NormalBalance is the side on which an account's natural increase is recorded.
type NormalBalance string

const (
	NormalDebit  NormalBalance = "debit"
	NormalCredit NormalBalance = "credit"
)

// Account represents a row in chart-of-accounts.csv.
// Accounts form a tree via ParentID; the chart service rejects cycles.
type Account struct {
	ID          int
	Name        string
	Type        AccountType
	ParentID    int // 0 = top-level
	Description string
}

// NormalBalance is fully determined by the account type: assets and
// expenses increase on the debit side, everything else on the credit side.
func (a Account) NormalBalance() NormalBalance {
	switch a.Type {
	case AccountTypeAsset, AccountTypeExpense:
		return NormalDebit
	default:
		return NormalCredit
	}
}
