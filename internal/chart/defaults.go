package chart

import "github.com/noora-ekramy/accounting-demo/internal/model"

// Well-known account IDs every generated chart must carry. The engine
// falls back to these when the oracle produces nothing usable.
const (
	DefaultCheckingID             = 1010
	DefaultUncategorizedExpenseID = 5990
	DefaultUncategorizedIncomeID  = 4990
)

// DefaultChart returns the starter chart of accounts for an entity type.
// Onboarding normally replaces this with an AI-generated chart, but the
// engine's fallback accounts are always present.
func DefaultChart(entityType string) []model.Account {
	switch entityType {
	case "llc_single_member":
		return llcSingleMemberChart()
	default:
		return llcSingleMemberChart()
	}
}

func llcSingleMemberChart() []model.Account {
	return []model.Account{
		{ID: DefaultCheckingID, Name: "Business Checking", Type: model.AccountTypeAsset, Description: "Primary checking account"},
		{ID: 1020, Name: "Business Savings", Type: model.AccountTypeAsset, Description: "Savings account"},
		{ID: 1200, Name: "Accounts Receivable", Type: model.AccountTypeAsset, Description: "Money owed by customers"},
		{ID: 2010, Name: "Credit Card", Type: model.AccountTypeLiability, Description: "Business credit card"},
		{ID: 2100, Name: "Accounts Payable", Type: model.AccountTypeLiability, Description: "Money owed to vendors"},
		{ID: 3010, Name: "Owner's Equity", Type: model.AccountTypeEquity, Description: "Owner's equity"},
		{ID: 4010, Name: "Service Revenue", Type: model.AccountTypeRevenue},
		{ID: 4020, Name: "Product Revenue", Type: model.AccountTypeRevenue},
		{ID: DefaultUncategorizedIncomeID, Name: "Uncategorized Income", Type: model.AccountTypeRevenue, Description: "Inflows pending categorization"},
		{ID: 5010, Name: "Advertising & Marketing", Type: model.AccountTypeExpense, Description: "Advertising costs"},
		{ID: 5020, Name: "Software & SaaS", Type: model.AccountTypeExpense, Description: "Software subscriptions"},
		{ID: 5025, Name: "Cloud Hosting Expense", Type: model.AccountTypeExpense, Description: "Servers and cloud infrastructure"},
		{ID: 5030, Name: "Office Supplies", Type: model.AccountTypeExpense, Description: "Office supplies and expenses"},
		{ID: 5040, Name: "Professional Services", Type: model.AccountTypeExpense, Description: "Legal, accounting, consulting"},
		{ID: 5050, Name: "Shipping & Postage", Type: model.AccountTypeExpense, Description: "Postage and shipping costs"},
		{ID: DefaultUncategorizedExpenseID, Name: "Uncategorized Expense", Type: model.AccountTypeExpense, Description: "Outflows pending categorization"},
	}
}
