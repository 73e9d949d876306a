package accounts

import "github.com/cleared-dev/runway/internal/model"

// DefaultAccounts returns the starter accounts written by init. Balances
// start at zero so a fresh workspace can project immediately.
func DefaultAccounts() []model.Account {
	zero := model.ParseAmount("0")
	return []model.Account{
		{ID: "acct_checking", Name: "Checking", Type: model.AccountTypeChecking, Balance: zero},
		{ID: "acct_savings", Name: "Savings", Type: model.AccountTypeSavings, Balance: zero},
		{ID: "acct_credit", Name: "Credit Card", Type: model.AccountTypeCredit, Balance: zero},
	}
}
