package accounts

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/runway/internal/id"
	"github.com/cleared-dev/runway/internal/model"
	"github.com/cleared-dev/runway/internal/store"
)

// Service provides in-memory lookup over the account list.
type Service struct {
	accounts []model.Account
	byID     map[string]int
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []model.Account) *Service {
	s := &Service{byID: make(map[string]int, len(accounts))}
	for _, a := range accounts {
		s.Upsert(a)
	}
	return s
}

// Load reads the accounts snapshot from a repository and returns a Service.
func Load(ctx context.Context, repo *store.Repository) (*Service, error) {
	accts, _, err := repo.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}
	return NewService(accts), nil
}

// Save writes the accounts snapshot back to the repository.
func (s *Service) Save(ctx context.Context, repo *store.Repository) error {
	if err := repo.SaveAccounts(ctx, s.accounts); err != nil {
		return fmt.Errorf("saving accounts: %w", err)
	}
	return nil
}

// All returns all accounts.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Get returns an account by ID.
func (s *Service) Get(accountID string) (model.Account, bool) {
	i, ok := s.byID[accountID]
	if !ok {
		return model.Account{}, false
	}
	return s.accounts[i], true
}

// Upsert replaces the account with the same ID or appends a new one.
// An account without an ID gets a fresh one. Returns the stored account.
func (s *Service) Upsert(acct model.Account) model.Account {
	if acct.ID == "" {
		acct.ID = id.New(id.PrefixAccount)
	}
	if i, ok := s.byID[acct.ID]; ok {
		s.accounts[i] = acct
		return acct
	}
	s.byID[acct.ID] = len(s.accounts)
	s.accounts = append(s.accounts, acct)
	return acct
}

// ByType returns all accounts of the given type.
func (s *Service) ByType(accountType model.AccountType) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Type == accountType {
			result = append(result, a)
		}
	}
	return result
}

// StartingBalance sums the valid balances of accounts whose type is in types.
// The result is invalid when no account contributes.
func (s *Service) StartingBalance(types []model.AccountType) model.Amount {
	want := make(map[model.AccountType]bool, len(types))
	for _, t := range types {
		want[t] = true
	}
	total := decimal.Zero
	found := false
	for _, a := range s.accounts {
		if !want[a.Type] || !a.Balance.Valid {
			continue
		}
		total = total.Add(a.Balance.Decimal)
		found = true
	}
	if !found {
		return model.Amount{}
	}
	return model.NewAmount(total)
}

// TypesFromStrings converts configured type names to account types.
func TypesFromStrings(names []string) []model.AccountType {
	types := make([]model.AccountType, len(names))
	for i, n := range names {
		types[i] = model.AccountType(n)
	}
	return types
}
