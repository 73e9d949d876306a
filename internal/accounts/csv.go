package accounts

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/cleared-dev/runway/internal/model"
)

const (
	numFields  = 4
	colID      = 0
	colName    = 1
	colType    = 2
	colBalance = 3
)

// Header is the accounts CSV header row.
var Header = []string{"id", "name", "type", "balance"}

// ReadAccounts reads an accounts CSV.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes an accounts CSV.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colID] = acct.ID
	row[colName] = acct.Name
	row[colType] = string(acct.Type)
	row[colBalance] = acct.Balance.String()
	return row
}

// UnmarshalAccount converts a CSV row to an Account. A blank or unparsable
// balance yields an account with an invalid balance.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	if record[colName] == "" {
		return model.Account{}, fmt.Errorf("missing account name")
	}

	return model.Account{
		ID:      record[colID],
		Name:    record[colName],
		Type:    model.AccountType(record[colType]),
		Balance: model.ParseAmount(record[colBalance]),
	}, nil
}
