package importer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/cleared-dev/runway/internal/id"
	"github.com/cleared-dev/runway/internal/isodate"
	"github.com/cleared-dev/runway/internal/model"
)

const (
	billNumFields  = 3
	billColDueDate = 0
	billColName    = 1
	billColAmount  = 2
)

// BillHeader is the header row of a bills CSV.
var BillHeader = []string{"due_date", "name", "amount"}

// ReadBills reads a bills CSV. A blank or unparsable amount is kept as an
// invalid amount; the projection reports such bills as skipped.
func ReadBills(r io.Reader) ([]model.Bill, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = billNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading bills CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var bills []model.Bill
	for i, rec := range records[1:] {
		due := rec[billColDueDate]
		if due != "" && !isodate.Valid(due) {
			return nil, fmt.Errorf("row %d: invalid due_date %q", i+2, due)
		}
		if rec[billColName] == "" {
			return nil, fmt.Errorf("row %d: missing name", i+2)
		}
		bills = append(bills, model.Bill{
			ID:      id.New(id.PrefixBill),
			Name:    rec[billColName],
			DueDate: due,
			Amount:  model.ParseAmount(rec[billColAmount]),
		})
	}
	return bills, nil
}
