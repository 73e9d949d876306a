package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/runway/internal/id"
	"github.com/cleared-dev/runway/internal/isodate"
	"github.com/cleared-dev/runway/internal/model"
)

// GenericParser reads runway's own ledger CSV layout.
type GenericParser struct{}

const (
	genericNumFields = 9
	genColDate       = 0
	genColType       = 1
	genColAssetType  = 2
	genColSymbol     = 3
	genColQuantity   = 4
	genColPrice      = 5
	genColFee        = 6
	genColAmount     = 7
	genColNotes      = 8
)

// GenericHeader is the header row of the generic ledger CSV.
var GenericHeader = []string{"date", "type", "asset_type", "symbol", "quantity", "price", "fee", "amount", "notes"}

var validTxTypes = map[model.TxType]bool{
	model.TxBuy:      true,
	model.TxSell:     true,
	model.TxDividend: true,
	model.TxCashIn:   true,
	model.TxCashOut:  true,
}

// Format returns the parser name.
func (p *GenericParser) Format() string { return "generic" }

// Parse reads a generic ledger CSV. Blank numeric cells read as zero.
func (p *GenericParser) Parse(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = genericNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := parseGenericRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func parseGenericRow(rec []string) (model.Transaction, error) {
	if !isodate.Valid(rec[genColDate]) {
		return model.Transaction{}, fmt.Errorf("invalid date %q", rec[genColDate])
	}
	txType := model.TxType(strings.ToUpper(strings.TrimSpace(rec[genColType])))
	if !validTxTypes[txType] {
		return model.Transaction{}, fmt.Errorf("unknown transaction type %q", rec[genColType])
	}
	assetType := strings.ToLower(strings.TrimSpace(rec[genColAssetType]))
	symbol := strings.TrimSpace(rec[genColSymbol])
	if assetType == "" || symbol == "" {
		return model.Transaction{}, fmt.Errorf("asset_type and symbol are required")
	}

	txn := model.Transaction{
		ID:        id.New(id.PrefixTransaction),
		Date:      rec[genColDate],
		Type:      txType,
		AssetType: assetType,
		Symbol:    symbol,
		Notes:     rec[genColNotes],
	}
	fields := []struct {
		col  int
		name string
		dst  *decimal.Decimal
	}{
		{genColQuantity, "quantity", &txn.Quantity},
		{genColPrice, "price", &txn.Price},
		{genColFee, "fee", &txn.Fee},
		{genColAmount, "amount", &txn.Amount},
	}
	for _, f := range fields {
		d, err := parseDecimal(rec[f.col])
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing %s %q: %w", f.name, rec[f.col], err)
		}
		*f.dst = d
	}
	return txn, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
