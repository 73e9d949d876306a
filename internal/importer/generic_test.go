package importer

import (
	"os"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/runway/internal/model"
	"github.com/cleared-dev/runway/internal/portfolio"
)

const genericHeaderLine = "date,type,asset_type,symbol,quantity,price,fee,amount,notes\n"

func TestGenericParser_Testdata(t *testing.T) {
	f, err := os.Open("../../testdata/transactions.csv")
	require.NoError(t, err)
	defer f.Close()

	txns, err := (&GenericParser{}).Parse(f)
	require.NoError(t, err)
	require.Len(t, txns, 7)

	assert.Equal(t, model.TxCashIn, txns[0].Type)
	assert.Equal(t, "cash:USD", txns[0].AssetKey())
	assert.True(t, txns[0].Amount.Equal(decimal.NewFromInt(10000)))
	assert.True(t, txns[0].Quantity.IsZero())

	assert.Equal(t, model.TxBuy, txns[1].Type)
	assert.Equal(t, "etf:VTI", txns[1].AssetKey())
	assert.True(t, txns[1].Quantity.Equal(decimal.NewFromInt(10)))
	assert.True(t, txns[1].Fee.Equal(decimal.NewFromInt(1)))

	assert.Equal(t, "Q1 dividend", txns[4].Notes)
	assert.Equal(t, "crypto:bitcoin", txns[5].AssetKey())
}

func TestGenericParser_FeedsLotAccounting(t *testing.T) {
	f, err := os.Open("../../testdata/transactions.csv")
	require.NoError(t, err)
	defer f.Close()

	txns, err := (&GenericParser{}).Parse(f)
	require.NoError(t, err)

	pf := portfolio.Compute(txns, nil)
	var vti model.Position
	for _, p := range pf.Positions {
		if p.Key == "etf:VTI" {
			vti = p
		}
	}
	// 20 shares at avg 255.10, 5 sold at 270 less a 1.00 fee, plus an 8.42 dividend.
	assert.True(t, vti.Shares.Equal(decimal.NewFromInt(15)), vti.Shares.String())
	assert.True(t, vti.CostBasis.Equal(decimal.RequireFromString("3826.5")), vti.CostBasis.String())
	assert.True(t, vti.Dividends.Equal(decimal.RequireFromString("8.42")), vti.Dividends.String())
	assert.True(t, vti.RealizedGain.Equal(decimal.RequireFromString("81.92")), vti.RealizedGain.String())
}

func TestGenericParser_NormalizesCase(t *testing.T) {
	csv := genericHeaderLine + "2025-01-03,buy,ETF,VTI,1,100,,,\n"
	txns, err := (&GenericParser{}).Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, model.TxBuy, txns[0].Type)
	assert.Equal(t, "etf", txns[0].AssetType)
	assert.True(t, txns[0].Fee.IsZero())
}

func TestGenericParser_Errors(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want string
	}{
		{"bad date", "01/03/2025,BUY,etf,VTI,1,100,,,", "invalid date"},
		{"bad type", "2025-01-03,SWAP,etf,VTI,1,100,,,", "unknown transaction type"},
		{"no symbol", "2025-01-03,BUY,etf,,1,100,,,", "required"},
		{"bad number", "2025-01-03,BUY,etf,VTI,one,100,,,", "parsing quantity"},
		{"short row", "2025-01-03,BUY,etf,VTI", "wrong number of fields"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&GenericParser{}).Parse(strings.NewReader(genericHeaderLine + tt.row + "\n"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGenericParser_HeaderOnly(t *testing.T) {
	txns, err := (&GenericParser{}).Parse(strings.NewReader(genericHeaderLine))
	require.NoError(t, err)
	assert.Nil(t, txns)
	assert.Len(t, GenericHeader, genericNumFields)
}
