package chart

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/runway/internal/model"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func projection(days int) *model.Projection {
	p := &model.Projection{StartDate: "2025-01-01", EndDate: fmt.Sprintf("2025-01-%02d", days)}
	for i := 1; i <= days; i++ {
		p.Daily = append(p.Daily, model.Day{
			Date:    fmt.Sprintf("2025-01-%02d", i),
			Balance: decimal.NewFromInt(int64(500 - i*100)),
		})
	}
	return p
}

func TestRenderBalance(t *testing.T) {
	png, err := RenderBalance(projection(10))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestRenderBalance_TooFewDays(t *testing.T) {
	_, err := RenderBalance(projection(1))
	assert.Error(t, err)

	_, err = RenderBalance(nil)
	assert.Error(t, err)
}

func TestRenderBalance_BadDate(t *testing.T) {
	p := projection(3)
	p.Daily[1].Date = "2025-13-01"
	_, err := RenderBalance(p)
	assert.Error(t, err)
}
