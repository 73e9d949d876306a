package projection

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/cleared-dev/runway/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func amt(s string) model.Amount {
	return model.NewAmount(dec(s))
}

func intp(v int) *int {
	return &v
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func weekly(interval, weekday int) model.Recurrence {
	return model.Recurrence{Freq: model.FreqWeekly, Interval: interval, ByWeekday: intp(weekday)}
}

func monthly(interval, monthday int) model.Recurrence {
	return model.Recurrence{Freq: model.FreqMonthly, Interval: interval, ByMonthday: intp(monthday)}
}

func instanceDates(instances []model.EventInstance) []string {
	out := make([]string, 0, len(instances))
	for _, in := range instances {
		out = append(out, in.InstanceDate)
	}
	return out
}
