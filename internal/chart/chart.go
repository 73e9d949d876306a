// Package chart renders projection charts as PNG images.
package chart

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/cleared-dev/runway/internal/isodate"
	"github.com/cleared-dev/runway/internal/model"
)

// RenderBalance renders the projected daily balance as a PNG line chart.
// Two series: Balance (blue solid) and a zero line (red dashed).
// Returns raw PNG bytes.
func RenderBalance(p *model.Projection) ([]byte, error) {
	if p == nil || len(p.Daily) < 2 {
		return nil, fmt.Errorf("need at least 2 days to chart")
	}

	xValues := make([]time.Time, len(p.Daily))
	balanceY := make([]float64, len(p.Daily))
	zeroY := make([]float64, len(p.Daily))

	for i, d := range p.Daily {
		t, err := isodate.Parse(d.Date)
		if err != nil {
			return nil, err
		}
		xValues[i] = t
		balanceY[i] = d.Balance.InexactFloat64()
	}

	balanceSeries := chart.TimeSeries{
		Name: "Balance",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: balanceY,
	}

	zeroSeries := chart.TimeSeries{
		Name: "Zero",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("dc2626"), // red-600
			StrokeWidth:     1.0,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: zeroY,
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("Projected balance %s to %s", p.StartDate, p.EndDate),
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 02")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			balanceSeries,
			zeroSeries,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
