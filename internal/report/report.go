package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/runway/internal/model"
)

// ProjectionOptions controls WriteProjection.
type ProjectionOptions struct {
	Currency string
	AllDays  bool // include days without activity
}

// WriteProjection writes a summary followed by a daily table.
func WriteProjection(w io.Writer, p *model.Projection, opts ProjectionOptions) error {
	m := func(d decimal.Decimal) string { return FormatMoney(d, opts.Currency) }

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Period:\t%s to %s\n", p.StartDate, p.EndDate)
	fmt.Fprintf(tw, "Starting balance:\t%s\n", m(p.StartingBalance))
	fmt.Fprintf(tw, "Projected end balance:\t%s\n", m(p.ProjectedEndBalance))
	fmt.Fprintf(tw, "Lowest balance:\t%s on %s\n", m(p.LowestBalance), p.LowestDate)
	fmt.Fprintf(tw, "Income:\t%s\n", m(p.TotalIncome))
	fmt.Fprintf(tw, "Expenses:\t%s\n", m(p.TotalExpenses))
	fmt.Fprintf(tw, "Bills:\t%s\n", m(p.TotalBills))
	fmt.Fprintf(tw, "Total out:\t%s\n", m(p.TotalOut))
	if len(p.Skipped) > 0 {
		fmt.Fprintf(tw, "Skipped:\t%d item(s)\n", len(p.Skipped))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "DATE\tINCOME\tEXPENSE\tBILLS\tNET\tBALANCE\tITEMS\t")
	for _, d := range p.Daily {
		if !opts.AllDays && len(d.Items) == 0 {
			continue
		}
		titles := make([]string, len(d.Items))
		for i, it := range d.Items {
			titles[i] = it.Title
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			d.Date, m(d.Income), m(d.Expense), m(d.Bills), m(d.NetChange), m(d.Balance),
			strings.Join(titles, ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, s := range p.Skipped {
		fmt.Fprintf(w, "skipped %s %s %s: %s\n", s.Kind, s.ID, s.Date, s.Reason)
	}
	return nil
}

// ProjectionCSVHeader is the header of WriteProjectionCSV output.
var ProjectionCSVHeader = []string{"date", "income", "expense", "bills", "net_change", "balance"}

// WriteProjectionCSV writes one row per projected day.
func WriteProjectionCSV(w io.Writer, p *model.Projection) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ProjectionCSVHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, d := range p.Daily {
		row := []string{
			d.Date,
			d.Income.StringFixed(2),
			d.Expense.StringFixed(2),
			d.Bills.StringFixed(2),
			d.NetChange.StringFixed(2),
			d.Balance.StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePortfolio writes one line per position plus totals.
func WritePortfolio(w io.Writer, pf model.Portfolio, currency string) error {
	m := func(d decimal.Decimal) string { return FormatMoney(d, currency) }

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "ASSET\tSHARES\tCOST\tPRICE\tVALUE\tUNREALIZED\t%\tREALIZED\tDIVIDENDS\t")
	for _, pos := range pf.Positions {
		shares, price := pos.Shares.String(), m(pos.Price)
		if pos.IsCash() {
			shares, price = "-", "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			pos.Key, shares, m(pos.CostBasis), price, m(pos.Value),
			m(pos.Unrealized), pos.UnrealizedPct.StringFixed(2), m(pos.RealizedGain), m(pos.Dividends))
	}
	fmt.Fprintf(tw, "TOTAL\t\t%s\t\t%s\t%s\t\t%s\t%s\t\n",
		m(pf.TotalCost), m(pf.TotalValue), m(pf.TotalUnrealized), m(pf.TotalRealized), m(pf.TotalDividends))
	return tw.Flush()
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}
