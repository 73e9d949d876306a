package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/runway/internal/id"
	"github.com/cleared-dev/runway/internal/isodate"
	"github.com/cleared-dev/runway/internal/model"
	"github.com/cleared-dev/runway/internal/projection"
	"github.com/cleared-dev/runway/internal/report"
)

func newEventsCommand(opts *rootOptions) *cobra.Command {
	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "Manage recurring income and expense events",
	}
	eventsCmd.AddCommand(
		newEventsListCommand(opts),
		newEventsAddCommand(opts),
		newEventsRemoveCommand(opts),
		newEventsExpandCommand(opts),
		newEventsExportCommand(opts),
		newEventsImportCommand(opts),
	)
	return eventsCmd
}

func newEventsListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := opts.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			events, _, err := ws.Data.Events(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tDATE\tFLOW\tAMOUNT\tREPEATS")
			for _, ev := range events {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					ev.ID, ev.Title, ev.Date, ev.Flow,
					report.FormatAmount(ev.Amount.Valid, ev.Amount.Decimal, ws.Config.Currency),
					describeRecurrence(ev.Recurrence))
			}
			return tw.Flush()
		},
	}
}

func describeRecurrence(r model.Recurrence) string {
	if !r.IsRecurring() {
		return "-"
	}
	every := string(r.Freq)
	if r.Interval > 1 {
		every = fmt.Sprintf("every %d %ss", r.Interval, strings.TrimSuffix(string(r.Freq), "ly"))
	}
	switch {
	case r.Freq == model.FreqWeekly && r.ByWeekday != nil:
		every += " on " + weekdayNames[*r.ByWeekday]
	case r.Freq == model.FreqMonthly && r.ByMonthday != nil:
		every += fmt.Sprintf(" on day %d", *r.ByMonthday)
	}
	if r.Until != "" {
		every += " until " + r.Until
	}
	return every
}

var weekdayNames = []string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// parseWeekday accepts 0-6 (Sunday first) or a three-letter day name.
func parseWeekday(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 6 {
		return n, nil
	}
	for i, name := range weekdayNames {
		if strings.EqualFold(s, name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("invalid weekday %q", s)
}

func newEventsAddCommand(opts *rootOptions) *cobra.Command {
	var (
		title    string
		date     string
		flow     string
		amount   string
		freq     string
		interval int
		weekday  string
		monthday int
		until    string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a calendar event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ev, err := buildEvent(title, date, flow, amount, freq, interval, weekday, monthday, until)
			if err != nil {
				return err
			}

			ws, err := opts.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			events, _, err := ws.Data.Events(cmd.Context())
			if err != nil {
				return err
			}
			if err := ws.Data.SaveEvents(cmd.Context(), append(events, ev)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ev.ID)
			return ws.Snapshot("events: add " + ev.Title)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "event title (required)")
	cmd.Flags().StringVar(&date, "date", "", "anchor date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&flow, "flow", "expense", "income, expense or neutral")
	cmd.Flags().StringVar(&amount, "amount", "", "amount (required)")
	cmd.Flags().StringVar(&freq, "freq", "none", "none, weekly or monthly")
	cmd.Flags().IntVar(&interval, "interval", 1, "repeat every N weeks or months")
	cmd.Flags().StringVar(&weekday, "weekday", "", "weekly: day of week (default: the anchor's)")
	cmd.Flags().IntVar(&monthday, "monthday", 0, "monthly: day of month (default: the anchor's)")
	cmd.Flags().StringVar(&until, "until", "", "last possible date, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func buildEvent(title, date, flow, amount, freq string, interval int, weekday string, monthday int, until string) (model.CalendarEvent, error) {
	anchor, err := isodate.Parse(date)
	if err != nil {
		return model.CalendarEvent{}, fmt.Errorf("invalid --date: %w", err)
	}
	f := model.Flow(strings.ToLower(flow))
	switch f {
	case model.FlowIncome, model.FlowExpense, model.FlowNeutral:
	default:
		return model.CalendarEvent{}, fmt.Errorf("invalid --flow %q", flow)
	}
	amt := model.ParseAmount(amount)
	if !amt.Valid {
		return model.CalendarEvent{}, fmt.Errorf("invalid --amount %q", amount)
	}
	if until != "" && !isodate.Valid(until) {
		return model.CalendarEvent{}, fmt.Errorf("invalid --until %q", until)
	}

	rec := model.Recurrence{Freq: model.Frequency(strings.ToLower(freq))}
	switch rec.Freq {
	case model.FreqNone:
	case model.FreqWeekly:
		wd := int(anchor.Weekday())
		if weekday != "" {
			if wd, err = parseWeekday(weekday); err != nil {
				return model.CalendarEvent{}, err
			}
		}
		rec.ByWeekday = &wd
	case model.FreqMonthly:
		md := anchor.Day()
		if monthday != 0 {
			if monthday < 1 || monthday > 31 {
				return model.CalendarEvent{}, fmt.Errorf("invalid --monthday %d", monthday)
			}
			md = monthday
		}
		rec.ByMonthday = &md
	default:
		return model.CalendarEvent{}, fmt.Errorf("invalid --freq %q", freq)
	}
	if rec.IsRecurring() {
		rec.Interval = interval
		rec.Until = until
	}

	return model.CalendarEvent{
		ID:         id.New(id.PrefixEvent),
		Title:      title,
		Date:       date,
		Flow:       f,
		Amount:     amt,
		Recurrence: rec,
	}, nil
}

func newEventsRemoveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := opts.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			events, _, err := ws.Data.Events(cmd.Context())
			if err != nil {
				return err
			}
			kept := events[:0]
			for _, ev := range events {
				if ev.ID != args[0] {
					kept = append(kept, ev)
				}
			}
			if len(kept) == len(events) {
				return fmt.Errorf("event %s not found", args[0])
			}
			if err := ws.Data.SaveEvents(cmd.Context(), kept); err != nil {
				return err
			}
			return ws.Snapshot("events: remove " + args[0])
		},
	}
}

// window resolves --start/--end defaults: today and the configured horizon.
func window(start, end string, horizon int) (string, string, error) {
	if start == "" {
		start = isodate.Today()
	}
	if !isodate.Valid(start) {
		return "", "", fmt.Errorf("invalid --start %q", start)
	}
	if end == "" {
		end = isodate.MustAddDays(start, projection.ClampHorizon(horizon)-1)
	}
	if !isodate.Valid(end) || end < start {
		return "", "", fmt.Errorf("invalid --end %q", end)
	}
	return start, end, nil
}

func newEventsExpandCommand(opts *rootOptions) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "expand",
		Short: "List event occurrences in a date window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := opts.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			start, end, err := window(start, end, ws.Config.Projection.HorizonDays)
			if err != nil {
				return err
			}
			instances, err := ws.Instances(cmd.Context(), start, end)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tTITLE\tFLOW\tAMOUNT\tKEY")
			for _, inst := range instances {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					inst.InstanceDate, inst.Title, inst.Flow,
					report.FormatAmount(inst.Amount.Valid, inst.Amount.Decimal, ws.Config.Currency),
					id.FormatInstanceKey(inst.BaseID, inst.InstanceDate))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "first day, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&end, "end", "", "last day, YYYY-MM-DD (default start plus the horizon)")
	return cmd
}

func newEventsExportCommand(opts *rootOptions) *cobra.Command {
	var start, end, out string

	cmd := &cobra.Command{
		Use:   "export-ics",
		Short: "Export occurrences and bills as an iCalendar file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := opts.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			start, end, err := window(start, end, ws.Config.Projection.HorizonDays)
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				return ws.ExportCalendar(cmd.Context(), cmd.OutOrStdout(), start, end)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			if err := ws.ExportCalendar(cmd.Context(), f, start, end); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "first day, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&end, "end", "", "last day, YYYY-MM-DD (default start plus the horizon)")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file (- for stdout)")
	return cmd
}

func newEventsImportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import-ics <file>",
		Short: "Import events from an iCalendar file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := opts.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			n, warnings, err := ws.ImportEvents(cmd.Context(), f, args[0])
			if err != nil {
				return err
			}
			for _, w := range warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d event(s) from %s\n", n, args[0])
			return nil
		},
	}
}
