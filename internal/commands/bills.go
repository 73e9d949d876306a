package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/runway/internal/id"
	"github.com/cleared-dev/runway/internal/isodate"
	"github.com/cleared-dev/runway/internal/model"
	"github.com/cleared-dev/runway/internal/report"
)

func newBillsCommand(opts *rootOptions) *cobra.Command {
	billsCmd := &cobra.Command{
		Use:   "bills",
		Short: "Manage one-off bills",
	}
	billsCmd.AddCommand(
		newBillsListCommand(opts),
		newBillsAddCommand(opts),
		newBillsImportCommand(opts),
	)
	return billsCmd
}

func newBillsListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored bills",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := opts.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			bills, _, err := ws.Data.Bills(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDUE\tNAME\tAMOUNT")
			for _, b := range bills {
				due := b.DueDate
				if due == "" {
					due = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.ID, due, b.Name,
					report.FormatAmount(b.Amount.Valid, b.Amount.Decimal, ws.Config.Currency))
			}
			return tw.Flush()
		},
	}
}

func newBillsAddCommand(opts *rootOptions) *cobra.Command {
	var name, due, amount string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a bill",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isodate.Valid(due) {
				return fmt.Errorf("invalid --due %q", due)
			}
			amt := model.ParseAmount(amount)
			if !amt.Valid {
				return fmt.Errorf("invalid --amount %q", amount)
			}

			ws, err := opts.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			bills, _, err := ws.Data.Bills(cmd.Context())
			if err != nil {
				return err
			}
			b := model.Bill{ID: id.New(id.PrefixBill), Name: name, DueDate: due, Amount: amt}
			if err := ws.Data.SaveBills(cmd.Context(), append(bills, b)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), b.ID)
			return ws.Snapshot("bills: add " + b.Name)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "bill name (required)")
	cmd.Flags().StringVar(&due, "due", "", "due date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "amount (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("due")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newBillsImportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import bills from a due_date,name,amount CSV",
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

			n, err := ws.ImportBills(cmd.Context(), f, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d bill(s) from %s\n", n, args[0])
			return nil
		},
	}
}
