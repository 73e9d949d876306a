package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/runway/internal/accounts"
	"github.com/cleared-dev/runway/internal/model"
	"github.com/cleared-dev/runway/internal/report"
)

func newAccountsCommand(opts *rootOptions) *cobra.Command {
	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage account balances",
	}
	accountsCmd.AddCommand(
		newAccountsListCommand(opts),
		newAccountsSetCommand(opts),
	)
	return accountsCmd
}

func newAccountsListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts and the projected starting balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := opts.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			svc, err := accounts.Load(cmd.Context(), ws.Data)
			if err != nil {
				return err
			}
			cur := ws.Config.Currency

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tTYPE\tBALANCE")
			for _, a := range svc.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.ID, a.Name, a.Type,
					report.FormatAmount(a.Balance.Valid, a.Balance.Decimal, cur))
			}
			start := svc.StartingBalance(accounts.TypesFromStrings(ws.Config.Projection.CashAccountTypes))
			fmt.Fprintf(tw, "\nStarting balance\t\t\t%s\n", report.FormatAmount(start.Valid, start.Decimal, cur))
			return tw.Flush()
		},
	}
}

func newAccountsSetCommand(opts *rootOptions) *cobra.Command {
	var name, accountType, balance string

	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Create an account or update its balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := opts.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			svc, err := accounts.Load(cmd.Context(), ws.Data)
			if err != nil {
				return err
			}

			acct, ok := svc.Get(args[0])
			if !ok {
				if name == "" || accountType == "" {
					return fmt.Errorf("account %s not found; --name and --type are required to create it", args[0])
				}
				acct.ID = args[0]
			}
			if name != "" {
				acct.Name = name
			}
			if accountType != "" {
				acct.Type = model.AccountType(accountType)
			}
			if cmd.Flags().Changed("balance") {
				acct.Balance = model.ParseAmount(balance)
				if !acct.Balance.Valid {
					return fmt.Errorf("invalid --balance %q", balance)
				}
			}

			acct = svc.Upsert(acct)
			if err := svc.Save(cmd.Context(), ws.Data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", acct.ID,
				report.FormatAmount(acct.Balance.Valid, acct.Balance.Decimal, ws.Config.Currency))
			return ws.Snapshot("accounts: set " + acct.ID)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&accountType, "type", "", "checking, savings, cash, credit or investment")
	cmd.Flags().StringVar(&balance, "balance", "", "current balance")

	return cmd
}
