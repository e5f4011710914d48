package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/budgetbook-dev/budgetbook/internal/auditlog"
)

func newTxCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Record, delete, and list transactions",
	}
	cmd.AddCommand(newTxAddCommand(opts))
	cmd.AddCommand(newTxDeleteCommand(opts))
	cmd.AddCommand(newTxListCommand(opts))
	return cmd
}

func newTxAddCommand(opts *globalOptions) *cobra.Command {
	var comment string

	cmd := &cobra.Command{
		Use:   "add <category> <expense> <amount>",
		Short: "Record a transaction against an expense line",
		Long: "Record a transaction and roll its amount into the line's spending " +
			"total. A line that does not exist yet is created with a zero allotment. " +
			"Negative amounts record refunds.",
		Args: cobra.ExactArgs(3),
	}

	yearFlag, monthFlag := periodFlags(cmd)
	cmd.Flags().StringVar(&comment, "comment", "", "transaction description")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(opts)
		if err != nil {
			return err
		}
		txn, err := sess.svc.AddTransaction(*yearFlag, *monthFlag, args[0], args[1], args[2], comment)
		if err != nil {
			return err
		}
		// Persist before auditing: an audit row for spending that never
		// reached the data file would be replayed on the next run and
		// could later be reversed against totals that never absorbed it.
		if err := sess.save(); err != nil {
			return err
		}
		if err := sess.audit(auditlog.ActionAdd, txn); err != nil {
			return err
		}
		fmt.Printf("Recorded %s against %s / %s (%s)\n", txn.Amount, txn.Category, txn.Expense, txn.ID)
		return nil
	}

	return cmd
}

func newTxDeleteCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction and reverse its amount",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(opts)
			if err != nil {
				return err
			}
			txn, ok := sess.svc.FindTransaction(args[0])
			if !ok {
				fmt.Printf("No transaction %s\n", args[0])
				return nil
			}
			if !sess.svc.DeleteTransaction(args[0]) {
				fmt.Printf("No transaction %s\n", args[0])
				return nil
			}
			if err := sess.save(); err != nil {
				return err
			}
			if err := sess.audit(auditlog.ActionDelete, txn); err != nil {
				return err
			}
			fmt.Printf("Deleted %s, reversed %s on %s / %s\n", txn.ID, txn.Amount, txn.Category, txn.Expense)
			return nil
		},
	}
}

func newTxListCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List live transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(opts)
			if err != nil {
				return err
			}
			txns := sess.svc.Transactions()
			if len(txns) == 0 {
				fmt.Println("No transactions")
				return nil
			}

			data := pterm.TableData{{"ID", "Period", "Category", "Expense", "Amount", "Comment"}}
			for _, t := range txns {
				data = append(data, []string{
					t.ID, t.Period().String(), t.Category, t.Expense, t.Amount.String(), t.Comment,
				})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		},
	}
}
