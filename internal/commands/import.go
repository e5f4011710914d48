package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/budgetbook-dev/budgetbook/internal/auditlog"
	"github.com/budgetbook-dev/budgetbook/internal/importer"
	"github.com/budgetbook-dev/budgetbook/internal/model"
)

func newImportCommand(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <csv-file>",
		Short: "Import transactions from a CSV file",
		Args:  cobra.ExactArgs(1),
	}

	yearFlag, monthFlag := periodFlags(cmd)
	cmd.Flags().StringVar(&format, "format", "simple", "import format")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		registry := importer.DefaultRegistry()
		parser := registry.Get(format)
		if parser == nil {
			return fmt.Errorf("unknown format %q (have: %v)", format, registry.Formats())
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening import file: %w", err)
		}
		defer f.Close()

		rows, err := parser.Parse(f)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Println("Nothing to import")
			return nil
		}

		sess, err := openSession(opts)
		if err != nil {
			return err
		}
		txns := make([]model.Transaction, 0, len(rows))
		for i, row := range rows {
			txn, err := sess.svc.AddTransaction(*yearFlag, *monthFlag,
				row.Category, row.Expense, row.Amount.String(), row.Comment)
			if err != nil {
				return fmt.Errorf("row %d: %w", i+2, err)
			}
			txns = append(txns, txn)
		}
		// Persist the batch first; audit rows must never outlive a failed save.
		if err := sess.save(); err != nil {
			return err
		}
		for _, txn := range txns {
			if err := sess.audit(auditlog.ActionAdd, txn); err != nil {
				return err
			}
		}
		fmt.Printf("Imported %d transactions into %s %s\n", len(rows), *monthFlag, *yearFlag)
		return nil
	}

	return cmd
}
