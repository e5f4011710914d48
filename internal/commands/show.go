package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/budgetbook-dev/budgetbook/internal/report"
)

func newShowCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a month's categories and expense lines",
		Args:  cobra.NoArgs,
	}

	yearFlag, monthFlag := periodFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(opts)
		if err != nil {
			return err
		}

		sum := report.Summarize(sess.svc.Data(), *yearFlag, *monthFlag)
		if len(sum.Categories) == 0 {
			fmt.Printf("No categories in %s\n", sum.Period)
			return nil
		}

		pterm.DefaultSection.Printf("%s", sum.Period)

		data := pterm.TableData{{"Category", "Expense", "Allotted", "Spending", "Remaining", "Comment"}}
		for _, cs := range sum.Categories {
			for _, line := range cs.Lines {
				spending := line.Spending.StringFixed(2)
				if line.OverBudget {
					spending = pterm.FgRed.Sprint(spending)
				}
				data = append(data, []string{
					line.Category,
					line.Expense,
					line.Allotted.StringFixed(2),
					spending,
					line.Remaining.StringFixed(2),
					line.Comment,
				})
			}
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
			return err
		}

		fmt.Printf("Total allotted %s, spent %s\n",
			sum.TotalAllotted.StringFixed(2), sum.TotalSpending.StringFixed(2))
		return nil
	}

	return cmd
}
