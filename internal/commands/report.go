package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/budgetbook-dev/budgetbook/internal/report"
)

func newReportCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize allotted vs spending per category",
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

		var bars []pterm.Bar
		data := pterm.TableData{{"Category", "Allotted", "Spending", "Remaining"}}
		for _, cs := range sum.Categories {
			remaining := cs.Remaining().StringFixed(2)
			if cs.OverBudget() {
				remaining = pterm.FgRed.Sprint(remaining)
			}
			data = append(data, []string{
				cs.Category,
				cs.Allotted.StringFixed(2),
				cs.Spending.StringFixed(2),
				remaining,
			})

			style := pterm.NewStyle(pterm.FgGreen)
			if cs.OverBudget() {
				style = pterm.NewStyle(pterm.FgRed)
			}
			bars = append(bars, pterm.Bar{
				Label: cs.Category,
				Value: int(cs.Spending.Round(0).IntPart()),
				Style: style,
			})
		}

		if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
			return err
		}
		if err := pterm.DefaultBarChart.WithHorizontal().WithShowValue().WithBars(bars).Render(); err != nil {
			return err
		}

		fmt.Printf("Total allotted %s, spent %s\n",
			sum.TotalAllotted.StringFixed(2), sum.TotalSpending.StringFixed(2))
		return nil
	}

	return cmd
}
