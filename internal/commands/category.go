package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCategoryCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage categories and expense lines",
	}
	cmd.AddCommand(newCategoryAddCommand(opts))
	cmd.AddCommand(newCategoryDeleteCommand(opts))
	return cmd
}

func newCategoryAddCommand(opts *globalOptions) *cobra.Command {
	var comment string

	cmd := &cobra.Command{
		Use:   "add <category> <expense> <allotted>",
		Short: "Add or update an expense line in a month",
		Args:  cobra.ExactArgs(3),
	}

	yearFlag, monthFlag := periodFlags(cmd)
	cmd.Flags().StringVar(&comment, "comment", "", "comment for the expense line")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(opts)
		if err != nil {
			return err
		}
		if err := sess.svc.AddCategory(*yearFlag, *monthFlag, args[0], args[1], args[2], comment); err != nil {
			return err
		}
		if err := sess.save(); err != nil {
			return err
		}
		fmt.Printf("Added %s / %s (allotted %s) to %s %s\n", args[0], args[1], args[2], *monthFlag, *yearFlag)
		return nil
	}

	return cmd
}

func newCategoryDeleteCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <category> [expense]",
		Short: "Delete an expense line, or a whole category",
		Args:  cobra.RangeArgs(1, 2),
	}

	yearFlag, monthFlag := periodFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(opts)
		if err != nil {
			return err
		}
		expense := ""
		if len(args) > 1 {
			expense = args[1]
		}
		if !sess.svc.DeleteCategoryOrExpense(*yearFlag, *monthFlag, args[0], expense) {
			fmt.Println("Nothing to delete")
			return nil
		}
		if err := sess.save(); err != nil {
			return err
		}
		if expense == "" {
			fmt.Printf("Deleted category %s from %s %s\n", args[0], *monthFlag, *yearFlag)
		} else {
			fmt.Printf("Deleted %s / %s from %s %s\n", args[0], expense, *monthFlag, *yearFlag)
		}
		return nil
	}

	return cmd
}
