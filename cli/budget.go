package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"sitelink.com/sitelink/model"
	"sitelink.com/sitelink/screens"
	"sitelink.com/sitelink/screens/budget"
	"sitelink.com/sitelink/screens/forms"
)

func (a *App) budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Budgets and expenses",
	}
	cmd.AddCommand(a.budgetListCmd(), a.addExpenseCmd(), a.budgetCreateCmd())
	return cmd
}

func (a *App) budgetListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List budgets with remaining amounts",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			if _, err := a.user(); err != nil {
				return err
			}
			ledger := budget.NewLedger(a.client.Budgets, a.log)
			if err := ledger.Load(cmd.Context()); err != nil {
				return err
			}

			w := a.table()
			fmt.Fprintln(w, "ID\tPROJECT\tCATEGORY\tYEAR\tALLOCATED\tSPENT\tCOMMITTED\tREMAINING\t")
			for _, b := range ledger.Budgets() {
				flag := ""
				if b.Overspent() {
					flag = "overspent"
				}
				fmt.Fprintf(w, "%d\t%d\t%s\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%s\n",
					b.ID, b.Project, b.Category, b.FiscalYear,
					b.AllocatedAmount, b.SpentAmount, b.CommittedAmount, b.Remaining(), flag)
			}
			t := ledger.Totals()
			fmt.Fprintf(w, "\tTOTAL\t\t\t%.2f\t%.2f\t%.2f\t%.2f\t\n", t.Allocated, t.Spent, t.Committed, t.Remaining())
			return w.Flush()
		}),
	}
}

func (a *App) addExpenseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-expense BUDGET_ID AMOUNT",
		Short: "Add an expense to a budget's spent amount",
		Args:  cobra.ExactArgs(2),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return screens.Local(fmt.Errorf("invalid budget id %q", args[0]))
			}
			amount, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return screens.Local(budget.ErrInvalidAmount)
			}
			if _, err := a.user(); err != nil {
				return err
			}

			ledger := budget.NewLedger(a.client.Budgets, a.log)
			b, err := ledger.AddExpense(cmd.Context(), id, amount)
			if err != nil {
				return err
			}
			a.printf("Budget %d (%s): spent %.2f, remaining %.2f\n", b.ID, b.Category, b.SpentAmount, b.Remaining())
			return nil
		}),
	}
}

func (a *App) budgetCreateCmd() *cobra.Command {
	var d forms.BudgetDraft
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a budget line",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			if _, err := a.user(); err != nil {
				return err
			}
			if d.FiscalYear == 0 {
				d.FiscalYear = a.Now().Year()
			}
			form := forms.NewController[forms.BudgetDraft, model.Budget](a.client.Budgets, d)
			form.SetLogger(a.log)
			b, err := form.Submit(cmd.Context())
			if err != nil {
				return err
			}
			a.printf("Created budget %d: %s %.2f\n", b.ID, b.Category, b.AllocatedAmount)
			return nil
		}),
	}
	f := cmd.Flags()
	f.IntVar(&d.Project, "project", 0, "project id")
	f.StringVar(&d.Category, "category", "", "cost category")
	f.StringVar(&d.AllocatedAmount, "allocated", "", "allocated amount")
	f.StringVar(&d.SpentAmount, "spent", "", "amount already spent")
	f.StringVar(&d.CommittedAmount, "committed", "", "committed amount")
	f.IntVar(&d.FiscalYear, "fiscal-year", 0, "fiscal year, defaults to the current year")
	return cmd
}
