package cmd

import (
	"fmt"

	"github.com/theirongolddev/welth/internal/cli"
	"github.com/theirongolddev/welth/internal/service"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Income, spending and balances for the period",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	report, err := a.svc.Summary(ctx, activeUser(), activeDays())
	if err != nil {
		return err
	}
	printSummary(report)
	return nil
}

func printSummary(r *service.SummaryReport) {
	stats := r.Stats

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("WELTH  %s  Last %dd", r.UserID, r.Days)))
	fmt.Println()

	if stats.Transactions == 0 {
		fmt.Println("  No transactions in the selected period.")
		fmt.Println("  Run `welth import <path>` to load a ledger.")
		fmt.Println()
	}

	rows := [][]string{
		{"Total Balance", cli.FormatMoney(r.TotalBalance)},
		{"Savings", cli.FormatMoney(r.Savings)},
		{"Safe to Save", cli.FormatMoney(r.SafeToSave)},
		{"---"},
		{"Income", cli.FormatMoney(stats.IncomeTotal)},
		{"Expenses", cli.FormatMoney(stats.ExpenseTotal)},
		{"Net", cli.RenderSigned(cli.FormatDelta(stats.Net), stats.Net.Sign())},
		{"---"},
		{"Transactions", cli.FormatNumber(int64(stats.Transactions))},
		{"Active Days", cli.FormatNumber(int64(stats.ActiveDays))},
		{"Spend/day", cli.FormatMoney(stats.ExpensePerDay)},
		{"Avg Expense", cli.FormatMoney(stats.AvgExpense)},
		{"Largest Expense", cli.FormatMoney(stats.LargestExpense)},
	}
	if r.Budget != nil {
		budget := fmt.Sprintf("%s  (%s used)", cli.FormatMoneyWhole(r.Budget.Amount), cli.FormatPercent(r.BudgetUsage))
		if r.Budget.IsLocked {
			budget += "  LOCKED"
		}
		rows = append(rows, []string{"---"}, []string{"Monthly Budget", budget})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	if len(r.Categories) > 0 {
		fmt.Println()
		maxExpense := r.Categories[0].Expense.InexactFloat64()
		for i, c := range r.Categories {
			if i == 8 {
				break
			}
			label := fmt.Sprintf("%-14s %10s %5.1f%%", c.Category, cli.FormatMoneyWhole(c.Expense), c.SharePercent)
			fmt.Println(cli.RenderHorizontalBar(label, c.Expense.InexactFloat64(), maxExpense, 24))
		}
	}

	if len(r.Insights) > 0 {
		fmt.Println()
		for _, in := range r.Insights {
			fmt.Println(cli.RenderKV(cli.FormatAgo(in.CreatedAt, r.Until), in.Title))
		}
	}
	fmt.Println()
}
