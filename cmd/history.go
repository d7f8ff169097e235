package cmd

import (
	"fmt"

	"github.com/theirongolddev/welth/internal/cli"
	"github.com/theirongolddev/welth/internal/model"
	"github.com/theirongolddev/welth/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagHistoryCategory string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Reconstructed daily balances with daily activity",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVarP(&flagHistoryCategory, "category", "c", "", "Limit the activity columns to a category (substring match)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	user := activeUser()
	report, err := a.svc.History(ctx, user, activeDays())
	if err != nil {
		return err
	}
	snap, err := a.svc.Snapshot(ctx, user, 0)
	if err != nil {
		return err
	}

	txns := snap.Transactions
	if flagHistoryCategory != "" {
		txns = pipeline.FilterByCategory(txns, flagHistoryCategory)
	}
	until := snap.Now.AddDate(0, 0, 1)
	since := until.AddDate(0, 0, -report.Days-1)
	activity := make(map[string]model.DailyStats)
	for _, d := range pipeline.AggregateDays(txns, since, until) {
		activity[d.Date.Format("2006-01-02")] = d
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("BALANCE HISTORY  Last %dd", report.Days)))
	fmt.Println()

	values := make([]float64, len(report.Points))
	for i, p := range report.Points {
		values[i] = p.Balance.InexactFloat64()
	}
	fmt.Printf("  %s  %s\n\n", cli.RenderSparkline(values), cli.FormatMoney(report.CurrentBalance))

	rows := make([][]string, 0, len(report.Points))
	for i := len(report.Points) - 1; i >= 0; i-- {
		p := report.Points[i]
		d := activity[p.Date.Format("2006-01-02")]
		rows = append(rows, []string{
			cli.FormatDate(p.Date),
			cli.FormatMoney(p.Balance),
			cli.FormatMoneyWhole(d.Income),
			cli.FormatMoneyWhole(d.Expense),
			cli.FormatNumber(int64(d.Transactions)),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Balance", "Income", "Expense", "Txns"},
		Rows:    rows,
	}))
	return nil
}
